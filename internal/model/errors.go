package model

import "fmt"

// ConfigurationError signals a malformed workflow graph: duplicate or empty
// ids, an unknown step kind, a dependency cycle, or a dangling reference.
// Raised before execution; no state changes have happened yet.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Msg }

func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// TemplateError signals a {{name}} token with no entry in the merged
// variable map, attributed to the task where it appears.
type TemplateError struct {
	Var    string
	TaskID string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template: variable %q not found (task %q)", e.Var, e.TaskID)
}

// ExecutorError wraps any failure returned by the executor: subprocess
// non-zero exit, HTTP failure, decode failure. Carried opaquely as a message.
type ExecutorError struct {
	Msg string
	Err error
}

func (e *ExecutorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("executor: %s: %v", e.Msg, e.Err)
	}
	return "executor: " + e.Msg
}

func (e *ExecutorError) Unwrap() error { return e.Err }

func NewExecutorError(msg string, err error) error {
	return &ExecutorError{Msg: msg, Err: err}
}

// RuntimeError signals a Runtime Facade failure below the executor level:
// filesystem or subprocess invocation failed (permission, missing binary).
type RuntimeError struct {
	Msg string
	Err error
}

func (e *RuntimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("runtime: %s: %v", e.Msg, e.Err)
	}
	return "runtime: " + e.Msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func NewRuntimeError(msg string, err error) error {
	return &RuntimeError{Msg: msg, Err: err}
}

// NotAllowedError signals run_command invoked with a program absent from
// the configured allow-list.
type NotAllowedError struct {
	Program string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("runtime: program %q is not on the allow-list", e.Program)
}

// CancelledMessage is the canonical error message for a cancelled step,
// honored by the scheduler the same way as any other ExecutorError.
const CancelledMessage = "cancelled"
