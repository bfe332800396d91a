// Package runtime defines the Runtime Facade (spec.md §4.4): the narrow
// interface between the core and every side-effecting capability
// (filesystem, subprocess, LLM). The scheduler and step handlers see only
// this facade, which is what lets the core admit in-memory fakes, dry-run
// recording, and a real-filesystem implementation interchangeably — the
// teacher's internal/dispatch.Dispatcher interface plays the same role for
// phase execution; this generalizes it to every side effect a step kind
// can have, not just "run a phase."
package runtime

import "context"

// CommandResult is the outcome of RunCommand.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// LLMRequest is a synchronous text-completion request (spec.md §4.4).
type LLMRequest struct {
	System      string
	User        string
	ProviderTag string
}

// Facade is the capability interface the scheduler and executor hold by
// polymorphic reference. Multiple implementations (Real, DryRun, Mock)
// coexist and are selected at construction time (spec.md's Design Notes,
// "Runtime-as-interface").
type Facade interface {
	// WorkDir returns the root directory all relative paths resolve against.
	WorkDir() string

	// EnsureDir idempotently creates relative (and its parents) under WorkDir.
	EnsureDir(relative string) error

	// WriteText creates or overwrites relative under WorkDir. The caller
	// owns content.
	WriteText(relative string, content []byte) error

	// ReadText reads relative under WorkDir. Returns a *NotFoundError if
	// absent.
	ReadText(relative string) (string, error)

	// RunCommand executes an external program. Enforces an allow-list of
	// program names when configured; rejects with *model.NotAllowedError
	// otherwise.
	RunCommand(ctx context.Context, program string, args []string, cwd string) (*CommandResult, error)

	// LLM performs a synchronous text completion against the configured
	// provider.
	LLM(ctx context.Context, req LLMRequest) (string, error)
}

// NotFoundError signals ReadText against a path with no on-disk (or
// recorded, for dry-run) representation.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return "not found: " + e.Path }

// LLMClient is the pluggable backend behind Facade.LLM. Concrete
// implementations live in package llmclient (a real OpenAI-compatible
// client) and in this package (a canned/echo client for tests).
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (string, error)
}
