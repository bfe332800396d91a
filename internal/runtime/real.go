package runtime

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/lanedrift/reelforge/internal/model"
)

// RealFacade touches disk and spawns real subprocesses. It holds a
// process-local command allow-list; when non-empty, RunCommand rejects any
// program not on the list — the same defense-in-depth posture as the
// teacher's internal/dispatch.Preflight, moved from a one-time startup
// check into a per-call gate.
type RealFacade struct {
	Root      string
	AllowList map[string]bool
	LLMClient LLMClient
}

// NewRealFacade constructs a RealFacade rooted at root. An empty or nil
// allow list disables allow-listing (any program may run).
func NewRealFacade(root string, allow []string, llm LLMClient) *RealFacade {
	f := &RealFacade{Root: root, LLMClient: llm}
	if len(allow) > 0 {
		f.AllowList = make(map[string]bool, len(allow))
		for _, p := range allow {
			f.AllowList[p] = true
		}
	}
	return f
}

func (f *RealFacade) WorkDir() string { return f.Root }

func (f *RealFacade) resolve(relative string) string {
	return filepath.Join(f.Root, relative)
}

func (f *RealFacade) EnsureDir(relative string) error {
	if err := os.MkdirAll(f.resolve(relative), 0o755); err != nil {
		return model.NewRuntimeError("ensure_dir "+relative, err)
	}
	return nil
}

func (f *RealFacade) WriteText(relative string, content []byte) error {
	path := f.resolve(relative)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.NewRuntimeError("write_text "+relative, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return model.NewRuntimeError("write_text "+relative, err)
	}
	return nil
}

func (f *RealFacade) ReadText(relative string) (string, error) {
	data, err := os.ReadFile(f.resolve(relative))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Path: relative}
		}
		return "", model.NewRuntimeError("read_text "+relative, err)
	}
	return string(data), nil
}

func (f *RealFacade) RunCommand(ctx context.Context, program string, args []string, cwd string) (*CommandResult, error) {
	if f.AllowList != nil && !f.AllowList[program] {
		return nil, &model.NotAllowedError{Program: program}
	}

	cmd := exec.CommandContext(ctx, program, args...)
	if cwd != "" {
		cmd.Dir = f.resolve(cwd)
	} else {
		cmd.Dir = f.Root
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	code, err := exitCode(runErr)
	if err != nil {
		return nil, model.NewRuntimeError("run_command "+program, err)
	}
	return &CommandResult{ExitCode: code, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

func (f *RealFacade) LLM(ctx context.Context, req LLMRequest) (string, error) {
	if f.LLMClient == nil {
		return "", model.NewRuntimeError("llm", errors.New("no LLM client configured"))
	}
	return f.LLMClient.Complete(ctx, req)
}

// exitCode extracts an exit code from a command error, mirroring the
// teacher's internal/dispatch.exitCode: (code, nil) for *exec.ExitError,
// (0, err) for any other error, (0, nil) for nil.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
