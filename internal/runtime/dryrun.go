package runtime

import (
	"context"
	"fmt"
	"sync"
)

// DryRunOp records one intended side effect, in the order it was requested.
type DryRunOp struct {
	Kind     string // "ensure_dir", "write_text", "run_command", "llm"
	Relative string
	Detail   string
}

// DryRunFacade never touches disk. It records intended directory creations,
// writes, commands and LLM calls in order in Ops; ReadText returns only
// what was recorded earlier in this same session, matching spec.md §4.4's
// dry-run contract.
type DryRunFacade struct {
	Root string

	mu      sync.Mutex
	Ops     []DryRunOp
	written map[string][]byte
	dirs    map[string]bool
}

func NewDryRunFacade(root string) *DryRunFacade {
	return &DryRunFacade{
		Root:    root,
		written: make(map[string][]byte),
		dirs:    make(map[string]bool),
	}
}

func (f *DryRunFacade) WorkDir() string { return f.Root }

func (f *DryRunFacade) EnsureDir(relative string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs[relative] = true
	f.Ops = append(f.Ops, DryRunOp{Kind: "ensure_dir", Relative: relative})
	return nil
}

func (f *DryRunFacade) WriteText(relative string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written[relative] = content
	f.Ops = append(f.Ops, DryRunOp{Kind: "write_text", Relative: relative, Detail: fmt.Sprintf("%d bytes", len(content))})
	return nil
}

func (f *DryRunFacade) ReadText(relative string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.written[relative]
	if !ok {
		return "", &NotFoundError{Path: relative}
	}
	return string(content), nil
}

func (f *DryRunFacade) RunCommand(_ context.Context, program string, args []string, cwd string) (*CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, DryRunOp{Kind: "run_command", Relative: cwd, Detail: fmt.Sprintf("%s %v", program, args)})
	return &CommandResult{ExitCode: 0, Stdout: "(dry-run)"}, nil
}

func (f *DryRunFacade) LLM(_ context.Context, req LLMRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, DryRunOp{Kind: "llm", Detail: req.ProviderTag})
	return "(dry-run completion)", nil
}
