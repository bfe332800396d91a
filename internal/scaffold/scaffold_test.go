package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lanedrift/reelforge/internal/executor"
	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/runtime"
	"github.com/lanedrift/reelforge/internal/scheduler"
	"github.com/lanedrift/reelforge/internal/workflow"
)

func TestInit_CreatesDirectoryStructure(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, path := range []string{
		"workflow.yaml",
		filepath.Join(".reelforge", ".gitignore"),
	} {
		full := filepath.Join(dir, path)
		info, err := os.Stat(full)
		if err != nil {
			t.Fatalf("%s not created: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}

	gitignore, err := os.ReadFile(filepath.Join(dir, ".reelforge", ".gitignore"))
	if err != nil {
		t.Fatalf("reading .gitignore: %v", err)
	}
	if !strings.Contains(string(gitignore), "state.json") {
		t.Fatalf(".gitignore missing state.json entry, got: %q", string(gitignore))
	}
}

func TestInit_GeneratedWorkflowIsValid(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	st, err := workflow.Load(filepath.Join(dir, "workflow.yaml"))
	if err != nil {
		t.Fatalf("workflow.Load failed on generated workflow: %v", err)
	}
	if len(st.OrderedTasks()) < 1 {
		t.Fatal("expected at least 1 task")
	}
}

func TestInit_FailsIfDirExists(t *testing.T) {
	dir := t.TempDir()
	reelDir := filepath.Join(dir, ".reelforge")
	if err := os.MkdirAll(reelDir, 0755); err != nil {
		t.Fatal(err)
	}

	err := Init(dir)
	if err == nil {
		t.Fatal("expected error when .reelforge already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected error containing 'already exists', got: %s", err)
	}
}

// TestInit_GeneratedWorkflowRunsDryRunCleanly drives the freshly scaffolded
// workflow.yaml through the scheduler with a dry-run facade and the review
// checkpoint pre-approved, as `reelforge run --dry-run --auto` would once
// past the CLI's preflight check (which this test does not run). The narrate step's args
// reference the script/narration artifacts by id ({{script}}, {{narration}})
// with no corresponding vars: entry, relying on scheduler.taskVars to supply
// an artifact-id -> path fallback — this must not fail with a TemplateError.
func TestInit_GeneratedWorkflowRunsDryRunCleanly(t *testing.T) {
	st, err := workflow.Parse([]byte(starterWorkflow))
	if err != nil {
		t.Fatalf("parsing starter workflow: %v", err)
	}
	st.Checkpoints["review"] = true // auto-approve, as --auto would

	sched := scheduler.New(st, executor.New(), runtime.NewDryRunFacade(t.TempDir()))
	if err := sched.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"write-script", "narrate", "review"} {
		if got := st.Tasks[id].Status.Kind; got != model.TaskComplete {
			t.Fatalf("task %s status = %s (%s), want complete", id, got, st.Tasks[id].Status.Error)
		}
	}
}

func TestRenderStepSummary(t *testing.T) {
	st, err := workflow.Parse([]byte(starterWorkflow))
	if err != nil {
		t.Fatalf("parsing starter workflow: %v", err)
	}
	got := renderStepSummary(st)
	want := "write-script → narrate → review"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
