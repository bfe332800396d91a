package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lanedrift/reelforge/internal/model"
)

func externalInputState(t *testing.T, workdir string) *model.WorkflowState {
	t.Helper()
	st := model.NewWorkflowState("demo", "1")
	if err := st.AddArtifact(&model.Artifact{ID: "script", Path: "script.txt", Status: model.ArtifactReady}); err != nil {
		t.Fatal(err)
	}
	if err := st.AddArtifact(&model.Artifact{ID: "narration", Path: "narration.wav", Status: model.ArtifactReady}); err != nil {
		t.Fatal(err)
	}
	narrate := &model.Task{
		ID:      "narrate",
		Kind:    model.KindTTS,
		Inputs:  []model.InputSpec{{Kind: model.InputRequired, ArtifactID: "script"}},
		Outputs: []model.OutputSpec{{ArtifactID: "narration", Primary: true}},
		Status:  model.Complete(),
	}
	if err := st.AddTask(narrate); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(workdir, "script.txt"), []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestWatcher_WriteToExternalArtifactTriggersInvalidation(t *testing.T) {
	dir := t.TempDir()
	st := externalInputState(t, dir)

	invalidated := make(chan []string, 1)
	w, err := New(dir, st, func(artifactIDs, taskIDs []string) {
		invalidated <- taskIDs
	})
	if err != nil {
		t.Fatal(err)
	}
	w.debounce = 10 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "script.txt"), []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case taskIDs := <-invalidated:
		if len(taskIDs) != 1 || taskIDs[0] != "narrate" {
			t.Fatalf("taskIDs = %v, want [narrate]", taskIDs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for invalidation callback")
	}

	narrate, _ := st.Task("narrate")
	if narrate.Status.Kind != model.TaskBlocked {
		t.Fatalf("narrate status = %+v, want Blocked", narrate.Status)
	}
}

func TestWatcher_StartThenStop(t *testing.T) {
	dir := t.TempDir()
	st := externalInputState(t, dir)
	w, err := New(dir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}
}
