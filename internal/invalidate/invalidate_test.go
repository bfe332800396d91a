package invalidate

import (
	"sort"
	"testing"

	"github.com/lanedrift/reelforge/internal/model"
)

// linearComplete builds A->B->C, all three tasks Complete and all three
// artifacts Ready, mirroring spec.md §8's invalidation cascade scenario.
func linearComplete(t *testing.T) *model.WorkflowState {
	t.Helper()
	st := model.NewWorkflowState("cascade", "v1")
	for _, id := range []string{"a-out", "b-out", "c-out"} {
		if err := st.AddArtifact(&model.Artifact{ID: id, Path: id, Status: model.ArtifactReady}); err != nil {
			t.Fatal(err)
		}
	}
	add := func(task *model.Task) {
		task.Status = model.Complete()
		if err := st.AddTask(task); err != nil {
			t.Fatal(err)
		}
	}
	add(&model.Task{ID: "A", Outputs: []model.OutputSpec{{ArtifactID: "a-out", Primary: true}}})
	add(&model.Task{
		ID:      "B",
		Inputs:  []model.InputSpec{{Kind: model.InputRequired, ArtifactID: "a-out"}},
		Outputs: []model.OutputSpec{{ArtifactID: "b-out", Primary: true}},
	})
	add(&model.Task{
		ID:      "C",
		Inputs:  []model.InputSpec{{Kind: model.InputRequired, ArtifactID: "b-out"}},
		Outputs: []model.OutputSpec{{ArtifactID: "c-out", Primary: true}},
	})
	return st
}

func TestInvalidate_CascadesDownstreamOnly(t *testing.T) {
	st := linearComplete(t)

	artIDs, taskIDs := Invalidate(st, "a-out")

	sort.Strings(artIDs)
	sort.Strings(taskIDs)
	if got, want := artIDs, []string{"a-out", "b-out", "c-out"}; !equal(got, want) {
		t.Fatalf("invalidated artifacts = %v, want %v", got, want)
	}
	if got, want := taskIDs, []string{"B", "C"}; !equal(got, want) {
		t.Fatalf("reset tasks = %v, want %v", got, want)
	}

	if st.Tasks["A"].Status.Kind != model.TaskComplete {
		t.Fatalf("A must remain complete, got %s", st.Tasks["A"].Status.Kind)
	}
	if st.Tasks["B"].Status.Kind != model.TaskBlocked {
		t.Fatalf("B = %s, want blocked", st.Tasks["B"].Status.Kind)
	}
	if st.Tasks["C"].Status.Kind != model.TaskBlocked {
		t.Fatalf("C = %s, want blocked", st.Tasks["C"].Status.Kind)
	}
	if st.Artifacts["b-out"].Status != model.ArtifactInvalidated {
		t.Fatalf("b-out = %s, want invalidated", st.Artifacts["b-out"].Status)
	}
	if st.Artifacts["c-out"].Status != model.ArtifactInvalidated {
		t.Fatalf("c-out = %s, want invalidated", st.Artifacts["c-out"].Status)
	}
}

func TestInvalidate_MissingArtifactIsNoOp(t *testing.T) {
	st := linearComplete(t)
	st.Artifacts["a-out"].Status = model.ArtifactMissing

	artIDs, taskIDs := Invalidate(st, "a-out")
	if artIDs != nil || taskIDs != nil {
		t.Fatalf("expected no-op, got artifacts=%v tasks=%v", artIDs, taskIDs)
	}
	if st.Tasks["B"].Status.Kind != model.TaskComplete {
		t.Fatal("B must be untouched when invalidating a Missing artifact")
	}
}

func TestInvalidate_PlaceholderIsNoOp(t *testing.T) {
	st := linearComplete(t)
	st.Artifacts["a-out"].Status = model.ArtifactPlaceholder

	artIDs, taskIDs := Invalidate(st, "a-out")
	if artIDs != nil || taskIDs != nil {
		t.Fatalf("expected no-op, got artifacts=%v tasks=%v", artIDs, taskIDs)
	}
}

func TestInvalidate_UnknownArtifactIsNoOp(t *testing.T) {
	st := linearComplete(t)
	artIDs, taskIDs := Invalidate(st, "does-not-exist")
	if artIDs != nil || taskIDs != nil {
		t.Fatalf("expected no-op, got artifacts=%v tasks=%v", artIDs, taskIDs)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
