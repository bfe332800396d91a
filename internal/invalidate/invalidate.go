// Package invalidate implements the cascading artifact invalidation
// described in spec.md §4.3: when an artifact's recorded content digest no
// longer matches its on-disk content (or a caller asks for it explicitly),
// every downstream artifact and task is demoted so the scheduler's next
// refresh rediscovers a runnable frontier. This mirrors the reverse
// reachability sweep the pack's DAG-executor examples run over a
// consumes/produces relation, adapted to the tagged Artifact/Task statuses
// of this model.
package invalidate

import "github.com/lanedrift/reelforge/internal/model"

// Invalidate demotes everything transitively downstream of
// changedArtifactID, returning the ids of every artifact and task touched
// (changedArtifactID included, for logging/report purposes).
// changedArtifactID itself keeps its status: it holds the new content, so
// its consumers become runnable again once reset. Invalidating a Missing
// or Placeholder artifact is a no-op per spec.md §4.3's edge cases.
func Invalidate(state *model.WorkflowState, changedArtifactID string) (artifactIDs []string, taskIDs []string) {
	changed, ok := state.Artifact(changedArtifactID)
	if !ok {
		return nil, nil
	}
	if changed.Status == model.ArtifactMissing || changed.Status == model.ArtifactPlaceholder {
		return nil, nil
	}

	invalidated := map[string]bool{changedArtifactID: true}
	resetTasks := map[string]bool{}
	frontier := []string{changedArtifactID}

	for len(frontier) > 0 {
		a := frontier[0]
		frontier = frontier[1:]

		for _, t := range state.ConsumersOf(a) {
			// Every consumer of a is reset regardless of the input's kind
			// (Required, Optional, or Placeholder) — default policy demotes
			// all of them, not just Required consumers.
			if t.Status.Kind == model.TaskComplete {
				resetTasks[t.ID] = true
			}
			for _, o := range t.Outputs {
				if invalidated[o.ArtifactID] {
					continue
				}
				invalidated[o.ArtifactID] = true
				frontier = append(frontier, o.ArtifactID)
			}
		}
	}

	for id := range invalidated {
		art, ok := state.Artifact(id)
		if !ok {
			continue
		}
		if id != changedArtifactID && art.Status == model.ArtifactReady {
			art.Status = model.ArtifactInvalidated
		}
		artifactIDs = append(artifactIDs, id)
	}
	for id := range resetTasks {
		t, ok := state.Task(id)
		if !ok {
			continue
		}
		t.Status = model.Blocked()
		taskIDs = append(taskIDs, id)
	}

	state.Touch()
	return artifactIDs, taskIDs
}
