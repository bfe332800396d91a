// Package scheduler drives a model.WorkflowState forward under resource and
// ordering constraints (spec.md §4.2): refreshing task statuses from
// artifact availability, selecting a dispatchable set, running it through
// an opaque StepExecutor, and folding outcomes back into the state until no
// more progress is possible.
package scheduler

import (
	"context"

	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/runtime"
)

// StepExecutor is the opaque collaborator the scheduler dispatches tasks
// through. Individual step handlers (TTS, image-gen, ffmpeg orchestration,
// whisper transcription, LLM text generation, ...) are deliberately out of
// scope for this module (spec.md §1) — the scheduler only ever calls this
// interface, never a concrete handler. This mirrors the teacher's
// dispatch.Dispatcher, generalized from "route a phase by type" to
// "execute any task kind against the Runtime Facade."
type StepExecutor interface {
	// Execute runs t against rt using the merged variable map vars. A
	// non-nil error is folded into model.Failed — see spec.md §4.2 step 4.
	Execute(ctx context.Context, t *model.Task, rt runtime.Facade, vars map[string]string) error

	// SynthesizePlaceholder writes a synthetic stand-in artifact of kind at
	// the given relative path, for a Placeholder input spec whose real
	// artifact is still Missing (spec.md §3).
	SynthesizePlaceholder(ctx context.Context, rt runtime.Facade, relativePath string, kind model.PlaceholderKind) error
}
