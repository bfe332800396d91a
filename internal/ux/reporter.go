package ux

import (
	"time"

	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/scheduler"
)

// Reporter is a scheduler.Observer that prints the console stream a human
// operator watches during `reelforge run`, adapted from the teacher's
// phase-indexed PhaseHeader/PhaseComplete/PhaseFail console output onto
// per-task events.
type Reporter struct {
	state   *model.WorkflowState
	started map[string]time.Time
}

func NewReporter(state *model.WorkflowState) *Reporter {
	return &Reporter{state: state, started: make(map[string]time.Time)}
}

func (r *Reporter) Observe(e scheduler.Event) {
	switch e.Kind {
	case scheduler.EventTaskStarted:
		r.started[e.TaskID] = time.Now()
		kind := ""
		if t, ok := r.state.Task(e.TaskID); ok {
			kind = string(t.Kind)
		}
		TaskStart(e.TaskID, kind)
	case scheduler.EventTaskComplete:
		TaskComplete(e.TaskID, r.elapsed(e.TaskID))
	case scheduler.EventTaskFailed:
		TaskFail(e.TaskID, e.Detail)
	case scheduler.EventTaskSkipped:
		TaskSkip(e.TaskID, e.Detail)
	case scheduler.EventCheckpointReached:
		Checkpoint(e.TaskID)
	case scheduler.EventWorkflowComplete:
		Success(len(r.state.Tasks))
	case scheduler.EventWorkflowBlocked:
		Blocked(r.countBlocked())
	}
}

func (r *Reporter) elapsed(taskID string) time.Duration {
	start, ok := r.started[taskID]
	if !ok {
		return 0
	}
	delete(r.started, taskID)
	return time.Since(start)
}

func (r *Reporter) countBlocked() int {
	n := 0
	for _, t := range r.state.Tasks {
		if !t.Status.IsTerminal() {
			n++
		}
	}
	return n
}
