// Package doctor summarizes why a run did not finish cleanly: which tasks
// ended Failed or Blocked, what each failure said, and what was captured to
// the feedback directory. Unlike the teacher's internal/doctor (which
// shells out to an AI CLI for a diagnosis), this is pure reporting over the
// persisted model.WorkflowState — no side effects, no subprocess.
package doctor

import (
	"fmt"
	"strings"

	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/state"
)

// Report is the summary doctor.Run prints: every non-terminal-success task
// at the end of a run, with enough context for a human to decide whether
// to fix the workflow or just resume it.
type Report struct {
	WorkflowName string
	Failed       []TaskNote
	Blocked      []TaskNote
	Feedback     string
}

type TaskNote struct {
	ID     string
	Kind   model.TaskKind
	Detail string
}

// Run builds a Report from the workdir's persisted state. Returns nil if
// the last run has nothing to diagnose (no Failed or Blocked tasks).
func Run(workdir string) (*Report, error) {
	st, err := state.Load(workdir)
	if err != nil {
		return nil, fmt.Errorf("doctor: loading state: %w", err)
	}
	if st == nil {
		return nil, fmt.Errorf("doctor: no run recorded under %s", workdir)
	}

	r := &Report{WorkflowName: st.Name}
	for _, t := range st.OrderedTasks() {
		switch t.Status.Kind {
		case model.TaskFailed:
			r.Failed = append(r.Failed, TaskNote{ID: t.ID, Kind: t.Kind, Detail: t.Status.Error})
		case model.TaskBlocked, model.TaskReady, model.TaskRunning:
			detail := ""
			if len(t.Status.WaitingOn) > 0 {
				detail = "waiting on " + strings.Join(t.Status.WaitingOn, ", ")
			}
			r.Blocked = append(r.Blocked, TaskNote{ID: t.ID, Kind: t.Kind, Detail: detail})
		}
	}

	if len(r.Failed) == 0 && len(r.Blocked) == 0 {
		return nil, nil
	}

	feedback, err := state.ReadAllFeedback(workdir)
	if err == nil {
		r.Feedback = feedback
	}
	return r, nil
}

// Format renders a Report as the CLI's human-readable diagnosis text.
func (r *Report) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workflow %q did not finish cleanly.\n\n", r.WorkflowName)

	if len(r.Failed) > 0 {
		fmt.Fprintf(&b, "Failed tasks:\n")
		for _, n := range r.Failed {
			fmt.Fprintf(&b, "  %s (%s): %s\n", n.ID, n.Kind, n.Detail)
		}
		b.WriteString("\n")
	}

	if len(r.Blocked) > 0 {
		fmt.Fprintf(&b, "Blocked tasks:\n")
		for _, n := range r.Blocked {
			fmt.Fprintf(&b, "  %s (%s): %s\n", n.ID, n.Kind, n.Detail)
		}
		b.WriteString("\n")
	}

	if r.Feedback != "" {
		fmt.Fprintf(&b, "Captured feedback:\n%s\n\n", r.Feedback)
	}

	b.WriteString("Fix the failing task's inputs or configuration, then resume with:\n")
	fmt.Fprintf(&b, "  reelforge run --workdir <dir> --resume\n")
	return b.String()
}
