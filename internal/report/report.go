// Package report builds the single observable artifact of a run (spec.md
// §4.6): a structured record of every task's outcome, with the Blocked vs
// Failed distinction that lets an operator tell "fix the root cause and
// resume" apart from "this exact step needs to be retried."
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/state"
)

// Outcome is the report-level classification of a task's terminal state.
// It is deliberately coarser than model.TaskStatusKind: Ready, Running, and
// Blocked all collapse to Blocked once a run has ended, because from the
// report's point of view none of them executed.
type Outcome string

const (
	OutcomeOk      Outcome = "ok"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
	OutcomeBlocked Outcome = "blocked"
)

// StepReport is one task's entry, in declared configuration order.
type StepReport struct {
	ID         string       `json:"id"`
	Kind       model.TaskKind `json:"kind"`
	Status     Outcome      `json:"status"`
	StartedAt  time.Time    `json:"started_at,omitempty"`
	FinishedAt time.Time    `json:"finished_at,omitempty"`
	Error      string       `json:"error,omitempty"`
	DurationMS int64        `json:"duration_ms,omitempty"`

	// BlockingOn names the task ids or synthetic artifact tokens this step
	// was waiting on, populated only when Status == OutcomeBlocked.
	BlockingOn []string `json:"blocking_on,omitempty"`
}

// Summary tallies each outcome across the run.
type Summary struct {
	Ok      int `json:"ok"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Blocked int `json:"blocked"`
}

// Report is the full persisted record of one run.
type Report struct {
	RunID        string            `json:"run_id"`
	WorkflowName string            `json:"workflow_name"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
	Vars         map[string]string `json:"vars"`
	Steps        []StepReport      `json:"steps"`
	Summary      Summary           `json:"summary"`
}

// IsFailedRun reports whether the CLI should exit non-zero for this run:
// any Failed or Blocked step makes the whole run a failure (spec.md §4.6).
func (r *Report) IsFailedRun() bool {
	return r.Summary.Failed > 0 || r.Summary.Blocked > 0
}

// HumanSummary renders the tally the CLI prints at the end of a run.
func (r *Report) HumanSummary() string {
	return fmt.Sprintf("ok=%d skipped=%d failed=%d blocked=%d",
		r.Summary.Ok, r.Summary.Skipped, r.Summary.Failed, r.Summary.Blocked)
}

// Build classifies every task in st into a StepReport and tallies the
// result into a Summary, in declared configuration order.
func Build(st *model.WorkflowState, runID string, finishedAt time.Time) *Report {
	r := &Report{
		RunID:        runID,
		WorkflowName: st.Name,
		StartedAt:    st.StartedAt,
		FinishedAt:   finishedAt,
		Vars:         st.Vars,
	}

	for _, t := range st.OrderedTasks() {
		sr := StepReport{ID: t.ID, Kind: t.Kind, StartedAt: t.StartedAt, FinishedAt: t.FinishedAt}
		if !t.StartedAt.IsZero() && !t.FinishedAt.IsZero() {
			sr.DurationMS = t.FinishedAt.Sub(t.StartedAt).Milliseconds()
		}

		switch t.Status.Kind {
		case model.TaskComplete:
			sr.Status = OutcomeOk
			r.Summary.Ok++
		case model.TaskSkipped:
			sr.Status = OutcomeSkipped
			r.Summary.Skipped++
		case model.TaskFailed:
			sr.Status = OutcomeFailed
			sr.Error = t.Status.Error
			r.Summary.Failed++
		default:
			// Blocked, Ready, or Running at end of run: the task never
			// reached a terminal outcome, which the report treats uniformly
			// as Blocked (spec.md §4.6).
			sr.Status = OutcomeBlocked
			sr.BlockingOn = t.Status.WaitingOn
			r.Summary.Blocked++
		}
		r.Steps = append(r.Steps, sr)
	}
	return r
}

// Save persists r as JSON under workdir's state directory, atomically.
func Save(workdir string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return state.WriteAtomic(state.ReportPath(workdir), data)
}
