package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/runtime"
	"github.com/lanedrift/reelforge/internal/state"
	"github.com/lanedrift/reelforge/internal/template"
)

// Scheduler drives one model.WorkflowState to a fixed point: every task
// either Complete, Failed, Skipped, or indefinitely Blocked. The only
// Payload key it reads is resume_output, for the resume check. Step side
// effects go through the runtime.Facade via the StepExecutor; the one
// direct filesystem write is a failed task's feedback file
// (state.WriteFeedback under the facade's WorkDir).
type Scheduler struct {
	State    *model.WorkflowState
	Executor StepExecutor
	Facade   runtime.Facade

	// Parallel enables concurrent dispatch of a batch of mutually
	// compatible tasks (spec.md §4.2's "parallel model"); the default,
	// single-threaded cooperative loop runs a batch one task at a time.
	Parallel bool

	// Resume enables the output-validity skip check (spec.md §4.5): before
	// running a task, if its resume_output path (when declared) or else
	// every primary output is already valid on disk, the task is marked
	// Skipped without invoking the executor.
	Resume bool

	// Validator reports whether the artifact at path already holds valid
	// content, per the output-validity predicate of spec.md §4.5 (ffprobe
	// duration check for media, non-empty check otherwise). Required when
	// Resume is true.
	Validator func(path string) bool

	Observer Observer

	mu                sync.Mutex
	occupiedGroups    map[string]bool
	occupiedResources map[string]bool
	checkpointNotified map[string]bool
}

// New builds a Scheduler over st, dispatching through executor and facade.
func New(st *model.WorkflowState, executor StepExecutor, facade runtime.Facade) *Scheduler {
	return &Scheduler{
		State:              st,
		Executor:           executor,
		Facade:             facade,
		occupiedGroups:     make(map[string]bool),
		occupiedResources:  make(map[string]bool),
		checkpointNotified: make(map[string]bool),
	}
}

// emit and markOutputsReady both touch shared state (the observer and the
// Artifacts map) that concurrent dispatch in Parallel mode can reach from
// more than one goroutine at once, so both take s.mu.
func (s *Scheduler) emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Observer != nil {
		s.Observer.Observe(e)
	}
}

// Run executes the cooperative dispatch loop until the workflow completes or
// no further progress is possible. It returns an error only for context
// cancellation or a programming-level inconsistency; ordinary task failures
// and indefinite blocking are reflected in s.State and via EventWorkflowBlocked
// / EventWorkflowComplete, not as a returned error.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.refresh(ctx); err != nil {
			return err
		}

		batch := s.selectDispatchable()
		if len(batch) == 0 {
			if s.allTerminal() {
				s.State.Complete = true
				s.State.Touch()
				s.emit(Event{Kind: EventWorkflowComplete})
				return nil
			}
			s.State.Touch()
			s.emit(Event{Kind: EventWorkflowBlocked})
			return nil
		}

		if s.Parallel {
			s.dispatchBatchParallel(ctx, batch)
		} else {
			for _, t := range batch {
				s.dispatchOne(ctx, t)
			}
		}
		s.State.Touch()
	}
}

// allTerminal reports whether every task has reached a terminal status.
func (s *Scheduler) allTerminal() bool {
	for _, t := range s.State.Tasks {
		if !t.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// refresh recomputes the status of every non-terminal, non-running task from
// current artifact availability (spec.md §4.2 step 2), synthesizing
// Placeholder stand-ins along the way.
func (s *Scheduler) refresh(ctx context.Context) error {
	for _, t := range s.State.OrderedTasks() {
		if t.Status.Kind == model.TaskRunning || t.Status.IsTerminal() {
			continue
		}

		var waiting []string
		for _, in := range t.Inputs {
			art, ok := s.State.Artifact(in.ArtifactID)
			if !ok {
				return fmt.Errorf("scheduler: task %q references unknown artifact %q", t.ID, in.ArtifactID)
			}
			switch in.Kind {
			case model.InputRequired:
				if !art.Status.Satisfies() {
					waiting = append(waiting, waitToken(s.State, in.ArtifactID))
				}
			case model.InputPlaceholder:
				if art.Status == model.ArtifactMissing {
					if err := s.Executor.SynthesizePlaceholder(ctx, s.Facade, art.Path, in.PlaceholderKind); err != nil {
						return fmt.Errorf("scheduler: synthesize placeholder for %q: %w", in.ArtifactID, err)
					}
					art.Status = model.ArtifactPlaceholder
					art.IsPlaceholder = true
					art.CreatedAt = time.Now()
				}
			case model.InputOptional:
				// never blocks dispatch regardless of artifact status.
			}
		}

		if t.Kind == model.KindCheckpoint && len(waiting) == 0 {
			if !s.State.Checkpoints[t.ID] {
				if !s.checkpointNotified[t.ID] {
					s.checkpointNotified[t.ID] = true
					s.emit(Event{Kind: EventCheckpointReached, TaskID: t.ID})
				}
				t.Status = model.Blocked()
				continue
			}
		}

		if len(waiting) == 0 {
			if t.Status.Kind != model.TaskReady {
				t.Status = model.Ready()
				s.emit(Event{Kind: EventTaskReady, TaskID: t.ID})
			}
		} else {
			t.Status = model.Blocked(waiting...)
		}
	}
	return nil
}

// waitToken names what a task with an unsatisfied Required input is waiting
// on: the id of the task that produces it, or a synthetic artifact token for
// inputs with no producer (workflow inputs never supplied).
func waitToken(s *model.WorkflowState, artifactID string) string {
	if p := s.ProducerOf(artifactID); p != "" {
		return p
	}
	return "artifact:" + artifactID
}

// selectDispatchable returns every Ready task not excluded by currently
// occupied sequential groups/resources, reserving groups/resources claimed
// within this same batch so two same-group tasks never both dispatch in one
// pass (spec.md §3's sequential_group / resource constraints).
func (s *Scheduler) selectDispatchable() []*model.Task {
	reservedGroups := make(map[string]bool)
	reservedResources := make(map[string]bool)

	var out []*model.Task
	for _, t := range s.State.OrderedTasks() {
		if t.Status.Kind != model.TaskReady {
			continue
		}
		g := t.Constraints.SequentialGroup
		r := t.Constraints.Resource
		if g != "" && (s.occupiedGroups[g] || reservedGroups[g]) {
			continue
		}
		if r != "" && (s.occupiedResources[r] || reservedResources[r]) {
			continue
		}
		if g != "" {
			reservedGroups[g] = true
		}
		if r != "" {
			reservedResources[r] = true
		}
		out = append(out, t)
	}
	return out
}

func (s *Scheduler) occupy(t *model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Constraints.SequentialGroup != "" {
		s.occupiedGroups[t.Constraints.SequentialGroup] = true
	}
	if t.Constraints.Resource != "" {
		s.occupiedResources[t.Constraints.Resource] = true
	}
}

func (s *Scheduler) release(t *model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Constraints.SequentialGroup != "" {
		delete(s.occupiedGroups, t.Constraints.SequentialGroup)
	}
	if t.Constraints.Resource != "" {
		delete(s.occupiedResources, t.Constraints.Resource)
	}
}

// taskVars returns the variable map passed to the executor: the workflow's
// declared/overridden vars (spec.md §6 "merged variable map"), augmented
// with one entry per artifact id mapping to its resolved on-disk path, so a
// step's payload can reference an upstream artifact by id (e.g.
// "{{script}}") without a separate vars: declaration duplicating it. A
// declared var takes precedence over an artifact id of the same name.
func (s *Scheduler) taskVars() map[string]string {
	merged := make(map[string]string, len(s.State.Vars)+len(s.State.Artifacts))
	for k, v := range s.State.Vars {
		merged[k] = v
	}
	for id, art := range s.State.Artifacts {
		if _, exists := merged[id]; exists {
			continue
		}
		merged[id] = art.Path
	}
	return merged
}

// dispatchOne runs a single task to completion synchronously.
func (s *Scheduler) dispatchOne(ctx context.Context, t *model.Task) {
	if t.Kind == model.KindCheckpoint {
		// Reached only once Checkpoints[t.ID] is true (refresh would have
		// left it Blocked otherwise), so dispatch is a no-op completion.
		t.Status = model.Complete()
		s.markOutputsReady(t)
		s.emit(Event{Kind: EventTaskComplete, TaskID: t.ID})
		return
	}

	if s.Resume && s.Validator != nil && s.outputsAlreadyValid(t) {
		t.Status = model.Skipped("resume: declared output already valid")
		s.markOutputsReady(t)
		s.emit(Event{Kind: EventTaskSkipped, TaskID: t.ID})
		return
	}

	s.occupy(t)
	defer s.release(t)

	t.Status = model.Running()
	t.StartedAt = time.Now()
	s.emit(Event{Kind: EventTaskStarted, TaskID: t.ID})

	err := s.Executor.Execute(ctx, t, s.Facade, s.taskVars())
	t.FinishedAt = time.Now()

	if err != nil {
		t.Status = model.Failed(err.Error())
		if werr := state.WriteFeedback(s.Facade.WorkDir(), t.ID, err.Error()); werr != nil {
			s.emit(Event{Kind: EventTaskFailed, TaskID: t.ID, Detail: fmt.Sprintf("%s (feedback write failed: %v)", err.Error(), werr)})
			return
		}
		s.emit(Event{Kind: EventTaskFailed, TaskID: t.ID, Detail: err.Error()})
		return
	}
	t.Status = model.Complete()
	s.markOutputsReady(t)
	s.emit(Event{Kind: EventTaskComplete, TaskID: t.ID})
}

// outputsAlreadyValid reports whether t's declared output already passes
// the output-validity predicate: the template-expanded resume_output path
// when the step declares one, otherwise every primary output artifact. A
// task with neither is never resume-skipped (mkdir/checkpoint style tasks
// have no durable output to validate against).
func (s *Scheduler) outputsAlreadyValid(t *model.Task) bool {
	if p, ok := t.Payload["resume_output"].(string); ok && p != "" {
		path, err := template.Expand(p, s.taskVars(), t.ID)
		return err == nil && s.Validator(path)
	}
	primary := t.PrimaryOutputs()
	if len(primary) == 0 {
		return false
	}
	for _, id := range primary {
		art, ok := s.State.Artifact(id)
		if !ok {
			return false
		}
		if !s.Validator(art.Path) {
			return false
		}
	}
	return true
}

func (s *Scheduler) markOutputsReady(t *model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range t.Outputs {
		art, ok := s.State.Artifact(o.ArtifactID)
		if !ok {
			continue
		}
		art.Status = model.ArtifactReady
		art.IsPlaceholder = false
		art.ProducerTaskID = t.ID
		art.CreatedAt = time.Now()
	}
}

// dispatchBatchParallel runs every task in batch concurrently, mirroring the
// teacher's runParallel goroutine-per-unit-of-work style.
func (s *Scheduler) dispatchBatchParallel(ctx context.Context, batch []*model.Task) {
	var wg sync.WaitGroup
	wg.Add(len(batch))
	for _, t := range batch {
		t := t
		go func() {
			defer wg.Done()
			s.dispatchOne(ctx, t)
		}()
	}
	wg.Wait()
}
