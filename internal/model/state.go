package model

import "time"

// WorkflowState is the aggregate the scheduler, invalidation engine, resume
// logic, and report builder all operate over (spec.md §3).
type WorkflowState struct {
	Name    string
	Version string

	StartedAt time.Time
	UpdatedAt time.Time

	Vars map[string]string

	Tasks     map[string]*Task
	Artifacts map[string]*Artifact

	// TaskOrder preserves configuration declaration order, used for
	// deterministic tie-breaking and report ordering.
	TaskOrder []string

	// Checkpoints maps a checkpoint task id to whether it has been
	// explicitly approved (spec.md §3 invariant 8).
	Checkpoints map[string]bool

	Complete bool
	Error    string
}

// NewWorkflowState returns an empty, ready-to-populate state.
func NewWorkflowState(name, version string) *WorkflowState {
	now := time.Now()
	return &WorkflowState{
		Name:        name,
		Version:     version,
		StartedAt:   now,
		UpdatedAt:   now,
		Vars:        make(map[string]string),
		Tasks:       make(map[string]*Task),
		Artifacts:   make(map[string]*Artifact),
		Checkpoints: make(map[string]bool),
	}
}

// AddTask registers a task, preserving declaration order. Returns an error
// if the id is empty or already present (invariant 1).
func (s *WorkflowState) AddTask(t *Task) error {
	if t.ID == "" {
		return NewConfigurationError("task has an empty id")
	}
	if _, exists := s.Tasks[t.ID]; exists {
		return NewConfigurationError("duplicate task id %q", t.ID)
	}
	t.DeclOrder = len(s.TaskOrder)
	s.Tasks[t.ID] = t
	s.TaskOrder = append(s.TaskOrder, t.ID)
	return nil
}

// AddArtifact registers an artifact. Returns an error if the id is empty or
// already present.
func (s *WorkflowState) AddArtifact(a *Artifact) error {
	if a.ID == "" {
		return NewConfigurationError("artifact has an empty id")
	}
	if _, exists := s.Artifacts[a.ID]; exists {
		return NewConfigurationError("duplicate artifact id %q", a.ID)
	}
	if a.Status == "" {
		a.Status = ArtifactMissing
	}
	s.Artifacts[a.ID] = a
	return nil
}

// Task fetches a task by id for read access.
func (s *WorkflowState) Task(id string) (*Task, bool) {
	t, ok := s.Tasks[id]
	return t, ok
}

// Artifact fetches an artifact by id for read access.
func (s *WorkflowState) Artifact(id string) (*Artifact, bool) {
	a, ok := s.Artifacts[id]
	return a, ok
}

// OrderedTasks returns every task in declaration order.
func (s *WorkflowState) OrderedTasks() []*Task {
	out := make([]*Task, 0, len(s.TaskOrder))
	for _, id := range s.TaskOrder {
		out = append(out, s.Tasks[id])
	}
	return out
}

// ProducerOf returns the task id that produces the given artifact as an
// output, or "" if none does (a workflow input).
func (s *WorkflowState) ProducerOf(artifactID string) string {
	for _, t := range s.Tasks {
		for _, o := range t.Outputs {
			if o.ArtifactID == artifactID {
				return t.ID
			}
		}
	}
	return ""
}

// ConsumersOf returns every task that references artifactID in any input
// spec, in declaration order.
func (s *WorkflowState) ConsumersOf(artifactID string) []*Task {
	var out []*Task
	for _, t := range s.OrderedTasks() {
		if t.ConsumesArtifact(artifactID) {
			out = append(out, t)
		}
	}
	return out
}

// Progress returns the fraction of tasks in Complete, in [0, 1]. Returns 0
// when there are no tasks.
func (s *WorkflowState) Progress() float64 {
	if len(s.Tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range s.Tasks {
		if t.Status.Kind == TaskComplete {
			done++
		}
	}
	return float64(done) / float64(len(s.Tasks))
}

// Touch refreshes UpdatedAt; called by the scheduler after every state
// mutation that should be reflected in persisted state.
func (s *WorkflowState) Touch() {
	s.UpdatedAt = time.Now()
}
