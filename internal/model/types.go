// Package model holds the in-memory data model of the pipeline runner: the
// Task and Artifact entities, their tagged-variant statuses, and the
// WorkflowState aggregate that the scheduler, invalidation engine, resume
// logic, and report builder all read and mutate. The model is a plain data
// record — it does not itself schedule anything (see package scheduler).
package model

import "time"

// TaskStatusKind is the tag of the Task status variant.
type TaskStatusKind string

const (
	TaskBlocked  TaskStatusKind = "blocked"
	TaskReady    TaskStatusKind = "ready"
	TaskRunning  TaskStatusKind = "running"
	TaskComplete TaskStatusKind = "complete"
	TaskFailed   TaskStatusKind = "failed"
	TaskSkipped  TaskStatusKind = "skipped"
)

// TaskStatus is the tagged variant from spec.md §3. Only the fields relevant
// to Kind are populated; the others are zero.
type TaskStatus struct {
	Kind TaskStatusKind

	// WaitingOn holds task ids or synthetic "artifact:<id>" tokens, set when
	// Kind == TaskBlocked.
	WaitingOn []string

	// Error holds the executor's message, set when Kind == TaskFailed.
	Error string

	// Reason explains why the task was elided, set when Kind == TaskSkipped.
	Reason string
}

func Blocked(waitingOn ...string) TaskStatus {
	return TaskStatus{Kind: TaskBlocked, WaitingOn: waitingOn}
}

func Ready() TaskStatus    { return TaskStatus{Kind: TaskReady} }
func Running() TaskStatus  { return TaskStatus{Kind: TaskRunning} }
func Complete() TaskStatus { return TaskStatus{Kind: TaskComplete} }

func Failed(errMsg string) TaskStatus {
	return TaskStatus{Kind: TaskFailed, Error: errMsg}
}

func Skipped(reason string) TaskStatus {
	return TaskStatus{Kind: TaskSkipped, Reason: reason}
}

// IsTerminal reports whether the status will never be refreshed by the
// scheduler without an explicit reset (invalidation or resume re-seed).
func (s TaskStatus) IsTerminal() bool {
	switch s.Kind {
	case TaskComplete, TaskFailed, TaskSkipped:
		return true
	default:
		return false
	}
}

// ArtifactStatusKind is the tag of the Artifact status variant.
type ArtifactStatusKind string

const (
	ArtifactMissing     ArtifactStatusKind = "missing"
	ArtifactPlaceholder ArtifactStatusKind = "placeholder"
	ArtifactReady       ArtifactStatusKind = "ready"
	ArtifactInvalidated ArtifactStatusKind = "invalidated"
)

// Satisfies reports whether this artifact status satisfies a Required input
// (spec.md §3: "task blocks until artifact is Ready or Placeholder").
func (k ArtifactStatusKind) Satisfies() bool {
	return k == ArtifactReady || k == ArtifactPlaceholder
}

// InputKind is the tag of the InputSpec variant.
type InputKind string

const (
	InputRequired    InputKind = "required"
	InputOptional    InputKind = "optional"
	InputPlaceholder InputKind = "placeholder"
)

// PlaceholderKind names the synthetic stand-in an InputPlaceholder spec
// synthesizes when the real artifact is Missing.
type PlaceholderKind string

const (
	PlaceholderColor  PlaceholderKind = "solid-color"
	PlaceholderSilent PlaceholderKind = "silent-audio"
	PlaceholderImage  PlaceholderKind = "static-image"
	PlaceholderSkip   PlaceholderKind = "skip"
)

// InputSpec is one entry of a Task's ordered input list (spec.md §3).
type InputSpec struct {
	Kind       InputKind
	ArtifactID string

	// Default is the Optional variant's default; carried opaquely to the
	// executor, never interpreted by the core (spec.md §9 Open Questions).
	Default *string

	// PlaceholderKind is set when Kind == InputPlaceholder.
	PlaceholderKind PlaceholderKind
}

// OutputSpec is one entry of a Task's ordered output list.
type OutputSpec struct {
	ArtifactID string
	Primary    bool
}

// ConstraintSet models the mutual-exclusion and advisory-capacity knobs a
// Task can declare (spec.md §3).
type ConstraintSet struct {
	SequentialGroup string
	Resource        string
	MaxParallelism  int
}

// TaskKind names one of the step classes the executor supports. The core
// never interprets Payload; only the Runtime Facade / executor does.
type TaskKind string

const (
	KindMkdir        TaskKind = "mkdir"
	KindWriteFile    TaskKind = "write-file"
	KindCommand      TaskKind = "command"
	KindLLMText      TaskKind = "llm-text"
	KindTTS          TaskKind = "tts"
	KindImageGen     TaskKind = "image-gen"
	KindVideoGen     TaskKind = "video-gen"
	KindAudioNormal  TaskKind = "audio-normalize"
	KindMux          TaskKind = "mux"
	KindConcat       TaskKind = "concat"
	KindTranscribe   TaskKind = "transcribe"
	KindQualityAudit TaskKind = "quality-audit"
	KindCheckpoint   TaskKind = "checkpoint"
)

// Task is a unit of work, uniquely identified by an opaque string id.
type Task struct {
	ID          string
	Name        string
	Kind        TaskKind
	Inputs      []InputSpec
	Outputs     []OutputSpec
	Constraints ConstraintSet
	Status      TaskStatus

	// Payload is step-specific configuration consumed by the executor,
	// never interpreted by the core.
	Payload map[string]any

	// DeclOrder is the zero-based position in the configuration's step
	// list; used to break ties deterministically (spec.md §4.2).
	DeclOrder int

	// StartedAt and FinishedAt bracket the most recent dispatch, zero until
	// the scheduler first runs the task. Used only for report timing.
	StartedAt  time.Time
	FinishedAt time.Time
}

// RequiresArtifact reports whether the task declares art as a Required input.
func (t *Task) RequiresArtifact(artifactID string) bool {
	for _, in := range t.Inputs {
		if in.Kind == InputRequired && in.ArtifactID == artifactID {
			return true
		}
	}
	return false
}

// ConsumesArtifact reports whether the task references art in any input
// spec, regardless of kind.
func (t *Task) ConsumesArtifact(artifactID string) bool {
	for _, in := range t.Inputs {
		if in.ArtifactID == artifactID {
			return true
		}
	}
	return false
}

// PrimaryOutputs returns the artifact ids this task produces as primary
// outputs.
func (t *Task) PrimaryOutputs() []string {
	var out []string
	for _, o := range t.Outputs {
		if o.Primary {
			out = append(out, o.ArtifactID)
		}
	}
	return out
}

// Artifact is a file produced or consumed by tasks, identified by its
// declared id (typically a relative path).
type Artifact struct {
	ID             string
	Path           string
	Checksum       string
	CreatedAt      time.Time
	ProducerTaskID string // empty for workflow inputs
	Status         ArtifactStatusKind
	IsPlaceholder  bool
}
