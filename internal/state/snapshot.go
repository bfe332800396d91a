// Package state persists a model.WorkflowState to disk and decides whether
// a previously-produced artifact is still valid, backing the resume
// protocol of spec.md §4.5. It is the teacher's state package generalized
// from a single phase-index counter to the full task/artifact aggregate.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/lanedrift/reelforge/internal/model"
)

const stateFileName = "state.json"

// snapshot is the on-disk shape of a WorkflowState (spec.md §4.5's "State
// persistence" list). It exists separately from model.WorkflowState so the
// wire format stays stable even if the in-memory aggregate's unexported
// bookkeeping changes shape.
type snapshot struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	StartedAt time.Time         `json:"started_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Vars      map[string]string `json:"vars"`

	Tasks     map[string]*model.Task     `json:"tasks"`
	Artifacts map[string]*model.Artifact `json:"artifacts"`
	TaskOrder []string                   `json:"task_order"`

	Checkpoints map[string]bool `json:"checkpoints"`
	Complete    bool            `json:"complete"`
	Error       string          `json:"error,omitempty"`
}

// Dir returns the directory run state is persisted under, relative to a
// workdir.
func Dir(workdir string) string {
	return filepath.Join(workdir, ".reelforge")
}

func statePath(workdir string) string {
	return filepath.Join(Dir(workdir), stateFileName)
}

// ReportPath returns the path a Run Report is persisted to under workdir.
func ReportPath(workdir string) string {
	return filepath.Join(Dir(workdir), "report.json")
}

// WriteAtomic exposes the package's atomic-write primitive to sibling
// packages (report.Save) that persist their own JSON alongside state.json.
func WriteAtomic(path string, data []byte) error {
	return writeFileAtomic(path, data, 0644)
}

// Save atomically writes st to workdir's state file.
func Save(workdir string, st *model.WorkflowState) error {
	snap := snapshot{
		Name:        st.Name,
		Version:     st.Version,
		StartedAt:   st.StartedAt,
		UpdatedAt:   st.UpdatedAt,
		Vars:        st.Vars,
		Tasks:       st.Tasks,
		Artifacts:   st.Artifacts,
		TaskOrder:   st.TaskOrder,
		Checkpoints: st.Checkpoints,
		Complete:    st.Complete,
		Error:       st.Error,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(statePath(workdir), data, 0644)
}

// Load reads a previously persisted state file, returning (nil, nil) if
// none exists yet — a fresh workdir has no prior run to resume.
func Load(workdir string) (*model.WorkflowState, error) {
	data, err := os.ReadFile(statePath(workdir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &model.WorkflowState{
		Name:        snap.Name,
		Version:     snap.Version,
		StartedAt:   snap.StartedAt,
		UpdatedAt:   snap.UpdatedAt,
		Vars:        snap.Vars,
		Tasks:       snap.Tasks,
		Artifacts:   snap.Artifacts,
		TaskOrder:   snap.TaskOrder,
		Checkpoints: snap.Checkpoints,
		Complete:    snap.Complete,
		Error:       snap.Error,
	}, nil
}
