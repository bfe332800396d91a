package workflow

import (
	"fmt"

	"github.com/lanedrift/reelforge/internal/model"
)

// doneArtifactID names the synthetic, fileless artifact a step implicitly
// produces on completion, used to translate a depends_on edge (pure task
// ordering, no shared artifact) into the same Required-input satisfaction
// machinery the scheduler already runs for real artifacts.
func doneArtifactID(stepID string) string {
	return "__done__:" + stepID
}

// Build turns a validated Doc into a fresh model.WorkflowState: one
// model.Task per step record, one model.Artifact per distinct artifact id
// referenced by any input or output (plus a synthetic completion artifact
// per step backing depends_on), and the document's vars as the initial
// variable map. Callers must run model.Validate on the result before
// scheduling it.
func Build(doc *Doc) (*model.WorkflowState, error) {
	st := model.NewWorkflowState(doc.Name, fmt.Sprintf("%d", doc.SchemaVersion))
	for _, v := range doc.Vars {
		st.Vars[v.Key] = v.Value
	}

	ensureArtifact := func(id, path string) error {
		if _, ok := st.Artifact(id); ok {
			return nil
		}
		p := path
		if p == "" {
			p = id
		}
		return st.AddArtifact(&model.Artifact{ID: id, Path: p, Status: model.ArtifactMissing})
	}

	for _, s := range doc.Steps {
		if err := ensureArtifact(doneArtifactID(s.ID), ""); err != nil {
			return nil, err
		}
		for _, in := range s.Inputs {
			if err := ensureArtifact(in.Artifact, ""); err != nil {
				return nil, err
			}
		}
		for _, out := range s.Outputs {
			if err := ensureArtifact(out.Artifact, out.Path); err != nil {
				return nil, err
			}
		}
	}

	for _, s := range doc.Steps {
		kind := validKinds[s.Kind]

		inputs := make([]model.InputSpec, 0, len(s.Inputs)+len(s.DependsOn))
		for _, in := range s.Inputs {
			inputs = append(inputs, model.InputSpec{
				Kind:            validInputKinds[in.Kind],
				ArtifactID:      in.Artifact,
				Default:         in.Default,
				PlaceholderKind: validPlaceholderKinds[in.PlaceholderKind],
			})
		}
		for _, dep := range s.DependsOn {
			inputs = append(inputs, model.InputSpec{
				Kind:       model.InputRequired,
				ArtifactID: doneArtifactID(dep),
			})
		}

		outputs := make([]model.OutputSpec, 0, len(s.Outputs)+1)
		for _, out := range s.Outputs {
			outputs = append(outputs, model.OutputSpec{ArtifactID: out.Artifact, Primary: out.Primary})
		}
		outputs = append(outputs, model.OutputSpec{ArtifactID: doneArtifactID(s.ID), Primary: false})

		task := &model.Task{
			ID:      s.ID,
			Name:    s.ID,
			Kind:    kind,
			Inputs:  inputs,
			Outputs: outputs,
			Constraints: model.ConstraintSet{
				SequentialGroup: s.Constraints.SequentialGroup,
				Resource:        s.Constraints.Resource,
				MaxParallelism:  s.Constraints.MaxParallelism,
			},
			Payload: s.Payload,
		}
		if s.ResumeOutput != "" {
			if task.Payload == nil {
				task.Payload = map[string]any{}
			}
			task.Payload["resume_output"] = s.ResumeOutput
		}
		if err := st.AddTask(task); err != nil {
			return nil, err
		}
	}

	return st, nil
}
