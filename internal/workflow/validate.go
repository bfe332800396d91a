package workflow

import (
	"fmt"
	"regexp"

	"github.com/lanedrift/reelforge/internal/model"
)

var varNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validKinds = map[string]model.TaskKind{
	"mkdir":           model.KindMkdir,
	"write-file":      model.KindWriteFile,
	"command":         model.KindCommand,
	"llm-text":        model.KindLLMText,
	"tts":             model.KindTTS,
	"image-gen":       model.KindImageGen,
	"video-gen":       model.KindVideoGen,
	"audio-normalize": model.KindAudioNormal,
	"mux":             model.KindMux,
	"concat":          model.KindConcat,
	"transcribe":      model.KindTranscribe,
	"quality-audit":   model.KindQualityAudit,
	"checkpoint":      model.KindCheckpoint,
}

var validInputKinds = map[string]model.InputKind{
	"required":    model.InputRequired,
	"optional":    model.InputOptional,
	"placeholder": model.InputPlaceholder,
}

var validPlaceholderKinds = map[string]model.PlaceholderKind{
	"solid-color":  model.PlaceholderColor,
	"silent-audio": model.PlaceholderSilent,
	"static-image": model.PlaceholderImage,
	"skip":         model.PlaceholderSkip,
}

var validSegmentTypes = map[SegmentType]bool{
	SegmentMusicOnly: true, SegmentNarrationOnly: true, SegmentMixed: true,
}

// Validate checks schema-level constraints on doc: required fields, known
// enum values, well-formed variable names. Graph-level invariants (cycles,
// dangling references, duplicate output ownership) are checked separately
// by model.Validate once the document has been built into a WorkflowState.
func Validate(doc *Doc) error {
	if doc.Name == "" {
		return fmt.Errorf("workflow: 'name' is required")
	}
	if doc.SchemaVersion == 0 {
		return fmt.Errorf("workflow: 'schema-version' is required")
	}
	if len(doc.Steps) == 0 {
		return fmt.Errorf("workflow: at least one step is required")
	}

	seenVars := map[string]bool{}
	for _, v := range doc.Vars {
		if v.Key == "" {
			return fmt.Errorf("workflow: vars: empty variable name")
		}
		if !varNameRe.MatchString(v.Key) {
			return fmt.Errorf("workflow: vars: %q is not a valid variable name", v.Key)
		}
		if seenVars[v.Key] {
			return fmt.Errorf("workflow: vars: duplicate variable %q", v.Key)
		}
		seenVars[v.Key] = true
	}

	seenSteps := map[string]bool{}
	for i, s := range doc.Steps {
		if s.ID == "" {
			return fmt.Errorf("workflow: step %d: 'id' is required", i+1)
		}
		if seenSteps[s.ID] {
			return fmt.Errorf("workflow: duplicate step id %q", s.ID)
		}
		seenSteps[s.ID] = true

		if _, ok := validKinds[s.Kind]; !ok {
			return fmt.Errorf("workflow: step %q: unknown kind %q", s.ID, s.Kind)
		}
		for _, in := range s.Inputs {
			if _, ok := validInputKinds[in.Kind]; !ok {
				return fmt.Errorf("workflow: step %q: unknown input kind %q", s.ID, in.Kind)
			}
			if in.Artifact == "" {
				return fmt.Errorf("workflow: step %q: input references an empty artifact id", s.ID)
			}
			if in.Kind == "placeholder" {
				if _, ok := validPlaceholderKinds[in.PlaceholderKind]; !ok {
					return fmt.Errorf("workflow: step %q: unknown placeholder_kind %q", s.ID, in.PlaceholderKind)
				}
			}
		}
		for _, out := range s.Outputs {
			if out.Artifact == "" {
				return fmt.Errorf("workflow: step %q: output has an empty artifact id", s.ID)
			}
		}
	}

	for _, dep := range doc.Steps {
		for _, d := range dep.DependsOn {
			if !seenSteps[d] {
				return fmt.Errorf("workflow: step %q: depends_on references unknown step %q", dep.ID, d)
			}
		}
	}

	for _, seg := range doc.Segments {
		if seg.Name == "" {
			return fmt.Errorf("workflow: segment: 'name' is required")
		}
		if !validSegmentTypes[seg.SegmentType] {
			return fmt.Errorf("workflow: segment %q: unknown segment_type %q", seg.Name, seg.SegmentType)
		}
		for _, id := range seg.StepIDs {
			if !seenSteps[id] {
				return fmt.Errorf("workflow: segment %q: references unknown step %q", seg.Name, id)
			}
		}
	}

	return nil
}
