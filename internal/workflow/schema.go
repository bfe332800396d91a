// Package workflow parses the YAML document that describes a pipeline
// (spec.md §6) into the in-memory model.WorkflowState the scheduler drives.
// Configuration parsing is explicitly out of scope for the core per
// spec.md §1 ("assumed to yield a validated in-memory graph") — this
// package is the concrete collaborator that produces that graph, built the
// way the teacher's internal/config package builds its own Config: yaml.v3
// unmarshaling plus a separate Validate pass.
package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// VarEntry holds one key-value pair from a vars mapping, preserving
// declaration order the way the teacher's config.VarEntry does.
type VarEntry struct {
	Key   string
	Value string
}

// OrderedVars preserves YAML declaration order for the vars map.
type OrderedVars []VarEntry

// UnmarshalYAML reads a mapping node and preserves key order, rejecting
// nested structures (a workflow var is always a scalar string).
func (ov *OrderedVars) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("workflow: vars: must be a mapping")
	}
	for i := 0; i < len(value.Content)-1; i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("workflow: vars: key at position %d is not a scalar", i/2+1)
		}
		if valNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("workflow: vars: value for %q is not a scalar", keyNode.Value)
		}
		*ov = append(*ov, VarEntry{Key: keyNode.Value, Value: valNode.Value})
	}
	return nil
}

// InputRecord is the YAML shape of one model.InputSpec entry.
type InputRecord struct {
	Kind            string  `yaml:"kind"` // required, optional, placeholder
	Artifact        string  `yaml:"artifact"`
	Default         *string `yaml:"default,omitempty"`
	PlaceholderKind string  `yaml:"placeholder_kind,omitempty"`
}

// OutputRecord is the YAML shape of one model.OutputSpec entry. Path
// defaults to Artifact when omitted, for steps whose artifact id already
// is the relative path.
type OutputRecord struct {
	Artifact string `yaml:"artifact"`
	Path     string `yaml:"path,omitempty"`
	Primary  bool   `yaml:"primary"`
}

// ConstraintRecord is the YAML shape of model.ConstraintSet.
type ConstraintRecord struct {
	SequentialGroup string `yaml:"sequential_group,omitempty"`
	Resource        string `yaml:"resource,omitempty"`
	MaxParallelism  int    `yaml:"max_parallelism,omitempty"`
}

// stepAlias carries every StepRecord field the schema names explicitly;
// anything else in the YAML mapping falls through to Payload. Declared
// separately from StepRecord to avoid infinite UnmarshalYAML recursion.
type stepAlias struct {
	ID          string           `yaml:"id"`
	Kind        string           `yaml:"kind"`
	ResumeOutput string          `yaml:"resume_output,omitempty"`
	DependsOn   []string         `yaml:"depends_on,omitempty"`
	Inputs      []InputRecord    `yaml:"inputs,omitempty"`
	Outputs     []OutputRecord   `yaml:"outputs,omitempty"`
	Constraints ConstraintRecord `yaml:"constraints,omitempty"`
}

var stepAliasKeys = map[string]bool{
	"id": true, "kind": true, "resume_output": true, "depends_on": true,
	"inputs": true, "outputs": true, "constraints": true,
}

// StepRecord is one step of a workflow document (spec.md §6): the fields
// the core interprets, plus an opaque Payload map for everything else,
// which is passed through to the executor untouched.
type StepRecord struct {
	ID           string
	Kind         string
	ResumeOutput string
	DependsOn    []string
	Inputs       []InputRecord
	Outputs      []OutputRecord
	Constraints  ConstraintRecord
	Payload      map[string]any
}

// UnmarshalYAML splits a step mapping into its known fields and an opaque
// Payload of everything else.
func (s *StepRecord) UnmarshalYAML(value *yaml.Node) error {
	var alias stepAlias
	if err := value.Decode(&alias); err != nil {
		return fmt.Errorf("workflow: step: %w", err)
	}
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("workflow: step: %w", err)
	}
	for k := range stepAliasKeys {
		delete(raw, k)
	}

	s.ID = alias.ID
	s.Kind = alias.Kind
	s.ResumeOutput = alias.ResumeOutput
	s.DependsOn = alias.DependsOn
	s.Inputs = alias.Inputs
	s.Outputs = alias.Outputs
	s.Constraints = alias.Constraints
	s.Payload = raw
	return nil
}

// SegmentType enumerates the named groupings a workflow may declare.
type SegmentType string

const (
	SegmentMusicOnly     SegmentType = "music-only"
	SegmentNarrationOnly SegmentType = "narration-only"
	SegmentMixed         SegmentType = "mixed"
)

// Segment is a named grouping of step ids (spec.md §6).
type Segment struct {
	Name        string      `yaml:"name"`
	SegmentType SegmentType `yaml:"segment_type"`
	StepIDs     []string    `yaml:"step_ids"`
}

// Doc is the root of a workflow configuration document.
type Doc struct {
	SchemaVersion int         `yaml:"schema-version"`
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description,omitempty"`
	Vars          OrderedVars `yaml:"vars,omitempty"`
	Steps         []StepRecord `yaml:"steps"`
	Segments      []Segment   `yaml:"segments,omitempty"`
}
