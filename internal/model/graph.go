package model

import "strings"

// Validate runs the graph-validation contract (spec.md §4.1) once before
// execution. It never mutates s.
func (s *WorkflowState) Validate() error {
	if err := s.validateOutputOwnership(); err != nil {
		return err
	}
	if err := s.validateReferencedArtifacts(); err != nil {
		return err
	}
	return s.validateAcyclic()
}

// validateOutputOwnership enforces invariant 2: every output-spec artifact
// is produced by exactly one task.
func (s *WorkflowState) validateOutputOwnership() error {
	owner := make(map[string]string, len(s.Artifacts))
	for _, t := range s.OrderedTasks() {
		for _, o := range t.Outputs {
			if prev, ok := owner[o.ArtifactID]; ok {
				return NewConfigurationError(
					"artifact %q is produced by both %q and %q", o.ArtifactID, prev, t.ID)
			}
			owner[o.ArtifactID] = t.ID
		}
	}
	return nil
}

// validateReferencedArtifacts enforces invariant 3: every required input
// references an artifact id declared in the workflow.
func (s *WorkflowState) validateReferencedArtifacts() error {
	for _, t := range s.OrderedTasks() {
		for _, in := range t.Inputs {
			if _, ok := s.Artifacts[in.ArtifactID]; !ok {
				return NewConfigurationError(
					"task %q references undeclared artifact %q", t.ID, in.ArtifactID)
			}
		}
	}
	return nil
}

// validateAcyclic enforces invariant 4 over the task dependency relation
// (T depends on U iff T has an input produced by U). A violation is
// reported with the cycle path.
func (s *WorkflowState) validateAcyclic() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(s.Tasks))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		path = append(path, id)

		t := s.Tasks[id]
		for _, dep := range s.dependencies(t) {
			switch color[dep] {
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			case gray:
				cyclePath := append(append([]string{}, path...), dep)
				return NewConfigurationError("dependency cycle: %s", strings.Join(cyclePath, " -> "))
			}
		}

		path = path[:len(path)-1]
		color[id] = black
		return nil
	}

	for _, id := range s.TaskOrder {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// dependencies returns the task ids that t depends on: the producers of
// every artifact t references as an input, in input declaration order,
// deduplicated.
func (s *WorkflowState) dependencies(t *Task) []string {
	seen := make(map[string]bool)
	var out []string
	for _, in := range t.Inputs {
		producer := s.ProducerOf(in.ArtifactID)
		if producer == "" || producer == t.ID || seen[producer] {
			continue
		}
		seen[producer] = true
		out = append(out, producer)
	}
	return out
}
