package workflow

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lanedrift/reelforge/internal/model"
)

// Load reads a workflow document from path, validates it at both the
// schema level (this package) and the graph level (model.Validate), and
// returns the resulting WorkflowState ready for the scheduler.
func Load(path string) (*model.WorkflowState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse is Load without the filesystem read, for embedding a document or
// testing against an inline literal.
func Parse(data []byte) (*model.WorkflowState, error) {
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, model.NewConfigurationError("parsing workflow document: %v", err)
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	st, err := Build(&doc)
	if err != nil {
		return nil, err
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}
