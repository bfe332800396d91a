// Package template implements the {{var}} substitution pre-pass described
// in spec.md §6: a pure function over strings, total except for a single
// defined error (a missing variable), with no other side effects. This
// mirrors the teacher's internal/dispatch.ExpandVars in spirit — a tiny,
// dependency-free text substitution helper — but targets the spec's
// {{name}} token syntax instead of shell-style $VAR expansion, and returns
// a structured error instead of silently falling back to the environment.
package template

import (
	"regexp"

	"github.com/lanedrift/reelforge/internal/model"
)

var tokenRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Expand replaces every {{name}} token in s with vars[name]. taskID is
// attributed to the returned error, if any, per spec.md §7.
func Expand(s string, vars map[string]string, taskID string) (string, error) {
	var firstErr error
	result := tokenRe.ReplaceAllStringFunc(s, func(tok string) string {
		if firstErr != nil {
			return tok
		}
		name := tokenRe.FindStringSubmatch(tok)[1]
		v, ok := vars[name]
		if !ok {
			firstErr = &model.TemplateError{Var: name, TaskID: taskID}
			return tok
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// ExpandAll expands every value in fields, stopping at the first error.
func ExpandAll(fields map[string]string, vars map[string]string, taskID string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		expanded, err := Expand(v, vars, taskID)
		if err != nil {
			return nil, err
		}
		out[k] = expanded
	}
	return out, nil
}

// Merge layers overrides on top of defaults, with overrides taking
// precedence — the "merged variable map" of spec.md §6.
func Merge(defaults, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
