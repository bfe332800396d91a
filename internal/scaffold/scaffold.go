// Package scaffold writes a starter workflow document for a new project.
// The teacher's internal/scaffold drives an AI CLI to generate a config
// from project context, with a static fallback if generation fails. That
// has no equivalent here: there is no "analyze this repo" step for a media
// pipeline, so Init always writes the deterministic starter document
// below, the way the teacher's writeFallbackConfig does for its own
// fallback path.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/ux"
	"github.com/lanedrift/reelforge/internal/workflow"
)

const starterWorkflow = `schema-version: 1
name: my-pipeline
description: Starter reelforge workflow — edit steps to fit your project.

vars:
  TOPIC: "a topic of your choosing"

steps:
  - id: write-script
    kind: llm-text
    prompt: "Write a 200 word narration script about {{TOPIC}}."
    outputs:
      - {artifact: script, primary: true}

  - id: narrate
    kind: tts
    inputs:
      - {kind: required, artifact: script}
    outputs:
      - {artifact: narration, primary: true}
    program: tts-cli
    args: ["--in", "{{script}}", "--out", "{{narration}}"]

  - id: review
    kind: checkpoint
    depends_on: [narrate]
`

// Init creates a new .reelforge/ directory with a starter workflow.yaml.
func Init(targetDir string) error {
	reelDir := filepath.Join(targetDir, ".reelforge")
	if _, err := os.Stat(reelDir); err == nil {
		return fmt.Errorf(".reelforge directory already exists in %s", targetDir)
	}

	if err := os.MkdirAll(reelDir, 0755); err != nil {
		return fmt.Errorf("creating .reelforge: %w", err)
	}

	configPath := filepath.Join(targetDir, "workflow.yaml")
	if err := os.WriteFile(configPath, []byte(starterWorkflow), 0644); err != nil {
		return fmt.Errorf("writing workflow.yaml: %w", err)
	}

	gitignorePath := filepath.Join(reelDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("state.json\nreport.json\nfeedback/\n"), 0644); err != nil {
		return fmt.Errorf("writing .reelforge/.gitignore: %w", err)
	}

	printSuccess([]string{"workflow.yaml", ".reelforge/.gitignore"})

	if st, err := workflow.Parse([]byte(starterWorkflow)); err == nil {
		fmt.Printf("\n  Workflow: %s%s%s\n", ux.Bold, renderStepSummary(st), ux.Reset)
	}

	fmt.Printf("\n  %sEdit workflow.yaml for your project.%s\n", ux.Dim, ux.Reset)
	fmt.Printf("\n  Next: %sreelforge run --workdir . --dry-run%s\n\n", ux.Cyan, ux.Reset)
	return nil
}

func printSuccess(written []string) {
	fmt.Printf("\n%s%s  ✓ Initialized .reelforge/ directory%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Printf("  Created:\n")
	for _, path := range written {
		fmt.Printf("    %s%s%s\n", ux.Cyan, path, ux.Reset)
	}
}

func renderStepSummary(st *model.WorkflowState) string {
	out := ""
	for i, t := range st.OrderedTasks() {
		if i > 0 {
			out += " → "
		}
		out += t.ID
	}
	return out
}
