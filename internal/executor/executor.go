// Package executor is the concrete scheduler.StepExecutor: it interprets
// each model.Task's Kind and opaque Payload, and drives the runtime.Facade
// to carry out the step. The individual step handlers it wraps (TTS,
// image/video synthesis, muxing, transcription, quality audit) are
// themselves out of scope for this module (spec.md §1) — every one of them
// above the four built-in kinds below is treated uniformly as an external
// tool invocation, grounded on the teacher's RunScript/RunAgent split
// (dispatch.go routes by a type tag, shells out, captures output).
package executor

import (
	"context"
	"fmt"

	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/runtime"
	"github.com/lanedrift/reelforge/internal/template"
)

// Executor implements scheduler.StepExecutor.
type Executor struct{}

func New() *Executor { return &Executor{} }

func (e *Executor) Execute(ctx context.Context, t *model.Task, rt runtime.Facade, vars map[string]string) error {
	switch t.Kind {
	case model.KindMkdir:
		return e.execMkdir(t, rt, vars)
	case model.KindWriteFile:
		return e.execWriteFile(t, rt, vars)
	case model.KindCommand:
		return e.execCommand(ctx, t, rt, vars)
	case model.KindLLMText:
		return e.execLLMText(ctx, t, rt, vars)
	case model.KindTTS, model.KindImageGen, model.KindVideoGen, model.KindAudioNormal,
		model.KindMux, model.KindConcat, model.KindTranscribe, model.KindQualityAudit:
		return e.execExternalTool(ctx, t, rt, vars)
	default:
		return model.NewExecutorError(fmt.Sprintf("task %q: unsupported kind %q", t.ID, t.Kind), nil)
	}
}

// primaryOutputPath returns the resolved on-disk path for t's first primary
// output. vars carries one artifact-id -> path entry per artifact in the
// workflow (scheduler.taskVars), since t itself only knows the output's
// artifact id, not the path it was declared with (workflow/schema.go's
// OutputRecord.Path may differ from the artifact id).
func primaryOutputPath(t *model.Task, vars map[string]string) (string, error) {
	primary := t.PrimaryOutputs()
	if len(primary) == 0 {
		return "", model.NewExecutorError(fmt.Sprintf("task %q: kind %q requires a primary output", t.ID, t.Kind), nil)
	}
	return resolvedPath(primary[0], vars), nil
}

// resolvedPath looks up artifactID's declared path in vars, falling back to
// the artifact id itself if no entry is present (should not happen once
// scheduler.taskVars has run, but keeps this package usable standalone).
func resolvedPath(artifactID string, vars map[string]string) string {
	if p, ok := vars[artifactID]; ok {
		return p
	}
	return artifactID
}

func stringPayload(t *model.Task, key string) (string, error) {
	v, ok := t.Payload[key]
	if !ok {
		return "", model.NewExecutorError(fmt.Sprintf("task %q: payload field %q is required", t.ID, key), nil)
	}
	s, ok := v.(string)
	if !ok {
		return "", model.NewExecutorError(fmt.Sprintf("task %q: payload field %q must be a string", t.ID, key), nil)
	}
	return s, nil
}

func optionalStringPayload(t *model.Task, key string) string {
	v, ok := t.Payload[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (e *Executor) execMkdir(t *model.Task, rt runtime.Facade, vars map[string]string) error {
	for _, o := range t.Outputs {
		if err := rt.EnsureDir(resolvedPath(o.ArtifactID, vars)); err != nil {
			return model.NewExecutorError(fmt.Sprintf("task %q: ensure_dir", t.ID), err)
		}
	}
	return nil
}

func (e *Executor) execWriteFile(t *model.Task, rt runtime.Facade, vars map[string]string) error {
	content, err := stringPayload(t, "content")
	if err != nil {
		return err
	}
	expanded, err := template.Expand(content, vars, t.ID)
	if err != nil {
		return err
	}
	out, err := primaryOutputPath(t, vars)
	if err != nil {
		return err
	}
	if err := rt.WriteText(out, []byte(expanded)); err != nil {
		return model.NewExecutorError(fmt.Sprintf("task %q: write_text", t.ID), err)
	}
	return nil
}

func (e *Executor) execCommand(ctx context.Context, t *model.Task, rt runtime.Facade, vars map[string]string) error {
	raw, err := stringPayload(t, "command")
	if err != nil {
		return err
	}
	expanded, err := template.Expand(raw, vars, t.ID)
	if err != nil {
		return err
	}
	cwd := optionalStringPayload(t, "cwd")
	res, err := rt.RunCommand(ctx, "bash", []string{"-c", expanded}, cwd)
	if err != nil {
		return model.NewExecutorError(fmt.Sprintf("task %q: run_command", t.ID), err)
	}
	if res.ExitCode != 0 {
		return model.NewExecutorError(
			fmt.Sprintf("task %q: command exited %d: %s", t.ID, res.ExitCode, res.Stderr), nil)
	}
	return nil
}

func (e *Executor) execLLMText(ctx context.Context, t *model.Task, rt runtime.Facade, vars map[string]string) error {
	userPrompt, err := stringPayload(t, "prompt")
	if err != nil {
		return err
	}
	expandedUser, err := template.Expand(userPrompt, vars, t.ID)
	if err != nil {
		return err
	}
	system := optionalStringPayload(t, "system")
	expandedSystem, err := template.Expand(system, vars, t.ID)
	if err != nil {
		return err
	}

	resp, err := rt.LLM(ctx, runtime.LLMRequest{
		System:      expandedSystem,
		User:        expandedUser,
		ProviderTag: optionalStringPayload(t, "provider"),
	})
	if err != nil {
		return model.NewExecutorError(fmt.Sprintf("task %q: llm", t.ID), err)
	}

	out, err := primaryOutputPath(t, vars)
	if err != nil {
		return err
	}
	if err := rt.WriteText(out, []byte(resp)); err != nil {
		return model.NewExecutorError(fmt.Sprintf("task %q: write_text", t.ID), err)
	}
	return nil
}

// execExternalTool covers every media step kind whose real implementation
// is out of scope here (TTS, image/video synthesis, audio normalization,
// muxing, concatenation, transcription, quality audit): the payload names
// the program and templated argument list of a CLI wrapper — itself
// possibly a thin shim over a remote HTTP model server, opaque to this
// layer either way.
func (e *Executor) execExternalTool(ctx context.Context, t *model.Task, rt runtime.Facade, vars map[string]string) error {
	program, err := stringPayload(t, "program")
	if err != nil {
		return err
	}
	var args []string
	if raw, ok := t.Payload["args"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return model.NewExecutorError(fmt.Sprintf("task %q: payload field %q must be a list", t.ID, "args"), nil)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return model.NewExecutorError(fmt.Sprintf("task %q: args entries must be strings", t.ID), nil)
			}
			expanded, err := template.Expand(s, vars, t.ID)
			if err != nil {
				return err
			}
			args = append(args, expanded)
		}
	}
	cwd := optionalStringPayload(t, "cwd")
	res, err := rt.RunCommand(ctx, program, args, cwd)
	if err != nil {
		return model.NewExecutorError(fmt.Sprintf("task %q: run_command", t.ID), err)
	}
	if res.ExitCode != 0 {
		return model.NewExecutorError(
			fmt.Sprintf("task %q: %s exited %d: %s", t.ID, program, res.ExitCode, res.Stderr), nil)
	}
	return nil
}

// SynthesizePlaceholder writes a synthetic stand-in for a Placeholder input
// whose real artifact is still Missing (spec.md §3). "skip" placeholders
// leave nothing on disk — the consuming step is expected to interpret
// ArtifactPlaceholder with no Path contents as "omit this input."
func (e *Executor) SynthesizePlaceholder(ctx context.Context, rt runtime.Facade, relativePath string, kind model.PlaceholderKind) error {
	var marker string
	switch kind {
	case model.PlaceholderColor:
		marker = "placeholder:solid-color"
	case model.PlaceholderSilent:
		marker = "placeholder:silent-audio"
	case model.PlaceholderImage:
		marker = "placeholder:static-image"
	case model.PlaceholderSkip:
		return nil
	default:
		return model.NewExecutorError(fmt.Sprintf("unknown placeholder kind %q", kind), nil)
	}
	if err := rt.WriteText(relativePath, []byte(marker)); err != nil {
		return model.NewExecutorError("synthesize placeholder", err)
	}
	return nil
}
