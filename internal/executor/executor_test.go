package executor

import (
	"context"
	"testing"

	"github.com/lanedrift/reelforge/internal/model"
	"github.com/lanedrift/reelforge/internal/runtime"
)

func TestExecute_Mkdir(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	task := &model.Task{ID: "mk", Kind: model.KindMkdir, Outputs: []model.OutputSpec{{ArtifactID: "renders", Primary: true}}}
	if err := New().Execute(context.Background(), task, rt, nil); err != nil {
		t.Fatal(err)
	}
	if !rt.HasDir("renders") {
		t.Fatal("expected renders directory to be ensured")
	}
}

func TestExecute_MkdirUsesResolvedPathWhenVarsDiffer(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	task := &model.Task{ID: "mk", Kind: model.KindMkdir, Outputs: []model.OutputSpec{{ArtifactID: "renders", Primary: true}}}
	vars := map[string]string{"renders": "output/renders"}
	if err := New().Execute(context.Background(), task, rt, vars); err != nil {
		t.Fatal(err)
	}
	if rt.HasDir("renders") {
		t.Fatal("mkdir must not use the raw artifact id once a resolved path is available")
	}
	if !rt.HasDir("output/renders") {
		t.Fatal("expected the resolved output/renders directory to be ensured")
	}
}

func TestExecute_WriteFileUsesResolvedOutputPath(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	task := &model.Task{
		ID:      "write",
		Kind:    model.KindWriteFile,
		Outputs: []model.OutputSpec{{ArtifactID: "script", Primary: true}},
		Payload: map[string]any{"content": "hello"},
	}
	vars := map[string]string{"script": "drafts/script.txt"}
	if err := New().Execute(context.Background(), task, rt, vars); err != nil {
		t.Fatal(err)
	}
	if _, ok := rt.WrittenFile("script"); ok {
		t.Fatal("write-file must not write to the raw artifact id once a resolved path is available")
	}
	got, ok := rt.WrittenFile("drafts/script.txt")
	if !ok || string(got) != "hello" {
		t.Fatalf("got %q, ok=%v, want content at the resolved path", got, ok)
	}
}

func TestExecute_WriteFileExpandsTemplate(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	task := &model.Task{
		ID:      "write",
		Kind:    model.KindWriteFile,
		Outputs: []model.OutputSpec{{ArtifactID: "script.txt", Primary: true}},
		Payload: map[string]any{"content": "topic: {{topic}}"},
	}
	if err := New().Execute(context.Background(), task, rt, map[string]string{"topic": "tides"}); err != nil {
		t.Fatal(err)
	}
	got, ok := rt.WrittenFile("script.txt")
	if !ok || string(got) != "topic: tides" {
		t.Fatalf("got %q, ok=%v", got, ok)
	}
}

func TestExecute_WriteFileMissingVariable(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	task := &model.Task{
		ID:      "write",
		Kind:    model.KindWriteFile,
		Outputs: []model.OutputSpec{{ArtifactID: "script.txt", Primary: true}},
		Payload: map[string]any{"content": "topic: {{topic}}"},
	}
	err := New().Execute(context.Background(), task, rt, map[string]string{})
	if err == nil {
		t.Fatal("expected a template error")
	}
}

func TestExecute_Command(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	rt.CommandResults["bash"] = &runtime.CommandResult{ExitCode: 0, Stdout: "ok"}
	task := &model.Task{ID: "cmd", Kind: model.KindCommand, Payload: map[string]any{"command": "echo {{name}}"}}
	if err := New().Execute(context.Background(), task, rt, map[string]string{"name": "hi"}); err != nil {
		t.Fatal(err)
	}
	if len(rt.Commands) != 1 || rt.Commands[0].Args[1] != "echo hi" {
		t.Fatalf("commands = %+v", rt.Commands)
	}
}

func TestExecute_CommandNonZeroExitFails(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	rt.CommandResults["bash"] = &runtime.CommandResult{ExitCode: 1, Stderr: "boom"}
	task := &model.Task{ID: "cmd", Kind: model.KindCommand, Payload: map[string]any{"command": "false"}}
	err := New().Execute(context.Background(), task, rt, nil)
	if err == nil {
		t.Fatal("expected an error for non-zero exit")
	}
}

func TestExecute_LLMTextWritesCompletion(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	rt.MockResponse = "a script about tides"
	task := &model.Task{
		ID:      "narrate",
		Kind:    model.KindLLMText,
		Outputs: []model.OutputSpec{{ArtifactID: "script.txt", Primary: true}},
		Payload: map[string]any{"prompt": "write about {{topic}}"},
	}
	if err := New().Execute(context.Background(), task, rt, map[string]string{"topic": "tides"}); err != nil {
		t.Fatal(err)
	}
	got, ok := rt.WrittenFile("script.txt")
	if !ok || string(got) != "a script about tides" {
		t.Fatalf("got %q, ok=%v", got, ok)
	}
}

func TestExecute_ExternalToolRunsWithExpandedArgs(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	rt.CommandResults["ffmpeg"] = &runtime.CommandResult{ExitCode: 0}
	task := &model.Task{
		ID:   "mux",
		Kind: model.KindMux,
		Payload: map[string]any{
			"program": "ffmpeg",
			"args":    []any{"-i", "{{clip}}", "out.mp4"},
		},
	}
	if err := New().Execute(context.Background(), task, rt, map[string]string{"clip": "in.mp4"}); err != nil {
		t.Fatal(err)
	}
	if len(rt.Commands) != 1 || rt.Commands[0].Args[1] != "in.mp4" {
		t.Fatalf("commands = %+v", rt.Commands)
	}
}

func TestSynthesizePlaceholder_SkipWritesNothing(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	if err := New().SynthesizePlaceholder(context.Background(), rt, "bg.png", model.PlaceholderSkip); err != nil {
		t.Fatal(err)
	}
	if _, ok := rt.WrittenFile("bg.png"); ok {
		t.Fatal("skip placeholder must not write a file")
	}
}

func TestSynthesizePlaceholder_StaticImageWritesMarker(t *testing.T) {
	rt := runtime.NewMockFacade(t.TempDir())
	if err := New().SynthesizePlaceholder(context.Background(), rt, "bg.png", model.PlaceholderImage); err != nil {
		t.Fatal(err)
	}
	if _, ok := rt.WrittenFile("bg.png"); !ok {
		t.Fatal("expected a placeholder marker to be written")
	}
}
