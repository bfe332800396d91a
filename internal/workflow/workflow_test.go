package workflow

import (
	"strings"
	"testing"

	"github.com/lanedrift/reelforge/internal/model"
)

const linearYAML = `
schema-version: 1
name: demo-video
vars:
  TOPIC: "orbital mechanics"
steps:
  - id: write-script
    kind: llm-text
    outputs:
      - {artifact: script, primary: true}
    prompt: "write a short script about {{TOPIC}}"
  - id: narrate
    kind: tts
    inputs:
      - {kind: required, artifact: script}
    outputs:
      - {artifact: narration, primary: true}
  - id: mux
    kind: mux
    inputs:
      - {kind: required, artifact: narration}
    outputs:
      - {artifact: final, primary: true}
`

func TestParse_LinearPipeline(t *testing.T) {
	st, err := Parse([]byte(linearYAML))
	if err != nil {
		t.Fatal(err)
	}
	if st.Name != "demo-video" {
		t.Fatalf("Name = %q", st.Name)
	}
	if st.Vars["TOPIC"] != "orbital mechanics" {
		t.Fatalf("TOPIC = %q", st.Vars["TOPIC"])
	}
	for _, id := range []string{"write-script", "narrate", "mux"} {
		if _, ok := st.Task(id); !ok {
			t.Fatalf("missing task %q", id)
		}
	}
	task, _ := st.Task("write-script")
	if task.Payload["prompt"] != "write a short script about {{TOPIC}}" {
		t.Fatalf("payload not preserved: %+v", task.Payload)
	}
	if err := st.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestParse_DependsOnCreatesOrderingEdge(t *testing.T) {
	doc := `
schema-version: 1
name: gated
steps:
  - id: render
    kind: video-gen
    outputs:
      - {artifact: clip, primary: true}
  - id: review
    kind: checkpoint
    depends_on: [render]
`
	st, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	review, ok := st.Task("review")
	if !ok {
		t.Fatal("missing review task")
	}
	if !review.RequiresArtifact("__done__:render") {
		t.Fatalf("review task inputs = %+v, want a required dependency on render's completion", review.Inputs)
	}
}

func TestParse_UnknownKindRejected(t *testing.T) {
	doc := `
schema-version: 1
name: bad
steps:
  - {id: a, kind: not-a-real-kind}
`
	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestParse_CycleRejectedAtGraphLevel(t *testing.T) {
	doc := `
schema-version: 1
name: cyclic
steps:
  - id: a
    kind: command
    inputs: [{kind: required, artifact: b-out}]
    outputs: [{artifact: a-out, primary: true}]
  - id: b
    kind: command
    inputs: [{kind: required, artifact: a-out}]
    outputs: [{artifact: b-out, primary: true}]
`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected a cycle rejection")
	}
	var cfgErr *model.ConfigurationError
	if !asConfigErr(err, &cfgErr) {
		t.Fatalf("expected *model.ConfigurationError, got %T: %v", err, err)
	}
}

func TestParse_MissingNameRejected(t *testing.T) {
	doc := `
schema-version: 1
steps:
  - {id: a, kind: mkdir}
`
	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "'name' is required") {
		t.Fatalf("got %v", err)
	}
}

func TestParse_PlaceholderRequiresKnownPlaceholderKind(t *testing.T) {
	doc := `
schema-version: 1
name: ph
steps:
  - id: render
    kind: video-gen
    inputs:
      - {kind: placeholder, artifact: bg, placeholder_kind: not-a-kind}
    outputs:
      - {artifact: clip, primary: true}
`
	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "unknown placeholder_kind") {
		t.Fatalf("got %v", err)
	}
}

func TestParse_OutputPathOverridesArtifactID(t *testing.T) {
	doc := `
schema-version: 1
name: path-override
steps:
  - id: write-script
    kind: write-file
    outputs:
      - {artifact: script, path: drafts/script.txt, primary: true}
`
	st, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	art, ok := st.Artifact("script")
	if !ok {
		t.Fatal("expected artifact \"script\" to be registered")
	}
	if art.Path != "drafts/script.txt" {
		t.Fatalf("artifact path = %q, want the declared path override", art.Path)
	}
}

func asConfigErr(err error, target **model.ConfigurationError) bool {
	if ce, ok := err.(*model.ConfigurationError); ok {
		*target = ce
		return true
	}
	return false
}
