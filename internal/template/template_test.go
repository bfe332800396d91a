package template

import (
	"testing"

	"github.com/lanedrift/reelforge/internal/model"
)

func TestExpand_Basic(t *testing.T) {
	vars := map[string]string{"TICKET": "MEDIA-42", "VOICE": "alto"}
	got, err := Expand("render {{TICKET}} with voice {{VOICE}}", vars, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if want := "render MEDIA-42 with voice alto"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpand_MissingVariable(t *testing.T) {
	_, err := Expand("{{MISSING}}", map[string]string{}, "task-7")
	if err == nil {
		t.Fatal("expected error for missing variable")
	}
	te, ok := err.(*model.TemplateError)
	if !ok {
		t.Fatalf("expected *model.TemplateError, got %T", err)
	}
	if te.Var != "MISSING" || te.TaskID != "task-7" {
		t.Fatalf("got %+v", te)
	}
}

func TestExpand_NoTokens(t *testing.T) {
	got, err := Expand("plain string", nil, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "plain string" {
		t.Fatalf("got %q", got)
	}
}

// TestExpand_Idempotent verifies P8: substituting twice yields the same
// string as substituting once, provided no {{ appears in any value.
func TestExpand_Idempotent(t *testing.T) {
	vars := map[string]string{"NAME": "clip-001"}
	once, err := Expand("out/{{NAME}}.mp4", vars, "t1")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Expand(once, vars, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Fatalf("not idempotent: once=%q twice=%q", once, twice)
	}
}

func TestMerge_OverridesWin(t *testing.T) {
	defaults := map[string]string{"VOICE": "alto", "LANG": "en"}
	overrides := map[string]string{"VOICE": "tenor"}
	merged := Merge(defaults, overrides)
	if merged["VOICE"] != "tenor" || merged["LANG"] != "en" {
		t.Fatalf("got %+v", merged)
	}
}
