package state

import "testing"

func TestFeedback_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFeedback(dir, "render-hero-shot", "ffmpeg exited 1: invalid codec"); err != nil {
		t.Fatal(err)
	}
	got, err := ReadAllFeedback(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := "--- feedback from render-hero-shot ---\nffmpeg exited 1: invalid codec"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFeedback_NoneRecordedYet(t *testing.T) {
	dir := t.TempDir()
	got, err := ReadAllFeedback(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
