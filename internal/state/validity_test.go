package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputValid_MissingFile(t *testing.T) {
	dir := t.TempDir()
	if OutputValid(filepath.Join(dir, "nope.txt")) {
		t.Fatal("missing file must be invalid")
	}
}

func TestOutputValid_NonMediaNonEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if !OutputValid(path) {
		t.Fatal("non-empty non-media file should be valid")
	}
}

func TestOutputValid_NonMediaEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.txt")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if OutputValid(path) {
		t.Fatal("empty non-media file should be invalid")
	}
}

func TestOutputValid_MediaExtensionWithoutFfprobeIsInvalid(t *testing.T) {
	// A non-empty media-extension file with no readable duration must be
	// reported invalid: without ffprobe on PATH the duration check cannot
	// run, and with it these bytes yield no positive duration.
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("not really an mp4"), 0644); err != nil {
		t.Fatal(err)
	}
	if OutputValid(path) {
		t.Fatal("non-empty media file with no readable duration must be invalid")
	}
}
