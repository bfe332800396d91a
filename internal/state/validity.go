package state

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var audioExtensions = map[string]bool{".wav": true, ".mp3": true, ".m4a": true}
var videoExtensions = map[string]bool{".mp4": true, ".mkv": true, ".webm": true}

// OutputValid implements the output-validity predicate of spec.md §4.5: a
// file that doesn't exist is invalid; an audio or video file is valid only
// if ffprobe reports a positive duration (catching truncation from a
// killed prior run); anything else is valid if merely non-empty.
func OutputValid(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	if audioExtensions[ext] || videoExtensions[ext] {
		return ffprobeDurationPositive(path)
	}
	return info.Size() > 0
}

func ffprobeDurationPositive(path string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return false
	}
	return d > 0
}
