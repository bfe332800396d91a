package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// feedbackDir returns .reelforge/feedback under workdir, grounded on the
// teacher's artifacts/feedback convention (spec.md §12's supplemented
// checkpoint/feedback capture: a failed task's stderr/error is written
// alongside the state so a later checkpoint review or retry can read it).
func feedbackDir(workdir string) string {
	return filepath.Join(Dir(workdir), "feedback")
}

// WriteFeedback records content (typically an executor's stderr or error
// message) against the task that produced it.
func WriteFeedback(workdir, taskID, content string) error {
	path := filepath.Join(feedbackDir(workdir), fmt.Sprintf("from-%s.md", taskID))
	return writeFileAtomic(path, []byte(content), 0644)
}

// ReadAllFeedback concatenates every recorded feedback file into one
// human-readable report, empty if none has been recorded yet.
func ReadAllFeedback(workdir string) (string, error) {
	dir := feedbackDir(workdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	var parts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return "", err
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		taskID := strings.TrimSuffix(strings.TrimPrefix(e.Name(), "from-"), ".md")
		parts = append(parts, fmt.Sprintf("--- feedback from %s ---\n%s", taskID, content))
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n"), nil
}
