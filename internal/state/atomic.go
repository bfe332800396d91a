package state

import (
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to path by writing a sibling temporary file
// first and renaming it into place, so a crash mid-write never leaves a
// truncated state.json or report.json behind (spec.md §4.5). The containing
// directory is created if missing, since run state lives under a
// .reelforge/ directory that may not exist yet on a fresh workdir.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
