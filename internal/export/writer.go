package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// ResolvePath substitutes the literal "{timestamp}" placeholder in
// auto_save_path (spec.md §6) with a sortable timestamp.
func ResolvePath(pathTemplate string, at time.Time) string {
	return strings.ReplaceAll(pathTemplate, "{timestamp}", at.UTC().Format("20060102T150405Z"))
}

// WriteAtomic writes data to path under an exclusive file lock, via a
// write-to-temp-then-rename sequence so a reader never observes a
// partially written file. Grounded on the teacher's file store, adapted
// from a long-lived task store to a one-shot report writer: there is no
// in-memory state to keep consistent afterward, so only the single
// rename step survives. A failure here is a SerializationError (spec.md
// §7): it is reported to the caller but never invalidates the
// already-computed in-memory result.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: creating directory %s: %w", dir, err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("export: acquiring lock for %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	tempPath := path + ".tmp"
	defer func() { _ = os.Remove(tempPath) }()

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("export: writing temporary file %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("export: renaming %s to %s: %w", tempPath, path, err)
	}
	return nil
}
