package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// AtomicWrite writes data to path using a tmp+rename strategy so readers
// observe either the previous or the new content, never a truncated file.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("atomic write %s: %w", path, err)
	}
	return nil
}

// WriteFile creates the parent directory of path and writes data atomically.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return AtomicWrite(path, data, perm)
}
