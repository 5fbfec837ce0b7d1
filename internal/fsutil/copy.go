package fsutil

import (
	"errors"
	"os"

	cp "github.com/otiai10/copy"
)

// ReplaceDir copies the src tree to dst, removing whatever dst held before.
// Symlinks inside src are followed so the copy is self-contained.
func ReplaceDir(src, dst string) error {
	if err := RemoveAll(dst); err != nil {
		return err
	}
	return cp.Copy(src, dst, cp.Options{
		OnSymlink:     func(string) cp.SymlinkAction { return cp.Deep },
		PreserveTimes: false,
		Skip: func(info os.FileInfo, src, dest string) (bool, error) {
			return info.Name() == ".git", nil
		},
	})
}

// RemoveAll removes path whether it is a file, a directory tree or a symlink.
// A missing path is not an error.
func RemoveAll(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return os.RemoveAll(path)
}

// Exists reports whether path exists, without following a final symlink.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir reports whether path resolves to a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
