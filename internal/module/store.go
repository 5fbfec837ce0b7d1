package module

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quill/internal/fsutil"
)

// ErrNotFound is returned when a module is absent from the store.
var ErrNotFound = errors.New("MOD_NOT_FOUND: module not found")

// Store is the global module directory, one subdirectory per module.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns where module name lives in the store.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Get loads module name from the store.
func (s *Store) Get(name string) (*Module, error) {
	if !validStoreName(name) {
		return nil, fmt.Errorf("%w: invalid module name %q", ErrNotFound, name)
	}
	dir := s.Path(name)
	if !fsutil.IsDir(dir) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	m, err := Load(dir)
	if err != nil {
		return nil, err
	}
	// The store directory is the module's identity.
	m.Name = name
	return m, nil
}

// List loads every module in the store, sorted by directory name. Entries
// without a manifest are skipped.
func (s *Store) List() ([]*Module, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("MOD_LIST: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	out := make([]*Module, 0, len(names))
	for _, name := range names {
		m, err := Load(s.Path(name))
		if err != nil {
			if errors.Is(err, ErrNoManifest) {
				continue
			}
			return nil, err
		}
		m.Name = name
		out = append(out, m)
	}
	return out, nil
}

// Add copies the module folder at src into the store. name overrides the
// manifest name when set. An existing module of that name is replaced.
func (s *Store) Add(src, name string) (*Module, error) {
	m, err := Load(src)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = m.Name
	}
	if !validStoreName(name) {
		return nil, fmt.Errorf("MOD_NAME: invalid module name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("MOD_ADD: %w", err)
	}
	dest := s.Path(name)
	if samePath(m.Path, dest) {
		return m, nil
	}
	if err := fsutil.ReplaceDir(m.Path, dest); err != nil {
		return nil, fmt.Errorf("MOD_ADD: copy %s: %w", m.Path, err)
	}
	added, err := Load(dest)
	if err != nil {
		return nil, err
	}
	added.Name = name
	return added, nil
}

// Remove deletes module name from the store.
func (s *Store) Remove(name string) error {
	if !validStoreName(name) {
		return fmt.Errorf("%w: invalid module name %q", ErrNotFound, name)
	}
	dir := s.Path(name)
	if !fsutil.Exists(dir) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return fsutil.RemoveAll(dir)
}

// CopyToLocal caches m's source tree under localModulesDir/<name> and
// returns the cached path. When that destination is m itself nothing is
// copied.
func CopyToLocal(m *Module, localModulesDir string) (string, error) {
	dest := filepath.Join(localModulesDir, m.Name)
	if samePath(dest, m.Path) {
		return dest, nil
	}
	if err := os.MkdirAll(localModulesDir, 0o755); err != nil {
		return "", fmt.Errorf("MOD_CACHE: %w", err)
	}
	if err := fsutil.ReplaceDir(m.Path, dest); err != nil {
		return "", fmt.Errorf("MOD_CACHE: %w", err)
	}
	return dest, nil
}

func validStoreName(name string) bool {
	return name != "" && name == filepath.Base(name) && name != "." && name != ".." && namePattern.MatchString(name)
}

func samePath(a, b string) bool {
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return ra == rb
}
