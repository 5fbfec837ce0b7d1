package installer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quill/internal/adapter"
	"quill/internal/audit"
	"quill/internal/config"
	"quill/internal/module"
	"quill/internal/registry"
)

type testEnv struct {
	t     *testing.T
	home  string
	paths config.Paths
	svc   *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	paths := config.NewPaths(home, filepath.Join(home, ".quill"))
	reg, err := registry.Open(paths.RegistryPath)
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	rt, err := adapter.NewRuntime(paths, config.DefaultConfig())
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &testEnv{
		t:     t,
		home:  home,
		paths: paths,
		svc: &Service{
			Registry: reg,
			Runtime:  rt,
			Modules:  module.NewStore(paths.ModulesDir),
			Audit:    audit.New(paths.AuditPath),
			Now:      func() time.Time { return fixed },
			Confirm: func([]registry.Installation) (bool, error) {
				t.Fatalf("unexpected confirmation prompt")
				return false, nil
			},
		},
	}
}

// addModule writes a module into the store. Skills listed in missing are
// declared in the manifest but have no directory.
func (e *testEnv) addModule(name string, skills, commands, missing []string) string {
	e.t.Helper()
	root := filepath.Join(e.paths.ModulesDir, name)
	var b strings.Builder
	b.WriteString("name: " + name + "\nversion: 1.0.0\n")
	if all := append(append([]string{}, skills...), missing...); len(all) > 0 {
		b.WriteString("skills:\n")
		for _, s := range all {
			b.WriteString("  - " + s + "\n")
		}
	}
	if len(commands) > 0 {
		b.WriteString("commands:\n")
		for _, c := range commands {
			b.WriteString("  - " + c + "\n")
		}
	}
	e.write(filepath.Join(root, module.ManifestPath), b.String())
	for _, s := range skills {
		e.write(filepath.Join(root, s, module.SkillFile), "---\ndescription: "+s+" skill\n---\n# "+s+"\n")
	}
	for _, c := range commands {
		e.write(filepath.Join(root, module.CommandsDir, c+".md"), "---\ndescription: "+c+"\n---\nRun "+c+" on $ARGUMENTS\n")
	}
	return root
}

func (e *testEnv) write(path, content string) {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("write: %v", err)
	}
}

func (e *testEnv) project() string {
	e.t.Helper()
	p := filepath.Join(e.t.TempDir(), "proj")
	if err := os.MkdirAll(p, 0o755); err != nil {
		e.t.Fatalf("mkdir project: %v", err)
	}
	return p
}

// reopen reads the registry back from disk.
func (e *testEnv) reopen() []registry.Installation {
	e.t.Helper()
	reg, err := registry.Open(e.paths.RegistryPath)
	if err != nil {
		e.t.Fatalf("reopen registry: %v", err)
	}
	return reg.All()
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func readString(path string) (string, error) {
	blob, err := os.ReadFile(path)
	return string(blob), err
}

func removeTree(path string) error {
	return os.RemoveAll(path)
}
