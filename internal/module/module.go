// Package module loads module bundles: a manifest at .quill/module.yml plus
// the skill directories and command files it names.
package module

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ManifestPath = ".quill/module.yml"
	SkillFile    = "SKILL.md"
	CommandsDir  = "commands"
)

// ErrNoManifest is returned by Load when the directory carries no manifest.
var ErrNoManifest = errors.New("MOD_NO_MANIFEST: no .quill/module.yml found")

type manifest struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Skills      []string `yaml:"skills,omitempty"`
	Commands    []string `yaml:"commands,omitempty"`
}

// Module is a loaded module bundle rooted at Path.
type Module struct {
	Name        string
	Version     string
	Description string
	Path        string
	// Skills holds skill directories relative to Path; the artifact item
	// name is the last path element.
	Skills   []string
	Commands []string
}

// Load reads the manifest of the module rooted at path. A manifest without
// a name takes the directory name.
func Load(path string) (*Module, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("MOD_PATH: %w", err)
	}
	blob, err := os.ReadFile(filepath.Join(root, ManifestPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoManifest
		}
		return nil, fmt.Errorf("MOD_READ: %w", err)
	}
	var mf manifest
	if err := yaml.Unmarshal(blob, &mf); err != nil {
		return nil, fmt.Errorf("MOD_PARSE: %s: %w", ManifestPath, err)
	}
	name := strings.TrimSpace(mf.Name)
	if name == "" {
		name = filepath.Base(root)
	}
	return &Module{
		Name:        name,
		Version:     strings.TrimSpace(mf.Version),
		Description: strings.TrimSpace(mf.Description),
		Path:        root,
		Skills:      mf.Skills,
		Commands:    mf.Commands,
	}, nil
}

// HasItems reports whether the module defines any skill or command.
func (m *Module) HasItems() bool {
	return len(m.Skills) > 0 || len(m.Commands) > 0
}

// SkillNames returns the item name of every skill in manifest order.
func (m *Module) SkillNames() []string {
	out := make([]string, 0, len(m.Skills))
	for _, rel := range m.Skills {
		out = append(out, skillName(rel))
	}
	return out
}

// SkillSource returns the directory of the named skill. Names not declared
// in the manifest resolve to a directory of that name at the module root.
func (m *Module) SkillSource(name string) string {
	for _, rel := range m.Skills {
		if skillName(rel) == name {
			return filepath.Join(m.Path, filepath.FromSlash(rel))
		}
	}
	return filepath.Join(m.Path, name)
}

// CommandSource returns the markdown file backing command name.
func (m *Module) CommandSource(name string) string {
	return filepath.Join(m.Path, CommandsDir, name+".md")
}

// WithPath returns a copy of m rooted at path, used after caching a module
// inside a project.
func (m *Module) WithPath(path string) *Module {
	cp := *m
	cp.Path = path
	return &cp
}

func skillName(rel string) string {
	return filepath.Base(filepath.Clean(filepath.FromSlash(strings.TrimSpace(rel))))
}
