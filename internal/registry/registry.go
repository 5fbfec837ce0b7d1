// Package registry persists installation records as a single TOML document
// that is rewritten in full after every mutation.
package registry

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"

	"quill/internal/fsutil"
)

// ErrEmptyInstallation is returned by Add for a record with no skills and no commands.
var ErrEmptyInstallation = errors.New("REG_EMPTY: installation has no skills or commands")

// Registry is the in-memory view of the installations document. It is
// loaded once per command and has a single writer.
type Registry struct {
	path          string
	installations []Installation
}

// Open loads the registry at path. A missing file yields an empty registry.
func Open(path string) (*Registry, error) {
	r := &Registry{path: path}
	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("REG_READ: %w", err)
	}
	var doc document
	if err := toml.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("REG_PARSE: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("REG_VERSION: unsupported registry version %d", doc.Version)
	}
	seen := map[Key]struct{}{}
	for i, inst := range doc.Installations {
		doc.Installations[i] = compact(inst)
		if err := validate(inst); err != nil {
			return nil, err
		}
		if _, ok := seen[inst.Key()]; ok {
			return nil, fmt.Errorf("REG_SCHEMA: duplicate installation %s/%s/%s %q", inst.Module, inst.Assistant, inst.Scope, inst.ProjectPath)
		}
		seen[inst.Key()] = struct{}{}
	}
	r.installations = doc.Installations
	return r, nil
}

// Add upserts inst by its key, replacing any previous record wholesale.
func (r *Registry) Add(inst Installation) error {
	if inst.Empty() {
		return ErrEmptyInstallation
	}
	if err := validate(inst); err != nil {
		return err
	}
	if inst.InstalledAt.IsZero() {
		inst.InstalledAt = time.Now().UTC()
	}
	inst = cloneOne(compact(inst))
	replaced := false
	for i := range r.installations {
		if r.installations[i].Key() == inst.Key() {
			r.installations[i] = inst
			replaced = true
			break
		}
	}
	if !replaced {
		r.installations = append(r.installations, inst)
	}
	return r.save()
}

// Find returns installations matching f in insertion order.
func (r *Registry) Find(f Filter) []Installation {
	return cloneAll(lo.Filter(r.installations, func(inst Installation, _ int) bool {
		return f.Match(inst)
	}))
}

// Get returns the installation with the exact key, if any.
func (r *Registry) Get(k Key) (Installation, bool) {
	inst, ok := lo.Find(r.installations, func(inst Installation) bool {
		return inst.Key() == k
	})
	if !ok {
		return Installation{}, false
	}
	return cloneOne(inst), true
}

// Remove deletes the installation with the exact key. Removing an absent
// record is a no-op and does not rewrite the document.
func (r *Registry) Remove(module, assistant, scope, projectPath string) (bool, error) {
	k := Key{Module: module, Assistant: assistant, Scope: scope, ProjectPath: projectPath}
	idx := slices.IndexFunc(r.installations, func(inst Installation) bool {
		return inst.Key() == k
	})
	if idx < 0 {
		return false, nil
	}
	r.installations = slices.Delete(r.installations, idx, idx+1)
	return true, r.save()
}

// All returns a snapshot of every installation.
func (r *Registry) All() []Installation {
	return cloneAll(r.installations)
}

func (r *Registry) save() error {
	doc := document{Version: DocumentVersion, Installations: r.installations}
	if doc.Installations == nil {
		doc.Installations = []Installation{}
	}
	blob, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("REG_ENCODE: %w", err)
	}
	if err := fsutil.WriteFile(r.path, blob, 0o644); err != nil {
		return fmt.Errorf("REG_WRITE: %w", err)
	}
	return nil
}

func validate(inst Installation) error {
	if inst.Module == "" || inst.Assistant == "" {
		return fmt.Errorf("REG_SCHEMA: installation missing module or assistant")
	}
	switch inst.Scope {
	case "user":
		if inst.ProjectPath != "" {
			return fmt.Errorf("REG_SCHEMA: user-scope installation of %q must not carry a project path", inst.Module)
		}
	case "project":
		if inst.ProjectPath == "" {
			return fmt.Errorf("REG_SCHEMA: project-scope installation of %q missing project path", inst.Module)
		}
	default:
		return fmt.Errorf("REG_SCHEMA: invalid scope %q for %q", inst.Scope, inst.Module)
	}
	return nil
}

// compact stores empty item lists as nil so records compare equal before
// and after a reload.
func compact(inst Installation) Installation {
	if len(inst.Skills) == 0 {
		inst.Skills = nil
	}
	if len(inst.Commands) == 0 {
		inst.Commands = nil
	}
	return inst
}

func cloneOne(inst Installation) Installation {
	inst.Skills = slices.Clone(inst.Skills)
	inst.Commands = slices.Clone(inst.Commands)
	return inst
}

func cloneAll(in []Installation) []Installation {
	return lo.Map(in, func(inst Installation, _ int) Installation {
		return cloneOne(inst)
	})
}
