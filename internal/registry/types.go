package registry

import "time"

const DocumentVersion = 1

type document struct {
	Version       int            `toml:"version"`
	Installations []Installation `toml:"installations"`
}

// Installation records one place a module was materialized.
// ProjectPath is set iff Scope is "project".
type Installation struct {
	Module      string    `toml:"module" json:"module"`
	Assistant   string    `toml:"assistant" json:"assistant"`
	Scope       string    `toml:"scope" json:"scope"`
	ProjectPath string    `toml:"project_path,omitempty" json:"projectPath,omitempty"`
	Skills      []string  `toml:"skills" json:"skills"`
	Commands    []string  `toml:"commands" json:"commands"`
	InstalledAt time.Time `toml:"installed_at" json:"installedAt"`
	UpdatedAt   time.Time `toml:"updated_at" json:"updatedAt"`
}

// Key is the uniqueness tuple of an installation.
type Key struct {
	Module      string
	Assistant   string
	Scope       string
	ProjectPath string
}

func (i Installation) Key() Key {
	return Key{Module: i.Module, Assistant: i.Assistant, Scope: i.Scope, ProjectPath: i.ProjectPath}
}

// Empty reports whether nothing was recorded as installed.
func (i Installation) Empty() bool {
	return len(i.Skills) == 0 && len(i.Commands) == 0
}

// Filter selects installations; empty fields match anything.
type Filter struct {
	Module      string
	Assistant   string
	Scope       string
	ProjectPath string
}

func (f Filter) Match(i Installation) bool {
	if f.Module != "" && i.Module != f.Module {
		return false
	}
	if f.Assistant != "" && i.Assistant != f.Assistant {
		return false
	}
	if f.Scope != "" && i.Scope != f.Scope {
		return false
	}
	if f.ProjectPath != "" && i.ProjectPath != f.ProjectPath {
		return false
	}
	return true
}
