// Package adapterapi defines the contract every assistant target satisfies:
// where skills and commands live for a scope, and how one generated
// artifact is written or removed.
package adapterapi

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Assistant identifies a supported third-party AI assistant.
type Assistant string

const (
	AssistantClaudeCode Assistant = "claude-code"
	AssistantGeminiCLI  Assistant = "gemini-cli"
	AssistantCursor     Assistant = "cursor"
)

// Assistants lists every supported assistant in default install order.
func Assistants() []Assistant {
	return []Assistant{AssistantClaudeCode, AssistantGeminiCLI, AssistantCursor}
}

// ParseAssistant normalizes and validates an assistant name.
func ParseAssistant(v string) (Assistant, error) {
	a := Assistant(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range Assistants() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("ADP_UNKNOWN_ASSISTANT: unknown assistant %q (supported: claude-code, gemini-cli, cursor)", v)
}

// Scope is the installation breadth.
type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
)

// ParseScope validates a scope name.
func ParseScope(v string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(v))) {
	case ScopeUser:
		return ScopeUser, nil
	case ScopeProject:
		return ScopeProject, nil
	default:
		return "", fmt.Errorf("ADP_INVALID_SCOPE: invalid scope %q; use 'user' or 'project'", v)
	}
}

// Shape tags how a target stores skills.
type Shape string

const (
	ShapePerItemDirectory Shape = "per-item-directory"
	ShapePerItemFile      Shape = "per-item-file"
	ShapeAggregateFile    Shape = "aggregate-file"
)

var (
	// ErrUnsupportedScope means the assistant cannot discover skills installed at that scope.
	ErrUnsupportedScope = errors.New("user scope not supported")
	// ErrPathResolution means no destination could be derived for the scope/project.
	ErrPathResolution = errors.New("cannot determine destination path")
)

// SkillWrite describes one skill materialization.
type SkillWrite struct {
	Module      string
	Skill       string // original item name
	Name        string // prefixed artifact name
	Source      string // skill directory inside the module
	Dest        string // resolved skill location
	ProjectPath string
}

// CommandWrite describes one command materialization.
type CommandWrite struct {
	Module      string
	Command     string
	Source      string // command markdown file inside the module
	Dest        string // resolved command directory
	ProjectPath string
}

// Target is implemented once per assistant. Writes report a missing source
// as (false, nil) so callers can skip one item without aborting the batch;
// removes are idempotent.
type Target interface {
	Assistant() Assistant
	Shape() Shape
	ResolveSkillPath(scope Scope, projectPath string) (string, error)
	ResolveCommandPath(scope Scope, projectPath string) (string, error)
	WriteSkill(req SkillWrite) (bool, error)
	WriteCommand(req CommandWrite) (bool, error)
	RemoveSkill(dest, module, name string) error
	RemoveCommand(dest, module, command string) error
	CommandFilename(module, command string) string
}

// ModuleSweeper is implemented by targets that keep skills of many modules in
// one shared document. RemoveModuleSkills drops every section of module found
// at dest and reports how many went.
type ModuleSweeper interface {
	RemoveModuleSkills(dest, module string) (int, error)
}
