package adapter

import (
	"path/filepath"

	"quill/internal/fsutil"
	"quill/internal/generator"
	"quill/pkg/adapterapi"
)

// cursorTarget turns each skill into a project rule file.
type cursorTarget struct {
	home string
}

func (c *cursorTarget) Assistant() adapterapi.Assistant { return adapterapi.AssistantCursor }

func (c *cursorTarget) Shape() adapterapi.Shape { return adapterapi.ShapePerItemFile }

func (c *cursorTarget) ResolveSkillPath(scope adapterapi.Scope, projectPath string) (string, error) {
	if scope == adapterapi.ScopeUser {
		return "", unsupportedUserSkills(c.Assistant(), "Cursor only supports project-level rules for skills.")
	}
	return locate(c.Assistant(), c.home, scope, projectPath, ".cursor", "rules")
}

func (c *cursorTarget) ResolveCommandPath(scope adapterapi.Scope, projectPath string) (string, error) {
	return locate(c.Assistant(), c.home, scope, projectPath, ".cursor", "commands")
}

func (c *cursorTarget) WriteSkill(req adapterapi.SkillWrite) (bool, error) {
	if _, err := artifactPath(req.Dest, req.Name); err != nil {
		return false, err
	}
	return generator.CursorRule(req.Source, req.Dest, req.Name, req.ProjectPath)
}

func (c *cursorTarget) WriteCommand(req adapterapi.CommandWrite) (bool, error) {
	return generator.CursorCommand(req.Source, filepath.Join(req.Dest, c.CommandFilename(req.Module, req.Command)))
}

func (c *cursorTarget) RemoveSkill(dest, _, name string) error {
	path, err := artifactPath(dest, name+".mdc")
	if err != nil {
		return err
	}
	return fsutil.RemoveAll(path)
}

func (c *cursorTarget) RemoveCommand(dest, module, command string) error {
	return fsutil.RemoveAll(filepath.Join(dest, c.CommandFilename(module, command)))
}

func (c *cursorTarget) CommandFilename(module, command string) string {
	return commandFilename(module, command, ".md")
}
