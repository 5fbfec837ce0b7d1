package adapter

import (
	"path/filepath"

	"quill/internal/fsutil"
	"quill/internal/generator"
	"quill/pkg/adapterapi"
)

// claudeTarget stores each skill as its own directory.
type claudeTarget struct {
	home string
}

func (c *claudeTarget) Assistant() adapterapi.Assistant { return adapterapi.AssistantClaudeCode }

func (c *claudeTarget) Shape() adapterapi.Shape { return adapterapi.ShapePerItemDirectory }

func (c *claudeTarget) ResolveSkillPath(scope adapterapi.Scope, projectPath string) (string, error) {
	return locate(c.Assistant(), c.home, scope, projectPath, ".claude", "skills")
}

func (c *claudeTarget) ResolveCommandPath(scope adapterapi.Scope, projectPath string) (string, error) {
	return locate(c.Assistant(), c.home, scope, projectPath, ".claude", "commands")
}

func (c *claudeTarget) WriteSkill(req adapterapi.SkillWrite) (bool, error) {
	dest, err := artifactPath(req.Dest, req.Name)
	if err != nil {
		return false, err
	}
	return generator.ClaudeSkill(req.Source, dest)
}

func (c *claudeTarget) WriteCommand(req adapterapi.CommandWrite) (bool, error) {
	return generator.ClaudeCommand(req.Source, filepath.Join(req.Dest, c.CommandFilename(req.Module, req.Command)))
}

func (c *claudeTarget) RemoveSkill(dest, _, name string) error {
	path, err := artifactPath(dest, name)
	if err != nil {
		return err
	}
	return fsutil.RemoveAll(path)
}

func (c *claudeTarget) RemoveCommand(dest, module, command string) error {
	return fsutil.RemoveAll(filepath.Join(dest, c.CommandFilename(module, command)))
}

func (c *claudeTarget) CommandFilename(module, command string) string {
	return commandFilename(module, command, ".md")
}
