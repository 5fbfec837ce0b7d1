package adapter

import (
	"path/filepath"

	"quill/internal/fsutil"
	"quill/internal/generator"
	"quill/internal/naming"
	"quill/pkg/adapterapi"
)

// geminiTarget keeps every skill of a project as a section of GEMINI.md.
// Commands stay one TOML file each.
type geminiTarget struct {
	home string
}

func (g *geminiTarget) Assistant() adapterapi.Assistant { return adapterapi.AssistantGeminiCLI }

func (g *geminiTarget) Shape() adapterapi.Shape { return adapterapi.ShapeAggregateFile }

func (g *geminiTarget) ResolveSkillPath(scope adapterapi.Scope, projectPath string) (string, error) {
	if scope == adapterapi.ScopeUser {
		return "", unsupportedUserSkills(g.Assistant(), "Gemini CLI skills can only read files within project directories.")
	}
	return locate(g.Assistant(), g.home, scope, projectPath, "GEMINI.md")
}

func (g *geminiTarget) ResolveCommandPath(scope adapterapi.Scope, projectPath string) (string, error) {
	return locate(g.Assistant(), g.home, scope, projectPath, ".gemini", "commands")
}

func (g *geminiTarget) WriteSkill(req adapterapi.SkillWrite) (bool, error) {
	skill := req.Skill
	if skill == "" {
		skill = naming.Unprefix(req.Module, req.Name)
	}
	body, ok, err := generator.GeminiSection(req.Source, req.Module, skill, req.ProjectPath)
	if err != nil || !ok {
		return false, err
	}
	doc, err := LoadAggregate(req.Dest)
	if err != nil {
		return false, err
	}
	doc.Upsert(req.Module, skill, body)
	if err := doc.Save(); err != nil {
		return false, err
	}
	return true, nil
}

func (g *geminiTarget) WriteCommand(req adapterapi.CommandWrite) (bool, error) {
	return generator.GeminiCommand(req.Source, filepath.Join(req.Dest, g.CommandFilename(req.Module, req.Command)), req.Command)
}

// RemoveSkill drops the section for name; dest is the document itself.
func (g *geminiTarget) RemoveSkill(dest, module, name string) error {
	if !hasManagedSections(dest) {
		return nil
	}
	doc, err := LoadAggregate(dest)
	if err != nil {
		return err
	}
	if doc.Remove(module, naming.Unprefix(module, name)) == 0 {
		return nil
	}
	return doc.Save()
}

func (g *geminiTarget) RemoveModuleSkills(dest, module string) (int, error) {
	if !hasManagedSections(dest) {
		return 0, nil
	}
	doc, err := LoadAggregate(dest)
	if err != nil {
		return 0, err
	}
	n := doc.RemoveModule(module)
	if n == 0 {
		return 0, nil
	}
	return n, doc.Save()
}

func (g *geminiTarget) RemoveCommand(dest, module, command string) error {
	return fsutil.RemoveAll(filepath.Join(dest, g.CommandFilename(module, command)))
}

func (g *geminiTarget) CommandFilename(module, command string) string {
	return commandFilename(module, command, ".toml")
}
