package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"quill/internal/fsutil"
	"quill/internal/module"
)

type cursorRuleFrontmatter struct {
	Description string   `yaml:"description"`
	Globs       []string `yaml:"globs,omitempty"`
	AlwaysApply bool     `yaml:"alwaysApply"`
}

// CursorRule writes <destDir>/<name>.mdc from the skill at src.
func CursorRule(src, destDir, name, projectPath string) (bool, error) {
	fm, body, ok, err := readSkill(src)
	if err != nil || !ok {
		return false, err
	}
	desc := strings.TrimSpace(fm.Description)
	if desc == "" {
		desc = firstParagraphLine(body)
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n")
	if extra := supportingFiles(src); len(extra) > 0 {
		base := displayPath(src, projectPath)
		b.WriteString("\n## Supporting files\n\n")
		b.WriteString(fmt.Sprintf("Located in `%s`:\n\n", base))
		for _, f := range extra {
			b.WriteString(fmt.Sprintf("- `%s/%s`\n", base, f))
		}
	}
	out, err := module.SerializeFrontmatter(cursorRuleFrontmatter{
		Description: desc,
		Globs:       fm.Globs,
		AlwaysApply: false,
	}, b.String())
	if err != nil {
		return false, fmt.Errorf("GEN_RENDER: %w", err)
	}
	if err := fsutil.WriteFile(filepath.Join(destDir, name+".mdc"), out, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// GeminiSection renders the body of one aggregate-document section for the
// skill at src. ok is false when the skill has no SKILL.md.
func GeminiSection(src, moduleName, skill, projectPath string) (string, bool, error) {
	_, _, ok, err := readSkill(src)
	if err != nil || !ok {
		return "", false, err
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("### %s-%s\n\n", moduleName, skill))
	if desc := SkillDescription(src); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	b.WriteString(fmt.Sprintf("Read `%s` for the full instructions before using this skill.\n",
		displayPath(filepath.Join(src, module.SkillFile), projectPath)))
	return b.String(), true, nil
}
