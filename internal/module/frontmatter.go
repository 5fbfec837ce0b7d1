package module

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SkillFrontmatter is the metadata block at the top of SKILL.md or a command file.
type SkillFrontmatter struct {
	Name         string   `yaml:"name,omitempty"`
	Description  string   `yaml:"description,omitempty"`
	Globs        []string `yaml:"globs,omitempty"`
	ArgumentHint string   `yaml:"argument-hint,omitempty"`
}

// ParseFrontmatter splits content into its YAML frontmatter and body.
// Content without a complete "---" block is returned entirely as body.
func ParseFrontmatter(content []byte) (SkillFrontmatter, string, error) {
	var fm SkillFrontmatter
	text := string(content)
	if !strings.HasPrefix(text, "---") {
		return fm, text, nil
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(text[3:], "\r"), "\n")
	idx := strings.Index(rest, "\n---")
	if idx == -1 {
		return fm, text, nil
	}
	body := rest[idx+4:]
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return SkillFrontmatter{}, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return fm, body, nil
}

// SerializeFrontmatter renders fm as a YAML block followed by body.
func SerializeFrontmatter(fm any, body string) ([]byte, error) {
	blob, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(blob)
	b.WriteString("---\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return []byte(b.String()), nil
}
