// Package generator renders module items into assistant-specific files.
// Every renderer reports a missing source as (false, nil).
package generator

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quill/internal/fsutil"
	"quill/internal/module"
)

// ClaudeSkill copies the skill directory src to dest, replacing any
// previous copy.
func ClaudeSkill(src, dest string) (bool, error) {
	if !fsutil.IsDir(src) {
		return false, nil
	}
	if err := fsutil.ReplaceDir(src, dest); err != nil {
		return false, fmt.Errorf("GEN_COPY: %w", err)
	}
	return true, nil
}

// SkillDescription returns the frontmatter description of src/SKILL.md, or
// the first paragraph line that is not a heading.
func SkillDescription(src string) string {
	blob, err := os.ReadFile(filepath.Join(src, module.SkillFile))
	if err != nil {
		return ""
	}
	fm, body, err := module.ParseFrontmatter(blob)
	if err == nil && strings.TrimSpace(fm.Description) != "" {
		return strings.TrimSpace(fm.Description)
	}
	if err != nil {
		body = string(blob)
	}
	return firstParagraphLine(body)
}

func firstParagraphLine(body string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || line == "---" {
			continue
		}
		return line
	}
	return ""
}

// readSkill loads SKILL.md from src. ok is false when the file is absent.
func readSkill(src string) (module.SkillFrontmatter, string, bool, error) {
	blob, err := os.ReadFile(filepath.Join(src, module.SkillFile))
	if err != nil {
		if os.IsNotExist(err) {
			return module.SkillFrontmatter{}, "", false, nil
		}
		return module.SkillFrontmatter{}, "", false, fmt.Errorf("GEN_READ: %w", err)
	}
	fm, body, err := module.ParseFrontmatter(blob)
	if err != nil {
		return module.SkillFrontmatter{}, "", false, fmt.Errorf("GEN_PARSE: %s: %w", src, err)
	}
	return fm, body, true, nil
}

// readCommand loads a command markdown file. ok is false when it is absent.
func readCommand(src string) (module.SkillFrontmatter, string, []byte, bool, error) {
	blob, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return module.SkillFrontmatter{}, "", nil, false, nil
		}
		return module.SkillFrontmatter{}, "", nil, false, fmt.Errorf("GEN_READ: %w", err)
	}
	fm, body, err := module.ParseFrontmatter(blob)
	if err != nil {
		// Commands with malformed frontmatter are still usable as plain prompts.
		return module.SkillFrontmatter{}, string(blob), blob, true, nil
	}
	return fm, body, blob, true, nil
}

// supportingFiles lists files in src other than SKILL.md, relative to src.
func supportingFiles(src string) []string {
	var out []string
	_ = filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(src, path)
		if relErr != nil || rel == module.SkillFile {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out
}

// displayPath renders path relative to projectPath when it lies inside it.
func displayPath(path, projectPath string) string {
	if projectPath == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(projectPath, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func ensureTrailingNewline(b []byte) []byte {
	if len(b) == 0 || bytes.HasSuffix(b, []byte("\n")) {
		return b
	}
	return append(b, '\n')
}
