package module

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validate checks the manifest's structure. It returns every problem found,
// not just the first. Absent item content is not a structural error; it is
// reported per item at install time.
func (m *Module) Validate() (bool, []string) {
	var errs []string
	if !namePattern.MatchString(m.Name) {
		errs = append(errs, fmt.Sprintf("invalid module name %q", m.Name))
	}
	if m.Version != "" {
		v := m.Version
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		if !semver.IsValid(v) {
			errs = append(errs, fmt.Sprintf("invalid version %q: must be semantic version", m.Version))
		}
	}

	seen := map[string]struct{}{}
	for _, rel := range m.Skills {
		clean := strings.TrimSpace(rel)
		if clean == "" {
			errs = append(errs, "skill entry is empty")
			continue
		}
		if escapes(clean) {
			errs = append(errs, fmt.Sprintf("skill %q escapes the module directory", rel))
			continue
		}
		name := skillName(clean)
		if !namePattern.MatchString(name) {
			errs = append(errs, fmt.Sprintf("invalid skill name %q", name))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Sprintf("duplicate skill %q", name))
			continue
		}
		seen[name] = struct{}{}
		if err := checkSkillFile(filepath.Join(m.Path, filepath.FromSlash(clean), SkillFile)); err != nil {
			errs = append(errs, fmt.Sprintf("skill %q: %v", name, err))
		}
	}

	seenCmd := map[string]struct{}{}
	for _, name := range m.Commands {
		clean := strings.TrimSpace(name)
		switch {
		case clean == "":
			errs = append(errs, "command entry is empty")
		case !namePattern.MatchString(clean):
			errs = append(errs, fmt.Sprintf("invalid command name %q", name))
		default:
			if _, dup := seenCmd[clean]; dup {
				errs = append(errs, fmt.Sprintf("duplicate command %q", clean))
			}
			seenCmd[clean] = struct{}{}
		}
	}
	return len(errs) == 0, errs
}

func escapes(rel string) bool {
	p := filepath.FromSlash(rel)
	if filepath.IsAbs(p) {
		return true
	}
	clean := filepath.Clean(p)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == "."
}

// checkSkillFile only inspects SKILL.md when it exists.
func checkSkillFile(path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if _, _, err := ParseFrontmatter(blob); err != nil {
		return fmt.Errorf("%s: %w", SkillFile, err)
	}
	return nil
}
