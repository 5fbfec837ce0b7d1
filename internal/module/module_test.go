package module

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeModule(t *testing.T, root, manifest string) string {
	t.Helper()
	writeFile(t, filepath.Join(root, ManifestPath), manifest)
	return root
}

func TestLoadReadsManifest(t *testing.T) {
	root := writeModule(t, filepath.Join(t.TempDir(), "docgen"), "name: docgen\nversion: 1.2.0\ndescription: docs\nskills:\n  - skills/summarize\ncommands:\n  - draft\n")
	m, err := Load(root)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.Name != "docgen" || m.Version != "1.2.0" || m.Description != "docs" {
		t.Fatalf("unexpected module: %+v", m)
	}
	if diff := cmp.Diff([]string{"summarize"}, m.SkillNames()); diff != "" {
		t.Fatalf("skill names (-want +got):\n%s", diff)
	}
	if got, want := m.SkillSource("summarize"), filepath.Join(root, "skills", "summarize"); got != want {
		t.Fatalf("SkillSource = %q, want %q", got, want)
	}
	if got, want := m.SkillSource("legacy"), filepath.Join(root, "legacy"); got != want {
		t.Fatalf("undeclared SkillSource = %q, want %q", got, want)
	}
	if got, want := m.CommandSource("draft"), filepath.Join(root, "commands", "draft.md"); got != want {
		t.Fatalf("CommandSource = %q, want %q", got, want)
	}
	if !m.HasItems() {
		t.Fatalf("expected module to have items")
	}
}

func TestLoadDefaultsNameToDirectory(t *testing.T) {
	root := writeModule(t, filepath.Join(t.TempDir(), "fallback"), "skills: []\n")
	m, err := Load(root)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.Name != "fallback" {
		t.Fatalf("expected directory name, got %q", m.Name)
	}
	if m.HasItems() {
		t.Fatalf("expected no items")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
	root := writeModule(t, t.TempDir(), "name: [unterminated\n")
	if _, err := Load(root); err == nil || !strings.Contains(err.Error(), "MOD_PARSE") {
		t.Fatalf("expected MOD_PARSE, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mod      Module
		skillMD  string
		wantOK   bool
		wantErrs []string
	}{
		{name: "valid", mod: Module{Name: "docgen", Version: "1.0.0", Skills: []string{"summarize"}, Commands: []string{"draft"}}, skillMD: "---\ndescription: ok\n---\nbody", wantOK: true},
		{name: "v prefix", mod: Module{Name: "docgen", Version: "v2.1.0"}, wantOK: true},
		{name: "bad version", mod: Module{Name: "docgen", Version: "one"}, wantErrs: []string{"invalid version"}},
		{name: "bad name", mod: Module{Name: "../x"}, wantErrs: []string{"invalid module name"}},
		{name: "duplicate skill", mod: Module{Name: "m", Skills: []string{"a/s", "b/s"}}, wantErrs: []string{"duplicate skill"}},
		{name: "escaping skill", mod: Module{Name: "m", Skills: []string{"../outside"}}, wantErrs: []string{"escapes"}},
		{name: "empty entries", mod: Module{Name: "m", Skills: []string{" "}, Commands: []string{""}}, wantErrs: []string{"skill entry is empty", "command entry is empty"}},
		{name: "duplicate command", mod: Module{Name: "m", Commands: []string{"x", "x"}}, wantErrs: []string{"duplicate command"}},
		{name: "broken frontmatter", mod: Module{Name: "m", Skills: []string{"summarize"}}, skillMD: "---\n: [\n---\nbody", wantErrs: []string{"SKILL.md"}},
		{name: "missing skill content is not structural", mod: Module{Name: "m", Skills: []string{"absent"}}, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.mod
			m.Path = t.TempDir()
			if tt.skillMD != "" {
				writeFile(t, filepath.Join(m.Path, "summarize", SkillFile), tt.skillMD)
			}
			ok, errs := m.Validate()
			if ok != tt.wantOK {
				t.Fatalf("Validate ok=%v errs=%v, want ok=%v", ok, errs, tt.wantOK)
			}
			joined := strings.Join(errs, "\n")
			for _, want := range tt.wantErrs {
				if !strings.Contains(joined, want) {
					t.Fatalf("expected error containing %q, got %v", want, errs)
				}
			}
		})
	}
}

func TestParseFrontmatter(t *testing.T) {
	fm, body, err := ParseFrontmatter([]byte("---\nname: s\ndescription: Summarize docs\nglobs: ['*.md']\n---\n# Title\ntext\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if fm.Description != "Summarize docs" || fm.Name != "s" {
		t.Fatalf("unexpected frontmatter: %+v", fm)
	}
	if diff := cmp.Diff([]string{"*.md"}, fm.Globs); diff != "" {
		t.Fatalf("globs (-want +got):\n%s", diff)
	}
	if body != "# Title\ntext\n" {
		t.Fatalf("unexpected body %q", body)
	}

	_, body, err = ParseFrontmatter([]byte("# no frontmatter"))
	if err != nil || body != "# no frontmatter" {
		t.Fatalf("plain content: body=%q err=%v", body, err)
	}
	_, body, err = ParseFrontmatter([]byte("---\nunterminated"))
	if err != nil || body != "---\nunterminated" {
		t.Fatalf("unterminated block should be body: body=%q err=%v", body, err)
	}
}

func TestSerializeFrontmatter(t *testing.T) {
	out, err := SerializeFrontmatter(SkillFrontmatter{Description: "d"}, "body\n")
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if string(out) != "---\ndescription: d\n---\n\nbody\n" {
		t.Fatalf("unexpected output %q", out)
	}
}
