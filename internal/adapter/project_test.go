package adapter

import (
	"errors"
	"path/filepath"
	"testing"

	"quill/internal/config"
	"quill/pkg/adapterapi"
)

func newTestRuntime(t *testing.T, home string) *Runtime {
	t.Helper()
	cfg := config.DefaultConfig()
	r, err := NewRuntime(config.NewPaths(home, filepath.Join(home, ".quill")), cfg)
	if err != nil {
		t.Fatalf("new runtime failed: %v", err)
	}
	return r
}

func TestResolveSkillPath(t *testing.T) {
	home := "/home/user"
	project := "/work/proj"
	r := newTestRuntime(t, home)
	cases := []struct {
		assistant   adapterapi.Assistant
		scope       adapterapi.Scope
		want        string
		unsupported bool
	}{
		{adapterapi.AssistantClaudeCode, adapterapi.ScopeUser, filepath.Join(home, ".claude", "skills"), false},
		{adapterapi.AssistantClaudeCode, adapterapi.ScopeProject, filepath.Join(project, ".claude", "skills"), false},
		{adapterapi.AssistantCursor, adapterapi.ScopeUser, "", true},
		{adapterapi.AssistantCursor, adapterapi.ScopeProject, filepath.Join(project, ".cursor", "rules"), false},
		{adapterapi.AssistantGeminiCLI, adapterapi.ScopeUser, "", true},
		{adapterapi.AssistantGeminiCLI, adapterapi.ScopeProject, filepath.Join(project, "GEMINI.md"), false},
	}
	for _, tc := range cases {
		t.Run(string(tc.assistant)+"/"+string(tc.scope), func(t *testing.T) {
			target, err := r.Get(tc.assistant)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			got, err := target.ResolveSkillPath(tc.scope, project)
			if tc.unsupported {
				if !errors.Is(err, adapterapi.ErrUnsupportedScope) {
					t.Fatalf("expected ErrUnsupportedScope, got %v", err)
				}
				if err.Error() != "user scope not supported" {
					t.Fatalf("unexpected message %q", err.Error())
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("ResolveSkillPath = %q, %v; want %q", got, err, tc.want)
			}
		})
	}
}

func TestResolveCommandPathAlwaysSucceeds(t *testing.T) {
	home := "/home/user"
	project := "/work/proj"
	r := newTestRuntime(t, home)
	cases := []struct {
		assistant adapterapi.Assistant
		user      string
		project   string
		filename  string
	}{
		{adapterapi.AssistantClaudeCode, filepath.Join(home, ".claude", "commands"), filepath.Join(project, ".claude", "commands"), "docgen-draft.md"},
		{adapterapi.AssistantCursor, filepath.Join(home, ".cursor", "commands"), filepath.Join(project, ".cursor", "commands"), "docgen-draft.md"},
		{adapterapi.AssistantGeminiCLI, filepath.Join(home, ".gemini", "commands"), filepath.Join(project, ".gemini", "commands"), "docgen-draft.toml"},
	}
	for _, tc := range cases {
		t.Run(string(tc.assistant), func(t *testing.T) {
			target, _ := r.Get(tc.assistant)
			if got, err := target.ResolveCommandPath(adapterapi.ScopeUser, ""); err != nil || got != tc.user {
				t.Fatalf("user = %q, %v; want %q", got, err, tc.user)
			}
			if got, err := target.ResolveCommandPath(adapterapi.ScopeProject, project); err != nil || got != tc.project {
				t.Fatalf("project = %q, %v; want %q", got, err, tc.project)
			}
			if got := target.CommandFilename("docgen", "draft"); got != tc.filename {
				t.Fatalf("CommandFilename = %q, want %q", got, tc.filename)
			}
		})
	}
}

func TestProjectScopeWithoutPathIsPathResolutionError(t *testing.T) {
	r := newTestRuntime(t, "/home/user")
	for _, a := range adapterapi.Assistants() {
		target, _ := r.Get(a)
		if _, err := target.ResolveSkillPath(adapterapi.ScopeProject, ""); !errors.Is(err, adapterapi.ErrPathResolution) {
			t.Fatalf("%s skills: expected ErrPathResolution, got %v", a, err)
		}
		if _, err := target.ResolveCommandPath(adapterapi.ScopeProject, " "); !errors.Is(err, adapterapi.ErrPathResolution) {
			t.Fatalf("%s commands: expected ErrPathResolution, got %v", a, err)
		}
	}
}

func TestRuntimeShapesAndOrder(t *testing.T) {
	r := newTestRuntime(t, "/home/user")
	want := map[adapterapi.Assistant]adapterapi.Shape{
		adapterapi.AssistantClaudeCode: adapterapi.ShapePerItemDirectory,
		adapterapi.AssistantCursor:     adapterapi.ShapePerItemFile,
		adapterapi.AssistantGeminiCLI:  adapterapi.ShapeAggregateFile,
	}
	for a, shape := range want {
		target, err := r.Get(a)
		if err != nil || target.Shape() != shape || target.Assistant() != a {
			t.Fatalf("%s: target=%v err=%v", a, target, err)
		}
	}
	if _, err := r.Get("codex"); err == nil {
		t.Fatalf("expected unknown assistant to fail")
	}
	enabled := r.Enabled()
	if len(enabled) != 3 || enabled[0] != adapterapi.AssistantClaudeCode {
		t.Fatalf("unexpected enabled order %v", enabled)
	}
	if _, err := NewRuntime(config.Paths{}, config.DefaultConfig()); err == nil {
		t.Fatalf("expected runtime without home to fail")
	}
}
