package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"quill/pkg/adapterapi"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	want := []adapterapi.Assistant{adapterapi.AssistantClaudeCode, adapterapi.AssistantGeminiCLI, adapterapi.AssistantCursor}
	if diff := cmp.Diff(want, EnabledAssistants(cfg)); diff != "" {
		t.Fatalf("enabled assistants mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureCreatesAndLoadsConfig(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")
	cfg, err := Ensure(path)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if cfg.Version != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, cfg.Version)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file should exist: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Assistants) != 3 {
		t.Fatalf("expected default assistants, got %+v", loaded.Assistants)
	}
}

func TestLoadNormalizesPartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := "version = 1\n[logging]\nlevel = \"DEBUG\"\n[[assistants]]\nname = \"Cursor\"\nenabled = true\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Install.DefaultScope != "user" {
		t.Fatalf("expected default scope user, got %q", cfg.Install.DefaultScope)
	}
	if diff := cmp.Diff([]adapterapi.Assistant{adapterapi.AssistantCursor}, EnabledAssistants(cfg)); diff != "" {
		t.Fatalf("assistants mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"version":   func(c *Config) { c.Version = 2 },
		"level":     func(c *Config) { c.Logging.Level = "loud" },
		"format":    func(c *Config) { c.Logging.Format = "xml" },
		"scope":     func(c *Config) { c.Install.DefaultScope = "global" },
		"assistant": func(c *Config) { c.Assistants = append(c.Assistants, AssistantConfig{Name: "copilot", Enabled: true}) },
		"duplicate": func(c *Config) { c.Assistants = append(c.Assistants, AssistantConfig{Name: "cursor"}) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadInvalidTOMLReturnsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("version = ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "CFG_PARSE") {
		t.Fatalf("expected CFG_PARSE error, got %v", err)
	}
}

func TestEnsureDefaultsUnderQuillHome(t *testing.T) {
	root := filepath.Join(t.TempDir(), "store")
	t.Setenv(HomeEnv, root)
	if _, err := Ensure(""); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	path := filepath.Join(root, "config.toml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config under %s: %v", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected only config.toml under root, got %v err=%v", entries, err)
	}

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	if err := Save("", cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Logging.Level != "debug" {
		t.Fatalf("expected saved level to round-trip, got %+v", loaded.Logging)
	}
}

func TestLoadMissingMatchesNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent", "config.toml"))
	if !errors.Is(err, os.ErrNotExist) || !strings.HasPrefix(err.Error(), "CFG_MISSING:") {
		t.Fatalf("expected CFG_MISSING not-exist error, got %v", err)
	}
}

func TestSaveRejectsInvalidWithoutWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Install.DefaultScope = "global"
	if err := Save(path, cfg); err == nil || !strings.HasPrefix(err.Error(), "CFG_INSTALL:") {
		t.Fatalf("expected CFG_INSTALL error, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("invalid config must not be written: %v", err)
	}
}

func TestResolveStorageRootHonorsEnv(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom")
	t.Setenv(HomeEnv, override)
	root, err := ResolveStorageRoot(DefaultConfig())
	if err != nil {
		t.Fatalf("resolve storage root: %v", err)
	}
	if root != override {
		t.Fatalf("expected %q, got %q", override, root)
	}
	if got := DefaultConfigPath(); got != filepath.Join(override, "config.toml") {
		t.Fatalf("unexpected default config path %q", got)
	}
}

func TestNewPathsLayout(t *testing.T) {
	p := NewPaths("/home/op", "/home/op/.quill")
	if p.RegistryPath != filepath.Join("/home/op/.quill", "installed.toml") {
		t.Fatalf("unexpected registry path %q", p.RegistryPath)
	}
	if p.ModulesDir != filepath.Join("/home/op/.quill", "modules") {
		t.Fatalf("unexpected modules dir %q", p.ModulesDir)
	}
	if got := LocalModulesDir("/work/proj"); got != filepath.Join("/work/proj", ".quill", "modules") {
		t.Fatalf("unexpected local modules dir %q", got)
	}
}

func TestResolveProjectPath(t *testing.T) {
	dir := t.TempDir()
	abs, err := ResolveProjectPath(dir)
	if err != nil || abs != dir {
		t.Fatalf("expected %q, got %q (%v)", dir, abs, err)
	}
	if _, err := ResolveProjectPath(filepath.Join(dir, "nope")); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing project error, got %v", err)
	}
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := ResolveProjectPath(file); err == nil {
		t.Fatalf("expected not-a-directory error")
	}
}
