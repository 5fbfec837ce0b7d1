package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv overrides the storage root from config when set.
const HomeEnv = "QUILL_HOME"

const (
	projectDir       = ".quill"
	modulesDirName   = "modules"
	registryFileName = "installed.toml"
	auditFileName    = "audit.log"
	configFileName   = "config.toml"
)

// Paths is the process-wide location set, built once at startup and passed
// explicitly to every component that touches the filesystem.
type Paths struct {
	// Home is the operator's home directory; user-scope targets live under it.
	Home         string
	Root         string
	ConfigPath   string
	ModulesDir   string
	RegistryPath string
	AuditPath    string
}

// NewPaths derives the storage layout from a home directory and storage root.
func NewPaths(home, root string) Paths {
	return Paths{
		Home:         home,
		Root:         root,
		ConfigPath:   filepath.Join(root, configFileName),
		ModulesDir:   filepath.Join(root, modulesDirName),
		RegistryPath: filepath.Join(root, registryFileName),
		AuditPath:    filepath.Join(root, auditFileName),
	}
}

// ResolvePaths builds Paths for cfg, honoring QUILL_HOME.
func ResolvePaths(cfg Config) (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("DOC_HOME: %w", err)
	}
	root, err := ResolveStorageRoot(cfg)
	if err != nil {
		return Paths{}, err
	}
	return NewPaths(home, root), nil
}

func DefaultRoot() string {
	if v := strings.TrimSpace(os.Getenv(HomeEnv)); v != "" {
		if expanded, err := ExpandPath(v); err == nil {
			return filepath.Clean(expanded)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return projectDir
	}
	return filepath.Join(home, projectDir)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultRoot(), configFileName)
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}

func ResolveStorageRoot(cfg Config) (string, error) {
	if v := strings.TrimSpace(os.Getenv(HomeEnv)); v != "" {
		expanded, err := ExpandPath(v)
		if err != nil {
			return "", err
		}
		return filepath.Clean(expanded), nil
	}
	expanded, err := ExpandPath(cfg.Storage.Root)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}

// LocalModulesDir returns where a project keeps cached module source trees.
func LocalModulesDir(projectPath string) string {
	return filepath.Join(projectPath, projectDir, modulesDirName)
}

// ResolveProjectPath returns the absolute form of path and checks that it exists.
func ResolveProjectPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("PRJ_PATH: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return abs, fmt.Errorf("PRJ_PATH_MISSING: project path does not exist: %s", abs)
		}
		return abs, fmt.Errorf("PRJ_PATH: %w", err)
	}
	if !info.IsDir() {
		return abs, fmt.Errorf("PRJ_PATH_NOT_DIR: project path is not a directory: %s", abs)
	}
	return abs, nil
}
