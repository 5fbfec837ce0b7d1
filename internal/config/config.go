// Package config reads and writes quill's config.toml and derives the storage
// layout from it. An empty path always means the default location under the
// storage root, which QUILL_HOME overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"quill/internal/fsutil"
)

// Ensure loads the config at path, writing the defaults first when the file
// does not exist yet.
func Ensure(path string) (Config, error) {
	path = resolve(path)
	cfg, err := Load(path)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		cfg = DefaultConfig()
		return cfg, Save(path, cfg)
	default:
		return Config{}, err
	}
}

// Load reads, normalizes and validates the config at path. A missing file is
// reported with an error that matches os.ErrNotExist.
func Load(path string) (Config, error) {
	path = resolve(path)
	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("CFG_MISSING: %w", err)
		}
		return Config{}, fmt.Errorf("CFG_READ: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(blob, &cfg); err != nil {
		return Config{}, fmt.Errorf("CFG_PARSE: %s: %w", path, err)
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save validates cfg and replaces the document at path, creating its parent
// directories.
func Save(path string, cfg Config) error {
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return err
	}
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("CFG_ENCODE: %w", err)
	}
	if err := fsutil.WriteFile(resolve(path), blob, 0o644); err != nil {
		return fmt.Errorf("CFG_WRITE: %w", err)
	}
	return nil
}

func resolve(path string) string {
	if path == "" {
		return DefaultConfigPath()
	}
	return path
}
