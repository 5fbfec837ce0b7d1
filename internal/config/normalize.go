package config

import (
	"strings"

	"quill/pkg/adapterapi"
)

func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "~/.quill"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Install.DefaultScope == "" {
		cfg.Install.DefaultScope = string(adapterapi.ScopeUser)
	}
	if len(cfg.Assistants) == 0 {
		cfg.Assistants = DefaultConfig().Assistants
	}
	for i := range cfg.Assistants {
		cfg.Assistants[i].Name = strings.ToLower(strings.TrimSpace(cfg.Assistants[i].Name))
	}
	return cfg
}
