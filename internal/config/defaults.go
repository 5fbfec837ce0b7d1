package config

import "quill/pkg/adapterapi"

const (
	SchemaVersion = 1
)

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	cfg := Config{
		Version: SchemaVersion,
		Storage: StorageConfig{
			Root: "~/.quill",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Install: InstallConfig{
			DefaultScope: string(adapterapi.ScopeUser),
		},
	}
	for _, a := range adapterapi.Assistants() {
		cfg.Assistants = append(cfg.Assistants, AssistantConfig{Name: string(a), Enabled: true})
	}
	return cfg
}
