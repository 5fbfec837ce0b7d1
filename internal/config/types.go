package config

// Config is the v1 global schema stored in <root>/config.toml.
type Config struct {
	Version    int               `toml:"version"`
	Storage    StorageConfig     `toml:"storage"`
	Logging    LoggingConfig     `toml:"logging"`
	Install    InstallConfig     `toml:"install"`
	Assistants []AssistantConfig `toml:"assistants"`
}

type StorageConfig struct {
	Root string `toml:"root"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type InstallConfig struct {
	DefaultScope string `toml:"default_scope" json:"defaultScope"`
}

// AssistantConfig selects which assistants an unfiltered install targets.
type AssistantConfig struct {
	Name    string `toml:"name" json:"name"`
	Enabled bool   `toml:"enabled" json:"enabled"`
}
