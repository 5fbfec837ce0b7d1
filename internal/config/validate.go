package config

import (
	"fmt"

	"quill/pkg/adapterapi"
)

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var allowedLogFormats = map[string]struct{}{
	"text":   {},
	"json":   {},
	"logfmt": {},
}

func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("CFG_VERSION: unsupported version %d", cfg.Version)
	}
	if cfg.Storage.Root == "" {
		return fmt.Errorf("CFG_STORAGE: missing storage root")
	}
	if _, ok := allowedLogLevels[cfg.Logging.Level]; !ok {
		return fmt.Errorf("CFG_LOGGING: invalid log level %q", cfg.Logging.Level)
	}
	if _, ok := allowedLogFormats[cfg.Logging.Format]; !ok {
		return fmt.Errorf("CFG_LOGGING: invalid log format %q", cfg.Logging.Format)
	}
	if _, err := adapterapi.ParseScope(cfg.Install.DefaultScope); err != nil {
		return fmt.Errorf("CFG_INSTALL: %w", err)
	}

	names := map[string]struct{}{}
	for _, a := range cfg.Assistants {
		if _, err := adapterapi.ParseAssistant(a.Name); err != nil {
			return fmt.Errorf("CFG_ASSISTANT: %w", err)
		}
		if _, ok := names[a.Name]; ok {
			return fmt.Errorf("CFG_ASSISTANT: duplicate assistant %q", a.Name)
		}
		names[a.Name] = struct{}{}
	}
	return nil
}

// EnabledAssistants returns the enabled assistants in config order.
func EnabledAssistants(cfg Config) []adapterapi.Assistant {
	out := make([]adapterapi.Assistant, 0, len(cfg.Assistants))
	for _, a := range cfg.Assistants {
		if !a.Enabled {
			continue
		}
		out = append(out, adapterapi.Assistant(a.Name))
	}
	return out
}
