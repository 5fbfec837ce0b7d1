// Package logging builds the diagnostic logger from the [logging] config.
// Diagnostics go to stderr; report output never passes through here.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"quill/internal/config"
)

// New returns a logger writing to w. verbose forces debug level.
func New(w io.Writer, cfg config.LoggingConfig, verbose bool) (*log.Logger, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if verbose {
		level = log.DebugLevel
	}
	formatter, err := parseFormatter(cfg.Format)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          "quill",
		ReportTimestamp: level == log.DebugLevel,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func parseFormatter(v string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("LOG_FORMAT: unknown log format %q", v)
	}
}
