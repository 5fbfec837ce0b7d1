package logging

import (
	"bytes"
	"strings"
	"testing"

	"quill/internal/config"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: "warn", Format: "logfmt"}, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hidden", "k", "v")
	logger.Warn("shown", "module", "docgen")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "module=docgen") {
		t.Fatalf("expected warn line in logfmt:\n%s", out)
	}
}

func TestVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: "error", Format: "json"}, true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("visible")
	if !strings.Contains(buf.String(), `"msg":"visible"`) {
		t.Fatalf("expected json debug line, got %q", buf.String())
	}
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, config.LoggingConfig{Level: "loud"}, false); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
	if _, err := New(&bytes.Buffer{}, config.LoggingConfig{Level: "info", Format: "xml"}, false); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}
