package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quill/internal/adapter"
	"quill/internal/audit"
	"quill/internal/config"
	"quill/internal/module"
	"quill/internal/registry"
)

func newService(t *testing.T, cfg config.Config) (*Service, config.Paths) {
	t.Helper()
	home := t.TempDir()
	paths := config.NewPaths(home, filepath.Join(home, ".quill"))
	if err := config.Save(paths.ConfigPath, cfg); err != nil {
		t.Fatalf("save config failed: %v", err)
	}
	rt, err := adapter.NewRuntime(paths, cfg)
	if err != nil {
		t.Fatalf("new runtime failed: %v", err)
	}
	return &Service{
		ConfigPath: paths.ConfigPath,
		Paths:      paths,
		Runtime:    rt,
		Modules:    module.NewStore(paths.ModulesDir),
		Audit:      audit.New(paths.AuditPath),
	}, paths
}

func codes(r Report) map[string]int {
	out := map[string]int{}
	for _, f := range r.Findings {
		out[f.Code]++
	}
	return out
}

func TestDoctorReportsDetectedDisabledAssistant(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Assistants = []config.AssistantConfig{{Name: "claude-code", Enabled: true}}
	svc, paths := newService(t, cfg)
	if err := os.MkdirAll(filepath.Join(paths.Home, ".cursor"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	report := svc.Run(context.Background())
	if len(report.DetectedAssistants) != 1 || report.DetectedAssistants[0] != "cursor" {
		t.Fatalf("expected cursor detected, got %+v", report.DetectedAssistants)
	}
	if codes(report)["ADP_DETECTED_DISABLED"] != 1 {
		t.Fatalf("expected ADP_DETECTED_DISABLED warning, got %+v", report.Findings)
	}
	if !report.Healthy {
		t.Fatalf("warnings alone must not mark the report unhealthy")
	}
}

func TestDoctorFlagsStaleRecordsAndMissingModules(t *testing.T) {
	svc, paths := newService(t, config.DefaultConfig())
	reg, err := registry.Open(paths.RegistryPath)
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	if err := reg.Add(registry.Installation{
		Module: "docgen", Assistant: "cursor", Scope: "project",
		ProjectPath: filepath.Join(paths.Home, "gone"), Skills: []string{"docgen-a"},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Audit.Log(audit.Event{Operation: "install", Phase: "commit", Status: "ok"}); err != nil {
		t.Fatalf("audit: %v", err)
	}

	report := svc.Run(context.Background())
	got := codes(report)
	if got["DOC_STALE_INSTALLATION"] != 1 || got["DOC_MODULE_MISSING"] != 1 {
		t.Fatalf("unexpected findings %+v", report.Findings)
	}
	if report.Installations != 1 || report.StaleInstallations != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}
	if report.LastAuditEvent == nil || report.LastAuditEvent.Operation != "install" {
		t.Fatalf("expected last audit event, got %+v", report.LastAuditEvent)
	}
}

func TestDoctorUnhealthyOnBrokenState(t *testing.T) {
	svc, paths := newService(t, config.DefaultConfig())
	if err := os.WriteFile(paths.RegistryPath, []byte("installations = ["), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	if err := os.Remove(paths.ConfigPath); err != nil {
		t.Fatalf("remove config: %v", err)
	}
	report := svc.Run(context.Background())
	got := codes(report)
	if report.Healthy || got["DOC_REGISTRY_INVALID"] != 1 || got["DOC_CONFIG_MISSING"] != 1 {
		t.Fatalf("expected unhealthy report, got %+v", report)
	}
}
