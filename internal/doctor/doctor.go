package doctor

import (
	"context"
	"errors"
	"os"

	"quill/internal/adapter"
	"quill/internal/audit"
	"quill/internal/config"
	"quill/internal/module"
	"quill/internal/registry"
)

type Finding struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Report struct {
	Healthy            bool         `json:"healthy"`
	Findings           []Finding    `json:"findings"`
	DetectedAssistants []string     `json:"detectedAssistants,omitempty"`
	Installations      int          `json:"installations"`
	StaleInstallations int          `json:"staleInstallations"`
	LastAuditEvent     *audit.Event `json:"lastAuditEvent,omitempty"`
}

type Service struct {
	ConfigPath string
	Paths      config.Paths
	Runtime    *adapter.Runtime
	Modules    *module.Store
	Audit      *audit.Logger
}

// Run inspects config, registry, module store and assistant homes. It never
// modifies anything.
func (s *Service) Run(_ context.Context) Report {
	findings := []Finding{}
	report := Report{}

	enabled := map[string]struct{}{}
	if _, err := os.Stat(s.ConfigPath); err != nil {
		findings = append(findings, Finding{Code: "DOC_CONFIG_MISSING", Level: "error", Message: err.Error()})
	} else if cfg, err := config.Load(s.ConfigPath); err != nil {
		findings = append(findings, Finding{Code: "DOC_CONFIG_INVALID", Level: "error", Message: err.Error()})
	} else {
		for _, a := range config.EnabledAssistants(cfg) {
			enabled[string(a)] = struct{}{}
		}
	}

	reg, err := registry.Open(s.Paths.RegistryPath)
	if err != nil {
		findings = append(findings, Finding{Code: "DOC_REGISTRY_INVALID", Level: "error", Message: err.Error()})
	} else {
		findings = append(findings, s.checkInstallations(reg, &report)...)
	}

	detected := adapter.DetectAvailable(s.Paths.Home)
	if s.Runtime != nil {
		detected = s.Runtime.Detect()
	}
	for _, d := range detected {
		report.DetectedAssistants = append(report.DetectedAssistants, d.Name)
		if _, ok := enabled[d.Name]; ok {
			continue
		}
		findings = append(findings, Finding{
			Code:    "ADP_DETECTED_DISABLED",
			Level:   "warn",
			Message: d.Name + " detected at " + d.Path + " but not enabled in config",
		})
	}

	if events, err := s.Audit.Recent(1); err != nil {
		findings = append(findings, Finding{Code: "DOC_AUDIT_UNREADABLE", Level: "warn", Message: err.Error()})
	} else if len(events) == 1 {
		report.LastAuditEvent = &events[0]
	}

	healthy := true
	for _, f := range findings {
		if f.Level == "error" {
			healthy = false
			break
		}
	}
	report.Healthy = healthy
	report.Findings = findings
	return report
}

func (s *Service) checkInstallations(reg *registry.Registry, report *Report) []Finding {
	var findings []Finding
	checked := map[string]bool{}
	for _, inst := range reg.All() {
		report.Installations++
		if inst.Scope == "project" {
			if _, err := os.Stat(inst.ProjectPath); err != nil {
				report.StaleInstallations++
				findings = append(findings, Finding{
					Code:    "DOC_STALE_INSTALLATION",
					Level:   "warn",
					Message: inst.Module + " (" + inst.Assistant + "): project path no longer exists: " + inst.ProjectPath + "; run 'quill uninstall " + inst.Module + "' to remove it",
				})
			}
		}
		if s.Modules == nil || checked[inst.Module] {
			continue
		}
		checked[inst.Module] = true
		m, err := s.Modules.Get(inst.Module)
		switch {
		case errors.Is(err, module.ErrNotFound):
			findings = append(findings, Finding{Code: "DOC_MODULE_MISSING", Level: "warn", Message: inst.Module + " is installed but not in the module store"})
		case err != nil:
			findings = append(findings, Finding{Code: "DOC_MODULE_INVALID", Level: "warn", Message: err.Error()})
		default:
			if ok, problems := m.Validate(); !ok {
				for _, p := range problems {
					findings = append(findings, Finding{Code: "DOC_MODULE_INVALID", Level: "warn", Message: inst.Module + ": " + p})
				}
			}
		}
	}
	return findings
}
