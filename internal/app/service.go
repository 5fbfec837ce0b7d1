package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"quill/internal/adapter"
	"quill/internal/audit"
	"quill/internal/config"
	"quill/internal/doctor"
	"quill/internal/installer"
	"quill/internal/logging"
	"quill/internal/module"
	"quill/internal/registry"
	"quill/pkg/adapterapi"
)

type Options struct {
	ConfigPath string
	// Home overrides the operator's home directory for user-scope targets.
	Home    string
	Verbose bool
	// LogWriter receives diagnostic logs; stderr when nil.
	LogWriter io.Writer
	Confirm   installer.ConfirmFunc
}

type Service struct {
	ConfigPath string
	Config     config.Config
	Paths      config.Paths

	Registry  *registry.Registry
	Runtime   *adapter.Runtime
	Modules   *module.Store
	Installer *installer.Service
	Doctor    *doctor.Service
	Audit     *audit.Logger
	Log       *log.Logger

	// registryErr is set when the registry file could not be opened. Engine
	// operations refuse to run; doctor still works.
	registryErr error
}

// ModuleInfo describes a module in the store.
type ModuleInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Path        string   `json:"path"`
	Skills      []string `json:"skills"`
	Commands    []string `json:"commands"`
	Valid       bool     `json:"valid"`
	Problems    []string `json:"problems,omitempty"`
	Installed   int      `json:"installed"`
}

func New(opts Options) (*Service, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Ensure(configPath)
	if err != nil {
		return nil, err
	}

	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	logger, err := logging.New(w, cfg.Logging, opts.Verbose)
	if err != nil {
		return nil, err
	}

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return nil, err
	}
	if opts.Home != "" {
		paths.Home = opts.Home
	}
	paths.ConfigPath = configPath
	logger.Debug("resolved storage", "root", paths.Root, "config", paths.ConfigPath)

	reg, registryErr := registry.Open(paths.RegistryPath)
	if registryErr != nil {
		logger.Warn("registry unreadable", "path", paths.RegistryPath, "err", registryErr)
		registryErr = errors.WithHint(registryErr, "Run 'quill doctor' to inspect "+paths.RegistryPath+".")
	}
	runtimeSvc, err := adapter.NewRuntime(paths, cfg)
	if err != nil {
		return nil, err
	}
	modules := module.NewStore(paths.ModulesDir)
	auditLog := audit.New(paths.AuditPath)

	return &Service{
		ConfigPath: configPath,
		Config:     cfg,
		Paths:      paths,
		Registry:   reg,
		Runtime:    runtimeSvc,
		Modules:    modules,
		Installer: &installer.Service{
			Registry: reg,
			Runtime:  runtimeSvc,
			Modules:  modules,
			Audit:    auditLog,
			Log:      logger,
			Confirm:  opts.Confirm,
		},
		Doctor: &doctor.Service{
			ConfigPath: configPath,
			Paths:      paths,
			Runtime:    runtimeSvc,
			Modules:    modules,
			Audit:      auditLog,
		},
		Audit:       auditLog,
		Log:         logger,
		registryErr: registryErr,
	}, nil
}

func (s *Service) SaveConfig() error {
	return config.Save(s.ConfigPath, s.Config)
}

// DefaultScope is the scope used when a command does not name one.
func (s *Service) DefaultScope() adapterapi.Scope {
	return adapterapi.Scope(s.Config.Install.DefaultScope)
}

func (s *Service) Install(ctx context.Context, req installer.InstallRequest) (installer.InstallReport, error) {
	if s.registryErr != nil {
		return installer.InstallReport{}, s.registryErr
	}
	if req.Scope == "" {
		req.Scope = s.DefaultScope()
	}
	return s.Installer.Install(ctx, req)
}

func (s *Service) Update(ctx context.Context, req installer.UpdateRequest) (installer.UpdateReport, error) {
	if s.registryErr != nil {
		return installer.UpdateReport{}, s.registryErr
	}
	return s.Installer.Update(ctx, req)
}

func (s *Service) Uninstall(ctx context.Context, req installer.UninstallRequest) (installer.UninstallReport, error) {
	if s.registryErr != nil {
		return installer.UninstallReport{}, s.registryErr
	}
	return s.Installer.Uninstall(ctx, req)
}

func (s *Service) List(assistant adapterapi.Assistant) ([]installer.ModuleGroup, error) {
	if s.registryErr != nil {
		return nil, s.registryErr
	}
	return s.Installer.List(assistant), nil
}

// ModuleAdd copies the module folder at dir into the store.
func (s *Service) ModuleAdd(dir, name string) (ModuleInfo, error) {
	m, err := s.Modules.Add(dir, name)
	if err != nil {
		if errors.Is(err, module.ErrNoManifest) {
			err = errors.WithHint(err, fmt.Sprintf("Create %s in the module folder.", module.ManifestPath))
		}
		return ModuleInfo{}, err
	}
	_ = s.Audit.Log(audit.Event{Operation: "mod_add", Phase: "commit", Status: "ok", Message: m.Name, Fields: map[string]string{"path": m.Path}})
	s.Log.Debug("module added", "module", m.Name, "path", m.Path)
	return s.describe(m), nil
}

// ModuleRemove deletes a module from the store. Existing installations keep
// their artifacts; later updates report the module as missing.
func (s *Service) ModuleRemove(name string) (ModuleInfo, error) {
	m, err := s.Modules.Get(name)
	if err != nil {
		return ModuleInfo{}, moduleLookupError(err)
	}
	info := s.describe(m)
	if err := s.Modules.Remove(name); err != nil {
		return ModuleInfo{}, moduleLookupError(err)
	}
	if info.Installed > 0 {
		s.Log.Warn("removed module still has installations", "module", name, "installations", info.Installed)
	}
	_ = s.Audit.Log(audit.Event{Operation: "mod_rm", Phase: "commit", Status: "ok", Message: name})
	return info, nil
}

func (s *Service) ModuleList() ([]ModuleInfo, error) {
	mods, err := s.Modules.List()
	if err != nil {
		return nil, err
	}
	out := make([]ModuleInfo, 0, len(mods))
	for _, m := range mods {
		out = append(out, s.describe(m))
	}
	return out, nil
}

func (s *Service) ModuleInfo(name string) (ModuleInfo, error) {
	m, err := s.Modules.Get(name)
	if err != nil {
		return ModuleInfo{}, moduleLookupError(err)
	}
	return s.describe(m), nil
}

func (s *Service) DoctorRun(ctx context.Context) doctor.Report {
	return s.Doctor.Run(ctx)
}

// EnableDetectedAssistants turns on every assistant whose home directory
// exists and returns the names that changed.
func (s *Service) EnableDetectedAssistants() ([]string, error) {
	detected := s.Runtime.Detect()
	enabled := []string{}
	for _, d := range detected {
		found := false
		for i := range s.Config.Assistants {
			if s.Config.Assistants[i].Name != d.Name {
				continue
			}
			found = true
			if !s.Config.Assistants[i].Enabled {
				s.Config.Assistants[i].Enabled = true
				enabled = append(enabled, d.Name)
			}
		}
		if !found {
			s.Config.Assistants = append(s.Config.Assistants, config.AssistantConfig{Name: d.Name, Enabled: true})
			enabled = append(enabled, d.Name)
		}
	}
	if len(enabled) == 0 {
		return enabled, nil
	}
	if err := s.SaveConfig(); err != nil {
		return nil, err
	}
	runtimeSvc, err := adapter.NewRuntime(s.Paths, s.Config)
	if err != nil {
		return nil, err
	}
	s.Runtime = runtimeSvc
	s.Installer.Runtime = runtimeSvc
	s.Doctor.Runtime = runtimeSvc
	sort.Strings(enabled)
	return enabled, nil
}

func (s *Service) describe(m *module.Module) ModuleInfo {
	valid, problems := m.Validate()
	installed := 0
	if s.Registry != nil {
		installed = len(s.Registry.Find(registry.Filter{Module: m.Name}))
	}
	return ModuleInfo{
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Path:        m.Path,
		Skills:      append([]string{}, m.SkillNames()...),
		Commands:    append([]string{}, m.Commands...),
		Valid:       valid,
		Problems:    problems,
		Installed:   installed,
	}
}

func moduleLookupError(err error) error {
	if errors.Is(err, module.ErrNotFound) {
		return errors.WithHint(err, "Use 'quill mod ls' to see the modules in the store.")
	}
	return err
}
