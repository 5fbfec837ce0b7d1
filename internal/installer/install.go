package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"quill/internal/config"
	"quill/internal/module"
	"quill/internal/naming"
	"quill/internal/registry"
	"quill/pkg/adapterapi"
)

type InstallRequest struct {
	Module string
	// Assistant restricts the install to one target; empty means every
	// enabled assistant.
	Assistant   adapterapi.Assistant
	Scope       adapterapi.Scope
	ProjectPath string
}

// Install writes every skill and command of a module into each selected
// assistant and records what landed.
func (s *Service) Install(_ context.Context, req InstallRequest) (InstallReport, error) {
	scope := req.Scope
	if scope == "" {
		scope = adapterapi.ScopeUser
	}
	if _, err := adapterapi.ParseScope(string(scope)); err != nil {
		return InstallReport{}, precondition(err)
	}
	projectPath := ""
	if scope == adapterapi.ScopeProject {
		if strings.TrimSpace(req.ProjectPath) == "" {
			return InstallReport{}, precondition(
				errors.New("INS_PROJECT_REQUIRED: project path required for project scope"),
				"Usage: quill install <module> -s project <path/to/project>")
		}
		abs, err := config.ResolveProjectPath(req.ProjectPath)
		if err != nil {
			return InstallReport{}, precondition(err)
		}
		projectPath = abs
	} else if req.ProjectPath != "" {
		s.logger().Warn("project path ignored for user scope", "path", req.ProjectPath)
	}

	assistants := s.Runtime.Enabled()
	if req.Assistant != "" {
		a, err := adapterapi.ParseAssistant(string(req.Assistant))
		if err != nil {
			return InstallReport{}, precondition(err)
		}
		assistants = []adapterapi.Assistant{a}
	}

	m, err := s.loadModule(req.Module)
	if err != nil {
		return InstallReport{}, err
	}
	report := InstallReport{Module: m.Name, Scope: string(scope), ProjectPath: projectPath}
	if !m.HasItems() {
		report.NoItems = true
		return report, nil
	}

	src := m
	if scope == adapterapi.ScopeProject {
		cached, err := module.CopyToLocal(m, config.LocalModulesDir(projectPath))
		if err != nil {
			return report, err
		}
		src = m.WithPath(cached)
		s.logger().Debug("module cached in project", "module", m.Name, "path", cached)
	}

	s.audit("install", "start", map[string]string{"module": m.Name, "scope": string(scope), "project": projectPath},
		fmt.Sprintf("assistants=%d", len(assistants)))
	for _, a := range assistants {
		ar, err := s.installToAssistant(src, a, scope, projectPath)
		if err != nil {
			return report, err
		}
		report.Assistants = append(report.Assistants, ar)
		report.Installed += ar.Installed
	}
	s.audit("install", "commit", map[string]string{"module": m.Name}, fmt.Sprintf("installed=%d", report.Installed))
	return report, nil
}

// installToAssistant runs one (module, assistant) pairing to a terminal
// outcome. The returned error is reserved for registry write failures.
func (s *Service) installToAssistant(src *module.Module, a adapterapi.Assistant, scope adapterapi.Scope, projectPath string) (AssistantReport, error) {
	rep := AssistantReport{Assistant: string(a), Items: []ItemResult{}}
	log := s.logger().With("assistant", a, "module", src.Name)
	target, err := s.Runtime.Get(a)
	if err != nil {
		rep.SkillPathError = err.Error()
		rep.CommandPathError = err.Error()
		rep.Outcome = OutcomeNothing
		return rep, nil
	}

	var skills, commands []string
	failed := false

	if len(src.Skills) > 0 {
		dest, err := target.ResolveSkillPath(scope, projectPath)
		switch {
		case errors.Is(err, adapterapi.ErrUnsupportedScope):
			rep.SkillsSkipped = true
			rep.SkipReason = err.Error()
			rep.SkipHint = strings.Join(errors.GetAllHints(err), " ")
			log.Warn("skills skipped", "reason", err)
		case err != nil:
			rep.SkillPathError = err.Error()
			failed = true
			log.Warn("skill path unresolved", "err", err)
		default:
			rep.SkillPath = dest
			for _, item := range src.SkillNames() {
				name := naming.Prefixed(src.Name, item)
				ok, werr := target.WriteSkill(adapterapi.SkillWrite{
					Module:      src.Name,
					Skill:       item,
					Name:        name,
					Source:      src.SkillSource(item),
					Dest:        dest,
					ProjectPath: projectPath,
				})
				res := itemResult(KindSkill, item, name, ok, werr)
				rep.Items = append(rep.Items, res)
				if res.Status == ItemInstalled {
					skills = append(skills, name)
					log.Debug("skill written", "name", name, "dest", dest)
				} else {
					failed = true
				}
			}
		}
	}

	if len(src.Commands) > 0 {
		dest, err := target.ResolveCommandPath(scope, projectPath)
		if err != nil {
			rep.CommandPathError = err.Error()
			failed = true
			log.Warn("command path unresolved", "err", err)
		} else {
			rep.CommandPath = dest
			for _, cmd := range src.Commands {
				ok, werr := target.WriteCommand(adapterapi.CommandWrite{
					Module:      src.Name,
					Command:     cmd,
					Source:      src.CommandSource(cmd),
					Dest:        dest,
					ProjectPath: projectPath,
				})
				res := itemResult(KindCommand, cmd, naming.CommandName(src.Name, cmd), ok, werr)
				rep.Items = append(rep.Items, res)
				if res.Status == ItemInstalled {
					commands = append(commands, cmd)
					log.Debug("command written", "command", cmd, "dest", dest)
				} else {
					failed = true
				}
			}
		}
	}

	rep.Installed = len(skills) + len(commands)
	if rep.Installed == 0 {
		rep.Outcome = OutcomeNothing
		return rep, nil
	}
	now := s.now()
	inst := registry.Installation{
		Module:      src.Name,
		Assistant:   string(a),
		Scope:       string(scope),
		ProjectPath: projectPath,
		Skills:      skills,
		Commands:    commands,
		InstalledAt: now,
		UpdatedAt:   now,
	}
	// Reinstalling replaces the item lists but keeps the first install time.
	if prev, ok := s.Registry.Get(inst.Key()); ok {
		inst.InstalledAt = prev.InstalledAt
	}
	if err := s.Registry.Add(inst); err != nil {
		return rep, err
	}
	rep.Outcome = OutcomeInstalled
	if failed {
		rep.Outcome = OutcomePartial
	}
	return rep, nil
}
