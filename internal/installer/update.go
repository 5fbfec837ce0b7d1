package installer

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"quill/internal/config"
	"quill/internal/module"
	"quill/internal/naming"
	"quill/internal/registry"
	"quill/pkg/adapterapi"
)

type UpdateRequest struct {
	// Module and Assistant filter the records to refresh; empty matches all.
	Module    string
	Assistant adapterapi.Assistant
}

type loadedModule struct {
	m   *module.Module
	err error
}

// Update regenerates the artifacts of existing installations from the
// current module definitions.
func (s *Service) Update(_ context.Context, req UpdateRequest) (UpdateReport, error) {
	report := UpdateReport{Records: []RecordUpdate{}}
	records := s.Registry.Find(registry.Filter{Module: req.Module, Assistant: string(req.Assistant)})
	if len(records) == 0 {
		report.NoMatches = true
		return report, nil
	}
	s.audit("update", "start", map[string]string{"module": req.Module, "assistant": string(req.Assistant)},
		fmt.Sprintf("records=%d", len(records)))

	modules := map[string]loadedModule{}
	for _, rec := range records {
		ru, err := s.updateRecord(rec, modules)
		if err != nil {
			return report, err
		}
		switch ru.Status {
		case RecordUpdated, RecordEmptied:
			report.Updated++
		case RecordStale:
			report.Stale++
		}
		report.Records = append(report.Records, ru)
	}
	s.audit("update", "commit", nil, fmt.Sprintf("updated=%d stale=%d", report.Updated, report.Stale))
	return report, nil
}

func (s *Service) updateRecord(rec registry.Installation, modules map[string]loadedModule) (RecordUpdate, error) {
	ru := RecordUpdate{Installation: rec}
	log := s.logger().With("module", rec.Module, "assistant", rec.Assistant)

	if rec.Scope == string(adapterapi.ScopeProject) {
		if _, err := os.Stat(rec.ProjectPath); err != nil {
			ru.Status = RecordStale
			ru.Reason = fmt.Sprintf("project path no longer exists: %s", rec.ProjectPath)
			log.Warn("stale installation", "project", rec.ProjectPath)
			return ru, nil
		}
	}

	lm, ok := modules[rec.Module]
	if !ok {
		m, err := s.loadModule(rec.Module)
		lm = loadedModule{m: m, err: err}
		modules[rec.Module] = lm
	}
	if lm.err != nil {
		ru.Reason = lm.err.Error()
		var verr *ValidationError
		switch {
		case errors.As(lm.err, &verr):
			ru.Status = RecordModuleInvalid
			ru.Problems = verr.Problems
		case errors.Is(lm.err, module.ErrNotFound):
			ru.Status = RecordModuleMissing
		default:
			ru.Status = RecordModuleInvalid
		}
		return ru, nil
	}

	target, err := s.Runtime.Get(adapterapi.Assistant(rec.Assistant))
	if err != nil {
		ru.Status = RecordFailed
		ru.Reason = err.Error()
		return ru, nil
	}
	scope := adapterapi.Scope(rec.Scope)

	src := lm.m
	if scope == adapterapi.ScopeProject {
		cached, err := module.CopyToLocal(src, config.LocalModulesDir(rec.ProjectPath))
		if err != nil {
			ru.Status = RecordFailed
			ru.Reason = err.Error()
			return ru, nil
		}
		src = src.WithPath(cached)
	}
	ru.SourcePath = src.Path

	skills := rec.Skills
	if len(src.Skills) > 0 || len(rec.Skills) > 0 {
		dest, err := target.ResolveSkillPath(scope, rec.ProjectPath)
		switch {
		case errors.Is(err, adapterapi.ErrUnsupportedScope):
			skills = nil
			if len(src.Skills) > 0 {
				ru.SkillsSkipped = true
				ru.SkipReason = err.Error()
				ru.SkipHint = strings.Join(errors.GetAllHints(err), " ")
				log.Warn("skills skipped", "reason", err)
			}
		case err != nil:
			ru.Reason = err.Error()
			log.Warn("skill path unresolved, keeping recorded skills", "err", err)
		default:
			skills = nil
			for _, item := range src.SkillNames() {
				name := naming.Prefixed(src.Name, item)
				ok, werr := target.WriteSkill(adapterapi.SkillWrite{
					Module:      src.Name,
					Skill:       item,
					Name:        name,
					Source:      src.SkillSource(item),
					Dest:        dest,
					ProjectPath: rec.ProjectPath,
				})
				res := itemResult(KindSkill, item, name, ok, werr)
				ru.Items = append(ru.Items, res)
				if res.Status == ItemInstalled {
					skills = append(skills, name)
				}
			}
			for _, old := range rec.Skills {
				if slices.Contains(skills, old) {
					continue
				}
				rerr := target.RemoveSkill(dest, rec.Module, old)
				ru.Items = append(ru.Items, removalResult(KindSkill, naming.Unprefix(rec.Module, old), old, rerr))
			}
		}
	}

	commands := rec.Commands
	if len(src.Commands) > 0 || len(rec.Commands) > 0 {
		dest, err := target.ResolveCommandPath(scope, rec.ProjectPath)
		if err != nil {
			ru.Reason = err.Error()
			log.Warn("command path unresolved, keeping recorded commands", "err", err)
		} else {
			commands = nil
			for _, cmd := range src.Commands {
				ok, werr := target.WriteCommand(adapterapi.CommandWrite{
					Module:      src.Name,
					Command:     cmd,
					Source:      src.CommandSource(cmd),
					Dest:        dest,
					ProjectPath: rec.ProjectPath,
				})
				res := itemResult(KindCommand, cmd, naming.CommandName(src.Name, cmd), ok, werr)
				ru.Items = append(ru.Items, res)
				if res.Status == ItemInstalled {
					commands = append(commands, cmd)
				}
			}
			for _, old := range rec.Commands {
				if slices.Contains(commands, old) {
					continue
				}
				rerr := target.RemoveCommand(dest, rec.Module, old)
				ru.Items = append(ru.Items, removalResult(KindCommand, old, naming.CommandName(rec.Module, old), rerr))
			}
		}
	}

	next := rec
	next.Skills = skills
	next.Commands = commands
	next.UpdatedAt = s.now()
	if next.Empty() {
		if _, err := s.Registry.Remove(rec.Module, rec.Assistant, rec.Scope, rec.ProjectPath); err != nil {
			return ru, err
		}
		ru.Status = RecordEmptied
		log.Warn("installation left with no artifacts, record removed")
		return ru, nil
	}
	if err := s.Registry.Add(next); err != nil {
		return ru, err
	}
	ru.Status = RecordUpdated
	ru.Installation = next
	return ru, nil
}
