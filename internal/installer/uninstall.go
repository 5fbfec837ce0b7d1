package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"quill/internal/config"
	"quill/internal/fsutil"
	"quill/internal/naming"
	"quill/internal/registry"
	"quill/pkg/adapterapi"
)

type UninstallRequest struct {
	Module      string
	Assistant   adapterapi.Assistant
	Scope       adapterapi.Scope
	ProjectPath string
	// Force skips confirmation when more than one installation matches.
	Force bool
}

// Uninstall removes the artifacts and records of every matching installation.
func (s *Service) Uninstall(_ context.Context, req UninstallRequest) (UninstallReport, error) {
	report := UninstallReport{Module: req.Module, Matches: []registry.Installation{}, Removed: []RecordRemoval{}}
	filter := registry.Filter{Module: req.Module, Assistant: string(req.Assistant), Scope: string(req.Scope)}
	if req.ProjectPath != "" {
		abs, err := filepath.Abs(req.ProjectPath)
		if err != nil {
			return report, precondition(errors.Wrap(err, "INS_PROJECT_PATH"))
		}
		filter.ProjectPath = abs
	}
	matches := s.Registry.Find(filter)
	if len(matches) == 0 {
		report.NoMatches = true
		return report, nil
	}
	report.Matches = matches

	if len(matches) > 1 && !req.Force {
		confirmed := false
		if s.Confirm != nil {
			ok, err := s.Confirm(matches)
			if err != nil {
				return report, err
			}
			confirmed = ok
		}
		if !confirmed {
			report.Cancelled = true
			return report, nil
		}
	}

	s.audit("uninstall", "start", map[string]string{"module": req.Module}, fmt.Sprintf("records=%d", len(matches)))
	for _, rec := range matches {
		rr, err := s.removeInstallation(rec)
		if err != nil {
			return report, err
		}
		report.Removed = append(report.Removed, rr)
	}
	s.audit("uninstall", "commit", map[string]string{"module": req.Module}, fmt.Sprintf("removed=%d", len(report.Removed)))
	return report, nil
}

func (s *Service) removeInstallation(rec registry.Installation) (RecordRemoval, error) {
	rr := RecordRemoval{Installation: rec, Items: []ItemResult{}}
	log := s.logger().With("module", rec.Module, "assistant", rec.Assistant)
	target, err := s.Runtime.Get(adapterapi.Assistant(rec.Assistant))
	if err != nil {
		rr.Errors = append(rr.Errors, err.Error())
		return rr, nil
	}
	scope := adapterapi.Scope(rec.Scope)

	if len(rec.Skills) > 0 {
		dest, err := target.ResolveSkillPath(scope, rec.ProjectPath)
		if err != nil {
			rr.Errors = append(rr.Errors, fmt.Sprintf("cannot determine skill path for %s/%s: %v", rec.Assistant, rec.Scope, err))
		} else {
			for _, name := range rec.Skills {
				rerr := target.RemoveSkill(dest, rec.Module, name)
				rr.Items = append(rr.Items, removalResult(KindSkill, naming.Unprefix(rec.Module, name), name, rerr))
			}
			// Sections the record lost track of still belong to the module.
			if sweeper, ok := target.(adapterapi.ModuleSweeper); ok {
				n, serr := sweeper.RemoveModuleSkills(dest, rec.Module)
				if serr != nil {
					rr.Errors = append(rr.Errors, fmt.Sprintf("sweep %s: %v", dest, serr))
				} else if n > 0 {
					log.Debug("removed unrecorded sections", "path", dest, "count", n)
				}
			}
		}
	}
	if len(rec.Commands) > 0 {
		dest, err := target.ResolveCommandPath(scope, rec.ProjectPath)
		if err != nil {
			rr.Errors = append(rr.Errors, fmt.Sprintf("cannot determine command path for %s/%s: %v", rec.Assistant, rec.Scope, err))
		} else {
			for _, cmd := range rec.Commands {
				rerr := target.RemoveCommand(dest, rec.Module, cmd)
				rr.Items = append(rr.Items, removalResult(KindCommand, cmd, naming.CommandName(rec.Module, cmd), rerr))
			}
		}
	}

	if _, err := s.Registry.Remove(rec.Module, rec.Assistant, rec.Scope, rec.ProjectPath); err != nil {
		return rr, err
	}

	// The project cache is shared by every assistant installed into the
	// project: GEMINI.md sections and cursor rules of the other records still
	// reference files in it. It goes with the last of them.
	if scope == adapterapi.ScopeProject && rec.ProjectPath != "" {
		remaining := s.Registry.Find(registry.Filter{Module: rec.Module, Scope: rec.Scope, ProjectPath: rec.ProjectPath})
		cache := filepath.Join(config.LocalModulesDir(rec.ProjectPath), rec.Module)
		if len(remaining) == 0 && fsutil.Exists(cache) {
			if err := fsutil.RemoveAll(cache); err != nil {
				rr.Errors = append(rr.Errors, fmt.Sprintf("remove %s: %v", cache, err))
			} else {
				rr.CacheRemoved = cache
				log.Debug("project module cache removed", "path", cache)
			}
		}
	}
	return rr, nil
}
