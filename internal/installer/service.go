// Package installer is the reconciliation engine: it materializes modules
// into assistant targets, keeps the installation registry in step with what
// was written, and tears installations down again.
//
// Expected per-item failures (missing sources, unsupported scopes, stale
// projects) are result values inside the reports. Only precondition
// failures, marked with ErrPrecondition, are returned as errors.
package installer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"quill/internal/adapter"
	"quill/internal/audit"
	"quill/internal/logging"
	"quill/internal/module"
	"quill/internal/registry"
)

// ErrPrecondition marks failures that abort the whole command.
var ErrPrecondition = errors.New("precondition failed")

// ConfirmFunc asks the operator whether every listed installation should be removed.
type ConfirmFunc func(matches []registry.Installation) (bool, error)

type Service struct {
	Registry *registry.Registry
	Runtime  *adapter.Runtime
	Modules  *module.Store
	Audit    *audit.Logger
	Log      *log.Logger
	Confirm  ConfirmFunc
	Now      func() time.Time
}

// ValidationError carries every problem a module's Validate reported.
type ValidationError struct {
	Module   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("INS_MODULE_INVALID: module %q has validation errors: %s", e.Module, strings.Join(e.Problems, "; "))
}

func precondition(err error, hints ...string) error {
	for _, h := range hints {
		err = errors.WithHint(err, h)
	}
	return errors.Mark(err, ErrPrecondition)
}

func (s *Service) logger() *log.Logger {
	if s.Log == nil {
		return logging.Discard()
	}
	return s.Log
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) audit(op, phase string, fields map[string]string, msg string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Log(audit.Event{Operation: op, Phase: phase, Status: "ok", Message: msg, Fields: fields}); err != nil {
		s.logger().Warn("audit write failed", "err", err)
	}
}

// loadModule fetches and validates a module from the store.
func (s *Service) loadModule(name string) (*module.Module, error) {
	m, err := s.Modules.Get(name)
	if err != nil {
		if errors.Is(err, module.ErrNotFound) {
			return nil, precondition(
				errors.Mark(errors.Newf("INS_MODULE_NOT_FOUND: module %q not found in store", name), module.ErrNotFound),
				"Use 'quill mod ls' to see available modules",
				"Use 'quill mod add <dir>' to add a module")
		}
		if errors.Is(err, module.ErrNoManifest) {
			return nil, precondition(errors.Newf("INS_MODULE_INVALID: module %q has no %s", name, module.ManifestPath))
		}
		return nil, precondition(errors.Wrapf(err, "INS_MODULE_INVALID: load %q", name))
	}
	if ok, problems := m.Validate(); !ok {
		return nil, precondition(&ValidationError{Module: name, Problems: problems})
	}
	return m, nil
}
