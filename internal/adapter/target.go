package adapter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"quill/internal/naming"
	"quill/pkg/adapterapi"
)

// locate resolves a user-scope or project-scope directory for a target.
func locate(a adapterapi.Assistant, home string, scope adapterapi.Scope, projectPath string, parts ...string) (string, error) {
	switch scope {
	case adapterapi.ScopeUser:
		if home == "" {
			return "", errors.Wrapf(adapterapi.ErrPathResolution, "%s: home directory unknown", a)
		}
		return filepath.Join(append([]string{home}, parts...)...), nil
	case adapterapi.ScopeProject:
		if strings.TrimSpace(projectPath) == "" {
			return "", errors.WithHint(
				errors.Wrapf(adapterapi.ErrPathResolution, "%s: project path required for project scope", a),
				"pass the project directory after the module name")
		}
		return filepath.Join(append([]string{projectPath}, parts...)...), nil
	default:
		return "", errors.Wrapf(adapterapi.ErrPathResolution, "%s: unknown scope %q", a, scope)
	}
}

func unsupportedUserSkills(a adapterapi.Assistant, hint string) error {
	return errors.WithHint(errors.WithDetailf(adapterapi.ErrUnsupportedScope, "%s skills", a), hint)
}

// artifactPath joins dest and name, refusing names that would leave dest.
func artifactPath(dest, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("ADP_ARTIFACT_NAME: invalid artifact name %q", name)
	}
	return filepath.Join(dest, name), nil
}

func commandFilename(module, command, ext string) string {
	return naming.CommandName(module, command) + ext
}
