package adapter

import (
	"fmt"

	"quill/internal/config"
	"quill/pkg/adapterapi"
)

// Runtime holds one target per supported assistant plus the configured
// install order.
type Runtime struct {
	targets map[adapterapi.Assistant]adapterapi.Target
	enabled []adapterapi.Assistant
	home    string
}

// NewRuntime builds every target from paths. Disabled assistants stay
// reachable through Get so existing records can still be updated or removed.
func NewRuntime(paths config.Paths, cfg config.Config) (*Runtime, error) {
	if paths.Home == "" {
		return nil, fmt.Errorf("ADP_HOME: home directory is not set")
	}
	r := &Runtime{
		targets: map[adapterapi.Assistant]adapterapi.Target{},
		enabled: config.EnabledAssistants(cfg),
		home:    paths.Home,
	}
	for _, a := range adapterapi.Assistants() {
		t, err := buildTarget(a, paths.Home)
		if err != nil {
			return nil, err
		}
		r.targets[a] = t
	}
	return r, nil
}

func (r *Runtime) Get(a adapterapi.Assistant) (adapterapi.Target, error) {
	t, ok := r.targets[a]
	if !ok {
		return nil, fmt.Errorf("ADP_NOT_SUPPORTED: assistant %q is not supported", a)
	}
	return t, nil
}

// Enabled lists the assistants an unfiltered install targets, in config order.
func (r *Runtime) Enabled() []adapterapi.Assistant {
	return append([]adapterapi.Assistant(nil), r.enabled...)
}

// Detect reports which assistant home directories exist.
func (r *Runtime) Detect() []Detection {
	return DetectAvailable(r.home)
}

func buildTarget(a adapterapi.Assistant, home string) (adapterapi.Target, error) {
	switch a {
	case adapterapi.AssistantClaudeCode:
		return &claudeTarget{home: home}, nil
	case adapterapi.AssistantCursor:
		return &cursorTarget{home: home}, nil
	case adapterapi.AssistantGeminiCLI:
		return &geminiTarget{home: home}, nil
	default:
		return nil, fmt.Errorf("ADP_NOT_SUPPORTED: unknown assistant %q", a)
	}
}
