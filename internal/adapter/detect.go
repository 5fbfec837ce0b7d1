package adapter

import (
	"os"
	"path/filepath"
	"sort"

	"quill/pkg/adapterapi"
)

type Detection struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// DetectAvailable reports assistants whose default root exists under home.
func DetectAvailable(home string) []Detection {
	if home == "" {
		home = "."
	}
	checks := []struct {
		name adapterapi.Assistant
		dir  string
	}{
		{name: adapterapi.AssistantClaudeCode, dir: ".claude"},
		{name: adapterapi.AssistantGeminiCLI, dir: ".gemini"},
		{name: adapterapi.AssistantCursor, dir: ".cursor"},
	}
	out := make([]Detection, 0, len(checks))
	for _, c := range checks {
		path := filepath.Join(home, c.dir)
		if stat, err := os.Stat(path); err == nil && stat.IsDir() {
			out = append(out, Detection{Name: string(c.name), Path: path, Reason: "default " + c.dir + " root exists"})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
