package generator

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"quill/internal/fsutil"
)

// ClaudeCommand copies the command markdown verbatim to dest.
func ClaudeCommand(src, dest string) (bool, error) {
	_, _, raw, ok, err := readCommand(src)
	if err != nil || !ok {
		return false, err
	}
	if err := fsutil.WriteFile(dest, ensureTrailingNewline(raw), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// CursorCommand writes the command body to dest without its frontmatter.
func CursorCommand(src, dest string) (bool, error) {
	_, body, _, ok, err := readCommand(src)
	if err != nil || !ok {
		return false, err
	}
	out := ensureTrailingNewline([]byte(strings.TrimLeft(body, "\n")))
	if err := fsutil.WriteFile(dest, out, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

type geminiCommand struct {
	Description string `toml:"description"`
	Prompt      string `toml:"prompt,multiline"`
}

// GeminiCommand writes dest as a Gemini CLI command: a TOML document with a
// description and a prompt whose $ARGUMENTS placeholder becomes {{args}}.
func GeminiCommand(src, dest, command string) (bool, error) {
	fm, body, _, ok, err := readCommand(src)
	if err != nil || !ok {
		return false, err
	}
	desc := strings.TrimSpace(fm.Description)
	if desc == "" {
		desc = firstParagraphLine(body)
	}
	if desc == "" {
		desc = command
	}
	blob, err := toml.Marshal(geminiCommand{
		Description: desc,
		Prompt:      strings.TrimSpace(ConvertArguments(body)) + "\n",
	})
	if err != nil {
		return false, fmt.Errorf("GEN_RENDER: %w", err)
	}
	if err := fsutil.WriteFile(dest, blob, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// ConvertArguments rewrites Claude-style argument placeholders for Gemini.
func ConvertArguments(body string) string {
	return strings.ReplaceAll(body, "$ARGUMENTS", "{{args}}")
}
