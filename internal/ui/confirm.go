package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"

	"quill/internal/registry"
)

// ConfirmRemoval asks on the terminal whether every listed installation
// should be removed. Off a terminal it declines without prompting.
func ConfirmRemoval(matches []registry.Installation) (bool, error) {
	if !IsTTY {
		return false, nil
	}
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, "• "+m.Module+" "+Describe(m))
	}
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove %d installations?", len(matches))).
				Description(strings.Join(lines, "\n")).
				Affirmative("Remove").
				Negative("Keep").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, errors.Wrap(err, "UI_CONFIRM")
	}
	return confirmed, nil
}
