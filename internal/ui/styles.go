// Package ui renders engine reports for the terminal. Every helper falls
// back to plain text when stdout is not a terminal.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY indicates whether stdout is an interactive terminal.
var IsTTY = term.IsTerminal(os.Stdout.Fd())

var (
	Green  = lipgloss.Color("#58D68D")
	Amber  = lipgloss.Color("#E59866")
	Red    = lipgloss.Color("#FF6B9D")
	Blue   = lipgloss.Color("#5DADE2")
	Gray   = lipgloss.Color("#AAB7B8")
	Purple = lipgloss.Color("#9B59B6")
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	Success = lipgloss.NewStyle().Foreground(Green)
	Warning = lipgloss.NewStyle().Foreground(Amber)
	Error   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Info    = lipgloss.NewStyle().Foreground(Blue)
	Muted   = lipgloss.NewStyle().Foreground(Gray)
	Code    = lipgloss.NewStyle().Foreground(Blue).Italic(true)
)

// Render applies style only on a terminal.
func Render(style lipgloss.Style, text string) string {
	if !IsTTY {
		return text
	}
	return style.Render(text)
}

func statusLine(icon, plain, message string, color lipgloss.Color) string {
	if !IsTTY {
		return fmt.Sprintf("  %s %s", plain, message)
	}
	st := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("  %s %s", st.Render(icon), st.Render(message))
}

func SuccessLine(message string) string { return statusLine("✓", "OK:", message, Green) }
func WarningLine(message string) string { return statusLine("!", "WARN:", message, Amber) }
func ErrorLine(message string) string   { return statusLine("✗", "ERROR:", message, Red) }

// InfoLine is an indented, unstyled-on-pipe detail line.
func InfoLine(message string) string {
	if !IsTTY {
		return "  " + message
	}
	return statusLine("→", "", message, Blue)
}

// HintLine renders follow-up advice under a warning or error.
func HintLine(hint string) string {
	if !IsTTY {
		return "    hint: " + hint
	}
	return "    " + Muted.Render("hint: ") + Code.Render(hint)
}

func Heading(text string) string {
	return Render(Title, text)
}
