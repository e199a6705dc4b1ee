package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// centerLine pads s with leading spaces so it sits centered in width columns.
func centerLine(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// formatExpiry renders a countdown for an invitation expiry timestamp.
func formatExpiry(t time.Time, now time.Time) string {
	d := t.Sub(now)
	switch {
	case d <= 0:
		return "expired"
	case d < time.Hour:
		return fmt.Sprintf("%dm left", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh left", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd left", int(d.Hours()/24))
	}
}

// formField renders one labeled inline form field in the shared style used
// by the login, register, campaign and invitation forms. The focused field
// gets a pointer and a cursor; errors render dim red under their field.
func formField(label, value string, focused, secret bool, errMsg string) string {
	if secret {
		value = strings.Repeat("*", utf8.RuneCountInString(value))
	}

	labelStr := inputPromptStyle.Render(label + ":")
	var line string
	if focused {
		line = "   " + accentStyle.Render(">") + " " + labelStr + " " + value + accentStyle.Render("_")
	} else {
		shown := value
		if shown == "" {
			shown = inputPlaceholderStyle.Render("...")
		} else {
			shown = dimStyle.Render(shown)
		}
		line = "     " + labelStr + " " + shown
	}
	if errMsg != "" {
		line += "\n       " + errStyle.Render(errMsg)
	}
	return line + "\n"
}
