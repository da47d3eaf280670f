package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. flash is a transient
// message (last action or error); unread is the notification count.
func RenderStatusBar(width int, hints, flash string, flashIsErr bool, unread int) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " " + hints
	if flash != "" {
		color := t.GreenBright
		if flashIsErr {
			color = t.Red
		}
		left += "  " + lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(flash)
	}

	right := ""
	if unread > 0 {
		right = lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true).
			Render(fmt.Sprintf("● %d unread ", unread))
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	gap := lipgloss.NewStyle().Background(t.Surface).Render(fmt.Sprintf("%*s", padding, ""))

	return style.Render(left + gap + right)
}
