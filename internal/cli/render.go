package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title    string
	Headers  []string
	Rows     [][]string
	Widths   []int // optional column widths, auto-calculated if nil
	TextCols int   // leading left-aligned columns; the rest are right-aligned. Defaults to 1.
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. A row holding
// the single cell "---" renders as a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}
	textCols := t.TextCols
	if textCols <= 0 {
		textCols = 1
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return dimStyle.Render(b.String()) + "\n"
	}

	pad := func(cell string, w int, left bool) string {
		gap := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
		if left {
			return " " + cell + gap + " "
		}
		return " " + gap + cell + " "
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	sep := dimStyle.Render("│")
	b.WriteString(rule("╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(sep)
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], i < textCols)))
			b.WriteString(sep)
		}
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(sep)
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], i < textCols)))
			b.WriteString(sep)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// RenderBudgetBar renders utilization as a text bar colored by health.
// Utilization above 1 fills the bar and is reported as-is.
func RenderBudgetBar(util float64, health model.HealthTier, width int) string {
	if width <= 0 {
		return ""
	}
	fill := util
	if fill > 1 {
		fill = 1
	}
	if fill < 0 {
		fill = 0
	}
	filled := int(fill * float64(width))

	bar := lipgloss.NewStyle().Foreground(HealthColor(health)).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %s", bar, mutedStyle.Render(FormatPercent(util)))
}

// RenderBadge renders a display status as a colored label.
func RenderBadge(d model.DisplayStatus) string {
	return lipgloss.NewStyle().Bold(true).Foreground(BadgeColor(d.Badge())).Render(string(d))
}

// BadgeColor maps a badge class to its color.
func BadgeColor(b model.Badge) lipgloss.Color {
	switch b {
	case model.BadgeDanger:
		return ColorRed
	case model.BadgeWarning:
		return ColorYellow
	case model.BadgeSuccess:
		return ColorGreen
	default:
		return ColorTextMuted
	}
}

// HealthColor maps a budget health tier to its color.
func HealthColor(h model.HealthTier) lipgloss.Color {
	switch h {
	case model.HealthOver:
		return ColorRed
	case model.HealthApproaching:
		return ColorOrange
	default:
		return ColorGreen
	}
}

// Muted renders s in the secondary text color.
func Muted(s string) string {
	return mutedStyle.Render(s)
}
