package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// BudgetBar renders the utilization bar colored by health tier, followed by
// the percentage. Utilization above 1 renders a full bar but keeps the
// real percentage.
func BudgetBar(util float64, health model.HealthTier, barWidth int) string {
	t := theme.Active
	color := t.Health(health)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(clamp01(util)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", util*100))
}

// CategoryBar renders a labeled bar for one category's share of the total.
// share is in [0,1]; amount is the preformatted dollar figure.
func CategoryBar(c model.Category, share float64, amount string, labelW, barWidth int) string {
	t := theme.Active
	color := t.Category(c)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	amtStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, string(c))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(clamp01(share)) +
		spaceStyle.Render(" ") +
		amtStyle.Render(amount)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
