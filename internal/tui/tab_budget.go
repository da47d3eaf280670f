package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	if a.snapErr != nil {
		return components.ContentCard("Budget",
			warnStyle.Render("Budget health needs a monthly limit above zero. Set one on the Settings tab."), cw)
	}
	snap := a.snap
	ins := pipeline.Insights(snap, a.now())

	var b strings.Builder

	// Row 1: limit / spent / remaining
	remainingAccent := t.GreenBright
	if snap.Remaining.IsNegative() {
		remainingAccent = t.Red
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Monthly Limit", Value: cli.FormatMoney(snap.Limit)},
		{Label: "Spent", Value: cli.FormatMoney(snap.TotalSpent), Sub: cli.FormatPercent(snap.UtilizationFloat()) + " of limit"},
		{Label: "Remaining", Value: cli.FormatMoney(snap.Remaining), Accent: remainingAccent},
	}, cw))
	b.WriteString("\n")

	// Row 2: health bar
	var health strings.Builder
	health.WriteString(components.BudgetBar(snap.UtilizationFloat(), snap.Health, components.CardInnerWidth(cw)-6))
	health.WriteString("\n")
	health.WriteString(lipgloss.NewStyle().Foreground(t.Health(snap.Health)).Background(t.Surface).Bold(true).
		Render(snap.Health.Label()))
	alerts := "off"
	if a.cfg.Budget.AlertEnabled {
		alerts = fmt.Sprintf("at %d%%", a.cfg.Budget.AlertThreshold)
	}
	health.WriteString(labelStyle.Render("   alerts " + alerts))
	b.WriteString(components.ContentCard("Budget Health", health.String(), cw))
	b.WriteString("\n")

	// Row 3: category breakdown + insights
	var cats strings.Builder
	halves := components.LayoutRow(cw, 2)
	catW := halves[0]
	if a.isCompactLayout() {
		catW = cw
	}
	innerW := components.CardInnerWidth(catW)
	labelW := 14
	amtW := 11
	barW := innerW - labelW - amtW - 2
	if barW < 6 {
		barW = 6
	}
	for i, ct := range pipeline.CompleteCategoryTotals(a.bills) {
		if i > 0 {
			cats.WriteString("\n")
		}
		share := 0.0
		if snap.TotalSpent.IsPositive() {
			share = ct.Amount.Div(snap.TotalSpent).InexactFloat64()
		}
		cats.WriteString(components.CategoryBar(ct.Category, share,
			fmt.Sprintf("%*s", amtW, cli.FormatMoney(ct.Amount)), labelW, barW))
	}
	catCard := components.ContentCard("Spending by Category", cats.String(), catW)

	var insights strings.Builder
	insights.WriteString(labelStyle.Render("Savings rate     ") + valueStyle.Render(fmt.Sprintf("%d%%", ins.SavingsRatePct)))
	insights.WriteString("\n")
	insights.WriteString(labelStyle.Render("Days left        ") + valueStyle.Render(fmt.Sprintf("%d", ins.DaysLeftThisMonth)))
	insights.WriteString("\n")
	insights.WriteString(labelStyle.Render("Potential saving ") + valueStyle.Render(cli.FormatMoney(pipeline.TotalSavings(a.alts))+"/mo"))
	if ins.DaysLeftThisMonth > 0 && snap.Remaining.IsPositive() {
		perDay := snap.Remaining.DivRound(decimal.NewFromInt(int64(ins.DaysLeftThisMonth)), 2)
		insights.WriteString("\n")
		insights.WriteString(labelStyle.Render("Daily allowance  ") + valueStyle.Render(cli.FormatMoney(perDay)))
	}

	if a.isCompactLayout() {
		b.WriteString(catCard)
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Insights", insights.String(), cw))
		return b.String()
	}
	b.WriteString(components.CardRow([]string{
		catCard,
		components.ContentCard("Insights", insights.String(), halves[1]),
	}))
	return b.String()
}
