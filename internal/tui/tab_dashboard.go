package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

const recentBillsShown = 5

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	snap := a.snap
	var b strings.Builder

	// Row 1: stat cards
	remaining := components.Metric{Icon: "🐷", Label: "Remaining Budget", Value: "n/a", Sub: "set a monthly limit"}
	if a.snapErr == nil {
		ins := pipeline.Insights(snap, a.now())
		remaining.Value = cli.FormatMoney(snap.Available())
		remaining.Sub = fmt.Sprintf("%d%% left", ins.SavingsRatePct)
		remaining.Accent = t.Health(snap.Health)
	}
	dueSoon := pipeline.CountByStatus(a.bills, model.StatusDueSoon)
	dueAccent := t.TextPrimary
	if dueSoon > 0 {
		dueAccent = t.Yellow
	}
	cards := []components.Metric{
		{Icon: "💸", Label: "Monthly Expenses", Value: cli.FormatMoney(pipeline.TotalSpent(a.bills)), Sub: fmt.Sprintf("%d bills", len(a.bills))},
		remaining,
		{Icon: "⏰", Label: "Due Soon", Value: cli.FormatNumber(int64(dueSoon)), Sub: "bills", Accent: dueAccent},
		{Icon: "💡", Label: "Potential Savings", Value: cli.FormatMoney(pipeline.TotalSavings(a.alts)), Sub: "per month", Accent: t.GreenBright},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: recent bills + budget overview
	if a.isCompactLayout() {
		b.WriteString(a.renderRecentBills(cw))
		b.WriteString("\n")
		b.WriteString(a.renderBudgetOverview(cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			a.renderRecentBills(halves[0]),
			a.renderBudgetOverview(halves[1]),
		}))
	}
	return b.String()
}

func (a App) renderRecentBills(w int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	innerW := components.CardInnerWidth(w)
	amountW, badgeW := 11, 10
	nameW := innerW - amountW - badgeW - 2

	var body strings.Builder
	if len(a.bills) == 0 {
		body.WriteString(dimStyle.Render("No bills yet. Press b then a to add one."))
	}
	views := pipeline.Views(a.bills)
	for i, v := range views {
		if i == recentBillsShown {
			body.WriteString("\n")
			body.WriteString(dimStyle.Render(fmt.Sprintf("+%d more on the Bills tab", len(views)-recentBillsShown)))
			break
		}
		if i > 0 {
			body.WriteString("\n")
		}
		name := truncStr(v.Category.Icon()+" "+v.Name, nameW)
		body.WriteString(rowStyle.Render(padRight(name, nameW) + " " + fmt.Sprintf("%*s", amountW, cli.FormatMoney(v.Amount)) + " "))
		body.WriteString(lipgloss.NewStyle().
			Foreground(t.Badge(v.Display.Badge())).
			Background(t.Surface).
			Bold(true).
			Render(string(v.Display)))
	}
	return components.ContentCard("Recent Bills", body.String(), w)
}

func (a App) renderBudgetOverview(w int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	if a.snapErr != nil {
		return components.ContentCard("Budget Overview",
			warnStyle.Render("No monthly limit set. Configure one on the Settings tab."), w)
	}

	snap := a.snap
	innerW := components.CardInnerWidth(w)
	barW := innerW - 6

	var body strings.Builder
	body.WriteString(labelStyle.Render("Spent ") + valueStyle.Render(cli.FormatMoney(snap.TotalSpent)))
	body.WriteString(labelStyle.Render(" of ") + valueStyle.Render(cli.FormatMoney(snap.Limit)))
	body.WriteString("\n")
	body.WriteString(components.BudgetBar(snap.UtilizationFloat(), snap.Health, barW))
	body.WriteString("\n")
	body.WriteString(lipgloss.NewStyle().Foreground(t.Health(snap.Health)).Background(t.Surface).Bold(true).
		Render(snap.Health.Label()))

	due := pipeline.DueWithin(a.bills, a.now(), a.cfg.General.DueSoonDays)
	if len(due) > 0 {
		body.WriteString("\n\n")
		body.WriteString(labelStyle.Render(fmt.Sprintf("Due in the next %d days:", a.cfg.General.DueSoonDays)))
		for _, bill := range due {
			body.WriteString("\n")
			body.WriteString(labelStyle.Render("  " + cli.FormatDate(bill.DueDate) + "  "))
			body.WriteString(valueStyle.Render(truncStr(bill.Name, innerW-20)))
		}
	}
	return components.ContentCard("Budget Overview", body.String(), w)
}
