package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Budget snapshot, category breakdown and insights",
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	bills := ws.store.List()
	snap, err := pipeline.Snapshot(bills, ws.cfg.Limit())
	if err != nil {
		return fmt.Errorf("budget snapshot: %w (set budget.monthly_limit or pass --limit)", err)
	}
	ins := pipeline.Insights(snap, time.Now())

	fmt.Println()
	fmt.Println(cli.RenderTitle("MONTHLY BUDGET"))
	fmt.Println()

	alerts := "off"
	if ws.cfg.Budget.AlertEnabled {
		alerts = fmt.Sprintf("at %d%%", ws.cfg.Budget.AlertThreshold)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Snapshot",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Limit", cli.FormatMoney(snap.Limit)},
			{"Spent", cli.FormatMoney(snap.TotalSpent)},
			{"Remaining", cli.FormatMoney(snap.Remaining)},
			{"Utilization", cli.FormatPercent(snap.UtilizationFloat())},
			{"Health", snap.Health.Label()},
			{"Alerts", alerts},
		},
	}))
	fmt.Println()
	fmt.Println("  " + cli.RenderBudgetBar(snap.UtilizationFloat(), snap.Health, 40))
	fmt.Println()

	rows := make([][]string, 0, len(snap.ByCategory))
	for _, ct := range pipeline.CompleteCategoryTotals(bills) {
		share := 0.0
		if snap.TotalSpent.IsPositive() {
			share = ct.Amount.Div(snap.TotalSpent).InexactFloat64()
		}
		rows = append(rows, []string{string(ct.Category), cli.FormatMoney(ct.Amount), cli.FormatPercent(share)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Category",
		Headers: []string{"Category", "Amount", "Share"},
		Rows:    rows,
	}))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Insights",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Savings rate", fmt.Sprintf("%d%%", ins.SavingsRatePct)},
			{"Days left this month", fmt.Sprintf("%d", ins.DaysLeftThisMonth)},
			{"Potential savings", cli.FormatMoney(pipeline.TotalSavings(ws.data.Alternatives)) + "/mo"},
		},
	}))
	fmt.Println()
	return nil
}
