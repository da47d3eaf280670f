package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Dashboard summary: expenses, remaining budget, due soon, savings",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	bills := ws.store.List()
	if len(bills) == 0 {
		fmt.Println("\n  No bills yet.")
		fmt.Println("  Add some with `fintrack tui` or load a dataset with --seed.")
		return nil
	}

	now := time.Now()
	title := "FINTRACK  " + now.Format("January 2006")
	if ws.data.User.Name != "" {
		title = fmt.Sprintf("FINTRACK  %s  %s", ws.data.User.Name, now.Format("Jan 2006"))
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := [][]string{
		{"Monthly Expenses", cli.FormatMoney(pipeline.TotalSpent(bills))},
		{"Bills", cli.FormatNumber(int64(len(bills)))},
		{"Due Soon", cli.FormatNumber(int64(pipeline.CountByStatus(bills, model.StatusDueSoon)))},
		{"Paid", cli.FormatNumber(int64(pipeline.CountByStatus(bills, model.StatusPaid)))},
		{"---"},
	}

	snap, err := pipeline.Snapshot(bills, ws.cfg.Limit())
	switch {
	case errors.Is(err, pipeline.ErrDivisionUndefined):
		rows = append(rows, []string{"Remaining Budget", "no limit set"})
	case err != nil:
		return err
	default:
		ins := pipeline.Insights(snap, now)
		rows = append(rows,
			[]string{"Monthly Limit", cli.FormatMoney(snap.Limit)},
			[]string{"Remaining Budget", fmt.Sprintf("%s (%d%% left)", cli.FormatMoney(snap.Available()), ins.SavingsRatePct)},
			[]string{"Health", snap.Health.Label()},
		)
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Potential Savings", cli.FormatMoney(pipeline.TotalSavings(ws.data.Alternatives)) + "/mo"},
		[]string{"Unread Notices", cli.FormatNumber(int64(ws.inbox.UnreadCount()))},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Overview",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if err == nil {
		fmt.Println()
		fmt.Println("  " + cli.RenderBudgetBar(snap.UtilizationFloat(), snap.Health, 40))
	}
	fmt.Println()
	return nil
}
