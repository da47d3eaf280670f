package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/report"
)

var (
	flagExportDB   string
	flagExportList bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a monthly report to the local SQLite archive",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportDB, "db", filepath.Join(config.DataDir(), "reports.db"), "Report database path")
	exportCmd.Flags().BoolVar(&flagExportList, "list", false, "List stored reports instead of writing one")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	w, err := report.Open(flagExportDB)
	if err != nil {
		return fmt.Errorf("opening report database: %w", err)
	}
	defer func() { _ = w.Close() }()

	if flagExportList {
		return listReports(ctx, w)
	}

	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	r, err := report.Build(ws.data.User.Name, ws.store.List(), ws.data.Alternatives, ws.cfg.Limit(), time.Now())
	if err != nil {
		return fmt.Errorf("building report (is a monthly limit set?): %w", err)
	}

	progress("  Writing report to %s...\n", flagExportDB)
	runID, err := w.Write(ctx, r)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	slog.Info("report exported", "run_id", runID, "bills", len(r.Bills), "db", flagExportDB)

	fmt.Printf("\n  Report %s\n", runID)
	fmt.Printf("  %d bills, %s spent, %s\n\n",
		len(r.Bills), cli.FormatMoney(r.Snapshot.TotalSpent), r.Snapshot.Health.Label())
	return nil
}

func listReports(ctx context.Context, w *report.Writer) error {
	runs, err := w.Runs(ctx)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("\n  No reports stored yet. Run `fintrack export` to write one.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.GeneratedAt.Local().Format("2006-01-02 15:04"),
			r.Health.Label(),
			cli.FormatNumber(int64(r.BillCount)),
			cli.FormatMoney(r.TotalSpent),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Stored Reports (%d)", len(runs)),
		Headers:  []string{"Run", "Generated", "Health", "Bills", "Spent"},
		Rows:     rows,
		TextCols: 3,
	}))
	fmt.Println()
	return nil
}
