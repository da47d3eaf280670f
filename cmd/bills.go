package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var (
	flagBillsCategory string
	flagBillsStatus   string
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List bills with their display status",
	RunE:  runBills,
}

func init() {
	billsCmd.Flags().StringVar(&flagBillsCategory, "category", "", "Filter by category (Housing, Utilities, ...)")
	billsCmd.Flags().StringVar(&flagBillsStatus, "status", "", "Filter by display status (expensive, due_soon, paid, pending)")
	rootCmd.AddCommand(billsCmd)
}

func runBills(_ *cobra.Command, _ []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	var (
		cat  model.Category
		disp model.DisplayStatus
		ok   bool
	)
	if flagBillsCategory != "" {
		if cat, ok = model.ParseCategory(flagBillsCategory); !ok {
			return fmt.Errorf("unknown category %q", flagBillsCategory)
		}
	}
	if flagBillsStatus != "" {
		if disp, ok = model.ParseDisplayStatus(flagBillsStatus); !ok {
			return fmt.Errorf("unknown status %q", flagBillsStatus)
		}
	}

	bills := pipeline.FilterBills(ws.store.List(), cat, disp)
	if len(bills) == 0 {
		fmt.Println("\n  No bills match.")
		return nil
	}

	rows := make([][]string, 0, len(bills)+2)
	for _, v := range pipeline.Views(bills) {
		rows = append(rows, []string{
			strconv.Itoa(v.ID),
			v.Name,
			string(v.Category),
			cli.FormatDate(v.DueDate),
			cli.RenderBadge(v.Display),
			cli.FormatMoney(v.Amount),
		})
	}
	rows = append(rows, []string{"---"}, []string{"", "Total", "", "", "", cli.FormatMoney(pipeline.TotalSpent(bills))})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Bills (%d)", len(bills)),
		Headers:  []string{"#", "Name", "Category", "Due", "Status", "Amount"},
		Rows:     rows,
		TextCols: 5,
	}))
	fmt.Println()
	return nil
}
