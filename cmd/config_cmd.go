package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Data dir:    %s\n", config.DataDir())
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Due-soon window: %d days\n", cfg.General.DueSoonDays)
	if cfg.General.SeedFile != "" {
		fmt.Printf("    Seed file:       %s\n", cfg.General.SeedFile)
	} else {
		fmt.Println("    Seed file:       built-in sample")
	}
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Limit().IsPositive() {
		fmt.Printf("    Monthly limit:   $%s\n", cfg.Limit().String())
	} else {
		fmt.Println("    Monthly limit:   not set")
	}
	fmt.Printf("    Alerts:          %s at %d%%\n", onOff(cfg.Budget.AlertEnabled), cfg.Budget.AlertThreshold)
	fmt.Println()

	fmt.Println("  [Notifications]")
	fmt.Printf("    Bill reminders:  %s\n", onOff(cfg.Notifications.BillReminders))
	fmt.Printf("    Budget alerts:   %s\n", onOff(cfg.Notifications.BudgetAlerts))
	fmt.Printf("    Saving tips:     %s\n", onOff(cfg.Notifications.SavingTips))
	fmt.Printf("    Monthly reports: %s\n", onOff(cfg.Notifications.MonthlyReports))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Serve]")
	fmt.Printf("    Address:        %s\n", cfg.Serve.Addr)
	fmt.Printf("    Sweep interval: %ds\n", cfg.Serve.SweepIntervalSec)
	fmt.Printf("    Events buffer:  %d\n", cfg.Serve.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `fintrack setup` to reconfigure.")
	return nil
}
