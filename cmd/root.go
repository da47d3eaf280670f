// Package cmd implements the fintrack CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/logging"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/seed"
	"github.com/theirongolddev/fintrack/internal/store"
)

var (
	flagSeed     string
	flagLimit    string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "fintrack",
	Short:         "Personal bill tracker and budget dashboard",
	Long:          "Track bills, watch your monthly budget, and find cheaper alternatives.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// .env is optional; FINTRACK_* values in it feed config.Load.
		_ = godotenv.Load()
		level := flagLogLevel
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		logging.SetupWithLevel(logging.ParseLevel(level))
		return nil
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSeed, "seed", "", "TOML dataset to load instead of the built-in sample")
	rootCmd.PersistentFlags().StringVar(&flagLimit, "limit", "", "Override the monthly budget limit")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// workspace is everything a command needs: config plus the seeded
// in-memory store and inbox.
type workspace struct {
	cfg   config.Config
	data  seed.Dataset
	store *store.Store
	inbox *notify.Inbox
}

// loadWorkspace is the shared data loading path used by all commands.
// Limit precedence: --limit, then the config file, then the dataset.
func loadWorkspace() (*workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	seedPath := flagSeed
	if seedPath == "" {
		seedPath = cfg.General.SeedFile
	}
	ds := seed.Default()
	if seedPath != "" {
		if ds, err = seed.Load(seedPath); err != nil {
			return nil, err
		}
		slog.Debug("loaded dataset", "path", seedPath, "bills", len(ds.Bills))
	}

	if !config.Exists() && !ds.Budget.Limit.IsZero() {
		cfg.Budget.MonthlyLimit = model.NewMoney(ds.Budget.Limit)
		cfg.Budget.AlertEnabled = ds.Budget.AlertEnabled
	}
	if flagLimit != "" {
		limit, err := decimal.NewFromString(flagLimit)
		if err != nil || limit.IsNegative() {
			return nil, fmt.Errorf("--limit %q: must be a non-negative amount", flagLimit)
		}
		cfg.Budget.MonthlyLimit = model.NewMoney(limit)
	}

	st, err := store.New(ds.Bills...)
	if err != nil {
		return nil, fmt.Errorf("seeding bills: %w", err)
	}

	inbox, err := notify.Seed(ds.Notifications...)
	if err != nil {
		return nil, fmt.Errorf("seeding notifications: %w", err)
	}

	return &workspace{
		cfg:   cfg,
		data:  ds,
		store: st,
		inbox: inbox,
	}, nil
}

// progress prints to stderr unless --quiet.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
