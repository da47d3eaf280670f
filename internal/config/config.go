// Package config loads and saves the fintrack TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Config holds all fintrack configuration.
type Config struct {
	General       GeneralConfig       `toml:"general"`
	Budget        BudgetConfig        `toml:"budget"`
	Notifications NotificationsConfig `toml:"notifications"`
	Appearance    AppearanceConfig    `toml:"appearance"`
	Serve         ServeConfig         `toml:"serve"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DueSoonDays int    `toml:"due_soon_days" env:"FINTRACK_DUE_SOON_DAYS"`
	SeedFile    string `toml:"seed_file,omitempty" env:"FINTRACK_SEED_FILE"`
}

// BudgetConfig holds the monthly budget settings.
type BudgetConfig struct {
	MonthlyLimit   model.Money `toml:"monthly_limit" env:"FINTRACK_MONTHLY_LIMIT"`
	AlertEnabled   bool        `toml:"alert_enabled" env:"FINTRACK_BUDGET_ALERTS"`
	AlertThreshold int         `toml:"alert_threshold" env:"FINTRACK_ALERT_THRESHOLD"` // percent of limit
}

// NotificationsConfig holds per-type notification toggles.
type NotificationsConfig struct {
	BillReminders  bool `toml:"bill_reminders"`
	BudgetAlerts   bool `toml:"budget_alerts"`
	SavingTips     bool `toml:"saving_tips"`
	MonthlyReports bool `toml:"monthly_reports"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"FINTRACK_THEME"`
}

// ServeConfig holds settings for the local HTTP daemon.
type ServeConfig struct {
	Addr             string `toml:"addr" env:"FINTRACK_ADDR"`
	SweepIntervalSec int    `toml:"sweep_interval_sec" env:"FINTRACK_SWEEP_INTERVAL"`
	EventsBuffer     int    `toml:"events_buffer"`
}

// AlertThresholds are the selectable budget alert levels, in percent.
var AlertThresholds = []int{80, 90, 100}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DueSoonDays: 7,
		},
		Budget: BudgetConfig{
			MonthlyLimit:   model.NewMoney(decimal.NewFromInt(3500)),
			AlertEnabled:   true,
			AlertThreshold: 80,
		},
		Notifications: NotificationsConfig{
			BillReminders: true,
			BudgetAlerts:  true,
			SavingTips:    true,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Serve: ServeConfig{
			Addr:             "127.0.0.1:8787",
			SweepIntervalSec: 60,
			EventsBuffer:     200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fintrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fintrack")
}

// DataDir returns the XDG-compliant data directory for reports and daemon
// state.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fintrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fintrack")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// FINTRACK_* environment variables override file values.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load with an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user config path
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail later in odd ways.
func (c Config) Validate() error {
	if c.Budget.MonthlyLimit.IsNegative() {
		return fmt.Errorf("budget.monthly_limit must not be negative")
	}
	if !validThreshold(c.Budget.AlertThreshold) {
		return fmt.Errorf("budget.alert_threshold must be one of %v", AlertThresholds)
	}
	if c.General.DueSoonDays < 0 {
		return fmt.Errorf("general.due_soon_days must not be negative")
	}
	return nil
}

func validThreshold(v int) bool {
	for _, t := range AlertThresholds {
		if t == v {
			return true
		}
	}
	return false
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Limit returns the monthly limit.
func (c Config) Limit() decimal.Decimal {
	return c.Budget.MonthlyLimit.Decimal
}

// ThresholdRatio returns the alert threshold as a fraction of the limit.
func (c Config) ThresholdRatio() decimal.Decimal {
	return decimal.New(int64(c.Budget.AlertThreshold), -2)
}

// Prefs converts the notification toggles to the model type.
func (c Config) Prefs() model.NotificationPrefs {
	return model.NotificationPrefs{
		BillReminders:  c.Notifications.BillReminders,
		BudgetAlerts:   c.Notifications.BudgetAlerts,
		SavingTips:     c.Notifications.SavingTips,
		MonthlyReports: c.Notifications.MonthlyReports,
	}
}

// SetPrefs stores p into the notification toggles.
func (c *Config) SetPrefs(p model.NotificationPrefs) {
	c.Notifications = NotificationsConfig{
		BillReminders:  p.BillReminders,
		BudgetAlerts:   p.BudgetAlerts,
		SavingTips:     p.SavingTips,
		MonthlyReports: p.MonthlyReports,
	}
}
