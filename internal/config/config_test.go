package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DueSoonDays != 7 {
		t.Fatalf("DueSoonDays = %d, want 7", cfg.General.DueSoonDays)
	}
	if !cfg.Limit().Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("Limit = %s, want 3500", cfg.Limit())
	}
	p := cfg.Prefs()
	if !p.BillReminders || !p.BudgetAlerts || !p.SavingTips || p.MonthlyReports {
		t.Fatalf("default prefs = %+v", p)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack", "config.toml")

	cfg := DefaultConfig()
	cfg.Budget.MonthlyLimit = model.NewMoney(decimal.RequireFromString("4200.505"))
	cfg.Budget.AlertThreshold = 90
	cfg.Notifications.MonthlyReports = true
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !got.Limit().Equal(decimal.RequireFromString("4200.505")) || got.Budget.AlertThreshold != 90 {
		t.Fatalf("budget = %+v", got.Budget)
	}
	if !got.Notifications.MonthlyReports {
		t.Fatal("MonthlyReports not persisted")
	}
	if !got.ThresholdRatio().Equal(decimal.RequireFromString("0.9")) {
		t.Fatalf("ThresholdRatio = %s, want 0.9", got.ThresholdRatio())
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[budget]\nmonthly_limit = 1000.0\nalert_threshold = 80\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("FINTRACK_MONTHLY_LIMIT", "2500")
	t.Setenv("FINTRACK_ADDR", "127.0.0.1:9999")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.Limit().Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("MonthlyLimit = %s, want env override 2500", cfg.Limit())
	}
	if cfg.Serve.Addr != "127.0.0.1:9999" {
		t.Fatalf("Addr = %q, want env override", cfg.Serve.Addr)
	}
}

func TestLoadFrom_RejectsBadThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[budget]\nalert_threshold = 85\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom accepted alert_threshold 85")
	}
}

func TestConfigDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigPath(); got != "/tmp/xdg/fintrack/config.toml" {
		t.Fatalf("ConfigPath = %q", got)
	}
}

func TestDataDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	if got := DataDir(); got != "/tmp/xdg-data/fintrack" {
		t.Fatalf("DataDir = %q", got)
	}
}
