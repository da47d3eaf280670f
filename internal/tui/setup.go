package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// setupValues holds the first-run form bindings.
type setupValues struct {
	limit       string
	alerts      bool
	threshold   int
	dueSoonDays int
	theme       string
}

var dueSoonOptions = []int{3, 7, 14}

func setupValuesFrom(cfg config.Config) *setupValues {
	return &setupValues{
		limit:       cfg.Limit().StringFixed(2),
		alerts:      cfg.Budget.AlertEnabled,
		threshold:   cfg.Budget.AlertThreshold,
		dueSoonDays: cfg.General.DueSoonDays,
		theme:       cfg.Appearance.Theme,
	}
}

// apply copies the form values into cfg.
func (v *setupValues) apply(cfg *config.Config) error {
	limit, err := decimal.NewFromString(strings.TrimSpace(v.limit))
	if err != nil {
		return fmt.Errorf("monthly limit: %w", err)
	}
	cfg.Budget.MonthlyLimit = model.NewMoney(limit)
	cfg.Budget.AlertEnabled = v.alerts
	cfg.Budget.AlertThreshold = v.threshold
	cfg.General.DueSoonDays = v.dueSoonDays
	cfg.Appearance.Theme = v.theme
	return cfg.Validate()
}

func validateLimit(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter an amount like 3500")
	}
	if !d.IsPositive() {
		return errors.New("limit must be greater than zero")
	}
	return nil
}

func newSetupForm(owner string, v *setupValues) *huh.Form {
	welcome := "Welcome to fintrack!"
	if owner != "" {
		welcome = fmt.Sprintf("Welcome to fintrack, %s!", owner)
	}

	thresholdOpts := make([]huh.Option[int], len(config.AlertThresholds))
	for i, pct := range config.AlertThresholds {
		thresholdOpts[i] = huh.NewOption(strconv.Itoa(pct)+"% of limit", pct)
	}
	dueOpts := make([]huh.Option[int], len(dueSoonOptions))
	for i, d := range dueSoonOptions {
		dueOpts[i] = huh.NewOption(strconv.Itoa(d)+" days", d)
	}
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(welcome).
				Description("Let's set up your budget. Settings are saved to\n"+config.ConfigPath()),
			huh.NewInput().
				Title("Monthly spending limit").
				Placeholder("3500").
				Value(&v.limit).
				Validate(validateLimit),
			huh.NewConfirm().
				Title("Alert me when spending approaches the limit?").
				Value(&v.alerts),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Alert threshold").
				Options(thresholdOpts...).
				Value(&v.threshold),
			huh.NewSelect[int]().
				Title("Flag bills as due soon within").
				Options(dueOpts...).
				Value(&v.dueSoonDays),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.theme),
		),
	)
}

// applySetup saves the completed first-run form.
func (a *App) applySetup() {
	if err := a.setupVals.apply(&a.cfg); err != nil {
		a.setFlash("Setup: "+err.Error(), true)
		return
	}
	theme.SetActive(a.cfg.Appearance.Theme)
	a.recompute()
	a.persist()
	if !a.flashErr {
		a.setFlash("Saved to "+config.ConfigPath(), false)
	}
}

// RunSetup runs the setup form standalone and returns the updated config.
func RunSetup(cfg config.Config, owner string) (config.Config, error) {
	v := setupValuesFrom(cfg)
	if err := newSetupForm(owner, v).Run(); err != nil {
		return cfg, err
	}
	if err := v.apply(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
