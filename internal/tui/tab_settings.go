package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

const (
	settingsFieldLimit = iota
	settingsFieldAlerts
	settingsFieldThreshold
	settingsFieldDueSoon
	settingsFieldTheme
	settingsFieldBillReminders
	settingsFieldBudgetAlerts
	settingsFieldSavingTips
	settingsFieldMonthlyReports
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "enter", " ":
		m, cmd := a.settingsActivate()
		return m, cmd, true
	case "1", "2", "3", "4":
		n, _ := strconv.Atoi(key)
		a.settings.cursor = settingsFieldBillReminders + n - 1
		a.settingsToggle()
	default:
		return a, nil, false
	}
	return a, nil, true
}

// settingsActivate edits text fields and flips toggles in place.
func (a App) settingsActivate() (tea.Model, tea.Cmd) {
	switch a.settings.cursor {
	case settingsFieldLimit, settingsFieldDueSoon, settingsFieldTheme:
		return a.settingsStartEdit()
	}
	a.settingsToggle()
	return a, nil
}

func (a *App) settingsToggle() {
	prefs := a.cfg.Prefs()
	switch a.settings.cursor {
	case settingsFieldAlerts:
		a.cfg.Budget.AlertEnabled = !a.cfg.Budget.AlertEnabled
	case settingsFieldThreshold:
		a.cfg.Budget.AlertThreshold = nextThreshold(a.cfg.Budget.AlertThreshold)
	case settingsFieldBillReminders:
		prefs.BillReminders = !prefs.BillReminders
	case settingsFieldBudgetAlerts:
		prefs.BudgetAlerts = !prefs.BudgetAlerts
	case settingsFieldSavingTips:
		prefs.SavingTips = !prefs.SavingTips
	case settingsFieldMonthlyReports:
		prefs.MonthlyReports = !prefs.MonthlyReports
	default:
		return
	}
	a.cfg.SetPrefs(prefs)
	a.setFlash("Saved", false)
	a.persist()
}

func nextThreshold(cur int) int {
	for i, v := range config.AlertThresholds {
		if v == cur {
			return config.AlertThresholds[(i+1)%len(config.AlertThresholds)]
		}
	}
	return config.AlertThresholds[0]
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldLimit:
		ti.Placeholder = "3500"
		ti.SetValue(a.cfg.Limit().StringFixed(2))
	case settingsFieldDueSoon:
		ti.Placeholder = "7"
		ti.SetValue(strconv.Itoa(a.cfg.General.DueSoonDays))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsSave() {
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldLimit:
		limit, err := decimal.NewFromString(val)
		if err != nil || limit.IsNegative() {
			a.setFlash("Limit must be a non-negative amount", true)
			return
		}
		a.cfg.Budget.MonthlyLimit = model.NewMoney(limit)
		a.recompute()
	case settingsFieldDueSoon:
		d, err := strconv.Atoi(val)
		if err != nil || d < 0 {
			a.setFlash("Due-soon window must be a whole number of days", true)
			return
		}
		a.cfg.General.DueSoonDays = d
	case settingsFieldTheme:
		found := false
		for _, name := range theme.Names() {
			if name == val {
				found = true
				break
			}
		}
		if !found {
			a.setFlash("Unknown theme "+val, true)
			return
		}
		a.cfg.Appearance.Theme = val
		theme.SetActive(val)
	}
	a.setFlash("Saved", false)
	a.persist()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg
	prefs := cfg.Prefs()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	type field struct {
		label string
		value string
	}
	fields := []field{
		{"Monthly Limit", cli.FormatMoney(cfg.Limit())},
		{"Budget Alerts", onOff(cfg.Budget.AlertEnabled)},
		{"Alert Threshold", fmt.Sprintf("%d%%", cfg.Budget.AlertThreshold)},
		{"Due Soon Window", fmt.Sprintf("%d days", cfg.General.DueSoonDays)},
		{"Theme", cfg.Appearance.Theme},
		{"Bill Reminders", onOff(prefs.BillReminders)},
		{"Budget Alert Notices", onOff(prefs.BudgetAlerts)},
		{"Saving Tips", onOff(prefs.SavingTips)},
		{"Monthly Reports", onOff(prefs.MonthlyReports)},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		switch i {
		case settingsFieldLimit:
			formBody.WriteString(sectionStyle.Render("Budget") + "\n")
		case settingsFieldTheme:
			formBody.WriteString("\n" + sectionStyle.Render("Appearance") + "\n")
		case settingsFieldBillReminders:
			formBody.WriteString("\n" + sectionStyle.Render("Notifications") + "\n")
		}

		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-22s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-22s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			if padLen := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-22s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit/toggle  [1-4] toggle notices  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Config file: ") + valueStyle.Render(config.ConfigPath()) + "\n")
	info.WriteString(labelStyle.Render("Bills:       ") + valueStyle.Render(cli.FormatNumber(int64(len(a.bills)))))
	if a.owner != "" {
		info.WriteString("\n" + labelStyle.Render("Account:     ") + valueStyle.Render(a.owner))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", info.String(), cw))
	return b.String()
}
