// Package tui provides the interactive Bubble Tea dashboard for fintrack.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/store"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// Options wires the dashboard to its data.
type Options struct {
	Store        *store.Store
	Inbox        *notify.Inbox
	Alternatives []model.Alternative
	Config       config.Config
	Owner        string
	NeedSetup    bool
	SaveConfig   func(config.Config) error // nil disables persistence
	Now          func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	store      *store.Store
	inbox      *notify.Inbox
	alts       []model.Alternative
	cfg        config.Config
	owner      string
	saveConfig func(config.Config) error
	now        func() time.Time

	// Derived from the store on every change
	bills   []model.Bill
	snap    model.BudgetSnapshot
	snapErr error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Last action feedback for the status bar
	flash    string
	flashErr bool

	// Per-tab state
	billsState billsState
	notifState notifState
	settings   settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	refreshEvery     = 30 * time.Second
)

// Tab indexes, matching components.Tabs.
const (
	tabDashboard = iota
	tabBills
	tabBudget
	tabNotifications
	tabSettings
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	inbox := opts.Inbox
	if inbox == nil {
		inbox = notify.NewInbox()
	}
	theme.SetActive(opts.Config.Appearance.Theme)

	a := App{
		store:      opts.Store,
		inbox:      inbox,
		alts:       opts.Alternatives,
		cfg:        opts.Config,
		owner:      opts.Owner,
		saveConfig: opts.SaveConfig,
		now:        now,
		needSetup:  opts.NeedSetup,
		billsState: billsState{catFilter: -1, dispFilter: -1},
		notifState: notifState{typeFilter: -1},
	}
	a.recompute()
	if a.needSetup {
		a.setupVals = setupValuesFrom(a.cfg)
		a.setupForm = newSetupForm(a.owner, a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, tickCmd()}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// recompute refreshes everything derived from the store.
func (a *App) recompute() {
	a.bills = a.store.List()
	a.snap, a.snapErr = pipeline.Snapshot(a.bills, a.cfg.Limit())
	a.clampCursors()
}

func (a *App) clampCursors() {
	if n := len(a.visibleBills()); a.billsState.cursor >= n {
		a.billsState.cursor = n - 1
	}
	if a.billsState.cursor < 0 {
		a.billsState.cursor = 0
	}
	if n := len(a.visibleNotifications()); a.notifState.cursor >= n {
		a.notifState.cursor = n - 1
	}
	if a.notifState.cursor < 0 {
		a.notifState.cursor = 0
	}
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
}

// persist writes the config when a saver is wired.
func (a *App) persist() {
	if a.saveConfig == nil {
		return
	}
	if err := a.saveConfig(a.cfg); err != nil {
		a.setFlash("Save failed: "+err.Error(), true)
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.billsState.form != nil {
			a.billsState.form = a.billsState.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.modal() {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Bill add/edit form
		if a.billsState.form != nil {
			if key == "esc" {
				a.billsState.form = nil
				a.setFlash("Cancelled", false)
				return a, nil
			}
			return a.updateBillForm(msg)
		}

		// Settings tab has its own keybindings (text input)
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch a.activeTab {
		case tabBills:
			if m, cmd, ok := a.updateBillsKeys(key); ok {
				return m, cmd
			}
		case tabNotifications:
			if m, cmd, ok := a.updateNotificationKeys(key); ok {
				return m, cmd
			}
		case tabSettings:
			if m, cmd, ok := a.updateSettingsKeys(key); ok {
				return m, cmd
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			a.recompute()
			a.setFlash("Refreshed", false)
			return a, nil
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case tickMsg:
		a.recompute()
		return a, tickCmd()
	}

	// Forward unhandled messages (cursor blinks, etc.) to whichever form is open
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.billsState.form != nil {
		return a.updateBillForm(msg)
	}
	return a, nil
}

// modal reports whether a form currently owns the screen.
func (a App) modal() bool {
	return (a.needSetup && a.setupForm != nil) || a.billsState.form != nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
		return a, nil
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
		return a, nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		// Tab bar is the first line
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// moveCursor scrolls the list on the active tab.
func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabBills:
		a.billsState.cursor += delta
	case tabNotifications:
		a.notifState.cursor += delta
	case tabSettings:
		a.settings.cursor += delta
		if a.settings.cursor < 0 {
			a.settings.cursor = 0
		}
		if a.settings.cursor >= settingsFieldCount {
			a.settings.cursor = settingsFieldCount - 1
		}
		return
	default:
		return
	}
	a.clampCursors()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fintrack needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"d b u n s", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Navigate lists"},
		}},
		{"Bills", []struct{ key, desc string }{
			{"a", "Add bill"},
			{"e", "Edit selected bill"},
			{"p", "Mark selected bill paid"},
			{"f F", "Cycle category / status filter"},
		}},
		{"Notifications", []struct{ key, desc string }{
			{"m", "Mark selected read"},
			{"M", "Mark all read"},
			{"t", "Cycle type filter"},
		}},
		{"General", []struct{ key, desc string }{
			{"Enter", "Edit setting"},
			{"Esc", "Cancel"},
			{"r", "Refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch {
	case a.billsState.form != nil:
		return "[Enter] next  [Esc] cancel"
	case a.activeTab == tabBills:
		return "[a]dd [e]dit [p]aid [f]ilter  [?] help"
	case a.activeTab == tabNotifications:
		return "[m] read [M] all read [t]ype  [?] help"
	case a.activeTab == tabSettings:
		return "[j/k] move [Enter] edit  [?] help"
	}
	return "[?] help  [q] quit"
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + owner line
	ownerStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	ownerLine := ownerStyle.Render(" ") + accentStyle.Render("◈ fintrack")
	if a.owner != "" {
		ownerLine += ownerStyle.Render(" │ " + a.owner)
	}
	ownerLine += ownerStyle.Render(" │ " + a.now().Format("January 2006"))
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(ownerLine)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.flash, a.flashErr, a.inbox.UnreadCount())

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabBills:
		content = a.renderBillsTab(cw, contentH)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	case tabNotifications:
		content = a.renderNotificationsTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		// One column separator between tabs
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
