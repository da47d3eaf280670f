package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Tag    string // stable router key
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available tabs, in display order.
var Tabs = []Tab{
	{Tag: "dashboard", Name: "Dashboard", Key: 'd', KeyPos: 0},
	{Tag: "bills", Name: "Bills", Key: 'b', KeyPos: 0},
	{Tag: "budget", Name: "Budget", Key: 'u', KeyPos: 1},
	{Tag: "notifications", Name: "Notifications", Key: 'n', KeyPos: 0},
	{Tag: "settings", Name: "Settings", Key: 's', KeyPos: 0},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	pad := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	if active {
		activeStyle := lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1)
		return activeStyle.Render(tab.Name)
	}

	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dimKeyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	before := tab.Name[:tab.KeyPos]
	key := string(tab.Name[tab.KeyPos])
	after := tab.Name[tab.KeyPos+1:]
	return pad + inactiveStyle.Render(before) +
		dimKeyStyle.Render("[") + keyStyle.Render(key) + dimKeyStyle.Render("]") +
		inactiveStyle.Render(after) + pad
}

// TabVisualWidth returns the rendered width of tab. Mouse hit-testing relies
// on this matching RenderTabBar exactly.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	row := strings.Join(parts, sep)

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// TabIdxByTag returns the tab index for a router tag, or -1.
func TabIdxByTag(tag string) int {
	for i, tab := range Tabs {
		if tab.Tag == tag {
			return i
		}
	}
	return -1
}
