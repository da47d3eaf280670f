package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// notifState tracks the notifications tab state.
type notifState struct {
	cursor     int
	typeFilter int // index into notify.Types, -1 for all
}

func (a App) notificationFilter() model.NotificationType {
	if a.notifState.typeFilter >= 0 && a.notifState.typeFilter < len(notify.Types) {
		return notify.Types[a.notifState.typeFilter]
	}
	return ""
}

func (a App) visibleNotifications() []model.Notification {
	return a.inbox.List(a.notificationFilter())
}

func (a App) updateNotificationKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "m", "enter":
		items := a.visibleNotifications()
		if a.notifState.cursor < len(items) {
			if err := a.inbox.MarkRead(items[a.notifState.cursor].ID); err != nil {
				a.setFlash(err.Error(), true)
			}
		}
	case "M":
		a.inbox.MarkAllRead()
		a.setFlash("All notifications marked read", false)
	case "t":
		a.notifState.typeFilter = cycle(a.notifState.typeFilter, len(notify.Types))
		a.notifState.cursor = 0
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) renderNotificationsTab(cw, h int) string {
	t := theme.Active
	now := a.now()

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	readStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	// Filter pills with per-type counts
	counts := a.inbox.CountByType()
	var pills []string
	allStyle := dimStyle
	if a.notifState.typeFilter < 0 {
		allStyle = lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	pills = append(pills, allStyle.Render(fmt.Sprintf("All %d", total)))
	for i, typ := range notify.Types {
		style := dimStyle
		if i == a.notifState.typeFilter {
			style = lipgloss.NewStyle().Foreground(t.Notification(typ)).Background(t.Surface).Bold(true)
		}
		pills = append(pills, style.Render(fmt.Sprintf("%s %d", notify.KindFor(typ).Title, counts[typ])))
	}

	innerW := components.CardInnerWidth(cw)
	items := a.visibleNotifications()

	var body strings.Builder
	body.WriteString(strings.Join(pills, dimStyle.Render("  │  ")))
	body.WriteString("\n\n")
	if len(items) == 0 {
		body.WriteString(dimStyle.Render("Nothing here."))
	}

	// Each entry takes two lines plus a spacer
	visible := (h - 6) / 3
	if visible < 1 {
		visible = 1
	}
	offset := 0
	if a.notifState.cursor >= visible {
		offset = a.notifState.cursor - visible + 1
	}

	for i := offset; i < len(items) && i < offset+visible; i++ {
		n := items[i]
		kind := notify.KindFor(n.Type)
		read := a.inbox.IsRead(n.ID)

		titleStyle := lipgloss.NewStyle().Foreground(t.Notification(n.Type)).Background(t.Surface).Bold(!read)
		textStyle := msgStyle
		if read {
			textStyle = readStyle
		}
		marker := "  "
		if i == a.notifState.cursor {
			marker = "▸ "
			titleStyle = titleStyle.Background(t.SurfaceBright)
		}
		dot := " "
		if !read {
			dot = "●"
		}

		ago := notify.TimeAgo(n.CreatedAt, now)
		head := marker + dot + " " + kind.Icon + " " + kind.Title
		body.WriteString(titleStyle.Render(head))
		if gap := innerW - lipgloss.Width(head) - lipgloss.Width(ago); gap > 0 {
			body.WriteString(dimStyle.Render(strings.Repeat(" ", gap)))
		}
		body.WriteString(dimStyle.Render(ago))
		body.WriteString("\n")
		line := "    " + truncStr(n.Message, innerW-4-len(kind.Action)-3)
		body.WriteString(textStyle.Render(line))
		if kind.Action != "" {
			body.WriteString(dimStyle.Render("  [" + kind.Action + "]"))
		}
		if i < len(items)-1 && i < offset+visible-1 {
			body.WriteString("\n\n")
		}
	}

	title := "Notifications"
	if unread := a.inbox.UnreadCount(); unread > 0 {
		title = fmt.Sprintf("Notifications (%d unread)", unread)
	}
	return components.ContentCard(title, body.String(), cw)
}
