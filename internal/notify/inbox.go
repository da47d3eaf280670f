// Package notify manages the notification inbox and its read state.
package notify

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Kind is the presentation config for a notification type.
type Kind struct {
	Title  string
	Icon   string
	Action string // empty when the type has no call to action
}

var kinds = map[model.NotificationType]Kind{
	model.NotifyBillReminder:          {Title: "Bill Reminder", Icon: "⏰", Action: "View"},
	model.NotifyBudgetAlert:           {Title: "Budget Alert", Icon: "⚠", Action: "Review"},
	model.NotifyAlternativeSuggestion: {Title: "Money Saving Tip", Icon: "💡", Action: "Explore"},
	model.NotifyPaymentConfirmation:   {Title: "Payment Confirmed", Icon: "✔"},
}

// KindFor returns the presentation config for t. Unknown types render as
// bill reminders.
func KindFor(t model.NotificationType) Kind {
	if k, ok := kinds[t]; ok {
		return k
	}
	return kinds[model.NotifyBillReminder]
}

// Types lists the known notification types in display order.
var Types = []model.NotificationType{
	model.NotifyBillReminder,
	model.NotifyBudgetAlert,
	model.NotifyAlternativeSuggestion,
	model.NotifyPaymentConfirmation,
}

// TimeAgo renders the age of created relative to now.
func TimeAgo(created, now time.Time) string {
	hours := int(now.Sub(created).Hours())
	days := hours / 24
	switch {
	case days > 0:
		return plural(days, "day") + " ago"
	case hours > 0:
		return plural(hours, "hour") + " ago"
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Inbox holds notifications newest first along with which ones are read.
type Inbox struct {
	mu     sync.Mutex
	items  []model.Notification
	read   map[int]bool
	nextID int
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{read: make(map[int]bool)}
}

// Seed returns an inbox holding items, all unread. Ids must be positive and
// unique since read state is tracked by id.
func Seed(items ...model.Notification) (*Inbox, error) {
	in := NewInbox()
	seen := make(map[int]bool, len(items))
	for _, n := range items {
		if n.ID <= 0 {
			return nil, fmt.Errorf("notification id %d: must be positive", n.ID)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("notification id %d: duplicate id in seed data", n.ID)
		}
		seen[n.ID] = true
		in.insert(n)
	}
	return in, nil
}

func (in *Inbox) insert(n model.Notification) {
	if n.ID > in.nextID {
		in.nextID = n.ID
	}
	in.items = append(in.items, n)
	sort.SliceStable(in.items, func(i, j int) bool {
		return in.items[i].CreatedAt.After(in.items[j].CreatedAt)
	})
}

// Push appends a new notification, assigning it the next id.
func (in *Inbox) Push(msg string, t model.NotificationType, at time.Time) model.Notification {
	in.mu.Lock()
	defer in.mu.Unlock()

	n := model.Notification{ID: in.nextID + 1, Message: msg, CreatedAt: at, Type: t}
	in.insert(n)
	return n
}

// List returns notifications newest first, optionally restricted to one type.
func (in *Inbox) List(t model.NotificationType) []model.Notification {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]model.Notification, 0, len(in.items))
	for _, n := range in.items {
		if t == "" || n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// MarkRead marks one notification read.
func (in *Inbox) MarkRead(id int) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, n := range in.items {
		if n.ID == id {
			in.read[id] = true
			return nil
		}
	}
	return fmt.Errorf("notification %d not found", id)
}

// MarkAllRead marks every notification read.
func (in *Inbox) MarkAllRead() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, n := range in.items {
		in.read[n.ID] = true
	}
}

// IsRead reports whether id has been read.
func (in *Inbox) IsRead(id int) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.read[id]
}

// UnreadCount returns how many notifications are unread.
func (in *Inbox) UnreadCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := 0
	for _, item := range in.items {
		if !in.read[item.ID] {
			n++
		}
	}
	return n
}

// CountByType tallies notifications per type.
func (in *Inbox) CountByType() map[model.NotificationType]int {
	in.mu.Lock()
	defer in.mu.Unlock()
	counts := make(map[model.NotificationType]int, len(Types))
	for _, n := range in.items {
		counts[n.Type]++
	}
	return counts
}
