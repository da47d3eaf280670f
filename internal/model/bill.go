// Package model defines domain types for fintrack bills, budgets and notifications.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for due dates everywhere.
const DateLayout = "2006-01-02"

// Category is one of the fixed bill categories.
type Category string

// Bill categories, in display order.
const (
	Housing        Category = "Housing"
	Utilities      Category = "Utilities"
	Transportation Category = "Transportation"
	Food           Category = "Food"
	Entertainment  Category = "Entertainment"
)

// Categories lists every category in display order.
var Categories = []Category{Housing, Utilities, Transportation, Food, Entertainment}

// ParseCategory matches s against the fixed category set, ignoring case and
// surrounding space.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Icon returns the glyph shown next to bills of this category.
func (c Category) Icon() string {
	switch c {
	case Housing:
		return "🏠"
	case Utilities:
		return "⚡"
	case Transportation:
		return "🚗"
	case Food:
		return "🍽"
	case Entertainment:
		return "🎬"
	default:
		return "📄"
	}
}

// Status is the stored lifecycle state of a bill.
type Status string

// Lifecycle states. New bills start pending.
const (
	StatusPending Status = "pending"
	StatusDueSoon Status = "due_soon"
	StatusPaid    Status = "paid"
)

// ParseStatus validates a lifecycle status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusDueSoon:
		return StatusDueSoon, true
	case StatusPaid:
		return StatusPaid, true
	}
	return "", false
}

// Bill is one payable obligation.
type Bill struct {
	ID       int
	Name     string
	Amount   decimal.Decimal
	Category Category
	DueDate  time.Time
	Status   Status
}

// DueDateString formats the due date as YYYY-MM-DD.
func (b Bill) DueDateString() string {
	if b.DueDate.IsZero() {
		return ""
	}
	return b.DueDate.Format(DateLayout)
}

// DisplayStatus is the badge shown for a bill. It is derived, never stored.
type DisplayStatus string

// Display statuses, in priority order.
const (
	DisplayExpensive DisplayStatus = "Expensive"
	DisplayDueSoon   DisplayStatus = "Due Soon"
	DisplayPaid      DisplayStatus = "Paid"
	DisplayPending   DisplayStatus = "Pending"
)

// ParseDisplayStatus accepts either the label ("Due Soon") or a slug
// ("due_soon", "due-soon").
func ParseDisplayStatus(s string) (DisplayStatus, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	for _, d := range []DisplayStatus{DisplayExpensive, DisplayDueSoon, DisplayPaid, DisplayPending} {
		if strings.ToLower(string(d)) == norm {
			return d, true
		}
	}
	return "", false
}

// Badge is the visual class of a display status.
type Badge string

// Badge classes.
const (
	BadgeDanger    Badge = "danger"
	BadgeWarning   Badge = "warning"
	BadgeSuccess   Badge = "success"
	BadgeSecondary Badge = "secondary"
)

// Badge returns the badge class associated with d.
func (d DisplayStatus) Badge() Badge {
	switch d {
	case DisplayExpensive:
		return BadgeDanger
	case DisplayDueSoon:
		return BadgeWarning
	case DisplayPaid:
		return BadgeSuccess
	default:
		return BadgeSecondary
	}
}

// BillView pairs a bill with its derived display status.
type BillView struct {
	Bill
	Display DisplayStatus
}
