package model

import "time"

// NotificationType tags a notification with its source.
type NotificationType string

// Notification types.
const (
	NotifyBillReminder          NotificationType = "bill_reminder"
	NotifyBudgetAlert           NotificationType = "budget_alert"
	NotifyAlternativeSuggestion NotificationType = "alternative_suggestion"
	NotifyPaymentConfirmation   NotificationType = "payment_confirmation"
)

// Notification is one message in the inbox.
type Notification struct {
	ID        int
	Message   string
	CreatedAt time.Time
	Type      NotificationType
}

// NotificationPrefs are the user's per-kind notification toggles.
type NotificationPrefs struct {
	BillReminders  bool
	BudgetAlerts   bool
	SavingTips     bool
	MonthlyReports bool
}

// Allows reports whether notifications of type t are enabled.
// Payment confirmations are always delivered.
func (p NotificationPrefs) Allows(t NotificationType) bool {
	switch t {
	case NotifyBillReminder:
		return p.BillReminders
	case NotifyBudgetAlert:
		return p.BudgetAlerts
	case NotifyAlternativeSuggestion:
		return p.SavingTips
	default:
		return true
	}
}
