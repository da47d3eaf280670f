package notify

import (
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"
)

func at(s string) time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return t
}

func mockInbox(t *testing.T) *Inbox {
	t.Helper()
	in, err := Seed(
		model.Notification{ID: 1, Message: "Your rent payment is due in 3 days", CreatedAt: at("2025-08-05"), Type: model.NotifyBillReminder},
		model.Notification{ID: 2, Message: "You're approaching your monthly budget limit", CreatedAt: at("2025-08-07"), Type: model.NotifyBudgetAlert},
		model.Notification{ID: 3, Message: "New alternative found - Save $25/month on electricity", CreatedAt: at("2025-08-08"), Type: model.NotifyAlternativeSuggestion},
		model.Notification{ID: 4, Message: "Internet bill payment processed successfully", CreatedAt: at("2025-08-04"), Type: model.NotifyPaymentConfirmation},
	)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return in
}

func TestKindFor(t *testing.T) {
	if k := KindFor(model.NotifyBudgetAlert); k.Title != "Budget Alert" || k.Action != "Review" {
		t.Fatalf("budget alert kind = %+v", k)
	}
	if k := KindFor(model.NotifyPaymentConfirmation); k.Action != "" {
		t.Fatalf("payment confirmation action = %q, want none", k.Action)
	}
	if k := KindFor("mystery"); k != KindFor(model.NotifyBillReminder) {
		t.Fatalf("unknown kind = %+v, want bill reminder fallback", k)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		created time.Time
		want    string
	}{
		{now.Add(-10 * time.Minute), "Just now"},
		{now.Add(-1 * time.Hour), "1 hour ago"},
		{now.Add(-5 * time.Hour), "5 hours ago"},
		{now.Add(-25 * time.Hour), "1 day ago"},
		{now.Add(-72 * time.Hour), "3 days ago"},
	}
	for _, tt := range tests {
		if got := TimeAgo(tt.created, now); got != tt.want {
			t.Errorf("TimeAgo(%v) = %q, want %q", now.Sub(tt.created), got, tt.want)
		}
	}
}

func TestInbox_NewestFirst(t *testing.T) {
	items := mockInbox(t).List("")
	want := []int{3, 2, 1, 4}
	for i, n := range items {
		if n.ID != want[i] {
			t.Fatalf("items[%d].ID = %d, want %d", i, n.ID, want[i])
		}
	}
}

func TestInbox_ReadState(t *testing.T) {
	in := mockInbox(t)
	if got := in.UnreadCount(); got != 4 {
		t.Fatalf("UnreadCount = %d, want 4", got)
	}
	if err := in.MarkRead(2); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !in.IsRead(2) || in.IsRead(1) {
		t.Fatal("read state wrong after MarkRead(2)")
	}
	if got := in.UnreadCount(); got != 3 {
		t.Fatalf("UnreadCount = %d, want 3", got)
	}
	if err := in.MarkRead(99); err == nil {
		t.Fatal("MarkRead(99) succeeded, want error")
	}
	in.MarkAllRead()
	if got := in.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount after MarkAllRead = %d, want 0", got)
	}
}

func TestInbox_PushAndFilter(t *testing.T) {
	in := mockInbox(t)
	n := in.Push("Over budget", model.NotifyBudgetAlert, at("2025-08-09"))
	if n.ID != 5 {
		t.Fatalf("pushed ID = %d, want 5", n.ID)
	}
	alerts := in.List(model.NotifyBudgetAlert)
	if len(alerts) != 2 || alerts[0].ID != 5 {
		t.Fatalf("budget alerts = %+v, want newest id 5 first", alerts)
	}
	if c := in.CountByType()[model.NotifyBudgetAlert]; c != 2 {
		t.Fatalf("CountByType[budget_alert] = %d, want 2", c)
	}
	if in.IsRead(5) {
		t.Fatal("pushed notification starts read")
	}
}

func TestSeed_RejectsDuplicateAndZeroIDs(t *testing.T) {
	dup := []model.Notification{
		{ID: 1, Message: "a", CreatedAt: at("2025-08-01"), Type: model.NotifyBillReminder},
		{ID: 1, Message: "b", CreatedAt: at("2025-08-02"), Type: model.NotifyBudgetAlert},
	}
	if _, err := Seed(dup...); err == nil {
		t.Fatal("Seed accepted duplicate ids")
	}
	if _, err := Seed(model.Notification{Message: "no id"}); err == nil {
		t.Fatal("Seed accepted id 0")
	}

	in, err := Seed(dup[0])
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := in.MarkRead(1); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if in.UnreadCount() != 0 {
		t.Fatalf("UnreadCount = %d, want 0", in.UnreadCount())
	}
}
