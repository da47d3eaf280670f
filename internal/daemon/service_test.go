package daemon

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/seed"
	"github.com/theirongolddev/fintrack/internal/store"
)

var allPrefs = model.NotificationPrefs{BillReminders: true, BudgetAlerts: true, SavingTips: true}

func newTestService(t *testing.T, limit string, now time.Time) (*Service, *store.Store, *notify.Inbox) {
	t.Helper()
	ds := seed.Default()
	st, err := store.New(ds.Bills...)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	inbox := notify.NewInbox()
	svc := New(Config{
		EventsBuffer:   50,
		DueSoonDays:    7,
		Budget:         model.Budget{Limit: decimal.RequireFromString(limit), AlertEnabled: true},
		AlertThreshold: decimal.RequireFromString("0.8"),
		Prefs:          allPrefs,
	}, Deps{
		Store:        st,
		Inbox:        inbox,
		Alternatives: ds.Alternatives,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:          func() time.Time { return now },
	})
	return svc, st, inbox
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Bills: 3, DueSoon: 1, Paid: 1, TotalSpent: decimal.RequireFromString("2055.49")}
	curr := Snapshot{Bills: 4, DueSoon: 2, Paid: 1, TotalSpent: decimal.RequireFromString("2155.49")}

	delta := diffSnapshots(prev, curr)
	if delta.Bills != 1 || delta.DueSoon != 1 || delta.Paid != 0 {
		t.Fatalf("delta = %+v", delta)
	}
	if !delta.TotalSpent.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("TotalSpent delta = %s, want 100", delta.TotalSpent)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots produced non-zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, Deps{Store: mustStore(t)})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func mustStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New()
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}

func TestSweep_MarksDueSoonThroughUpdate(t *testing.T) {
	now := time.Date(2025, 7, 28, 9, 0, 0, 0, time.UTC)
	svc, st, inbox := newTestService(t, "3500", now)

	svc.sweep()

	rent, err := st.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rent.Status != model.StatusDueSoon {
		t.Fatalf("Rent status = %q, want due_soon", rent.Status)
	}
	if internet, _ := st.Get(3); internet.Status != model.StatusPaid {
		t.Fatalf("Internet status = %q, paid bill must not change", internet.Status)
	}
	if n := len(inbox.List(model.NotifyBillReminder)); n != 1 {
		t.Fatalf("bill reminders = %d, want 1", n)
	}

	status := svc.snapshotStatus()
	if status.SweepCount != 1 || status.Summary.DueSoon != 2 {
		t.Fatalf("status = %+v", status)
	}
}

// settleOnLog settles bill id the first time the logger records msg.
type settleOnLog struct {
	msg  string
	st   *store.Store
	id   int
	once sync.Once
}

func (h *settleOnLog) Enabled(context.Context, slog.Level) bool { return true }

func (h *settleOnLog) Handle(_ context.Context, r slog.Record) error {
	if r.Message == h.msg {
		h.once.Do(func() { _, _ = h.st.Settle(h.id) })
	}
	return nil
}

func (h *settleOnLog) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *settleOnLog) WithGroup(string) slog.Handler      { return h }

func TestSweep_DoesNotRevertBillSettledMidSweep(t *testing.T) {
	now := time.Date(2025, 7, 28, 9, 0, 0, 0, time.UTC)
	svc, st, inbox := newTestService(t, "3500", now)
	gym, err := st.Add(store.Draft{Name: "Gym", Amount: "45", Category: "Entertainment", DueDate: "2025-08-02"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Rent is swept first; paying the gym bill while Rent is logged lands
	// between the sweep's List and its update of the gym bill.
	svc.log = slog.New(&settleOnLog{msg: "bill coming due", st: st, id: gym.ID})
	svc.sweep()

	got, err := st.Get(gym.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.StatusPaid {
		t.Fatalf("gym status = %q after mid-sweep payment, want paid", got.Status)
	}
	if rent, _ := st.Get(1); rent.Status != model.StatusDueSoon {
		t.Fatalf("Rent status = %q, want due_soon", rent.Status)
	}
	if n := len(inbox.List(model.NotifyBillReminder)); n != 1 {
		t.Fatalf("bill reminders = %d, want 1 (Rent only)", n)
	}
}

func TestRefresh_ConcurrentAddsAlertOnce(t *testing.T) {
	now := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	// 2055.49 / 3500 = 0.59; ten more $100 bills end at 0.87.
	svc, _, inbox := newTestService(t, "3500", now)
	svc.refresh()
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(srv.URL+"/v1/bills", "application/json", strings.NewReader(
				`{"name":"Extra","amount":"100","category":"Food","due_date":"2025-08-25"}`))
			if err != nil {
				t.Errorf("POST: %v", err)
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				t.Errorf("POST status = %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()
	svc.refresh()

	if n := countEvents(svc, EventBudgetAlert); n != 1 {
		t.Fatalf("budget_alert events = %d, want 1", n)
	}
	if n := len(inbox.List(model.NotifyBudgetAlert)); n != 1 {
		t.Fatalf("budget alert notifications = %d, want 1", n)
	}

	status := svc.snapshotStatus()
	if !status.Summary.TotalSpent.Equal(decimal.RequireFromString("3055.49")) {
		t.Fatalf("final TotalSpent = %s, want 3055.49", status.Summary.TotalSpent)
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	for i := 1; i < len(svc.events); i++ {
		if svc.events[i].ID <= svc.events[i-1].ID {
			t.Fatalf("event ids out of order at %d: %d after %d", i, svc.events[i].ID, svc.events[i-1].ID)
		}
	}
}

func TestRefresh_BudgetAlertOncePerCrossing(t *testing.T) {
	now := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	// 2055.49 / 2500 = 0.82 -> over the 0.8 threshold.
	svc, st, inbox := newTestService(t, "2500", now)

	svc.refresh()
	svc.refresh()

	if n := countEvents(svc, EventBudgetAlert); n != 1 {
		t.Fatalf("budget_alert events = %d, want 1", n)
	}
	if n := len(inbox.List(model.NotifyBudgetAlert)); n != 1 {
		t.Fatalf("budget alert notifications = %d, want 1", n)
	}

	// Drop below, then cross again.
	amt := "100"
	if _, err := st.Update(1, store.Patch{Amount: &amt}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	svc.refresh()
	amt = "1850"
	if _, err := st.Update(1, store.Patch{Amount: &amt}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	svc.refresh()

	if n := countEvents(svc, EventBudgetAlert); n != 2 {
		t.Fatalf("budget_alert events = %d, want 2", n)
	}
}

func TestRefresh_NoAlertWhenPrefsOff(t *testing.T) {
	now := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	svc, _, inbox := newTestService(t, "2500", now)
	svc.cfg.Prefs.BudgetAlerts = false

	svc.refresh()

	if n := countEvents(svc, EventBudgetAlert); n != 0 {
		t.Fatalf("budget_alert events = %d, want 0", n)
	}
	if n := len(inbox.List("")); n != 0 {
		t.Fatalf("inbox len = %d, want 0", n)
	}
}

func TestRefresh_ZeroLimitRecordsError(t *testing.T) {
	svc, _, _ := newTestService(t, "0", time.Now())
	svc.refresh()
	if status := svc.snapshotStatus(); status.LastError == "" {
		t.Fatal("LastError empty for zero limit")
	}
}

func countEvents(s *Service, typ string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, ev := range s.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestAPI_AddListUpdateSettle(t *testing.T) {
	now := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	svc, st, _ := newTestService(t, "3500", now)
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp := do(t, http.MethodPost, srv.URL+"/v1/bills",
		`{"name":"Gym","amount":45.5,"category":"entertainment","due_date":"2025-08-20"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201", resp.StatusCode)
	}
	var created billJSON
	decode(t, resp, &created)
	if created.ID != 4 || created.Category != model.Entertainment || created.DisplayStatus != model.DisplayPending {
		t.Fatalf("created = %+v", created)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/bills?status=expensive", "")
	var expensive []billJSON
	decode(t, resp, &expensive)
	if len(expensive) != 1 || expensive[0].Name != "Rent" || expensive[0].Badge != model.BadgeDanger {
		t.Fatalf("expensive = %+v", expensive)
	}

	resp = do(t, http.MethodPatch, srv.URL+"/v1/bills/2", `{"amount":"130.00"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PATCH status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, http.MethodPost, srv.URL+"/v1/bills/2/settle", "")
	var settled billJSON
	decode(t, resp, &settled)
	if settled.Status != model.StatusPaid || !settled.Amount.Equal(decimal.NewFromInt(130)) {
		t.Fatalf("settled = %+v", settled)
	}

	if st.Len() != 4 {
		t.Fatalf("store len = %d, want 4", st.Len())
	}
}

func TestAPI_ErrorMapping(t *testing.T) {
	svc, st, _ := newTestService(t, "3500", time.Now())
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"validation", http.MethodPost, "/v1/bills", `{"name":"x","amount":"-1","category":"Food","due_date":"2025-08-01"}`, http.StatusUnprocessableEntity},
		{"unknown field", http.MethodPost, "/v1/bills", `{"name":"x","cost":1}`, http.StatusBadRequest},
		{"not found", http.MethodPatch, "/v1/bills/99", `{"name":"Ghost"}`, http.StatusNotFound},
		{"bad id", http.MethodGet, "/v1/bills/abc", "", http.StatusBadRequest},
		{"bad filter", http.MethodGet, "/v1/bills?category=Travel", "", http.StatusBadRequest},
		{"settle unknown", http.MethodPost, "/v1/bills/42/settle", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
	if st.Len() != 3 {
		t.Fatalf("store len = %d after failed requests, want 3", st.Len())
	}
}

func TestAPI_BudgetAndAlternatives(t *testing.T) {
	now := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(t, "3500", now)
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	var b budgetJSON
	decode(t, do(t, http.MethodGet, srv.URL+"/v1/budget", ""), &b)
	if !b.TotalSpent.Equal(decimal.RequireFromString("2055.49")) || !b.Remaining.Equal(decimal.RequireFromString("1444.51")) {
		t.Fatalf("budget = %+v", b)
	}
	if b.Health != model.HealthOnTrack || b.HealthLabel != "On Track" || b.DaysLeft != 21 {
		t.Fatalf("budget = %+v", b)
	}

	var alts alternativesJSON
	decode(t, do(t, http.MethodGet, srv.URL+"/v1/alternatives", ""), &alts)
	if !alts.Total.Equal(decimal.NewFromInt(40)) || len(alts.Items) != 2 {
		t.Fatalf("alternatives = %+v", alts)
	}
}

func TestAPI_MetricsAndHealth(t *testing.T) {
	svc, _, _ := newTestService(t, "3500", time.Now())
	svc.refresh()
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp := do(t, http.MethodGet, srv.URL+"/metrics", "")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "fintrack_budget_spent_dollars 2055.49") {
		t.Fatalf("metrics missing spent gauge:\n%s", body)
	}

	resp = do(t, http.MethodGet, srv.URL+"/healthz", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz = %d", resp.StatusCode)
	}
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
