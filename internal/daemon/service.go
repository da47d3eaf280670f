// Package daemon provides the long-running bill monitor and its local HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Interval       time.Duration
	Addr           string
	EventsBuffer   int
	DueSoonDays    int
	Budget         model.Budget
	AlertThreshold decimal.Decimal // fraction of the limit, e.g. 0.8
	Prefs          model.NotificationPrefs
}

// Deps are the shared in-process objects the daemon serves.
type Deps struct {
	Store        *store.Store
	Inbox        *notify.Inbox
	Alternatives []model.Alternative
	Logger       *slog.Logger
	Now          func() time.Time // defaults to time.Now
}

// Snapshot is a compact budget state for status/event payloads.
type Snapshot struct {
	At          time.Time        `json:"at"`
	Bills       int              `json:"bills"`
	DueSoon     int              `json:"due_soon"`
	Paid        int              `json:"paid"`
	TotalSpent  decimal.Decimal  `json:"total_spent"`
	Remaining   decimal.Decimal  `json:"remaining"`
	Utilization float64          `json:"utilization"`
	Health      model.HealthTier `json:"health"`
}

// Delta captures snapshot deltas between sweeps.
type Delta struct {
	Bills      int             `json:"bills"`
	DueSoon    int             `json:"due_soon"`
	Paid       int             `json:"paid"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

func (d Delta) isZero() bool {
	return d.Bills == 0 &&
		d.DueSoon == 0 &&
		d.Paid == 0 &&
		d.TotalSpent.IsZero()
}

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventBudgetDelta = "budget_delta"
	EventBudgetAlert = "budget_alert"
	EventBillDueSoon = "bill_due_soon"
)

// Event is emitted whenever the budget state changes or an alert fires.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
	BillID    int       `json:"bill_id,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt        time.Time `json:"started_at"`
	LastSweepAt      time.Time `json:"last_sweep_at"`
	SweepIntervalSec int       `json:"sweep_interval_sec"`
	SweepCount       int64     `json:"sweep_count"`
	DueSoonDays      int       `json:"due_soon_days"`
	AlertThreshold   string    `json:"alert_threshold"`
	Summary          Snapshot  `json:"summary"`
	LastError        string    `json:"last_error,omitempty"`
	EventCount       int       `json:"event_count"`
	SubscriberCount  int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	store   *store.Store
	inbox   *notify.Inbox
	alts    []model.Alternative
	log     *slog.Logger
	now     func() time.Time
	metrics *metrics

	// refreshMu serializes refresh end to end so snapshots and the alert
	// latch are committed in the order the store was read.
	refreshMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastSweepAt time.Time
	sweepCount  int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	alerted     bool
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config, deps Deps) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 60 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.AlertThreshold.IsZero() {
		cfg.AlertThreshold = decimal.RequireFromString("0.8")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Inbox == nil {
		deps.Inbox = notify.NewInbox()
	}

	return &Service{
		cfg:       cfg,
		store:     deps.Store,
		inbox:     deps.Inbox,
		alts:      deps.Alternatives,
		log:       deps.Logger,
		now:       deps.Now,
		metrics:   newMetrics(),
		startedAt: deps.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	s.routeAPI(mux)
	mux.Handle("GET /metrics", s.metrics.handler())
	return mux
}

// Run starts HTTP endpoints and the sweep loop until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Seed initial snapshot so status is useful immediately.
	s.sweep()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("daemon listening", "addr", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.sweep()
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// sweep marks pending bills that are coming due, then refreshes the snapshot.
func (s *Service) sweep() {
	now := s.now()
	s.metrics.sweeps.Inc()

	for _, b := range pipeline.DueWithin(s.store.List(), now, s.cfg.DueSoonDays) {
		dueSoon := string(model.StatusDueSoon)
		updated, applied, err := s.store.UpdateIf(b.ID, isPending, store.Patch{Status: &dueSoon})
		if err != nil {
			s.log.Warn("due-soon sweep skipped bill", "bill", b.ID, "err", err)
			continue
		}
		if !applied {
			// Settled or marked by someone else since List.
			s.log.Debug("due-soon sweep skipped bill", "bill", b.ID, "status", updated.Status)
			continue
		}
		s.metrics.markedDueSoon.Inc()
		msg := fmt.Sprintf("%s is due on %s", updated.Name, updated.DueDateString())
		s.log.Info("bill coming due", "bill", updated.ID, "due", updated.DueDateString())
		if s.cfg.Prefs.Allows(model.NotifyBillReminder) {
			s.inbox.Push(msg, model.NotifyBillReminder, now)
		}
		s.emit(Event{Type: EventBillDueSoon, Timestamp: now, BillID: updated.ID, Message: msg})
	}

	s.mu.Lock()
	s.lastSweepAt = now
	s.sweepCount++
	s.mu.Unlock()

	s.refresh()
}

func isPending(b model.Bill) bool { return b.Status == model.StatusPending }

// refresh recomputes the budget snapshot and publishes any change.
func (s *Service) refresh() {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	now := s.now()
	bills := s.store.List()

	budget, err := pipeline.Snapshot(bills, s.cfg.Budget.Limit)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		s.log.Error("budget snapshot failed", "err", err)
		return
	}
	snap := snapshotFrom(bills, budget, now)
	s.metrics.observe(snap, budget.Limit)

	var pending []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastError = ""

	if !prevExists {
		pending = append(pending, Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap})
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		pending = append(pending, Event{Type: EventBudgetDelta, Timestamp: now, Snapshot: snap, Delta: delta})
	}

	crossed := !budget.Utilization.LessThan(s.cfg.AlertThreshold)
	if crossed && !s.alerted && s.alertsOn() {
		pct := budget.Utilization.Mul(decimal.NewFromInt(100)).Round(0)
		pending = append(pending, Event{
			Type:      EventBudgetAlert,
			Timestamp: now,
			Snapshot:  snap,
			Message:   fmt.Sprintf("You've used %s%% of your monthly budget", pct),
		})
	}
	s.alerted = crossed
	s.mu.Unlock()

	for _, ev := range pending {
		if ev.Type == EventBudgetAlert {
			s.log.Warn("budget threshold crossed", "utilization", snap.Utilization)
			s.inbox.Push(ev.Message, model.NotifyBudgetAlert, now)
		}
		s.emit(ev)
	}
}

func (s *Service) alertsOn() bool {
	return s.cfg.Budget.AlertEnabled && s.cfg.Prefs.Allows(model.NotifyBudgetAlert)
}

func snapshotFrom(bills []model.Bill, b model.BudgetSnapshot, at time.Time) Snapshot {
	return Snapshot{
		At:          at,
		Bills:       len(bills),
		DueSoon:     pipeline.CountByStatus(bills, model.StatusDueSoon),
		Paid:        pipeline.CountByStatus(bills, model.StatusPaid),
		TotalSpent:  b.TotalSpent,
		Remaining:   b.Remaining,
		Utilization: b.UtilizationFloat(),
		Health:      b.Health,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Bills:      curr.Bills - prev.Bills,
		DueSoon:    curr.DueSoon - prev.DueSoon,
		Paid:       curr.Paid - prev.Paid,
		TotalSpent: curr.TotalSpent.Sub(prev.TotalSpent),
	}
}

// emit assigns the next event id and publishes ev.
func (s *Service) emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Snapshot.At.IsZero() {
		ev.Snapshot = s.snapshot
	}
	s.publishLocked(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(ev)
}

// publishLocked appends ev to the ring and fans it out. s.mu must be held.
func (s *Service) publishLocked(ev Event) {
	s.metrics.events.WithLabelValues(ev.Type).Inc()

	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:        s.startedAt,
		LastSweepAt:      s.lastSweepAt,
		SweepIntervalSec: int(s.cfg.Interval.Seconds()),
		SweepCount:       s.sweepCount,
		DueSoonDays:      s.cfg.DueSoonDays,
		AlertThreshold:   s.cfg.AlertThreshold.String(),
		Summary:          s.snapshot,
		LastError:        s.lastError,
		EventCount:       len(s.events),
		SubscriberCount:  len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.metrics.subscribers.Set(float64(len(s.subs)))
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
	s.metrics.subscribers.Set(float64(len(s.subs)))
}
