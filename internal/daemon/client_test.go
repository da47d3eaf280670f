package daemon

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"
)

func TestNewClient_NormalizesAddr(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"127.0.0.1:8787", "http://127.0.0.1:8787"},
		{" http://localhost:9000/ ", "http://localhost:9000"},
	}
	for _, tt := range tests {
		if got := NewClient(tt.in).BaseURL(); got != tt.want {
			t.Fatalf("NewClient(%q).BaseURL() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClient_StatusEventsSettle(t *testing.T) {
	now := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	svc, st, _ := newTestService(t, "3500", now)
	svc.refresh()
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	status, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Summary.Bills != 3 || status.Summary.Health != model.HealthOnTrack {
		t.Fatalf("summary = %+v", status.Summary)
	}

	events, err := c.Events(ctx)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 || events[0].Type != EventSnapshot {
		t.Fatalf("events = %+v, want one snapshot", events)
	}

	if err := c.Settle(ctx, 1); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if b, _ := st.Get(1); b.Status != model.StatusPaid {
		t.Fatalf("bill 1 status = %s, want paid", b.Status)
	}

	if err := c.Settle(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Settle(42) err = %v, want ErrNotFound", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	if _, err := NewClient(addr).Status(context.Background()); err == nil {
		t.Fatal("Status against a closed server returned nil error")
	}
}
