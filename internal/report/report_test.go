package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/seed"
)

func TestBuild_ZeroLimit(t *testing.T) {
	ds := seed.Default()
	_, err := Build("x", ds.Bills, nil, decimal.Zero, time.Now())
	if !errors.Is(err, pipeline.ErrDivisionUndefined) {
		t.Fatalf("err = %v, want ErrDivisionUndefined", err)
	}
}

func TestWriteAndList(t *testing.T) {
	ds := seed.Default()
	now := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)

	r, err := Build(ds.User.Name, ds.Bills, ds.Alternatives, ds.Budget.Limit, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !r.Savings.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("Savings = %s, want 40", r.Savings)
	}
	if len(r.Categories) != len(model.Categories) {
		t.Fatalf("len(Categories) = %d", len(r.Categories))
	}

	w, err := Open(filepath.Join(t.TempDir(), "reports", "fintrack.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()

	ctx := context.Background()
	id1, err := w.Write(ctx, r)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := uuid.Parse(id1); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", id1, err)
	}

	r.GeneratedAt = now.Add(time.Hour)
	id2, err := w.Write(ctx, r)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}

	runs, err := w.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != id2 {
		t.Fatalf("newest run = %s, want %s", runs[0].ID, id2)
	}
	if runs[1].BillCount != 3 || !runs[1].TotalSpent.Equal(decimal.RequireFromString("2055.49")) {
		t.Fatalf("run = %+v", runs[1])
	}
	if runs[1].Health != model.HealthOnTrack {
		t.Fatalf("Health = %q", runs[1].Health)
	}
}
