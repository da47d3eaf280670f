// Package report writes point-in-time budget reports to a SQLite file.
// Reports are append-only snapshots; the live bill collection is never
// read back from them.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Report is one export: the bill snapshot plus everything derived from it.
type Report struct {
	GeneratedAt  time.Time
	Owner        string
	Bills        []model.BillView
	Categories   []pipeline.CategoryTotal
	Snapshot     model.BudgetSnapshot
	Insights     model.Insights
	Alternatives []model.Alternative
	Savings      decimal.Decimal
}

// Build derives a report from a bill snapshot.
func Build(owner string, bills []model.Bill, alts []model.Alternative, limit decimal.Decimal, now time.Time) (Report, error) {
	snap, err := pipeline.Snapshot(bills, limit)
	if err != nil {
		return Report{}, err
	}
	return Report{
		GeneratedAt:  now,
		Owner:        owner,
		Bills:        pipeline.Views(bills),
		Categories:   pipeline.CompleteCategoryTotals(bills),
		Snapshot:     snap,
		Insights:     pipeline.Insights(snap, now),
		Alternatives: alts,
		Savings:      pipeline.TotalSavings(alts),
	}, nil
}

// Writer appends reports to a SQLite database.
type Writer struct {
	db *sql.DB
}

// Open opens or creates the report database at the given path.
func Open(dbPath string) (*Writer, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating report dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening report db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Writer{db: db}, nil
}

// Close closes the report database.
func (w *Writer) Close() error {
	return w.db.Close()
}

// Write stores r in one transaction and returns its run id.
func (w *Writer) Write(ctx context.Context, r Report) (string, error) {
	runID := uuid.NewString()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	s := r.Snapshot
	_, err = tx.ExecContext(ctx, `INSERT INTO report_runs
		(run_id, generated_at, owner, monthly_limit, total_spent, remaining,
		 utilization, health, savings_rate_pct, potential_savings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.GeneratedAt.UTC().Format(time.RFC3339), r.Owner,
		s.Limit.String(), s.TotalSpent.String(), s.Remaining.String(),
		s.UtilizationFloat(), string(s.Health), r.Insights.SavingsRatePct, r.Savings.String(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, b := range r.Bills {
		_, err = tx.ExecContext(ctx, `INSERT INTO report_bills
			(run_id, bill_id, name, amount, category, due_date, status, display_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, b.ID, b.Name, b.Amount.String(), string(b.Category),
			b.DueDateString(), string(b.Status), string(b.Display),
		)
		if err != nil {
			return "", fmt.Errorf("inserting bill %d: %w", b.ID, err)
		}
	}

	for _, c := range r.Categories {
		_, err = tx.ExecContext(ctx, `INSERT INTO report_categories (run_id, category, amount)
			VALUES (?, ?, ?)`, runID, string(c.Category), c.Amount.String())
		if err != nil {
			return "", fmt.Errorf("inserting category %s: %w", c.Category, err)
		}
	}

	for _, a := range r.Alternatives {
		_, err = tx.ExecContext(ctx, `INSERT INTO report_alternatives
			(run_id, alternative_id, bill_id, name, est_saving, link)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, a.ID, a.BillID, a.Name, a.EstSaving.String(), a.Link,
		)
		if err != nil {
			return "", fmt.Errorf("inserting alternative %d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// Run is a summary row of a stored report.
type Run struct {
	ID          string
	GeneratedAt time.Time
	TotalSpent  decimal.Decimal
	Health      model.HealthTier
	BillCount   int
}

// Runs lists stored reports, newest first.
func (w *Writer) Runs(ctx context.Context) ([]Run, error) {
	rows, err := w.db.QueryContext(ctx, `SELECT r.run_id, r.generated_at, r.total_spent, r.health,
		(SELECT COUNT(*) FROM report_bills b WHERE b.run_id = r.run_id)
		FROM report_runs r ORDER BY r.generated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			generated string
			spent     string
			health    string
		)
		if err := rows.Scan(&run.ID, &generated, &spent, &health, &run.BillCount); err != nil {
			return nil, err
		}
		run.GeneratedAt, _ = time.Parse(time.RFC3339, generated)
		run.TotalSpent, err = decimal.NewFromString(spent)
		if err != nil {
			return nil, fmt.Errorf("run %s: total_spent: %w", run.ID, err)
		}
		run.Health = model.HealthTier(health)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
