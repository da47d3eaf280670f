package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

func TestDefault_SeedsStore(t *testing.T) {
	ds := Default()
	s, err := store.New(ds.Bills...)
	if err != nil {
		t.Fatalf("store.New(Default): %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if !ds.Budget.Limit.Equal(decimal.NewFromInt(3500)) || !ds.Budget.AlertEnabled {
		t.Fatalf("budget = %+v", ds.Budget)
	}
	if len(ds.Alternatives) != 2 || len(ds.Notifications) != 4 {
		t.Fatalf("alternatives=%d notifications=%d", len(ds.Alternatives), len(ds.Notifications))
	}
}

const sample = `
[user]
name = "Alex"

[budget]
monthly_limit = "2000.00"
alert = false

[[bills]]
id = 4
name = "Car Loan"
amount = "310.25"
category = "Transportation"
due_date = "2025-09-01"
status = "pending"

[[alternatives]]
id = 1
bill_id = 4
name = "Credit Union Refi"
est_saving = "42.10"
link = "https://example.com/refi"

[[notifications]]
id = 9
message = "Car loan due soon"
created_at = "2025-08-25"
type = "bill_reminder"
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.User.Name != "Alex" {
		t.Fatalf("User.Name = %q", ds.User.Name)
	}
	if !ds.Budget.Limit.Equal(decimal.NewFromInt(2000)) || ds.Budget.AlertEnabled {
		t.Fatalf("budget = %+v", ds.Budget)
	}
	if len(ds.Bills) != 1 {
		t.Fatalf("len(Bills) = %d, want 1", len(ds.Bills))
	}
	b := ds.Bills[0]
	if b.ID != 4 || b.Category != model.Transportation || b.DueDateString() != "2025-09-01" {
		t.Fatalf("bill = %+v", b)
	}
	if !b.Amount.Equal(decimal.RequireFromString("310.25")) {
		t.Fatalf("Amount = %s", b.Amount)
	}
	if ds.Alternatives[0].BillID != 4 || ds.Notifications[0].Type != model.NotifyBillReminder {
		t.Fatalf("alternatives=%+v notifications=%+v", ds.Alternatives, ds.Notifications)
	}
}

func TestParse_BadAmount(t *testing.T) {
	data := []byte("[budget]\nmonthly_limit = \"100\"\n[[bills]]\nid = 1\namount = \"lots\"\ndue_date = \"2025-01-01\"\n")
	if _, err := Parse(data); err == nil {
		t.Fatal("Parse accepted a non-numeric amount")
	}
}

func TestParse_NumericAmounts(t *testing.T) {
	data := []byte(`
[budget]
monthly_limit = 3500
alert = true

[[bills]]
id = 1
name = "Rent"
amount = 1850.00
category = "Housing"
due_date = "2025-08-01"

[[bills]]
id = 2
name = "Internet"
amount = "79.99"
category = "Utilities"
due_date = "2025-08-10"
status = "paid"

[[alternatives]]
id = 1
bill_id = 2
name = "FastNet Fiber"
est_saving = 15
`)
	ds, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !ds.Budget.Limit.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("Limit = %s, want 3500", ds.Budget.Limit)
	}
	if !ds.Bills[0].Amount.Equal(decimal.NewFromInt(1850)) || !ds.Bills[1].Amount.Equal(decimal.RequireFromString("79.99")) {
		t.Fatalf("amounts = %s, %s", ds.Bills[0].Amount, ds.Bills[1].Amount)
	}
	if !ds.Alternatives[0].EstSaving.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("EstSaving = %s, want 15", ds.Alternatives[0].EstSaving)
	}
	if _, err := store.New(ds.Bills...); err != nil {
		t.Fatalf("store.New with numeric seed: %v", err)
	}
}
