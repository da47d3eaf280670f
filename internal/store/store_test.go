package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func seedBills(t *testing.T) []model.Bill {
	t.Helper()
	return []model.Bill{
		{ID: 1, Name: "Rent", Amount: decimal.RequireFromString("1850.00"), Category: model.Housing, DueDate: mustDate(t, "2025-08-01"), Status: model.StatusPending},
		{ID: 2, Name: "Electric Bill", Amount: decimal.RequireFromString("125.50"), Category: model.Utilities, DueDate: mustDate(t, "2025-08-15"), Status: model.StatusDueSoon},
	}
}

func strp(s string) *string { return &s }

func TestAdd_FirstBillGetsIDOne(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := s.Add(Draft{Name: "Rent", Amount: "1850", Category: "Housing", DueDate: "2025-08-01"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.ID != 1 {
		t.Fatalf("ID = %d, want 1", b.ID)
	}
	if b.Status != model.StatusPending {
		t.Fatalf("Status = %q, want pending", b.Status)
	}
	if !b.Amount.Equal(decimal.NewFromInt(1850)) {
		t.Fatalf("Amount = %s, want 1850", b.Amount)
	}
	if got := s.List(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("List = %+v, want single bill with id 1", got)
	}
}

func TestAdd_UsesMaxPlusOne(t *testing.T) {
	s, err := New(seedBills(t)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := s.Add(Draft{Name: "Internet", Amount: "79.99", Category: "Utilities", DueDate: "2025-08-10", Status: "paid"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.ID != 3 {
		t.Fatalf("ID = %d, want 3", b.ID)
	}
	if b.Status != model.StatusPaid {
		t.Fatalf("Status = %q, want paid", b.Status)
	}
}

func TestAdd_IDsNotReusedAfterGaps(t *testing.T) {
	seed := seedBills(t)
	seed[1].ID = 7
	s, err := New(seed...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := s.Add(Draft{Name: "Gym", Amount: "40", Category: "Entertainment", DueDate: "2025-08-20"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.ID != 8 {
		t.Fatalf("ID = %d, want 8", b.ID)
	}
}

func TestAdd_ValidationLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{"empty name", Draft{Name: "  ", Amount: "10", Category: "Food", DueDate: "2025-08-01"}, "name"},
		{"empty amount", Draft{Name: "x", Amount: "", Category: "Food", DueDate: "2025-08-01"}, "amount"},
		{"non-numeric amount", Draft{Name: "x", Amount: "abc", Category: "Food", DueDate: "2025-08-01"}, "amount"},
		{"NaN amount", Draft{Name: "x", Amount: "NaN", Category: "Food", DueDate: "2025-08-01"}, "amount"},
		{"negative amount", Draft{Name: "x", Amount: "-5", Category: "Food", DueDate: "2025-08-01"}, "amount"},
		{"unknown category", Draft{Name: "x", Amount: "10", Category: "Travel", DueDate: "2025-08-01"}, "category"},
		{"bad date", Draft{Name: "x", Amount: "10", Category: "Food", DueDate: "08/01/2025"}, "due_date"},
		{"bad status", Draft{Name: "x", Amount: "10", Category: "Food", DueDate: "2025-08-01", Status: "overdue"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(seedBills(t)...)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = s.Add(tt.draft)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Add error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("Field = %q, want %q", ve.Field, tt.field)
			}
			if s.Len() != 2 {
				t.Fatalf("Len = %d after failed Add, want 2", s.Len())
			}

			// A later successful Add still gets max+1.
			b, err := s.Add(Draft{Name: "ok", Amount: "1", Category: "Food", DueDate: "2025-08-01"})
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if b.ID != 3 {
				t.Fatalf("ID = %d, want 3", b.ID)
			}
		})
	}
}

func TestAdd_NormalizesCategoryAndName(t *testing.T) {
	s, _ := New()
	b, err := s.Add(Draft{Name: "  Groceries ", Amount: "120.10", Category: "food", DueDate: "2025-08-03"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.Name != "Groceries" {
		t.Fatalf("Name = %q, want trimmed", b.Name)
	}
	if b.Category != model.Food {
		t.Fatalf("Category = %q, want Food", b.Category)
	}
}

func TestUpdate_PreservesIDAndPosition(t *testing.T) {
	s, err := New(seedBills(t)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := s.Update(1, Patch{Amount: strp("1900.00")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if b.ID != 1 || b.Name != "Rent" {
		t.Fatalf("updated bill = %+v, want id 1 Rent", b)
	}
	list := s.List()
	if list[0].ID != 1 || !list[0].Amount.Equal(decimal.RequireFromString("1900")) {
		t.Fatalf("List[0] = %+v, want Rent at 1900", list[0])
	}
	if list[1].ID != 2 {
		t.Fatalf("List[1].ID = %d, want 2", list[1].ID)
	}
}

func TestUpdate_UnknownIDIsNotFound(t *testing.T) {
	s, err := New(seedBills(t)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := s.List()

	_, err = s.Update(99, Patch{Name: strp("Ghost")})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Update error = %v, want *NotFoundError", err)
	}
	if nf.ID != 99 {
		t.Fatalf("NotFoundError.ID = %d, want 99", nf.ID)
	}

	after := s.List()
	if len(after) != len(before) {
		t.Fatalf("Len changed from %d to %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Name != after[i].Name || !before[i].Amount.Equal(after[i].Amount) {
			t.Fatalf("bill %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestUpdate_IsAtomic(t *testing.T) {
	s, err := New(seedBills(t)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Name is valid, category is not: nothing may be applied.
	_, err = s.Update(2, Patch{Name: strp("Power"), Category: strp("Nope")})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "category" {
		t.Fatalf("Update error = %v, want category ValidationError", err)
	}
	b, err := s.Get(2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Name != "Electric Bill" {
		t.Fatalf("Name = %q, partial update leaked", b.Name)
	}
}

func TestSettle(t *testing.T) {
	s, err := New(seedBills(t)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := s.Settle(2)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if b.Status != model.StatusPaid {
		t.Fatalf("Status = %q, want paid", b.Status)
	}
	if _, err := s.Settle(42); err == nil {
		t.Fatal("Settle(42) succeeded, want NotFoundError")
	}
}

func TestUpdateIf_RejectedConditionLeavesBill(t *testing.T) {
	s, err := New(seedBills(t)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Settle(1); err != nil {
		t.Fatalf("Settle: %v", err)
	}

	pending := func(b model.Bill) bool { return b.Status == model.StatusPending }
	b, applied, err := s.UpdateIf(1, pending, Patch{Status: strp("due_soon")})
	if err != nil {
		t.Fatalf("UpdateIf: %v", err)
	}
	if applied || b.Status != model.StatusPaid {
		t.Fatalf("UpdateIf on paid bill: applied=%v status=%q, want false/paid", applied, b.Status)
	}
	if got, _ := s.Get(1); got.Status != model.StatusPaid {
		t.Fatalf("stored status = %q, want paid", got.Status)
	}

	b, applied, err = s.UpdateIf(2, func(model.Bill) bool { return true }, Patch{Name: strp("Power")})
	if err != nil || !applied || b.Name != "Power" {
		t.Fatalf("UpdateIf accepted: b=%+v applied=%v err=%v", b, applied, err)
	}

	var nf *NotFoundError
	if _, _, err := s.UpdateIf(42, pending, Patch{}); !errors.As(err, &nf) {
		t.Fatalf("UpdateIf(42) err = %v, want NotFoundError", err)
	}
}

func TestList_IsSnapshot(t *testing.T) {
	s, err := New(seedBills(t)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	list := s.List()
	list[0].Name = "mutated"
	if _, err := s.Update(2, Patch{Name: strp("Power")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if list[1].Name != "Electric Bill" {
		t.Fatalf("snapshot saw later update: %q", list[1].Name)
	}
	if got, _ := s.Get(1); got.Name != "Rent" {
		t.Fatalf("store saw caller mutation: %q", got.Name)
	}
}

func TestNew_RejectsBadSeed(t *testing.T) {
	dup := seedBills(t)
	dup[1].ID = 1
	if _, err := New(dup...); err == nil {
		t.Fatal("New with duplicate ids succeeded")
	}

	bad := seedBills(t)
	bad[0].Category = "Travel"
	if _, err := New(bad...); err == nil {
		t.Fatal("New with unknown category succeeded")
	}

	zero := seedBills(t)
	zero[0].ID = 0
	if _, err := New(zero...); err == nil {
		t.Fatal("New with id 0 succeeded")
	}
}

func TestAdd_ConcurrentIDsUnique(t *testing.T) {
	s, _ := New()
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := s.Add(Draft{Name: "b", Amount: "1", Category: "Food", DueDate: "2025-08-01"})
			if err != nil {
				t.Errorf("Add: %v", err)
				return
			}
			ids <- b.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d ids, want %d", len(seen), n)
	}
}
