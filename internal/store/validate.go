package store

import (
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

const maxNameLen = 120

func parseName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len([]rune(name)) > maxNameLen {
		return "", &ValidationError{Field: "name", Reason: "too long (max 120 characters)"}
	}
	return name, nil
}

// parseAmount accepts a plain decimal string. NaN, infinities and negative
// values are rejected rather than coerced.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must not be empty"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return d, nil
}

func parseCategory(raw string) (model.Category, error) {
	c, ok := model.ParseCategory(raw)
	if !ok {
		return "", &ValidationError{Field: "category", Reason: "unknown category " + quote(raw)}
	}
	return c, nil
}

func parseDueDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, &ValidationError{Field: "due_date", Reason: "must not be empty"}
	}
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "due_date", Reason: "expected YYYY-MM-DD"}
	}
	return d, nil
}

func parseStatus(raw string) (model.Status, error) {
	st, ok := model.ParseStatus(raw)
	if !ok {
		return "", &ValidationError{Field: "status", Reason: "unknown status " + quote(raw)}
	}
	return st, nil
}

// checkBill validates an already-typed bill, as supplied through seeding.
func checkBill(b model.Bill) error {
	if b.ID <= 0 {
		return &ValidationError{Field: "id", Reason: "must be positive"}
	}
	if _, err := parseName(b.Name); err != nil {
		return err
	}
	if b.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if _, ok := model.ParseCategory(string(b.Category)); !ok {
		return &ValidationError{Field: "category", Reason: "unknown category " + quote(string(b.Category))}
	}
	if b.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Reason: "must not be empty"}
	}
	if _, ok := model.ParseStatus(string(b.Status)); !ok {
		return &ValidationError{Field: "status", Reason: "unknown status " + quote(string(b.Status))}
	}
	return nil
}

func quote(s string) string {
	return `"` + s + `"`
}
