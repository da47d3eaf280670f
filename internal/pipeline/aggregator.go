// Package pipeline derives display statuses, category subtotals and budget
// snapshots from a bill snapshot. Every function here is pure.
package pipeline

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// ErrDivisionUndefined is returned when a snapshot is requested against a
// zero limit.
var ErrDivisionUndefined = errors.New("budget limit is zero: utilization undefined")

var (
	expensiveThreshold = decimal.NewFromInt(500)
	approachingRatio   = decimal.RequireFromString("0.75")
	overRatio          = decimal.RequireFromString("0.9")
	hundred            = decimal.NewFromInt(100)
)

// DisplayStatus classifies a bill for its badge. The first matching rule wins.
// The due date is not consulted.
func DisplayStatus(b model.Bill) model.DisplayStatus {
	switch {
	case b.Amount.GreaterThan(expensiveThreshold):
		return model.DisplayExpensive
	case b.Status == model.StatusDueSoon:
		return model.DisplayDueSoon
	case b.Status == model.StatusPaid:
		return model.DisplayPaid
	default:
		return model.DisplayPending
	}
}

// Views pairs each bill with its display status, preserving order.
func Views(bills []model.Bill) []model.BillView {
	out := make([]model.BillView, len(bills))
	for i, b := range bills {
		out[i] = model.BillView{Bill: b, Display: DisplayStatus(b)}
	}
	return out
}

// CategoryTotals sums amounts per category. Categories with no bills are
// absent from the result.
func CategoryTotals(bills []model.Bill) map[model.Category]decimal.Decimal {
	totals := make(map[model.Category]decimal.Decimal)
	for _, b := range bills {
		totals[b.Category] = totals[b.Category].Add(b.Amount)
	}
	return totals
}

// CategoryTotal is one row of a complete breakdown.
type CategoryTotal struct {
	Category model.Category
	Amount   decimal.Decimal
}

// CompleteCategoryTotals returns one row per category in display order, with
// zero for categories that have no bills.
func CompleteCategoryTotals(bills []model.Bill) []CategoryTotal {
	totals := CategoryTotals(bills)
	out := make([]CategoryTotal, len(model.Categories))
	for i, c := range model.Categories {
		out[i] = CategoryTotal{Category: c, Amount: totals[c]}
	}
	return out
}

// TotalSpent sums every bill amount regardless of status.
func TotalSpent(bills []model.Bill) decimal.Decimal {
	var spent decimal.Decimal
	for _, b := range bills {
		spent = spent.Add(b.Amount)
	}
	return spent
}

// Snapshot computes spending against limit. A zero limit yields
// ErrDivisionUndefined.
func Snapshot(bills []model.Bill, limit decimal.Decimal) (model.BudgetSnapshot, error) {
	if limit.IsZero() {
		return model.BudgetSnapshot{}, ErrDivisionUndefined
	}

	spent := TotalSpent(bills)
	util := spent.Div(limit)
	snap := model.BudgetSnapshot{
		Limit:       limit,
		TotalSpent:  spent,
		ByCategory:  CategoryTotals(bills),
		Remaining:   limit.Sub(spent),
		Utilization: util,
		Health:      healthFor(util),
	}
	return snap, nil
}

func healthFor(util decimal.Decimal) model.HealthTier {
	switch {
	case util.GreaterThan(overRatio):
		return model.HealthOver
	case util.GreaterThan(approachingRatio):
		return model.HealthApproaching
	default:
		return model.HealthOnTrack
	}
}

// TotalSavings sums estimated monthly savings across alternatives.
func TotalSavings(alts []model.Alternative) decimal.Decimal {
	var total decimal.Decimal
	for _, a := range alts {
		total = total.Add(a.EstSaving)
	}
	return total
}

// CountByStatus counts bills with the given stored status.
func CountByStatus(bills []model.Bill, st model.Status) int {
	n := 0
	for _, b := range bills {
		if b.Status == st {
			n++
		}
	}
	return n
}

// DueWithin returns pending bills due between today and today+days inclusive.
// Overdue pending bills are included as well. Comparison is by calendar day.
func DueWithin(bills []model.Bill, today time.Time, days int) []model.Bill {
	start := truncateDay(today)
	end := start.AddDate(0, 0, days)

	var out []model.Bill
	for _, b := range bills {
		if b.Status != model.StatusPending || b.DueDate.IsZero() {
			continue
		}
		if !truncateDay(b.DueDate).After(end) {
			out = append(out, b)
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Insights derives the secondary figures shown below the budget breakdown.
func Insights(snap model.BudgetSnapshot, now time.Time) model.Insights {
	var ins model.Insights
	if !snap.Limit.IsZero() {
		rate := snap.Remaining.Div(snap.Limit).Mul(hundred).Round(0).IntPart()
		if rate > 0 {
			ins.SavingsRatePct = int(rate)
		}
	}

	y, m, d := now.Date()
	lastDay := time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location()).Day()
	ins.DaysLeftThisMonth = lastDay - d
	return ins
}

// FilterBills keeps bills matching category and display status. An empty
// filter value matches everything.
func FilterBills(bills []model.Bill, category model.Category, display model.DisplayStatus) []model.Bill {
	if category == "" && display == "" {
		return bills
	}
	var out []model.Bill
	for _, b := range bills {
		if category != "" && b.Category != category {
			continue
		}
		if display != "" && DisplayStatus(b) != display {
			continue
		}
		out = append(out, b)
	}
	return out
}
