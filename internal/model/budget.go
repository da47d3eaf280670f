package model

import "github.com/shopspring/decimal"

// Budget holds the monthly spending limit.
type Budget struct {
	Limit        decimal.Decimal
	AlertEnabled bool
}

// HealthTier classifies utilization of the monthly limit.
type HealthTier string

// Health tiers.
const (
	HealthOnTrack     HealthTier = "on_track"
	HealthApproaching HealthTier = "approaching"
	HealthOver        HealthTier = "over"
)

// Label returns the human-readable tier name.
func (h HealthTier) Label() string {
	switch h {
	case HealthOver:
		return "Over Budget!"
	case HealthApproaching:
		return "Approaching Limit"
	default:
		return "On Track"
	}
}

// BudgetSnapshot is a point-in-time summary of spending against a limit.
// Remaining is not clamped; callers clamp for display.
type BudgetSnapshot struct {
	Limit       decimal.Decimal
	TotalSpent  decimal.Decimal
	ByCategory  map[Category]decimal.Decimal
	Remaining   decimal.Decimal
	Utilization decimal.Decimal
	Health      HealthTier
}

// Available returns Remaining clamped at zero.
func (s BudgetSnapshot) Available() decimal.Decimal {
	if s.Remaining.IsNegative() {
		return decimal.Zero
	}
	return s.Remaining
}

// UtilizationFloat returns Utilization as a float for bars and gauges.
func (s BudgetSnapshot) UtilizationFloat() float64 {
	return s.Utilization.InexactFloat64()
}

// Insights holds the secondary budget figures shown under the breakdown.
type Insights struct {
	SavingsRatePct    int // max(0, round(remaining/limit*100))
	DaysLeftThisMonth int
}

// Alternative is a cheaper offer for an existing bill.
type Alternative struct {
	ID        int
	BillID    int
	Name      string
	EstSaving decimal.Decimal
	Link      string
}
