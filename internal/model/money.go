package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount for config and seed files. It decodes from a
// TOML string ("1850.00") or number (1850.00) and encodes as a string so the
// exact digits survive a round trip.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money { return Money{Decimal: d} }

// UnmarshalTOML implements toml.Unmarshaler.
func (m *Money) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return fmt.Errorf("invalid amount %q", x)
		}
		m.Decimal = d
	case int64:
		m.Decimal = decimal.NewFromInt(x)
	case float64:
		m.Decimal = decimal.NewFromFloat(x)
	default:
		return fmt.Errorf("invalid amount %v: want a number or string", v)
	}
	return nil
}
