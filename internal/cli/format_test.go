package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"79.99", "$79.99"},
		{"1850", "$1,850.00"},
		{"2055.49", "$2,055.49"},
		{"1234567.891", "$1,234,567.89"},
		{"-55.49", "-$55.49"},
	}
	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMoneyShort(t *testing.T) {
	if got := FormatMoneyShort(decimal.NewFromInt(3500)); got != "$3,500" {
		t.Fatalf("FormatMoneyShort(3500) = %q", got)
	}
	if got := FormatMoneyShort(decimal.RequireFromString("125.5")); got != "$125.50" {
		t.Fatalf("FormatMoneyShort(125.5) = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4200: "-4,200"}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDateAndLabel(t *testing.T) {
	d := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "Aug 1, 2025" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(time.Time{}); got != "-" {
		t.Fatalf("FormatDate(zero) = %q", got)
	}
	if got := FormatLabel("alternative_suggestion"); got != "Alternative Suggestion" {
		t.Fatalf("FormatLabel = %q", got)
	}
}
