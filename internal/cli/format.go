// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// FormatMoney formats an amount as dollars with grouping and two decimals.
// e.g., 1850 -> "$1,850.00", -55.49 -> "-$55.49"
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg())
	}
	return "$" + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatMoneyShort drops the cents for whole-dollar amounts.
// e.g., 3500 -> "$3,500", 79.99 -> "$79.99"
func FormatMoneyShort(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		if d.IsNegative() {
			return "-$" + FormatNumber(-d.IntPart())
		}
		return "$" + FormatNumber(d.IntPart())
	}
	return FormatMoney(d)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDate renders a due date like "Aug 1, 2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// FormatLabel turns a snake_case slug into a title.
// e.g., "due_soon" -> "Due Soon"
func FormatLabel(slug string) string {
	return titler.String(strings.ReplaceAll(slug, "_", " "))
}
