package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/fintrack/internal/model"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderTable(Table{
		Headers:  []string{"Bill", "Category", "Amount"},
		TextCols: 2,
		Rows: [][]string{
			{"Rent", "Housing", "$1,850.00"},
			{"---"},
			{"Internet", "Utilities", "$79.99"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Fatalf("line %d width %d, want %d:\n%s", i, lipgloss.Width(l), w, out)
		}
	}
	if !strings.Contains(lines[5], "│ Internet │ Utilities │    $79.99 │") {
		t.Fatalf("row not aligned: %q", lines[5])
	}
}

func TestRenderBudgetBar(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderBudgetBar(0.5, model.HealthOnTrack, 10)
	if !strings.Contains(out, "█████░░░░░") || !strings.Contains(out, "50.0%") {
		t.Fatalf("bar = %q", out)
	}
	over := RenderBudgetBar(1.2, model.HealthOver, 4)
	if !strings.Contains(over, "████") || !strings.Contains(over, "120.0%") {
		t.Fatalf("over bar = %q", over)
	}
}
