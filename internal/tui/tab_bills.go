package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/store"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// billsState tracks the bills tab state.
type billsState struct {
	cursor int
	offset int

	// Filters: -1 means all
	catFilter  int
	dispFilter int

	// Add/edit form; editingID is 0 while adding
	form      *huh.Form
	formVals  *billFormValues
	editingID int
}

var displayFilters = []model.DisplayStatus{
	model.DisplayExpensive,
	model.DisplayDueSoon,
	model.DisplayPaid,
	model.DisplayPending,
}

type billFormValues struct {
	name     string
	amount   string
	category string
	dueDate  string
	status   string
}

func (v billFormValues) draft() store.Draft {
	return store.Draft{
		Name:     v.name,
		Amount:   v.amount,
		Category: v.category,
		DueDate:  v.dueDate,
		Status:   v.status,
	}
}

// patch includes only the fields that differ from b.
func (v billFormValues) patch(b model.Bill) store.Patch {
	var p store.Patch
	if v.name != b.Name {
		p.Name = &v.name
	}
	if amt, err := decimal.NewFromString(strings.TrimSpace(v.amount)); err != nil || !amt.Equal(b.Amount) {
		p.Amount = &v.amount
	}
	if v.category != string(b.Category) {
		p.Category = &v.category
	}
	if v.dueDate != b.DueDateString() {
		p.DueDate = &v.dueDate
	}
	if v.status != string(b.Status) {
		p.Status = &v.status
	}
	return p
}

func billFormValuesFrom(b model.Bill) billFormValues {
	return billFormValues{
		name:     b.Name,
		amount:   b.Amount.StringFixed(2),
		category: string(b.Category),
		dueDate:  b.DueDateString(),
		status:   string(b.Status),
	}
}

func newBillForm(title string, v *billFormValues) *huh.Form {
	catOpts := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		catOpts[i] = huh.NewOption(c.Icon()+" "+string(c), string(c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().
				Title("Name").
				Placeholder("Internet").
				Value(&v.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Amount").
				Placeholder("79.99").
				Value(&v.amount).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Title("Category").
				Options(catOpts...).
				Value(&v.category),
			huh.NewInput().
				Title("Due date").
				Placeholder(model.DateLayout).
				Value(&v.dueDate).
				Validate(validateDate),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Pending", string(model.StatusPending)),
					huh.NewOption("Due soon", string(model.StatusDueSoon)),
					huh.NewOption("Paid", string(model.StatusPaid)),
				).
				Value(&v.status),
		),
	).WithShowHelp(false)
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number like 79.99")
	}
	if d.IsNegative() {
		return errors.New("amount must not be negative")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(model.DateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use %s", model.DateLayout)
	}
	return nil
}

func (a App) formWidth() int {
	w := a.contentWidth() - 4
	if w > 60 {
		w = 60
	}
	return w
}

// visibleBills returns the bills passing the active filters.
func (a App) visibleBills() []model.Bill {
	var cat model.Category
	if a.billsState.catFilter >= 0 && a.billsState.catFilter < len(model.Categories) {
		cat = model.Categories[a.billsState.catFilter]
	}
	var disp model.DisplayStatus
	if a.billsState.dispFilter >= 0 && a.billsState.dispFilter < len(displayFilters) {
		disp = displayFilters[a.billsState.dispFilter]
	}
	return pipeline.FilterBills(a.bills, cat, disp)
}

func (a App) selectedBill() (model.Bill, bool) {
	bills := a.visibleBills()
	if a.billsState.cursor < 0 || a.billsState.cursor >= len(bills) {
		return model.Bill{}, false
	}
	return bills[a.billsState.cursor], true
}

// updateBillsKeys handles bills-tab keys. ok is false when the key is not
// a bills binding and should fall through to the global handler.
func (a App) updateBillsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "g":
		a.billsState.cursor = 0
	case "G":
		a.billsState.cursor = len(a.visibleBills()) - 1
		a.clampCursors()
	case "a":
		a.billsState.editingID = 0
		a.billsState.formVals = &billFormValues{
			category: string(model.Housing),
			dueDate:  a.now().Format(model.DateLayout),
			status:   string(model.StatusPending),
		}
		a.billsState.form = newBillForm("Add bill", a.billsState.formVals).WithWidth(a.formWidth())
		return a, a.billsState.form.Init(), true
	case "e", "enter":
		b, ok := a.selectedBill()
		if !ok {
			return a, nil, true
		}
		a.billsState.editingID = b.ID
		vals := billFormValuesFrom(b)
		a.billsState.formVals = &vals
		a.billsState.form = newBillForm("Edit "+b.Name, a.billsState.formVals).WithWidth(a.formWidth())
		return a, a.billsState.form.Init(), true
	case "p":
		a.settleSelected()
	case "f":
		a.billsState.catFilter = cycle(a.billsState.catFilter, len(model.Categories))
		a.billsState.cursor = 0
		a.billsState.offset = 0
	case "F":
		a.billsState.dispFilter = cycle(a.billsState.dispFilter, len(displayFilters))
		a.billsState.cursor = 0
		a.billsState.offset = 0
	case "esc":
		a.billsState.catFilter = -1
		a.billsState.dispFilter = -1
	default:
		return a, nil, false
	}
	return a, nil, true
}

// padRight pads s with spaces to visual width w.
func padRight(s string, w int) string {
	if pad := w - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// cycle steps through -1 (all), 0..n-1 and back to -1.
func cycle(i, n int) int {
	i++
	if i >= n {
		return -1
	}
	return i
}

func (a *App) settleSelected() {
	b, ok := a.selectedBill()
	if !ok {
		return
	}
	if b.Status == model.StatusPaid {
		a.setFlash(b.Name+" is already paid", false)
		return
	}
	if _, err := a.store.Settle(b.ID); err != nil {
		a.setFlash(err.Error(), true)
		return
	}
	a.inbox.Push(b.Name+" payment processed successfully", model.NotifyPaymentConfirmation, a.now())
	a.recompute()
	a.setFlash("Paid "+b.Name, false)
}

func (a App) updateBillForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.billsState.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.billsState.form = f
	}

	switch a.billsState.form.State {
	case huh.StateCompleted:
		a.billsState.form = nil
		a.commitBillForm()
		return a, nil
	case huh.StateAborted:
		a.billsState.form = nil
		return a, nil
	}
	return a, cmd
}

// commitBillForm applies the form to the store. Store validation is
// authoritative; its errors land in the status bar.
func (a *App) commitBillForm() {
	v := *a.billsState.formVals

	if a.billsState.editingID == 0 {
		b, err := a.store.Add(v.draft())
		if err != nil {
			a.setFlash(err.Error(), true)
			return
		}
		a.recompute()
		a.setFlash(fmt.Sprintf("Added %s (#%d)", b.Name, b.ID), false)
		return
	}

	current, err := a.store.Get(a.billsState.editingID)
	if err != nil {
		a.setFlash(err.Error(), true)
		return
	}
	p := v.patch(current)
	if p.IsEmpty() {
		a.setFlash("No changes", false)
		return
	}
	b, err := a.store.Update(current.ID, p)
	if err != nil {
		a.setFlash(err.Error(), true)
		return
	}
	a.recompute()
	a.setFlash("Updated "+b.Name, false)
}

func (a App) renderBillsTab(cw, h int) string {
	t := theme.Active

	if a.billsState.form != nil {
		return components.ContentCard("", a.billsState.form.View(), cw)
	}

	compact := a.isCompactLayout()
	listW := cw
	var tipsW int
	if !compact {
		ws := components.LayoutRow(cw, 3)
		tipsW = ws[2]
		listW = cw - tipsW
	}

	bills := a.visibleBills()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)

	innerW := components.CardInnerWidth(listW)
	amountW, dueW, badgeW := 11, 13, 11
	nameW := innerW - amountW - dueW - badgeW - 4
	if nameW < 10 {
		nameW = 10
	}

	var body strings.Builder
	body.WriteString(headStyle.Render(fmt.Sprintf("  %-*s %*s %-*s %-*s",
		nameW, "Bill", amountW, "Amount", dueW, "Due", badgeW, "Status")))
	body.WriteString("\n")

	// Card border, title and header row take 5 lines
	visible := h - 6
	if visible < 1 {
		visible = 1
	}
	offset := a.billsState.offset
	if a.billsState.cursor < offset {
		offset = a.billsState.cursor
	}
	if a.billsState.cursor >= offset+visible {
		offset = a.billsState.cursor - visible + 1
	}

	if len(bills) == 0 {
		body.WriteString(labelStyle.Render("  No bills match the current filter."))
	}
	for i := offset; i < len(bills) && i < offset+visible; i++ {
		b := bills[i]
		d := pipeline.DisplayStatus(b)

		style := rowStyle
		marker := "  "
		if i == a.billsState.cursor {
			style = selStyle
			marker = "▸ "
		}
		name := truncStr(b.Category.Icon()+" "+b.Name, nameW)
		line := style.Render(fmt.Sprintf("%s%s %*s %-*s ",
			marker, padRight(name, nameW),
			amountW, cli.FormatMoney(b.Amount),
			dueW, cli.FormatDate(b.DueDate)))
		badge := lipgloss.NewStyle().
			Foreground(t.Badge(d.Badge())).
			Background(style.GetBackground()).
			Bold(true).
			Render(fmt.Sprintf("%-*s", badgeW, string(d)))
		body.WriteString(line + badge)
		if i < len(bills)-1 && i < offset+visible-1 {
			body.WriteString("\n")
		}
	}

	title := fmt.Sprintf("Bills (%d)", len(bills))
	var filters []string
	if a.billsState.catFilter >= 0 {
		filters = append(filters, string(model.Categories[a.billsState.catFilter]))
	}
	if a.billsState.dispFilter >= 0 {
		filters = append(filters, string(displayFilters[a.billsState.dispFilter]))
	}
	if len(filters) > 0 {
		title += " · " + strings.Join(filters, " · ")
	}
	list := components.ContentCard(title, body.String(), listW)

	if compact {
		return list
	}
	return components.CardRow([]string{list, a.renderTipsCard(tipsW)})
}

// renderTipsCard lists cheaper alternatives next to the bills table.
func (a App) renderTipsCard(w int) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	saveStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	innerW := components.CardInnerWidth(w)
	var b strings.Builder
	if len(a.alts) == 0 {
		b.WriteString(dimStyle.Render("No suggestions right now."))
	}
	for i, alt := range a.alts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(nameStyle.Render(truncStr("💡 "+alt.Name, innerW)))
		b.WriteString("\n")
		b.WriteString(saveStyle.Render("Save " + cli.FormatMoney(alt.EstSaving) + "/mo"))
		if bill, err := a.store.Get(alt.BillID); err == nil {
			b.WriteString(dimStyle.Render(" on " + bill.Name))
		}
		if alt.Link != "" {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(truncStr(alt.Link, innerW)))
		}
	}
	if total := pipeline.TotalSavings(a.alts); total.IsPositive() {
		b.WriteString("\n\n")
		b.WriteString(saveStyle.Bold(true).Render("Potential: " + cli.FormatMoney(total) + "/mo"))
	}
	return components.ContentCard("Money Saving Tips", b.String(), w)
}
