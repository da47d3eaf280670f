// Package seed provides the initial dataset: the built-in demo data or a
// user-supplied TOML file in the same shape.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// User is the single dashboard owner.
type User struct {
	Name  string
	Email string
}

// Dataset is everything the app starts with.
type Dataset struct {
	User          User
	Bills         []model.Bill
	Budget        model.Budget
	Alternatives  []model.Alternative
	Notifications []model.Notification
}

func date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the built-in demo dataset.
func Default() Dataset {
	return Dataset{
		User: User{Name: "Sarah Johnson", Email: "sarah.johnson@email.com"},
		Bills: []model.Bill{
			{ID: 1, Name: "Rent", Amount: decimal.RequireFromString("1850.00"), Category: model.Housing, DueDate: date("2025-08-01"), Status: model.StatusPending},
			{ID: 2, Name: "Electric Bill", Amount: decimal.RequireFromString("125.50"), Category: model.Utilities, DueDate: date("2025-08-15"), Status: model.StatusDueSoon},
			{ID: 3, Name: "Internet", Amount: decimal.RequireFromString("79.99"), Category: model.Utilities, DueDate: date("2025-08-10"), Status: model.StatusPaid},
		},
		Budget: model.Budget{Limit: decimal.NewFromInt(3500), AlertEnabled: true},
		Alternatives: []model.Alternative{
			{ID: 1, BillID: 2, Name: "GreenPower Electric", EstSaving: decimal.RequireFromString("25.00"), Link: "https://greenpower.com/switch"},
			{ID: 2, BillID: 3, Name: "FastNet Fiber", EstSaving: decimal.RequireFromString("15.00"), Link: "https://fastnet.com/deals"},
		},
		Notifications: []model.Notification{
			{ID: 1, Message: "Your rent payment is due in 3 days", CreatedAt: date("2025-08-05"), Type: model.NotifyBillReminder},
			{ID: 2, Message: "You're approaching your monthly budget limit", CreatedAt: date("2025-08-07"), Type: model.NotifyBudgetAlert},
			{ID: 3, Message: "New alternative found - Save $25/month on electricity", CreatedAt: date("2025-08-08"), Type: model.NotifyAlternativeSuggestion},
			{ID: 4, Message: "Internet bill payment processed successfully", CreatedAt: date("2025-08-04"), Type: model.NotifyPaymentConfirmation},
		},
	}
}

// file is the on-disk TOML layout. Amounts may be written as strings or
// numbers; dates are "YYYY-MM-DD" strings.
type file struct {
	User struct {
		Name  string `toml:"name"`
		Email string `toml:"email"`
	} `toml:"user"`
	Budget struct {
		MonthlyLimit model.Money `toml:"monthly_limit"`
		Alert        bool        `toml:"alert"`
	} `toml:"budget"`
	Bills []struct {
		ID       int         `toml:"id"`
		Name     string      `toml:"name"`
		Amount   model.Money `toml:"amount"`
		Category string      `toml:"category"`
		DueDate  string      `toml:"due_date"`
		Status   string      `toml:"status"`
	} `toml:"bills"`
	Alternatives []struct {
		ID        int         `toml:"id"`
		BillID    int         `toml:"bill_id"`
		Name      string      `toml:"name"`
		EstSaving model.Money `toml:"est_saving"`
		Link      string      `toml:"link"`
	} `toml:"alternatives"`
	Notifications []struct {
		ID        int    `toml:"id"`
		Message   string `toml:"message"`
		CreatedAt string `toml:"created_at"`
		Type      string `toml:"type"`
	} `toml:"notifications"`
}

// Load reads a dataset from a TOML file. Bill fields are checked again when
// the store is seeded; Load only rejects values it cannot parse.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied seed path
	if err != nil {
		return Dataset{}, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML dataset.
func Parse(data []byte) (Dataset, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return Dataset{}, fmt.Errorf("parsing seed file: %w", err)
	}

	ds := Dataset{User: User{Name: f.User.Name, Email: f.User.Email}}

	ds.Budget = model.Budget{Limit: f.Budget.MonthlyLimit.Decimal, AlertEnabled: f.Budget.Alert}

	for i, b := range f.Bills {
		due, err := time.Parse(model.DateLayout, b.DueDate)
		if err != nil {
			return Dataset{}, fmt.Errorf("bills[%d].due_date: %w", i, err)
		}
		ds.Bills = append(ds.Bills, model.Bill{
			ID:       b.ID,
			Name:     b.Name,
			Amount:   b.Amount.Decimal,
			Category: model.Category(b.Category),
			DueDate:  due,
			Status:   model.Status(b.Status),
		})
	}

	for _, a := range f.Alternatives {
		ds.Alternatives = append(ds.Alternatives, model.Alternative{
			ID: a.ID, BillID: a.BillID, Name: a.Name, EstSaving: a.EstSaving.Decimal, Link: a.Link,
		})
	}

	for i, n := range f.Notifications {
		created, err := time.Parse(model.DateLayout, n.CreatedAt)
		if err != nil {
			return Dataset{}, fmt.Errorf("notifications[%d].created_at: %w", i, err)
		}
		ds.Notifications = append(ds.Notifications, model.Notification{
			ID: n.ID, Message: n.Message, CreatedAt: created, Type: model.NotificationType(n.Type),
		})
	}

	return ds, nil
}
