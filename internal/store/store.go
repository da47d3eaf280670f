// Package store holds the authoritative in-memory bill collection.
package store

import (
	"sync"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Draft is an unsaved bill as entered by the user. Amount and DueDate are
// raw strings so that parse failures surface as ValidationErrors.
type Draft struct {
	Name     string
	Amount   string
	Category string
	DueDate  string
	Status   string // optional, defaults to pending
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Name     *string
	Amount   *string
	Category *string
	DueDate  *string
	Status   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Amount == nil && p.Category == nil &&
		p.DueDate == nil && p.Status == nil
}

// Store is an ordered, mutex-guarded bill collection.
type Store struct {
	mu    sync.Mutex
	bills []model.Bill
	index map[int]int // id -> position in bills
	maxID int
}

// New returns a store seeded with the given bills, in order. Seed bills keep
// their ids; invalid or duplicate ids are rejected.
func New(seed ...model.Bill) (*Store, error) {
	s := &Store{
		bills: make([]model.Bill, 0, len(seed)),
		index: make(map[int]int, len(seed)),
	}
	for _, b := range seed {
		if err := checkBill(b); err != nil {
			return nil, err
		}
		if _, dup := s.index[b.ID]; dup {
			return nil, &ValidationError{Field: "id", Reason: "duplicate id in seed data"}
		}
		b.Category, _ = model.ParseCategory(string(b.Category))
		b.Status, _ = model.ParseStatus(string(b.Status))
		s.index[b.ID] = len(s.bills)
		s.bills = append(s.bills, b)
		if b.ID > s.maxID {
			s.maxID = b.ID
		}
	}
	return s, nil
}

// Add validates d and appends it with the next id.
func (s *Store) Add(d Draft) (model.Bill, error) {
	b, err := buildBill(d)
	if err != nil {
		return model.Bill{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxID++
	b.ID = s.maxID
	s.index[b.ID] = len(s.bills)
	s.bills = append(s.bills, b)
	return b, nil
}

func buildBill(d Draft) (model.Bill, error) {
	var (
		b   model.Bill
		err error
	)
	if b.Name, err = parseName(d.Name); err != nil {
		return b, err
	}
	if b.Amount, err = parseAmount(d.Amount); err != nil {
		return b, err
	}
	if b.Category, err = parseCategory(d.Category); err != nil {
		return b, err
	}
	if b.DueDate, err = parseDueDate(d.DueDate); err != nil {
		return b, err
	}
	b.Status = model.StatusPending
	if d.Status != "" {
		if b.Status, err = parseStatus(d.Status); err != nil {
			return b, err
		}
	}
	return b, nil
}

// Update applies p to the bill with the given id. Either every field in p is
// applied or none is.
func (s *Store) Update(id int, p Patch) (model.Bill, error) {
	b, _, err := s.UpdateIf(id, nil, p)
	return b, err
}

// UpdateIf applies p only when cond accepts the bill as currently stored.
// The check and the write happen under one lock, so a concurrent Update
// cannot slip in between. A nil cond always accepts. When cond rejects,
// the stored bill is returned unchanged with applied set to false.
func (s *Store) UpdateIf(id int, cond func(model.Bill) bool, p Patch) (b model.Bill, applied bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return model.Bill{}, false, &NotFoundError{ID: id}
	}
	if cond != nil && !cond(s.bills[pos]) {
		return s.bills[pos], false, nil
	}

	// Work on a copy so a late validation failure leaves the stored bill intact.
	b = s.bills[pos]
	if p.Name != nil {
		if b.Name, err = parseName(*p.Name); err != nil {
			return model.Bill{}, false, err
		}
	}
	if p.Amount != nil {
		if b.Amount, err = parseAmount(*p.Amount); err != nil {
			return model.Bill{}, false, err
		}
	}
	if p.Category != nil {
		if b.Category, err = parseCategory(*p.Category); err != nil {
			return model.Bill{}, false, err
		}
	}
	if p.DueDate != nil {
		if b.DueDate, err = parseDueDate(*p.DueDate); err != nil {
			return model.Bill{}, false, err
		}
	}
	if p.Status != nil {
		if b.Status, err = parseStatus(*p.Status); err != nil {
			return model.Bill{}, false, err
		}
	}

	s.bills[pos] = b
	return b, true, nil
}

// Settle marks a bill as paid.
func (s *Store) Settle(id int) (model.Bill, error) {
	paid := string(model.StatusPaid)
	return s.Update(id, Patch{Status: &paid})
}

// Get returns a single bill by id.
func (s *Store) Get(id int) (model.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return model.Bill{}, &NotFoundError{ID: id}
	}
	return s.bills[pos], nil
}

// List returns the bills in insertion order. The slice is a copy; later
// mutations do not show through it.
func (s *Store) List() []model.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Bill, len(s.bills))
	copy(out, s.bills)
	return out
}

// Len returns the number of stored bills.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bills)
}
