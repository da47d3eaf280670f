package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/store"
)

func (s *Service) routeAPI(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/bills", s.handleListBills)
	mux.HandleFunc("POST /v1/bills", s.handleAddBill)
	mux.HandleFunc("GET /v1/bills/{id}", s.handleGetBill)
	mux.HandleFunc("PATCH /v1/bills/{id}", s.handleUpdateBill)
	mux.HandleFunc("POST /v1/bills/{id}/settle", s.handleSettleBill)
	mux.HandleFunc("GET /v1/budget", s.handleBudget)
	mux.HandleFunc("GET /v1/alternatives", s.handleAlternatives)
	mux.HandleFunc("GET /v1/notifications", s.handleNotifications)
	mux.HandleFunc("POST /v1/notifications/{id}/read", s.handleMarkRead)
	mux.HandleFunc("POST /v1/notifications/read", s.handleMarkAllRead)
}

type billJSON struct {
	ID            int                 `json:"id"`
	Name          string              `json:"name"`
	Amount        decimal.Decimal     `json:"amount"`
	Category      model.Category      `json:"category"`
	DueDate       string              `json:"due_date"`
	Status        model.Status        `json:"status"`
	DisplayStatus model.DisplayStatus `json:"display_status"`
	Badge         model.Badge         `json:"badge"`
}

func toBillJSON(b model.Bill) billJSON {
	d := pipeline.DisplayStatus(b)
	return billJSON{
		ID:            b.ID,
		Name:          b.Name,
		Amount:        b.Amount,
		Category:      b.Category,
		DueDate:       b.DueDateString(),
		Status:        b.Status,
		DisplayStatus: d,
		Badge:         d.Badge(),
	}
}

// looseString decodes either a JSON string or a bare number, so amounts may be
// sent as 79.99 or "79.99" and still reach the store's validation.
type looseString string

func (l *looseString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = looseString(s)
		return nil
	}
	*l = looseString(b)
	return nil
}

type addBillRequest struct {
	Name     string      `json:"name"`
	Amount   looseString `json:"amount"`
	Category string      `json:"category"`
	DueDate  string      `json:"due_date"`
	Status   string      `json:"status"`
}

type updateBillRequest struct {
	Name     *string      `json:"name"`
	Amount   *looseString `json:"amount"`
	Category *string      `json:"category"`
	DueDate  *string      `json:"due_date"`
	Status   *string      `json:"status"`
}

func (r updateBillRequest) patch() store.Patch {
	p := store.Patch{Name: r.Name, Category: r.Category, DueDate: r.DueDate, Status: r.Status}
	if r.Amount != nil {
		amt := string(*r.Amount)
		p.Amount = &amt
	}
	return p
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Service) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills := s.store.List()

	var (
		cat  model.Category
		disp model.DisplayStatus
		ok   bool
	)
	if v := r.URL.Query().Get("category"); v != "" {
		if cat, ok = model.ParseCategory(v); !ok {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown category", Field: "category"})
			return
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		if disp, ok = model.ParseDisplayStatus(v); !ok {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown display status", Field: "status"})
			return
		}
	}

	filtered := pipeline.FilterBills(bills, cat, disp)
	out := make([]billJSON, len(filtered))
	for i, b := range filtered {
		out[i] = toBillJSON(b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := s.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillJSON(b))
}

func (s *Service) handleAddBill(w http.ResponseWriter, r *http.Request) {
	var req addBillRequest
	if !decodeBody(w, r, &req) {
		return
	}
	b, err := s.store.Add(store.Draft{
		Name:     req.Name,
		Amount:   string(req.Amount),
		Category: req.Category,
		DueDate:  req.DueDate,
		Status:   req.Status,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("bill added", "bill", b.ID, "name", b.Name)
	s.refresh()
	writeJSON(w, http.StatusCreated, toBillJSON(b))
}

func (s *Service) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateBillRequest
	if !decodeBody(w, r, &req) {
		return
	}
	b, err := s.store.Update(id, req.patch())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("bill updated", "bill", b.ID)
	s.refresh()
	writeJSON(w, http.StatusOK, toBillJSON(b))
}

func (s *Service) handleSettleBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := s.store.Settle(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("bill settled", "bill", b.ID)
	s.inbox.Push(b.Name+" payment processed successfully", model.NotifyPaymentConfirmation, s.now())
	s.refresh()
	writeJSON(w, http.StatusOK, toBillJSON(b))
}

type budgetJSON struct {
	Limit          decimal.Decimal                    `json:"limit"`
	TotalSpent     decimal.Decimal                    `json:"total_spent"`
	Remaining      decimal.Decimal                    `json:"remaining"`
	Available      decimal.Decimal                    `json:"available"`
	Utilization    float64                            `json:"utilization"`
	Health         model.HealthTier                   `json:"health"`
	HealthLabel    string                             `json:"health_label"`
	ByCategory     map[model.Category]decimal.Decimal `json:"by_category"`
	SavingsRatePct int                                `json:"savings_rate_pct"`
	DaysLeft       int                                `json:"days_left_this_month"`
	AlertEnabled   bool                               `json:"alert_enabled"`
}

func (s *Service) handleBudget(w http.ResponseWriter, _ *http.Request) {
	snap, err := pipeline.Snapshot(s.store.List(), s.cfg.Budget.Limit)
	if errors.Is(err, pipeline.ErrDivisionUndefined) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Field: "limit"})
		return
	}
	ins := pipeline.Insights(snap, s.now())
	writeJSON(w, http.StatusOK, budgetJSON{
		Limit:          snap.Limit,
		TotalSpent:     snap.TotalSpent,
		Remaining:      snap.Remaining,
		Available:      snap.Available(),
		Utilization:    snap.UtilizationFloat(),
		Health:         snap.Health,
		HealthLabel:    snap.Health.Label(),
		ByCategory:     snap.ByCategory,
		SavingsRatePct: ins.SavingsRatePct,
		DaysLeft:       ins.DaysLeftThisMonth,
		AlertEnabled:   s.cfg.Budget.AlertEnabled,
	})
}

type alternativesJSON struct {
	Total decimal.Decimal    `json:"total_savings"`
	Items []alternativeJSON `json:"items"`
}

type alternativeJSON struct {
	ID        int             `json:"id"`
	BillID    int             `json:"bill_id"`
	Name      string          `json:"name"`
	EstSaving decimal.Decimal `json:"est_saving"`
	Link      string          `json:"link"`
}

func (s *Service) handleAlternatives(w http.ResponseWriter, _ *http.Request) {
	out := alternativesJSON{Total: pipeline.TotalSavings(s.alts), Items: make([]alternativeJSON, len(s.alts))}
	for i, a := range s.alts {
		out.Items[i] = alternativeJSON{ID: a.ID, BillID: a.BillID, Name: a.Name, EstSaving: a.EstSaving, Link: a.Link}
	}
	writeJSON(w, http.StatusOK, out)
}

type notificationJSON struct {
	ID      int                    `json:"id"`
	Type    model.NotificationType `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Created string                 `json:"created_at"`
	Ago     string                 `json:"ago"`
	Read    bool                   `json:"read"`
}

func (s *Service) handleNotifications(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	items := s.inbox.List(model.NotificationType(r.URL.Query().Get("type")))
	out := make([]notificationJSON, len(items))
	for i, n := range items {
		out[i] = notificationJSON{
			ID:      n.ID,
			Type:    n.Type,
			Title:   notify.KindFor(n.Type).Title,
			Message: n.Message,
			Created: n.CreatedAt.Format(model.DateLayout),
			Ago:     notify.TimeAgo(n.CreatedAt, now),
			Read:    s.inbox.IsRead(n.ID),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.inbox.MarkRead(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleMarkAllRead(w http.ResponseWriter, _ *http.Request) {
	s.inbox.MarkAllRead()
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "id must be a positive integer", Field: "id"})
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body: " + err.Error()})
		return false
	}
	return true
}

func writeStoreError(w http.ResponseWriter, err error) {
	var (
		ve *store.ValidationError
		nf *store.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, errorBody{Error: nf.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
