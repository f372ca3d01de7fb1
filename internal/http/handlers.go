package http

import (
	"errors"
	"net/http"
	"time"

	"spendlog/internal/cache"
	"spendlog/internal/charts"
	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/middleware/trace"
)

// expensesResponse is returned by list and by every mutation: the full,
// freshly loaded record set (filtered for list).
type expensesResponse struct {
	Filter   core.FilterMode `json:"filter,omitempty"`
	Count    int             `json:"count"`
	Total    float64         `json:"total"`
	Expenses []core.Expense  `json:"expenses"`
}

func newExpensesResponse(mode core.FilterMode, records []core.Expense) expensesResponse {
	if records == nil {
		records = []core.Expense{}
	}
	return expensesResponse{
		Filter:   mode,
		Count:    len(records),
		Total:    core.Total(records),
		Expenses: records,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reloads from storage, so it fails when the store is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.Refresh(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewResponse().JSON(map[string]any{
		"status":   "ready",
		"expenses": len(records),
	}).Write(w)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	mode := core.ParseFilterMode(r.URL.Query().Get("filter"))
	filtered := core.Filter(s.ledger.Snapshot(), mode, s.now())
	NewResponse().JSON(newExpensesResponse(mode, filtered)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := parseExpenseInput(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	records, err := s.ledger.Create(r.Context(), in.Amount, in.Category, in.Note)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(newExpensesResponse("", records)).Write(w)
}

// handleUpdateExpense replaces every mutable field. When the body carries no
// date the stored one is kept. An id absent after the update is a 404.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := parseExpenseInput(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if !in.HasDate {
		current, ok := s.find(id)
		if !ok {
			s.fail(w, r, core.ErrNotFound)
			return
		}
		in.Date = current.Date
	}

	records, err := s.ledger.Update(r.Context(), id, in.Amount, in.Category, in.Note, in.Date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !containsID(records, id) {
		s.fail(w, r, core.ErrNotFound)
		return
	}
	NewResponse().JSON(newExpensesResponse("", records)).Write(w)
}

// handleDeleteExpense is idempotent: removing a missing id still answers 204.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ledger.Remove(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	mode := core.ParseFilterMode(r.URL.Query().Get("filter"))
	summary := s.ledger.Summary(mode, s.now())
	if summary.Expenses == nil {
		summary.Expenses = []core.Expense{}
	}
	if summary.ByCategory == nil {
		summary.ByCategory = core.CategoryTotals{}
	}
	NewResponse().JSON(summary).Write(w)
}

// handleChart serves the category bar chart as PNG. Nothing to draw is a 204.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	mode := core.ParseFilterMode(r.URL.Query().Get("filter"))
	now := s.now()
	records, generation := s.ledger.Current()
	key := cache.ChartKey(generation, string(mode), core.DateOf(now).String())

	if s.chartCache != nil {
		if png, ok := s.chartCache.Get(key); ok {
			s.logger.DebugContext(r.Context(), "Chart cache hit", log.FieldFilter, mode)
			writePNG(w, png)
			return
		}
	}

	summary := core.Summarize(records, mode, now)
	opts := charts.DefaultOptions()
	opts.Title = "Expenses by category (" + string(mode) + ")"
	png, err := charts.RenderCategoryBars(summary.Chart, opts)
	if errors.Is(err, charts.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if s.chartCache != nil {
		s.chartCache.Set(key, png)
	}
	writePNG(w, png)
}

func writePNG(w http.ResponseWriter, png []byte) {
	NewResponse().Body("image/png", png).Write(w)
}

func (s *Server) find(id int64) (core.Expense, bool) {
	for _, e := range s.ledger.Snapshot() {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

func containsID(records []core.Expense, id int64) bool {
	for _, e := range records {
		if e.ID == id {
			return true
		}
	}
	return false
}

// fail logs err and writes the matching JSON error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := StatusForError(err)
	message := err.Error()

	if errors.Is(err, errMalformedBody) || errors.Is(err, errInvalidID) {
		status = http.StatusBadRequest
	}

	logger := log.FromContext(ctx)
	if status >= 500 {
		logger.ErrorContext(ctx, "Request failed", log.FieldError, err, log.FieldPath, r.URL.Path)
		if status == http.StatusInternalServerError {
			message = "internal error"
		} else {
			message = "storage unavailable"
		}
	} else {
		logger.DebugContext(ctx, "Request rejected", log.FieldError, err, log.FieldStatusCode, status)
	}
	ErrorResponse(status, message, trace.GetRequestID(ctx)).Write(w)
}
