// Package web serves the read-only dashboard API. Row shapes stay stable for
// the dashboard consumer: amounts as numbers, category strings in the
// "Main > Sub" form, ISO-8601 dates.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"hornerito/internal/logging"
	"hornerito/internal/models"
	"hornerito/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the dashboard endpoints.
type Server struct {
	store  *store.Store
	logger logging.Logger
	http   *http.Server
}

// NewServer builds the server listening on addr.
func NewServer(addr string, st *store.Store, logger logging.Logger) *Server {
	s := &Server{store: st, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Get("/api/expenses", s.listExpenses)
	r.Get("/api/recent-expenses", s.recentExpenses)
	r.Get("/api/recurring-expenses", s.recurringExpenses)
	r.Get("/api/status", s.status)
	s.http = &http.Server{Addr: addr, Handler: r}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until Shutdown. Blocks.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.http.Addr).Info("Dashboard API listening")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// expenseRow is the JSON shape both list endpoints produce.
type expenseRow struct {
	ID              int64   `json:"id"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	DisplayCategory string  `json:"displayCategory"`
	Description     string  `json:"description"`
	Date            string  `json:"date"`
	IsRecurring     bool    `json:"is_recurring"`
	Frequency       *string `json:"frequency"`
}

func toRow(e models.Expense) expenseRow {
	amount, _ := e.Amount.Float64()
	desc := e.Description
	if desc == "" {
		desc = "Unnamed expense"
	}
	display := e.Subcategory
	if display == "" {
		display = e.Category
	}
	return expenseRow{
		ID:              e.ID,
		Amount:          amount,
		Category:        e.DisplayCategory(),
		DisplayCategory: display,
		Description:     desc,
		Date:            e.Timestamp.UTC().Format(time.RFC3339),
		IsRecurring:     false,
	}
}

func toRecurringRow(r models.RecurringExpense) expenseRow {
	amount, _ := r.Amount.Float64()
	freq := string(r.Frequency)
	display := r.Subcategory
	if display == "" {
		display = r.Category
	}
	return expenseRow{
		ID:              r.ID,
		Amount:          amount,
		Category:        r.DisplayCategory(),
		DisplayCategory: display,
		Description:     r.Description,
		Date:            r.LastTracked.UTC().Format(time.RFC3339),
		IsRecurring:     true,
		Frequency:       &freq,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
}

// listExpenses returns every regular and active recurring row, newest first.
func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListAllExpenses()
	if err != nil {
		s.logger.WithError(err).Error("Failed to list expenses")
		s.writeError(w, "Failed to fetch expenses")
		return
	}
	recurring, err := s.store.ListAllActiveRecurring()
	if err != nil {
		s.logger.WithError(err).Error("Failed to list recurring expenses")
		s.writeError(w, "Failed to fetch expenses")
		return
	}

	rows := make([]expenseRow, 0, len(expenses)+len(recurring))
	for _, e := range expenses {
		rows = append(rows, toRow(e))
	}
	for _, rec := range recurring {
		rows = append(rows, toRecurringRow(rec))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	s.writeJSON(w, http.StatusOK, rows)
}

// recentExpenses returns the five newest rows across both tables.
func (s *Server) recentExpenses(w http.ResponseWriter, r *http.Request) {
	const limit = 5
	expenses, err := s.store.ListRecentExpenses(limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list recent expenses")
		s.writeError(w, "Failed to fetch recent expenses")
		return
	}
	recurring, err := s.store.ListAllActiveRecurring()
	if err != nil {
		s.logger.WithError(err).Error("Failed to list recurring expenses")
		s.writeError(w, "Failed to fetch recent expenses")
		return
	}

	rows := make([]expenseRow, 0, len(expenses)+len(recurring))
	for _, e := range expenses {
		rows = append(rows, toRow(e))
	}
	for _, rec := range recurring {
		rows = append(rows, toRecurringRow(rec))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	s.writeJSON(w, http.StatusOK, rows)
}

// recurringExpenses returns the raw active recurring rows.
func (s *Server) recurringExpenses(w http.ResponseWriter, r *http.Request) {
	recurring, err := s.store.ListAllActiveRecurring()
	if err != nil {
		s.logger.WithError(err).Error("Failed to list recurring expenses")
		s.writeError(w, "Error fetching recurring expenses")
		return
	}
	if recurring == nil {
		recurring = []models.RecurringExpense{}
	}
	s.writeJSON(w, http.StatusOK, recurring)
}

// status reports row counts for a cheap health check.
func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountRows()
	if err != nil {
		s.logger.WithError(err).Error("Failed to count rows")
		s.writeError(w, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"expenses":  counts.Expenses,
		"recurring": counts.Recurring,
	})
}
