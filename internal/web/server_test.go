package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"hornerito/internal/logging"
	"hornerito/internal/models"
	"hornerito/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewServer("127.0.0.1:0", st, logging.Discard), st
}

func seedExpenses(t *testing.T, st *store.Store) {
	t.Helper()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i, amount := range []string{"30", "12.50", "7", "5", "99", "3", "8"} {
		_, err := st.InsertExpense(models.Expense{
			UserID:      "u1",
			Amount:      decimal.RequireFromString(amount),
			Category:    "Food & Drinks",
			Subcategory: "Meals",
			Description: "Meal",
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := st.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.RequireFromString("9.99"),
		Category: "Entertainment", Subcategory: "Movies", Description: "Netflix",
		Frequency: models.FrequencyMonthly,
		StartDate: base, LastTracked: base.Add(24 * time.Hour),
	})
	require.NoError(t, err)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListExpensesMergesRecurring(t *testing.T) {
	s, st := newTestServer(t)
	seedExpenses(t, st)

	rec := get(t, s, "/api/expenses")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 8)

	// Newest first; the recurring row's last-tracked instant is the newest.
	first := rows[0]
	assert.Equal(t, true, first["is_recurring"])
	assert.Equal(t, "monthly", first["frequency"])
	assert.Equal(t, "Entertainment > Movies", first["category"])
	assert.Equal(t, 9.99, first["amount"])

	for i := 1; i < len(rows); i++ {
		assert.Equal(t, false, rows[i]["is_recurring"])
		assert.Nil(t, rows[i]["frequency"])
	}
}

func TestRecentExpensesCapsAtFive(t *testing.T) {
	s, st := newTestServer(t)
	seedExpenses(t, st)

	rec := get(t, s, "/api/recent-expenses")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 5)

	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1]["date"].(string), rows[i]["date"].(string))
	}
}

func TestRecurringExpensesEndpoint(t *testing.T) {
	s, st := newTestServer(t)

	rec := get(t, s, "/api/recurring-expenses")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	seedExpenses(t, st)

	rec = get(t, s, "/api/recurring-expenses")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.RecurringExpense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, models.FrequencyMonthly, rows[0].Frequency)
	assert.True(t, rows[0].Active)
}

func TestStatusEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	seedExpenses(t, st)

	rec := get(t, s, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(7), body["expenses"])
	assert.Equal(t, float64(1), body["recurring"])
}

func TestCORSHeaders(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/status")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/expenses", nil)
	opt := httptest.NewRecorder()
	s.Handler().ServeHTTP(opt, req)
	assert.Equal(t, http.StatusOK, opt.Code)
}

func TestEmptyExpenseDescriptionIsNamed(t *testing.T) {
	s, st := newTestServer(t)
	_, err := st.InsertExpense(models.Expense{
		UserID: "u1", Amount: decimal.NewFromInt(5),
		Category: "Miscellaneous", Timestamp: time.Now(),
	})
	require.NoError(t, err)

	rec := get(t, s, "/api/expenses")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Unnamed expense", rows[0]["description"])
	assert.Equal(t, "Miscellaneous", rows[0]["displayCategory"])
}
