package store

import (
	"path/filepath"
	"testing"
	"time"

	"hornerito/internal/boterr"
	"hornerito/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestExpense(t *testing.T, s *Store, userID, amount, category, sub string, ts time.Time) int64 {
	t.Helper()
	id, err := s.InsertExpense(models.Expense{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Subcategory: sub,
		Description: "Test",
		Timestamp:   ts,
	})
	require.NoError(t, err)
	return id
}

func TestInsertAndGetExpense(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	id := insertTestExpense(t, s, "u1", "30.50", "Food & Drinks", "Meals", ts)

	e, err := s.GetExpense(id, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", e.UserID)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("30.50")))
	assert.Equal(t, "Food & Drinks", e.Category)
	assert.Equal(t, "Meals", e.Subcategory)
	assert.True(t, e.Timestamp.Equal(ts))
}

func TestGetExpenseIsUserScoped(t *testing.T) {
	s := newTestStore(t)
	id := insertTestExpense(t, s, "u1", "30", "Misc", "Other", time.Now())

	_, err := s.GetExpense(id, "u2")
	require.Error(t, err)
	assert.True(t, boterr.IsNotFound(err))

	_, err = s.GetExpense(999, "u1")
	assert.True(t, boterr.IsNotFound(err))
}

func TestUpdateAmountReportsRowsChanged(t *testing.T) {
	s := newTestStore(t)
	id := insertTestExpense(t, s, "u1", "30", "Misc", "Other", time.Now())

	changed, err := s.UpdateAmount(id, "u1", decimal.NewFromInt(45))
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	e, err := s.GetExpense(id, "u1")
	require.NoError(t, err)
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(45)))

	// Another user's id changes nothing.
	changed, err = s.UpdateAmount(id, "u2", decimal.NewFromInt(99))
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestUpdateCategory(t *testing.T) {
	s := newTestStore(t)
	id := insertTestExpense(t, s, "u1", "12", "Misc", "Other", time.Now())

	changed, err := s.UpdateCategory(id, "u1", "Transport", "Taxis")
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	e, err := s.GetExpense(id, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Transport > Taxis", e.DisplayCategory())
}

func TestDeleteExpenseTwiceChangesZeroRows(t *testing.T) {
	s := newTestStore(t)
	id := insertTestExpense(t, s, "u1", "10", "Misc", "Other", time.Now())

	changed, err := s.DeleteExpense(id, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = s.DeleteExpense(id, "u1")
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestListByUserNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		insertTestExpense(t, s, "u1", "5", "Misc", "Other", base.Add(time.Duration(i)*time.Hour))
	}
	insertTestExpense(t, s, "u2", "5", "Misc", "Other", base)

	list, err := s.ListByUser("u1", 5)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i-1].Timestamp.Before(list[i].Timestamp))
	}
	for _, e := range list {
		assert.Equal(t, "u1", e.UserID)
	}
}

func TestLastExpense(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LastExpense("u1")
	assert.True(t, boterr.IsNotFound(err))

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	insertTestExpense(t, s, "u1", "5", "Misc", "Other", base)
	newest := insertTestExpense(t, s, "u1", "8", "Misc", "Other", base.Add(time.Hour))

	e, err := s.LastExpense("u1")
	require.NoError(t, err)
	assert.Equal(t, newest, e.ID)
}

func TestSumTotals(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)

	insertTestExpense(t, s, "u1", "10.25", "Misc", "Other", now)                         // today
	insertTestExpense(t, s, "u1", "20", "Misc", "Other", now.AddDate(0, 0, -3))          // this month
	insertTestExpense(t, s, "u1", "100", "Misc", "Other", now.AddDate(0, -2, 0))         // older
	insertTestExpense(t, s, "u2", "999", "Misc", "Other", now)                           // other user
	insertTestExpense(t, s, "u1", "0.75", "Misc", "Other", now.Add(-2*time.Hour))        // today
	insertTestExpense(t, s, "u1", "5", "Misc", "Other", now.AddDate(0, 0, -19).Add(time.Hour)) // this month

	totals, err := s.SumTotals("u1", now)
	require.NoError(t, err)
	assert.True(t, totals.All.Equal(decimal.RequireFromString("136.00")), totals.All.String())
	assert.True(t, totals.Today.Equal(decimal.RequireFromString("11.00")), totals.Today.String())
	assert.True(t, totals.Month.Equal(decimal.RequireFromString("36.00")), totals.Month.String())
}

func TestRecurringLifecycle(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	id, err := s.InsertRecurring(models.RecurringExpense{
		UserID:      "u1",
		Amount:      decimal.NewFromInt(15),
		Category:    "Entertainment",
		Subcategory: "Streaming",
		Description: "Netflix",
		Frequency:   models.FrequencyMonthly,
		StartDate:   now,
		LastTracked: now,
	})
	require.NoError(t, err)

	active, err := s.ListActiveRecurring("u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)
	assert.True(t, active[0].Active)

	// Scoped to the owner.
	other, err := s.ListActiveRecurring("u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	changed, err := s.DeactivateRecurring(id, "u2")
	require.NoError(t, err)
	assert.Zero(t, changed)

	changed, err = s.DeactivateRecurring(id, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	// Deactivating an already inactive row changes nothing.
	changed, err = s.DeactivateRecurring(id, "u1")
	require.NoError(t, err)
	assert.Zero(t, changed)

	active, err = s.ListActiveRecurring("u1")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestListDueRecurring(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	dueID, err := s.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.NewFromInt(5), Category: "Food & Drinks",
		Frequency: models.FrequencyDaily, StartDate: now.AddDate(0, 0, -5),
		LastTracked: now.Add(-25 * time.Hour),
	})
	require.NoError(t, err)

	_, err = s.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.NewFromInt(10), Category: "Transport",
		Frequency: models.FrequencyWeekly, StartDate: now.AddDate(0, 0, -2),
		LastTracked: now.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	ended := now.Add(-time.Hour)
	_, err = s.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.NewFromInt(7), Category: "Misc",
		Frequency: models.FrequencyDaily, StartDate: now.AddDate(0, 0, -10),
		EndDate: &ended, LastTracked: now.Add(-30 * time.Hour),
	})
	require.NoError(t, err)

	due, err := s.ListDueRecurring(now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, dueID, due[0].ID)

	// After marking tracked, nothing is due until the next interval.
	require.NoError(t, s.MarkTracked(dueID, now))
	due, err = s.ListDueRecurring(now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDashboardQueries(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	insertTestExpense(t, s, "u1", "10", "Misc", "Other", now)
	insertTestExpense(t, s, "u2", "20", "Transport", "Fuel", now.Add(time.Hour))

	_, err := s.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.NewFromInt(15), Category: "Entertainment",
		Frequency: models.FrequencyMonthly, StartDate: now, LastTracked: now,
	})
	require.NoError(t, err)

	all, err := s.ListAllExpenses()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u2", all[0].UserID) // newest first, across users

	recent, err := s.ListRecentExpenses(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	recurring, err := s.ListAllActiveRecurring()
	require.NoError(t, err)
	assert.Len(t, recurring, 1)

	counts, err := s.CountRows()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Expenses)
	assert.Equal(t, int64(1), counts.Recurring)
}
