package bot

import (
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

type recordingNotifier struct {
	messages []string
	users    []string
	err      error
}

func (n *recordingNotifier) Notify(userID, text string) error {
	n.users = append(n.users, userID)
	n.messages = append(n.messages, text)
	return n.err
}

func newSweepStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSweepMaterializesDueRows(t *testing.T) {
	st := newSweepStore(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	dueID, err := st.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.RequireFromString("9.99"),
		Category: "Entertainment", Subcategory: "Movies", Description: "Netflix",
		Frequency: models.FrequencyDaily,
		StartDate: now.AddDate(0, 0, -3), LastTracked: now.Add(-26 * time.Hour),
	})
	require.NoError(t, err)

	_, err = st.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.NewFromInt(50),
		Category: "Health", Subcategory: "Fitness", Description: "Gym",
		Frequency: models.FrequencyMonthly,
		StartDate: now.AddDate(0, 0, -3), LastTracked: now.AddDate(0, 0, -3),
	})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	sw := NewSweeper(st, notifier, time.Minute, logging.Discard)
	sw.now = func() time.Time { return now }

	sw.SweepOnce()

	expenses, err := st.ListByUser("u1", 10)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Amount.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, "Netflix", expenses[0].Description)
	assert.Equal(t, "Entertainment > Movies", expenses[0].DisplayCategory())

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "u1", notifier.users[0])
	assert.Contains(t, notifier.messages[0], "Tracked your daily expense")
	assert.Contains(t, notifier.messages[0], "$9.99")

	// The due row advanced; a second sweep at the same instant is a no-op.
	sw.SweepOnce()
	expenses, err = st.ListByUser("u1", 10)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	// One interval later it fires again.
	sw.now = func() time.Time { return now.Add(24 * time.Hour) }
	sw.SweepOnce()
	expenses, err = st.ListByUser("u1", 10)
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
	_ = dueID
}

func TestSweepSkipsInactiveAndEnded(t *testing.T) {
	st := newSweepStore(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	id, err := st.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.NewFromInt(5), Category: "Misc",
		Frequency: models.FrequencyDaily,
		StartDate: now.AddDate(0, 0, -3), LastTracked: now.Add(-30 * time.Hour),
	})
	require.NoError(t, err)
	_, err = st.DeactivateRecurring(id, "u1")
	require.NoError(t, err)

	ended := now.Add(-time.Hour)
	_, err = st.InsertRecurring(models.RecurringExpense{
		UserID: "u1", Amount: decimal.NewFromInt(5), Category: "Misc",
		Frequency: models.FrequencyDaily, EndDate: &ended,
		StartDate: now.AddDate(0, 0, -3), LastTracked: now.Add(-30 * time.Hour),
	})
	require.NoError(t, err)

	sw := NewSweeper(st, nil, time.Minute, logging.Discard)
	sw.now = func() time.Time { return now }
	sw.SweepOnce()

	expenses, err := st.ListByUser("u1", 10)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestSweepNotifierFailureDoesNotAbort(t *testing.T) {
	st := newSweepStore(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		_, err := st.InsertRecurring(models.RecurringExpense{
			UserID: "u1", Amount: decimal.NewFromInt(int64(i + 1)), Category: "Misc",
			Frequency: models.FrequencyDaily,
			StartDate: now.AddDate(0, 0, -3), LastTracked: now.Add(-30 * time.Hour),
		})
		require.NoError(t, err)
	}

	notifier := &recordingNotifier{err: assert.AnError}
	sw := NewSweeper(st, notifier, time.Minute, logging.Discard)
	sw.now = func() time.Time { return now }
	sw.SweepOnce()

	expenses, err := st.ListByUser("u1", 10)
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
	assert.Len(t, notifier.messages, 2)
}
