package session

import (
	"path/filepath"
	"testing"

	"hornerito/internal/logging"
	"hornerito/internal/models"
	"hornerito/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewStore(st.DB(), logging.Discard)
}

func TestLoadMissingYieldsEmpty(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, models.Session{}, s.Load("nobody"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	var sess models.Session
	sess.StartWizard()
	sess.RecurringStep = models.StepFrequency
	sess.RecurringAmount = decimal.RequireFromString("14.99")
	sess.RecurringDescription = "Netflix"
	sess.RecurringCategory = "Entertainment > Streaming"

	require.NoError(t, s.Save("u1", sess))

	got := s.Load("u1")
	assert.Equal(t, models.StateRecurringWizard, got.State())
	assert.Equal(t, models.StepFrequency, got.RecurringStep)
	assert.True(t, got.RecurringAmount.Equal(decimal.RequireFromString("14.99")))
	assert.Equal(t, "Netflix", got.RecurringDescription)
	assert.Equal(t, "Entertainment > Streaming", got.RecurringCategory)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s := newTestStore(t)

	var sess models.Session
	sess.StartAmountEdit(42, "Misc > Other")
	require.NoError(t, s.Save("u1", sess))

	sess.StartWizard()
	require.NoError(t, s.Save("u1", sess))

	got := s.Load("u1")
	assert.Equal(t, models.StateRecurringWizard, got.State())
	assert.Zero(t, got.EditingExpenseID)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	s := newTestStore(t)

	var sess models.Session
	sess.StartWizard()
	require.NoError(t, s.Save("u1", sess))

	assert.Equal(t, models.StateIdle, s.Load("u2").State())
	assert.Equal(t, models.StateRecurringWizard, s.Load("u1").State())
}

func TestCorruptPayloadResetsToEmpty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	s := NewStore(st.DB(), logging.Discard)

	_, err = st.DB().Exec(
		`INSERT INTO sessions (user_id, data, updated_at) VALUES (?, ?, ?)`,
		"u1", "{not json", "2026-08-20T12:00:00Z")
	require.NoError(t, err)

	assert.Equal(t, models.Session{}, s.Load("u1"))

	// The next save repairs the row.
	var sess models.Session
	sess.StartWizard()
	require.NoError(t, s.Save("u1", sess))
	assert.Equal(t, models.StateRecurringWizard, s.Load("u1").State())
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	var sess models.Session
	sess.StartCategoryEdit(9, decimal.NewFromInt(30))
	require.NoError(t, s.Save("u1", sess))

	require.NoError(t, s.Clear("u1"))
	assert.Equal(t, models.StateIdle, s.Load("u1").State())
}
