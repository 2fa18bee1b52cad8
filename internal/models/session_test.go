package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSessionStateDerivation(t *testing.T) {
	var s Session
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, StateIdle, Session{}.State())

	s.StartAmountEdit(5, "Food & Drinks > Meals")
	assert.Equal(t, StateEditingAmount, s.State())

	s.StartCategoryEdit(5, decimal.NewFromInt(30))
	assert.Equal(t, StateEditingCategory, s.State())

	s.StartWizard()
	assert.Equal(t, StateRecurringWizard, s.State())
	assert.Equal(t, StepAmount, s.RecurringStep)
}

func TestSessionWizardWinsOverStaleEditPointer(t *testing.T) {
	s := Session{EditingExpenseID: 7, AddingRecurring: true, RecurringStep: StepDescription}
	assert.Equal(t, StateRecurringWizard, s.State())
}

func TestEnteringFlowClearsConflictingFields(t *testing.T) {
	var s Session
	s.StartWizard()
	s.RecurringAmount = decimal.NewFromInt(25)
	s.RecurringDescription = "Netflix"

	s.StartAmountEdit(3, "Entertainment > Movies")
	assert.False(t, s.AddingRecurring)
	assert.Empty(t, s.RecurringDescription)
	assert.True(t, s.RecurringAmount.IsZero())
	assert.Equal(t, int64(3), s.EditingExpenseID)

	s.StartWizard()
	assert.Zero(t, s.EditingExpenseID)
	assert.Empty(t, s.OriginalCategory)
}

func TestClearResetsEverything(t *testing.T) {
	s := Session{
		EditingExpenseID:     1,
		OriginalCategory:     "x",
		EditingCategoryID:    2,
		OriginalAmount:       decimal.NewFromInt(9),
		AddingRecurring:      true,
		RecurringStep:        StepFrequency,
		RecurringAmount:      decimal.NewFromInt(9),
		RecurringDescription: "gym",
		RecurringCategory:    "Health > Fitness",
	}
	s.Clear()
	assert.Equal(t, Session{}, s)
}

func TestParseFrequency(t *testing.T) {
	for _, valid := range []string{"daily", "Weekly", " MONTHLY "} {
		_, ok := ParseFrequency(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParseFrequency("yearly")
	assert.False(t, ok)
}

func TestJoinSplitCategory(t *testing.T) {
	assert.Equal(t, "Food & Drinks > Meals", JoinCategory("Food & Drinks", "Meals"))
	assert.Equal(t, "Miscellaneous", JoinCategory("Miscellaneous", ""))

	main, sub := SplitCategory("Food & Drinks > Meals")
	assert.Equal(t, "Food & Drinks", main)
	assert.Equal(t, "Meals", sub)

	// Legacy separator without spaces normalizes too.
	main, sub = SplitCategory("Transport>Taxis")
	assert.Equal(t, "Transport", main)
	assert.Equal(t, "Taxis", sub)

	main, sub = SplitCategory("Groceries")
	assert.Equal(t, "Groceries", main)
	assert.Empty(t, sub)
}
