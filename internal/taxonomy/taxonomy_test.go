package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExact(t *testing.T) {
	tax := New()

	tests := []struct {
		phrase  string
		wantCat string
		wantSub string
	}{
		{"coffee", FoodAndDrinks, "Drinks/Coffee"},
		{"Coffee", FoodAndDrinks, "Drinks/Coffee"},
		{"  taxi  ", Transport, "Taxis"},
		{"groceries", FoodAndDrinks, "Groceries"},
		{"internet", BillsUtilities, "Internet & Phone"},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			e, ok := tax.Exact(tt.phrase)
			require.True(t, ok)
			assert.Equal(t, tt.wantCat, e.Category)
			assert.Equal(t, tt.wantSub, e.Subcategory)
		})
	}

	_, ok := tax.Exact("quantum physics")
	assert.False(t, ok)
}

func TestMainNamesOrder(t *testing.T) {
	tax := New()
	names := tax.MainNames()
	require.Len(t, names, 7)
	// Declaration order decides keyword tie-breaks, so it is part of the
	// contract.
	assert.Equal(t, FoodAndDrinks, names[0])
	assert.Equal(t, Transport, names[1])
	assert.Equal(t, Miscellaneous, names[6])
}

func TestSubcategories(t *testing.T) {
	tax := New()

	subs := tax.Subcategories(Transport)
	assert.Equal(t, []string{"Taxis", "Fuel", "Public"}, subs)

	subs = tax.Subcategories("transport")
	assert.Equal(t, []string{"Taxis", "Fuel", "Public"}, subs, "match is case-insensitive")

	assert.Nil(t, tax.Subcategories("Unknown"))
}

func TestIsFoodRelated(t *testing.T) {
	foods := []string{"empanada", "burrito", "milanesa", "chicken soup", "ramen", "almuerzo", "cheeseburger"}
	for _, f := range foods {
		assert.True(t, IsFoodRelated(f), f)
	}
	notFoods := []string{"rent", "haircut", "parking"}
	for _, f := range notFoods {
		assert.False(t, IsFoodRelated(f), f)
	}
}

func TestIsTransportRelated(t *testing.T) {
	assert.True(t, IsTransportRelated("car wash"))
	assert.True(t, IsTransportRelated("bike"))
	assert.False(t, IsTransportRelated("massage"))
}

func TestMentionsFuel(t *testing.T) {
	assert.True(t, MentionsFuel("gas for the car"))
	assert.True(t, MentionsFuel("diesel"))
	assert.False(t, MentionsFuel("bus ticket"))
}
