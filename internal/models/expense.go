// Package models holds the persisted row types shared by the bot and the
// dashboard API.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategorySeparator joins a main category and subcategory for display and
// for the dashboard rows. Reads normalize a bare ">" to this form.
const CategorySeparator = " > "

// Expense is a single tracked expense.
type Expense struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DisplayCategory renders "Main > Sub", or just the main category when no
// subcategory is set.
func (e Expense) DisplayCategory() string {
	return JoinCategory(e.Category, e.Subcategory)
}

// Frequency is how often a recurring expense repeats.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency validates a frequency string.
func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FrequencyDaily:
		return FrequencyDaily, true
	case FrequencyWeekly:
		return FrequencyWeekly, true
	case FrequencyMonthly:
		return FrequencyMonthly, true
	}
	return "", false
}

// Interval returns the minimum gap between two materializations.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	}
	return 0
}

// RecurringExpense is an expense tracked automatically on a schedule.
// It is never hard-deleted; Active=false preserves history.
type RecurringExpense struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	LastTracked time.Time       `json:"last_tracked"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DisplayCategory renders "Main > Sub" for a recurring row.
func (r RecurringExpense) DisplayCategory() string {
	return JoinCategory(r.Category, r.Subcategory)
}

// JoinCategory composes the canonical category string.
func JoinCategory(category, subcategory string) string {
	if subcategory == "" {
		return category
	}
	return category + CategorySeparator + subcategory
}

// SplitCategory splits either "Main > Sub" or "Main>Sub" into its parts.
// Input with no separator yields an empty subcategory.
func SplitCategory(s string) (category, subcategory string) {
	if i := strings.Index(s, ">"); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s), ""
}
