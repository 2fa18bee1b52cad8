package store

import (
	"database/sql"
	"time"

	"hornerito/internal/models"

	"github.com/shopspring/decimal"
)

// InsertRecurring saves a new recurring expense and returns its id.
func (s *Store) InsertRecurring(r models.RecurringExpense) (int64, error) {
	var endDate any
	if r.EndDate != nil {
		endDate = r.EndDate.UTC().Format(time.RFC3339)
	}
	res, err := s.db.Exec(
		`INSERT INTO recurring_expenses
		 (user_id, amount, category, subcategory, description, frequency, start_date, end_date, last_tracked, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		r.UserID, r.Amount.String(), r.Category, r.Subcategory, r.Description,
		string(r.Frequency),
		r.StartDate.UTC().Format(time.RFC3339),
		endDate,
		r.LastTracked.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListActiveRecurring returns a user's active recurring expenses ordered by
// frequency then amount, matching the picker and summary views.
func (s *Store) ListActiveRecurring(userID string) ([]models.RecurringExpense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, amount, category, subcategory, description, frequency,
		        start_date, end_date, last_tracked, active, created_at
		 FROM recurring_expenses
		 WHERE user_id = ? AND active = 1
		 ORDER BY frequency, amount`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecurring(rows)
}

// DeactivateRecurring soft-deletes a recurring expense, scoped to the owner.
// History stays in place; only active flips to 0. An already inactive row
// counts as zero rows changed so replayed removals read as not-found.
func (s *Store) DeactivateRecurring(id int64, userID string) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE recurring_expenses SET active = 0 WHERE id = ? AND user_id = ? AND active = 1`,
		id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListDueRecurring returns every active recurring expense whose last
// materialization is at least one frequency interval in the past (and whose
// end date, if any, has not passed).
func (s *Store) ListDueRecurring(now time.Time) ([]models.RecurringExpense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, amount, category, subcategory, description, frequency,
		        start_date, end_date, last_tracked, active, created_at
		 FROM recurring_expenses WHERE active = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all, err := collectRecurring(rows)
	if err != nil {
		return nil, err
	}

	var due []models.RecurringExpense
	for _, r := range all {
		if r.EndDate != nil && now.After(*r.EndDate) {
			continue
		}
		if interval := r.Frequency.Interval(); interval > 0 && !now.Before(r.LastTracked.Add(interval)) {
			due = append(due, r)
		}
	}
	return due, nil
}

// MarkTracked advances a recurring expense's last-tracked instant.
func (s *Store) MarkTracked(id int64, now time.Time) error {
	_, err := s.db.Exec(
		`UPDATE recurring_expenses SET last_tracked = ? WHERE id = ?`,
		now.UTC().Format(time.RFC3339), id)
	return err
}

func collectRecurring(rows *sql.Rows) ([]models.RecurringExpense, error) {
	var out []models.RecurringExpense
	for rows.Next() {
		var (
			r                    models.RecurringExpense
			amountStr            string
			frequency            string
			startStr, trackedStr string
			endStr               sql.NullString
			subcategory          sql.NullString
			description          sql.NullString
			active               int
			createdAt            string
		)
		err := rows.Scan(&r.ID, &r.UserID, &amountStr, &r.Category, &subcategory,
			&description, &frequency, &startStr, &endStr, &trackedStr, &active, &createdAt)
		if err != nil {
			return nil, err
		}

		r.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			continue
		}
		r.Subcategory = subcategory.String
		r.Description = description.String
		r.Frequency = models.Frequency(frequency)
		r.Active = active == 1
		if ts, err := time.Parse(time.RFC3339, startStr); err == nil {
			r.StartDate = ts
		}
		if ts, err := time.Parse(time.RFC3339, trackedStr); err == nil {
			r.LastTracked = ts
		}
		if endStr.Valid {
			if ts, err := time.Parse(time.RFC3339, endStr.String); err == nil {
				r.EndDate = &ts
			}
		}
		if ca, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
			r.CreatedAt = ca
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
