package store

import "hornerito/internal/models"

// Dashboard read surface. These queries span all users; the web API they
// back is read-only.

// ListAllExpenses returns every expense, newest first.
func (s *Store) ListAllExpenses() ([]models.Expense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, amount, category, subcategory, description, timestamp, created_at
		 FROM expenses ORDER BY timestamp DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ListRecentExpenses returns the newest expenses up to limit.
func (s *Store) ListRecentExpenses(limit int) ([]models.Expense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, amount, category, subcategory, description, timestamp, created_at
		 FROM expenses ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ListAllActiveRecurring returns every active recurring expense.
func (s *Store) ListAllActiveRecurring() ([]models.RecurringExpense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, amount, category, subcategory, description, frequency,
		        start_date, end_date, last_tracked, active, created_at
		 FROM recurring_expenses
		 WHERE active = 1
		 ORDER BY frequency, CAST(amount AS REAL)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecurring(rows)
}

// Counts holds row counts for the status endpoint.
type Counts struct {
	Expenses  int64
	Recurring int64
}

// CountRows reports expense and active recurring row counts.
func (s *Store) CountRows() (Counts, error) {
	var c Counts
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM expenses`).Scan(&c.Expenses); err != nil {
		return c, err
	}
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM recurring_expenses WHERE active = 1`).Scan(&c.Recurring)
	return c, err
}
