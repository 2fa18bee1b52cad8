// Package store persists expenses and recurring expenses in SQLite. Every
// mutating operation is scoped by user id and reports how many rows changed,
// so a caller can tell "not found" from "not yours" without leaking either.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hornerito/internal/boterr"
	"hornerito/internal/models"

	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			description TEXT,
			timestamp TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS recurring_expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			description TEXT,
			frequency TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT,
			last_tracked TEXT NOT NULL,
			active INTEGER DEFAULT 1,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			user_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_time
			ON expenses (user_id, timestamp DESC)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the connection for the session store, which shares the file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// InsertExpense saves a new expense and returns its id.
func (s *Store) InsertExpense(e models.Expense) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO expenses (user_id, amount, category, subcategory, description, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.String(), e.Category, e.Subcategory, e.Description,
		e.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetExpense fetches one expense scoped to its owner. A row that does not
// exist or belongs to someone else yields a NotFoundError.
func (s *Store) GetExpense(id int64, userID string) (models.Expense, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, amount, category, subcategory, description, timestamp, created_at
		 FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, &boterr.NotFoundError{Kind: "expense", ID: id, UserID: userID}
	}
	return e, err
}

// UpdateAmount replaces an expense's amount, scoped to the owning user.
// Returns the number of rows changed (0 means not found or not yours).
func (s *Store) UpdateAmount(id int64, userID string, amount decimal.Decimal) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE expenses SET amount = ? WHERE id = ? AND user_id = ?`,
		amount.String(), id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateCategory replaces an expense's category pair, scoped to the owner.
func (s *Store) UpdateCategory(id int64, userID, category, subcategory string) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE expenses SET category = ?, subcategory = ? WHERE id = ? AND user_id = ?`,
		category, subcategory, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpense removes an expense, scoped to the owner. A second delete of
// the same id changes zero rows.
func (s *Store) DeleteExpense(id int64, userID string) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByUser returns the user's expenses newest first, up to limit.
func (s *Store) ListByUser(userID string, limit int) ([]models.Expense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, amount, category, subcategory, description, timestamp, created_at
		 FROM expenses WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LastExpense returns the user's most recent expense, or a NotFoundError
// when none exist.
func (s *Store) LastExpense(userID string) (models.Expense, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, amount, category, subcategory, description, timestamp, created_at
		 FROM expenses WHERE user_id = ? ORDER BY timestamp DESC LIMIT 1`, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, &boterr.NotFoundError{Kind: "expense", UserID: userID}
	}
	return e, err
}

// Totals are per-user spending sums for the stats view.
type Totals struct {
	All   decimal.Decimal
	Today decimal.Decimal
	Month decimal.Decimal
}

// SumTotals computes all-time, today and this-month totals for a user.
// Amounts are stored as decimal strings, so the summing happens here rather
// than in SQL.
func (s *Store) SumTotals(userID string, now time.Time) (Totals, error) {
	rows, err := s.db.Query(
		`SELECT amount, timestamp FROM expenses WHERE user_id = ?`, userID)
	if err != nil {
		return Totals{}, err
	}
	defer rows.Close()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	t := Totals{All: decimal.Zero, Today: decimal.Zero, Month: decimal.Zero}
	for rows.Next() {
		var amountStr, tsStr string
		if err := rows.Scan(&amountStr, &tsStr); err != nil {
			return Totals{}, err
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			continue
		}
		t.All = t.All.Add(amount)

		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		ts = ts.In(now.Location())
		if !ts.Before(monthStart) {
			t.Month = t.Month.Add(amount)
		}
		if !ts.Before(dayStart) {
			t.Today = t.Today.Add(amount)
		}
	}
	return t, rows.Err()
}

func scanExpense(row interface{ Scan(...any) error }) (models.Expense, error) {
	var (
		e                models.Expense
		amountStr        string
		tsStr, createdAt string
		subcategory      sql.NullString
		description      sql.NullString
	)
	err := row.Scan(&e.ID, &e.UserID, &amountStr, &e.Category, &subcategory,
		&description, &tsStr, &createdAt)
	if err != nil {
		return models.Expense{}, err
	}

	e.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return models.Expense{}, fmt.Errorf("corrupt amount %q on expense %d: %w", amountStr, e.ID, err)
	}
	e.Subcategory = subcategory.String
	e.Description = description.String
	if ts, err := time.Parse(time.RFC3339, tsStr); err == nil {
		e.Timestamp = ts
	}
	if ca, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
		e.CreatedAt = ca
	}
	return e, nil
}
