// Package session persists per-user conversational state. A session row is a
// JSON blob keyed by user id; corrupt blobs reset to an empty session instead
// of failing the handler.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"hornerito/internal/boterr"
	"hornerito/internal/logging"
	"hornerito/internal/models"
)

// Store reads and writes sessions in the shared SQLite database.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// NewStore creates a session store on an existing connection.
func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Load fetches a user's session. Missing rows and corrupt payloads both
// yield an empty session; corruption is logged and overwritten on next save.
func (s *Store) Load(userID string) models.Session {
	var data string
	err := s.db.QueryRow(
		`SELECT data FROM sessions WHERE user_id = ?`, userID).Scan(&data)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.WithError(err).WithField("user", userID).Error("Failed to load session")
		}
		return models.Session{}
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		cerr := &boterr.SessionCorruptError{UserID: userID, Err: err}
		s.logger.WithError(cerr).Warn("Resetting session")
		return models.Session{}
	}
	return sess
}

// Save upserts a user's session.
func (s *Store) Save(userID string, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().UTC().Format(time.RFC3339))
	return err
}

// Clear resets a user's session to empty.
func (s *Store) Clear(userID string) error {
	return s.Save(userID, models.Session{})
}
