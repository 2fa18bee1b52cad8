// Package boterr defines the typed domain errors shared by the stores and
// the conversation controller.
package boterr

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by errors.Is for any NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a row that does not exist or belongs to another
// user. The two cases are deliberately indistinguishable to the caller.
type NotFoundError struct {
	Kind   string
	ID     int64
	UserID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found for user %s", e.Kind, e.ID, e.UserID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err is any not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// SessionCorruptError reports a session payload that failed to decode. The
// session is reset rather than propagated, so this error only reaches logs.
type SessionCorruptError struct {
	UserID string
	Err    error
}

func (e *SessionCorruptError) Error() string {
	return fmt.Sprintf("corrupt session for user %s: %v", e.UserID, e.Err)
}

func (e *SessionCorruptError) Unwrap() error {
	return e.Err
}
