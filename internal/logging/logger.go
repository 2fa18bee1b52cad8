// Package logging decouples the rest of the application from the concrete
// logging framework. Handlers log through this interface so tests can swap in
// a recording implementation.
package logging

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// Logger is the structured logger used across the bot.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a derived logger carrying an error field.
	WithError(err error) Logger
	// WithField returns a derived logger carrying one extra field.
	WithField(key string, value interface{}) Logger
	// WithFields returns a derived logger carrying extra fields.
	WithFields(fields ...Field) Logger

	Fatal(msg string, fields ...Field)
}
