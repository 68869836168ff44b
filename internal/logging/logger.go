// Package logging wraps the structured logger used by the expense pipeline so
// parsing, categorization and storage code never import logrus directly.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger handed to every component through its
// constructor.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err under the "error" key.
	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger

	// Fatal and Fatalf exit the process after logging. Only cmd/ may call them.
	Fatal(msg string, fields ...Field)
	Fatalf(msg string, args ...interface{})
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Discard returns a Logger that drops everything. Components fall back to it
// when constructed with a nil logger.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewLogrusAdapterFromLogger(l)
}

// OrDiscard returns l, or Discard() when l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return Discard()
	}
	return l
}
