// Package parsererror defines the error taxonomy shared by the expense parser,
// the suggestion engine and the stores.
package parsererror

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by stores.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)

// Kind classifies why a message could not be turned into an expense.
type Kind int

const (
	KindEmptyMessage Kind = iota + 1
	KindNoValidText
	KindNoAmount
	KindInvalidAmount
	KindNonPositiveAmount
)

func (k Kind) String() string {
	switch k {
	case KindEmptyMessage:
		return "empty_message"
	case KindNoValidText:
		return "no_valid_text"
	case KindNoAmount:
		return "no_amount"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindNonPositiveAmount:
		return "non_positive_amount"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is against any *ParseError of the same kind.
var (
	ErrEmptyMessage      = &ParseError{Kind: KindEmptyMessage}
	ErrNoValidText       = &ParseError{Kind: KindNoValidText}
	ErrNoAmount          = &ParseError{Kind: KindNoAmount}
	ErrInvalidAmount     = &ParseError{Kind: KindInvalidAmount}
	ErrNonPositiveAmount = &ParseError{Kind: KindNonPositiveAmount}
)

// ParseError is a recoverable, user-facing failure to parse a message.
type ParseError struct {
	Kind  Kind
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindEmptyMessage:
		return "message is empty"
	case KindNoValidText:
		return "message contains no valid text"
	case KindNoAmount:
		return "no amount found"
	case KindInvalidAmount:
		if e.Err != nil {
			return fmt.Sprintf("could not parse amount '%s': %v", e.Value, e.Err)
		}
		return fmt.Sprintf("could not parse amount '%s'", e.Value)
	case KindNonPositiveAmount:
		return fmt.Sprintf("amount must be greater than 0 (got: %s)", e.Value)
	default:
		return "could not parse message"
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches another *ParseError with the same Kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ValidationError represents a record rejected before it reaches storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failure of the persistence collaborator.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// CategorizationError represents a failed suggestion tier.
type CategorizationError struct {
	Description string
	Strategy    string
	Err         error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed for '%s' using %s: %v",
		e.Description, e.Strategy, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}
