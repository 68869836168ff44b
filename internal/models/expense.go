package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoDescription is the description given to messages that only carry an
// amount.
const NoDescription = "no description"

// Expense is a persisted expense.
type Expense struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Category        *Category       `json:"category,omitempty"`
	AutoCategorized bool            `json:"auto_categorized"`
	Date            time.Time       `json:"date"`
	RawMessage      string          `json:"raw_message,omitempty"`
}

// ExpenseHistory is the read-only view of a past categorized expense the
// suggestion engine learns from.
type ExpenseHistory struct {
	ExpenseID   int64
	Description string
	Category    Category
	Date        time.Time
}

// ParsedExpense is the outcome of parsing one message. On failure Succeeded
// is false, Error holds a human-readable reason and Err the typed cause.
type ParsedExpense struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Succeeded   bool            `json:"succeeded"`
	Error       string          `json:"error,omitempty"`
	Warning     string          `json:"warning,omitempty"`
	Err         error           `json:"-"`
}

// AmountCandidate is a substring of a message that could be the amount.
type AmountCandidate struct {
	RawText           string
	NormalizedNumber  string
	Position          int
	HasCurrencySymbol bool
	HasDecimalMarker  bool
	Magnitude         decimal.Decimal
}
