// Package expenseparser extracts the amount and description from free-form
// expense messages such as "Pizza 2000" or "$1.500,50 supermercado".
package expenseparser

import (
	"strings"

	"github.com/ivanvallejoss/smartexpense/internal/currencyutils"
	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/parsererror"
	"github.com/shopspring/decimal"
)

// DefaultSmallQuantityThreshold is the magnitude below which a bare integer
// is assumed to be a quantity ("3 pizzas") rather than an amount.
const DefaultSmallQuantityThreshold = 20

// Parser turns messages into ParsedExpense values. It is stateless and safe
// for concurrent use.
type Parser struct {
	logger        logging.Logger
	smallQuantity decimal.Decimal
}

// Option configures a Parser.
type Option func(*Parser)

// WithSmallQuantityThreshold overrides DefaultSmallQuantityThreshold.
func WithSmallQuantityThreshold(n int64) Option {
	return func(p *Parser) {
		if n > 0 {
			p.smallQuantity = decimal.NewFromInt(n)
		}
	}
}

// NewParser creates a Parser.
func NewParser(logger logging.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger:        logging.OrDiscard(logger),
		smallQuantity: decimal.NewFromInt(DefaultSmallQuantityThreshold),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts amount and description from text. It never returns an
// error: failures come back with Succeeded set to false.
func (p *Parser) Parse(text string) models.ParsedExpense {
	if strings.TrimSpace(text) == "" {
		return failed(&parsererror.ParseError{Kind: parsererror.KindEmptyMessage}, "")
	}

	normalized := normalizeMessage(text)
	if normalized == "" {
		return failed(&parsererror.ParseError{Kind: parsererror.KindNoValidText}, "")
	}

	candidates, signed := extractCandidates(normalized)
	if len(candidates) == 0 {
		return failed(&parsererror.ParseError{Kind: parsererror.KindNoAmount}, "")
	}

	selected, warning := selectAmount(candidates, signed, p.smallQuantity)
	p.logger.Debug("Selected amount candidate",
		logging.F(logging.FieldAmount, selected.RawText),
		logging.F(logging.FieldCount, len(candidates)))

	amount := selected.Magnitude
	if !currencyutils.IsPositive(amount) {
		return failed(&parsererror.ParseError{
			Kind:  parsererror.KindNonPositiveAmount,
			Value: amount.String(),
		}, warning)
	}

	return models.ParsedExpense{
		Amount:      amount,
		Description: extractDescription(normalized, selected),
		Succeeded:   true,
		Warning:     warning,
	}
}

// Candidates exposes the classified amount candidates of text.
func (p *Parser) Candidates(text string) []models.AmountCandidate {
	candidates, _ := extractCandidates(normalizeMessage(text))
	return candidates
}

func failed(err *parsererror.ParseError, warning string) models.ParsedExpense {
	return models.ParsedExpense{
		Amount:  decimal.Zero,
		Error:   err.Error(),
		Err:     err,
		Warning: warning,
	}
}

// normalizeMessage strips emoji and collapses whitespace runs.
func normalizeMessage(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if isEmoji(r) {
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(stripped), " ")
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F1E0 && r <= 0x1F1FF: // flags
		return true
	}
	return false
}

// extractDescription removes the selected amount from text once, drops any
// leftover '$' and collapses whitespace.
func extractDescription(text string, selected models.AmountCandidate) string {
	rest := text[:selected.Position] + text[selected.Position+len(selected.RawText):]
	rest = strings.ReplaceAll(rest, "$", "")
	description := strings.Join(strings.Fields(rest), " ")
	if description == "" {
		return models.NoDescription
	}
	return description
}
