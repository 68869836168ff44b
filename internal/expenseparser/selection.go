package expenseparser

import (
	"fmt"
	"strings"

	"github.com/ivanvallejoss/smartexpense/internal/currencyutils"
	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/shopspring/decimal"
)

// extractCandidates classifies every grammar match in text. Signed matches
// are never candidates; they are only counted.
func extractCandidates(text string) (candidates []models.AmountCandidate, signed int) {
	for _, m := range scanMatches(text) {
		if m.signed {
			signed++
			continue
		}

		full := text[m.start:m.end]
		raw := strings.TrimSpace(full)
		magnitude, err := currencyutils.ToDecimal(m.number)
		if err != nil {
			continue
		}

		candidates = append(candidates, models.AmountCandidate{
			RawText:           raw,
			NormalizedNumber:  m.number,
			Position:          m.start + strings.Index(full, raw),
			HasCurrencySymbol: strings.Contains(raw, "$"),
			HasDecimalMarker:  hasDecimalMarker(m.number),
			Magnitude:         magnitude,
		})
	}
	return candidates, signed
}

// hasDecimalMarker: a comma followed by at most two digits, or a single dot
// followed by at most two digits. Dots grouping three digits are thousands.
func hasDecimalMarker(number string) bool {
	if i := strings.LastIndex(number, ","); i >= 0 && len(number)-i-1 <= 2 {
		return true
	}
	if strings.Count(number, ".") == 1 {
		i := strings.Index(number, ".")
		return len(number)-i-1 <= 2
	}
	return false
}

// selectAmount picks the amount among candidates, which must not be empty.
//
//  1. The first candidate carrying a currency symbol.
//  2. Else the largest candidate with a decimal marker.
//  3. Else the largest candidate at or above smallQuantity, or the largest
//     overall when every candidate is below it.
//
// The returned warning is non-empty when more than one plausible amount
// existed. Skipped signed numbers count toward the last rule's warning.
func selectAmount(candidates []models.AmountCandidate, signed int, smallQuantity decimal.Decimal) (models.AmountCandidate, string) {
	withSymbol := filterCandidates(candidates, func(c models.AmountCandidate) bool { return c.HasCurrencySymbol })
	if len(withSymbol) > 0 {
		selected := withSymbol[0]
		if len(withSymbol) > 1 {
			return selected, fmt.Sprintf("found %d amounts with $ symbol; used the first: %s", len(withSymbol), selected.RawText)
		}
		return selected, ""
	}

	withDecimals := filterCandidates(candidates, func(c models.AmountCandidate) bool { return c.HasDecimalMarker })
	if len(withDecimals) > 0 {
		selected := largest(withDecimals)
		if len(withDecimals) > 1 {
			return selected, fmt.Sprintf("found %d numbers with decimals; used the largest: %s", len(withDecimals), selected.RawText)
		}
		return selected, ""
	}

	likely := filterCandidates(candidates, func(c models.AmountCandidate) bool {
		return c.Magnitude.GreaterThanOrEqual(smallQuantity)
	})
	if len(likely) == 0 {
		likely = candidates
	}
	selected := largest(likely)
	if total := len(candidates) + signed; total > 1 {
		return selected, fmt.Sprintf("found %d numbers; used the largest: %s", total, selected.RawText)
	}
	return selected, ""
}

func filterCandidates(candidates []models.AmountCandidate, keep func(models.AmountCandidate) bool) []models.AmountCandidate {
	var out []models.AmountCandidate
	for _, c := range candidates {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// largest returns the candidate with the greatest magnitude; ties keep the
// earliest.
func largest(candidates []models.AmountCandidate) models.AmountCandidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Magnitude.GreaterThan(best.Magnitude) {
			best = c
		}
	}
	return best
}
