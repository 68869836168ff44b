// Package currencyutils converts between Argentine-notation amount strings and
// decimal values.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a number written in regional notation into a decimal.
//
//	"1500"      -> 1500
//	"1500,50"   -> 1500.50
//	"1500.50"   -> 1500.50
//	"1.500"     -> 1500
//	"1.500,50"  -> 1500.50
//	"-1.500,50" -> -1500.50
//
// When both separators are present the dot groups thousands and the comma
// marks decimals. A lone dot is a thousands separator only when every group
// after it has exactly three digits.
func ToDecimal(number string) (decimal.Decimal, error) {
	s := strings.TrimSpace(number)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = strings.TrimSpace(s[1:])
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasDot:
		if thousandsGrouped(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", number, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func thousandsGrouped(s string) bool {
	parts := strings.Split(s, ".")
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// FormatARS renders an amount the way Argentine users write it: "$1.500" or
// "$1.500,50". A zero fractional part is omitted.
func FormatARS(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	out := sign + "$" + groupThousands(intPart)
	if frac != "00" {
		out += "," + frac
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// IsPositive checks if an amount is strictly greater than zero.
func IsPositive(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero)
}
