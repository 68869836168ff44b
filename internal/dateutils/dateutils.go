// Package dateutils parses the dates and months users type next to their
// expenses and computes month boundaries.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Day layouts accepted by ParseDay, tried in order. Day-first layouts follow
// the Argentine convention; month-first dates are never accepted.
const (
	DateLayoutISO    = "2006-01-02"
	DateLayoutSlash  = "2/1/2006"
	DateLayoutDashed = "2-1-2006"
	DateLayoutDotted = "2.1.2006"
)

// Month layouts accepted by ParseMonth.
const (
	MonthLayoutISO   = "2006-01"
	MonthLayoutSlash = "1/2006"
)

// DayFormats is the ordered list of layouts ParseDay tries.
var DayFormats = []string{DateLayoutISO, DateLayoutSlash, DateLayoutDashed, DateLayoutDotted}

// MonthFormats is the ordered list of layouts ParseMonth tries.
var MonthFormats = []string{MonthLayoutISO, MonthLayoutSlash}

// CleanDateString trims value and removes inner spaces, so "15 / 03 / 2024"
// parses like "15/03/2024".
func CleanDateString(value string) string {
	return strings.Join(strings.Fields(value), "")
}

// ParseDay parses a calendar day at midnight in loc. It returns the layout
// that matched.
func ParseDay(value string, loc *time.Location) (time.Time, string, error) {
	return parseFirst(value, DayFormats, loc, "YYYY-MM-DD or DD/MM/YYYY")
}

// ParseMonth parses a month and returns its first instant in loc.
func ParseMonth(value string, loc *time.Location) (time.Time, error) {
	t, _, err := parseFirst(value, MonthFormats, loc, "YYYY-MM or MM/YYYY")
	return t, err
}

func parseFirst(value string, layouts []string, loc *time.Location, expected string) (time.Time, string, error) {
	if loc == nil {
		loc = time.UTC
	}
	cleaned := CleanDateString(value)
	if cleaned != "" {
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
				return t, layout, nil
			}
		}
	}
	return time.Time{}, "", fmt.Errorf("invalid date %q, expected %s", value, expected)
}

// ToISODate formats date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// StartOfMonth returns the first instant of date's month in date's location.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// StartOfNextMonth returns the first instant of the month after date's.
func StartOfNextMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, 0)
}

// MonthName renders the month of date as "March 2024".
func MonthName(date time.Time) string {
	return date.Format("January 2006")
}
