package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	tests := []struct {
		name        string
		value       string
		expectedOk  bool
		expectedD   int
		expectedM   time.Month
		expectedFmt string
	}{
		{"ISO format", "2024-03-15", true, 15, time.March, DateLayoutISO},
		{"day first with slashes", "15/03/2024", true, 15, time.March, DateLayoutSlash},
		{"single digits", "5/3/2024", true, 5, time.March, DateLayoutSlash},
		{"dashes", "15-03-2024", true, 15, time.March, DateLayoutDashed},
		{"dots", "15.03.2024", true, 15, time.March, DateLayoutDotted},
		{"inner spaces", " 15 / 03 / 2024 ", true, 15, time.March, DateLayoutSlash},
		{"month first rejected", "03/15/2024", false, 0, 0, ""},
		{"empty", "", false, 0, 0, ""},
		{"text", "ayer", false, 0, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, layout, err := ParseDay(tc.value, loc)
			if !tc.expectedOk {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid date")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2024, date.Year())
			assert.Equal(t, tc.expectedM, date.Month())
			assert.Equal(t, tc.expectedD, date.Day())
			assert.Equal(t, 0, date.Hour())
			assert.Equal(t, loc, date.Location())
			assert.Equal(t, tc.expectedFmt, layout)
		})
	}
}

func TestParseDay_NilLocation(t *testing.T) {
	date, _, err := ParseDay("2024-03-15", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, date.Location())
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-03", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), m)

	m, err = ParseMonth("3/2024", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.March, m.Month())

	_, err = ParseMonth("marzo", time.UTC)
	assert.EqualError(t, err, `invalid date "marzo", expected YYYY-MM or MM/YYYY`)
}

func TestMonthBoundaries(t *testing.T) {
	d := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(d))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), StartOfNextMonth(d))
	assert.Equal(t, "December 2024", MonthName(d))
	assert.Equal(t, "2024-12-31", ToISODate(d))
}
