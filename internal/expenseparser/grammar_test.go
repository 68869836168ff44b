package expenseparser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanMatches(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		numbers []string
	}{
		{"plain integer", "pizza 2000", []string{"2000"}},
		{"thousands", "1.500.000", []string{"1.500.000"}},
		{"thousands with decimals", "$1.500,50", []string{"1.500,50"}},
		{"long run with dot decimals", "12345.678", []string{"12345.67", "8"}},
		{"thousands group stops at three digits", "1.5000", []string{"1.500", "0"}},
		{"three decimals after comma", "1.500,505", []string{"1.500,50", "5"}},
		{"dangling separator", "100. y 200,", []string{"100", "200"}},
		{"two candidates", "15,50 o 20,75", []string{"15,50", "20,75"}},
		{"no digits", "$$$", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var numbers []string
			for _, m := range scanMatches(tt.input) {
				numbers = append(numbers, m.number)
			}
			assert.Equal(t, tt.numbers, numbers)
		})
	}
}

func TestScanMatches_SymbolsAndSign(t *testing.T) {
	matches := scanMatches("$ 100 $ y -50")
	require.Len(t, matches, 2)

	assert.Equal(t, "$ 100 $", "$ 100 $ y -50"[matches[0].start:matches[0].end])
	assert.False(t, matches[0].signed)

	assert.Equal(t, "50", matches[1].number)
	assert.True(t, matches[1].signed)
}

func TestExtractCandidates_SkipsSigned(t *testing.T) {
	candidates, signed := extractCandidates("-500 pizza")
	assert.Empty(t, candidates)
	assert.Equal(t, 1, signed)

	candidates, signed = extractCandidates("-500 pizza 300")
	assert.Len(t, candidates, 1)
	assert.Equal(t, 1, signed)
}

func TestSelectAmount_CountsSignedNumbers(t *testing.T) {
	candidates, signed := extractCandidates("-500 pizza 2000")
	require.Len(t, candidates, 1)

	selected, warning := selectAmount(candidates, signed, decimal.NewFromInt(20))
	assert.Equal(t, "2000", selected.RawText)
	assert.Equal(t, "found 2 numbers; used the largest: 2000", warning)

	_, warning = selectAmount(candidates, 0, decimal.NewFromInt(20))
	assert.Empty(t, warning)
}

func TestHasDecimalMarker(t *testing.T) {
	tests := []struct {
		number   string
		expected bool
	}{
		{"15,50", true},
		{"100,5", true},
		{"15.50", true},
		{"1.500", false},
		{"1.500.000", false},
		{"1.500,50", true},
		{"2000", false},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasDecimalMarker(tt.number))
		})
	}
}

func TestSelectAmount_TiesKeepEarliest(t *testing.T) {
	candidates, signed := extractCandidates("200 o 200")
	require.Len(t, candidates, 2)

	selected, warning := selectAmount(candidates, signed, decimal.NewFromInt(20))
	assert.Equal(t, 0, selected.Position)
	assert.Contains(t, warning, "found 2 numbers")
}
