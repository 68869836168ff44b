package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buenosAires(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	return loc
}

func TestColorEmoji(t *testing.T) {
	tests := []struct {
		color string
		want  string
	}{
		{"red", "🔴"},
		{"Blue", "🔵"},
		{"gray", "⚫"},
		{"#FF5733", "🔴"},
		{"#33FF57", "🟢"},
		{"#3366FF", "🔵"},
		{"#FF33F5", "🟣"},
		{"#FFC300", "🟡"},
		{"#FF8800", "🟠"},
		{"#8B4513", "🟤"},
		{"#1E8449", "🟢"},
		{"#6B7280", "⚫"},
		{"", DefaultCategoryEmoji},
		{"teal-ish", DefaultCategoryEmoji},
		{"#GGGGGG", DefaultCategoryEmoji},
	}
	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorEmoji(tt.color))
		})
	}
}

func TestConfirmation(t *testing.T) {
	g := NewGenerator(logging.Discard(), buenosAires(t), ',')
	expense := models.Expense{
		Amount:          decimal.RequireFromString("1500.50"),
		Description:     "pizza con amigos",
		Category:        &models.Category{Name: "Comida", Color: "#FF5733"},
		AutoCategorized: true,
		Date:            time.Date(2024, 8, 15, 23, 30, 0, 0, time.UTC),
	}

	got := g.Confirmation(expense)
	assert.Equal(t, "✅ Saved\n\n"+
		"💵 Amount: $1.500,50\n"+
		"📝 Description: pizza con amigos\n"+
		"📂 Category: 🔴 Comida (auto)\n"+
		"📅 15 Aug 2024, 20:30", got)

	expense.Category = nil
	expense.AutoCategorized = false
	assert.Contains(t, g.Confirmation(expense), "📂 Category: 📂 Uncategorized\n")
}

func TestSuggestionPrompt(t *testing.T) {
	g := NewGenerator(nil, nil, 0)
	prompt := g.SuggestionPrompt(models.CategorySuggestion{
		Category:   &models.Category{Name: "Comida", Color: "#FF5733"},
		Confidence: 0.6,
		Reason:     models.ReasonPartialMatch,
	})
	assert.Equal(t, "🤔 Is this 🔴 Comida? (60% sure, partial_match)", prompt)
	assert.Equal(t, "🤷 No category suggestion", g.SuggestionPrompt(models.NoMatch()))
}

func sampleStats() models.AccuracyStats {
	return models.AccuracyStats{
		TotalSuggestions: 3,
		Accepted:         2,
		Rejected:         1,
		Accuracy:         0.67,
		ByCategory: []models.CategoryAccuracy{
			{CategoryName: "Comida", Total: 2, Accepted: 1, Accuracy: 0.5},
			{CategoryName: "Transporte", Total: 1, Accepted: 1, Accuracy: 1},
		},
	}
}

func TestStats_Text(t *testing.T) {
	g := NewGenerator(nil, nil, 0)
	out, err := g.Stats(sampleStats(), FormatText)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Total suggestions: 3\n")
	assert.Contains(t, text, "Accuracy: 67%\n")
	assert.Contains(t, text, "• Comida: 1/2 (50%)\n")
	assert.Contains(t, text, "• Transporte: 1/1 (100%)\n")

	empty, err := g.Stats(models.AccuracyStats{}, "")
	require.NoError(t, err)
	assert.Contains(t, string(empty), "No feedback recorded yet.")
}

func TestStats_JSON(t *testing.T) {
	g := NewGenerator(nil, nil, 0)
	out, err := g.Stats(sampleStats(), FormatJSON)
	require.NoError(t, err)

	var decoded models.AccuracyStats
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, sampleStats(), decoded)
}

func TestStats_CSV(t *testing.T) {
	g := NewGenerator(nil, nil, ';')
	out, err := g.Stats(sampleStats(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "category;total;accepted;accuracy\nComida;2;1;0.5\nTransporte;1;1;1\n", string(out))
}

func TestStats_UnsupportedFormat(t *testing.T) {
	_, err := NewGenerator(nil, nil, 0).Stats(sampleStats(), "xml")
	assert.EqualError(t, err, "unsupported report format: xml")
}

func TestSummarize(t *testing.T) {
	comida := &models.Category{Name: "Comida", Color: "#FF5733"}
	transporte := &models.Category{Name: "Transporte", Color: "#3366FF"}
	day := func(d int) time.Time { return time.Date(2024, 8, d, 12, 0, 0, 0, time.UTC) }
	expenses := []models.Expense{
		{Amount: decimal.NewFromInt(3000), Category: comida, Date: day(1)},
		{Amount: decimal.NewFromInt(1000), Category: transporte, Date: day(2)},
		{Amount: decimal.NewFromInt(1000), Date: day(3)},
		{Amount: decimal.NewFromInt(5000), Category: comida, Date: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)},
	}

	from, to := MonthRange(day(10))
	s := Summarize("August 2024", expenses, from, to)

	assert.Equal(t, 3, s.Count)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(5000)))
	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, "Comida", s.ByCategory[0].Name)
	assert.Equal(t, 60.0, s.ByCategory[0].Percentage)
	assert.Equal(t, "Transporte", s.ByCategory[1].Name)
	assert.Equal(t, UncategorizedLabel, s.ByCategory[2].Name)

	text := NewGenerator(nil, nil, 0).SummaryText(s)
	assert.Contains(t, text, "💰 Total spent: $5.000\n")
	assert.Contains(t, text, "🔴 Comida: $3.000 (60%)\n")
	assert.Contains(t, text, "🔵 Transporte: $1.000 (20%)\n")
	assert.Contains(t, text, "📂 Uncategorized: $1.000 (20%)\n")
}

func TestSummaryText_Empty(t *testing.T) {
	s := Summarize("August 2024", nil, time.Time{}, time.Now())
	text := NewGenerator(nil, nil, 0).SummaryText(s)
	assert.True(t, strings.HasPrefix(text, "📊 Summary of August 2024"))
	assert.Contains(t, text, "No expenses recorded in this period yet.")
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
