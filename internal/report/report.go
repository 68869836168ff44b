// Package report renders expenses and suggestion statistics for people:
// plain text for chat-style confirmations, JSON and CSV for tooling.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ivanvallejoss/smartexpense/internal/common"
	"github.com/ivanvallejoss/smartexpense/internal/currencyutils"
	"github.com/ivanvallejoss/smartexpense/internal/dateutils"
	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"

	"github.com/shopspring/decimal"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// UncategorizedLabel is shown for expenses without a category.
const UncategorizedLabel = "Uncategorized"

// Generator renders reports in a configured timezone.
type Generator struct {
	logger    logging.Logger
	location  *time.Location
	delimiter rune
}

// NewGenerator creates a Generator. A nil location means UTC.
func NewGenerator(logger logging.Logger, location *time.Location, delimiter rune) *Generator {
	if location == nil {
		location = time.UTC
	}
	if delimiter == 0 {
		delimiter = common.DefaultDelimiter
	}
	return &Generator{
		logger:    logging.OrDiscard(logger),
		location:  location,
		delimiter: delimiter,
	}
}

// Confirmation renders the message shown after an expense is saved.
func (g *Generator) Confirmation(e models.Expense) string {
	var b strings.Builder
	b.WriteString("✅ Saved\n\n")
	fmt.Fprintf(&b, "💵 Amount: %s\n", currencyutils.FormatARS(e.Amount))
	fmt.Fprintf(&b, "📝 Description: %s\n", e.Description)
	fmt.Fprintf(&b, "📂 Category: %s\n", categoryDisplay(e.Category, e.AutoCategorized))
	fmt.Fprintf(&b, "📅 %s", e.Date.In(g.location).Format("02 Jan 2006, 15:04"))
	return b.String()
}

func categoryDisplay(c *models.Category, auto bool) string {
	if c == nil {
		return DefaultCategoryEmoji + " " + UncategorizedLabel
	}
	display := ColorEmoji(c.Color) + " " + c.Name
	if auto {
		display += " (auto)"
	}
	return display
}

// SuggestionPrompt renders the question asked when a suggestion is below the
// auto-accept threshold.
func (g *Generator) SuggestionPrompt(s models.CategorySuggestion) string {
	if !s.HasCategory() {
		return "🤷 No category suggestion"
	}
	return fmt.Sprintf("🤔 Is this %s %s? (%.0f%% sure, %s)",
		ColorEmoji(s.Category.Color), s.Category.Name, s.Confidence*100, s.Reason)
}

// Stats renders accuracy statistics as text, JSON or CSV. CSV contains the
// per-category rows only.
func (g *Generator) Stats(stats models.AccuracyStats, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return []byte(statsText(stats)), nil
	case FormatJSON:
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return out, nil
	case FormatCSV:
		var buf bytes.Buffer
		if err := common.WriteCSV(stats.ByCategory, &buf, g.delimiter); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func statsText(stats models.AccuracyStats) string {
	var b strings.Builder
	b.WriteString("🎯 Suggestion accuracy\n\n")
	if stats.TotalSuggestions == 0 {
		b.WriteString("No feedback recorded yet.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Total suggestions: %d\n", stats.TotalSuggestions)
	fmt.Fprintf(&b, "Accepted: %d\n", stats.Accepted)
	fmt.Fprintf(&b, "Rejected: %d\n", stats.Rejected)
	fmt.Fprintf(&b, "Accuracy: %.0f%%\n", stats.Accuracy*100)

	if len(stats.ByCategory) > 0 {
		b.WriteString("\nBy category:\n")
		for _, c := range stats.ByCategory {
			fmt.Fprintf(&b, "• %s: %d/%d (%.0f%%)\n", c.CategoryName, c.Accepted, c.Total, c.Accuracy*100)
		}
	}
	return b.String()
}

// CategoryTotal is the spending of one category in a summary.
type CategoryTotal struct {
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// Summary aggregates the expenses of a period.
type Summary struct {
	Title      string          `json:"title"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// Summarize totals the expenses dated within [from, to). Categories are
// ordered by total descending, then name.
func Summarize(title string, expenses []models.Expense, from, to time.Time) Summary {
	s := Summary{Title: title, Total: decimal.Zero, ByCategory: []CategoryTotal{}}
	groups := make(map[string]*CategoryTotal)

	for _, e := range expenses {
		if e.Date.Before(from) || !e.Date.Before(to) {
			continue
		}
		s.Total = s.Total.Add(e.Amount)
		s.Count++

		name, color := UncategorizedLabel, ""
		if e.Category != nil {
			name, color = e.Category.Name, e.Category.Color
		}
		g, ok := groups[name]
		if !ok {
			g = &CategoryTotal{Name: name, Color: color, Total: decimal.Zero}
			groups[name] = g
		}
		g.Total = g.Total.Add(e.Amount)
		g.Count++
	}

	for _, g := range groups {
		if s.Total.IsPositive() {
			g.Percentage = g.Total.Div(s.Total).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		s.ByCategory = append(s.ByCategory, *g)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Name < b.Name
	})
	return s
}

// MonthRange returns the first instant of the month containing t and of the
// following month, in t's location.
func MonthRange(t time.Time) (time.Time, time.Time) {
	return dateutils.StartOfMonth(t), dateutils.StartOfNextMonth(t)
}

// SummaryText renders a spending summary.
func (g *Generator) SummaryText(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Summary of %s\n\n", s.Title)
	if s.Count == 0 {
		b.WriteString("No expenses recorded in this period yet.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "💰 Total spent: %s\n", currencyutils.FormatARS(s.Total))
	fmt.Fprintf(&b, "📦 Expenses: %d\n", s.Count)

	if len(s.ByCategory) > 0 {
		b.WriteString("\nBy category:\n")
		for _, c := range s.ByCategory {
			emoji := DefaultCategoryEmoji
			if c.Name != UncategorizedLabel {
				emoji = ColorEmoji(c.Color)
			}
			fmt.Fprintf(&b, "%s %s: %s (%.0f%%)\n", emoji, c.Name, currencyutils.FormatARS(c.Total), c.Percentage)
		}
	}
	return b.String()
}
