package categorizer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
)

// RecordFeedback appends a feedback record for expenseID. When the
// suggestion was accepted and final is nil, final is the suggested category.
func (e *Engine) RecordFeedback(ctx context.Context, expenseID int64, suggested *models.Category, accepted bool, final *models.Category) (models.FeedbackRecord, error) {
	if accepted && final == nil {
		final = suggested
	}

	rec := models.FeedbackRecord{
		ID:                e.newID(),
		ExpenseID:         expenseID,
		UserID:            e.userID,
		SuggestedCategory: suggested,
		WasAccepted:       accepted,
		FinalCategory:     final,
		CreatedAt:         e.now(),
	}

	saved, err := e.store.AppendFeedback(ctx, rec)
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("failed to record feedback for expense %d: %w", expenseID, err)
	}

	e.logger.Debug("Recorded suggestion feedback",
		logging.F(logging.FieldExpenseID, expenseID),
		logging.F(logging.FieldCategory, models.CategoryName(suggested)),
		logging.F("accepted", accepted))
	return saved, nil
}

// AccuracyStats aggregates every feedback record of the user.
func (e *Engine) AccuracyStats(ctx context.Context) (models.AccuracyStats, error) {
	records, err := e.store.FeedbackForUser(ctx, e.userID)
	if err != nil {
		return models.AccuracyStats{}, fmt.Errorf("failed to load feedback: %w", err)
	}
	return ComputeAccuracy(records), nil
}

// ComputeAccuracy aggregates feedback records. Accuracies are rounded to two
// decimals and are 0 when there is no feedback. ByCategory groups by the
// suggested category's name, unlabeled suggestions under
// models.UncategorizedName, ordered by total descending then name.
func ComputeAccuracy(records []models.FeedbackRecord) models.AccuracyStats {
	stats := models.AccuracyStats{ByCategory: []models.CategoryAccuracy{}}

	groups := make(map[string]*models.CategoryAccuracy)
	for _, rec := range records {
		stats.TotalSuggestions++
		if rec.WasAccepted {
			stats.Accepted++
		}

		name := models.CategoryName(rec.SuggestedCategory)
		g, ok := groups[name]
		if !ok {
			g = &models.CategoryAccuracy{CategoryName: name}
			groups[name] = g
		}
		g.Total++
		if rec.WasAccepted {
			g.Accepted++
		}
	}

	stats.Rejected = stats.TotalSuggestions - stats.Accepted
	stats.Accuracy = ratio(stats.Accepted, stats.TotalSuggestions)

	for _, g := range groups {
		g.Accuracy = ratio(g.Accepted, g.Total)
		stats.ByCategory = append(stats.ByCategory, *g)
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		a, b := stats.ByCategory[i], stats.ByCategory[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.CategoryName < b.CategoryName
	})

	return stats
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(part)/float64(total)*100) / 100
}
