package categorizer

import (
	"context"

	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/textutils"
)

// HistoryStrategy matches a description against the user's recently
// categorized expenses.
type HistoryStrategy struct {
	engine *Engine
}

// Name returns the name of this strategy for logging and debugging.
func (s *HistoryStrategy) Name() string {
	return "history"
}

// Suggest returns the past expense's category on an exact normalized match.
// Otherwise the past expense sharing the largest share of the description's
// significant words wins; it ends the pipeline only at
// ConfidenceHistoryPartial or above.
func (s *HistoryStrategy) Suggest(ctx context.Context, q Query) (models.CategorySuggestion, bool, error) {
	past, err := s.engine.store.RecentCategorizedExpenses(ctx, q.UserID, s.engine.historyLimit)
	if err != nil {
		return models.NoMatch(), false, err
	}

	var best *models.CategorySuggestion
	for _, h := range past {
		if h.Description == "" {
			continue
		}

		if textutils.Normalize(h.Description) == q.Normalized {
			category := h.Category
			return models.CategorySuggestion{
				Category:       &category,
				Confidence:     ConfidenceHistoryExact,
				Reason:         models.ReasonUserHistory,
				MatchedKeyword: h.Description,
			}, true, nil
		}

		common := textutils.CommonWords(q.Words, textutils.ExtractSignificantWords(h.Description))
		if len(common) == 0 {
			continue
		}
		overlap := float64(len(common)) / float64(len(q.Words))
		if overlap < MinHistoryOverlap {
			continue
		}
		if best == nil || overlap > best.Confidence {
			category := h.Category
			best = &models.CategorySuggestion{
				Category:       &category,
				Confidence:     overlap,
				Reason:         models.ReasonUserHistory,
				MatchedKeyword: common[0],
			}
		}
	}

	if best == nil {
		return models.NoMatch(), false, nil
	}
	return *best, best.Confidence >= ConfidenceHistoryPartial, nil
}
