package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/parsererror"
	"github.com/ivanvallejoss/smartexpense/internal/textutils"
)

// DefaultsStrategy matches the description against the default category
// table and provisions the matching category for the user.
type DefaultsStrategy struct {
	engine *Engine
}

// Name returns the name of this strategy for logging and debugging.
func (s *DefaultsStrategy) Name() string {
	return "default_keywords"
}

// Suggest scans the default table in order. For each entry an exact word
// match is tried before a substring match.
func (s *DefaultsStrategy) Suggest(ctx context.Context, q Query) (models.CategorySuggestion, bool, error) {
	for _, dc := range s.engine.defaults.Categories {
		keywords := normalizeKeywords(dc.Keywords)

		if word, ok := exactDefaultMatch(q.Words, keywords); ok {
			return s.provision(ctx, q, dc, models.CategorySuggestion{
				Confidence:     ConfidenceKeywordExact,
				Reason:         models.ReasonKeywordMatch,
				MatchedKeyword: word,
			})
		}
		if kw, ok := partialDefaultMatch(q.Words, keywords); ok {
			return s.provision(ctx, q, dc, models.CategorySuggestion{
				Confidence:     ConfidenceKeywordPartial,
				Reason:         models.ReasonPartialMatch,
				MatchedKeyword: kw,
			})
		}
	}
	return models.NoMatch(), false, nil
}

func (s *DefaultsStrategy) provision(ctx context.Context, q Query, dc models.DefaultCategory, suggestion models.CategorySuggestion) (models.CategorySuggestion, bool, error) {
	category, err := s.engine.provisionCategory(ctx, dc)
	if err != nil {
		return models.NoMatch(), false, &parsererror.CategorizationError{
			Description: q.Description,
			Strategy:    s.Name(),
			Err:         err,
		}
	}
	suggestion.Category = &category
	return suggestion, true, nil
}

// provisionCategory gets or creates dc for the user. A failed creation, such
// as a concurrent insert of the same name, is resolved by re-reading the
// user's categories.
func (e *Engine) provisionCategory(ctx context.Context, dc models.DefaultCategory) (models.Category, error) {
	color := dc.Color
	if color == "" {
		color = models.DefaultCategoryColor
	}

	category, created, err := e.store.GetOrCreateCategory(ctx, e.userID, dc.Name, dc.Keywords, color)
	e.InvalidateCache()

	if err != nil {
		e.logger.WithError(err).Warn("Could not provision category, re-reading categories",
			logging.F(logging.FieldCategory, dc.Name))

		existing, found, lookupErr := e.FindCategory(ctx, dc.Name)
		if lookupErr != nil {
			return models.Category{}, fmt.Errorf("provision %s: %w (lookup: %v)", dc.Name, err, lookupErr)
		}
		if !found {
			return models.Category{}, fmt.Errorf("provision %s: %w", dc.Name, err)
		}
		return existing, nil
	}

	if created {
		e.logger.Info("Auto-created category",
			logging.F(logging.FieldCategory, dc.Name),
			logging.F(logging.FieldCount, len(dc.Keywords)))
	}
	return category, nil
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if k := textutils.Normalize(kw); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func exactDefaultMatch(words, keywords []string) (string, bool) {
	for _, word := range words {
		for _, kw := range keywords {
			if word == kw {
				return word, true
			}
		}
	}
	return "", false
}

func partialDefaultMatch(words, keywords []string) (string, bool) {
	for _, kw := range keywords {
		for _, word := range words {
			if strings.Contains(word, kw) || strings.Contains(kw, word) {
				return kw, true
			}
		}
	}
	return "", false
}
