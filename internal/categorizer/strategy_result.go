package categorizer

import (
	"fmt"
	"strings"

	"github.com/ivanvallejoss/smartexpense/internal/models"
)

// StrategyResult is the outcome of one tier for one query.
type StrategyResult struct {
	Strategy   string
	Suggestion models.CategorySuggestion
	Found      bool
	Error      error
}

// StrategyResults is the ordered trace of the tiers that ran.
type StrategyResults struct {
	Results []StrategyResult
}

// Best returns the first found suggestion, or no_match.
func (sr StrategyResults) Best() models.CategorySuggestion {
	for _, r := range sr.Results {
		if r.Found && r.Error == nil {
			return r.Suggestion
		}
	}
	return models.NoMatch()
}

// GetErrors returns all errors encountered during strategy execution
func (sr StrategyResults) GetErrors() []error {
	var errs []error
	for _, result := range sr.Results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", result.Strategy, result.Error))
		}
	}
	return errs
}

// Summary returns a compact description such as
// "history:no_match, keywords:keyword_match(0.80)".
func (sr StrategyResults) Summary() string {
	var parts []string
	for _, result := range sr.Results {
		status := "no_match"
		switch {
		case result.Error != nil:
			status = "failed"
		case result.Found:
			status = fmt.Sprintf("%s(%.2f)", result.Suggestion.Reason, result.Suggestion.Confidence)
		case result.Suggestion.HasCategory():
			status = fmt.Sprintf("below_threshold(%.2f)", result.Suggestion.Confidence)
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
