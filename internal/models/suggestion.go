package models

// SuggestionReason tells which tier produced a suggestion.
type SuggestionReason string

const (
	ReasonUserHistory  SuggestionReason = "user_history"
	ReasonKeywordMatch SuggestionReason = "keyword_match"
	ReasonPartialMatch SuggestionReason = "partial_match"
	ReasonNoMatch      SuggestionReason = "no_match"
)

// CategorySuggestion is a scored category proposal for a description.
// A no_match suggestion has a nil Category and zero Confidence.
type CategorySuggestion struct {
	Category       *Category        `json:"category,omitempty"`
	Confidence     float64          `json:"confidence"`
	Reason         SuggestionReason `json:"reason"`
	MatchedKeyword string           `json:"matched_keyword,omitempty"`
}

// NoMatch returns the empty suggestion.
func NoMatch() CategorySuggestion {
	return CategorySuggestion{Reason: ReasonNoMatch}
}

// HasCategory reports whether the suggestion carries a category.
func (s CategorySuggestion) HasCategory() bool {
	return s.Category != nil
}
