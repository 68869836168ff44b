package categorizer

import (
	"context"

	"github.com/ivanvallejoss/smartexpense/internal/models"
)

// Query is a description prepared for matching.
type Query struct {
	UserID      int64
	Description string
	Normalized  string
	Words       []string
}

// Strategy is one tier of the suggestion pipeline. Tiers run in order and
// the first one that reports found wins.
type Strategy interface {
	// Suggest returns the tier's best suggestion and whether it is confident
	// enough to end the pipeline. A suggestion returned with found=false is
	// kept for tracing only.
	Suggest(ctx context.Context, q Query) (models.CategorySuggestion, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
