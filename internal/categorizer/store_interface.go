package categorizer

import (
	"context"

	"github.com/ivanvallejoss/smartexpense/internal/models"
)

// CategoryStore is what the suggestion engine reads and writes. Lookup
// failures are tolerated by the engine; GetOrCreateCategory must be atomic
// per (name, user).
type CategoryStore interface {
	// RecentCategorizedExpenses returns up to limit categorized expenses with a
	// non-empty description, most recent first.
	RecentCategorizedExpenses(ctx context.Context, userID int64, limit int) ([]models.ExpenseHistory, error)
	// CategoriesForUser returns the user's own categories plus global ones.
	CategoriesForUser(ctx context.Context, userID int64) ([]models.Category, error)
	// GetOrCreateCategory returns the user's category with name, creating it
	// with keywords and color when absent. The bool reports creation.
	GetOrCreateCategory(ctx context.Context, userID int64, name string, keywords []string, color string) (models.Category, bool, error)
}

// FeedbackStore persists suggestion feedback.
type FeedbackStore interface {
	AppendFeedback(ctx context.Context, rec models.FeedbackRecord) (models.FeedbackRecord, error)
	FeedbackForUser(ctx context.Context, userID int64) ([]models.FeedbackRecord, error)
}

// Store combines both contracts.
type Store interface {
	CategoryStore
	FeedbackStore
}
