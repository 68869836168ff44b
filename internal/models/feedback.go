package models

import "time"

// FeedbackRecord captures whether a suggestion was accepted. Records are
// append-only.
type FeedbackRecord struct {
	ID                string    `json:"id"`
	ExpenseID         int64     `json:"expense_id"`
	UserID            int64     `json:"user_id"`
	SuggestedCategory *Category `json:"suggested_category,omitempty"`
	WasAccepted       bool      `json:"was_accepted"`
	FinalCategory     *Category `json:"final_category,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// AccuracyStats aggregates a user's feedback.
type AccuracyStats struct {
	TotalSuggestions int                `json:"total_suggestions"`
	Accepted         int                `json:"accepted"`
	Rejected         int                `json:"rejected"`
	Accuracy         float64            `json:"accuracy"`
	ByCategory       []CategoryAccuracy `json:"by_category"`
}

// CategoryAccuracy is the accuracy of suggestions for one category.
type CategoryAccuracy struct {
	CategoryName string  `json:"category_name" csv:"category"`
	Total        int     `json:"total" csv:"total"`
	Accepted     int     `json:"accepted" csv:"accepted"`
	Accuracy     float64 `json:"accuracy" csv:"accuracy"`
}
