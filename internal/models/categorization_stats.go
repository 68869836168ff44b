package models

import (
	"github.com/ivanvallejoss/smartexpense/internal/logging"
)

// CategorizationStats tracks the outcome of a batch of ingested messages.
type CategorizationStats struct {
	Total           int // messages processed
	AutoCategorized int // saved with a category above the auto-accept threshold
	Pending         int // saved, waiting for the user to confirm a category
	Failed          int // messages that could not be parsed or saved
}

// LogSummary logs a summary of the batch.
func (cs CategorizationStats) LogSummary(logger logging.Logger, source string) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: logging.FieldInputFile, Value: source},
		logging.Field{Key: "total_messages", Value: cs.Total},
		logging.Field{Key: "auto_categorized", Value: cs.AutoCategorized},
		logging.Field{Key: "pending", Value: cs.Pending},
		logging.Field{Key: "failed", Value: cs.Failed},
		logging.Field{Key: "auto_rate", Value: cs.AutoRate()},
	)
}

// AutoRate is the percentage of messages auto-categorized.
func (cs CategorizationStats) AutoRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.AutoCategorized) / float64(cs.Total) * 100.0
}
