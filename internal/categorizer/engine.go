// Package categorizer suggests a spending category for an expense
// description. Suggestions come from an ordered set of tiers:
//  1. The user's own history (exact description, then shared words)
//  2. Keywords of the user's and global categories (exact, then substring)
//  3. The default category table, provisioning the category for the user
//
// It also records suggestion feedback and aggregates accuracy statistics.
package categorizer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/textutils"
)

// Confidence tiers.
const (
	ConfidenceHistoryExact   = 1.0
	ConfidenceHistoryPartial = 0.9
	ConfidenceKeywordExact   = 0.8
	ConfidenceKeywordPartial = 0.6
	ConfidenceNoMatch        = 0.0

	// MinHistoryOverlap is the smallest share of the description's words a
	// past expense must contain to be considered.
	MinHistoryOverlap = 0.5

	// DefaultHistoryLimit bounds how many past expenses are scanned.
	DefaultHistoryLimit = 100
)

// Engine suggests categories for one user. It caches the user's categories
// and keyword index for its lifetime and drops both whenever it provisions a
// category.
type Engine struct {
	store        Store
	userID       int64
	defaults     models.DefaultCategoryTable
	logger       logging.Logger
	historyLimit int
	now          func() time.Time
	newID        func() string

	strategies []Strategy

	mu         sync.Mutex
	categories []models.Category
	keywordIdx *keywordIndex
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryLimit overrides DefaultHistoryLimit.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

// WithClock sets the time source used to stamp feedback records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the feedback record ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// NewEngine creates an Engine for userID.
func NewEngine(store Store, userID int64, defaults models.DefaultCategoryTable, logger logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		userID:       userID,
		defaults:     defaults,
		logger:       logging.ForUser(logger, userID),
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.strategies = []Strategy{
		&HistoryStrategy{engine: e},
		&KeywordStrategy{engine: e},
		&DefaultsStrategy{engine: e},
	}
	return e
}

// UserID returns the user the engine suggests for.
func (e *Engine) UserID() int64 {
	return e.userID
}

// Suggest returns the best category suggestion for description. It never
// fails: store errors degrade the result towards no_match.
func (e *Engine) Suggest(ctx context.Context, description string) models.CategorySuggestion {
	suggestion, _ := e.SuggestWithTrace(ctx, description)
	return suggestion
}

// SuggestWithTrace is Suggest plus the outcome of every tier that ran.
func (e *Engine) SuggestWithTrace(ctx context.Context, description string) (models.CategorySuggestion, StrategyResults) {
	var trace StrategyResults

	if strings.TrimSpace(description) == "" {
		return models.NoMatch(), trace
	}
	q := Query{
		UserID:      e.userID,
		Description: description,
		Normalized:  textutils.Normalize(description),
		Words:       textutils.ExtractSignificantWords(description),
	}
	if len(q.Words) == 0 {
		e.logger.Debug("Description has no significant words")
		return models.NoMatch(), trace
	}

	for _, strategy := range e.strategies {
		suggestion, found, err := strategy.Suggest(ctx, q)
		trace.Results = append(trace.Results, StrategyResult{
			Strategy:   strategy.Name(),
			Suggestion: suggestion,
			Found:      found,
			Error:      err,
		})
		if err != nil {
			e.logger.WithError(err).Warn("Suggestion tier failed, continuing",
				logging.F(logging.FieldStrategy, strategy.Name()))
			continue
		}
		if found {
			e.logger.WithFields(
				logging.F(logging.FieldStrategy, strategy.Name()),
				logging.F(logging.FieldCategory, models.CategoryName(suggestion.Category)),
				logging.F(logging.FieldConfidence, suggestion.Confidence),
				logging.F(logging.FieldReason, suggestion.Reason),
				logging.F(logging.FieldKeyword, suggestion.MatchedKeyword),
			).Debug("Category suggested")
			return suggestion, trace
		}
	}

	e.logger.Debug("No category matched", logging.F("trace", trace.Summary()))
	return models.NoMatch(), trace
}

// Categories returns the user's categories plus global ones, loading them
// once per cache generation.
func (e *Engine) Categories(ctx context.Context) ([]models.Category, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.categoriesLocked(ctx)
}

func (e *Engine) categoriesLocked(ctx context.Context) ([]models.Category, error) {
	if e.categories != nil {
		return e.categories, nil
	}
	cats, err := e.store.CategoriesForUser(ctx, e.userID)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []models.Category{}
	}
	e.categories = cats
	return cats, nil
}

// FindCategory looks a category up by name, preferring the user's own over a
// global one with the same name.
func (e *Engine) FindCategory(ctx context.Context, name string) (models.Category, bool, error) {
	cats, err := e.Categories(ctx)
	if err != nil {
		return models.Category{}, false, err
	}
	c, ok := findByName(cats, e.userID, name)
	return c, ok, nil
}

func findByName(cats []models.Category, userID int64, name string) (models.Category, bool) {
	var global *models.Category
	for i := range cats {
		if !strings.EqualFold(cats[i].Name, name) {
			continue
		}
		if cats[i].OwnedBy(userID) {
			return cats[i], true
		}
		if global == nil {
			global = &cats[i]
		}
	}
	if global != nil {
		return *global, true
	}
	return models.Category{}, false
}

// InvalidateCache drops the cached categories and keyword index.
func (e *Engine) InvalidateCache() {
	e.mu.Lock()
	e.categories = nil
	e.keywordIdx = nil
	e.mu.Unlock()
}
