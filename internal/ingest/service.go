// Package ingest runs the expense pipeline: parse the message, suggest a
// category, decide whether to auto-accept it, persist the expense and record
// feedback.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ivanvallejoss/smartexpense/internal/categorizer"
	"github.com/ivanvallejoss/smartexpense/internal/expenseparser"
	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/parsererror"
)

// DefaultAutoAcceptThreshold is the confidence at or above which a
// suggestion is applied without asking the user.
const DefaultAutoAcceptThreshold = 0.8

// ExpenseStore persists expenses.
type ExpenseStore interface {
	SaveExpense(ctx context.Context, e models.Expense) (models.Expense, error)
	GetExpense(ctx context.Context, id int64) (models.Expense, error)
	UpdateExpenseCategory(ctx context.Context, id int64, category *models.Category, auto bool) error
}

// Store is everything the pipeline needs from persistence.
type Store interface {
	categorizer.Store
	ExpenseStore
}

// Result is the outcome of ingesting one message. Expense is nil when the
// message could not be parsed or saved.
type Result struct {
	Parsed          models.ParsedExpense
	Expense         *models.Expense
	Suggestion      models.CategorySuggestion
	AutoCategorized bool
	// NeedsConfirmation is set when a category was suggested below the
	// auto-accept threshold.
	NeedsConfirmation bool
}

// Service ingests messages for any number of users. One suggestion engine is
// kept per user.
type Service struct {
	parser     *expenseparser.Parser
	store      Store
	defaults   models.DefaultCategoryTable
	logger     logging.Logger
	threshold  float64
	now        func() time.Time
	engineOpts []categorizer.Option

	mu      sync.Mutex
	engines map[int64]*categorizer.Engine
}

// Option configures a Service.
type Option func(*Service)

// WithAutoAcceptThreshold overrides DefaultAutoAcceptThreshold. Values
// outside (0, 1] are ignored.
func WithAutoAcceptThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// WithClock sets the time source used to date expenses.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEngineOptions passes options to every engine the service creates.
func WithEngineOptions(opts ...categorizer.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// NewService creates a Service.
func NewService(parser *expenseparser.Parser, store Store, defaults models.DefaultCategoryTable, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		parser:    parser,
		store:     store,
		defaults:  defaults,
		logger:    logging.OrDiscard(logger),
		threshold: DefaultAutoAcceptThreshold,
		now:       time.Now,
		engines:   make(map[int64]*categorizer.Engine),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the auto-accept threshold in use.
func (s *Service) Threshold() float64 {
	return s.threshold
}

// Engine returns the suggestion engine of userID, creating it on first use.
func (s *Service) Engine(userID int64) *categorizer.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.engines[userID]; ok {
		return e
	}
	e := categorizer.NewEngine(s.store, userID, s.defaults, s.logger, s.engineOpts...)
	s.engines[userID] = e
	return e
}

// Ingest processes a message dated now.
func (s *Service) Ingest(ctx context.Context, userID int64, message string) (Result, error) {
	return s.IngestAt(ctx, userID, message, s.now())
}

// IngestAt processes a message for the given date. A message that cannot be
// parsed returns its *parsererror.ParseError; Result.Parsed is always set.
func (s *Service) IngestAt(ctx context.Context, userID int64, message string, date time.Time) (Result, error) {
	logger := logging.ForUser(s.logger, userID)

	parsed := s.parser.Parse(message)
	result := Result{Parsed: parsed, Suggestion: models.NoMatch()}
	if !parsed.Succeeded {
		logger.Debug("Message rejected", logging.F(logging.FieldReason, parsed.Error))
		return result, parsed.Err
	}

	engine := s.Engine(userID)
	if parsed.Description != models.NoDescription {
		result.Suggestion = engine.Suggest(ctx, parsed.Description)
	}
	result.AutoCategorized = s.shouldAutoAccept(result.Suggestion)
	result.NeedsConfirmation = result.Suggestion.HasCategory() && !result.AutoCategorized

	expense := models.Expense{
		UserID:      userID,
		Amount:      parsed.Amount,
		Description: parsed.Description,
		Date:        date,
		RawMessage:  message,
	}
	if result.AutoCategorized {
		expense.Category = result.Suggestion.Category
		expense.AutoCategorized = true
	}

	saved, err := s.store.SaveExpense(ctx, expense)
	if err != nil {
		return result, &parsererror.StoreError{Op: "save expense", Err: err}
	}
	result.Expense = &saved

	if result.AutoCategorized {
		if _, err := engine.RecordFeedback(ctx, saved.ID, result.Suggestion.Category, true, result.Suggestion.Category); err != nil {
			logger.WithError(err).Warn("Could not record feedback for auto-categorized expense",
				logging.F(logging.FieldExpenseID, saved.ID))
		}
		logger.Info("Expense auto-categorized",
			logging.F(logging.FieldExpenseID, saved.ID),
			logging.F(logging.FieldAmount, saved.Amount.String()),
			logging.F(logging.FieldCategory, models.CategoryName(saved.Category)),
			logging.F(logging.FieldConfidence, result.Suggestion.Confidence))
	} else {
		logger.Info("Expense saved without category",
			logging.F(logging.FieldExpenseID, saved.ID),
			logging.F(logging.FieldAmount, saved.Amount.String()),
			logging.F(logging.FieldReason, result.Suggestion.Reason))
	}
	return result, nil
}

func (s *Service) shouldAutoAccept(suggestion models.CategorySuggestion) bool {
	return suggestion.HasCategory() && suggestion.Confidence >= s.threshold
}

// Confirm applies the user's answer to a suggestion: the expense gets final
// (or suggested, when accepted and final is nil) and feedback is recorded.
func (s *Service) Confirm(ctx context.Context, userID, expenseID int64, suggested *models.Category, accepted bool, final *models.Category) (models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return models.Expense{}, &parsererror.StoreError{Op: "get expense", Err: err}
	}
	if expense.UserID != userID {
		return models.Expense{}, fmt.Errorf("expense %d of user %d: %w", expenseID, userID, parsererror.ErrNotFound)
	}

	if accepted && final == nil {
		final = suggested
	}
	if err := s.store.UpdateExpenseCategory(ctx, expenseID, final, false); err != nil {
		return models.Expense{}, &parsererror.StoreError{Op: "update expense category", Err: err}
	}
	if _, err := s.Engine(userID).RecordFeedback(ctx, expenseID, suggested, accepted, final); err != nil {
		// Without feedback the answer is not applied: put the previous category back.
		if rerr := s.store.UpdateExpenseCategory(ctx, expenseID, expense.Category, expense.AutoCategorized); rerr != nil {
			logging.ForExpense(s.logger, userID, expenseID).WithError(rerr).Error("Could not restore expense category")
		}
		return models.Expense{}, err
	}

	expense.Category = final
	expense.AutoCategorized = false

	logging.ForExpense(s.logger, userID, expenseID).Info("Expense category confirmed",
		logging.F(logging.FieldCategory, models.CategoryName(final)),
		logging.F("accepted", accepted))
	return expense, nil
}

// Stats returns the user's suggestion accuracy.
func (s *Service) Stats(ctx context.Context, userID int64) (models.AccuracyStats, error) {
	return s.Engine(userID).AccuracyStats(ctx)
}
