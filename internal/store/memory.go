package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/parsererror"
)

// Operation names accepted by FailOn and Calls.
const (
	OpRecentCategorized = "recent_categorized"
	OpCategoriesForUser = "categories_for_user"
	OpGetOrCreate       = "get_or_create_category"
	OpCreateCategory    = "create_category"
	OpAppendFeedback    = "append_feedback"
	OpFeedbackForUser   = "feedback_for_user"
	OpSaveExpense       = "save_expense"
	OpGetExpense        = "get_expense"
	OpUpdateCategory    = "update_expense_category"
	OpListExpenses      = "list_expenses"
)

// MemoryStore keeps everything in process memory. It is safe for concurrent
// use and is used by tests and the memory driver. Failures can be injected
// per operation with FailOn.
type MemoryStore struct {
	mu         sync.Mutex
	categories []models.Category
	expenses   []models.Expense
	feedback   []models.FeedbackRecord
	nextCatID  int64
	nextExpID  int64
	failures   map[string]error
	calls      map[string]int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// FailOn makes every subsequent call to op return err. A nil err clears it.
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls returns how many times op has been invoked.
func (s *MemoryStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter records the call and returns any injected failure. Callers hold mu.
func (s *MemoryStore) enter(op string) error {
	s.calls[op]++
	return s.failures[op]
}

// CreateCategory adds a category. A nil userID creates a global category.
func (s *MemoryStore) CreateCategory(ctx context.Context, userID *int64, name string, keywords []string, color string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCreateCategory); err != nil {
		return models.Category{}, err
	}
	if strings.TrimSpace(name) == "" {
		return models.Category{}, &parsererror.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if _, ok := s.findLocked(userID, name); ok {
		return models.Category{}, fmt.Errorf("category %q: %w", name, parsererror.ErrDuplicate)
	}
	return s.insertLocked(userID, name, keywords, color), nil
}

func (s *MemoryStore) insertLocked(userID *int64, name string, keywords []string, color string) models.Category {
	s.nextCatID++
	c := models.Category{
		ID:       s.nextCatID,
		Name:     name,
		Keywords: append([]string(nil), keywords...),
		Color:    color,
		IsGlobal: userID == nil,
	}
	if userID != nil {
		owner := *userID
		c.OwnerUserID = &owner
	}
	s.categories = append(s.categories, c)
	return copyCategory(c)
}

func (s *MemoryStore) findLocked(userID *int64, name string) (models.Category, bool) {
	for _, c := range s.categories {
		if c.Name != name {
			continue
		}
		if userID == nil && c.IsGlobal {
			return c, true
		}
		if userID != nil && c.OwnedBy(*userID) {
			return c, true
		}
	}
	return models.Category{}, false
}

// CategoriesForUser returns the user's categories followed by global ones,
// each group ordered by name.
func (s *MemoryStore) CategoriesForUser(ctx context.Context, userID int64) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCategoriesForUser); err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.IsGlobal || c.OwnedBy(userID) {
			out = append(out, copyCategory(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsGlobal != out[j].IsGlobal {
			return !out[i].IsGlobal
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// GetOrCreateCategory implements the atomic get-or-create under the store
// mutex.
func (s *MemoryStore) GetOrCreateCategory(ctx context.Context, userID int64, name string, keywords []string, color string) (models.Category, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetOrCreate); err != nil {
		return models.Category{}, false, err
	}
	if c, ok := s.findLocked(&userID, name); ok {
		return copyCategory(c), false, nil
	}
	return s.insertLocked(&userID, name, keywords, color), true, nil
}

// RecentCategorizedExpenses returns categorized expenses with a description,
// most recent first.
func (s *MemoryStore) RecentCategorizedExpenses(ctx context.Context, userID int64, limit int) ([]models.ExpenseHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpRecentCategorized); err != nil {
		return nil, err
	}

	var out []models.ExpenseHistory
	for _, e := range s.expenses {
		if e.UserID != userID || e.Category == nil || strings.TrimSpace(e.Description) == "" {
			continue
		}
		out = append(out, models.ExpenseHistory{
			ExpenseID:   e.ID,
			Description: e.Description,
			Category:    copyCategory(*e.Category),
			Date:        e.Date,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ExpenseID > out[j].ExpenseID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SaveExpense assigns an ID and stores the expense.
func (s *MemoryStore) SaveExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	if err := validateExpense(e); err != nil {
		return models.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpSaveExpense); err != nil {
		return models.Expense{}, err
	}
	s.nextExpID++
	e.ID = s.nextExpID
	e = copyExpense(e)
	s.expenses = append(s.expenses, e)
	return copyExpense(e), nil
}

// GetExpense returns the expense with the given ID or ErrNotFound.
func (s *MemoryStore) GetExpense(ctx context.Context, id int64) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetExpense); err != nil {
		return models.Expense{}, err
	}
	for _, e := range s.expenses {
		if e.ID == id {
			return copyExpense(e), nil
		}
	}
	return models.Expense{}, fmt.Errorf("expense %d: %w", id, parsererror.ErrNotFound)
}

// ListExpenses returns the user's expenses, most recent first.
func (s *MemoryStore) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListExpenses); err != nil {
		return nil, err
	}
	var out []models.Expense
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, copyExpense(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// UpdateExpenseCategory sets the category of an expense. A nil category
// clears it.
func (s *MemoryStore) UpdateExpenseCategory(ctx context.Context, id int64, category *models.Category, auto bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpdateCategory); err != nil {
		return err
	}
	for i := range s.expenses {
		if s.expenses[i].ID != id {
			continue
		}
		if category == nil {
			s.expenses[i].Category = nil
		} else {
			c := copyCategory(*category)
			s.expenses[i].Category = &c
		}
		s.expenses[i].AutoCategorized = auto
		return nil
	}
	return fmt.Errorf("expense %d: %w", id, parsererror.ErrNotFound)
}

// AppendFeedback stores a feedback record.
func (s *MemoryStore) AppendFeedback(ctx context.Context, rec models.FeedbackRecord) (models.FeedbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpAppendFeedback); err != nil {
		return models.FeedbackRecord{}, err
	}
	if rec.ID == "" {
		return models.FeedbackRecord{}, &parsererror.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	for _, f := range s.feedback {
		if f.ID == rec.ID {
			return models.FeedbackRecord{}, fmt.Errorf("feedback %s: %w", rec.ID, parsererror.ErrDuplicate)
		}
	}
	rec = copyFeedback(rec)
	s.feedback = append(s.feedback, rec)
	return copyFeedback(rec), nil
}

// FeedbackForUser returns the user's feedback in insertion order.
func (s *MemoryStore) FeedbackForUser(ctx context.Context, userID int64) ([]models.FeedbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpFeedbackForUser); err != nil {
		return nil, err
	}
	var out []models.FeedbackRecord
	for _, f := range s.feedback {
		if f.UserID == userID {
			out = append(out, copyFeedback(f))
		}
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func validateExpense(e models.Expense) error {
	if !e.Amount.IsPositive() {
		return &parsererror.ValidationError{Field: "amount", Reason: fmt.Sprintf("must be greater than 0 (got: %s)", e.Amount.String())}
	}
	if e.Date.IsZero() {
		return &parsererror.ValidationError{Field: "date", Reason: "must be set"}
	}
	return nil
}

func copyCategory(c models.Category) models.Category {
	c.Keywords = append([]string(nil), c.Keywords...)
	if c.OwnerUserID != nil {
		owner := *c.OwnerUserID
		c.OwnerUserID = &owner
	}
	return c
}

func copyCategoryPtr(c *models.Category) *models.Category {
	if c == nil {
		return nil
	}
	cp := copyCategory(*c)
	return &cp
}

func copyExpense(e models.Expense) models.Expense {
	e.Category = copyCategoryPtr(e.Category)
	return e
}

func copyFeedback(f models.FeedbackRecord) models.FeedbackRecord {
	f.SuggestedCategory = copyCategoryPtr(f.SuggestedCategory)
	f.FinalCategory = copyCategoryPtr(f.FinalCategory)
	return f
}
