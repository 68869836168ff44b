package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/parsererror"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists categories, expenses and feedback in a SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	logger logging.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dbPath. Call
// Migrate before use.
func NewSQLiteStore(dbPath string, logger logging.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, &parsererror.ValidationError{Field: "dbPath", Reason: "must not be empty"}
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		logger: logging.OrDiscard(logger).WithField("db_path", dbPath),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const categoryColumns = `c.id, c.name, c.user_id, c.keywords, c.color`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (models.Category, error) {
	var (
		c        models.Category
		owner    sql.NullInt64
		keywords string
	)
	if err := row.Scan(&c.ID, &c.Name, &owner, &keywords, &c.Color); err != nil {
		return models.Category{}, err
	}
	return finishCategory(c, owner, keywords)
}

func finishCategory(c models.Category, owner sql.NullInt64, keywords string) (models.Category, error) {
	if owner.Valid {
		id := owner.Int64
		c.OwnerUserID = &id
	} else {
		c.IsGlobal = true
	}
	if keywords != "" {
		if err := json.Unmarshal([]byte(keywords), &c.Keywords); err != nil {
			return models.Category{}, fmt.Errorf("decoding keywords of category %d: %w", c.ID, err)
		}
	}
	return c, nil
}

// nullCategory scans the columns of an optional LEFT JOINed category.
type nullCategory struct {
	id       sql.NullInt64
	name     sql.NullString
	owner    sql.NullInt64
	keywords sql.NullString
	color    sql.NullString
}

func (n *nullCategory) dest() []any {
	return []any{&n.id, &n.name, &n.owner, &n.keywords, &n.color}
}

func (n *nullCategory) category() (*models.Category, error) {
	if !n.id.Valid {
		return nil, nil
	}
	c, err := finishCategory(models.Category{
		ID:    n.id.Int64,
		Name:  n.name.String,
		Color: n.color.String,
	}, n.owner, n.keywords.String)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("encoding keywords: %w", err)
	}
	return string(data), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func categoryID(c *models.Category) sql.NullInt64 {
	if c == nil || c.ID == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: c.ID, Valid: true}
}

// CreateCategory adds a category. A nil userID creates a global category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, userID *int64, name string, keywords []string, color string) (models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return models.Category{}, &parsererror.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	kw, err := encodeKeywords(keywords)
	if err != nil {
		return models.Category{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, user_id, keywords, color) VALUES (?, ?, ?, ?)`,
		name, nullableID(userID), kw, color)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Category{}, fmt.Errorf("category %q: %w", name, parsererror.ErrDuplicate)
		}
		return models.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to read category id: %w", err)
	}

	c := models.Category{ID: id, Name: name, Keywords: append([]string(nil), keywords...), Color: color, IsGlobal: userID == nil}
	if userID != nil {
		owner := *userID
		c.OwnerUserID = &owner
	}
	return c, nil
}

// CategoriesForUser returns the user's categories followed by global ones,
// each group ordered by name.
func (s *SQLiteStore) CategoriesForUser(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		WHERE c.user_id = ? OR c.user_id IS NULL
		ORDER BY c.user_id IS NULL, c.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetOrCreateCategory inserts the category unless (name, user) already
// exists, then reads it back, all inside one transaction.
func (s *SQLiteStore) GetOrCreateCategory(ctx context.Context, userID int64, name string, keywords []string, color string) (models.Category, bool, error) {
	if strings.TrimSpace(name) == "" {
		return models.Category{}, false, &parsererror.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	kw, err := encodeKeywords(keywords)
	if err != nil {
		return models.Category{}, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Category{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (name, user_id, keywords, color) VALUES (?, ?, ?, ?)`,
		name, userID, kw, color)
	if err != nil {
		return models.Category{}, false, fmt.Errorf("failed to insert category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Category{}, false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	c, err := scanCategory(tx.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		WHERE c.name = ? AND c.user_id = ?`, name, userID))
	if err != nil {
		return models.Category{}, false, fmt.Errorf("failed to read category %q: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Category{}, false, fmt.Errorf("failed to commit category: %w", err)
	}
	return c, affected == 1, nil
}

// RecentCategorizedExpenses returns categorized expenses with a description,
// most recent first.
func (s *SQLiteStore) RecentCategorizedExpenses(ctx context.Context, userID int64, limit int) ([]models.ExpenseHistory, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.description, e.date, `+categoryColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ? AND TRIM(e.description) != ''
		ORDER BY e.date DESC, e.id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.ExpenseHistory
	for rows.Next() {
		var (
			h        models.ExpenseHistory
			owner    sql.NullInt64
			keywords string
		)
		if err := rows.Scan(&h.ExpenseID, &h.Description, &h.Date,
			&h.Category.ID, &h.Category.Name, &owner, &keywords, &h.Category.Color); err != nil {
			return nil, fmt.Errorf("failed to scan expense history: %w", err)
		}
		c, err := finishCategory(h.Category, owner, keywords)
		if err != nil {
			return nil, err
		}
		h.Category = c
		out = append(out, h)
	}
	return out, rows.Err()
}

// SaveExpense inserts the expense and returns it with its ID.
func (s *SQLiteStore) SaveExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	if err := validateExpense(e); err != nil {
		return models.Expense{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, amount, description, category_id, auto_categorized, date, raw_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount, e.Description, categoryID(e.Category), e.AutoCategorized, e.Date.UTC(), e.RawMessage)
	if err != nil {
		return models.Expense{}, fmt.Errorf("failed to save expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Expense{}, fmt.Errorf("failed to read expense id: %w", err)
	}
	e.ID = id
	return e, nil
}

const expenseSelect = `
	SELECT e.id, e.user_id, e.amount, e.description, e.auto_categorized, e.date, e.raw_message,
		c.id, c.name, c.user_id, c.keywords, c.color
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id`

func scanExpense(row rowScanner) (models.Expense, error) {
	var (
		e  models.Expense
		nc nullCategory
	)
	dest := append([]any{&e.ID, &e.UserID, &e.Amount, &e.Description, &e.AutoCategorized, &e.Date, &e.RawMessage}, nc.dest()...)
	if err := row.Scan(dest...); err != nil {
		return models.Expense{}, err
	}
	c, err := nc.category()
	if err != nil {
		return models.Expense{}, err
	}
	e.Category = c
	return e, nil
}

// GetExpense returns the expense with the given ID or ErrNotFound.
func (s *SQLiteStore) GetExpense(ctx context.Context, id int64) (models.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx, expenseSelect+` WHERE e.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, fmt.Errorf("expense %d: %w", id, parsererror.ErrNotFound)
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns the user's expenses, most recent first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, expenseSelect+` WHERE e.user_id = ? ORDER BY e.date DESC, e.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateExpenseCategory sets the category of an expense. A nil category
// clears it.
func (s *SQLiteStore) UpdateExpenseCategory(ctx context.Context, id int64, category *models.Category, auto bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET category_id = ?, auto_categorized = ? WHERE id = ?`,
		categoryID(category), auto, id)
	if err != nil {
		return fmt.Errorf("failed to update expense category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", id, parsererror.ErrNotFound)
	}
	return nil
}

// AppendFeedback stores a feedback record.
func (s *SQLiteStore) AppendFeedback(ctx context.Context, rec models.FeedbackRecord) (models.FeedbackRecord, error) {
	if rec.ID == "" {
		return models.FeedbackRecord{}, &parsererror.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, expense_id, user_id, suggested_category_id, was_accepted, final_category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ExpenseID, rec.UserID, categoryID(rec.SuggestedCategory), rec.WasAccepted,
		categoryID(rec.FinalCategory), createdAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return models.FeedbackRecord{}, fmt.Errorf("feedback %s: %w", rec.ID, parsererror.ErrDuplicate)
		}
		return models.FeedbackRecord{}, fmt.Errorf("failed to append feedback: %w", err)
	}
	rec.CreatedAt = createdAt
	return rec, nil
}

// FeedbackForUser returns the user's feedback in insertion order.
func (s *SQLiteStore) FeedbackForUser(ctx context.Context, userID int64) ([]models.FeedbackRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.expense_id, f.user_id, f.was_accepted, f.created_at,
			sc.id, sc.name, sc.user_id, sc.keywords, sc.color,
			fc.id, fc.name, fc.user_id, fc.keywords, fc.color
		FROM feedback f
		LEFT JOIN categories sc ON sc.id = f.suggested_category_id
		LEFT JOIN categories fc ON fc.id = f.final_category_id
		WHERE f.user_id = ?
		ORDER BY f.rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.FeedbackRecord
	for rows.Next() {
		var (
			rec                 models.FeedbackRecord
			suggested, finalCat nullCategory
		)
		dest := []any{&rec.ID, &rec.ExpenseID, &rec.UserID, &rec.WasAccepted, &rec.CreatedAt}
		dest = append(dest, suggested.dest()...)
		dest = append(dest, finalCat.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		if rec.SuggestedCategory, err = suggested.category(); err != nil {
			return nil, err
		}
		if rec.FinalCategory, err = finalCat.category(); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
