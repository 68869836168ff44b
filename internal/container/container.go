// Package container provides dependency injection for the smartexpense
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"github.com/ivanvallejoss/smartexpense/internal/batch"
	"github.com/ivanvallejoss/smartexpense/internal/categorizer"
	"github.com/ivanvallejoss/smartexpense/internal/common"
	"github.com/ivanvallejoss/smartexpense/internal/config"
	"github.com/ivanvallejoss/smartexpense/internal/expenseparser"
	"github.com/ivanvallejoss/smartexpense/internal/ingest"
	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/report"
	"github.com/ivanvallejoss/smartexpense/internal/store"
)

// Store is the persistence surface the commands use.
type Store interface {
	ingest.Store
	CreateCategory(ctx context.Context, userID *int64, name string, keywords []string, color string) (models.Category, error)
	ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error)
	Close() error
}

var (
	_ Store = (*store.MemoryStore)(nil)
	_ Store = (*store.SQLiteStore)(nil)
)

// Container holds all application dependencies and provides methods to access them.
// Container is immutable after creation.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	store     Store
	defaults  models.DefaultCategoryTable
	parser    *expenseparser.Parser
	service   *ingest.Service
	reporter  *report.Generator
	processor *batch.Processor
	delimiter rune
}

// NewContainer creates and wires all application dependencies, logging with
// a logrus adapter configured from cfg.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(ctx, cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDiscard(logger)

	delimiter, err := common.ParseDelimiter(cfg.CSV.Delimiter)
	if err != nil {
		return nil, err
	}

	defaults, err := store.LoadDefaultCategories(cfg.Categorization.DefaultsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load default categories: %w", err)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	parser := expenseparser.NewParser(logger,
		expenseparser.WithSmallQuantityThreshold(cfg.Parser.SmallQuantityThreshold))

	service := ingest.NewService(parser, st, defaults, logger,
		ingest.WithAutoAcceptThreshold(cfg.Categorization.AutoAcceptThreshold),
		ingest.WithEngineOptions(categorizer.WithHistoryLimit(cfg.Categorization.HistoryLimit)))

	location := cfg.Location()

	logger.Debug("Container initialized",
		logging.F("store_driver", cfg.Store.Driver),
		logging.F("default_categories", len(defaults.Categories)))

	return &Container{
		logger:    logger,
		config:    cfg,
		store:     st,
		defaults:  defaults,
		parser:    parser,
		service:   service,
		reporter:  report.NewGenerator(logger, location, delimiter),
		processor: batch.NewProcessor(service, location, logger),
		delimiter: delimiter,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverSQLite, "":
		s, err := store.NewSQLiteStore(cfg.Store.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to migrate store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the persistence collaborator.
func (c *Container) GetStore() Store {
	return c.store
}

// GetDefaults returns the default category table.
func (c *Container) GetDefaults() models.DefaultCategoryTable {
	return c.defaults
}

// GetParser returns the expense message parser.
func (c *Container) GetParser() *expenseparser.Parser {
	return c.parser
}

// GetService returns the ingest service.
func (c *Container) GetService() *ingest.Service {
	return c.service
}

// GetEngine returns the suggestion engine of userID.
func (c *Container) GetEngine(userID int64) *categorizer.Engine {
	return c.service.Engine(userID)
}

// GetReporter returns the report generator.
func (c *Container) GetReporter() *report.Generator {
	return c.reporter
}

// GetBatchProcessor returns the batch message processor.
func (c *Container) GetBatchProcessor() *batch.Processor {
	return c.processor
}

// GetDelimiter returns the configured CSV delimiter.
func (c *Container) GetDelimiter() rune {
	return c.delimiter
}

// Close releases the store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
