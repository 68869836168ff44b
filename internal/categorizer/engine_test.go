package categorizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID int64 = 1

type fixture struct {
	store  *store.MemoryStore
	logger *logging.MockLogger
	cats   map[string]models.Category
}

func int64Ptr(v int64) *int64 { return &v }

func loadDefaults(t *testing.T) models.DefaultCategoryTable {
	t.Helper()
	table, err := store.LoadDefaultCategories("")
	require.NoError(t, err)
	return table
}

// newFixture seeds the user's categories and, when withHistory is set, three
// categorized past expenses.
func newFixture(t *testing.T, withHistory bool) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store:  store.NewMemoryStore(),
		logger: logging.NewMockLogger(),
		cats:   make(map[string]models.Category),
	}

	seed := []struct {
		name     string
		keywords []string
	}{
		{"Comida", []string{"pizza", "hamburguesa", "almuerzo", "cafe", "café"}},
		{"Transporte", []string{"uber", "taxi", "subte", "colectivo", "nafta"}},
		{"Supermercado", []string{"super", "supermercado", "carrefour", "coto"}},
		{"Delivery", []string{"rappi", "pedidosya", "delivery"}},
	}
	for _, s := range seed {
		c, err := f.store.CreateCategory(ctx, int64Ptr(testUserID), s.name, s.keywords, "#FF5733")
		require.NoError(t, err)
		f.cats[s.name] = c
	}

	if withHistory {
		base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		history := []struct {
			description string
			category    string
		}{
			{"Pizza con amigos", "Comida"},
			{"Uber al trabajo", "Transporte"},
			{"Rappi hamburguesas", "Comida"},
		}
		for i, h := range history {
			c := f.cats[h.category]
			_, err := f.store.SaveExpense(ctx, models.Expense{
				UserID:      testUserID,
				Amount:      decimal.NewFromInt(1000),
				Description: h.description,
				Category:    &c,
				Date:        base.Add(time.Duration(i) * time.Hour),
			})
			require.NoError(t, err)
		}
	}
	return f
}

func (f *fixture) engine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return NewEngine(f.store, testUserID, loadDefaults(t), f.logger, opts...)
}

func TestSuggest_Tiers(t *testing.T) {
	tests := []struct {
		name        string
		description string
		withHistory bool
		category    string
		reason      models.SuggestionReason
		confidence  float64
		keyword     string
	}{
		{"keyword exact", "Pizza familiar", true, "Comida", models.ReasonKeywordMatch, 0.8, "pizza"},
		{"history exact", "Rappi hamburguesas", true, "Comida", models.ReasonUserHistory, 1.0, "Rappi hamburguesas"},
		{"history exact ignores case and accents", "rappi HAMBURGUESAS", true, "Comida", models.ReasonUserHistory, 1.0, "Rappi hamburguesas"},
		{"keyword without history", "Rappi comida", false, "Delivery", models.ReasonKeywordMatch, 0.8, "rappi"},
		{"diminutive partial", "cafecito de la tarde", true, "Comida", models.ReasonPartialMatch, 0.6, "cafe"},
		{"keyword among several words", "Compras en supermercado chino", true, "Supermercado", models.ReasonKeywordMatch, 0.8, "supermercado"},
		{"plural partial", "2 pizzas grandes", true, "Comida", models.ReasonPartialMatch, 0.6, "pizza"},
		{"emoji and punctuation", "Pizza!!! 🍕", true, "Comida", models.ReasonUserHistory, 1.0, "pizza"},
		{"half overlap defers to keywords", "Uber al centro", true, "Transporte", models.ReasonKeywordMatch, 0.8, "uber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.withHistory)
			got := f.engine(t).Suggest(context.Background(), tt.description)

			require.True(t, got.HasCategory(), "expected a category for %q", tt.description)
			assert.Equal(t, tt.category, got.Category.Name)
			assert.Equal(t, tt.reason, got.Reason)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.keyword, got.MatchedKeyword)
		})
	}
}

func TestSuggest_NoMatch(t *testing.T) {
	for _, description := range []string{"", "   ", "xyz random thing 123", "de la con", "12 34"} {
		t.Run(description, func(t *testing.T) {
			f := newFixture(t, true)
			got := f.engine(t).Suggest(context.Background(), description)

			assert.False(t, got.HasCategory())
			assert.Equal(t, models.ReasonNoMatch, got.Reason)
			assert.Zero(t, got.Confidence)
			assert.Empty(t, got.MatchedKeyword)
		})
	}
}

func TestSuggest_NoSignificantWordsSkipsStore(t *testing.T) {
	f := newFixture(t, true)
	f.engine(t).Suggest(context.Background(), "de la con")

	assert.Equal(t, 0, f.store.Calls(store.OpRecentCategorized))
	assert.Equal(t, 0, f.store.Calls(store.OpCategoriesForUser))
}

func TestSuggest_UserKeywordsShadowGlobal(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.store.CreateCategory(ctx, nil, "Servicios", []string{"luz", "gas", "agua", "internet", "netflix"}, "#FFC300")
	require.NoError(t, err)
	_, err = f.store.CreateCategory(ctx, int64Ptr(testUserID), "Mi Streaming", []string{"netflix", "disney"}, "#C70039")
	require.NoError(t, err)

	engine := f.engine(t)
	got := engine.Suggest(ctx, "Netflix mensual")
	require.True(t, got.HasCategory())
	assert.Equal(t, "Mi Streaming", got.Category.Name)

	got = engine.Suggest(ctx, "factura de internet")
	require.True(t, got.HasCategory())
	assert.Equal(t, "Servicios", got.Category.Name)
	assert.True(t, got.Category.IsGlobal)
}

func TestSuggest_OwnedCategoryWithoutKeywordsUsesDefaults(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	salud, err := s.CreateCategory(ctx, int64Ptr(testUserID), "Salud", nil, "#F38181")
	require.NoError(t, err)

	engine := NewEngine(s, testUserID, loadDefaults(t), nil)
	got := engine.Suggest(ctx, "farmacia")

	require.True(t, got.HasCategory())
	assert.Equal(t, salud.ID, got.Category.ID)
	assert.Equal(t, models.ReasonKeywordMatch, got.Reason)
	assert.Equal(t, 0, s.Calls(store.OpGetOrCreate))
}

func TestSuggest_ProvisionsDefaultCategoryOnce(t *testing.T) {
	s := store.NewMemoryStore()
	logger := logging.NewMockLogger()
	ctx := context.Background()
	engine := NewEngine(s, testUserID, loadDefaults(t), logger)

	first := engine.Suggest(ctx, "Ibuprofeno farmacia")
	require.True(t, first.HasCategory())
	assert.Equal(t, "Salud", first.Category.Name)
	assert.Equal(t, "#F38181", first.Category.Color)
	assert.True(t, first.Category.OwnedBy(testUserID))
	assert.Equal(t, models.ReasonKeywordMatch, first.Reason)
	assert.InDelta(t, ConfidenceKeywordExact, first.Confidence, 1e-9)
	assert.Equal(t, "ibuprofeno", first.MatchedKeyword)
	assert.True(t, logger.HasEntry("INFO", "Auto-created category"))

	second := engine.Suggest(ctx, "farmacia")
	require.True(t, second.HasCategory())
	assert.Equal(t, first.Category.ID, second.Category.ID)
	assert.Equal(t, models.ReasonKeywordMatch, second.Reason)

	cats, err := s.CategoriesForUser(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	assert.Equal(t, 1, s.Calls(store.OpGetOrCreate))
	// The second suggestion re-read the categories after provisioning.
	assert.Equal(t, 3, s.Calls(store.OpCategoriesForUser))
}

func TestSuggest_ProvisionFailureFallsBackToExistingCategory(t *testing.T) {
	s := store.NewMemoryStore()
	logger := logging.NewMockLogger()
	ctx := context.Background()
	existing, err := s.CreateCategory(ctx, int64Ptr(testUserID), "Salud", []string{"kinesiologo"}, "#F38181")
	require.NoError(t, err)
	s.FailOn(store.OpGetOrCreate, errors.New("database is locked"))

	got := NewEngine(s, testUserID, loadDefaults(t), logger).Suggest(ctx, "farmacia")

	require.True(t, got.HasCategory())
	assert.Equal(t, existing.ID, got.Category.ID)
	assert.True(t, logger.HasEntry("WARN", "Could not provision category, re-reading categories"))
}

func TestSuggest_ProvisionFailureWithoutCategoryIsNoMatch(t *testing.T) {
	s := store.NewMemoryStore()
	logger := logging.NewMockLogger()
	s.FailOn(store.OpGetOrCreate, errors.New("disk full"))

	engine := NewEngine(s, testUserID, loadDefaults(t), logger)
	got, trace := engine.SuggestWithTrace(context.Background(), "farmacia")

	assert.False(t, got.HasCategory())
	assert.Equal(t, models.ReasonNoMatch, got.Reason)
	assert.True(t, logger.HasEntry("WARN", "Suggestion tier failed, continuing"))
	require.Len(t, trace.GetErrors(), 1)
	assert.Contains(t, trace.GetErrors()[0].Error(), "default_keywords strategy")
}

func TestSuggest_HistoryFailureDegrades(t *testing.T) {
	f := newFixture(t, true)
	f.store.FailOn(store.OpRecentCategorized, errors.New("timeout"))

	got := f.engine(t).Suggest(context.Background(), "Rappi hamburguesas")

	require.True(t, got.HasCategory())
	assert.Equal(t, "Delivery", got.Category.Name)
	assert.Equal(t, models.ReasonKeywordMatch, got.Reason)
	assert.True(t, f.logger.HasEntry("WARN", "Suggestion tier failed, continuing"))
}

func TestSuggest_CategoryLookupFailureFallsToDefaults(t *testing.T) {
	f := newFixture(t, false)
	f.store.FailOn(store.OpCategoriesForUser, errors.New("timeout"))

	got := f.engine(t).Suggest(context.Background(), "Pizza familiar")

	require.True(t, got.HasCategory())
	assert.Equal(t, f.cats["Comida"].ID, got.Category.ID)
	assert.Equal(t, models.ReasonKeywordMatch, got.Reason)
}

func TestSuggest_EveryStoreCallFails(t *testing.T) {
	f := newFixture(t, true)
	boom := errors.New("unavailable")
	for _, op := range []string{store.OpRecentCategorized, store.OpCategoriesForUser, store.OpGetOrCreate} {
		f.store.FailOn(op, boom)
	}

	got := f.engine(t).Suggest(context.Background(), "Pizza familiar")
	assert.Equal(t, models.NoMatch(), got)
}

func TestEngine_CategoriesAreCached(t *testing.T) {
	f := newFixture(t, false)
	engine := f.engine(t)
	ctx := context.Background()

	for _, d := range []string{"Pizza familiar", "Uber al centro", "Rappi comida"} {
		require.True(t, engine.Suggest(ctx, d).HasCategory())
	}
	assert.Equal(t, 1, f.store.Calls(store.OpCategoriesForUser))

	engine.InvalidateCache()
	engine.Suggest(ctx, "Pizza familiar")
	assert.Equal(t, 2, f.store.Calls(store.OpCategoriesForUser))
}

func TestEngine_FailedLookupIsNotCached(t *testing.T) {
	f := newFixture(t, false)
	engine := f.engine(t)
	ctx := context.Background()

	f.store.FailOn(store.OpCategoriesForUser, errors.New("timeout"))
	_, err := engine.Categories(ctx)
	require.Error(t, err)

	f.store.FailOn(store.OpCategoriesForUser, nil)
	cats, err := engine.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 4)
}

func TestEngine_FindCategory(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, err := f.store.CreateCategory(ctx, nil, "Comida", []string{"pizza"}, "#000000")
	require.NoError(t, err)
	_, err = f.store.CreateCategory(ctx, nil, "Salud", []string{"farmacia"}, "#F38181")
	require.NoError(t, err)

	engine := f.engine(t)

	c, ok, err := engine.FindCategory(ctx, "comida")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f.cats["Comida"].ID, c.ID)

	c, ok, err = engine.FindCategory(ctx, "Salud")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, c.IsGlobal)

	_, ok, err = engine.FindCategory(ctx, "Viajes")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSuggestWithTrace(t *testing.T) {
	f := newFixture(t, true)
	got, trace := f.engine(t).SuggestWithTrace(context.Background(), "Pizza familiar")

	require.True(t, got.HasCategory())
	require.Len(t, trace.Results, 2)
	assert.Equal(t, "history", trace.Results[0].Strategy)
	assert.False(t, trace.Results[0].Found)
	assert.Equal(t, "history:below_threshold(0.50), keywords:keyword_match(0.80)", trace.Summary())
	assert.Equal(t, got, trace.Best())
	assert.Empty(t, trace.GetErrors())
}

func TestStrategyResults_Empty(t *testing.T) {
	var trace StrategyResults
	assert.Equal(t, models.NoMatch(), trace.Best())
	assert.Equal(t, "", trace.Summary())
	assert.Nil(t, trace.GetErrors())
}

func TestWithHistoryLimit(t *testing.T) {
	f := newFixture(t, true)
	// The most recent expense is "Rappi hamburguesas"; limiting to one row
	// hides "Pizza con amigos".
	engine := f.engine(t, WithHistoryLimit(1))
	got := engine.Suggest(context.Background(), "Pizza con amigos")

	require.True(t, got.HasCategory())
	assert.Equal(t, models.ReasonKeywordMatch, got.Reason)
}
