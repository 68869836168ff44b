package categorizer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("fb-%d", n)
	}
}

func TestRecordFeedback(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	fixed := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)
	engine := f.engine(t, WithClock(func() time.Time { return fixed }), WithIDGenerator(sequentialIDs()))

	comida := f.cats["Comida"]
	delivery := f.cats["Delivery"]

	accepted, err := engine.RecordFeedback(ctx, 10, &comida, true, nil)
	require.NoError(t, err)
	assert.Equal(t, "fb-1", accepted.ID)
	assert.Equal(t, testUserID, accepted.UserID)
	assert.Equal(t, int64(10), accepted.ExpenseID)
	require.NotNil(t, accepted.FinalCategory)
	assert.Equal(t, comida.ID, accepted.FinalCategory.ID)
	assert.True(t, accepted.CreatedAt.Equal(fixed))

	rejected, err := engine.RecordFeedback(ctx, 11, &comida, false, &delivery)
	require.NoError(t, err)
	assert.Equal(t, "fb-2", rejected.ID)
	assert.False(t, rejected.WasAccepted)
	assert.Equal(t, delivery.ID, rejected.FinalCategory.ID)

	records, err := f.store.FeedbackForUser(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRecordFeedback_StoreError(t *testing.T) {
	f := newFixture(t, false)
	boom := errors.New("read-only database")
	f.store.FailOn(store.OpAppendFeedback, boom)

	_, err := f.engine(t).RecordFeedback(context.Background(), 1, nil, false, nil)
	assert.ErrorIs(t, err, boom)
}

func TestAccuracyStats(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	engine := f.engine(t)

	comida := f.cats["Comida"]
	transporte := f.cats["Transporte"]

	_, err := engine.RecordFeedback(ctx, 1, &comida, true, nil)
	require.NoError(t, err)
	_, err = engine.RecordFeedback(ctx, 2, &transporte, true, nil)
	require.NoError(t, err)
	_, err = engine.RecordFeedback(ctx, 3, &comida, false, &transporte)
	require.NoError(t, err)

	stats, err := engine.AccuracyStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSuggestions)
	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 0.67, stats.Accuracy)

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, models.CategoryAccuracy{CategoryName: "Comida", Total: 2, Accepted: 1, Accuracy: 0.5}, stats.ByCategory[0])
	assert.Equal(t, models.CategoryAccuracy{CategoryName: "Transporte", Total: 1, Accepted: 1, Accuracy: 1.0}, stats.ByCategory[1])
}

func TestAccuracyStats_StoreError(t *testing.T) {
	f := newFixture(t, false)
	f.store.FailOn(store.OpFeedbackForUser, errors.New("timeout"))

	_, err := f.engine(t).AccuracyStats(context.Background())
	assert.Error(t, err)
}

func TestComputeAccuracy(t *testing.T) {
	t.Run("no feedback", func(t *testing.T) {
		stats := ComputeAccuracy(nil)
		assert.Equal(t, 0, stats.TotalSuggestions)
		assert.Equal(t, 0.0, stats.Accuracy)
		assert.NotNil(t, stats.ByCategory)
		assert.Empty(t, stats.ByCategory)
	})

	t.Run("ties ordered by name and missing category grouped", func(t *testing.T) {
		b := &models.Category{Name: "B"}
		a := &models.Category{Name: "A"}
		stats := ComputeAccuracy([]models.FeedbackRecord{
			{SuggestedCategory: b, WasAccepted: true},
			{SuggestedCategory: a, WasAccepted: false},
			{WasAccepted: false},
			{WasAccepted: false},
		})

		require.Len(t, stats.ByCategory, 3)
		assert.Equal(t, models.UncategorizedName, stats.ByCategory[0].CategoryName)
		assert.Equal(t, 2, stats.ByCategory[0].Total)
		assert.Equal(t, "A", stats.ByCategory[1].CategoryName)
		assert.Equal(t, "B", stats.ByCategory[2].CategoryName)
		assert.Equal(t, 0.25, stats.Accuracy)
	})

	t.Run("rounding", func(t *testing.T) {
		c := &models.Category{Name: "C"}
		stats := ComputeAccuracy([]models.FeedbackRecord{
			{SuggestedCategory: c, WasAccepted: true},
			{SuggestedCategory: c, WasAccepted: false},
			{SuggestedCategory: c, WasAccepted: false},
		})
		assert.Equal(t, 0.33, stats.Accuracy)
	})
}
