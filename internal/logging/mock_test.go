package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_RecordsEntries(t *testing.T) {
	mock := NewMockLogger()
	mock.Info("first", F(FieldCount, 1))
	mock.Warn("second")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "first", entries[0].Message)
	assert.True(t, mock.HasEntry("WARN", "second"))
	assert.Len(t, mock.GetEntriesByLevel("WARN"), 1)
}

func TestMockLogger_DerivedLoggersShareSink(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithFields(F(FieldUserID, 9)).WithError(errors.New("boom"))
	child.Error("failed", F(FieldOperation, "suggest"))

	entries := mock.GetEntries()
	require.Len(t, entries, 1)
	assert.EqualError(t, entries[0].Error, "boom")

	v, ok := mock.FieldValue("failed", FieldUserID)
	require.True(t, ok)
	assert.Equal(t, 9, v)
	v, ok = mock.FieldValue("failed", FieldOperation)
	require.True(t, ok)
	assert.Equal(t, "suggest", v)
}

func TestMockLogger_Clear(t *testing.T) {
	mock := NewMockLogger()
	mock.Debug("x")
	mock.Fatalf("fatal %d", 1)
	assert.True(t, mock.HasEntry("FATAL", "fatal 1"))

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}
