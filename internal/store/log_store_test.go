package store

import (
	"context"
	"testing"
	"time"

	"wishlist-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendRecord(t *testing.T, m *MockLogStore, movieID, userID *string, ts time.Time) *domain.LogRecord {
	t.Helper()
	record := &domain.LogRecord{
		ID:        uuid.NewString(),
		Type:      domain.LogTypeRequest,
		Method:    "GET",
		URL:       "/movie",
		Status:    200,
		Timestamp: ts,
		MovieID:   movieID,
		UserID:    userID,
	}
	require.NoError(t, m.Append(context.Background(), record))
	return record
}

func TestMockLogStoreOrdering(t *testing.T) {
	m := NewMockLogStore()
	ctx := context.Background()
	base := time.Now().UTC()

	first := appendRecord(t, m, nil, nil, base)
	second := appendRecord(t, m, nil, nil, base.Add(time.Second))
	third := appendRecord(t, m, nil, nil, base.Add(2*time.Second))

	// GetAll is newest first.
	records, err := m.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, third.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
	assert.Equal(t, first.ID, records[2].ID)
}

func TestMockLogStoreMovieHistory(t *testing.T) {
	m := NewMockLogStore()
	ctx := context.Background()
	base := time.Now().UTC()

	movieID := uuid.NewString()
	otherID := uuid.NewString()
	userID := uuid.NewString()
	m.SetUsername(userID, "admin")

	appendRecord(t, m, &movieID, nil, base)
	appendRecord(t, m, &otherID, nil, base.Add(time.Second))
	appendRecord(t, m, &movieID, &userID, base.Add(2*time.Second))

	history, err := m.GetMovieHistory(ctx, movieID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Oldest first, with username enrichment.
	assert.True(t, !history[1].Timestamp.Before(history[0].Timestamp))
	assert.Equal(t, "", history[0].User)
	assert.Equal(t, "admin", history[1].User)
}

func TestMockLogStoreAppendErr(t *testing.T) {
	m := NewMockLogStore()
	m.AppendErr = assert.AnError

	err := m.Append(context.Background(), &domain.LogRecord{ID: uuid.NewString()})
	assert.ErrorIs(t, err, assert.AnError)

	records, err := m.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
