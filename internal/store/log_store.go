package store

import (
	"context"
	"sync"

	"wishlist-service/internal/domain"
)

// LogStore is the append-only store of audit log records. Records are never
// updated or deleted.
type LogStore interface {
	Append(ctx context.Context, record *domain.LogRecord) error
	// GetAll returns every record, newest first.
	GetAll(ctx context.Context) ([]*domain.LogRecord, error)
	// GetMovieHistory returns the records referencing the given movie, oldest
	// first, each enriched with the acting user's username.
	GetMovieHistory(ctx context.Context, movieID string) ([]*domain.HistoryEntry, error)
}

// MockLogStore is an in-memory LogStore used in tests. Insertion order breaks
// timestamp ties, matching the Postgres implementation.
type MockLogStore struct {
	mu        sync.RWMutex
	records   []*domain.LogRecord
	usernames map[string]string

	// AppendErr, when set, is returned by Append to simulate a persistence
	// failure.
	AppendErr error
}

func NewMockLogStore() *MockLogStore {
	return &MockLogStore{
		usernames: make(map[string]string),
	}
}

// SetUsername registers a user id -> username mapping for history enrichment.
func (m *MockLogStore) SetUsername(userID, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usernames[userID] = username
}

func (m *MockLogStore) Append(ctx context.Context, record *domain.LogRecord) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recordCopy := *record
	m.records = append(m.records, &recordCopy)
	return nil
}

func (m *MockLogStore) GetAll(ctx context.Context) ([]*domain.LogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.LogRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		recordCopy := *m.records[i]
		result = append(result, &recordCopy)
	}
	return result, nil
}

func (m *MockLogStore) GetMovieHistory(ctx context.Context, movieID string) ([]*domain.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := []*domain.HistoryEntry{}
	for _, record := range m.records {
		if record.MovieID == nil || *record.MovieID != movieID {
			continue
		}
		entry := &domain.HistoryEntry{
			Method:    record.Method,
			URL:       record.URL,
			Status:    record.Status,
			Timestamp: record.Timestamp,
		}
		if record.UserID != nil {
			entry.User = m.usernames[*record.UserID]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
