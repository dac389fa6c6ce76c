package store

import (
	"context"
	"errors"
	"sync"

	"wishlist-service/internal/domain"
)

var ErrMovieNotFound = errors.New("movie not found")

// MovieListParams controls filtering and pagination for List and Count.
// State is optional; Page and Limit are 1-based.
type MovieListParams struct {
	State *domain.MovieState
	Page  int
	Limit int
}

// MovieStore defines persistence operations for movies.
type MovieStore interface {
	Create(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id string) (*domain.Movie, error)
	List(ctx context.Context, params MovieListParams) ([]*domain.Movie, error)
	Count(ctx context.Context, state *domain.MovieState) (int, error)
	// UpdateState writes the new state unconditionally; the caller must have
	// validated the transition beforehand.
	UpdateState(ctx context.Context, id string, state domain.MovieState) (*domain.Movie, error)
	// Rate writes rating and state in a single update so that no reader ever
	// observes one without the other.
	Rate(ctx context.Context, id string, rating int, state domain.MovieState) (*domain.Movie, error)
}

// MockMovieStore is an in-memory MovieStore used in tests. It preserves
// creation order for stable listing.
type MockMovieStore struct {
	mu     sync.RWMutex
	movies map[string]*domain.Movie
	order  []string
}

func NewMockMovieStore() *MockMovieStore {
	return &MockMovieStore{
		movies: make(map[string]*domain.Movie),
	}
}

func (m *MockMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	movieCopy := *movie
	m.movies[movie.ID] = &movieCopy
	m.order = append(m.order, movie.ID)
	return nil
}

func (m *MockMovieStore) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	movie, ok := m.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	movieCopy := *movie
	return &movieCopy, nil
}

func (m *MockMovieStore) List(ctx context.Context, params MovieListParams) ([]*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var filtered []*domain.Movie
	for _, id := range m.order {
		movie := m.movies[id]
		if params.State != nil && movie.State != *params.State {
			continue
		}
		movieCopy := *movie
		filtered = append(filtered, &movieCopy)
	}

	start := (params.Page - 1) * params.Limit
	if start >= len(filtered) {
		return []*domain.Movie{}, nil
	}
	end := start + params.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func (m *MockMovieStore) Count(ctx context.Context, state *domain.MovieState) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if state == nil {
		return len(m.movies), nil
	}
	count := 0
	for _, movie := range m.movies {
		if movie.State == *state {
			count++
		}
	}
	return count, nil
}

func (m *MockMovieStore) UpdateState(ctx context.Context, id string, state domain.MovieState) (*domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	movie.State = state
	movieCopy := *movie
	return &movieCopy, nil
}

func (m *MockMovieStore) Rate(ctx context.Context, id string, rating int, state domain.MovieState) (*domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	movie.Rating = &rating
	movie.State = state
	movieCopy := *movie
	return &movieCopy, nil
}
