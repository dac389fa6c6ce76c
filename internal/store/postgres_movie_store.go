package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wishlist-service/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresMovieStore implements MovieStore backed by PostgreSQL.
type PostgresMovieStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresMovieStore(db *sqlx.DB, logger *slog.Logger) (*PostgresMovieStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresMovieStore{db: db, logger: logger}, nil
}

func (s *PostgresMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	query := `INSERT INTO movies (id, title, synopsis, release_year, genre, state, rating, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	movie.CreatedAt = time.Now().UTC()

	s.logger.DebugContext(ctx, "executing create movie query",
		slog.String("movieID", movie.ID), slog.String("title", movie.Title))
	_, err := s.db.ExecContext(ctx, query,
		movie.ID, movie.Title, movie.Synopsis, movie.ReleaseYear,
		movie.Genre, movie.State, movie.Rating, movie.CreatedAt,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create movie in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

func (s *PostgresMovieStore) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	query := `SELECT id, title, synopsis, release_year, genre, state, rating, created_at
              FROM movies WHERE id = $1`

	var movie domain.Movie
	err := s.db.GetContext(ctx, &movie, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get movie by ID from DB",
			slog.String("movieID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get movie by ID: %w", err)
	}
	return &movie, nil
}

func (s *PostgresMovieStore) List(ctx context.Context, params MovieListParams) ([]*domain.Movie, error) {
	query := `SELECT id, title, synopsis, release_year, genre, state, rating, created_at
              FROM movies`

	var args []interface{}
	argID := 1
	if params.State != nil {
		query += fmt.Sprintf(" WHERE state = $%d", argID)
		args = append(args, *params.State)
		argID++
	}
	// Creation order keeps pagination stable across pages.
	query += fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	movies := []*domain.Movie{}
	err := s.db.SelectContext(ctx, &movies, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list movies from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

func (s *PostgresMovieStore) Count(ctx context.Context, state *domain.MovieState) (int, error) {
	query := `SELECT COUNT(*) FROM movies`

	var args []interface{}
	if state != nil {
		query += " WHERE state = $1"
		args = append(args, *state)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to count movies in DB", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

func (s *PostgresMovieStore) UpdateState(ctx context.Context, id string, state domain.MovieState) (*domain.Movie, error) {
	query := `UPDATE movies SET state = $1 WHERE id = $2
              RETURNING id, title, synopsis, release_year, genre, state, rating, created_at`

	s.logger.DebugContext(ctx, "executing update movie state query",
		slog.String("movieID", id), slog.String("state", state.String()))

	var movie domain.Movie
	err := s.db.QueryRowxContext(ctx, query, state, id).StructScan(&movie)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "failed to update movie state in DB",
			slog.String("movieID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update movie state: %w", err)
	}
	return &movie, nil
}

// Rate applies rating and state in one statement so both become visible
// together.
func (s *PostgresMovieStore) Rate(ctx context.Context, id string, rating int, state domain.MovieState) (*domain.Movie, error) {
	query := `UPDATE movies SET rating = $1, state = $2 WHERE id = $3
              RETURNING id, title, synopsis, release_year, genre, state, rating, created_at`

	s.logger.DebugContext(ctx, "executing rate movie query",
		slog.String("movieID", id), slog.Int("rating", rating))

	var movie domain.Movie
	err := s.db.QueryRowxContext(ctx, query, rating, state, id).StructScan(&movie)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "failed to rate movie in DB",
			slog.String("movieID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to rate movie: %w", err)
	}
	return &movie, nil
}
