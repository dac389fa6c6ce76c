package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wishlist-service/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresLogStore implements LogStore backed by PostgreSQL. The logs table
// carries a bigserial seq column used only to break timestamp ties in
// insertion order.
type PostgresLogStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresLogStore(db *sqlx.DB, logger *slog.Logger) (*PostgresLogStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresLogStore{db: db, logger: logger}, nil
}

func (s *PostgresLogStore) Append(ctx context.Context, record *domain.LogRecord) error {
	query := `INSERT INTO logs (id, type, method, url, status, timestamp, movie_id, user_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.Type, record.Method, record.URL,
		record.Status, record.Timestamp, record.MovieID, record.UserID,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to append log record in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to append log record: %w", err)
	}
	return nil
}

func (s *PostgresLogStore) GetAll(ctx context.Context) ([]*domain.LogRecord, error) {
	query := `SELECT id, type, method, url, status, timestamp, movie_id, user_id
              FROM logs ORDER BY timestamp DESC, seq DESC`

	records := []*domain.LogRecord{}
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		s.logger.ErrorContext(ctx, "failed to get log records from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get log records: %w", err)
	}
	return records, nil
}

func (s *PostgresLogStore) GetMovieHistory(ctx context.Context, movieID string) ([]*domain.HistoryEntry, error) {
	query := `SELECT l.method, l.url, l.status, l.timestamp, COALESCE(u.username, '') AS username
              FROM logs l
              LEFT JOIN users u ON u.id = l.user_id
              WHERE l.movie_id = $1
              ORDER BY l.timestamp ASC, l.seq ASC`

	entries := []*domain.HistoryEntry{}
	if err := s.db.SelectContext(ctx, &entries, query, movieID); err != nil {
		s.logger.ErrorContext(ctx, "failed to get movie history from DB",
			slog.String("movieID", movieID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get movie history: %w", err)
	}
	return entries, nil
}
