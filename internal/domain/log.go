package domain

import "time"

// LogType classifies audit log entries. Only request logs exist today.
type LogType string

const LogTypeRequest LogType = "REQUEST"

// LogRecord is one immutable audit log entry. MovieID and UserID are weak
// references: they correlate the request with a movie and a user but carry no
// ownership, and either may be nil.
type LogRecord struct {
	ID        string    `json:"id" db:"id"`
	Type      LogType   `json:"type" db:"type"`
	Method    string    `json:"method" db:"method"`
	URL       string    `json:"url" db:"url"`
	Status    int       `json:"status" db:"status"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	MovieID   *string   `json:"movieId" db:"movie_id"`
	UserID    *string   `json:"userId" db:"user_id"`
}

// HistoryEntry is one item of a movie's request history, enriched with the
// username of the acting user (empty for anonymous requests).
type HistoryEntry struct {
	Method    string    `json:"method" db:"method"`
	URL       string    `json:"url" db:"url"`
	Status    int       `json:"status" db:"status"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	User      string    `json:"user" db:"username"`
}
