package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"wishlist-service/internal/config"
	"wishlist-service/internal/domain"
	"wishlist-service/internal/store"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ContextKey is the type used for request context keys.
type ContextKey string

const requestAuditKey ContextKey = "requestAudit"

// requestAudit carries mutable per-request attribution. The audit middleware
// installs it before the inner chain runs; the auth middleware fills in the
// user id once authentication succeeds, so the record written after the
// handler returns can name the caller.
type requestAudit struct {
	userID string
}

// AuthMiddleware enforces HTTP basic auth against the configured credentials.
// The first successful authentication of an unseen username creates the user
// lazily and records its id for the audit recorder.
func AuthMiddleware(cfg config.AuthConfig, users store.UserStore, logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || !credentialsMatch(username, password, cfg) {
				logger.WarnContext(r.Context(), "unauthorized request",
					slog.String("path", r.URL.Path))
				w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
				respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}

			user, err := resolveUser(r.Context(), users, username)
			if err != nil {
				// Authentication succeeded; a user lookup failure must not
				// block the request, only leave the audit entry anonymous.
				logger.ErrorContext(r.Context(), "failed to resolve authenticated user",
					slog.String("username", username), slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			if audit, ok := r.Context().Value(requestAuditKey).(*requestAudit); ok {
				audit.userID = user.ID
			}
			next.ServeHTTP(w, r)
		})
	}
}

func credentialsMatch(username, password string, cfg config.AuthConfig) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
	return userOK && passOK
}

// resolveUser finds the user by username, creating it on first sight. A
// creation race with a concurrent request is resolved by re-reading.
func resolveUser(ctx context.Context, users store.UserStore, username string) (*domain.User, error) {
	user, err := users.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	user = &domain.User{
		ID:       uuid.NewString(),
		Username: username,
	}
	createErr := users.Create(ctx, user)
	if createErr == nil {
		return user, nil
	}
	if errors.Is(createErr, store.ErrUserAlreadyExists) {
		return users.GetByUsername(ctx, username)
	}
	return nil, createErr
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// AuditMiddleware appends one audit log record per completed request, after
// the response status is known. It correlates the record with the movie named
// by the route (if resolvable) and the authenticated user (if any). An append
// failure is reported through the logger and never fails the request.
func AuditMiddleware(logs store.LogStore, movies store.MovieStore, logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			audit := &requestAudit{}
			ctx := context.WithValue(r.Context(), requestAuditKey, audit)
			r = r.WithContext(ctx)
			next.ServeHTTP(rec, r)

			record := &domain.LogRecord{
				ID:        uuid.NewString(),
				Type:      domain.LogTypeRequest,
				Method:    r.Method,
				URL:       r.URL.RequestURI(),
				Status:    rec.status,
				Timestamp: time.Now().UTC(),
			}

			if movieID, ok := mux.Vars(r)["movieId"]; ok && movieID != "" {
				if movie, err := movies.GetByID(ctx, movieID); err == nil {
					record.MovieID = &movie.ID
				}
			}
			if audit.userID != "" {
				userID := audit.userID
				record.UserID = &userID
			}

			if err := logs.Append(ctx, record); err != nil {
				logger.ErrorContext(ctx, "failed to append audit log record",
					slog.String("method", record.Method),
					slog.String("url", record.URL),
					slog.String("error", err.Error()))
			}
		})
	}
}
