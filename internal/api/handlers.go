package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"wishlist-service/internal/clients"
	"wishlist-service/internal/domain"
	"wishlist-service/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// MovieHandler holds the dependencies of the HTTP handlers.
type MovieHandler struct {
	movies    store.MovieStore
	logs      store.LogStore
	catalog   clients.CatalogClient
	logger    *slog.Logger
	validator *validator.Validate
}

func NewMovieHandler(movies store.MovieStore, logs store.LogStore, catalog clients.CatalogClient, logger *slog.Logger, validate *validator.Validate) *MovieHandler {
	return &MovieHandler{
		movies:    movies,
		logs:      logs,
		catalog:   catalog,
		logger:    logger,
		validator: validate,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondDomainError is the single boundary translating domain errors to
// HTTP status codes. Handlers let errors propagate here instead of mapping
// them inline.
func (h *MovieHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var transitionErr *domain.InvalidStateTransitionError
	var stateErr *domain.InvalidStateError

	switch {
	case errors.As(err, &transitionErr):
		respondMessage(w, http.StatusBadRequest, transitionErr.Reason)
	case errors.As(err, &stateErr):
		respondMessage(w, http.StatusBadRequest, "Invalid state provided")
	case errors.Is(err, store.ErrMovieNotFound), errors.Is(err, clients.ErrMovieNotFound):
		respondMessage(w, http.StatusNotFound, "Movie not found")
	case errors.Is(err, clients.ErrCatalogUnavailable):
		respondMessage(w, http.StatusBadGateway, "Movie catalog is unavailable")
	default:
		h.logger.ErrorContext(r.Context(), "unhandled error",
			slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// AddMovie handles POST /movie: resolves the title against the catalog and
// stores the movie in the TO_WATCH state.
func (h *MovieHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.AddMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	result, err := h.catalog.SearchMovie(ctx, req.Title)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	names, err := h.catalog.GenreNames(ctx, result.GenreIDs)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	movie := &domain.Movie{
		ID:          uuid.NewString(),
		Title:       result.Title,
		Synopsis:    result.Synopsis,
		ReleaseYear: result.ReleaseYear,
		Genre:       domain.JoinGenreNames(result.GenreIDs, names),
		State:       domain.StateToWatch,
	}

	if err := h.movies.Create(ctx, movie); err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "movie added to wishlist",
		slog.String("movieID", movie.ID), slog.String("title", movie.Title))
	respondMessage(w, http.StatusCreated, "Movie added successfully")
}

// ListMovies handles GET /movie with optional state filter and pagination.
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var stateFilter *domain.MovieState
	if token := query.Get("state"); token != "" {
		state, err := domain.ParseMovieState(token)
		if err != nil {
			h.respondDomainError(w, r, err)
			return
		}
		stateFilter = &state
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = defaultPageLimit
	} else if limit > maxPageLimit {
		limit = maxPageLimit
	}

	movies, err := h.movies.List(ctx, store.MovieListParams{State: stateFilter, Page: page, Limit: limit})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	total, err := h.movies.Count(ctx, stateFilter)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	if movies == nil {
		movies = []*domain.Movie{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data": movies,
		"pagination": map[string]int{
			"limit":       limit,
			"currentPage": page,
			"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
			"totalItems":  total,
		},
	})
}

// GetMovieByID handles GET /movie/{movieId}.
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]

	movie, err := h.movies.GetByID(ctx, movieID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, movie)
}

// UpdateMovieState handles PUT /movie/{movieId}/state, guarded by the
// lifecycle transition rules.
func (h *MovieHandler) UpdateMovieState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]

	var req domain.UpdateMovieStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	requested, err := domain.ParseMovieState(req.State)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	movie, err := h.movies.GetByID(ctx, movieID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	if err := domain.ValidateTransition(movie.State, requested); err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	updated, err := h.movies.UpdateState(ctx, movieID, requested)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "movie state updated",
		slog.String("movieID", movieID),
		slog.String("from", movie.State.String()),
		slog.String("to", requested.String()))
	respondJSON(w, http.StatusOK, updated)
}

// RateMovie handles POST /movie/{movieId}/rate. Rating a movie that is
// exactly WATCHED also advances it to RATED in the same write.
func (h *MovieHandler) RateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]

	var req domain.RateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Rating must be an integer between 0 and 5")
		return
	}

	movie, err := h.movies.GetByID(ctx, movieID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	if err := domain.ValidateRating(movie.State); err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	newState := movie.State
	if movie.State == domain.StateWatched {
		newState = domain.StateRated
	}

	updated, err := h.movies.Rate(ctx, movieID, *req.Rating, newState)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "movie rated",
		slog.String("movieID", movieID), slog.Int("rating", *req.Rating))
	respondJSON(w, http.StatusOK, updated)
}

// GetMovieHistory handles GET /movie/{movieId}/history.
func (h *MovieHandler) GetMovieHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]

	movie, err := h.movies.GetByID(ctx, movieID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	history, err := h.logs.GetMovieHistory(ctx, movieID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	if history == nil {
		history = []*domain.HistoryEntry{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"movieId": movie.ID,
		"title":   movie.Title,
		"history": history,
	})
}

// GetLogs handles GET /log, a diagnostic dump of the audit log, newest first.
func (h *MovieHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	records, err := h.logs.GetAll(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	if records == nil {
		records = []*domain.LogRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}
