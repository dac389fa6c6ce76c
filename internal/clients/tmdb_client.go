package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"wishlist-service/internal/config"
)

var (
	// ErrMovieNotFound means the catalog has no result for the title.
	ErrMovieNotFound = errors.New("movie not found in catalog")
	// ErrCatalogUnavailable covers transport, timeout and decode failures,
	// so callers can distinguish 404 from 502.
	ErrCatalogUnavailable = errors.New("catalog service unavailable")
)

// CatalogMovie is the canonical movie data resolved from a title lookup.
type CatalogMovie struct {
	Title       string
	ReleaseYear int
	GenreIDs    []int
	Synopsis    string
}

// CatalogClient resolves free-text titles against an external movie catalog
// and maps genre ids to names.
type CatalogClient interface {
	SearchMovie(ctx context.Context, title string) (*CatalogMovie, error)
	GenreNames(ctx context.Context, ids []int) (map[int]string, error)
}

// TMDBClient implements CatalogClient against the TMDB HTTP API. The genre
// id->name table is fetched once and cached for the process lifetime; a
// concurrent first-use race may fetch it twice, but both writes converge to
// the same contents, so a plain atomic swap is enough.
type TMDBClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger

	genreCache atomic.Pointer[map[int]string]
}

func NewTMDBClient(c config.TMDBConfig, logger *slog.Logger) *TMDBClient {
	return &TMDBClient{
		client:  &http.Client{Timeout: c.Timeout},
		baseURL: c.BaseURL,
		apiKey:  c.APIKey,
		logger:  logger,
	}
}

// SearchMovie resolves a title to canonical movie data. The first search
// result wins, matching the catalog's own relevance ordering.
func (c *TMDBClient) SearchMovie(ctx context.Context, title string) (*CatalogMovie, error) {
	endpoint := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(title))

	var response struct {
		Results []struct {
			Title       string `json:"title"`
			ReleaseDate string `json:"release_date"`
			GenreIDs    []int  `json:"genre_ids"`
			Overview    string `json:"overview"`
		} `json:"results"`
	}

	if err := c.doGet(ctx, endpoint, &response); err != nil {
		c.logger.ErrorContext(ctx, "TMDB movie search failed",
			slog.String("title", title), slog.String("error", err.Error()))
		return nil, err
	}

	if len(response.Results) == 0 {
		return nil, ErrMovieNotFound
	}

	first := response.Results[0]
	movie := &CatalogMovie{
		Title:    first.Title,
		GenreIDs: first.GenreIDs,
		Synopsis: first.Overview,
	}
	// release_date is "YYYY-MM-DD"; an absent date leaves the year unknown (0).
	if len(first.ReleaseDate) >= 4 {
		if year, err := strconv.Atoi(first.ReleaseDate[:4]); err == nil {
			movie.ReleaseYear = year
		}
	}
	return movie, nil
}

// GenreNames maps genre ids to names using the cached genre table, fetching
// it from TMDB on first use. Ids missing from the table are left out; callers
// substitute the "Unknown" placeholder.
func (c *TMDBClient) GenreNames(ctx context.Context, ids []int) (map[int]string, error) {
	table := c.genreCache.Load()
	if table == nil {
		fetched, err := c.fetchGenreTable(ctx)
		if err != nil {
			return nil, err
		}
		// Last write wins; concurrent fetches produce identical tables.
		c.genreCache.Store(&fetched)
		table = &fetched
	}

	names := make(map[int]string, len(ids))
	for _, id := range ids {
		if name, ok := (*table)[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func (c *TMDBClient) fetchGenreTable(ctx context.Context) (map[int]string, error) {
	endpoint := fmt.Sprintf("%s/genre/movie/list?api_key=%s",
		c.baseURL, url.QueryEscape(c.apiKey))

	var response struct {
		Genres []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"genres"`
	}

	if err := c.doGet(ctx, endpoint, &response); err != nil {
		c.logger.ErrorContext(ctx, "TMDB genre list fetch failed", slog.String("error", err.Error()))
		return nil, err
	}

	table := make(map[int]string, len(response.Genres))
	for _, genre := range response.Genres {
		table[genre.ID] = genre.Name
	}
	return table, nil
}

func (c *TMDBClient) doGet(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrCatalogUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrCatalogUnavailable, err)
	}
	return nil
}
