package clients

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wishlist-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*TMDBClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewTMDBClient(config.TMDBConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return client, srv
}

func TestSearchMovieFirstResultWins(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "Interstellar", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"results":[
			{"title":"Interstellar","release_date":"2014-11-05","genre_ids":[12,18,878],"overview":"The adventures of a group of explorers ..."},
			{"title":"Interstellar Wars","release_date":"2016-01-01","genre_ids":[878],"overview":"something else"}
		]}`))
	}))

	movie, err := client.SearchMovie(context.Background(), "Interstellar")
	require.NoError(t, err)
	assert.Equal(t, "Interstellar", movie.Title)
	assert.Equal(t, 2014, movie.ReleaseYear)
	assert.Equal(t, []int{12, 18, 878}, movie.GenreIDs)
	assert.Equal(t, "The adventures of a group of explorers ...", movie.Synopsis)
}

func TestSearchMovieMissingReleaseDate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"title":"Obscure","genre_ids":[],"overview":""}]}`))
	}))

	movie, err := client.SearchMovie(context.Background(), "Obscure")
	require.NoError(t, err)
	assert.Equal(t, 0, movie.ReleaseYear)
}

func TestSearchMovieNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))

	_, err := client.SearchMovie(context.Background(), "does not exist")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestSearchMovieUpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.SearchMovie(context.Background(), "Interstellar")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.NotErrorIs(t, err, ErrMovieNotFound)
}

func TestGenreNamesCachesTable(t *testing.T) {
	var fetches atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		fetches.Add(1)
		w.Write([]byte(`{"genres":[{"id":12,"name":"Adventure"},{"id":18,"name":"Drama"},{"id":878,"name":"Science Fiction"}]}`))
	}))

	names, err := client.GenreNames(context.Background(), []int{12, 878})
	require.NoError(t, err)
	assert.Equal(t, map[int]string{12: "Adventure", 878: "Science Fiction"}, names)

	// Second call must be served from the cache.
	names, err = client.GenreNames(context.Background(), []int{18, 999})
	require.NoError(t, err)
	assert.Equal(t, map[int]string{18: "Drama"}, names)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestGenreNamesUpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.GenreNames(context.Background(), []int{12})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
