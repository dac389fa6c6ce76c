package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wishlist-service/internal/domain"
	"wishlist-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/movie", map[string]string{"title": "Interstellar"}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	// Wrong password as well.
	req := httptest.NewRequest(http.MethodPost, "/movie", strings.NewReader(`{"title":"Interstellar"}`))
	req.SetBasicAuth(testAdminUser, "wrong")
	rec2 := httptest.NewRecorder()
	app.router.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
}

func TestAuthMiddlewareCreatesUserLazily(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.users.GetByUsername(ctx, testAdminUser)
	require.ErrorIs(t, err, store.ErrUserNotFound)

	app.do(t, http.MethodPost, "/movie", map[string]string{"title": "Interstellar"}, true)

	user, err := app.users.GetByUsername(ctx, testAdminUser)
	require.NoError(t, err)
	assert.Equal(t, testAdminUser, user.Username)
	firstID := user.ID

	// A second authenticated request reuses the same user.
	app.do(t, http.MethodGet, "/movie", nil, true)
	user, err = app.users.GetByUsername(ctx, testAdminUser)
	require.NoError(t, err)
	assert.Equal(t, firstID, user.ID)
}

func TestAuditMiddlewareRecordsEveryRequest(t *testing.T) {
	app := newTestApp(t)
	movie := app.seedMovie(t, domain.StateToWatch, nil)
	ctx := context.Background()

	app.do(t, http.MethodPut, "/movie/"+movie.ID+"/state", map[string]string{"state": "WATCHED"}, true)

	records, err := app.logs.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, domain.LogTypeRequest, record.Type)
	assert.Equal(t, http.MethodPut, record.Method)
	assert.Equal(t, "/movie/"+movie.ID+"/state", record.URL)
	assert.Equal(t, http.StatusOK, record.Status)
	require.NotNil(t, record.MovieID)
	assert.Equal(t, movie.ID, *record.MovieID)

	user, err := app.users.GetByUsername(ctx, testAdminUser)
	require.NoError(t, err)
	require.NotNil(t, record.UserID)
	assert.Equal(t, user.ID, *record.UserID)
}

func TestAuditMiddlewareRecordsErrorResponses(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/movie/unknown-id", nil, false)
	require.Equal(t, http.StatusNotFound, rec.Code)

	records, err := app.logs.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, http.StatusNotFound, records[0].Status)
	assert.Nil(t, records[0].MovieID)
	assert.Nil(t, records[0].UserID)
}

func TestAuditFailureDoesNotFailRequest(t *testing.T) {
	app := newTestApp(t)
	movie := app.seedMovie(t, domain.StateToWatch, nil)
	app.logs.AppendErr = errors.New("disk full")

	rec := app.do(t, http.MethodGet, "/movie/"+movie.ID, nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}
