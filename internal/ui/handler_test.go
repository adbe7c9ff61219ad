package ui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/internal/scheduler"
	"github.com/thep200/github-trending/pkg/log"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context, q model.TrendingQuery) ([]model.Trending, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Trending), args.Get(1).(int64), args.Error(2)
}

type fixedStatus struct {
	snap scheduler.Snapshot
}

func (f fixedStatus) Snapshot() scheduler.Snapshot {
	return f.snap
}

func newTestRouter(t *testing.T, store TrendingStore, status StatusSource) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config, err := (&cfg.MockLoader{}).Load()
	require.NoError(t, err)
	config.Archive.Dir = t.TempDir()
	logger, err := log.NewCslLoggerTo(io.Discard, false)
	require.NoError(t, err)

	handler := NewHandler(logger, config, store, status)
	handler.now = func() time.Time { return time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC) }
	server, err := NewServer(logger, config, handler, 0)
	require.NoError(t, err)
	return server.Router(), handler
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)
	w := get(router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestStatus(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(router, "/api/status").Code)

	router, _ = newTestRouter(t, nil, fixedStatus{snap: scheduler.Snapshot{Crawls: 4, LastRunID: "abc"}})
	w := get(router, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	var snap scheduler.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, 4, snap.Crawls)
	assert.Equal(t, "abc", snap.LastRunID)
}

func TestGetTrending(t *testing.T) {
	store := new(mockStore)
	store.On("List", mock.Anything, model.TrendingQuery{Since: "weekly", Language: "Go", Page: 2, PageSize: 10}).
		Return([]model.Trending{{RunID: "r1", NameWithOwner: "a/b", NewStars: 7, Rank: 1, Since: "weekly"}}, int64(11), nil).Once()
	router, _ := newTestRouter(t, store, nil)

	w := get(router, "/api/trending?since=weekly&lang=Go&page=2&pageSize=10")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Trending   []Trending `json:"trending"`
		Pagination struct {
			TotalCount int64 `json:"totalCount"`
			TotalPages int64 `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Trending, 1)
	assert.Equal(t, "a/b", body.Trending[0].NameWithOwner)
	assert.Equal(t, 7, body.Trending[0].NewStars)
	assert.Equal(t, int64(11), body.Pagination.TotalCount)
	assert.Equal(t, int64(2), body.Pagination.TotalPages)
	store.AssertExpectations(t)
}

func TestGetTrending_Errors(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(router, "/api/trending").Code)

	store := new(mockStore)
	store.On("List", mock.Anything, mock.Anything).Return([]model.Trending(nil), int64(0), errors.New("db down")).Once()
	router, _ = newTestRouter(t, store, nil)

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/trending?since=yearly").Code)
	assert.Equal(t, http.StatusInternalServerError, get(router, "/api/trending").Code)
	store.AssertExpectations(t)
}

func TestArchive(t *testing.T) {
	router, handler := newTestRouter(t, nil, nil)
	dir := filepath.Join(handler.ArchiveRoot, "daily", "2024", "03", "15")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Python.csv"), []byte("id,name,lang,new_stars\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Go.csv"), []byte("id,name,lang,new_stars\n"), 0o644))

	w := get(router, "/api/archive/daily")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"dir":"daily/2024/03/15","files":["Go.csv","Python.csv"]}`, w.Body.String())

	w = get(router, "/api/archive/daily/Python.csv?date=2024-03-15")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "id,name,lang,new_stars\n", w.Body.String())

	assert.Equal(t, http.StatusNotFound, get(router, "/api/archive/daily?date=2020-01-01").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/api/archive/daily/Rust.csv").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/archive/daily/notes.txt").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/archive/hourly").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/archive/daily?date=15-03-2024").Code)
}
