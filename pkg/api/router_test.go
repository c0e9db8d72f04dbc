package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/unowned-ai/devlog/pkg/db"
	"github.com/unowned-ai/devlog/pkg/insight"
	"github.com/unowned-ai/devlog/pkg/logs"
	"github.com/unowned-ai/devlog/pkg/suggest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T) (*gin.Engine, *logs.Store) {
	t.Helper()
	conn, err := pkgdb.OpenDBConnection(pkgdb.MemoryDSN, true, "NORMAL")
	require.NoError(t, err)
	require.NoError(t, pkgdb.InitializeSchema(conn, pkgdb.TargetSchemaVersion))

	store := logs.New(conn)
	t.Cleanup(func() { store.Close() })

	return NewRouter(NewHandler(store, suggest.New(store, insight.Canned{}))), store
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestWelcomeAndHealth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"message": "Welcome to DevLog API"}, decode[map[string]string](t, w))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]string](t, w)
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["timestamp"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestCreateAndGetLog(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/logs/", map[string]any{
		"title":      "Read the gin docs",
		"content":    "Route groups and middleware.",
		"date":       "2024-01-01T10:00:00Z",
		"mood":       "😊",
		"time_spent": 45,
		"tags":       []string{"go", "gin"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[logs.Log](t, w)
	assert.NotZero(t, created.ID)
	assert.Equal(t, []string{"gin", "go"}, created.Tags)

	w = do(t, router, http.MethodGet, fmt.Sprintf("/api/logs/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[logs.Log](t, w)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Read the gin docs", got.Title)
	assert.Equal(t, logs.MoodHappy, got.Mood)
}

func TestCreateLog_Validation(t *testing.T) {
	router, _ := setupTestRouter(t)

	for name, body := range map[string]any{
		"empty title":    map[string]any{"title": ""},
		"bad mood":       map[string]any{"title": "x", "mood": "🤖"},
		"bad date":       map[string]any{"title": "x", "date": "tomorrow-ish"},
		"negative time":  map[string]any{"title": "x", "time_spent": -1},
		"malformed json": `{"title": `,
		"wrong type":     map[string]any{"title": "x", "time_spent": "ten"},
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/logs/", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			errBody := decode[errorBody](t, w)
			assert.Equal(t, http.StatusUnprocessableEntity, errBody.StatusCode)
			assert.NotEmpty(t, errBody.Error)
		})
	}
}

func TestGetLog_Errors(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/logs/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errorBody{Error: "Log not found", StatusCode: http.StatusNotFound}, decode[errorBody](t, w))

	w = do(t, router, http.MethodGet, "/api/logs/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListLogs(t *testing.T) {
	router, store := setupTestRouter(t)
	for i := 1; i <= 12; i++ {
		_, err := store.CreateLog(context.Background(), logs.CreateLogParams{
			Title: fmt.Sprintf("log %02d", i),
			Date:  ptrTime(t, fmt.Sprintf("2024-01-%02d", i)),
		})
		require.NoError(t, err)
	}

	w := do(t, router, http.MethodGet, "/api/logs/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[[]logs.Log](t, w)
	require.Len(t, page, 10)
	assert.Equal(t, "log 12", page[0].Title)

	w = do(t, router, http.MethodGet, "/api/logs/?skip=10&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[[]logs.Log](t, w)
	require.Len(t, page, 2)
	assert.Equal(t, "log 01", page[1].Title)

	for _, query := range []string{"skip=-1", "limit=0", "limit=101", "limit=many"} {
		w = do(t, router, http.MethodGet, "/api/logs/?"+query, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, query)
	}
}

func TestDeleteLog(t *testing.T) {
	router, store := setupTestRouter(t)
	created, err := store.CreateLog(context.Background(), logs.CreateLogParams{Title: "bye", Tags: []string{"go"}})
	require.NoError(t, err)

	path := fmt.Sprintf("/api/logs/%d", created.ID)
	w := do(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/logs/", nil)
	assert.Empty(t, decode[[]logs.Log](t, w))
}

func TestTagsAndStats(t *testing.T) {
	router, store := setupTestRouter(t)
	minutes := 90
	_, err := store.CreateLog(context.Background(), logs.CreateLogParams{Title: "a", TimeSpent: &minutes, Tags: []string{"rust"}})
	require.NoError(t, err)

	w := do(t, router, http.MethodGet, "/api/tags/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode[[]logs.Tag](t, w)
	require.Len(t, tags, 1)
	assert.Equal(t, "rust", tags[0].Name)

	w = do(t, router, http.MethodGet, "/api/stats/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, float64(1), stats["total_logs"])
	assert.Equal(t, float64(90), stats["total_time"])
	assert.Equal(t, float64(90), stats["avg_time_per_log"])
	assert.Equal(t, []any{"rust"}, stats["top_tags"])
}

func TestInsightEndpoints(t *testing.T) {
	router, store := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/ai/suggestions/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, suggest.NoActivityMessage, decode[suggest.Suggestion](t, w).Suggestion)

	w = do(t, router, http.MethodGet, "/api/ai/mood-insights/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, suggest.NoMoodMessage, decode[suggest.MoodInsight](t, w).Insight)

	_, err := store.CreateLog(context.Background(), logs.CreateLogParams{Title: "now", Mood: logs.MoodNeutral, Tags: []string{"go"}})
	require.NoError(t, err)

	w = do(t, router, http.MethodGet, "/api/ai/suggestions/", nil)
	assert.Equal(t, insight.CannedSuggestion, decode[suggest.Suggestion](t, w).Suggestion)
	w = do(t, router, http.MethodGet, "/api/ai/mood-insights/", nil)
	assert.Equal(t, insight.CannedMoodInsight, decode[suggest.MoodInsight](t, w).Insight)
}

type brokenStore struct{}

var errStoreDown = errors.New("disk I/O error")

func (brokenStore) CreateLog(context.Context, logs.CreateLogParams) (logs.Log, error) {
	return logs.Log{}, errStoreDown
}
func (brokenStore) GetLog(context.Context, int64) (logs.Log, error) { return logs.Log{}, errStoreDown }
func (brokenStore) ListLogs(context.Context, int, int) ([]logs.Log, error) {
	return nil, errStoreDown
}
func (brokenStore) DeleteLog(context.Context, int64) error { return errStoreDown }
func (brokenStore) ListTags(context.Context) ([]logs.Tag, error) { return nil, errStoreDown }
func (brokenStore) GetStats(context.Context) (logs.Stats, error) { return logs.Stats{}, errStoreDown }

func TestStoreFailuresAre500(t *testing.T) {
	store := brokenStore{}
	router := NewRouter(NewHandler(store, suggest.New(store, insight.Canned{})))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/logs/"},
		{http.MethodGet, "/api/logs/1"},
		{http.MethodDelete, "/api/logs/1"},
		{http.MethodGet, "/api/tags/"},
		{http.MethodGet, "/api/stats/"},
		{http.MethodGet, "/api/ai/suggestions/"},
		{http.MethodGet, "/api/ai/mood-insights/"},
	} {
		w := do(t, router, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code, "%s %s", tc.method, tc.path)
		assert.NotContains(t, w.Body.String(), errStoreDown.Error())
	}

	w := do(t, router, http.MethodPost, "/api/logs/", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)
	do(t, router, http.MethodGet, "/health", nil)

	w := do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "devlog_http_request_duration_seconds"))
}

func ptrTime(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := logs.ParseDate(s)
	require.NoError(t, err)
	return &d
}
