package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/eventfinder/internal/config"
	"github.com/klokku/eventfinder/pkg/finder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, cfg config.Application) *mux.Router {
	t.Helper()
	deps, err := BuildDependencies(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(deps.Close)

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)
	return r
}

func fileConfig(t *testing.T, cache bool) config.Application {
	t.Helper()
	path := filepath.Join(t.TempDir(), "find_events_data.json")
	content := `{"Melbourne": [{"eventName": "Winter Fair", "dateFrom": "2000-01-01", "dateTo": "2999-12-31", "description": "Always on"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := config.Defaults()
	cfg.Data.Path = path
	cfg.Data.Cache = cache
	return cfg
}

func TestBuildDependencies_SelectsSource(t *testing.T) {
	deps, err := BuildDependencies(context.Background(), fileConfig(t, false))
	require.NoError(t, err)
	assert.IsType(t, &finder.FileSource{}, deps.Source)

	deps, err = BuildDependencies(context.Background(), fileConfig(t, true))
	require.NoError(t, err)
	assert.IsType(t, &finder.CachedSource{}, deps.Source)

	cfg := config.Defaults()
	cfg.Data.Source = "s3"
	_, err = BuildDependencies(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRoutes_GetEvents(t *testing.T) {
	for _, cache := range []bool{false, true} {
		r := setupRouter(t, fileConfig(t, cache))
		req := httptest.NewRequest(http.MethodGet, "/api/events?city=MELB&month=june", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"eventName":"Winter Fair"`)
		assert.Contains(t, w.Body.String(), "Returning events that overlap with June ")
	}
}

func TestRoutes_ToolCall(t *testing.T) {
	r := setupRouter(t, fileConfig(t, false))
	req := httptest.NewRequest(http.MethodPost, "/api/tools/find_events", strings.NewReader(`{"city": "Sydney", "month": "June"}`))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"events":[]`)
}

func TestRoutes_MissingDataFile(t *testing.T) {
	cfg := config.Defaults()
	cfg.Data.Path = filepath.Join(t.TempDir(), "absent.json")
	r := setupRouter(t, cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/tools/find_events", strings.NewReader(`{"month": "June"}`))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"error": "Data file not found."}`, w.Body.String())
}

func TestMiddleware_RequestID(t *testing.T) {
	r := setupRouter(t, fileConfig(t, false))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	r := setupRouter(t, fileConfig(t, false))
	req := httptest.NewRequest(http.MethodDelete, "/api/events", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
