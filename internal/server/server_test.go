package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
	"github.com/fyrsmithlabs/repodeck/internal/scan"
)

type staticLoader struct {
	repos []repo.Repository
	paths []string
}

func (l *staticLoader) Load(context.Context) ([]repo.Repository, []string, error) {
	return l.repos, l.paths, nil
}

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	state := scan.NewState()
	scan.Hydrate(context.Background(), state, &staticLoader{
		repos: []repo.Repository{
			{Name: "alpha", Path: "/src/alpha", IsGitRepo: true, Status: repo.StatusClean, PrimaryLanguage: "Go"},
			{Name: "beta", Path: "/src/beta", IsGitRepo: true, Status: repo.StatusDirty, PrimaryLanguage: "Rust"},
			{Name: "notes", Path: "/src/notes", IsGitRepo: false, Status: repo.StatusNoGit, PrimaryLanguage: "Go"},
		},
		paths: []string{"/src"},
	}, zap.NewNop())

	server, err := NewServer(state, zap.NewNop(), nil)
	require.NoError(t, err)
	return server
}

func TestNewServer(t *testing.T) {
	t.Run("creates server with valid config", func(t *testing.T) {
		cfg := &Config{Host: "localhost", Port: 9480}

		server, err := NewServer(scan.NewState(), zap.NewNop(), cfg)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.echo)
		assert.Equal(t, cfg, server.config)
	})

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server, err := NewServer(scan.NewState(), zap.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", server.config.Host)
		assert.Equal(t, 9480, server.config.Port)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(scan.NewState(), nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("returns error when state is nil", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "state cannot be nil")
	})
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleRepositories(t *testing.T) {
	server := setupTestServer(t)

	get := func(t *testing.T, target string) RepositoriesResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp RepositoriesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	t.Run("lists all repositories", func(t *testing.T) {
		resp := get(t, "/api/v1/repositories")
		assert.Equal(t, 3, resp.Total)
	})

	t.Run("filters by status", func(t *testing.T) {
		resp := get(t, "/api/v1/repositories?status=dirty")
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "beta", resp.Repositories[0].Name)
	})

	t.Run("filters by language case-insensitively", func(t *testing.T) {
		resp := get(t, "/api/v1/repositories?language=go")
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("filters by git flag", func(t *testing.T) {
		resp := get(t, "/api/v1/repositories?git=false")
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "notes", resp.Repositories[0].Name)
	})

	t.Run("combined filters intersect", func(t *testing.T) {
		resp := get(t, "/api/v1/repositories?language=go&git=true")
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "alpha", resp.Repositories[0].Name)
	})
}

func TestHandleStats(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Stats.TotalDirectories)
	assert.Equal(t, 2, resp.Stats.GitRepositories)
	assert.Equal(t, []string{"/src"}, resp.Roots)
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestShutdown(t *testing.T) {
	server := setupTestServer(t)
	assert.NoError(t, server.Shutdown(context.Background()))
}
