// Package server provides the HTTP API over the in-memory repository state.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
	"github.com/fyrsmithlabs/repodeck/internal/scan"
)

// Server serves read-only views of the scanned repository collection.
type Server struct {
	echo   *echo.Echo
	state  *scan.State
	logger *zap.Logger
	config *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server over the given state.
func NewServer(state *scan.State, logger *zap.Logger, cfg *Config) (*Server, error) {
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9480,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:   e,
		state:  state,
		logger: logger,
		config: cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/repositories", s.handleRepositories)
	v1.GET("/stats", s.handleStats)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// RepositoriesResponse is the response body for GET /api/v1/repositories.
type RepositoriesResponse struct {
	Total        int               `json:"total"`
	Repositories []repo.Repository `json:"repositories"`
}

// StatsResponse is the response body for GET /api/v1/stats.
type StatsResponse struct {
	Stats    repo.DirectoryStats `json:"stats"`
	LastScan time.Time           `json:"last_scan"`
	Roots    []string            `json:"scan_roots"`
	Activity string              `json:"activity"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleRepositories lists repositories, filterable with ?status=, ?language=
// and ?git=true|false query parameters.
func (s *Server) handleRepositories(c echo.Context) error {
	repos := s.state.Repositories()

	if status := c.QueryParam("status"); status != "" {
		repos = filter(repos, func(r repo.Repository) bool {
			return string(r.Status) == status
		})
	}
	if language := c.QueryParam("language"); language != "" {
		repos = filter(repos, func(r repo.Repository) bool {
			return strings.EqualFold(r.PrimaryLanguage, language)
		})
	}
	if git := c.QueryParam("git"); git != "" {
		want := git == "true"
		repos = filter(repos, func(r repo.Repository) bool {
			return r.IsGitRepo == want
		})
	}

	return c.JSON(http.StatusOK, RepositoriesResponse{
		Total:        len(repos),
		Repositories: repos,
	})
}

// handleStats returns the precomputed aggregate for the collection.
func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, StatsResponse{
		Stats:    s.state.Stats(),
		LastScan: s.state.LastScan(),
		Roots:    s.state.ScanRoots(),
		Activity: s.state.Status(),
	})
}

func filter(repos []repo.Repository, keep func(repo.Repository) bool) []repo.Repository {
	out := make([]repo.Repository, 0, len(repos))
	for _, r := range repos {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
