package scan

import (
	"context"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

// CacheLoader is the external cache capability consumed at startup.
// Loading is best-effort: implementations return empty results rather than
// errors for a missing or incompatible cache file.
type CacheLoader interface {
	Load(ctx context.Context) (repositories []repo.Repository, scannedPaths []string, err error)
}

// Hydrate seeds the state from the persisted cache, bypassing the merge
// engine: hydration is always a full replacement of the (empty) startup
// collection. It reports whether any repositories were loaded.
//
// A load failure or an empty cache is non-fatal; the application simply
// starts without data, awaiting a user-initiated scan. The scan backend is
// never contacted here.
func Hydrate(ctx context.Context, state *State, loader CacheLoader, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}

	repos, scannedPaths, err := loader.Load(ctx)
	if err != nil {
		logger.Warn("cache hydration failed, starting without data", zap.Error(err))
		return false
	}
	if len(repos) == 0 {
		logger.Debug("no cached repositories found")
		return false
	}

	state.hydrate(repos, scannedPaths, Recompute(repos))
	logger.Info("hydrated from cache",
		zap.Int("repositories", len(repos)),
		zap.Int("scanned_paths", len(scannedPaths)))
	return true
}
