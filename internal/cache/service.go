// Package cache persists the aggregated repository collection as a JSON
// document with versioning and timestamped history backups.
//
// Loading is best-effort by contract: a missing, unreadable, or
// version-incompatible cache file loads as empty so the application can
// always start. Saving writes a backup of the previous file into the
// history directory first and prunes old backups beyond the configured
// retention.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

const (
	cacheFileName = "repositories.json"
	historyDir    = "history"

	defaultMaxHistory = 10
)

// Service manages the on-disk cache.
type Service struct {
	dir        string
	maxHistory int
	logger     *zap.Logger
}

// NewService creates the cache service rooted at dir, creating the
// directory tree if needed.
func NewService(dir string, maxHistory int, logger *zap.Logger) (*Service, error) {
	if dir == "" {
		return nil, errors.New("cache directory is required")
	}
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Join(dir, historyDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Service{dir: dir, maxHistory: maxHistory, logger: logger}, nil
}

func (s *Service) cacheFile() string {
	return filepath.Join(s.dir, cacheFileName)
}

// Load reads the cached collection. It satisfies the coordinator's
// CacheLoader contract: every failure mode degrades to an empty result.
func (s *Service) Load(ctx context.Context) ([]repo.Repository, []string, error) {
	data, err := s.load(ctx)
	if err != nil || data == nil {
		return nil, nil, err
	}

	repos := make([]repo.Repository, 0, len(data.Repositories))
	for _, entry := range data.Repositories {
		repos = append(repos, entry.Repository)
	}
	// Map iteration order is random; keep hydration deterministic.
	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })

	return repos, data.ScannedPaths, nil
}

func (s *Service) load(ctx context.Context) (*Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.cacheFile())
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no cache file", zap.String("path", s.cacheFile()))
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var data Data
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("decoding cache: %w", err)
	}
	if data.Version != Version {
		s.logger.Warn("cache version mismatch, ignoring cache",
			zap.String("want", Version), zap.String("found", data.Version))
		return nil, nil
	}
	return &data, nil
}

// Save persists the collection, backing up the previous cache file first.
func (s *Service) Save(ctx context.Context, repositories []repo.Repository, scannedPaths []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := build(repositories, scannedPaths)
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if _, err := os.Stat(s.cacheFile()); err == nil {
		if err := s.backup(); err != nil {
			s.logger.Warn("cache backup failed", zap.Error(err))
		}
	}

	if err := os.WriteFile(s.cacheFile(), content, 0o644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	s.logger.Debug("cache saved",
		zap.Int("repositories", len(repositories)), zap.String("path", s.cacheFile()))

	s.prune()
	return nil
}

// Clear removes the cache file; history backups are kept.
func (s *Service) Clear() error {
	if err := os.Remove(s.cacheFile()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache: %w", err)
	}
	return nil
}

// Stat reports the cache's on-disk shape for the cache info command.
func (s *Service) Stat(ctx context.Context) (Info, error) {
	info := Info{Directory: s.dir}

	if fi, err := os.Stat(s.cacheFile()); err == nil {
		info.FileSize = fi.Size()
	}
	if backups, err := s.backups(); err == nil {
		info.HistoryFiles = len(backups)
	}
	if data, err := s.load(ctx); err == nil && data != nil {
		info.LastScan = data.LastScan
		info.Repositories = data.TotalRepos
	}
	return info, nil
}

func build(repositories []repo.Repository, scannedPaths []string) Data {
	now := time.Now().UTC()
	data := Data{
		Version:      Version,
		LastScan:     now,
		ScannedPaths: append([]string(nil), scannedPaths...),
		Repositories: make(map[string]Entry, len(repositories)),
		TotalRepos:   len(repositories),
	}
	for _, r := range repositories {
		data.Repositories[r.Path] = Entry{Repository: r, CachedAt: now}
		if r.IsGitRepo {
			data.TotalGitRepos++
		}
		data.TotalSizeMB += r.SizeMB
	}
	return data
}

func (s *Service) backup() error {
	name := fmt.Sprintf("repositories-%s.json", time.Now().UTC().Format("20060102-150405.000"))
	dst := filepath.Join(s.dir, historyDir, name)

	content, err := os.ReadFile(s.cacheFile())
	if err != nil {
		return err
	}
	return os.WriteFile(dst, content, 0o644)
}

// prune keeps only the newest maxHistory backups.
func (s *Service) prune() {
	backups, err := s.backups()
	if err != nil || len(backups) <= s.maxHistory {
		return
	}
	sort.Strings(backups) // timestamped names sort oldest first
	for _, old := range backups[:len(backups)-s.maxHistory] {
		if err := os.Remove(old); err != nil {
			s.logger.Warn("removing old cache backup failed",
				zap.String("path", old), zap.Error(err))
		}
	}
}

func (s *Service) backups() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, historyDir, "repositories-*.json"))
	if err != nil {
		return nil, err
	}
	return matches, nil
}
