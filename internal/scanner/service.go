// Package scanner implements the directory scanning backend: it walks a
// base directory, identifies git repositories and project-like directories,
// and produces the repo.Repository records the scan coordinator aggregates.
//
// A scan is all-or-nothing. Progress is pushed through the callback the
// coordinator supplies; the callback must not block.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
	"github.com/fyrsmithlabs/repodeck/internal/scan"
)

// defaultSkipDirs are directory names that are never projects and should
// not be descended into. Matched case-insensitively.
var defaultSkipDirs = []string{
	// Package managers and build output
	"node_modules", "vendor", "target", "dist", "build", "out",
	// Source subdirectories, not root projects
	"src", "lib", "libs", "components", "utils", "helpers",
	// Test directories
	"tests", "test", "__tests__", "spec", "specs",
	// Cache and temp
	"cache", "tmp", "temp", "logs",
	// OS noise
	"system volume information", "$recycle.bin", ".trash",
}

// minProjectCodeLines is the threshold below which a non-git directory
// without project indicator files is dropped from scan results.
const minProjectCodeLines = 10

// Options configures a scanner Service.
type Options struct {
	// MaxDepth limits how deep below the base path candidate directories
	// are collected. Zero means the default of 3.
	MaxDepth int

	// SizeDepth limits the walk used for directory size calculation.
	// Zero means the default of 2.
	SizeDepth int

	// SkipDirs replaces the default skip list when non-empty.
	SkipDirs []string
}

// Service scans directory trees for git repositories and projects.
type Service struct {
	maxDepth  int
	sizeDepth int
	skipDirs  map[string]bool
	logger    *zap.Logger
}

// New creates a scanner service.
func New(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}
	sizeDepth := opts.SizeDepth
	if sizeDepth <= 0 {
		sizeDepth = 2
	}
	names := opts.SkipDirs
	if len(names) == 0 {
		names = defaultSkipDirs
	}
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[strings.ToLower(n)] = true
	}
	return &Service{
		maxDepth:  maxDepth,
		sizeDepth: sizeDepth,
		skipDirs:  skip,
		logger:    logger,
	}
}

// Scan walks basePath and returns one Repository per discovered project.
//
// When the base path is itself a git repository only that repository is
// analyzed. Otherwise candidate directories are collected first so the
// progress callback can report a meaningful total, then each candidate is
// analyzed in order. Directories nested inside a discovered git repository
// are not candidates themselves. Non-git directories are kept only when
// they look like projects (indicator files or enough lines of code).
//
// Results are sorted by name; the coordinator re-sorts after merging, the
// sort here just keeps backend output deterministic.
func (s *Service) Scan(ctx context.Context, basePath string, onProgress scan.ProgressFunc) ([]repo.Repository, error) {
	base, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", basePath, err)
	}
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", base)
	}

	if isGitRepository(base) {
		s.report(onProgress, base, 1, 1)
		return []repo.Repository{s.analyzeDir(ctx, base)}, nil
	}

	candidates, err := s.collectCandidates(ctx, base)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("collected scan candidates",
		zap.String("base", base), zap.Int("count", len(candidates)))

	repositories := make([]repo.Repository, 0, len(candidates))
	for i, dir := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.report(onProgress, dir, i+1, len(candidates))

		r := s.analyzeDir(ctx, dir)
		if !r.IsGitRepo && r.CodeLines < minProjectCodeLines && !hasProjectIndicators(dir) {
			continue
		}
		repositories = append(repositories, r)
	}

	sort.SliceStable(repositories, func(i, j int) bool {
		return repositories[i].Name < repositories[j].Name
	})
	return repositories, nil
}

// collectCandidates gathers the directories worth analyzing, up to
// maxDepth below base. A git repository terminates descent: its
// subdirectories can never be separate candidates.
func (s *Service) collectCandidates(ctx context.Context, base string) ([]string, error) {
	var candidates []string

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			s.logger.Debug("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if path == base {
			candidates = append(candidates, path)
			return nil
		}
		if s.shouldSkipDir(path) {
			return filepath.SkipDir
		}
		if depth(base, path) > s.maxDepth {
			return filepath.SkipDir
		}

		candidates = append(candidates, path)
		if isGitRepository(path) {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", base, err)
	}
	return candidates, nil
}

// shouldSkipDir filters hidden directories, npm scoped package dirs, and
// the configured skip list.
func (s *Service) shouldSkipDir(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "@") {
		return true
	}
	return s.skipDirs[strings.ToLower(name)]
}

// analyzeDir builds the full Repository record for one directory. Git
// introspection failures downgrade to StatusError rather than aborting the
// scan.
func (s *Service) analyzeDir(ctx context.Context, dir string) repo.Repository {
	r := repo.Repository{
		Name:    filepath.Base(dir),
		Path:    dir,
		Remotes: []string{},
		Status:  repo.StatusNoGit,
	}

	r.SizeMB = dirSizeMB(dir, s.sizeDepth)
	r.LastActivity = lastActivity(dir)

	if isGitRepository(dir) {
		lang, total, code := detectLanguage(dir, r.SizeMB, false)
		r.PrimaryLanguage, r.TotalLines, r.CodeLines = lang, total, code
		s.analyzeGit(ctx, dir, &r)
		return r
	}

	lang, total, code := detectLanguage(dir, r.SizeMB, true)
	r.PrimaryLanguage, r.TotalLines, r.CodeLines = lang, total, code
	return r
}

func (s *Service) report(onProgress scan.ProgressFunc, dir string, scanned, total int) {
	if onProgress != nil {
		onProgress(dir, scanned, total)
	}
}

func depth(base, path string) int {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
