package cache

import (
	"time"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

// Version of the cache format. A file with a different version is treated
// as empty rather than migrated; the next scan rewrites it.
const Version = "1.0.0"

// Data is the persisted cache document.
type Data struct {
	Version  string    `json:"version"`
	LastScan time.Time `json:"last_scan"`

	// ScannedPaths are the directories the user chose to scan; they
	// rehydrate the conflict-detection set and the refresh roots.
	ScannedPaths []string `json:"scanned_paths"`

	// Repositories is keyed by repository path.
	Repositories map[string]Entry `json:"repositories"`

	TotalRepos    int     `json:"total_repos"`
	TotalGitRepos int     `json:"total_git_repos"`
	TotalSizeMB   float64 `json:"total_size_mb"`
}

// Entry wraps one cached repository with caching metadata.
type Entry struct {
	Repository repo.Repository `json:"repository"`
	CachedAt   time.Time       `json:"cached_at"`
}

// Info describes the cache on disk for display purposes.
type Info struct {
	Directory    string    `json:"directory"`
	FileSize     int64     `json:"file_size_bytes"`
	HistoryFiles int       `json:"history_files"`
	LastScan     time.Time `json:"last_scan"`
	Repositories int       `json:"repositories"`
}
