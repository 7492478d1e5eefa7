// Package repo defines the data model shared by the scanner, the scan
// coordinator, the cache service, and the presentation layers.
//
// A Repository describes one discovered directory. Its Path is the primary
// key: the aggregated collection never contains two entries with the same
// path, and a rescan of a path replaces the whole record rather than
// patching individual fields.
package repo

import "time"

// Status classifies the working state of a discovered directory.
type Status string

const (
	// StatusClean is a git repository with no pending changes.
	StatusClean Status = "clean"

	// StatusDirty is a git repository with staged or unstaged changes.
	StatusDirty Status = "dirty"

	// StatusUntracked is a git repository whose only pending changes are
	// untracked files.
	StatusUntracked Status = "untracked"

	// StatusNoGit is a plain directory without a git repository.
	StatusNoGit Status = "no_git"

	// StatusError means git introspection failed; the Repository's
	// StatusError field carries the failure message.
	StatusError Status = "error"
)

// Repository is one discovered directory and everything known about it.
//
// Optional fields use pointer types; nil means the value could not be
// determined (for example LastCommitDate on a repository with no commits).
type Repository struct {
	Name                  string     `json:"name"`
	Path                  string     `json:"path"`
	IsGitRepo             bool       `json:"is_git_repo"`
	HasUncommittedChanges bool       `json:"has_uncommitted_changes"`
	CurrentBranch         string     `json:"current_branch,omitempty"`
	Remotes               []string   `json:"remotes"`
	LastCommitDate        *time.Time `json:"last_commit_date,omitempty"`
	LastActivity          *time.Time `json:"last_activity,omitempty"`
	Status                Status     `json:"status"`
	StatusError           string     `json:"status_error,omitempty"`
	SizeMB                float64    `json:"size_mb"`
	CommitCount           int        `json:"commit_count,omitempty"`
	PrimaryLanguage       string     `json:"primary_language,omitempty"`
	TotalLines            int        `json:"total_lines"`
	CodeLines             int        `json:"code_lines"`
}

// DirectoryStats is the derived aggregate over a repository collection.
//
// It is recomputed wholesale from the collection after every mutation and
// never patched incrementally. The three bounded lists are capped (10, 10,
// 20) and their ordering rules are documented on scan.Recompute.
type DirectoryStats struct {
	TotalDirectories        int          `json:"total_directories"`
	GitRepositories         int          `json:"git_repositories"`
	NonGitDirectories       int          `json:"non_git_directories"`
	RepositoriesWithChanges int          `json:"repositories_with_changes"`
	RepositoriesWithRemotes int          `json:"repositories_with_remotes"`
	TotalSizeMB             float64      `json:"total_size_mb"`
	LargestRepos            []Repository `json:"largest_repos"`
	MostActiveRepos         []Repository `json:"most_active_repos"`
	ReposNeedingAttention   []Repository `json:"repos_needing_attention"`
}

// GitStatus is the detailed working-tree state of a single repository,
// produced by on-demand introspection (not stored in the aggregate).
type GitStatus struct {
	IsClean        bool     `json:"is_clean"`
	StagedFiles    []string `json:"staged_files"`
	UnstagedFiles  []string `json:"unstaged_files"`
	UntrackedFiles []string `json:"untracked_files"`
	CurrentBranch  string   `json:"current_branch,omitempty"`
	TrackingBranch string   `json:"tracking_branch,omitempty"`
}

// RemoteInfo describes one configured remote.
type RemoteInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// BranchInfo describes one local or remote branch.
type BranchInfo struct {
	Name       string     `json:"name"`
	IsCurrent  bool       `json:"is_current"`
	IsRemote   bool       `json:"is_remote"`
	Upstream   string     `json:"upstream,omitempty"`
	LastCommit *time.Time `json:"last_commit,omitempty"`
}

// Activity summarizes recent commit activity for one repository.
type Activity struct {
	Days        int      `json:"days"`
	CommitCount int      `json:"commit_count"`
	Authors     []string `json:"authors"`
}
