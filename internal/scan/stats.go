package scan

import (
	"sort"
	"time"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

// Caps for the bounded lists in DirectoryStats.
const (
	largestCap    = 10
	mostActiveCap = 10
	attentionCap  = 20
)

// Recompute derives DirectoryStats from scratch for a repository
// collection. It is pure, tolerates an empty or nil input, and is run in
// full after every mutation of the authoritative collection; there is no
// incremental update path at the scale this tool targets (hundreds of
// repositories).
//
// List ordering:
//   - LargestRepos: top 10 by size descending, stable (ties keep input order)
//   - MostActiveRepos: top 10 by last commit date descending, stable; a
//     missing date sorts as the earliest possible value
//   - ReposNeedingAttention: git repositories with uncommitted changes or
//     no remotes, first 20 in input order, not re-sorted
func Recompute(repositories []repo.Repository) repo.DirectoryStats {
	stats := repo.DirectoryStats{
		TotalDirectories:      len(repositories),
		LargestRepos:          []repo.Repository{},
		MostActiveRepos:       []repo.Repository{},
		ReposNeedingAttention: []repo.Repository{},
	}

	for _, r := range repositories {
		if r.IsGitRepo {
			stats.GitRepositories++
		}
		if r.HasUncommittedChanges {
			stats.RepositoriesWithChanges++
		}
		if len(r.Remotes) > 0 {
			stats.RepositoriesWithRemotes++
		}
		stats.TotalSizeMB += r.SizeMB
	}
	stats.NonGitDirectories = stats.TotalDirectories - stats.GitRepositories

	largest := make([]repo.Repository, len(repositories))
	copy(largest, repositories)
	sort.SliceStable(largest, func(i, j int) bool {
		return largest[i].SizeMB > largest[j].SizeMB
	})
	stats.LargestRepos = truncate(largest, largestCap)

	active := make([]repo.Repository, len(repositories))
	copy(active, repositories)
	sort.SliceStable(active, func(i, j int) bool {
		return commitTime(active[i]).After(commitTime(active[j]))
	})
	stats.MostActiveRepos = truncate(active, mostActiveCap)

	for _, r := range repositories {
		if len(stats.ReposNeedingAttention) == attentionCap {
			break
		}
		if r.IsGitRepo && (r.HasUncommittedChanges || len(r.Remotes) == 0) {
			stats.ReposNeedingAttention = append(stats.ReposNeedingAttention, r)
		}
	}

	return stats
}

// commitTime treats a missing last-commit date as the zero time so that
// repositories without commits sort last in the most-active list.
func commitTime(r repo.Repository) time.Time {
	if r.LastCommitDate == nil {
		return time.Time{}
	}
	return *r.LastCommitDate
}

func truncate(rs []repo.Repository, limit int) []repo.Repository {
	if len(rs) > limit {
		rs = rs[:limit]
	}
	return rs
}
