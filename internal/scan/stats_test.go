package scan

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

func TestRecomputeEmpty(t *testing.T) {
	stats := Recompute(nil)

	assert.Zero(t, stats.TotalDirectories)
	assert.Zero(t, stats.GitRepositories)
	assert.Zero(t, stats.NonGitDirectories)
	assert.Zero(t, stats.RepositoriesWithChanges)
	assert.Zero(t, stats.RepositoriesWithRemotes)
	assert.Zero(t, stats.TotalSizeMB)
	assert.Empty(t, stats.LargestRepos)
	assert.Empty(t, stats.MostActiveRepos)
	assert.Empty(t, stats.ReposNeedingAttention)
}

func TestRecomputeCounts(t *testing.T) {
	ts := time.Now()
	repos := []repo.Repository{
		{Name: "a", Path: "/a", IsGitRepo: true, HasUncommittedChanges: true,
			Remotes: []string{"origin: x"}, SizeMB: 10, LastCommitDate: &ts},
		{Name: "b", Path: "/b", IsGitRepo: true, Remotes: []string{}, SizeMB: 2.5},
		{Name: "c", Path: "/c", IsGitRepo: false, Remotes: []string{}, SizeMB: 1},
	}

	stats := Recompute(repos)

	assert.Equal(t, 3, stats.TotalDirectories)
	assert.Equal(t, 2, stats.GitRepositories)
	assert.Equal(t, 1, stats.NonGitDirectories)
	assert.Equal(t, 1, stats.RepositoriesWithChanges)
	assert.Equal(t, 1, stats.RepositoriesWithRemotes)
	assert.InDelta(t, 13.5, stats.TotalSizeMB, 0.001)
}

func TestRecomputeLargestOrderAndCap(t *testing.T) {
	repos := make([]repo.Repository, 0, 15)
	for i := 0; i < 15; i++ {
		repos = append(repos, repo.Repository{
			Name:   fmt.Sprintf("r%02d", i),
			Path:   fmt.Sprintf("/r%02d", i),
			SizeMB: float64(i),
		})
	}

	stats := Recompute(repos)

	require.Len(t, stats.LargestRepos, 10)
	assert.Equal(t, 14.0, stats.LargestRepos[0].SizeMB)
	for i := 1; i < len(stats.LargestRepos); i++ {
		assert.GreaterOrEqual(t,
			stats.LargestRepos[i-1].SizeMB, stats.LargestRepos[i].SizeMB)
	}
}

func TestRecomputeLargestTiesKeepInputOrder(t *testing.T) {
	repos := []repo.Repository{
		{Name: "first", Path: "/1", SizeMB: 5},
		{Name: "second", Path: "/2", SizeMB: 5},
		{Name: "third", Path: "/3", SizeMB: 5},
	}

	stats := Recompute(repos)

	assert.Equal(t, []string{"first", "second", "third"}, repoNames(stats.LargestRepos))
}

func TestRecomputeMostActive(t *testing.T) {
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	repos := []repo.Repository{
		{Name: "stale", Path: "/stale", LastCommitDate: &old},
		{Name: "nodate", Path: "/nodate"}, // missing date sorts last
		{Name: "fresh", Path: "/fresh", LastCommitDate: &recent},
	}

	stats := Recompute(repos)

	assert.Equal(t, []string{"fresh", "stale", "nodate"}, repoNames(stats.MostActiveRepos))
}

func TestRecomputeNeedingAttention(t *testing.T) {
	repos := []repo.Repository{
		// Dirty git repo with a remote: needs attention.
		{Name: "dirty", Path: "/dirty", IsGitRepo: true,
			HasUncommittedChanges: true, Remotes: []string{"origin: x"}},
		// Clean git repo without remotes: needs attention.
		{Name: "local-only", Path: "/local", IsGitRepo: true, Remotes: []string{}},
		// Clean git repo with remote: fine.
		{Name: "healthy", Path: "/healthy", IsGitRepo: true, Remotes: []string{"origin: y"}},
		// Non-git dir with no remotes: excluded, only git repos qualify.
		{Name: "plain", Path: "/plain", IsGitRepo: false, Remotes: []string{}},
	}

	stats := Recompute(repos)

	assert.Equal(t, []string{"dirty", "local-only"}, repoNames(stats.ReposNeedingAttention),
		"filter order preserved, not re-sorted")
}

func TestRecomputeNeedingAttentionCap(t *testing.T) {
	repos := make([]repo.Repository, 0, 30)
	for i := 0; i < 30; i++ {
		repos = append(repos, repo.Repository{
			Name:      fmt.Sprintf("r%02d", i),
			Path:      fmt.Sprintf("/r%02d", i),
			IsGitRepo: true,
			Remotes:   []string{},
		})
	}

	stats := Recompute(repos)

	require.Len(t, stats.ReposNeedingAttention, 20)
	assert.Equal(t, "r00", stats.ReposNeedingAttention[0].Name)
	assert.Equal(t, "r19", stats.ReposNeedingAttention[19].Name)
}
