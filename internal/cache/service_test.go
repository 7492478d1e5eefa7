package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(t.TempDir(), 3, nil)
	require.NoError(t, err)
	return svc
}

func sampleRepos() []repo.Repository {
	return []repo.Repository{
		{Name: "alpha", Path: "/src/alpha", IsGitRepo: true, SizeMB: 4, Remotes: []string{}},
		{Name: "beta", Path: "/src/beta", IsGitRepo: false, SizeMB: 1, Remotes: []string{}},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, sampleRepos(), []string{"/src"}))

	repos, paths, err := svc.Load(ctx)
	require.NoError(t, err)

	require.Len(t, repos, 2)
	assert.Equal(t, "alpha", repos[0].Name)
	assert.Equal(t, "beta", repos[1].Name)
	assert.True(t, repos[0].IsGitRepo)
	assert.Equal(t, []string{"/src"}, paths)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	svc := newTestService(t)

	repos, paths, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repos)
	assert.Empty(t, paths)
}

func TestLoadVersionMismatchIsEmpty(t *testing.T) {
	svc := newTestService(t)

	stale := Data{Version: "0.9.0", Repositories: map[string]Entry{
		"/x": {Repository: repo.Repository{Name: "x", Path: "/x"}},
	}}
	content, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(svc.cacheFile(), content, 0o644))

	repos, _, err := svc.Load(context.Background())
	require.NoError(t, err, "incompatible cache is ignored, not an error")
	assert.Empty(t, repos)
}

func TestLoadCorruptFileFails(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, os.WriteFile(svc.cacheFile(), []byte("{not json"), 0o644))

	_, _, err := svc.Load(context.Background())
	assert.Error(t, err)
}

func TestSaveCreatesBackups(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, sampleRepos(), nil))
	backups, err := svc.backups()
	require.NoError(t, err)
	assert.Empty(t, backups, "first save has nothing to back up")

	require.NoError(t, svc.Save(ctx, sampleRepos(), nil))
	backups, err = svc.backups()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestSavePrunesOldBackups(t *testing.T) {
	svc := newTestService(t) // maxHistory = 3

	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("repositories-2026010%d-000000.000.json", i+1)
		require.NoError(t, os.WriteFile(
			filepath.Join(svc.dir, historyDir, name), []byte("{}"), 0o644))
	}

	require.NoError(t, svc.Save(context.Background(), sampleRepos(), nil))

	backups, err := svc.backups()
	require.NoError(t, err)
	assert.Len(t, backups, 3)
	for _, b := range backups {
		assert.NotContains(t, b, "20260101", "oldest backup pruned first")
	}
}

func TestClear(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, sampleRepos(), nil))
	require.NoError(t, svc.Clear())
	require.NoError(t, svc.Clear(), "clearing an absent cache is fine")

	repos, _, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestStat(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.Stat(ctx)
	require.NoError(t, err)
	assert.Zero(t, info.FileSize)
	assert.Zero(t, info.Repositories)

	require.NoError(t, svc.Save(ctx, sampleRepos(), []string{"/src"}))

	info, err = svc.Stat(ctx)
	require.NoError(t, err)
	assert.Positive(t, info.FileSize)
	assert.Equal(t, 2, info.Repositories)
	assert.WithinDuration(t, time.Now(), info.LastScan, time.Minute)
}
