package gitops

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initGitRepo(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
	gr, err := git.PlainInit(path, false)
	require.NoError(t, err)

	file := filepath.Join(path, "README.md")
	require.NoError(t, os.WriteFile(file, []byte("# test\n"), 0o644))

	wt, err := gr.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestExecuteStatus(t *testing.T) {
	base := t.TempDir()
	clean := filepath.Join(base, "clean")
	dirty := filepath.Join(base, "dirty")
	initGitRepo(t, clean)
	initGitRepo(t, dirty)
	require.NoError(t, os.WriteFile(filepath.Join(dirty, "new.txt"), []byte("x"), 0o644))

	res, err := Execute(context.Background(), []string{clean, dirty}, OpStatus, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, "clean", res.Results[0].Output)
	assert.Equal(t, "1 changed files", res.Results[1].Output)
}

func TestExecuteRecordsPerPathFailures(t *testing.T) {
	base := t.TempDir()
	good := filepath.Join(base, "good")
	initGitRepo(t, good)
	missing := filepath.Join(base, "not-a-repo")
	require.NoError(t, os.MkdirAll(missing, 0o755))

	res, err := Execute(context.Background(), []string{good, missing}, OpStatus, nil)
	require.NoError(t, err, "per-path failures never abort the batch")

	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	assert.True(t, res.Results[0].Success)
	assert.False(t, res.Results[1].Success)
	assert.NotEmpty(t, res.Results[1].Error)
}

func TestExecuteFetchWithoutRemoteFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local")
	initGitRepo(t, path)

	res, err := Execute(context.Background(), []string{path}, OpFetch, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	assert.False(t, res.Results[0].Success)
}

func TestExecuteUnknownOperation(t *testing.T) {
	_, err := Execute(context.Background(), nil, Operation("rebase"), nil)
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestExecuteEmptyPaths(t *testing.T) {
	res, err := Execute(context.Background(), nil, OpStatus, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Results)
}
