package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

func mkRepo(name, path string) repo.Repository {
	return repo.Repository{Name: name, Path: path, Remotes: []string{}}
}

func repoNames(rs []repo.Repository) []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return names
}

func TestMergeReplace(t *testing.T) {
	existing := []repo.Repository{mkRepo("old", "/old")}
	incoming := []repo.Repository{mkRepo("zeta", "/zeta"), mkRepo("alpha", "/alpha")}

	res := Merge(existing, incoming, ModeReplace)

	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 0, res.Duplicates)
	assert.Equal(t, []string{"alpha", "zeta"}, repoNames(res.Repositories),
		"replace result is the incoming set, sorted by name")
}

func TestMergeReplaceIgnoresExisting(t *testing.T) {
	existing := []repo.Repository{mkRepo("a", "/a"), mkRepo("b", "/b")}
	incoming := []repo.Repository{mkRepo("c", "/c")}

	res := Merge(existing, incoming, ModeReplace)

	require.Len(t, res.Repositories, 1)
	assert.Equal(t, "/c", res.Repositories[0].Path)
}

func TestMergeAdd(t *testing.T) {
	existing := []repo.Repository{mkRepo("beta", "/beta")}
	incoming := []repo.Repository{
		mkRepo("alpha", "/alpha"),
		mkRepo("beta", "/beta"), // duplicate by path
		mkRepo("gamma", "/gamma"),
	}

	res := Merge(existing, incoming, ModeAdd)

	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, repoNames(res.Repositories))
}

func TestMergeAddKeepsExistingRecordOnDuplicate(t *testing.T) {
	old := mkRepo("proj", "/proj")
	old.SizeMB = 5

	fresh := mkRepo("proj", "/proj")
	fresh.SizeMB = 9

	res := Merge([]repo.Repository{old}, []repo.Repository{fresh}, ModeAdd)

	require.Len(t, res.Repositories, 1)
	assert.Equal(t, 5.0, res.Repositories[0].SizeMB,
		"add mode drops the incoming duplicate, it does not replace the record")
}

func TestMergeAddAllDuplicates(t *testing.T) {
	existing := []repo.Repository{mkRepo("a", "/a"), mkRepo("b", "/b")}
	incoming := []repo.Repository{mkRepo("a", "/a"), mkRepo("b", "/b")}

	res := Merge(existing, incoming, ModeAdd)

	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 2, res.Duplicates)
	assert.Len(t, res.Repositories, 2)
}

func TestMergeEmptyInputs(t *testing.T) {
	res := Merge(nil, nil, ModeAdd)
	assert.Empty(t, res.Repositories)
	assert.Zero(t, res.Added)
	assert.Zero(t, res.Duplicates)

	res = Merge(nil, nil, ModeReplace)
	assert.Empty(t, res.Repositories)
}

func TestMergeDoesNotMutateArguments(t *testing.T) {
	existing := []repo.Repository{mkRepo("z", "/z"), mkRepo("a", "/a")}
	incoming := []repo.Repository{mkRepo("m", "/m")}

	Merge(existing, incoming, ModeAdd)

	assert.Equal(t, []string{"z", "a"}, repoNames(existing))
}

func TestMergeSortIsStable(t *testing.T) {
	// Same display name, different paths: relative order must hold.
	first := mkRepo("same", "/one")
	second := mkRepo("same", "/two")

	res := Merge([]repo.Repository{first}, []repo.Repository{second}, ModeAdd)

	require.Len(t, res.Repositories, 2)
	assert.Equal(t, "/one", res.Repositories[0].Path)
	assert.Equal(t, "/two", res.Repositories[1].Path)
}
