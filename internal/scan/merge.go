package scan

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

// Mode selects how scan results combine with the existing collection.
type Mode string

const (
	// ModeReplace discards the existing collection and keeps only the
	// incoming repositories.
	ModeReplace Mode = "replace"

	// ModeAdd keeps the existing collection and appends incoming
	// repositories whose path is not already present.
	ModeAdd Mode = "add"
)

// MergeResult carries the merged collection and the dedup accounting.
type MergeResult struct {
	Repositories []repo.Repository
	Added        int
	Duplicates   int
}

// nameCollator orders repository names. The und locale gives a
// deterministic, locale-neutral collation independent of the host.
var nameCollator = collate.New(language.Und)

// Merge combines a freshly scanned collection with the existing one.
//
// In replace mode the result is exactly the incoming collection. In add
// mode incoming entries whose path already exists are dropped and counted
// as duplicates; path comparison is exact, matching the dedup done by the
// cache layer. The merged collection is always re-sorted by display name
// ascending with a stable sort, so presentation does not depend on scan
// order. Merge never mutates its arguments.
func Merge(existing, incoming []repo.Repository, mode Mode) MergeResult {
	var merged []repo.Repository
	res := MergeResult{}

	switch mode {
	case ModeAdd:
		seen := make(map[string]struct{}, len(existing))
		merged = make([]repo.Repository, 0, len(existing)+len(incoming))
		for _, r := range existing {
			seen[r.Path] = struct{}{}
			merged = append(merged, r)
		}
		for _, r := range incoming {
			if _, dup := seen[r.Path]; dup {
				res.Duplicates++
				continue
			}
			seen[r.Path] = struct{}{}
			merged = append(merged, r)
			res.Added++
		}
	default: // ModeReplace
		merged = make([]repo.Repository, len(incoming))
		copy(merged, incoming)
		res.Added = len(incoming)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return nameCollator.CompareString(merged[i].Name, merged[j].Name) < 0
	})

	res.Repositories = merged
	return res
}
