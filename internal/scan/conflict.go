package scan

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ConflictKind classifies how a candidate scan path relates to an already
// scanned path.
type ConflictKind string

const (
	// ConflictParent means the candidate contains an already scanned
	// directory, so scanning it would re-scan that subtree.
	ConflictParent ConflictKind = "parent"

	// ConflictChild means the candidate lies inside an already scanned
	// directory and is therefore already covered.
	ConflictChild ConflictKind = "child"

	// ConflictDuplicate means the candidate was scanned before.
	ConflictDuplicate ConflictKind = "duplicate"
)

// Conflict describes one detected path overlap.
type Conflict struct {
	Kind            ConflictKind
	Path            string
	ConflictingPath string
	Message         string
}

// Classify reports the relationship between a candidate scan path and the
// set of previously scanned paths, or nil when there is no overlap.
//
// Both sides are normalized by converting to slash form and stripping a
// trailing separator. Existing paths are checked in slice order; for each
// one the tests run in precedence order parent, child, duplicate, and the
// first match wins. Classify is pure and never mutates its arguments.
func Classify(candidate string, existing []string) *Conflict {
	cand := normalizePath(candidate)

	for _, raw := range existing {
		prev := normalizePath(raw)

		switch {
		case strings.HasPrefix(prev, cand+"/"):
			return &Conflict{
				Kind:            ConflictParent,
				Path:            candidate,
				ConflictingPath: raw,
				Message: fmt.Sprintf("%s contains the already scanned directory %s; scanning it would re-scan that subtree",
					candidate, raw),
			}
		case strings.HasPrefix(cand, prev+"/"):
			return &Conflict{
				Kind:            ConflictChild,
				Path:            candidate,
				ConflictingPath: raw,
				Message: fmt.Sprintf("%s is inside the already scanned directory %s and is already covered",
					candidate, raw),
			}
		case cand == prev:
			return &Conflict{
				Kind:            ConflictDuplicate,
				Path:            candidate,
				ConflictingPath: raw,
				Message:         fmt.Sprintf("%s has already been scanned", candidate),
			}
		}
	}
	return nil
}

func normalizePath(p string) string {
	p = filepath.ToSlash(p)
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
