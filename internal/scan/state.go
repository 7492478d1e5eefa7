package scan

import (
	"sync"
	"time"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

// State is the authoritative in-memory holder of the repository collection,
// the scan roots, the scanned-path set, and the derived statistics.
//
// It is created once at process start and passed explicitly into the
// Coordinator; there is no package-level singleton. Mutation happens only
// through the Coordinator and Hydrate, and always as a whole-collection
// commit, so readers never observe a partially merged collection. The
// internal RWMutex exists because serve mode reads state from HTTP handler
// goroutines while a scan may be committing.
type State struct {
	mu sync.RWMutex

	repositories []repo.Repository
	scanRoots    []string
	scannedPaths []string
	stats        repo.DirectoryStats
	lastScan     time.Time

	// status is transient display text (current scan progress, last
	// error notice). It never influences the repository collection.
	status string
}

// NewState returns an empty State with zeroed statistics.
func NewState() *State {
	return &State{stats: Recompute(nil)}
}

// Repositories returns a copy of the current collection.
func (s *State) Repositories() []repo.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]repo.Repository, len(s.repositories))
	copy(out, s.repositories)
	return out
}

// Stats returns the current derived statistics.
func (s *State) Stats() repo.DirectoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// ScanRoots returns a copy of the directories that have been scanned and
// are eligible for refresh-all.
func (s *State) ScanRoots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.scanRoots))
	copy(out, s.scanRoots)
	return out
}

// ScannedPaths returns a copy of the directories the user explicitly chose
// to scan. It is the input set for conflict detection and is tracked
// separately from the scan roots so that user intent survives add-mode
// accumulation.
func (s *State) ScannedPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.scannedPaths))
	copy(out, s.scannedPaths)
	return out
}

// LastScan reports when the collection was last committed, or the zero
// time if it never was.
func (s *State) LastScan() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastScan
}

// Status returns the transient display status.
func (s *State) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus updates the transient display status.
func (s *State) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// commitScan atomically installs the merged collection and statistics
// after a single-path scan, updating the root and scanned-path sets
// according to the scan mode.
func (s *State) commitScan(repos []repo.Repository, stats repo.DirectoryStats, path string, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repositories = repos
	s.stats = stats
	s.lastScan = time.Now()

	if mode == ModeReplace {
		s.scanRoots = []string{path}
		s.scannedPaths = []string{path}
		return
	}
	s.scanRoots = appendUnique(s.scanRoots, path)
	s.scannedPaths = appendUnique(s.scannedPaths, path)
}

// replaceCollection atomically installs a collection without touching the
// root sets. Used by refresh-all, which rescans the existing roots.
func (s *State) replaceCollection(repos []repo.Repository, stats repo.DirectoryStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repositories = repos
	s.stats = stats
	s.lastScan = time.Now()
}

// hydrate seeds the state from the persisted cache.
func (s *State) hydrate(repos []repo.Repository, scannedPaths []string, stats repo.DirectoryStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repositories = repos
	s.stats = stats
	s.scanRoots = append([]string(nil), scannedPaths...)
	s.scannedPaths = append([]string(nil), scannedPaths...)
}

func appendUnique(paths []string, path string) []string {
	for _, p := range paths {
		if p == path {
			return paths
		}
	}
	return append(paths, path)
}
