package scan

import "github.com/google/uuid"

// Progress is one push event from the scanning backend, correlated to the
// scan it belongs to by Token. The original contract correlated events to
// scans only by temporal proximity; the token makes the association
// explicit so observers can discard events from a scan they are not
// watching.
type Progress struct {
	Token      uuid.UUID
	CurrentDir string
	Scanned    int
	Total      int
}

// ProgressFunc receives progress callbacks from the scanning backend.
type ProgressFunc func(currentDir string, scanned, total int)

// progressCapacity bounds the coordinator's event channel. Events beyond
// the buffer are dropped: losing one is harmless because the next event
// simply advances the displayed count.
const progressCapacity = 64
