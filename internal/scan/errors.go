package scan

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrScanInFlight is returned when a scan or refresh is requested
	// while another one holds the single-flight lock. The request is
	// dropped; there is no queuing.
	ErrScanInFlight = errors.New("a scan is already in progress")

	// ErrScanBackend wraps failures of the scanning backend. The
	// authoritative collection is left untouched when it is returned.
	ErrScanBackend = errors.New("scan backend failure")

	// ErrNoScanRoots is returned by RefreshAll when there is nothing to
	// refresh because no directory has been scanned yet.
	ErrNoScanRoots = errors.New("no scanned directories to refresh")
)

// ConflictError reports that a candidate scan path overlaps a previously
// scanned path. It is non-fatal: the caller is expected to ask the user for
// confirmation and, if granted, retry the scan with ScanOptions.Force set.
// Declining simply means not retrying; no state was mutated.
type ConflictError struct {
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	return e.Conflict.Message
}

// PartialError accumulates the per-root failures of a refresh-all run.
// It is informational: the refresh itself succeeded for the remaining
// roots and the merged result was committed.
type PartialError struct {
	// FailedRoots are the scan roots whose rescan failed, in refresh order.
	FailedRoots []string

	errs *multierror.Error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d of the scanned directories failed to refresh: %v",
		len(e.FailedRoots), e.errs)
}

// Unwrap exposes the accumulated per-root errors.
func (e *PartialError) Unwrap() error {
	return e.errs.ErrorOrNil()
}
