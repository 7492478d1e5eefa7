// Package scan implements the orchestration core of repodeck: it decides
// when a scan may run, merges scan results into the authoritative in-memory
// collection, recomputes derived statistics, and hydrates the collection
// from the persisted cache at startup.
//
// The package does not touch git or the file system itself. The actual
// scanning backend is consumed through the Scanner interface, and cache
// loading through the CacheLoader interface; both are owned by other
// packages (internal/scanner, internal/cache).
//
// # Single-flight
//
// At most one scan or refresh may be in progress at any time. The
// Coordinator enforces this with a mutex acquired via TryLock: a request
// arriving while another is in flight fails immediately with
// ErrScanInFlight and is dropped, never queued. The lock is released by
// defer on every exit path, so a backend failure or a declined conflict
// override can never leave the coordinator wedged.
//
// # State
//
// State is the only shared mutable value. It is mutated exclusively by the
// Coordinator and by Hydrate, both of which commit a fully merged
// collection and freshly recomputed statistics in one atomic assignment.
// Readers (the HTTP API, the TUI) only ever observe complete collections.
//
// # Usage
//
//	state := scan.NewState()
//	scan.Hydrate(ctx, state, cacheService, logger)
//
//	coord := scan.NewCoordinator(state, scannerService,
//	    scan.WithSaver(cacheService),
//	    scan.WithLogger(logger))
//
//	result, err := coord.Scan(ctx, "/home/dev/src", scan.ScanOptions{Add: true})
//	var conflict *scan.ConflictError
//	if errors.As(err, &conflict) {
//	    // ask the user, then retry with Force: true
//	}
package scan
