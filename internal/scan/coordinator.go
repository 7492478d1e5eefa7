package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

// Scanner is the external scanning capability. A call is all-or-nothing:
// on error no partial results are returned. Implementations push progress
// through onProgress; passing nil disables progress reporting.
type Scanner interface {
	Scan(ctx context.Context, path string, onProgress ProgressFunc) ([]repo.Repository, error)
}

// Saver persists the aggregated collection after a successful scan.
// Persistence is best-effort; failures are logged and never fail the scan.
type Saver interface {
	Save(ctx context.Context, repositories []repo.Repository, scannedPaths []string) error
}

// ScanOptions controls a single scan request.
type ScanOptions struct {
	// Add merges results into the existing collection instead of
	// replacing it.
	Add bool

	// Force skips conflict detection. Set it only after the user has
	// explicitly confirmed a reported conflict.
	Force bool
}

// ScanResult summarizes a completed scan.
type ScanResult struct {
	Path       string
	Mode       Mode
	Found      int // repositories returned by the backend
	Added      int
	Duplicates int
	Total      int // collection size after the merge
	Duration   time.Duration
}

// RefreshResult summarizes a completed refresh-all run.
type RefreshResult struct {
	Roots   int
	Failed  int
	Total   int           // collection size after the atomic swap
	Partial *PartialError // nil when every root succeeded
}

// Coordinator owns the single-flight scan lock and drives the external
// scanning backend, the merge, and the statistics recomputation. All
// mutation of State flows through it.
type Coordinator struct {
	state   *State
	scanner Scanner
	saver   Saver
	logger  *zap.Logger
	metrics *Metrics

	// flight is the single-flight lock shared by Scan and RefreshAll.
	// Acquired with TryLock so a busy coordinator rejects instead of
	// queuing; released by defer on every exit path.
	flight sync.Mutex

	events chan Progress
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithSaver enables cache persistence after successful scans.
func WithSaver(saver Saver) Option {
	return func(c *Coordinator) { c.saver = saver }
}

// NewCoordinator creates a coordinator around the given state and backend.
func NewCoordinator(state *State, scanner Scanner, opts ...Option) *Coordinator {
	c := &Coordinator{
		state:   state,
		scanner: scanner,
		logger:  zap.NewNop(),
		metrics: NewMetrics(),
		events:  make(chan Progress, progressCapacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events exposes the progress stream. The channel is bounded; when no one
// drains it, or the consumer falls behind, events are dropped rather than
// blocking the scan.
func (c *Coordinator) Events() <-chan Progress {
	return c.events
}

// Scan runs a single scan of path and commits the merged result.
//
// In add mode the candidate path is first checked against the previously
// scanned paths; an overlap is returned as *ConflictError without mutating
// anything, unless opts.Force is set. A busy coordinator returns
// ErrScanInFlight immediately. A backend failure is returned wrapping
// ErrScanBackend and leaves the prior collection untouched.
func (c *Coordinator) Scan(ctx context.Context, path string, opts ScanOptions) (*ScanResult, error) {
	mode := ModeReplace
	if opts.Add {
		mode = ModeAdd
	}

	if !c.flight.TryLock() {
		c.metrics.ScansTotal.WithLabelValues(string(mode), "busy").Inc()
		return nil, ErrScanInFlight
	}
	defer c.flight.Unlock()

	if opts.Add && !opts.Force {
		if prior := c.state.ScannedPaths(); len(prior) > 0 {
			if conflict := Classify(path, prior); conflict != nil {
				c.metrics.ScansTotal.WithLabelValues(string(mode), "conflict").Inc()
				c.logger.Info("scan conflict detected",
					zap.String("path", path),
					zap.String("kind", string(conflict.Kind)),
					zap.String("conflicting_path", conflict.ConflictingPath))
				return nil, &ConflictError{Conflict: *conflict}
			}
		}
	}

	c.state.SetStatus(fmt.Sprintf("scanning %s", path))
	defer c.state.SetStatus("")

	start := time.Now()
	found, err := c.scanner.Scan(ctx, path, c.progressFunc(uuid.New()))
	c.metrics.ScanDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ScansTotal.WithLabelValues(string(mode), "error").Inc()
		c.logger.Error("scan failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: scanning %s: %v", ErrScanBackend, path, err)
	}

	merged := Merge(c.state.Repositories(), found, mode)
	stats := Recompute(merged.Repositories)
	c.state.commitScan(merged.Repositories, stats, path, mode)
	c.metrics.Repositories.Set(float64(len(merged.Repositories)))
	c.metrics.ScansTotal.WithLabelValues(string(mode), "ok").Inc()

	c.persist(ctx)

	c.logger.Info("scan completed",
		zap.String("path", path),
		zap.String("mode", string(mode)),
		zap.Int("found", len(found)),
		zap.Int("added", merged.Added),
		zap.Int("duplicates", merged.Duplicates))

	return &ScanResult{
		Path:       path,
		Mode:       mode,
		Found:      len(found),
		Added:      merged.Added,
		Duplicates: merged.Duplicates,
		Total:      len(merged.Repositories),
		Duration:   time.Since(start),
	}, nil
}

// RefreshAll rescans every scan root sequentially and commits the combined
// result as one atomic replacement of the collection.
//
// Roots are processed in their recorded order, one backend call at a time;
// each result is merged into a fresh working collection, never into the
// live state, so observers see either the old collection or the complete
// new one. A failing root is logged, recorded, and skipped; it never
// aborts the remaining roots. The accumulated failures come back in
// RefreshResult.Partial, not as the error return.
func (c *Coordinator) RefreshAll(ctx context.Context) (*RefreshResult, error) {
	if !c.flight.TryLock() {
		c.metrics.ScansTotal.WithLabelValues("refresh", "busy").Inc()
		return nil, ErrScanInFlight
	}
	defer c.flight.Unlock()

	roots := c.state.ScanRoots()
	if len(roots) == 0 {
		return nil, ErrNoScanRoots
	}

	token := uuid.New()
	var working []repo.Repository
	var merr *multierror.Error
	var failed []string

	for i, root := range roots {
		c.state.SetStatus(fmt.Sprintf("refreshing %s (%d/%d)", root, i+1, len(roots)))

		found, err := c.scanner.Scan(ctx, root, c.progressFunc(token))
		if err != nil {
			c.logger.Warn("refresh of scan root failed, skipping",
				zap.String("root", root), zap.Error(err))
			merr = multierror.Append(merr, fmt.Errorf("refreshing %s: %w", root, err))
			failed = append(failed, root)
			continue
		}
		working = Merge(working, found, ModeAdd).Repositories
	}
	c.state.SetStatus("")

	stats := Recompute(working)
	c.state.replaceCollection(working, stats)
	c.metrics.Repositories.Set(float64(len(working)))
	c.metrics.ScansTotal.WithLabelValues("refresh", "ok").Inc()

	c.persist(ctx)

	res := &RefreshResult{
		Roots:  len(roots),
		Failed: len(failed),
		Total:  len(working),
	}
	if merr.ErrorOrNil() != nil {
		res.Partial = &PartialError{FailedRoots: failed, errs: merr}
	}

	c.logger.Info("refresh completed",
		zap.Int("roots", res.Roots),
		zap.Int("failed", res.Failed),
		zap.Int("repositories", res.Total))
	return res, nil
}

// progressFunc adapts backend callbacks into tokenized events on the
// bounded channel. A full channel drops the event.
func (c *Coordinator) progressFunc(token uuid.UUID) ProgressFunc {
	return func(currentDir string, scanned, total int) {
		c.state.SetStatus(fmt.Sprintf("scanning %s (%d/%d)", currentDir, scanned, total))
		select {
		case c.events <- Progress{Token: token, CurrentDir: currentDir, Scanned: scanned, Total: total}:
		default:
		}
	}
}

func (c *Coordinator) persist(ctx context.Context) {
	if c.saver == nil {
		return
	}
	if err := c.saver.Save(ctx, c.state.Repositories(), c.state.ScannedPaths()); err != nil {
		c.logger.Warn("saving cache failed", zap.Error(err))
	}
}
