// Package gitops executes one git operation across many repositories,
// collecting per-repository outcomes instead of failing fast. It serves
// the bulk-operations flow; the scan coordinator never calls it.
package gitops

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// Operation is one of the supported bulk git operations.
type Operation string

const (
	// OpFetch fetches from the default remote.
	OpFetch Operation = "fetch"

	// OpPull fast-forwards the current branch from its upstream.
	OpPull Operation = "pull"

	// OpStatus reports whether the working tree is clean.
	OpStatus Operation = "status"
)

// ErrUnknownOperation is returned for operations outside the closed set.
var ErrUnknownOperation = errors.New("unknown batch operation")

// Result is the outcome for one repository.
type Result struct {
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchResult aggregates the outcomes of one batch run.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// Execute runs op against every path sequentially. Individual failures are
// recorded in the result set and never abort the remaining repositories;
// the only error return is an unknown operation or a cancelled context.
func Execute(ctx context.Context, paths []string, op Operation, logger *zap.Logger) (BatchResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch op {
	case OpFetch, OpPull, OpStatus:
	default:
		return BatchResult{}, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}

	batch := BatchResult{Total: len(paths), Results: make([]Result, 0, len(paths))}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		res := Result{Path: path}
		output, err := run(ctx, path, op)
		if err != nil {
			res.Error = err.Error()
			batch.Failed++
			logger.Warn("batch operation failed",
				zap.String("op", string(op)), zap.String("path", path), zap.Error(err))
		} else {
			res.Success = true
			res.Output = output
			batch.Successful++
		}
		batch.Results = append(batch.Results, res)
	}
	return batch, nil
}

func run(ctx context.Context, path string, op Operation) (string, error) {
	gr, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}

	switch op {
	case OpFetch:
		err := gr.FetchContext(ctx, &git.FetchOptions{})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return "already up to date", nil
		}
		if err != nil {
			return "", fmt.Errorf("fetch: %w", err)
		}
		return "fetched", nil

	case OpPull:
		wt, err := gr.Worktree()
		if err != nil {
			return "", fmt.Errorf("worktree: %w", err)
		}
		err = wt.PullContext(ctx, &git.PullOptions{})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return "already up to date", nil
		}
		if err != nil {
			return "", fmt.Errorf("pull: %w", err)
		}
		return "pulled", nil

	default: // OpStatus
		wt, err := gr.Worktree()
		if err != nil {
			return "", fmt.Errorf("worktree: %w", err)
		}
		status, err := wt.Status()
		if err != nil {
			return "", fmt.Errorf("status: %w", err)
		}
		if status.IsClean() {
			return "clean", nil
		}
		return fmt.Sprintf("%d changed files", len(status)), nil
	}
}
