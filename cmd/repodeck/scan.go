package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repodeck/internal/scan"
	"github.com/fyrsmithlabs/repodeck/internal/tui"
)

var (
	scanAdd   bool
	scanForce bool
	scanPlain bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a directory tree for repositories",
	Long: `Scan a directory tree for git repositories and code projects and commit
the results to the collection.

By default the scan replaces the collection. With --add the results are
merged into it; overlapping paths are rejected unless --force is given.

Examples:
  # Replace the collection with one tree
  repodeck scan ~/src

  # Merge a second tree into the collection
  repodeck scan --add ~/work

  # Re-scan a tree that is already tracked
  repodeck scan --add --force ~/src`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanAdd, "add", false, "merge into the collection instead of replacing it")
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "scan even when the path overlaps a tracked directory")
	scanCmd.Flags().BoolVar(&scanPlain, "plain", false, "print plain output instead of the progress UI")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	opts := scan.ScanOptions{Add: scanAdd, Force: scanForce}

	if scanPlain {
		result, err := a.coordinator.Scan(ctx, args[0], opts)
		if err != nil {
			return describeScanError(err)
		}
		printScanResult(cmd, result)
		return nil
	}

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan tui.ScanOutcome, 1)
	go func() {
		result, err := a.coordinator.Scan(scanCtx, args[0], opts)
		done <- tui.ScanOutcome{Result: result, Err: err}
	}()

	model := tui.NewScanModel(args[0], a.coordinator.Events(), done, cancel)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("running progress ui: %w", err)
	}

	outcome := final.(tui.ScanModel).Outcome()
	if outcome == nil {
		// User quit before the scan finished; the context cancel has
		// already unwound the backend.
		return nil
	}
	if outcome.Err != nil {
		return describeScanError(outcome.Err)
	}
	printScanResult(cmd, outcome.Result)
	return nil
}

func printScanResult(cmd *cobra.Command, result *scan.ScanResult) {
	cmd.Printf("scanned %s in %s: %d found, %d added, %d duplicates, %d total\n",
		result.Path, result.Duration.Round(10*time.Millisecond), result.Found, result.Added,
		result.Duplicates, result.Total)
}

// describeScanError rewrites coordinator errors into actionable messages.
func describeScanError(err error) error {
	var conflict *scan.ConflictError
	switch {
	case errors.Is(err, scan.ErrScanInFlight):
		return fmt.Errorf("another scan is already running; retry when it finishes")
	case errors.As(err, &conflict):
		return fmt.Errorf("%s; pass --force to scan anyway", conflict.Error())
	default:
		return err
	}
}
