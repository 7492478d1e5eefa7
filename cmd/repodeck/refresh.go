package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repodeck/internal/scan"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-scan every tracked directory",
	Long: `Re-scan every previously scanned directory and replace the collection
with the combined result.

Directories that fail to rescan are reported and skipped; their old
entries drop out of the collection.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.coordinator.RefreshAll(ctx)
	if err != nil {
		if errors.Is(err, scan.ErrScanInFlight) {
			return fmt.Errorf("another scan is already running; retry when it finishes")
		}
		if errors.Is(err, scan.ErrNoScanRoots) {
			return fmt.Errorf("nothing to refresh; run 'repodeck scan <path>' first")
		}
		return err
	}

	cmd.Printf("refreshed %d directories: %d repositories\n", result.Roots-result.Failed, result.Total)
	if result.Partial != nil {
		for _, root := range result.Partial.FailedRoots {
			cmd.Printf("  failed: %s\n", root)
		}
	}
	return nil
}
