package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repodeck/internal/tui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics for the collection",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	cmd.Print(tui.RenderStats(a.state.Stats(), a.state.LastScan(), a.state.ScanRoots()))
	return nil
}
