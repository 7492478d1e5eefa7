package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repodeck/internal/gitops"
)

var batchAll bool

var batchCmd = &cobra.Command{
	Use:   "batch <fetch|pull|status> [path...]",
	Short: "Run one git operation across repositories",
	Long: `Run one git operation across many repositories, reporting each outcome.
Failures are recorded per repository and never abort the rest.

Examples:
  # Fetch every tracked git repository
  repodeck batch fetch --all

  # Pull two specific repositories
  repodeck batch pull ~/src/alpha ~/src/beta`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchAll, "all", false, "run against every tracked git repository")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	op := gitops.Operation(args[0])
	paths := args[1:]

	if batchAll {
		if len(paths) > 0 {
			return fmt.Errorf("--all and explicit paths are mutually exclusive")
		}
		for _, r := range a.state.Repositories() {
			if r.IsGitRepo {
				paths = append(paths, r.Path)
			}
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no repositories to operate on; pass paths or --all")
	}

	result, err := gitops.Execute(ctx, paths, op, a.logger)
	if err != nil {
		return err
	}

	for _, r := range result.Results {
		if r.Success {
			cmd.Printf("ok    %s  %s\n", r.Path, r.Output)
		} else {
			cmd.Printf("fail  %s  %s\n", r.Path, r.Error)
		}
	}
	cmd.Printf("%d ok, %d failed of %d\n", result.Successful, result.Failed, result.Total)

	if result.Failed > 0 {
		return fmt.Errorf("%d repositories failed", result.Failed)
	}
	return nil
}
