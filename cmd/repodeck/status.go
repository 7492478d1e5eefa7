package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repodeck/internal/scanner"
)

var statusActivityDays int

var statusCmd = &cobra.Command{
	Use:   "status <path>",
	Short: "Show detailed git state for one repository",
	Long: `Show the working-tree state, remotes, branches, and recent activity of
one repository. The repository does not have to be tracked.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusActivityDays, "days", 30, "activity window in days")
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := args[0]

	status, err := scanner.Status(path)
	if err != nil {
		return err
	}

	cmd.Printf("branch:   %s\n", status.CurrentBranch)
	if status.TrackingBranch != "" {
		cmd.Printf("tracking: %s\n", status.TrackingBranch)
	}
	if status.IsClean {
		cmd.Println("worktree: clean")
	} else {
		cmd.Printf("worktree: %d staged, %d unstaged, %d untracked\n",
			len(status.StagedFiles), len(status.UnstagedFiles), len(status.UntrackedFiles))
		printFiles(cmd, "staged", status.StagedFiles)
		printFiles(cmd, "unstaged", status.UnstagedFiles)
		printFiles(cmd, "untracked", status.UntrackedFiles)
	}

	remotes, err := scanner.Remotes(path)
	if err == nil && len(remotes) > 0 {
		cmd.Println("remotes:")
		for _, r := range remotes {
			cmd.Printf("  %s  %s\n", r.Name, r.URL)
		}
	}

	branches, err := scanner.Branches(path)
	if err == nil && len(branches) > 0 {
		var names []string
		for _, b := range branches {
			name := b.Name
			if b.IsCurrent {
				name = "*" + name
			}
			names = append(names, name)
		}
		cmd.Printf("branches: %s\n", strings.Join(names, ", "))
	}

	activity, err := scanner.ActivitySince(path, statusActivityDays)
	if err == nil {
		cmd.Printf("activity: %d commits by %d authors in the last %d days\n",
			activity.CommitCount, len(activity.Authors), activity.Days)
	}

	return nil
}

func printFiles(cmd *cobra.Command, label string, files []string) {
	for _, f := range files {
		cmd.Printf("  %s  %s\n", label, f)
	}
}
