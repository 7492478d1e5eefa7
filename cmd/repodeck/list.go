package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repodeck/internal/tui"
)

var (
	listStatus   string
	listLanguage string
	listGitOnly  bool
	listPlain    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked repositories",
	Long: `List the repositories in the collection, optionally filtered.

Examples:
  repodeck list
  repodeck list --status dirty
  repodeck list --language go --git
  repodeck list --plain | cut -f4`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (clean, dirty, untracked, no_git, error)")
	listCmd.Flags().StringVar(&listLanguage, "language", "", "filter by primary language")
	listCmd.Flags().BoolVar(&listGitOnly, "git", false, "only git repositories")
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "tab-separated output without styling")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	repos := a.state.Repositories()
	filtered := repos[:0:0]
	for _, r := range repos {
		if listStatus != "" && string(r.Status) != listStatus {
			continue
		}
		if listLanguage != "" && !strings.EqualFold(r.PrimaryLanguage, listLanguage) {
			continue
		}
		if listGitOnly && !r.IsGitRepo {
			continue
		}
		filtered = append(filtered, r)
	}

	cmd.Print(tui.RenderRepositories(filtered, listPlain))
	return nil
}
