package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

var statusStyles = map[repo.Status]lipgloss.Style{
	repo.StatusClean:     okStyle,
	repo.StatusDirty:     warnStyle,
	repo.StatusUntracked: warnStyle,
	repo.StatusNoGit:     dimStyle,
	repo.StatusError:     errStyle,
}

func renderStatus(s repo.Status) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// RenderRepositories formats a repository listing. With plain set the output
// carries no styling, one tab-separated line per repository.
func RenderRepositories(repos []repo.Repository, plain bool) string {
	if len(repos) == 0 {
		if plain {
			return "no repositories\n"
		}
		return dimStyle.Render("no repositories") + "\n"
	}

	var b strings.Builder
	if plain {
		for _, r := range repos {
			fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", r.Name, string(r.Status), r.PrimaryLanguage, r.Path)
		}
		return b.String()
	}

	nameWidth := len("NAME")
	for _, r := range repos {
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
	}

	fmt.Fprintf(&b, "%s\n", labelStyle.Render(fmt.Sprintf("%-*s  %-10s  %-12s  %s", nameWidth, "NAME", "STATUS", "LANGUAGE", "PATH")))
	for _, r := range repos {
		lang := r.PrimaryLanguage
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(&b, "%-*s  %-10s  %-12s  %s\n",
			nameWidth, valueStyle.Render(r.Name),
			renderStatus(r.Status),
			lang,
			dimStyle.Render(r.Path))
	}
	return b.String()
}

// RenderStats formats the directory aggregate the way the stats command
// prints it.
func RenderStats(stats repo.DirectoryStats, lastScan time.Time, roots []string) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" repodeck stats ") + "\n\n")

	writeCount := func(label string, n int) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(fmt.Sprintf("%d", n)))
	}
	writeCount("Directories", stats.TotalDirectories)
	writeCount("Git repositories", stats.GitRepositories)
	writeCount("Non-git directories", stats.NonGitDirectories)
	writeCount("With uncommitted changes", stats.RepositoriesWithChanges)
	writeCount("With remotes", stats.RepositoriesWithRemotes)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Total size:"), valueStyle.Render(fmt.Sprintf("%.1f MB", stats.TotalSizeMB)))

	if !lastScan.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Last scan:"), dimStyle.Render(lastScan.Format(time.RFC3339)))
	}
	if len(roots) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Scan roots:"), dimStyle.Render(strings.Join(roots, ", ")))
	}

	writeList := func(title string, repos []repo.Repository, detail func(repo.Repository) string) {
		if len(repos) == 0 {
			return
		}
		b.WriteString("\n" + labelStyle.Render(title) + "\n")
		for _, r := range repos {
			fmt.Fprintf(&b, "  %s %s\n", valueStyle.Render(r.Name), dimStyle.Render(detail(r)))
		}
	}

	writeList("Largest", stats.LargestRepos, func(r repo.Repository) string {
		return fmt.Sprintf("%.1f MB", r.SizeMB)
	})
	writeList("Most active", stats.MostActiveRepos, func(r repo.Repository) string {
		if r.LastCommitDate == nil {
			return "no commits"
		}
		return r.LastCommitDate.Format("2006-01-02")
	})
	writeList("Needs attention", stats.ReposNeedingAttention, func(r repo.Repository) string {
		return renderStatus(r.Status)
	})

	return b.String()
}
