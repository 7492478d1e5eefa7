package scanner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repodeck/internal/repo"
)

// commitCountLimit bounds history walking so a huge repository cannot
// stall a scan. Counts at the limit are reported as the limit.
const commitCountLimit = 10000

func isGitRepository(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// analyzeGit fills the git-derived fields of r. Introspection errors set
// StatusError but keep the record; a directory we cannot read git data
// from is still a repository the user wants listed.
func (s *Service) analyzeGit(ctx context.Context, dir string, r *repo.Repository) {
	r.IsGitRepo = true

	gr, err := git.PlainOpen(dir)
	if err != nil {
		r.Status = repo.StatusError
		r.StatusError = err.Error()
		return
	}

	status, err := Status(dir)
	if err != nil {
		s.logger.Debug("git status failed", zap.String("path", dir), zap.Error(err))
		r.Status = repo.StatusError
		r.StatusError = err.Error()
	} else {
		r.CurrentBranch = status.CurrentBranch
		r.HasUncommittedChanges = !status.IsClean
		switch {
		case len(status.StagedFiles) > 0 || len(status.UnstagedFiles) > 0:
			r.Status = repo.StatusDirty
		case len(status.UntrackedFiles) > 0:
			r.Status = repo.StatusUntracked
		default:
			r.Status = repo.StatusClean
		}
	}

	if remotes, err := Remotes(dir); err == nil {
		for _, rm := range remotes {
			r.Remotes = append(r.Remotes, fmt.Sprintf("%s: %s", rm.Name, rm.URL))
		}
	}

	head, err := gr.Head()
	if err != nil {
		// Unborn branch: a repository with no commits yet.
		return
	}
	if commit, err := gr.CommitObject(head.Hash()); err == nil {
		when := commit.Committer.When.UTC()
		r.LastCommitDate = &when
	}

	count := 0
	if iter, err := gr.Log(&git.LogOptions{From: head.Hash()}); err == nil {
		_ = iter.ForEach(func(*object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
			if count >= commitCountLimit {
				return storer.ErrStop
			}
			return nil
		})
		iter.Close()
	}
	r.CommitCount = count
}

// Status returns the detailed working-tree state of one repository.
func Status(path string) (repo.GitStatus, error) {
	gs := repo.GitStatus{
		StagedFiles:    []string{},
		UnstagedFiles:  []string{},
		UntrackedFiles: []string{},
	}

	gr, err := git.PlainOpen(path)
	if err != nil {
		return gs, fmt.Errorf("opening repository %s: %w", path, err)
	}

	wt, err := gr.Worktree()
	if err != nil {
		return gs, fmt.Errorf("worktree of %s: %w", path, err)
	}
	status, err := wt.Status()
	if err != nil {
		return gs, fmt.Errorf("status of %s: %w", path, err)
	}

	for file, st := range status {
		if st.Staging == git.Untracked {
			gs.UntrackedFiles = append(gs.UntrackedFiles, file)
			continue
		}
		if st.Staging != git.Unmodified {
			gs.StagedFiles = append(gs.StagedFiles, file)
		}
		if st.Worktree != git.Unmodified && st.Worktree != git.Untracked {
			gs.UnstagedFiles = append(gs.UnstagedFiles, file)
		}
	}
	sort.Strings(gs.StagedFiles)
	sort.Strings(gs.UnstagedFiles)
	sort.Strings(gs.UntrackedFiles)
	gs.IsClean = len(gs.StagedFiles) == 0 && len(gs.UnstagedFiles) == 0 && len(gs.UntrackedFiles) == 0

	if head, err := gr.Head(); err == nil && head.Name().IsBranch() {
		branch := head.Name().Short()
		gs.CurrentBranch = branch
		if cfg, err := gr.Config(); err == nil {
			if bc, ok := cfg.Branches[branch]; ok && bc.Remote != "" {
				gs.TrackingBranch = bc.Remote + "/" + branch
			}
		}
	}
	return gs, nil
}

// Remotes lists the configured remotes of one repository.
func Remotes(path string) ([]repo.RemoteInfo, error) {
	gr, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}
	remotes, err := gr.Remotes()
	if err != nil {
		return nil, fmt.Errorf("remotes of %s: %w", path, err)
	}

	infos := make([]repo.RemoteInfo, 0, len(remotes))
	for _, rm := range remotes {
		cfg := rm.Config()
		url := ""
		if len(cfg.URLs) > 0 {
			url = cfg.URLs[0]
		}
		infos = append(infos, repo.RemoteInfo{Name: cfg.Name, URL: url})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Branches lists local and remote branches with their last commit dates.
func Branches(path string) ([]repo.BranchInfo, error) {
	gr, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}

	current := ""
	if head, err := gr.Head(); err == nil && head.Name().IsBranch() {
		current = head.Name().Short()
	}

	var branches []repo.BranchInfo
	cfg, _ := gr.Config()

	locals, err := gr.Branches()
	if err != nil {
		return nil, fmt.Errorf("branches of %s: %w", path, err)
	}
	defer locals.Close()
	err = locals.ForEach(func(ref *plumbing.Reference) error {
		info := repo.BranchInfo{
			Name:      ref.Name().Short(),
			IsCurrent: ref.Name().Short() == current,
		}
		if cfg != nil {
			if bc, ok := cfg.Branches[info.Name]; ok && bc.Remote != "" {
				info.Upstream = bc.Remote + "/" + info.Name
			}
		}
		if commit, err := gr.CommitObject(ref.Hash()); err == nil {
			when := commit.Committer.When.UTC()
			info.LastCommit = &when
		}
		branches = append(branches, info)
		return nil
	})
	if err != nil {
		return nil, err
	}

	refs, err := gr.References()
	if err != nil {
		return branches, nil
	}
	defer refs.Close()
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() {
			return nil
		}
		info := repo.BranchInfo{
			Name:     ref.Name().Short(),
			IsRemote: true,
		}
		if commit, err := gr.CommitObject(ref.Hash()); err == nil {
			when := commit.Committer.When.UTC()
			info.LastCommit = &when
		}
		branches = append(branches, info)
		return nil
	})

	sort.SliceStable(branches, func(i, j int) bool {
		if branches[i].IsRemote != branches[j].IsRemote {
			return !branches[i].IsRemote
		}
		return branches[i].Name < branches[j].Name
	})
	return branches, nil
}

// ActivitySince summarizes commits over the past days on the current
// branch.
func ActivitySince(path string, days int) (repo.Activity, error) {
	if days <= 0 {
		days = 30
	}
	act := repo.Activity{Days: days, Authors: []string{}}

	gr, err := git.PlainOpen(path)
	if err != nil {
		return act, fmt.Errorf("opening repository %s: %w", path, err)
	}
	head, err := gr.Head()
	if err != nil {
		// No commits yet.
		return act, nil
	}

	since := time.Now().AddDate(0, 0, -days)
	iter, err := gr.Log(&git.LogOptions{From: head.Hash(), Since: &since})
	if err != nil {
		return act, fmt.Errorf("log of %s: %w", path, err)
	}
	defer iter.Close()

	authors := map[string]struct{}{}
	err = iter.ForEach(func(c *object.Commit) error {
		act.CommitCount++
		authors[c.Author.Name] = struct{}{}
		return nil
	})
	if err != nil {
		return act, err
	}
	for a := range authors {
		act.Authors = append(act.Authors, a)
	}
	sort.Strings(act.Authors)
	return act, nil
}
