package common

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/femnad/remirror/settings"
)

const adHocRemote = "anonymous"

type Divergence int

const (
	UpToDate Divergence = iota
	Ahead
	Behind
	Diverged
)

func (d Divergence) String() string {
	switch d {
	case UpToDate:
		return "up to date"
	case Ahead:
		return "ahead of remote"
	case Behind:
		return "behind remote"
	case Diverged:
		return "diverged from remote"
	}
	return "unknown"
}

// OpenRepo opens the working copy at dir, walking up to the repository root
// if dir is nested inside one.
func OpenRepo(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("error opening repo %s: %v", dir, err)
	}

	return repo, nil
}

// VCSRemotes lists the names of remotes configured in the working copy
// itself, as opposed to remirror's own registry.
func VCSRemotes(dir string) ([]string, error) {
	repo, err := OpenRepo(dir)
	if err != nil {
		return nil, err
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("error listing remotes of %s: %v", dir, err)
	}

	var names []string
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}

	return names, nil
}

// PushBranch pushes the current head of the working copy at repoDir to the
// given URL under refs/heads/<branch>.
func PushBranch(repoDir, url, branch string, progress io.Writer) error {
	repo, err := OpenRepo(repoDir)
	if err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("error resolving head of %s: %v", repoDir, err)
	}

	// An ad hoc remote keeps registry destinations out of the repo's own
	// remote config.
	pushRemote := git.NewRemote(repo.Storer, &config.RemoteConfig{
		Name: adHocRemote,
		URLs: []string{url},
	})

	refSpec := config.RefSpec(fmt.Sprintf("%s:refs/heads/%s", head.Name(), branch))
	err = pushRemote.Push(&git.PushOptions{
		RemoteName: adHocRemote,
		RefSpecs:   []config.RefSpec{refSpec},
		Progress:   progress,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error pushing %s to %s: %v", repoDir, url, err)
	}

	return nil
}

// SourceDivergence fetches the default remote of the working copy at dir and
// reports how the current branch relates to its remote counterpart. The
// worktree is never modified.
func SourceDivergence(dir string) (Divergence, error) {
	repo, err := OpenRepo(dir)
	if err != nil {
		return UpToDate, err
	}

	err = repo.Fetch(&git.FetchOptions{RemoteName: settings.DefaultRemote})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return UpToDate, fmt.Errorf("error fetching %s: %v", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return UpToDate, err
	}

	branch := head.Name().Short()
	remoteName := plumbing.NewRemoteReferenceName(settings.DefaultRemote, branch)
	remoteRef, err := repo.Reference(remoteName, true)
	if err != nil {
		return UpToDate, fmt.Errorf("no remote tracking ref for branch %s: %v", branch, err)
	}

	if head.Hash() == remoteRef.Hash() {
		return UpToDate, nil
	}

	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return UpToDate, err
	}
	remoteCommit, err := repo.CommitObject(remoteRef.Hash())
	if err != nil {
		return UpToDate, err
	}

	isBehind, err := headCommit.IsAncestor(remoteCommit)
	if err != nil {
		return UpToDate, err
	}
	if isBehind {
		return Behind, nil
	}

	isAhead, err := remoteCommit.IsAncestor(headCommit)
	if err != nil {
		return UpToDate, err
	}
	if isAhead {
		return Ahead, nil
	}

	return Diverged, nil
}

// PullSource pulls the default remote into the working copy at dir,
// streaming transfer progress as it happens. Returns false when the working
// copy was already up to date.
func PullSource(dir string, progress io.Writer) (bool, error) {
	repo, err := OpenRepo(dir)
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, err
	}

	err = worktree.Pull(&git.PullOptions{RemoteName: settings.DefaultRemote, Progress: progress})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("error pulling %s: %v", dir, err)
	}

	return true, nil
}
