package mirror

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/femnad/remirror/base"
	"github.com/femnad/remirror/common"
	"github.com/femnad/remirror/entity"
	"github.com/femnad/remirror/internal"
	"github.com/femnad/remirror/settings"
)

type PushOptions struct {
	Remote string
	Branch string
	All    bool
	DryRun bool
}

// Push sends the target repository state to one or all registered remotes.
// In all-remotes mode per-remote failures are reported but don't stop the
// iteration; in single-remote mode any failure aborts.
func Push(dir string, opts PushOptions) error {
	config, err := base.Require(dir)
	if err != nil {
		return err
	}

	if len(config.Remotes) == 0 {
		return errors.New("no remotes registered, add one with `remirror remote add`")
	}

	if opts.All {
		return pushAll(*config, opts)
	}

	return pushOne(*config, opts)
}

func pushAll(config entity.Config, opts PushOptions) error {
	failed := mapset.NewSet[string]()
	for _, remote := range config.Remotes {
		branch := remote.Branch
		if branch == "" {
			branch = settings.DefaultBranch
		}

		if err := pushRemote(config.TargetRepo, remote, branch, opts.DryRun); err != nil {
			internal.Log.Errorf("error pushing to remote %s: %v", remote.Name, err)
			failed.Add(remote.Name)
		}
	}

	if failed.Cardinality() > 0 {
		names := failed.ToSlice()
		sort.Strings(names)
		internal.Log.Warningf("push completed with failures for: %s", strings.Join(names, ", "))
	}

	return nil
}

func pushOne(config entity.Config, opts PushOptions) error {
	name := opts.Remote
	if name == "" {
		name = config.DefaultRemote
	}
	if name == "" {
		name = settings.DefaultRemote
	}

	remote, ok := config.Remote(name)
	if !ok {
		return fmt.Errorf("remote %s is not registered, add it with `remirror remote add`", name)
	}

	branch := opts.Branch
	if branch == "" {
		branch = remote.Branch
	}
	if branch == "" {
		branch = settings.DefaultBranch
	}

	return pushRemote(config.TargetRepo, remote, branch, opts.DryRun)
}

// pushRemote short-circuits on dry runs before touching the repository so a
// dry run reports intended destinations without any VCS interaction.
func pushRemote(repoDir string, remote entity.Remote, branch string, dryRun bool) error {
	if dryRun {
		internal.Log.Infof("would push %s to %s (%s, branch %s)", repoDir, remote.Name, remote.URL, branch)
		return nil
	}

	internal.Log.Infof("pushing %s to %s (%s, branch %s)", repoDir, remote.Name, remote.URL, branch)
	return common.PushBranch(repoDir, remote.URL, branch, os.Stdout)
}
