package mirror

import (
	"os"

	"github.com/femnad/remirror/base"
	"github.com/femnad/remirror/common"
	"github.com/femnad/remirror/entity"
	"github.com/femnad/remirror/internal"
)

type PullOptions struct {
	Check      bool
	SourceOnly bool
	SyncAfter  bool
}

// Pull updates the source repository from its remote. Check mode only
// reports divergence and never touches the worktree or chains a sync. In
// apply mode a successful pull chains into continuous sync when SyncAfter is
// set, else into a single sync when the document enables auto_sync;
// SourceOnly suppresses both.
func Pull(dir string, opts PullOptions) (common.RunResult, error) {
	config, err := base.Require(dir)
	if err != nil {
		return common.RunResult{}, err
	}

	if opts.Check {
		return common.RunResult{}, checkSource(*config)
	}

	updated, err := common.PullSource(config.SourceRepo, os.Stdout)
	if err != nil {
		return common.RunResult{}, err
	}
	if !updated {
		internal.Log.Infof("source repo %s already up to date", config.SourceRepo)
	}

	if opts.SourceOnly {
		return common.RunResult{}, nil
	}

	// SyncAfter wins over the document's auto_sync when both apply.
	if opts.SyncAfter {
		return Loop(dir)
	}
	if config.AutoSync {
		return Sync(dir, false)
	}

	return common.RunResult{}, nil
}

func checkSource(config entity.Config) error {
	divergence, err := common.SourceDivergence(config.SourceRepo)
	if err != nil {
		return err
	}

	internal.Log.Infof("source repo %s is %s", config.SourceRepo, divergence)
	return nil
}
