// Package mirror runs the transform-and-mirror workflow: executing the
// generated sync scripts and pushing or pulling repository state.
package mirror

import (
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/femnad/remirror/base"
	"github.com/femnad/remirror/common"
	"github.com/femnad/remirror/internal"
	"github.com/femnad/remirror/settings"
)

const shellScriptType = "text/x-shellscript"

// Sync runs the single-shot sync script to completion, streaming its output.
// When push is set and a configuration document with remotes exists, a push
// to all registered remotes follows a successful run.
func Sync(dir string, push bool) (common.RunResult, error) {
	dir, err := base.ResolveDir(dir)
	if err != nil {
		return common.RunResult{}, err
	}

	result, err := runScript(settings.SyncScriptPath(dir))
	if err != nil || result.Interrupted {
		return result, err
	}

	if !push {
		return result, nil
	}

	config, err := base.Load(dir)
	if err != nil {
		return result, err
	}
	if config == nil {
		internal.Log.Warningf("skipping push, no configuration found in %s", dir)
		return result, nil
	}
	if len(config.Remotes) == 0 {
		internal.Log.Warningf("skipping push, no remotes registered")
		return result, nil
	}

	return result, Push(dir, PushOptions{All: true})
}

// Loop runs the continuous sync script, which restarts the transformation
// step after every completion with a short delay until interrupted. Run
// duration is unbounded on purpose.
func Loop(dir string) (common.RunResult, error) {
	dir, err := base.ResolveDir(dir)
	if err != nil {
		return common.RunResult{}, err
	}

	return runScript(settings.LoopScriptPath(dir))
}

func runScript(script string) (common.RunResult, error) {
	_, err := os.Stat(script)
	if os.IsNotExist(err) {
		return common.RunResult{}, fmt.Errorf("sync script %s not found, run `remirror init` first", script)
	} else if err != nil {
		return common.RunResult{}, fmt.Errorf("error checking sync script %s: %v", script, err)
	}

	fileType, err := mimetype.DetectFile(script)
	if err == nil && !fileType.Is(shellScriptType) {
		internal.Log.Warningf("%s looks like %s, not a shell script", script, fileType)
	}

	internal.Log.Debugf("running %s", script)
	return common.RunScript(script)
}
