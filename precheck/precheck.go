// Package precheck validates that the environment can actually execute a
// sync before the first attempt, failing fast with actionable reasons
// instead of letting the sync fail opaquely.
package precheck

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/femnad/remirror/common"
	"github.com/femnad/remirror/internal"
	"github.com/femnad/remirror/settings"
)

const agentCheckName = "agent responds"

type Options struct {
	TargetRepo string
	SkipAgent  bool
}

type check struct {
	name string
	fn   func(Options) error
}

// Order matters: later checks assume earlier ones hold, so checks run one at
// a time and the first failure aborts the whole run.
var checks = []check{
	{"target directory accessible", targetAccessible},
	{"target is a repository", targetIsRepo},
	{"target has VCS remotes", targetHasRemotes},
	{agentCheckName, agentResponds},
}

func Run(opts Options) error {
	for _, c := range checks {
		if c.name == agentCheckName && opts.SkipAgent {
			internal.Log.Infof("skipping preflight check: %s", c.name)
			continue
		}

		if err := c.fn(opts); err != nil {
			return fmt.Errorf("preflight check failed (%s): %v", c.name, err)
		}
		internal.Log.Debugf("preflight check passed: %s", c.name)
	}

	return nil
}

func targetAccessible(opts Options) error {
	info, err := os.Stat(opts.TargetRepo)
	if err != nil {
		return fmt.Errorf("cannot access %s: %v", opts.TargetRepo, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", opts.TargetRepo)
	}

	return nil
}

func targetIsRepo(opts Options) error {
	_, err := common.OpenRepo(opts.TargetRepo)
	return err
}

func targetHasRemotes(opts Options) error {
	remotes, err := common.VCSRemotes(opts.TargetRepo)
	if err != nil {
		return err
	}

	if len(remotes) == 0 {
		return fmt.Errorf("%s has no remotes configured, add a push destination with git first", opts.TargetRepo)
	}
	internal.Log.Debugf("found remotes in %s: %s", opts.TargetRepo, strings.Join(remotes, ", "))

	return nil
}

// agentResponds probes the transformation agent with a trivial prompt and
// requires a non-trivial answer within a deadline. Everything else in this
// tool runs unbounded, the probe is the one place a timeout applies.
func agentResponds(_ Options) error {
	agent := settings.AgentCommand()
	agentPath, err := common.Which(agent)
	if err != nil {
		return fmt.Errorf("agent %s is not installed: %v", agent, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), settings.AgentProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, agentPath, "-p", settings.AgentProbePrompt)
	output, err := cmd.Output()
	if ctx.Err() != nil {
		return fmt.Errorf("agent %s did not respond within %s", agent, settings.AgentProbeTimeout)
	}
	if err != nil {
		return fmt.Errorf("error probing agent %s: %v", agent, err)
	}

	if len(strings.TrimSpace(string(output))) < settings.MinAgentResponseLen {
		return fmt.Errorf("agent %s gave a trivial response to the probe prompt", agent)
	}

	return nil
}
