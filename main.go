package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/femnad/remirror/actions"
	"github.com/femnad/remirror/base"
	"github.com/femnad/remirror/common"
	"github.com/femnad/remirror/internal"
	"github.com/femnad/remirror/mirror"
	"github.com/femnad/remirror/precheck"
	"github.com/femnad/remirror/remote"
	"github.com/femnad/remirror/setup"
)

type initCmd struct {
	Source        string `arg:"-s,--source,required" help:"source repository path"`
	Target        string `arg:"-t,--target,required" help:"target repository path"`
	Instructions  string `arg:"-i,--instructions,required" help:"transformation instructions"`
	DefaultRemote string `arg:"--default-remote" help:"remote to use when none is given"`
	AutoSync      bool   `arg:"--auto-sync" help:"sync after every pull"`
	SkipAgent     bool   `arg:"--skip-agent" help:"skip the agent preflight probe"`
}

type checkCmd struct {
	SkipAgent bool `arg:"--skip-agent" help:"skip the agent preflight probe"`
}

type syncCmd struct {
	Push bool `arg:"-p,--push" help:"push to all remotes after a successful sync"`
}

type loopCmd struct{}

type pushCmd struct {
	Remote string `arg:"-r,--remote" help:"remote to push to"`
	Branch string `arg:"-b,--branch" help:"branch to push to, overriding the remote's"`
	All    bool   `arg:"-a,--all" help:"push to every registered remote"`
	DryRun bool   `arg:"-n,--dry-run" help:"report what would be pushed without pushing"`
}

type pullCmd struct {
	Check      bool `arg:"-c,--check" help:"report divergence without pulling"`
	SourceOnly bool `arg:"--source-only" help:"pull without chaining a sync"`
	Sync       bool `arg:"-s,--sync" help:"start continuous sync after pulling"`
}

type remoteAddCmd struct {
	Name   string `arg:"positional,required"`
	URL    string `arg:"positional"`
	Branch string `arg:"-b,--branch" help:"branch to push to, defaults to main"`
}

type remoteListCmd struct{}

type remoteRemoveCmd struct {
	Name string `arg:"positional,required"`
}

type remoteCmd struct {
	Add    *remoteAddCmd    `arg:"subcommand:add"`
	List   *remoteListCmd   `arg:"subcommand:list"`
	Remove *remoteRemoveCmd `arg:"subcommand:rm"`
}

type actionsCmd struct {
	Dispatch bool `arg:"--dispatch" help:"dispatch the workflow after writing it"`
}

type args struct {
	Init    *initCmd    `arg:"subcommand:init"`
	Check   *checkCmd   `arg:"subcommand:check"`
	Sync    *syncCmd    `arg:"subcommand:sync"`
	Loop    *loopCmd    `arg:"subcommand:loop"`
	Push    *pushCmd    `arg:"subcommand:push"`
	Pull    *pullCmd    `arg:"subcommand:pull"`
	Remote  *remoteCmd  `arg:"subcommand:remote"`
	Actions *actionsCmd `arg:"subcommand:actions"`

	Dir      string `arg:"-d,--dir" help:"base directory, defaults to the working directory"`
	LogLevel int    `arg:"-l,--loglevel" default:"4"`
}

func (args) Version() string {
	return "remirror 0.1.0"
}

func runInit(dir string, cmd initCmd) error {
	err := precheck.Run(precheck.Options{TargetRepo: cmd.Target, SkipAgent: cmd.SkipAgent})
	if err != nil {
		return err
	}

	return setup.Init(dir, setup.Input{
		SourceRepo:    cmd.Source,
		TargetRepo:    cmd.Target,
		Instructions:  cmd.Instructions,
		DefaultRemote: cmd.DefaultRemote,
		AutoSync:      cmd.AutoSync,
	})
}

func runCheck(dir string, cmd checkCmd) error {
	config, err := base.Require(dir)
	if err != nil {
		return err
	}

	err = precheck.Run(precheck.Options{TargetRepo: config.TargetRepo, SkipAgent: cmd.SkipAgent})
	if err != nil {
		return err
	}

	internal.Log.Infof("all preflight checks passed")
	return nil
}

func runRemote(dir string, cmd remoteCmd) error {
	switch {
	case cmd.Add != nil:
		return remote.Add(dir, cmd.Add.Name, cmd.Add.URL, cmd.Add.Branch)
	case cmd.List != nil:
		remotes, err := remote.List(dir)
		if err != nil {
			return err
		}
		if len(remotes) == 0 {
			fmt.Println("no remotes registered")
			return nil
		}
		fmt.Println(strings.Join(remote.Format(remotes), "\n"))
		return nil
	case cmd.Remove != nil:
		_, err := remote.Remove(dir, cmd.Remove.Name)
		return err
	}

	return errors.New("remote requires a subcommand: add, list or rm")
}

func runActions(dir string, cmd actionsCmd) error {
	config, err := base.Require(dir)
	if err != nil {
		return err
	}

	if err = actions.Write(*config); err != nil {
		return err
	}

	if cmd.Dispatch {
		return actions.Dispatch(*config)
	}

	return nil
}

func dispatch(parsed args) (common.RunResult, error) {
	var none common.RunResult

	switch {
	case parsed.Init != nil:
		return none, runInit(parsed.Dir, *parsed.Init)
	case parsed.Check != nil:
		return none, runCheck(parsed.Dir, *parsed.Check)
	case parsed.Sync != nil:
		return mirror.Sync(parsed.Dir, parsed.Sync.Push)
	case parsed.Loop != nil:
		return mirror.Loop(parsed.Dir)
	case parsed.Push != nil:
		return none, mirror.Push(parsed.Dir, mirror.PushOptions{
			Remote: parsed.Push.Remote,
			Branch: parsed.Push.Branch,
			All:    parsed.Push.All,
			DryRun: parsed.Push.DryRun,
		})
	case parsed.Pull != nil:
		return mirror.Pull(parsed.Dir, mirror.PullOptions{
			Check:      parsed.Pull.Check,
			SourceOnly: parsed.Pull.SourceOnly,
			SyncAfter:  parsed.Pull.Sync,
		})
	case parsed.Remote != nil:
		return none, runRemote(parsed.Dir, *parsed.Remote)
	case parsed.Actions != nil:
		return none, runActions(parsed.Dir, *parsed.Actions)
	}

	return none, errors.New("no command given, see --help")
}

func main() {
	var parsed args
	arg.MustParse(&parsed)
	internal.InitLogging(parsed.LogLevel)

	result, err := dispatch(parsed)
	if err != nil {
		internal.Log.Errorf("%v", err)
		os.Exit(1)
	}

	if result.Interrupted {
		internal.Log.Infof("sync interrupted, exiting")
	}
}
