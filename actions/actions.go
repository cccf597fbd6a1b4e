// Package actions emits a static GitHub Actions workflow for running the
// sync remotely and hands dispatching off to the gh CLI. No CI execution
// happens here.
package actions

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/cli/go-gh/v2"
	"gopkg.in/yaml.v3"

	"github.com/femnad/remirror/entity"
	"github.com/femnad/remirror/internal"
)

const (
	workflowDir  = ".github/workflows"
	workflowFile = "remirror.yml"
	runnerImage  = "ubuntu-latest"
)

type step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
}

type job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []step `yaml:"steps"`
}

type workflow struct {
	Name string         `yaml:"name"`
	On   map[string]any `yaml:"on"`
	Jobs map[string]job `yaml:"jobs"`
}

// Workflow renders the dispatch-only workflow definition from the fields
// the configuration document persists for it.
func Workflow(config entity.Config) ([]byte, error) {
	loops := config.TimesToLoop
	if loops < 1 {
		loops = 1
	}

	syncJob := job{
		RunsOn: runnerImage,
		Steps: []step{
			{
				Name: "Check out target",
				Uses: "actions/checkout@v4",
				With: map[string]string{"repository": config.TargetRepo},
			},
			{
				Name: "Run sync",
				Run:  fmt.Sprintf("for i in $(seq 1 %d); do remirror sync; done", loops),
			},
		},
	}

	definition := workflow{
		Name: "remirror",
		On:   map[string]any{"workflow_dispatch": map[string]any{}},
		Jobs: map[string]job{"sync": syncJob},
	}

	return yaml.Marshal(definition)
}

// Write emits the workflow file under the source repository.
func Write(config entity.Config) error {
	content, err := Workflow(config)
	if err != nil {
		return fmt.Errorf("error rendering workflow: %v", err)
	}

	dir := path.Join(config.SourceRepo, workflowDir)
	if err = internal.EnsureDirExists(dir); err != nil {
		return err
	}

	workflowPath := path.Join(dir, workflowFile)
	if err = os.WriteFile(workflowPath, content, 0644); err != nil {
		return fmt.Errorf("error writing workflow %s: %v", workflowPath, err)
	}

	internal.Log.Infof("wrote workflow %s", workflowPath)
	return nil
}

// Dispatch triggers the emitted workflow via the external gh dispatcher.
func Dispatch(config entity.Config) error {
	if config.TargetRemote == "" {
		return errors.New("no target_remote configured for workflow dispatch")
	}

	stdout, stderr, err := gh.Exec("workflow", "run", workflowFile, "-R", config.TargetRemote)
	if err != nil {
		return fmt.Errorf("error dispatching workflow: %v: %s", err, stderr.String())
	}

	if out := stdout.String(); out != "" {
		internal.Log.Infof("%s", out)
	}

	return nil
}
