// Package setup implements the init flow: it writes the initial
// configuration document, renders the instruction prompt and generates the
// sync scripts the executor runs later.
package setup

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"text/template"

	"github.com/femnad/remirror/base"
	"github.com/femnad/remirror/entity"
	"github.com/femnad/remirror/internal"
	"github.com/femnad/remirror/settings"
)

const scriptMode = 0755

// The scripts are the contract between setup and the sync executor: they
// live at fixed paths under the state dir, inherit the invoker's working
// directory and stream everything they do to stdout/stderr.
const syncScriptTemplate = `#!/usr/bin/env sh
set -e

cd {{ .SourceRepo }}
{{ .Agent }} -p "$(cat {{ .PromptPath }})"
`

const loopScriptTemplate = `#!/usr/bin/env sh

while true; do
    sh {{ .SyncScript }}
    sleep {{ .DelaySeconds }}
done
`

const promptTemplate = `Transform the repository at {{ .SourceRepo }} and mirror the result into {{ .TargetRepo }}.

{{ .Instructions }}
`

type Input struct {
	SourceRepo    string
	TargetRepo    string
	Instructions  string
	DefaultRemote string
	AutoSync      bool
}

// Init validates the input, persists the configuration document and
// generates the prompt and script files. Remotes and unknown fields from an
// existing document survive re-initialization.
func Init(dir string, input Input) error {
	if input.SourceRepo == "" || input.TargetRepo == "" || input.Instructions == "" {
		return errors.New("init requires a source repo, a target repo and transformation instructions")
	}

	dir, err := base.ResolveDir(dir)
	if err != nil {
		return err
	}

	config := entity.Config{
		SourceRepo:                 input.SourceRepo,
		TargetRepo:                 input.TargetRepo,
		TransformationInstructions: input.Instructions,
		ConfigVersion:              settings.ConfigVersion,
		DefaultRemote:              input.DefaultRemote,
		AutoSync:                   input.AutoSync,
	}

	existing, err := base.Load(dir)
	if err != nil {
		return err
	}
	if existing != nil {
		config.Remotes = existing.Remotes
		config.TargetRemote = existing.TargetRemote
		config.TimesToLoop = existing.TimesToLoop
		config.Extra = existing.Extra
		if config.DefaultRemote == "" {
			config.DefaultRemote = existing.DefaultRemote
		}
	}

	if err = base.Save(config, dir); err != nil {
		return err
	}

	if err = writePrompt(dir, config); err != nil {
		return err
	}

	if err = writeScripts(dir); err != nil {
		return err
	}

	internal.Log.Infof("initialized %s", dir)
	return nil
}

func render(name, tmplText string, ctx any) ([]byte, error) {
	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s template: %v", name, err)
	}

	var out bytes.Buffer
	if err = tmpl.Execute(&out, ctx); err != nil {
		return nil, fmt.Errorf("error rendering %s: %v", name, err)
	}

	return out.Bytes(), nil
}

func writePrompt(dir string, config entity.Config) error {
	ctx := struct {
		SourceRepo   string
		TargetRepo   string
		Instructions string
	}{config.SourceRepo, config.TargetRepo, config.TransformationInstructions}

	content, err := render("prompt", promptTemplate, ctx)
	if err != nil {
		return err
	}

	promptPath := settings.PromptPath(dir)
	if err = internal.EnsureDirExists(path.Dir(promptPath)); err != nil {
		return err
	}

	return os.WriteFile(promptPath, content, 0644)
}

func writeScripts(dir string) error {
	config, err := base.Load(dir)
	if err != nil {
		return err
	}
	if config == nil {
		return fmt.Errorf("no configuration found in %s", dir)
	}

	syncCtx := struct {
		SourceRepo string
		Agent      string
		PromptPath string
	}{config.SourceRepo, settings.AgentCommand(), settings.PromptPath(dir)}

	syncScript, err := render("sync script", syncScriptTemplate, syncCtx)
	if err != nil {
		return err
	}

	loopCtx := struct {
		SyncScript   string
		DelaySeconds int
	}{settings.SyncScriptPath(dir), int(settings.LoopDelay.Seconds())}

	loopScript, err := render("loop script", loopScriptTemplate, loopCtx)
	if err != nil {
		return err
	}

	syncPath := settings.SyncScriptPath(dir)
	if err = internal.EnsureDirExists(path.Dir(syncPath)); err != nil {
		return err
	}

	if err = os.WriteFile(syncPath, syncScript, scriptMode); err != nil {
		return fmt.Errorf("error writing %s: %v", syncPath, err)
	}

	loopPath := settings.LoopScriptPath(dir)
	if err = os.WriteFile(loopPath, loopScript, scriptMode); err != nil {
		return fmt.Errorf("error writing %s: %v", loopPath, err)
	}

	return nil
}
