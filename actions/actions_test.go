package actions

import (
	"os"
	"path"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/femnad/remirror/entity"
)

func TestWorkflow(t *testing.T) {
	config := entity.Config{
		SourceRepo:   "/src/repo",
		TargetRepo:   "acme/mirror",
		TargetRemote: "acme/mirror",
		TimesToLoop:  3,
	}

	content, err := Workflow(config)
	if err != nil {
		t.Fatalf("workflow error: %v", err)
	}

	var parsed map[string]any
	if err = yaml.Unmarshal(content, &parsed); err != nil {
		t.Fatalf("emitted workflow is not valid yaml: %v", err)
	}

	serialized := string(content)
	for _, want := range []string{"workflow_dispatch", "acme/mirror", "seq 1 3"} {
		if !strings.Contains(serialized, want) {
			t.Errorf("workflow missing %q:\n%s", want, serialized)
		}
	}
}

func TestWorkflowDefaultsLoopCount(t *testing.T) {
	content, err := Workflow(entity.Config{TargetRepo: "acme/mirror"})
	if err != nil {
		t.Fatalf("workflow error: %v", err)
	}

	if !strings.Contains(string(content), "seq 1 1") {
		t.Errorf("loop count not defaulted:\n%s", content)
	}
}

func TestWrite(t *testing.T) {
	sourceDir := t.TempDir()
	config := entity.Config{
		SourceRepo:  sourceDir,
		TargetRepo:  "acme/mirror",
		TimesToLoop: 1,
	}

	if err := Write(config); err != nil {
		t.Fatalf("write error: %v", err)
	}

	workflowPath := path.Join(sourceDir, workflowDir, workflowFile)
	if _, err := os.Stat(workflowPath); err != nil {
		t.Errorf("workflow file not written: %v", err)
	}
}

func TestDispatchRequiresTargetRemote(t *testing.T) {
	if err := Dispatch(entity.Config{}); err == nil {
		t.Fatal("expected an error without a target remote")
	}
}
