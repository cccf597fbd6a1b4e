package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/femnad/remirror/entity"
	"github.com/femnad/remirror/settings"
)

// cloneBehind sets up a source working copy one commit behind its origin.
func cloneBehind(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	seedDir := filepath.Join(base, "seed")
	bareDir := filepath.Join(base, "origin.git")
	cloneDir := filepath.Join(base, "source")

	initRepo(t, seedDir, false)
	initRepo(t, bareDir, true)
	commitFile(t, seedDir, "first.txt")
	pushSeed(t, seedDir, bareDir)

	if _, err := git.PlainClone(cloneDir, false, &git.CloneOptions{URL: bareDir}); err != nil {
		t.Fatalf("clone error: %v", err)
	}

	commitFile(t, seedDir, "second.txt")
	pushSeed(t, seedDir, bareDir)

	return cloneDir, bareDir
}

func pushSeed(t *testing.T, seedDir, bareDir string) {
	t.Helper()
	repo, err := git.PlainOpen(seedDir)
	if err != nil {
		t.Fatalf("error opening seed repo: %v", err)
	}

	existing, err := repo.Remotes()
	if err != nil {
		t.Fatalf("error listing remotes: %v", err)
	}
	if len(existing) == 0 {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{bareDir}})
		if err != nil {
			t.Fatalf("error creating remote: %v", err)
		}
	}

	if err = repo.Push(&git.PushOptions{RemoteName: "origin"}); err != nil {
		t.Fatalf("error pushing seed: %v", err)
	}
}

func TestPullRequiresConfig(t *testing.T) {
	if _, err := Pull(t.TempDir(), PullOptions{}); err == nil {
		t.Fatal("expected an error without a config document")
	}
}

func TestPullCheckNeverMutatesOrSyncs(t *testing.T) {
	dir := t.TempDir()
	sourceDir, _ := cloneBehind(t)

	// auto_sync enabled and no sync script on disk: if check mode ever
	// chained into a sync this would fail loudly.
	saveConfig(t, dir, entity.Config{SourceRepo: sourceDir, AutoSync: true})

	if _, err := Pull(dir, PullOptions{Check: true}); err != nil {
		t.Fatalf("check error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(sourceDir, "second.txt")); !os.IsNotExist(err) {
		t.Error("check mode mutated the source working tree")
	}
}

func TestPullAppliesUpdates(t *testing.T) {
	dir := t.TempDir()
	sourceDir, _ := cloneBehind(t)
	saveConfig(t, dir, entity.Config{SourceRepo: sourceDir})

	if _, err := Pull(dir, PullOptions{}); err != nil {
		t.Fatalf("pull error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(sourceDir, "second.txt")); err != nil {
		t.Error("pull did not apply remote updates")
	}
}

func TestPullAutoSyncChains(t *testing.T) {
	dir := t.TempDir()
	sourceDir, _ := cloneBehind(t)
	marker := filepath.Join(dir, "sync-marker")
	writeSyncScript(t, settings.SyncScriptPath(dir), markerScript(t, marker))
	saveConfig(t, dir, entity.Config{SourceRepo: sourceDir, AutoSync: true})

	if _, err := Pull(dir, PullOptions{}); err != nil {
		t.Fatalf("pull error: %v", err)
	}

	if _, err := os.Stat(marker); err != nil {
		t.Error("auto_sync did not chain into a sync")
	}
}

func TestPullSourceOnlySuppressesChain(t *testing.T) {
	dir := t.TempDir()
	sourceDir, _ := cloneBehind(t)
	marker := filepath.Join(dir, "sync-marker")
	writeSyncScript(t, settings.SyncScriptPath(dir), markerScript(t, marker))
	saveConfig(t, dir, entity.Config{SourceRepo: sourceDir, AutoSync: true})

	if _, err := Pull(dir, PullOptions{SourceOnly: true}); err != nil {
		t.Fatalf("pull error: %v", err)
	}

	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("source-only pull still chained into a sync")
	}
}

func TestPullSyncAfterTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	sourceDir, _ := cloneBehind(t)
	syncMarker := filepath.Join(dir, "sync-marker")
	loopMarker := filepath.Join(dir, "loop-marker")
	writeSyncScript(t, settings.SyncScriptPath(dir), markerScript(t, syncMarker))
	writeSyncScript(t, settings.LoopScriptPath(dir), markerScript(t, loopMarker))
	saveConfig(t, dir, entity.Config{SourceRepo: sourceDir, AutoSync: true})

	if _, err := Pull(dir, PullOptions{SyncAfter: true}); err != nil {
		t.Fatalf("pull error: %v", err)
	}

	if _, err := os.Stat(loopMarker); err != nil {
		t.Error("sync-after did not start continuous sync")
	}
	if _, err := os.Stat(syncMarker); !os.IsNotExist(err) {
		t.Error("auto_sync ran despite sync-after precedence")
	}
}

func TestPullFailureAbortsChain(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "sync-marker")
	writeSyncScript(t, settings.SyncScriptPath(dir), markerScript(t, marker))
	saveConfig(t, dir, entity.Config{SourceRepo: filepath.Join(dir, "not-a-repo"), AutoSync: true})

	if _, err := Pull(dir, PullOptions{}); err == nil {
		t.Fatal("expected an error for an unpullable source")
	}

	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("failed pull still chained into a sync")
	}
}
