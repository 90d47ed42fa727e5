package sheldon

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sceneq/sheldon/log"
)

// TestLockCommandCleansAndWrites covers review finding: LockCommand must
// sweep stale repositories left behind by a manifest edit, not just write
// the new lock file.
func TestLockCommandCleansAndWrites(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)

	kept := filepath.Join(root, "kept")
	stale := filepath.Join(root, cloneDirectory, "github.com", "a", "stale")
	if err := os.Mkdir(kept, 0o755); err != nil {
		t.Fatal(err)
	}
	mkdirAll(t, filepath.Join(stale, ".git"))

	config := NewConfig()
	config.Plugins = []Plugin{{Name: "kept", Source: Source{Kind: SourceLocal, Directory: kept}}}

	var buf bytes.Buffer
	locked, err := LockCommand(settings, config, log.New(&buf))
	if err != nil {
		t.Fatalf("LockCommand: %v", err)
	}
	if len(locked.Plugins) != 1 {
		t.Fatalf("got %d plugins, want 1", len(locked.Plugins))
	}

	if _, err := os.Stat(settings.LockFile); err != nil {
		t.Errorf("lock file was not written: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale repository was not cleaned")
	}
}

// TestSourceCommandReusesValidLock covers review finding: reusing an
// already-verified lock must not touch Clean or WriteLock, only render.
func TestSourceCommandReusesValidLock(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)

	stale := filepath.Join(root, cloneDirectory, "github.com", "a", "stale")
	mkdirAll(t, filepath.Join(stale, ".git"))

	if err := os.WriteFile(settings.ConfigFile, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	config := NewConfig()
	locked, err := Lock(settings, config)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := WriteLock(settings, locked); err != nil {
		t.Fatalf("WriteLock: %v", err)
	}
	lockInfoBefore, err := os.Stat(settings.LockFile)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := os.Chtimes(settings.ConfigFile, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(settings.LockFile, now, now); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := SourceCommand(settings, config, log.New(&buf)); err != nil {
		t.Fatalf("SourceCommand: %v", err)
	}

	if _, err := os.Stat(stale); err != nil {
		t.Error("reusing a verified lock must not run Clean")
	}
	lockInfoAfter, err := os.Stat(settings.LockFile)
	if err != nil {
		t.Fatal(err)
	}
	if !lockInfoBefore.ModTime().Equal(lockInfoAfter.ModTime()) {
		t.Error("reusing a verified lock must not rewrite the lock file")
	}
}

// TestSourceCommandRecomputesWhenStale covers the opposite path: a manifest
// newer than the lock file forces a recompute, which must clean and persist.
func TestSourceCommandRecomputesWhenStale(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)

	stale := filepath.Join(root, cloneDirectory, "github.com", "a", "stale")
	mkdirAll(t, filepath.Join(stale, ".git"))

	if err := os.WriteFile(settings.ConfigFile, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	config := NewConfig()
	locked, err := Lock(settings, config)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := WriteLock(settings, locked); err != nil {
		t.Fatalf("WriteLock: %v", err)
	}
	now := time.Now()
	if err := os.Chtimes(settings.LockFile, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(settings.ConfigFile, now, now); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := SourceCommand(settings, config, log.New(&buf)); err != nil {
		t.Fatalf("SourceCommand: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("a recomputed lock must run Clean")
	}
}

func TestCleanCommand(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)

	stale := filepath.Join(root, cloneDirectory, "github.com", "a", "stale")
	mkdirAll(t, filepath.Join(stale, ".git"))

	config := NewConfig()
	var buf bytes.Buffer
	if err := CleanCommand(settings, config, log.New(&buf)); err != nil {
		t.Fatalf("CleanCommand: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("CleanCommand did not sweep an unreferenced repository")
	}
}
