package sheldon

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sceneq/sheldon/log"
)

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestCleanRemovesUnreferencedRepository(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)

	kept := filepath.Join(root, cloneDirectory, "github.com", "a", "kept")
	stale := filepath.Join(root, cloneDirectory, "github.com", "a", "stale")
	mkdirAll(t, filepath.Join(kept, ".git"))
	mkdirAll(t, filepath.Join(stale, ".git"))

	locked := &LockedConfig{Plugins: []LockedPlugin{{Name: "kept", Directory: kept}}}
	var buf bytes.Buffer
	if err := Clean(settings, locked, log.New(&buf)); err != nil {
		t.Fatalf("Clean: %v", err)
	}

	if _, err := os.Stat(kept); err != nil {
		t.Errorf("kept repository was removed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale repository was not removed")
	}
}

func TestCleanRemovesUnreferencedDownload(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)

	dir := filepath.Join(root, downloadDirectory, "example.com")
	mkdirAll(t, dir)
	kept := filepath.Join(dir, "kept.zsh")
	stale := filepath.Join(dir, "stale.zsh")
	if err := os.WriteFile(kept, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	locked := &LockedConfig{Plugins: []LockedPlugin{{Name: "kept", Directory: dir, Filenames: []string{kept}}}}
	var buf bytes.Buffer
	if err := Clean(settings, locked, log.New(&buf)); err != nil {
		t.Fatalf("Clean: %v", err)
	}

	if _, err := os.Stat(kept); err != nil {
		t.Errorf("kept download was removed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale download was not removed")
	}
}

func TestCleanRefusesAfterLockErrors(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)
	locked := &LockedConfig{Errors: []error{wrap(KindSourceInstallFailed, nil, "boom")}}

	var buf bytes.Buffer
	if err := Clean(settings, locked, log.New(&buf)); err == nil {
		t.Error("expected Clean to refuse after a lock with errors")
	}
}
