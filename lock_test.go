package sheldon

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// Property 2: source deduplication. Two plugins sharing an identical
// Local source must only be "installed" (validated) once; here we assert
// on the observable outcome (both plugins locked with the same directory)
// since installLocal has no side effect we can count directly.
func TestLockDeduplicatesSharedSource(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)
	dir := filepath.Join(root, "shared")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, dir, "a.plugin.zsh")

	config := NewConfig()
	config.Plugins = []Plugin{
		{Name: "one", Source: Source{Kind: SourceLocal, Directory: dir}},
		{Name: "two", Source: Source{Kind: SourceLocal, Directory: dir}},
	}

	locked, err := Lock(settings, config)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if len(locked.Plugins) != 2 {
		t.Fatalf("got %d locked plugins, want 2", len(locked.Plugins))
	}
	for _, p := range locked.Plugins {
		if p.Directory != dir {
			t.Errorf("plugin %s: directory = %s, want %s", p.Name, p.Directory, dir)
		}
	}
}

// Property 1: manifest-order preservation, even though groups may finish
// installing out of order. The manifest lists "slow" before "fast", but
// the "slow" HTTP handler blocks until "fast" has already been served, so
// the fast group's work always completes first.
func TestLockPreservesManifestOrder(t *testing.T) {
	fastServed := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow.txt" {
			<-fastServed
		} else {
			close(fastServed)
		}
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	root := t.TempDir()
	settings := testSettings(t, root)

	config := NewConfig()
	config.Plugins = []Plugin{
		{Name: "slow", Source: Source{Kind: SourceRemote, URL: srv.URL + "/slow.txt"}},
		{Name: "fast", Source: Source{Kind: SourceRemote, URL: srv.URL + "/fast.txt"}},
	}

	locked, err := Lock(settings, config)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	if len(locked.Plugins) != 2 {
		t.Fatalf("got %d locked plugins, want 2", len(locked.Plugins))
	}
	if locked.Plugins[0].Name != "slow" || locked.Plugins[1].Name != "fast" {
		t.Errorf("order not preserved: got [%s, %s], want [slow, fast]",
			locked.Plugins[0].Name, locked.Plugins[1].Name)
	}
}

// Property 7: remote selection shortcut — filenames is always exactly the
// one downloaded file, regardless of uses/matches.
func TestLockRemoteSelectionShortcut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	root := t.TempDir()
	settings := testSettings(t, root)

	config := NewConfig()
	config.Plugins = []Plugin{
		{
			Name:   "remote",
			Source: Source{Kind: SourceRemote, URL: srv.URL + "/plugin.zsh"},
			Uses:   []string{"*.ignored"},
		},
	}

	locked, err := Lock(settings, config)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if len(locked.Plugins) != 1 {
		t.Fatalf("got %d locked plugins, want 1", len(locked.Plugins))
	}
	got := locked.Plugins[0].Filenames
	if len(got) != 1 || filepath.Base(got[0]) != "plugin.zsh" {
		t.Errorf("filenames = %v, want single entry basename plugin.zsh", got)
	}
}

func TestLockEmptyConfig(t *testing.T) {
	root := t.TempDir()
	settings := testSettings(t, root)
	config := NewConfig()

	locked, err := Lock(settings, config)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if len(locked.Plugins) != 0 {
		t.Errorf("got %d locked plugins, want 0", len(locked.Plugins))
	}
	if locked.Settings.Root != root {
		t.Errorf("settings not carried through: got root %s, want %s", locked.Settings.Root, root)
	}
}
