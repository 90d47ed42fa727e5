package sheldon

import (
	"path/filepath"
	"strings"
)

// Settings is process-wide and read-only after construction. Every path it
// carries is absolute; home is only an ancestor used for display shortening
// and for expanding a leading "~" in a Local source directory.
type Settings struct {
	// Version is the tool version string, persisted into the lock file so
	// the Verifier can detect a binary upgrade.
	Version string
	// Home is the user's home directory.
	Home string
	// Root is the directory under which sources are installed
	// (repositories/ and downloads/ live here).
	Root string
	// ConfigFile is the absolute path to the manifest.
	ConfigFile string
	// LockFile is the absolute path to the lock file.
	LockFile string
	// Reinstall is carried from the command line but not read by the
	// Source Installer: a clone or download already present on disk is
	// reused whether or not it is set.
	Reinstall bool
	// Relock forces the orchestrator to run even if an existing lock
	// file would otherwise verify.
	Relock bool
}

// LockedSettings is the frozen subset of Settings persisted into the lock
// file. The Verifier compares it field-for-field against a fresh Settings;
// adding a field to Settings without adding it here silently defeats
// verification.
type LockedSettings struct {
	Version    string `toml:"version"`
	Home       string `toml:"home"`
	Root       string `toml:"root"`
	ConfigFile string `toml:"config_file"`
	LockFile   string `toml:"lock_file"`
}

// Lock freezes a Settings into its persisted form.
func (s Settings) Lock() LockedSettings {
	return LockedSettings{
		Version:    s.Version,
		Home:       s.Home,
		Root:       s.Root,
		ConfigFile: s.ConfigFile,
		LockFile:   s.LockFile,
	}
}

// Matches reports whether the current Settings are identical, field for
// field, to a previously persisted LockedSettings. This is condition 2 of
// the Verifier (spec.md §4.6).
func (s Settings) Matches(l LockedSettings) bool {
	return s.Version == l.Version &&
		s.Home == l.Home &&
		s.Root == l.Root &&
		s.ConfigFile == l.ConfigFile &&
		s.LockFile == l.LockFile
}

// ExpandTilde rewrites a directory that begins with "~" against Home. A bare
// "~" expands to Home itself; "~/foo" expands to Home joined with "foo".
// Any other directory is returned unchanged.
func (s Settings) ExpandTilde(directory string) string {
	if directory == "~" {
		return s.Home
	}
	if rest, ok := strings.CutPrefix(directory, "~/"); ok {
		return filepath.Join(s.Home, rest)
	}
	return directory
}
