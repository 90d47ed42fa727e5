// Package sheldon implements the locking and rendering pipeline of a
// shell plugin manager: turning a manifest of plugin sources into a
// reproducible lock file, and the lock file into a single shell script
// that sources every plugin's files in manifest order.
package sheldon

import (
	"os"

	"github.com/sceneq/sheldon/log"
)

// LockCommand always relocks config, cleans stale repositories/downloads
// that the new lock no longer references, writes the result to
// settings.LockFile, and returns it. It is the entry point for an explicit
// `lock` invocation.
func LockCommand(settings *Settings, config *Config, logger *log.Logger) (*LockedConfig, error) {
	locked, err := Lock(settings, config)
	if err != nil {
		return nil, err
	}
	if err := Clean(settings, locked, logger); err != nil {
		return nil, err
	}
	if err := WriteLock(settings, locked); err != nil {
		return nil, err
	}
	logger.Status("Locked", settings.LockFile)
	return locked, nil
}

// SourceCommand reuses an existing, verified lock when possible, otherwise
// relocks. Clean and the write to settings.LockFile only run when the lock
// was actually recomputed: reusing an already-valid lock file touches
// neither disk location. It renders and returns the combined shell script
// either way. It is the entry point for `sheldon source`.
func SourceCommand(settings *Settings, config *Config, logger *log.Logger) (string, error) {
	locked, recomputed, err := VerifyAndLoad(settings, config)
	if err != nil {
		return "", err
	}

	if recomputed {
		if err := Clean(settings, locked, logger); err != nil {
			return "", err
		}
		if err := WriteLock(settings, locked); err != nil {
			return "", err
		}
		logger.Status("Locked", settings.LockFile)
	} else {
		logger.Status("Unlocked", settings.LockFile)
	}

	return renderScript(locked)
}

// CleanCommand locks (or reuses) config and sweeps anything on disk that
// the result no longer references.
func CleanCommand(settings *Settings, config *Config, logger *log.Logger) error {
	locked, _, err := VerifyAndLoad(settings, config)
	if err != nil {
		return err
	}
	return Clean(settings, locked, logger)
}

// DefaultLogger returns a Logger writing to stderr, the destination the
// thin CLI uses unless a caller redirects it.
func DefaultLogger() *log.Logger {
	return log.New(os.Stderr)
}
