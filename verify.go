package sheldon

import "os"

// Verify implements the Verifier (spec.md §4.6): an existing lock file is
// reusable, without touching the network, only if all four conditions
// hold. It never returns an error; a failure to verify just means "lock
// again", so every failure mode collapses to a false with no reason
// surfaced beyond what the caller can already infer from settings.Relock.
func Verify(settings *Settings, locked *LockedConfig) bool {
	if settings.Relock {
		return false
	}
	if !settings.Matches(locked.Settings) {
		return false
	}
	return manifestNotNewerThanLock(settings)
}

// manifestNotNewerThanLock is condition 3: the manifest's mtime must not
// be strictly after the lock file's mtime. Any stat failure is treated as
// "can't tell, so don't trust the lock".
func manifestNotNewerThanLock(settings *Settings) bool {
	manifestInfo, err := os.Stat(settings.ConfigFile)
	if err != nil {
		return false
	}
	lockInfo, err := os.Stat(settings.LockFile)
	if err != nil {
		return false
	}
	return !manifestInfo.ModTime().After(lockInfo.ModTime())
}

// VerifyAndLoad attempts to reuse settings.LockFile, falling back to a
// fresh Lock of config when verification fails for any reason (missing
// file, parse failure, stale settings, stale mtime, or a forced relock).
// recomputed reports which of the two happened, so a caller that only
// wants to persist/clean on an actual recompute (the `source` flow) can
// tell the two outcomes apart.
func VerifyAndLoad(settings *Settings, config *Config) (locked *LockedConfig, recomputed bool, err error) {
	if !settings.Relock {
		if locked, err := ReadLock(settings); err == nil && Verify(settings, locked) {
			return locked, false, nil
		}
	}
	locked, err = Lock(settings, config)
	return locked, true, err
}
