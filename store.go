package sheldon

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// WriteLock serializes locked to TOML and writes it to settings.LockFile,
// replacing any existing file. Errors is never persisted: it exists only
// for the top-level `lock` flow to report aggregate failures in-process.
func WriteLock(settings *Settings, locked *LockedConfig) error {
	data, err := toml.Marshal(locked)
	if err != nil {
		return wrap(KindLockWriteFailed, err, "failed to serialize lock file")
	}
	if err := os.WriteFile(settings.LockFile, data, 0o644); err != nil {
		return wrap(KindLockWriteFailed, err, "failed to write lock file `%s`", settings.LockFile)
	}
	return nil
}

// ReadLock parses the lock file at settings.LockFile. Bytes that are not
// valid UTF-8 are lossily repaired before parsing (mirroring the
// original's tolerance for a lock file edited by a non-UTF-8-safe tool)
// rather than failing outright on a handful of bad bytes.
func ReadLock(settings *Settings) (*LockedConfig, error) {
	raw, err := os.ReadFile(settings.LockFile)
	if err != nil {
		return nil, wrap(KindLockCorrupt, err, "failed to read lock file `%s`", settings.LockFile)
	}

	clean := raw
	if !isValidUTF8(raw) {
		clean = []byte(strings.ToValidUTF8(string(raw), "�"))
	}

	var locked LockedConfig
	if err := toml.Unmarshal(clean, &locked); err != nil {
		return nil, wrap(KindLockCorrupt, err, "failed to deserialize lock file `%s`", settings.LockFile)
	}
	return &locked, nil
}

func isValidUTF8(b []byte) bool {
	return strings.ToValidUTF8(string(b), "") == string(b)
}
