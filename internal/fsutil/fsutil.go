// Package fsutil collects small filesystem predicates shared across the
// core, adapted from the teacher's IsRegular/IsDir helpers (fs.go).
package fsutil

import "os"

// Stat reports whether name exists and, if so, whether it is a directory.
// Unlike a bare os.Stat, a not-exist error collapses to (false, false,
// nil) so callers don't have to special-case os.IsNotExist themselves;
// any other stat failure (permissions, I/O) is returned as err.
func Stat(name string) (exists bool, isDir bool, err error) {
	fi, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, fi.IsDir(), nil
}
