package sheldon

import "github.com/pkg/errors"

// Kind identifies one of the error categories the core produces
// (spec.md §7). Callers can recover it from a wrapped error with As.
type Kind int

const (
	// KindSourceInstallFailed wraps any failure cloning, downloading, or
	// validating a Source, tagged with the source's URL or directory.
	KindSourceInstallFailed Kind = iota
	// KindReferenceNotFound means a branch or tag reference does not
	// exist in the repository.
	KindReferenceNotFound
	// KindReferenceNotPeelable means a resolved git object could not be
	// peeled through to a commit.
	KindReferenceNotPeelable
	// KindNoFilesMatched means a `uses` pattern resolved to zero files.
	KindNoFilesMatched
	// KindEncoding means a path could not be represented as text for
	// template substitution.
	KindEncoding
	// KindTemplateCompileFailed means a named template failed to parse.
	KindTemplateCompileFailed
	// KindTemplateRenderFailed means rendering a compiled template failed,
	// most commonly due to an undefined variable in strict mode.
	KindTemplateRenderFailed
	// KindLockCorrupt means the lock file's bytes did not parse.
	KindLockCorrupt
	// KindLockWriteFailed means the lock file could not be written.
	KindLockWriteFailed
	// KindLocalMissing means a Local source's directory does not exist.
	KindLocalMissing
	// KindLocalNotADirectory means a Local source's path exists but is
	// not a directory.
	KindLocalNotADirectory
)

// Error is a Kind-tagged error produced by the core. Its cause is built
// with github.com/pkg/errors, so the cause returned by Unwrap carries a
// stack trace (printed by %+v on the cause); Error itself formats as its
// message only.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string { return e.cause.Error() }

// Unwrap exposes the wrapped cause for errors.Is/As/Unwrap.
func (e *Error) Unwrap() error { return e.cause }

// wrap builds a Kind-tagged Error, formatting a message and attaching cause
// if one is given (cause may be nil for errors with no underlying failure,
// e.g. KindNoFilesMatched).
func wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	if cause != nil {
		return &Error{Kind: kind, cause: errors.Wrapf(cause, format, args...)}
	}
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}
