// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package vfs

// Error is the taxonomy of failures a driver or the dispatch layer may
// report. The zero value is not a valid error; callers compare against the
// named constants below.
type Error int

const (
	// ErrNoMemory is raised when an allocation fails. In-process Go code
	// essentially never returns this; it is kept for parity with a future
	// driver backed by a real heap.
	ErrNoMemory Error = iota + 1

	// ErrNotFound is raised when a path component or inode is absent.
	ErrNotFound

	// ErrAlreadyExists is raised on a name collision on insert.
	ErrAlreadyExists

	// ErrNotADir is raised when a directory operation targets a
	// non-directory inode.
	ErrNotADir

	// ErrIsDir is raised when a file operation targets a directory inode.
	ErrIsDir

	// ErrInvalidArg is raised for a nil pointer, a relative path where an
	// absolute one is required, or the wrong type passed to Mknod.
	ErrInvalidArg

	// ErrNotSupported is raised when a driver does not implement the
	// requested operation.
	ErrNotSupported

	// ErrBadFs is raised when an internal invariant is violated (a missing
	// root inode, a dangling child). It is logged as a kernel error before
	// being returned.
	ErrBadFs

	// ErrNotImplemented is a sentinel for stubbed-out features.
	ErrNotImplemented
)

func (e Error) Error() string {
	switch e {
	case ErrNoMemory:
		return "vfs: no memory"
	case ErrNotFound:
		return "vfs: not found"
	case ErrAlreadyExists:
		return "vfs: already exists"
	case ErrNotADir:
		return "vfs: not a directory"
	case ErrIsDir:
		return "vfs: is a directory"
	case ErrInvalidArg:
		return "vfs: invalid argument"
	case ErrNotSupported:
		return "vfs: not supported"
	case ErrBadFs:
		return "vfs: filesystem invariant violated"
	case ErrNotImplemented:
		return "vfs: not implemented"
	default:
		return "vfs: unknown error"
	}
}

// badFs logs and returns ErrBadFs, matching the teacher's pattern of
// logging before returning on an invariant violation (spec.md's propagation
// policy: BadFs "may be fatal at the implementer's discretion but must at
// least emit a diagnostic before returning").
func badFs(format string, args ...interface{}) error {
	getLogger().Printf("BUG: "+format, args...)
	return ErrBadFs
}
