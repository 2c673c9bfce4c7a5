package fskit

import (
	"context"
	"io"
	"os"
)

// File is a binary file handle returned by OpenBin. Handles opened
// read-only return an error from Write; handles opened write-only may
// return an error from Read.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

// FS is the contract every filesystem backend implements. Callers
// program against this interface; the derived operations in this
// package (Exists, MakeDirs, RemoveTree, CopyFile, the walker, the
// glob engine, ...) are expressed purely in terms of it.
//
// Paths use the canonical slash-separated dialect and are interpreted
// relative to the instance's root. Implementations must pass every
// incoming path through Normalize (or the normalizeAbs helper) before
// touching backend state, so the containment guarantee holds for all
// backends without re-implementation.
type FS interface {
	// GetInfo returns resource metadata for a path. The "basic"
	// namespace is always present; additional namespaces are included
	// when requested and supported. Requesting an unsupported namespace
	// is not an error.
	GetInfo(ctx context.Context, path string, namespaces ...string) (*Info, error)

	// ListDir returns the names of a directory's immediate children.
	// Returns ErrNotExist if the path is missing and ErrNotDir if it
	// is not a directory. Entry order is backend-defined unless the
	// backend documents otherwise.
	ListDir(ctx context.Context, path string) ([]string, error)

	// MakeDir creates a directory. Returns ErrExist if the path already
	// exists and ErrNotExist if the parent directory is missing.
	MakeDir(ctx context.Context, path string) error

	// OpenBin opens a binary file handle. The flag argument uses os.O_*
	// semantics (O_RDONLY, O_WRONLY, O_RDWR combined with O_APPEND,
	// O_CREATE, O_EXCL, O_TRUNC). Opening a missing file without
	// O_CREATE, or any file beneath a missing parent directory, returns
	// ErrNotExist; opening a directory returns ErrIsDir; O_CREATE|O_EXCL
	// on an existing file returns ErrExist.
	OpenBin(ctx context.Context, path string, flag int) (File, error)

	// Remove deletes a file. Returns ErrIsDir for directories.
	Remove(ctx context.Context, path string) error

	// RemoveDir deletes an empty directory. Returns ErrNotEmpty when the
	// directory has children and ErrRemoveRoot for the root itself.
	RemoveDir(ctx context.Context, path string) error

	// SetInfo updates resource metadata. Only the namespaces and fields
	// present in raw are considered; fields the backend cannot change
	// are silently ignored.
	SetInfo(ctx context.Context, path string, raw RawInfo) error

	// Close releases any resources held by the filesystem. Operations
	// after Close fail with ErrClosed. Close is idempotent.
	Close() error
}

// ============================================================================
// Optional Capability Interfaces
// ============================================================================
// Backends may expose optional capabilities; callers discover them with
// a type assertion and fall back to the derived implementations
// otherwise:
//
//	if scanner, ok := fsys.(CanScanDir); ok {
//	    infos, err = scanner.ScanDir(ctx, path, namespaces...)
//	}

// CanScanDir indicates the backend can enumerate a directory returning
// full resource info in one call, which is cheaper than the default
// list-then-stat-each loop (a single round trip for network backends).
type CanScanDir interface {
	ScanDir(ctx context.Context, path string, namespaces ...string) ([]*Info, error)
}

// CanCopy indicates the backend supports a native same-instance copy
// that is more efficient than chunked read+write.
type CanCopy interface {
	Copy(ctx context.Context, src, dst string) error
}

// CanMove indicates the backend supports a native same-instance rename.
type CanMove interface {
	Move(ctx context.Context, src, dst string) error
}

// CanSysPath indicates the backend can map a resource to a host
// filesystem path.
type CanSysPath interface {
	SysPath(path string) (string, error)
}

// ThreadSafe marks a filesystem as safe for concurrent callers. The
// bulk orchestrators only parallelize per-file work when both endpoint
// filesystems assert this.
type ThreadSafe interface {
	ThreadSafe() bool
}

// IsWritableFlag reports whether an OpenBin flag implies write access.
func IsWritableFlag(flag int) bool {
	return flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0
}

// ValidateFlag rejects contradictory OpenBin flag combinations before
// the backend is touched.
func ValidateFlag(flag int) error {
	if flag&os.O_WRONLY != 0 && flag&os.O_RDWR != 0 {
		return ErrInvalidFlag
	}
	if flag&os.O_EXCL != 0 && flag&os.O_CREATE == 0 {
		return ErrInvalidFlag
	}
	if flag&os.O_TRUNC != 0 && !IsWritableFlag(flag) {
		return ErrInvalidFlag
	}
	return nil
}
