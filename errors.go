package fskit

import (
	"errors"
	"fmt"
)

// Common filesystem errors. Backend implementations must translate their
// native failures into one of these kinds at their own boundary, so that
// calling code never branches on backend-specific error identities.
var (
	// ErrNotExist is returned when a resource is required but missing.
	ErrNotExist = errors.New("resource does not exist")
	// ErrExist is returned on an exclusive-create conflict.
	ErrExist = errors.New("resource already exists")
	// ErrNotDir is returned when a directory was expected.
	ErrNotDir = errors.New("not a directory")
	// ErrIsDir is returned when a file was expected.
	ErrIsDir = errors.New("is a directory")
	// ErrNotEmpty is returned when removing a non-empty directory.
	ErrNotEmpty = errors.New("directory not empty")
	// ErrReadOnly is returned when a mutation is attempted on a read-only
	// filesystem or an overlay with no write layer.
	ErrReadOnly = errors.New("filesystem is read-only")
	// ErrInvalidPath is returned for malformed path text (e.g. NUL bytes).
	ErrInvalidPath = errors.New("invalid path")
	// ErrIllegalBackReference is returned when back-references in a path
	// would escape the filesystem root.
	ErrIllegalBackReference = errors.New("path escapes filesystem root")
	// ErrMissingNamespace is returned when accessing an info field whose
	// namespace was not requested or is not supported by the backend.
	ErrMissingNamespace = errors.New("info namespace not present")
	// ErrClosed is returned by operations on a closed filesystem.
	ErrClosed = errors.New("filesystem is closed")
	// ErrNotSupported is returned for operations a backend cannot perform.
	ErrNotSupported = errors.New("operation not supported")
	// ErrRemoveRoot is returned when attempting to remove the root directory.
	ErrRemoveRoot = errors.New("root directory may not be removed")
	// ErrPermission is returned when the backend denies access.
	ErrPermission = errors.New("permission denied")
	// ErrTimeout is returned when a remote-backed operation takes too long.
	ErrTimeout = errors.New("operation timed out")
	// ErrRemoteConnection is returned on remote connection trouble.
	ErrRemoteConnection = errors.New("remote connection error")
	// ErrInvalidFlag is returned for an unusable open flag combination.
	ErrInvalidFlag = errors.New("invalid open flag")
)

// PathError records an error and the operation and path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// errPath is shorthand for wrapping a sentinel in a PathError.
func errPath(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// IsNotExist reports whether an error indicates a missing resource.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsExist reports whether an error indicates a resource already exists.
func IsExist(err error) bool {
	return errors.Is(err, ErrExist)
}

// IsReadOnly reports whether an error is due to read-only restrictions.
func IsReadOnly(err error) bool {
	return errors.Is(err, ErrReadOnly)
}

// IsPermission reports whether an error indicates permission was denied.
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}
