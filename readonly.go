package fskit

import (
	"context"
)

// ReadOnlyFS wraps a filesystem to prevent all mutations. Read
// operations delegate unchanged; every write fails with ErrReadOnly.
// Useful for exposing a filesystem to untrusted code or as a lower
// layer of a MultiFS overlay.
type ReadOnlyFS struct {
	fsys FS
}

// NewReadOnlyFS creates a read-only wrapper around a filesystem.
func NewReadOnlyFS(fsys FS) *ReadOnlyFS {
	return &ReadOnlyFS{fsys: fsys}
}

// Unwrap returns the underlying filesystem.
func (r *ReadOnlyFS) Unwrap() FS {
	return r.fsys
}

func (r *ReadOnlyFS) GetInfo(ctx context.Context, path string, namespaces ...string) (*Info, error) {
	return r.fsys.GetInfo(ctx, path, namespaces...)
}

func (r *ReadOnlyFS) ListDir(ctx context.Context, path string) ([]string, error) {
	return r.fsys.ListDir(ctx, path)
}

// ScanDir delegates enumeration, preserving the wrapped backend's
// combined scan when it has one.
func (r *ReadOnlyFS) ScanDir(ctx context.Context, path string, namespaces ...string) ([]*Info, error) {
	return ScanDir(ctx, r.fsys, path, namespaces...)
}

func (r *ReadOnlyFS) MakeDir(ctx context.Context, path string) error {
	return errPath("makedir", path, ErrReadOnly)
}

func (r *ReadOnlyFS) OpenBin(ctx context.Context, path string, flag int) (File, error) {
	if IsWritableFlag(flag) {
		return nil, errPath("openbin", path, ErrReadOnly)
	}
	return r.fsys.OpenBin(ctx, path, flag)
}

func (r *ReadOnlyFS) Remove(ctx context.Context, path string) error {
	return errPath("remove", path, ErrReadOnly)
}

func (r *ReadOnlyFS) RemoveDir(ctx context.Context, path string) error {
	return errPath("removedir", path, ErrReadOnly)
}

func (r *ReadOnlyFS) SetInfo(ctx context.Context, path string, raw RawInfo) error {
	return errPath("setinfo", path, ErrReadOnly)
}

// Close closes the wrapped filesystem.
func (r *ReadOnlyFS) Close() error {
	return r.fsys.Close()
}

var (
	_ FS         = (*ReadOnlyFS)(nil)
	_ CanScanDir = (*ReadOnlyFS)(nil)
)
