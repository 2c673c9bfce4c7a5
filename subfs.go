package fskit

import (
	"context"
)

// SubFS is a view of a sub-directory on a parent filesystem, as
// returned by OpenDir. Every path is interpreted relative to the view's
// root: the view prefixes paths before delegating to the parent and
// strips the prefix from path-bearing results. Containment applies at
// the sub-root, so a back-reference past it fails even where it would
// be valid on the parent.
//
// A SubFS owns no backend state. Its lifecycle is tied to the parent:
// once the parent is closed the view's operations fail.
type SubFS struct {
	parent      FS
	subDir      string
	closeParent bool
}

// SubFSOption configures an opened sub-filesystem view.
type SubFSOption func(*SubFS)

// WithCloseParent makes closing the view close the parent filesystem
// too.
func WithCloseParent() SubFSOption {
	return func(s *SubFS) { s.closeParent = true }
}

// OpenDir returns a filesystem view rooted at an existing directory of
// fsys. Fails with ErrNotExist if the path is missing and ErrNotDir if
// it references a file.
func OpenDir(ctx context.Context, fsys FS, path string, opts ...SubFSOption) (*SubFS, error) {
	p, err := normalizeAbs(path)
	if err != nil {
		return nil, err
	}
	info, err := fsys.GetInfo(ctx, p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errPath("opendir", p, ErrNotDir)
	}
	s := &SubFS{parent: fsys, subDir: p}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Parent returns the wrapped filesystem.
func (s *SubFS) Parent() FS {
	return s.parent
}

// SubDir returns the view's root path on the parent.
func (s *SubFS) SubDir() string {
	return s.subDir
}

// delegate validates a view-relative path and rewrites it to the
// parent's namespace. Sandboxing happens here, before the parent sees
// the path: back-references are resolved against the sub-root.
func (s *SubFS) delegate(path string) (string, error) {
	p, err := normalizeAbs(path)
	if err != nil {
		return "", err
	}
	return Join(s.subDir, Rel(p)), nil
}

func (s *SubFS) GetInfo(ctx context.Context, path string, namespaces ...string) (*Info, error) {
	p, err := s.delegate(path)
	if err != nil {
		return nil, err
	}
	return s.parent.GetInfo(ctx, p, namespaces...)
}

func (s *SubFS) ListDir(ctx context.Context, path string) ([]string, error) {
	p, err := s.delegate(path)
	if err != nil {
		return nil, err
	}
	return s.parent.ListDir(ctx, p)
}

func (s *SubFS) MakeDir(ctx context.Context, path string) error {
	p, err := s.delegate(path)
	if err != nil {
		return err
	}
	return s.parent.MakeDir(ctx, p)
}

func (s *SubFS) OpenBin(ctx context.Context, path string, flag int) (File, error) {
	p, err := s.delegate(path)
	if err != nil {
		return nil, err
	}
	return s.parent.OpenBin(ctx, p, flag)
}

func (s *SubFS) Remove(ctx context.Context, path string) error {
	p, err := s.delegate(path)
	if err != nil {
		return err
	}
	return s.parent.Remove(ctx, p)
}

func (s *SubFS) RemoveDir(ctx context.Context, path string) error {
	p, err := normalizeAbs(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return errPath("removedir", p, ErrRemoveRoot)
	}
	return s.parent.RemoveDir(ctx, Join(s.subDir, Rel(p)))
}

func (s *SubFS) SetInfo(ctx context.Context, path string, raw RawInfo) error {
	p, err := s.delegate(path)
	if err != nil {
		return err
	}
	return s.parent.SetInfo(ctx, p, raw)
}

// ScanDir delegates combined enumeration to the parent when supported,
// falling back to list-then-stat otherwise.
func (s *SubFS) ScanDir(ctx context.Context, path string, namespaces ...string) ([]*Info, error) {
	p, err := s.delegate(path)
	if err != nil {
		return nil, err
	}
	if scanner, ok := s.parent.(CanScanDir); ok {
		return scanner.ScanDir(ctx, p, namespaces...)
	}
	return scanDirFallback(ctx, s.parent, p, namespaces...)
}

// Close releases the view. The parent is only closed when the view was
// opened with WithCloseParent.
func (s *SubFS) Close() error {
	if s.closeParent {
		return s.parent.Close()
	}
	return nil
}

var _ FS = (*SubFS)(nil)
