package fskit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrMountExists is returned when a prefix is already claimed.
	ErrMountExists = errors.New("mount point already exists")
	// ErrMountNotFound is returned when unmounting an unknown prefix.
	ErrMountNotFound = errors.New("no mount point found for path")
	// ErrNilFS is returned when mounting a nil filesystem.
	ErrNilFS = errors.New("filesystem cannot be nil")
)

// MountFS composes multiple filesystems into one namespace by static
// path-prefix mounting. Dispatch picks the longest registered prefix
// that is an ancestor of (or equal to) the request path and delegates
// the remainder to that child; nested mounts are allowed and the most
// specific prefix wins.
//
// Paths under no mount are served by an implicit virtual directory
// layer that only materializes the mount points themselves as
// directories. Those synthetic directories cannot hold files.
type MountFS struct {
	mu     sync.RWMutex
	mounts map[string]*mountPoint
	// mount prefixes sorted longest first for longest-prefix matching
	sortedPaths []string
	closed      bool
}

type mountPoint struct {
	fsys  FS
	owned bool
}

// MountOption configures a single mount.
type MountOption func(*mountPoint)

// ExternallyOwned marks a mounted filesystem as not owned by the
// composite: closing the MountFS will not close it.
func ExternallyOwned() MountOption {
	return func(m *mountPoint) { m.owned = false }
}

// NewMountFS creates an empty mount composite.
func NewMountFS() *MountFS {
	return &MountFS{mounts: make(map[string]*mountPoint)}
}

// Mount attaches a filesystem under a path prefix. The exact prefix
// must not already be claimed; mounting above or below an existing
// mount is permitted.
func (m *MountFS) Mount(prefix string, fsys FS, opts ...MountOption) error {
	if fsys == nil {
		return ErrNilFS
	}
	if fsys == FS(m) {
		return fmt.Errorf("%w: cannot mount a composite on itself", ErrMountExists)
	}
	p, err := normalizeAbs(prefix)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, exists := m.mounts[p]; exists {
		return fmt.Errorf("%w: %s", ErrMountExists, p)
	}
	mp := &mountPoint{fsys: fsys, owned: true}
	for _, opt := range opts {
		opt(mp)
	}
	m.mounts[p] = mp
	m.updateSortedPaths()
	return nil
}

// Unmount detaches the filesystem mounted at exactly the given prefix.
// The detached filesystem is not closed.
func (m *MountFS) Unmount(prefix string) error {
	p, err := normalizeAbs(prefix)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.mounts[p]; !exists {
		return fmt.Errorf("%w: %s", ErrMountNotFound, p)
	}
	delete(m.mounts, p)
	m.updateSortedPaths()
	return nil
}

// MountPaths returns the registered prefixes, longest first.
func (m *MountFS) MountPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, len(m.sortedPaths))
	copy(paths, m.sortedPaths)
	return paths
}

// updateSortedPaths refreshes the longest-first prefix index. Must be
// called with the lock held.
func (m *MountFS) updateSortedPaths() {
	paths := make([]string, 0, len(m.mounts))
	for p := range m.mounts {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) > len(paths[j])
		}
		return paths[i] < paths[j]
	})
	m.sortedPaths = paths
}

// resolve finds the child filesystem and child-relative path for an
// absolute path, or reports that the path belongs to the virtual layer.
func (m *MountFS) resolve(path string) (FS, string, bool, error) {
	p, err := normalizeAbs(path)
	if err != nil {
		return nil, "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, "", false, ErrClosed
	}
	for _, prefix := range m.sortedPaths {
		if p == prefix || prefix == "/" || strings.HasPrefix(p, prefix+"/") {
			rel := strings.TrimPrefix(p, strings.TrimSuffix(prefix, "/"))
			return m.mounts[prefix].fsys, Abs(rel), true, nil
		}
	}
	return nil, p, false, nil
}

// syntheticChildren returns the next path components of mount prefixes
// strictly below the given virtual path, or ok=false when the path
// corresponds to no synthetic node.
func (m *MountFS) syntheticChildren(path string) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := ForceDir(path)
	seen := make(map[string]bool)
	var names []string
	found := path == "/"
	for mounted := range m.mounts {
		if !strings.HasPrefix(mounted, prefix) {
			continue
		}
		found = true
		rest := strings.TrimPrefix(mounted, prefix)
		name, _, _ := strings.Cut(rest, "/")
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, found
}

func syntheticInfo(name string) *Info {
	return NewInfo(RawInfo{
		NamespaceBasic: {"name": name, "is_dir": true},
	})
}

func (m *MountFS) GetInfo(ctx context.Context, path string, namespaces ...string) (*Info, error) {
	fsys, p, mounted, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	if mounted {
		return fsys.GetInfo(ctx, p, namespaces...)
	}
	if _, ok := m.syntheticChildren(p); !ok {
		return nil, errPath("getinfo", p, ErrNotExist)
	}
	return syntheticInfo(Base(p)), nil
}

func (m *MountFS) ListDir(ctx context.Context, path string) ([]string, error) {
	fsys, p, mounted, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	if mounted {
		return fsys.ListDir(ctx, p)
	}
	names, ok := m.syntheticChildren(p)
	if !ok {
		return nil, errPath("listdir", p, ErrNotExist)
	}
	return names, nil
}

// ScanDir uses the child's combined enumeration when available.
func (m *MountFS) ScanDir(ctx context.Context, path string, namespaces ...string) ([]*Info, error) {
	fsys, p, mounted, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	if mounted {
		return ScanDir(ctx, fsys, p, namespaces...)
	}
	names, ok := m.syntheticChildren(p)
	if !ok {
		return nil, errPath("scandir", p, ErrNotExist)
	}
	infos := make([]*Info, 0, len(names))
	for _, name := range names {
		infos = append(infos, syntheticInfo(name))
	}
	return infos, nil
}

func (m *MountFS) MakeDir(ctx context.Context, path string) error {
	fsys, p, mounted, err := m.resolve(path)
	if err != nil {
		return err
	}
	if !mounted {
		// The virtual layer only materializes mount points.
		if _, ok := m.syntheticChildren(Dir(p)); ok {
			return errPath("makedir", p, ErrReadOnly)
		}
		return errPath("makedir", p, ErrNotExist)
	}
	return fsys.MakeDir(ctx, p)
}

func (m *MountFS) OpenBin(ctx context.Context, path string, flag int) (File, error) {
	fsys, p, mounted, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	if !mounted {
		if _, ok := m.syntheticChildren(p); ok {
			return nil, errPath("openbin", p, ErrIsDir)
		}
		if IsWritableFlag(flag) {
			if _, ok := m.syntheticChildren(Dir(p)); ok {
				return nil, errPath("openbin", p, ErrReadOnly)
			}
		}
		return nil, errPath("openbin", p, ErrNotExist)
	}
	return fsys.OpenBin(ctx, p, flag)
}

func (m *MountFS) Remove(ctx context.Context, path string) error {
	fsys, p, mounted, err := m.resolve(path)
	if err != nil {
		return err
	}
	if !mounted {
		if _, ok := m.syntheticChildren(p); ok {
			return errPath("remove", p, ErrIsDir)
		}
		return errPath("remove", p, ErrNotExist)
	}
	return fsys.Remove(ctx, p)
}

func (m *MountFS) RemoveDir(ctx context.Context, path string) error {
	fsys, p, mounted, err := m.resolve(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return errPath("removedir", p, ErrRemoveRoot)
	}
	if !mounted {
		if _, ok := m.syntheticChildren(p); ok {
			return errPath("removedir", p, ErrReadOnly)
		}
		return errPath("removedir", p, ErrNotExist)
	}
	return fsys.RemoveDir(ctx, p)
}

func (m *MountFS) SetInfo(ctx context.Context, path string, raw RawInfo) error {
	fsys, p, mounted, err := m.resolve(path)
	if err != nil {
		return err
	}
	if !mounted {
		if _, ok := m.syntheticChildren(p); ok {
			return errPath("setinfo", p, ErrReadOnly)
		}
		return errPath("setinfo", p, ErrNotExist)
	}
	return fsys.SetInfo(ctx, p, raw)
}

// Close closes every owned mounted filesystem and detaches all mounts.
// Further operations fail with ErrClosed. Close is idempotent.
func (m *MountFS) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	var errs []error
	for _, prefix := range m.sortedPaths {
		mp := m.mounts[prefix]
		if mp.owned {
			if err := mp.fsys.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	m.mounts = map[string]*mountPoint{}
	m.sortedPaths = nil
	return errors.Join(errs...)
}

var (
	_ FS         = (*MountFS)(nil)
	_ CanScanDir = (*MountFS)(nil)
)
