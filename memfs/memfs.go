// Package memfs implements an in-memory filesystem. It is fast,
// fully thread safe, and vanishes when closed, which makes it the
// backend of choice for tests and scratch space.
package memfs

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/tidwall/btree"

	"github.com/gobeaver/fskit"
)

// node is a single resource of the tree. A directory keeps its
// children in a btree keyed by name, so enumeration is always sorted.
type node struct {
	name    string
	dir     bool
	entries *btree.Map[string, *node]
	data    []byte

	created  time.Time
	accessed time.Time
	modified time.Time
}

func newNode(name string, dir bool) *node {
	now := time.Now()
	n := &node{name: name, dir: dir, created: now, accessed: now, modified: now}
	if dir {
		n.entries = new(btree.Map[string, *node])
	}
	return n
}

// MemFS is an in-memory filesystem rooted at "/".
type MemFS struct {
	mu     sync.RWMutex
	root   *node
	closed bool
}

// New creates an empty in-memory filesystem.
func New() *MemFS {
	return &MemFS{root: newNode("", true)}
}

func errPath(op, path string, err error) error {
	return &fskit.PathError{Op: op, Path: path, Err: err}
}

// resolve walks the tree to the node at path. Must be called with the
// lock held.
func (m *MemFS) resolve(path string) *node {
	current := m.root
	for _, part := range fskit.Parts(path) {
		if !current.dir {
			return nil
		}
		child, ok := current.entries.Get(part)
		if !ok {
			return nil
		}
		current = child
	}
	return current
}

// resolveParent returns the directory containing path and the final
// path component. Must be called with the lock held.
func (m *MemFS) resolveParent(op, path string) (*node, string, error) {
	dir, name := fskit.Split(path)
	parent := m.resolve(dir)
	if parent == nil {
		return nil, "", errPath(op, dir, fskit.ErrNotExist)
	}
	if !parent.dir {
		return nil, "", errPath(op, dir, fskit.ErrNotDir)
	}
	return parent, name, nil
}

// prepare normalizes an incoming path and rejects operations on a
// closed filesystem. Must be called with the lock held.
func (m *MemFS) prepare(path string) (string, error) {
	if m.closed {
		return "", fskit.ErrClosed
	}
	p, err := fskit.Normalize(path)
	if err != nil {
		return "", err
	}
	return fskit.Abs(p), nil
}

func (m *MemFS) infoFor(n *node, namespaces []string) *fskit.Info {
	raw := fskit.RawInfo{
		fskit.NamespaceBasic: {"name": n.name, "is_dir": n.dir},
	}
	for _, namespace := range namespaces {
		if namespace != fskit.NamespaceDetails {
			continue
		}
		resourceType := fskit.TypeFile
		if n.dir {
			resourceType = fskit.TypeDirectory
		}
		raw[fskit.NamespaceDetails] = map[string]any{
			"size":     int64(len(n.data)),
			"type":     int64(resourceType),
			"created":  n.created.Unix(),
			"accessed": n.accessed.Unix(),
			"modified": n.modified.Unix(),
		}
	}
	return fskit.NewInfo(raw)
}

func (m *MemFS) GetInfo(ctx context.Context, path string, namespaces ...string) (*fskit.Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.prepare(path)
	if err != nil {
		return nil, err
	}
	n := m.resolve(p)
	if n == nil {
		return nil, errPath("getinfo", p, fskit.ErrNotExist)
	}
	return m.infoFor(n, namespaces), nil
}

// ListDir returns a directory's child names in sorted order.
func (m *MemFS) ListDir(ctx context.Context, path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.prepare(path)
	if err != nil {
		return nil, err
	}
	n := m.resolve(p)
	if n == nil {
		return nil, errPath("listdir", p, fskit.ErrNotExist)
	}
	if !n.dir {
		return nil, errPath("listdir", p, fskit.ErrNotDir)
	}
	return n.entries.Keys(), nil
}

// ScanDir enumerates a directory with a single tree traversal.
func (m *MemFS) ScanDir(ctx context.Context, path string, namespaces ...string) ([]*fskit.Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.prepare(path)
	if err != nil {
		return nil, err
	}
	n := m.resolve(p)
	if n == nil {
		return nil, errPath("scandir", p, fskit.ErrNotExist)
	}
	if !n.dir {
		return nil, errPath("scandir", p, fskit.ErrNotDir)
	}
	infos := make([]*fskit.Info, 0, n.entries.Len())
	n.entries.Scan(func(_ string, child *node) bool {
		infos = append(infos, m.infoFor(child, namespaces))
		return true
	})
	return infos, nil
}

func (m *MemFS) MakeDir(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.prepare(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return errPath("makedir", p, fskit.ErrExist)
	}
	parent, name, err := m.resolveParent("makedir", p)
	if err != nil {
		return err
	}
	if _, exists := parent.entries.Get(name); exists {
		return errPath("makedir", p, fskit.ErrExist)
	}
	parent.entries.Set(name, newNode(name, true))
	parent.modified = time.Now()
	return nil
}

func (m *MemFS) OpenBin(ctx context.Context, path string, flag int) (fskit.File, error) {
	if err := fskit.ValidateFlag(flag); err != nil {
		return nil, errPath("openbin", path, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.prepare(path)
	if err != nil {
		return nil, err
	}
	parent, name, err := m.resolveParent("openbin", p)
	if err != nil {
		return nil, err
	}
	n, exists := parent.entries.Get(name)
	switch {
	case exists && n.dir:
		return nil, errPath("openbin", p, fskit.ErrIsDir)
	case exists && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
		return nil, errPath("openbin", p, fskit.ErrExist)
	case !exists && flag&os.O_CREATE == 0:
		return nil, errPath("openbin", p, fskit.ErrNotExist)
	case !exists:
		n = newNode(name, false)
		parent.entries.Set(name, n)
	}
	if flag&os.O_TRUNC != 0 {
		n.data = nil
		n.modified = time.Now()
	}
	f := &memFile{
		fs:       m,
		node:     n,
		path:     p,
		readable: flag&os.O_WRONLY == 0,
		writable: fskit.IsWritableFlag(flag),
		appends:  flag&os.O_APPEND != 0,
	}
	return f, nil
}

func (m *MemFS) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.prepare(path)
	if err != nil {
		return err
	}
	parent, name, err := m.resolveParent("remove", p)
	if err != nil {
		return err
	}
	n, exists := parent.entries.Get(name)
	if !exists {
		return errPath("remove", p, fskit.ErrNotExist)
	}
	if n.dir {
		return errPath("remove", p, fskit.ErrIsDir)
	}
	parent.entries.Delete(name)
	parent.modified = time.Now()
	return nil
}

func (m *MemFS) RemoveDir(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.prepare(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return errPath("removedir", p, fskit.ErrRemoveRoot)
	}
	parent, name, err := m.resolveParent("removedir", p)
	if err != nil {
		return err
	}
	n, exists := parent.entries.Get(name)
	if !exists {
		return errPath("removedir", p, fskit.ErrNotExist)
	}
	if !n.dir {
		return errPath("removedir", p, fskit.ErrNotDir)
	}
	if n.entries.Len() > 0 {
		return errPath("removedir", p, fskit.ErrNotEmpty)
	}
	parent.entries.Delete(name)
	parent.modified = time.Now()
	return nil
}

// SetInfo applies the mutable "details" timestamps; everything else is
// ignored.
func (m *MemFS) SetInfo(ctx context.Context, path string, raw fskit.RawInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.prepare(path)
	if err != nil {
		return err
	}
	n := m.resolve(p)
	if n == nil {
		return errPath("setinfo", p, fskit.ErrNotExist)
	}
	if details, ok := raw[fskit.NamespaceDetails]; ok {
		if v, ok := details["accessed"]; ok {
			n.accessed = epochTime(v)
		}
		if v, ok := details["modified"]; ok {
			n.modified = epochTime(v)
		}
	}
	return nil
}

func epochTime(v any) time.Time {
	switch n := v.(type) {
	case int64:
		return time.Unix(n, 0)
	case int:
		return time.Unix(int64(n), 0)
	case float64:
		return time.Unix(int64(n), 0)
	case time.Time:
		return n
	default:
		return time.Time{}
	}
}

// Copy duplicates a file's content without opening handles.
func (m *MemFS) Copy(ctx context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	srcPath, err := m.prepare(src)
	if err != nil {
		return err
	}
	dstPath, err := m.prepare(dst)
	if err != nil {
		return err
	}
	srcNode := m.resolve(srcPath)
	if srcNode == nil {
		return errPath("copy", srcPath, fskit.ErrNotExist)
	}
	if srcNode.dir {
		return errPath("copy", srcPath, fskit.ErrIsDir)
	}
	parent, name, err := m.resolveParent("copy", dstPath)
	if err != nil {
		return err
	}
	if existing, ok := parent.entries.Get(name); ok && existing.dir {
		return errPath("copy", dstPath, fskit.ErrIsDir)
	}
	dstNode := newNode(name, false)
	dstNode.data = append([]byte(nil), srcNode.data...)
	parent.entries.Set(name, dstNode)
	parent.modified = time.Now()
	return nil
}

// Move renames a file by relinking its node.
func (m *MemFS) Move(ctx context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	srcPath, err := m.prepare(src)
	if err != nil {
		return err
	}
	dstPath, err := m.prepare(dst)
	if err != nil {
		return err
	}
	srcParent, srcName, err := m.resolveParent("move", srcPath)
	if err != nil {
		return err
	}
	srcNode, exists := srcParent.entries.Get(srcName)
	if !exists {
		return errPath("move", srcPath, fskit.ErrNotExist)
	}
	if srcNode.dir {
		return errPath("move", srcPath, fskit.ErrIsDir)
	}
	dstParent, dstName, err := m.resolveParent("move", dstPath)
	if err != nil {
		return err
	}
	if existing, ok := dstParent.entries.Get(dstName); ok && existing.dir {
		return errPath("move", dstPath, fskit.ErrIsDir)
	}
	srcParent.entries.Delete(srcName)
	srcNode.name = dstName
	dstParent.entries.Set(dstName, srcNode)
	now := time.Now()
	srcParent.modified = now
	dstParent.modified = now
	return nil
}

// ThreadSafe reports that all operations are safe for concurrent use.
func (m *MemFS) ThreadSafe() bool {
	return true
}

// Close discards the whole tree. Close is idempotent.
func (m *MemFS) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.root = newNode("", true)
	return nil
}

var (
	_ fskit.FS         = (*MemFS)(nil)
	_ fskit.CanScanDir = (*MemFS)(nil)
	_ fskit.CanCopy    = (*MemFS)(nil)
	_ fskit.CanMove    = (*MemFS)(nil)
	_ fskit.ThreadSafe = (*MemFS)(nil)
)
