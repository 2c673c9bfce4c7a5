// Package osfs exposes a directory of the host filesystem through the
// fskit interface. Virtual paths are translated to the platform's
// native dialect and resolved strictly beneath the configured root, so
// callers cannot reach outside it.
package osfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/gobeaver/fskit"
)

const (
	defaultDirMode  = 0o755
	defaultFileMode = 0o666
)

// OSFS is a filesystem backed by a directory on the host.
type OSFS struct {
	root string

	mu     sync.RWMutex
	closed bool
}

// Option configures an OSFS.
type Option func(*config)

type config struct {
	create bool
}

// WithCreate makes New create the root directory (and any missing
// parents) instead of failing when it does not exist.
func WithCreate() Option {
	return func(c *config) { c.create = true }
}

// New creates a filesystem over the given host directory.
func New(root string, opts ...Option) (*OSFS, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if cfg.create {
		if err := os.MkdirAll(absRoot, defaultDirMode); err != nil {
			return nil, translate("makedirs", root, err)
		}
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, translate("open", root, err)
	}
	if !info.IsDir() {
		return nil, errPath("open", root, fskit.ErrNotDir)
	}
	return &OSFS{root: absRoot}, nil
}

func errPath(op, path string, err error) error {
	return &fskit.PathError{Op: op, Path: path, Err: err}
}

// translate maps host filesystem errors onto the fskit taxonomy,
// keeping the virtual path in the reported error.
func translate(op, path string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errPath(op, path, fskit.ErrNotExist)
	case errors.Is(err, fs.ErrExist):
		return errPath(op, path, fskit.ErrExist)
	case errors.Is(err, fs.ErrPermission):
		return errPath(op, path, fskit.ErrPermission)
	case errors.Is(err, syscall.ENOTDIR):
		return errPath(op, path, fskit.ErrNotDir)
	case errors.Is(err, syscall.EISDIR):
		return errPath(op, path, fskit.ErrIsDir)
	case errors.Is(err, syscall.ENOTEMPTY):
		return errPath(op, path, fskit.ErrNotEmpty)
	default:
		return errPath(op, path, err)
	}
}

// prepare normalizes a virtual path and rejects use after Close.
func (o *OSFS) prepare(path string) (string, error) {
	o.mu.RLock()
	closed := o.closed
	o.mu.RUnlock()
	if closed {
		return "", fskit.ErrClosed
	}
	p, err := fskit.Normalize(path)
	if err != nil {
		return "", err
	}
	return fskit.Abs(p), nil
}

// sysPath maps a normalized virtual path to the native dialect. The
// input never contains back-references, so the result cannot leave
// the root.
func (o *OSFS) sysPath(path string) string {
	return filepath.Join(o.root, filepath.FromSlash(fskit.Rel(path)))
}

// SysPath returns the host path a virtual path maps to.
func (o *OSFS) SysPath(path string) (string, error) {
	p, err := o.prepare(path)
	if err != nil {
		return "", err
	}
	return o.sysPath(p), nil
}

// Root returns the host directory this filesystem is rooted at.
func (o *OSFS) Root() string {
	return o.root
}

func (o *OSFS) infoFor(fi os.FileInfo, namespaces []string) *fskit.Info {
	raw := fskit.RawInfo{
		fskit.NamespaceBasic: {"name": fi.Name(), "is_dir": fi.IsDir()},
	}
	for _, namespace := range namespaces {
		switch namespace {
		case fskit.NamespaceDetails:
			raw[fskit.NamespaceDetails] = detailsFields(fi)
		case fskit.NamespaceAccess:
			if fields := accessFields(fi); fields != nil {
				raw[fskit.NamespaceAccess] = fields
			}
		case fskit.NamespaceLink:
			// Filled by GetInfo, which knows the path.
		}
	}
	return fskit.NewInfo(raw)
}

func detailsFields(fi os.FileInfo) map[string]any {
	resourceType := fskit.TypeFile
	switch {
	case fi.IsDir():
		resourceType = fskit.TypeDirectory
	case fi.Mode()&fs.ModeSymlink != 0:
		resourceType = fskit.TypeSymlink
	case fi.Mode()&fs.ModeNamedPipe != 0:
		resourceType = fskit.TypeFIFO
	case fi.Mode()&fs.ModeSocket != 0:
		resourceType = fskit.TypeSocket
	case fi.Mode()&fs.ModeCharDevice != 0:
		resourceType = fskit.TypeCharacter
	case fi.Mode()&fs.ModeDevice != 0:
		resourceType = fskit.TypeBlockSpecial
	}
	fields := map[string]any{
		"size":     fi.Size(),
		"type":     int64(resourceType),
		"modified": fi.ModTime().Unix(),
	}
	addTimeFields(fi, fields)
	return fields
}

func (o *OSFS) GetInfo(ctx context.Context, path string, namespaces ...string) (*fskit.Info, error) {
	p, err := o.prepare(path)
	if err != nil {
		return nil, err
	}
	sys := o.sysPath(p)
	fi, err := os.Lstat(sys)
	if err != nil {
		return nil, translate("getinfo", p, err)
	}
	info := o.infoFor(fi, namespaces)
	for _, namespace := range namespaces {
		if namespace != fskit.NamespaceLink {
			continue
		}
		fields := map[string]any{"target": nil}
		if fi.Mode()&fs.ModeSymlink != 0 {
			if target, err := os.Readlink(sys); err == nil {
				fields["target"] = target
			}
		}
		info.Raw[fskit.NamespaceLink] = fields
	}
	return info, nil
}

func (o *OSFS) ListDir(ctx context.Context, path string) ([]string, error) {
	p, err := o.prepare(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(o.sysPath(p))
	if err != nil {
		return nil, translate("listdir", p, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// ScanDir enumerates a directory with one ReadDir call instead of a
// stat per entry.
func (o *OSFS) ScanDir(ctx context.Context, path string, namespaces ...string) ([]*fskit.Info, error) {
	p, err := o.prepare(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(o.sysPath(p))
	if err != nil {
		return nil, translate("scandir", p, err)
	}
	infos := make([]*fskit.Info, 0, len(entries))
	for _, entry := range entries {
		fi, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, translate("scandir", p, err)
		}
		infos = append(infos, o.infoFor(fi, namespaces))
	}
	return infos, nil
}

func (o *OSFS) MakeDir(ctx context.Context, path string) error {
	p, err := o.prepare(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return errPath("makedir", p, fskit.ErrExist)
	}
	return translate("makedir", p, os.Mkdir(o.sysPath(p), defaultDirMode))
}

func (o *OSFS) OpenBin(ctx context.Context, path string, flag int) (fskit.File, error) {
	if err := fskit.ValidateFlag(flag); err != nil {
		return nil, errPath("openbin", path, err)
	}
	p, err := o.prepare(path)
	if err != nil {
		return nil, err
	}
	sys := o.sysPath(p)
	if fi, err := os.Stat(sys); err == nil && fi.IsDir() {
		return nil, errPath("openbin", p, fskit.ErrIsDir)
	}
	f, err := os.OpenFile(sys, flag, defaultFileMode) //nolint:gosec // path is sandboxed beneath the root
	if err != nil {
		return nil, translate("openbin", p, err)
	}
	return f, nil
}

func (o *OSFS) Remove(ctx context.Context, path string) error {
	p, err := o.prepare(path)
	if err != nil {
		return err
	}
	sys := o.sysPath(p)
	fi, err := os.Lstat(sys)
	if err != nil {
		return translate("remove", p, err)
	}
	if fi.IsDir() {
		return errPath("remove", p, fskit.ErrIsDir)
	}
	return translate("remove", p, os.Remove(sys))
}

func (o *OSFS) RemoveDir(ctx context.Context, path string) error {
	p, err := o.prepare(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return errPath("removedir", p, fskit.ErrRemoveRoot)
	}
	sys := o.sysPath(p)
	fi, err := os.Lstat(sys)
	if err != nil {
		return translate("removedir", p, err)
	}
	if !fi.IsDir() {
		return errPath("removedir", p, fskit.ErrNotDir)
	}
	return translate("removedir", p, os.Remove(sys))
}

// SetInfo applies the "details" timestamps with Chtimes and the
// "access" permission bits with Chmod. Other fields are ignored.
func (o *OSFS) SetInfo(ctx context.Context, path string, raw fskit.RawInfo) error {
	p, err := o.prepare(path)
	if err != nil {
		return err
	}
	sys := o.sysPath(p)
	if _, err := os.Lstat(sys); err != nil {
		return translate("setinfo", p, err)
	}
	info := fskit.NewInfo(raw)
	if info.HasNamespace(fskit.NamespaceDetails) {
		accessed, _ := info.Accessed()
		modified, _ := info.Modified()
		if !accessed.IsZero() || !modified.IsZero() {
			if accessed.IsZero() {
				accessed = modified
			}
			if modified.IsZero() {
				modified = accessed
			}
			if err := os.Chtimes(sys, accessed, modified); err != nil {
				return translate("setinfo", p, err)
			}
		}
	}
	if info.HasNamespace(fskit.NamespaceAccess) {
		if info.Get(fskit.NamespaceAccess, "permissions") != nil {
			mode, err := info.Permissions()
			if err == nil {
				if err := os.Chmod(sys, mode); err != nil {
					return translate("setinfo", p, err)
				}
			}
		}
	}
	return nil
}

// Move renames a file with the host's atomic rename.
func (o *OSFS) Move(ctx context.Context, src, dst string) error {
	srcPath, err := o.prepare(src)
	if err != nil {
		return err
	}
	dstPath, err := o.prepare(dst)
	if err != nil {
		return err
	}
	return translate("move", srcPath, os.Rename(o.sysPath(srcPath), o.sysPath(dstPath)))
}

// ThreadSafe reports that operations delegate to the host filesystem
// and are safe for concurrent use.
func (o *OSFS) ThreadSafe() bool {
	return true
}

// Close marks the filesystem closed. The host directory is untouched.
func (o *OSFS) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

var (
	_ fskit.FS         = (*OSFS)(nil)
	_ fskit.CanScanDir = (*OSFS)(nil)
	_ fskit.CanMove    = (*OSFS)(nil)
	_ fskit.CanSysPath = (*OSFS)(nil)
	_ fskit.ThreadSafe = (*OSFS)(nil)
)
