package osfs

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempFS is an OSFS over a freshly created temporary directory. The
// directory and everything in it are deleted when the filesystem is
// closed.
type TempFS struct {
	*OSFS
	dir string
}

// NewTempFS creates a filesystem over a new unique directory beneath
// the system temporary directory. The identifier names the directory
// for easier debugging; pass "" for an anonymous one.
func NewTempFS(identifier string) (*TempFS, error) {
	if identifier == "" {
		identifier = "fskit"
	}
	dir := filepath.Join(os.TempDir(), identifier+"-"+uuid.NewString())
	if err := os.Mkdir(dir, defaultDirMode); err != nil {
		return nil, translate("mkdtemp", "/", err)
	}
	fsys, err := New(dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return &TempFS{OSFS: fsys, dir: dir}, nil
}

// Close removes the temporary directory and its contents.
func (t *TempFS) Close() error {
	if err := t.OSFS.Close(); err != nil {
		return err
	}
	return os.RemoveAll(t.dir)
}
