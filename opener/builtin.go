package opener

import (
	"context"

	"github.com/gobeaver/fskit"
	"github.com/gobeaver/fskit/memfs"
	"github.com/gobeaver/fskit/osfs"
)

// memOpener serves "mem://" identifiers with a fresh in-memory
// filesystem. The path component is ignored.
type memOpener struct{}

func (memOpener) Schemes() []string {
	return []string{"mem"}
}

func (memOpener) Open(ctx context.Context, u *ResourceURL, create bool) (fskit.FS, error) {
	return memfs.New(), nil
}

// osOpener serves "osfs://" and "file://" identifiers with a
// filesystem over the named host directory.
type osOpener struct{}

func (osOpener) Schemes() []string {
	return []string{"osfs", "file"}
}

func (osOpener) Open(ctx context.Context, u *ResourceURL, create bool) (fskit.FS, error) {
	root := u.Path
	if root == "" {
		root = "."
	}
	var opts []osfs.Option
	if create {
		opts = append(opts, osfs.WithCreate())
	}
	return osfs.New(root, opts...)
}

// tempOpener serves "temp://" identifiers with a filesystem over a new
// temporary directory; the path names the directory for debugging.
type tempOpener struct{}

func (tempOpener) Schemes() []string {
	return []string{"temp"}
}

func (tempOpener) Open(ctx context.Context, u *ResourceURL, create bool) (fskit.FS, error) {
	return osfs.NewTempFS(u.Path)
}
