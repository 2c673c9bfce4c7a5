package fskit_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobeaver/fskit"
	"github.com/gobeaver/fskit/memfs"
)

// countingFS counts write-mode opens, so tests can observe how many
// file copies an operation performed.
type countingFS struct {
	fskit.FS
	writes atomic.Int64
}

func (c *countingFS) OpenBin(ctx context.Context, path string, flag int) (fskit.File, error) {
	if fskit.IsWritableFlag(flag) {
		c.writes.Add(1)
	}
	return c.FS.OpenBin(ctx, path, flag)
}

func TestMirrorCreatesReplica(t *testing.T) {
	ctx := context.Background()
	src := memfs.New()
	dst := memfs.New()
	defer src.Close()
	defer dst.Close()
	buildTestTree(t, src)

	require.NoError(t, fskit.Mirror(ctx, src, dst))

	srcFiles := collectEntries(t, fskit.NewWalker().Files(ctx, src, "/"))
	dstFiles := collectEntries(t, fskit.NewWalker().Files(ctx, dst, "/"))
	assert.ElementsMatch(t, srcFiles, dstFiles)
	text, err := fskit.ReadText(ctx, dst, "/docs/api/index.md")
	require.NoError(t, err)
	assert.Equal(t, "# api", text)
}

func TestMirrorIsMinimal(t *testing.T) {
	ctx := context.Background()
	src := memfs.New()
	dst := memfs.New()
	defer src.Close()
	defer dst.Close()
	buildTestTree(t, src)

	counter := &countingFS{FS: dst}
	require.NoError(t, fskit.Mirror(ctx, src, counter))
	assert.Equal(t, int64(5), counter.writes.Load())

	// A second mirror of an unchanged tree copies nothing.
	counter.writes.Store(0)
	require.NoError(t, fskit.Mirror(ctx, src, counter))
	assert.Equal(t, int64(0), counter.writes.Load())

	// Changing one source file re-copies exactly that file.
	require.NoError(t, fskit.WriteText(ctx, src, "/notes.txt", "changed notes"))
	counter.writes.Store(0)
	require.NoError(t, fskit.Mirror(ctx, src, counter))
	assert.Equal(t, int64(1), counter.writes.Load())
	text, err := fskit.ReadText(ctx, dst, "/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "changed notes", text)
}

func TestMirrorDeletesExtraneous(t *testing.T) {
	ctx := context.Background()
	src := memfs.New()
	dst := memfs.New()
	defer src.Close()
	defer dst.Close()
	buildTestTree(t, src)

	require.NoError(t, fskit.WriteText(ctx, dst, "/stale.txt", "old"))
	require.NoError(t, fskit.MakeDirs(ctx, dst, "/stale-dir/deep", false))

	require.NoError(t, fskit.Mirror(ctx, src, dst))

	exists, err := fskit.Exists(ctx, dst, "/stale.txt")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = fskit.Exists(ctx, dst, "/stale-dir")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMirrorKeepExtra(t *testing.T) {
	ctx := context.Background()
	src := memfs.New()
	dst := memfs.New()
	defer src.Close()
	defer dst.Close()
	buildTestTree(t, src)
	require.NoError(t, fskit.WriteText(ctx, dst, "/keep.txt", "keep"))

	require.NoError(t, fskit.Mirror(ctx, src, dst, fskit.WithKeepExtra()))

	text, err := fskit.ReadText(ctx, dst, "/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep", text)
	exists, err := fskit.Exists(ctx, dst, "/docs/readme.md")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMirrorReplacesTypeConflicts(t *testing.T) {
	ctx := context.Background()
	src := memfs.New()
	dst := memfs.New()
	defer src.Close()
	defer dst.Close()

	// Source has a file where the destination has a directory, and a
	// directory where the destination has a file.
	require.NoError(t, fskit.WriteText(ctx, src, "/item", "file"))
	require.NoError(t, src.MakeDir(ctx, "/tree"))
	require.NoError(t, fskit.WriteText(ctx, src, "/tree/inner.txt", "inner"))

	require.NoError(t, fskit.MakeDirs(ctx, dst, "/item/nested", false))
	require.NoError(t, fskit.WriteText(ctx, dst, "/tree", "was a file"))

	require.NoError(t, fskit.Mirror(ctx, src, dst))

	text, err := fskit.ReadText(ctx, dst, "/item")
	require.NoError(t, err)
	assert.Equal(t, "file", text)
	text, err = fskit.ReadText(ctx, dst, "/tree/inner.txt")
	require.NoError(t, err)
	assert.Equal(t, "inner", text)
}

func TestMirrorCopyAll(t *testing.T) {
	ctx := context.Background()
	src := memfs.New()
	dst := memfs.New()
	defer src.Close()
	defer dst.Close()
	require.NoError(t, fskit.WriteText(ctx, src, "/a.txt", "x"))

	counter := &countingFS{FS: dst}
	require.NoError(t, fskit.Mirror(ctx, src, counter))
	counter.writes.Store(0)
	require.NoError(t, fskit.Mirror(ctx, src, counter, fskit.WithCopyAll()))
	assert.Equal(t, int64(1), counter.writes.Load())
}
