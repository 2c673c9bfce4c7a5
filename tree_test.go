package fskit_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobeaver/fskit"
	"github.com/gobeaver/fskit/memfs"
)

func TestTreeRendering(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	require.NoError(t, fsys.MakeDir(ctx, "/a"))
	require.NoError(t, fskit.WriteText(ctx, fsys, "/a/b.txt", "b"))
	require.NoError(t, fskit.WriteText(ctx, fsys, "/c.txt", "c"))

	var sb strings.Builder
	dirs, files, err := fskit.Tree(ctx, fsys, &sb, fskit.TreeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, dirs)
	assert.Equal(t, 2, files)

	want := "" +
		"├── a\n" +
		"│   └── b.txt\n" +
		"└── c.txt\n"
	assert.Equal(t, want, sb.String())
}

func TestTreeMaxLevels(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)

	var sb strings.Builder
	_, _, err := fskit.Tree(ctx, fsys, &sb, fskit.TreeOptions{MaxLevels: 1})
	require.NoError(t, err)
	assert.NotContains(t, sb.String(), "readme.md")
	assert.Contains(t, sb.String(), "docs")
}

func TestTreeSizes(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	require.NoError(t, fskit.WriteText(ctx, fsys, "/big.bin", strings.Repeat("x", 2048)))

	var sb strings.Builder
	_, files, err := fskit.Tree(ctx, fsys, &sb, fskit.TreeOptions{Sizes: true})
	require.NoError(t, err)
	assert.Equal(t, 1, files)
	assert.Contains(t, sb.String(), "big.bin (2.0 kB)")
}

func TestTreeDirsFirst(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	require.NoError(t, fskit.WriteText(ctx, fsys, "/aaa.txt", "x"))
	require.NoError(t, fsys.MakeDir(ctx, "/zzz"))

	var sb strings.Builder
	_, _, err := fskit.Tree(ctx, fsys, &sb, fskit.TreeOptions{DirsFirst: true})
	require.NoError(t, err)
	zzz := strings.Index(sb.String(), "zzz")
	aaa := strings.Index(sb.String(), "aaa.txt")
	assert.Less(t, zzz, aaa)

	sb.Reset()
	_, _, err = fskit.Tree(ctx, fsys, &sb, fskit.TreeOptions{})
	require.NoError(t, err)
	zzz = strings.Index(sb.String(), "zzz")
	aaa = strings.Index(sb.String(), "aaa.txt")
	assert.Less(t, aaa, zzz)
}

func TestTreeSubPath(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)

	var sb strings.Builder
	dirs, files, err := fskit.Tree(ctx, fsys, &sb, fskit.TreeOptions{Path: "/docs"})
	require.NoError(t, err)
	assert.Equal(t, 1, dirs)
	assert.Equal(t, 2, files)
	assert.Contains(t, sb.String(), "readme.md")
	assert.NotContains(t, sb.String(), "main.go")
}
