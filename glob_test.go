package fskit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobeaver/fskit"
	"github.com/gobeaver/fskit/memfs"
)

func TestGlobMatch(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.py", "/file.py", true},
		{"*.py", "/dir/file.py", false},
		{"**/*.py", "/file.py", true},
		{"**/*.py", "/dir/file.py", true},
		{"**/*.py", "/a/b/c/file.py", true},
		{"**/*.py", "/file.go", false},
		{"a/*/c", "/a/b/c", true},
		{"a/*/c", "/a/b/d", false},
		{"a/**/c", "/a/c", true},
		{"a/**/c", "/a/x/y/c", true},
		{"data/?.csv", "/data/a.csv", true},
		{"data/?.csv", "/data/ab.csv", false},
		{"[ab].txt", "/a.txt", true},
		{"[ab].txt", "/c.txt", false},
		// Trailing slash selects directories only.
		{"*/", "/dir/", true},
		{"*/", "/file", false},
		{"**/build/", "/a/build/", true},
	}
	for _, tc := range cases {
		got, err := fskit.GlobMatch(tc.pattern, tc.path)
		require.NoError(t, err, "pattern %q", tc.pattern)
		assert.Equal(t, tc.want, got, "pattern %q path %q", tc.pattern, tc.path)
	}
}

func TestGlobberMatches(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)

	globber, err := fskit.NewGlobber(fsys, "**/*.md")
	require.NoError(t, err)
	var paths []string
	matches := globber.Matches(ctx)
	for matches.Next() {
		paths = append(paths, matches.Path())
	}
	require.NoError(t, matches.Err())
	assert.ElementsMatch(t, []string{"/docs/readme.md", "/docs/api/index.md"}, paths)
}

func TestGlobberNonRecursiveStaysShallow(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)
	require.NoError(t, fskit.WriteText(ctx, fsys, "/top.md", "x"))

	globber, err := fskit.NewGlobber(fsys, "*.md")
	require.NoError(t, err)
	var paths []string
	matches := globber.Matches(ctx)
	for matches.Next() {
		paths = append(paths, matches.Path())
	}
	require.NoError(t, matches.Err())
	assert.Equal(t, []string{"/top.md"}, paths)
}

func TestGlobberDirectoryPattern(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)

	globber, err := fskit.NewGlobber(fsys, "**/api/")
	require.NoError(t, err)
	var paths []string
	matches := globber.Matches(ctx)
	for matches.Next() {
		assert.True(t, matches.Info().IsDir())
		paths = append(paths, matches.Path())
	}
	require.NoError(t, matches.Err())
	assert.Equal(t, []string{"/docs/api"}, paths)
}

func TestGlobberCount(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)

	globber, err := fskit.NewGlobber(fsys, "**/*.md")
	require.NoError(t, err)
	counts, err := globber.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Files)
	assert.Equal(t, 0, counts.Directories)
	assert.Equal(t, int64(len("# readme")+len("# api")), counts.Data)
}

func TestGlobberRemove(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)

	globber, err := fskit.NewGlobber(fsys, "**/*.md")
	require.NoError(t, err)
	removed, err := globber.Remove(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	exists, err := fskit.Exists(ctx, fsys, "/docs/readme.md")
	require.NoError(t, err)
	assert.False(t, exists)
	// Non-matching resources survive.
	exists, err = fskit.Exists(ctx, fsys, "/src/main.go")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGlobberRemoveDirectories(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)

	globber, err := fskit.NewGlobber(fsys, "**/api/")
	require.NoError(t, err)
	removed, err := globber.Remove(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	exists, err := fskit.Exists(ctx, fsys, "/docs/api")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = fskit.Exists(ctx, fsys, "/docs/readme.md")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGlobberScopedPath(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	buildTestTree(t, fsys)

	globber, err := fskit.NewGlobber(fsys, "**/*.md", fskit.WithGlobPath("/docs/api"))
	require.NoError(t, err)
	var paths []string
	matches := globber.Matches(ctx)
	for matches.Next() {
		paths = append(paths, matches.Path())
	}
	require.NoError(t, matches.Err())
	assert.Equal(t, []string{"/docs/api/index.md"}, paths)
}

func TestParsePatternInvalid(t *testing.T) {
	_, err := fskit.ParsePattern("[unclosed")
	assert.ErrorIs(t, err, fskit.ErrInvalidPath)
}
