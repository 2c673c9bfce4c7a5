package fskit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobeaver/fskit"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{".", ""},
		{"/", "/"},
		{"/a/b", "/a/b"},
		{"a/b", "a/b"},
		{"/a/b/", "/a/b"},
		{"//a//b", "/a/b"},
		{"/a/./b", "/a/b"},
		{"/a/b/../c", "/a/c"},
		{"/a/b/c/../../d", "/a/d"},
		{"a/../b", "b"},
		{"/foo/../bar", "/bar"},
	}
	for _, tc := range cases {
		got, err := fskit.Normalize(tc.in)
		require.NoError(t, err, "normalize %q", tc.in)
		assert.Equal(t, tc.want, got, "normalize %q", tc.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, p := range []string{"", "/", "/a/b", "a/b/c"} {
		once, err := fskit.Normalize(p)
		require.NoError(t, err)
		twice, err := fskit.Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeErrors(t *testing.T) {
	t.Run("escape root", func(t *testing.T) {
		for _, p := range []string{"..", "/..", "/a/../..", "../a", "/a/b/../../../c"} {
			_, err := fskit.Normalize(p)
			assert.ErrorIs(t, err, fskit.ErrIllegalBackReference, "path %q", p)
		}
	})
	t.Run("nul byte", func(t *testing.T) {
		_, err := fskit.Normalize("/a\x00b")
		assert.ErrorIs(t, err, fskit.ErrInvalidPath)
	})
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a/b/c", fskit.Join("a", "b", "c"))
	assert.Equal(t, "/a/b", fskit.Join("/a", "b"))
	assert.Equal(t, "/b/c", fskit.Join("a", "/b", "c"))
	assert.Equal(t, "a/c", fskit.Join("a", "b", "..", "c"))
	assert.Equal(t, "a/b", fskit.Join("a", "", "b"))
	assert.Equal(t, "", fskit.Join())
}

func TestSplit(t *testing.T) {
	cases := []struct {
		in         string
		head, tail string
	}{
		{"/a/b/c", "/a/b", "c"},
		{"/a", "/", "a"},
		{"a", "", "a"},
		{"a/b", "a", "b"},
	}
	for _, tc := range cases {
		head, tail := fskit.Split(tc.in)
		assert.Equal(t, tc.head, head, "split %q", tc.in)
		assert.Equal(t, tc.tail, tail, "split %q", tc.in)
	}
}

func TestSplitExt(t *testing.T) {
	name, ext := fskit.SplitExt("/docs/report.txt")
	assert.Equal(t, "/docs/report", name)
	assert.Equal(t, ".txt", ext)

	name, ext = fskit.SplitExt("/docs/.hidden")
	assert.Equal(t, "/docs/.hidden", name)
	assert.Equal(t, "", ext)

	name, ext = fskit.SplitExt("/docs/archive.tar.gz")
	assert.Equal(t, "/docs/archive.tar", name)
	assert.Equal(t, ".gz", ext)
}

func TestDirBase(t *testing.T) {
	assert.Equal(t, "/a/b", fskit.Dir("/a/b/c"))
	assert.Equal(t, "c", fskit.Base("/a/b/c"))
	assert.Equal(t, "/", fskit.Dir("/a"))
}

func TestAbsRel(t *testing.T) {
	assert.Equal(t, "/a/b", fskit.Abs("a/b"))
	assert.Equal(t, "/a/b", fskit.Abs("/a/b"))
	assert.Equal(t, "a/b", fskit.Rel("/a/b"))
	assert.Equal(t, "a/b", fskit.Rel("a/b"))
	assert.True(t, fskit.IsAbs("/a"))
	assert.False(t, fskit.IsAbs("a"))
}

func TestParts(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, fskit.Parts("/a/b/c"))
	assert.Empty(t, fskit.Parts("/"))
	assert.Equal(t, []string{"a"}, fskit.Parts("a"))
}

func TestRecurse(t *testing.T) {
	assert.Equal(t, []string{"/", "/a", "/a/b", "/a/b/c"}, fskit.Recurse("/a/b/c"))
	assert.Equal(t, []string{"/"}, fskit.Recurse("/"))
}

func TestIsBase(t *testing.T) {
	assert.True(t, fskit.IsBase("/a", "/a/b"))
	assert.True(t, fskit.IsBase("/a", "/a"))
	assert.False(t, fskit.IsBase("/a", "/ab"))
	assert.False(t, fskit.IsBase("/a/b", "/a"))
}

func TestFromBase(t *testing.T) {
	assert.Equal(t, "/b/c", fskit.FromBase("/a", "/a/b/c"))
	assert.Equal(t, "/", fskit.FromBase("/a", "/a"))
	assert.Equal(t, "/b", fskit.FromBase("/", "/b"))
}

func TestForceDir(t *testing.T) {
	assert.Equal(t, "/a/", fskit.ForceDir("/a"))
	assert.Equal(t, "/a/", fskit.ForceDir("/a/"))
}
