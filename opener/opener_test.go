package opener_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobeaver/fskit"
	"github.com/gobeaver/fskit/memfs"
	"github.com/gobeaver/fskit/opener"
	"github.com/gobeaver/fskit/osfs"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		in     string
		scheme string
		path   string
		dir    string
	}{
		{"mem://", "mem", "", ""},
		{"osfs:///var/data", "osfs", "/var/data", ""},
		{"file://relative/dir", "file", "relative/dir", ""},
		{"/plain/path", "osfs", "/plain/path", ""},
		{"relative", "osfs", "relative", ""},
		{"mem://!projects/alpha", "mem", "", "projects/alpha"},
		{"osfs:///data!sub/dir", "osfs", "/data", "sub/dir"},
	}
	for _, tc := range cases {
		u, err := opener.ParseURL(tc.in)
		require.NoError(t, err, "url %q", tc.in)
		assert.Equal(t, tc.scheme, u.Scheme, "url %q", tc.in)
		assert.Equal(t, tc.path, u.Path, "url %q", tc.in)
		assert.Equal(t, tc.dir, u.Dir, "url %q", tc.in)
	}
}

func TestParseURLParams(t *testing.T) {
	u, err := opener.ParseURL("osfs:///data?create=true&mode=fast")
	require.NoError(t, err)
	assert.Equal(t, "/data", u.Path)
	assert.Equal(t, "true", u.Params.Get("create"))
	assert.Equal(t, "fast", u.Params.Get("mode"))
}

func TestParseURLInvalid(t *testing.T) {
	_, err := opener.ParseURL("")
	assert.ErrorIs(t, err, opener.ErrInvalidURL)
	_, err = opener.ParseURL("://nope")
	assert.ErrorIs(t, err, opener.ErrInvalidURL)
}

func TestOpenMem(t *testing.T) {
	ctx := context.Background()
	fsys, err := opener.Open(ctx, "mem://")
	require.NoError(t, err)
	defer fsys.Close()

	_, ok := fsys.(*memfs.MemFS)
	assert.True(t, ok)
	require.NoError(t, fskit.WriteText(ctx, fsys, "/x.txt", "x"))
}

func TestOpenOSFS(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fsys, err := opener.Open(ctx, "osfs://"+dir)
	require.NoError(t, err)
	defer fsys.Close()

	_, ok := fsys.(*osfs.OSFS)
	assert.True(t, ok)
	require.NoError(t, fskit.WriteText(ctx, fsys, "/x.txt", "x"))
	_, err = os.Stat(dir + "/x.txt")
	require.NoError(t, err)
}

func TestOpenCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir() + "/fresh"

	_, err := opener.Open(ctx, "osfs://"+dir)
	assert.ErrorIs(t, err, fskit.ErrNotExist)

	fsys, err := opener.Open(ctx, "osfs://"+dir, opener.WithCreate())
	require.NoError(t, err)
	defer fsys.Close()

	// The create request can also ride on the identifier itself.
	other, err := opener.Open(ctx, "osfs://"+t.TempDir()+"/other?create=true")
	require.NoError(t, err)
	defer other.Close()
}

func TestOpenTemp(t *testing.T) {
	ctx := context.Background()
	fsys, err := opener.Open(ctx, "temp://scratch")
	require.NoError(t, err)

	temp, ok := fsys.(*osfs.TempFS)
	require.True(t, ok)
	root := temp.Root()
	require.NoError(t, fskit.WriteText(ctx, fsys, "/x.txt", "x"))
	require.NoError(t, fsys.Close())
	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenSubDir(t *testing.T) {
	ctx := context.Background()
	fsys, err := opener.Open(ctx, "mem://!projects/alpha", opener.WithCreate())
	require.NoError(t, err)
	defer fsys.Close()

	sub, ok := fsys.(*fskit.SubFS)
	require.True(t, ok)
	assert.Equal(t, "/projects/alpha", sub.SubDir())
	require.NoError(t, fskit.WriteText(ctx, fsys, "/file.txt", "x"))
}

func TestOpenUnknownScheme(t *testing.T) {
	ctx := context.Background()
	_, err := opener.Open(ctx, "carrier-pigeon://nest")
	assert.ErrorIs(t, err, opener.ErrUnknownScheme)
}

// stubOpener records that a custom scheme can be served.
type stubOpener struct{}

func (stubOpener) Schemes() []string { return []string{"stub"} }

func (stubOpener) Open(ctx context.Context, u *opener.ResourceURL, create bool) (fskit.FS, error) {
	return memfs.New(), nil
}

func TestCustomRegistry(t *testing.T) {
	ctx := context.Background()
	registry := opener.NewRegistry()
	registry.Install(stubOpener{})

	fsys, err := registry.Open(ctx, "stub://anything")
	require.NoError(t, err)
	defer fsys.Close()

	_, err = registry.Open(ctx, "mem://")
	assert.ErrorIs(t, err, opener.ErrUnknownScheme)

	o, ok := registry.Lookup("STUB")
	assert.True(t, ok)
	assert.Equal(t, []string{"stub"}, o.Schemes())
}
