package fskit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobeaver/fskit"
)

func TestInfoBasic(t *testing.T) {
	info := fskit.NewInfo(fskit.RawInfo{
		fskit.NamespaceBasic: {"name": "report.txt", "is_dir": false},
	})
	assert.Equal(t, "report.txt", info.Name())
	assert.False(t, info.IsDir())
	assert.True(t, info.IsFile())
	assert.Equal(t, "/docs/report.txt", info.MakePath("/docs"))
}

func TestInfoNamespaceGating(t *testing.T) {
	info := fskit.NewInfo(fskit.RawInfo{
		fskit.NamespaceBasic: {"name": "report.txt", "is_dir": false},
	})

	_, err := info.Size()
	assert.ErrorIs(t, err, fskit.ErrMissingNamespace)
	_, err = info.Modified()
	assert.ErrorIs(t, err, fskit.ErrMissingNamespace)
	_, err = info.Permissions()
	assert.ErrorIs(t, err, fskit.ErrMissingNamespace)
	_, err = info.IsLink()
	assert.ErrorIs(t, err, fskit.ErrMissingNamespace)

	// Missing namespace is not the same condition as a missing resource.
	assert.False(t, fskit.IsNotExist(err))
}

func TestInfoDetails(t *testing.T) {
	now := time.Now().Unix()
	info := fskit.NewInfo(fskit.RawInfo{
		fskit.NamespaceBasic: {"name": "report.txt", "is_dir": false},
		fskit.NamespaceDetails: {
			"size":     int64(42),
			"type":     int64(fskit.TypeFile),
			"modified": now,
		},
	})

	size, err := info.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(42), size)

	resourceType, err := info.Type()
	require.NoError(t, err)
	assert.Equal(t, fskit.TypeFile, resourceType)

	modified, err := info.Modified()
	require.NoError(t, err)
	assert.Equal(t, now, modified.Unix())

	// A field absent from a present namespace reads as the zero value.
	created, err := info.Created()
	require.NoError(t, err)
	assert.True(t, created.IsZero())
}

func TestInfoAccess(t *testing.T) {
	info := fskit.NewInfo(fskit.RawInfo{
		fskit.NamespaceBasic:  {"name": "x", "is_dir": false},
		fskit.NamespaceAccess: {"permissions": int64(0o644), "uid": int64(1000), "user": "alice"},
	})
	perm, err := info.Permissions()
	require.NoError(t, err)
	assert.Equal(t, "-rw-r--r--", perm.String())
	uid, err := info.UID()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), uid)
	user, err := info.User()
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func TestInfoLink(t *testing.T) {
	link := fskit.NewInfo(fskit.RawInfo{
		fskit.NamespaceBasic: {"name": "l", "is_dir": false},
		fskit.NamespaceLink:  {"target": "/target"},
	})
	isLink, err := link.IsLink()
	require.NoError(t, err)
	assert.True(t, isLink)
	target, err := link.Target()
	require.NoError(t, err)
	assert.Equal(t, "/target", target)

	plain := fskit.NewInfo(fskit.RawInfo{
		fskit.NamespaceBasic: {"name": "f", "is_dir": false},
		fskit.NamespaceLink:  {"target": nil},
	})
	isLink, err = plain.IsLink()
	require.NoError(t, err)
	assert.False(t, isLink)
}

func TestInfoCopy(t *testing.T) {
	info := fskit.NewInfo(fskit.RawInfo{
		fskit.NamespaceBasic: {"name": "x", "is_dir": false},
	})
	dup := info.Copy()
	dup.Raw[fskit.NamespaceBasic]["name"] = "y"
	assert.Equal(t, "x", info.Name())
	assert.Equal(t, "y", dup.Name())
}

func TestResourceTypeString(t *testing.T) {
	assert.Equal(t, "directory", fskit.TypeDirectory.String())
	assert.Equal(t, "file", fskit.TypeFile.String())
	assert.Equal(t, "symlink", fskit.TypeSymlink.String())
	assert.Equal(t, "unknown", fskit.TypeUnknown.String())
}
