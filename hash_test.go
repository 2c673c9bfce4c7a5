package fskit_test

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobeaver/fskit"
	"github.com/gobeaver/fskit/memfs"
)

func TestHashKnownDigests(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	require.NoError(t, fskit.WriteText(ctx, fsys, "/data.txt", "hello world"))

	md5sum, err := fskit.Hash(ctx, fsys, "/data.txt", fskit.HashMD5)
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", md5sum)

	sha256sum, err := fskit.Hash(ctx, fsys, "/data.txt", fskit.HashSHA256)
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", sha256sum)
}

func TestHashAllAlgorithms(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	content := []byte("the quick brown fox")
	require.NoError(t, fskit.WriteBytes(ctx, fsys, "/data.bin", content))

	algorithms := []fskit.HashAlgorithm{
		fskit.HashMD5, fskit.HashSHA1, fskit.HashSHA256,
		fskit.HashCRC32, fskit.HashXXHash, fskit.HashBlake3,
	}
	for _, algorithm := range algorithms {
		h, err := fskit.NewHasher(algorithm)
		require.NoError(t, err, "algorithm %s", algorithm)
		_, err = h.Write(content)
		require.NoError(t, err)
		want := hex.EncodeToString(h.Sum(nil))

		got, err := fskit.Hash(ctx, fsys, "/data.bin", algorithm)
		require.NoError(t, err, "algorithm %s", algorithm)
		assert.Equal(t, want, got, "algorithm %s", algorithm)
	}
}

func TestHashesSinglePass(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()
	require.NoError(t, fskit.WriteText(ctx, fsys, "/data.txt", "hello world"))

	digests, err := fskit.Hashes(ctx, fsys, "/data.txt", fskit.HashMD5, fskit.HashSHA256)
	require.NoError(t, err)
	require.Len(t, digests, 2)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", digests[fskit.HashMD5])
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", digests[fskit.HashSHA256])
}

func TestHashErrors(t *testing.T) {
	ctx := context.Background()
	fsys := memfs.New()
	defer fsys.Close()

	_, err := fskit.Hash(ctx, fsys, "/nope", fskit.HashSHA256)
	assert.ErrorIs(t, err, fskit.ErrNotExist)

	require.NoError(t, fskit.WriteText(ctx, fsys, "/x", "x"))
	_, err = fskit.Hash(ctx, fsys, "/x", fskit.HashAlgorithm("rot13"))
	assert.ErrorIs(t, err, fskit.ErrNotSupported)

	_, err = fskit.Hashes(ctx, fsys, "/x")
	assert.ErrorIs(t, err, fskit.ErrNotSupported)
}
