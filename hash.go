package fskit

import (
	"context"
	"crypto/md5"  //nolint:gosec // MD5 used for integrity checks, not security
	"crypto/sha1" //nolint:gosec // SHA1 used for integrity checks, not security
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// HashAlgorithm names a supported hashing algorithm.
type HashAlgorithm string

const (
	// HashMD5 is the MD5 hash algorithm (fast, not cryptographically secure).
	HashMD5 HashAlgorithm = "md5"
	// HashSHA1 is the SHA-1 hash algorithm (legacy).
	HashSHA1 HashAlgorithm = "sha1"
	// HashSHA256 is the SHA-256 hash algorithm (recommended).
	HashSHA256 HashAlgorithm = "sha256"
	// HashCRC32 is the CRC32 checksum (integrity only).
	HashCRC32 HashAlgorithm = "crc32"
	// HashXXHash is the 64-bit xxHash algorithm (extremely fast).
	HashXXHash HashAlgorithm = "xxhash"
	// HashBlake3 is the BLAKE3 hash algorithm (fast and secure).
	HashBlake3 HashAlgorithm = "blake3"
)

// NewHasher creates a hash.Hash for the given algorithm.
func NewHasher(algorithm HashAlgorithm) (hash.Hash, error) {
	switch algorithm {
	case HashMD5:
		return md5.New(), nil //nolint:gosec // integrity check, not security
	case HashSHA1:
		return sha1.New(), nil //nolint:gosec // integrity check, not security
	case HashSHA256:
		return sha256.New(), nil
	case HashCRC32:
		return crc32.NewIEEE(), nil
	case HashXXHash:
		return xxhash.New(), nil
	case HashBlake3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown hash algorithm %q", ErrNotSupported, algorithm)
	}
}

// Hash streams a file through the given algorithm and returns the
// hex-encoded digest.
func Hash(ctx context.Context, fsys FS, path string, algorithm HashAlgorithm) (string, error) {
	h, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}
	f, err := fsys.OpenBin(ctx, path, os.O_RDONLY)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := copyStream(ctx, h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Hashes streams a file once through several algorithms, returning a
// map of algorithm to hex-encoded digest.
func Hashes(ctx context.Context, fsys FS, path string, algorithms ...HashAlgorithm) (map[HashAlgorithm]string, error) {
	if len(algorithms) == 0 {
		return nil, fmt.Errorf("%w: no hash algorithms specified", ErrNotSupported)
	}
	hashers := make(map[HashAlgorithm]hash.Hash, len(algorithms))
	writers := make([]io.Writer, 0, len(algorithms))
	for _, algorithm := range algorithms {
		h, err := NewHasher(algorithm)
		if err != nil {
			return nil, err
		}
		hashers[algorithm] = h
		writers = append(writers, h)
	}
	f, err := fsys.OpenBin(ctx, path, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := copyStream(ctx, io.MultiWriter(writers...), f); err != nil {
		return nil, err
	}
	digests := make(map[HashAlgorithm]string, len(hashers))
	for algorithm, h := range hashers {
		digests[algorithm] = hex.EncodeToString(h.Sum(nil))
	}
	return digests, nil
}
