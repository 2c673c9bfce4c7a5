package fskit

import "context"

// MoveFile moves a single file between filesystems. A same-instance
// move uses the backend's native rename when it has one; the cross
// filesystem fallback copies then removes the source.
func MoveFile(ctx context.Context, srcFS FS, srcPath string, dstFS FS, dstPath string) error {
	if srcFS == dstFS {
		return Move(ctx, srcFS, srcPath, dstPath, true)
	}
	if err := CopyFile(ctx, srcFS, srcPath, dstFS, dstPath); err != nil {
		return err
	}
	return srcFS.Remove(ctx, srcPath)
}

// MoveDir moves a directory tree between filesystems by copying it and
// then removing the source tree. Not atomic: a failure partway leaves
// both trees partially populated.
func MoveDir(ctx context.Context, srcFS FS, srcPath string, dstFS FS, dstPath string, opts ...BulkOption) error {
	if err := CopyDir(ctx, srcFS, srcPath, dstFS, dstPath, opts...); err != nil {
		return err
	}
	return RemoveTree(ctx, srcFS, srcPath)
}

// MoveFS moves the contents of one filesystem to another, leaving the
// source empty.
func MoveFS(ctx context.Context, srcFS, dstFS FS, opts ...BulkOption) error {
	return MoveDir(ctx, srcFS, "/", dstFS, "/", opts...)
}
