package fskit

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Bulk orchestrators replicate resources between filesystem instances.
// They are built on the Walker and the required operation set, so any
// pair of backends can participate. A multi-file operation is not
// atomic: a failure partway through leaves a partially copied tree and
// no rollback is attempted.

type bulkConfig struct {
	walker       *Walker
	workers      int
	logger       zerolog.Logger
	ignoreErrors bool
	preserveTime bool

	// mirror behavior
	copyAll   bool
	keepExtra bool
}

func newBulkConfig(opts []BulkOption) *bulkConfig {
	cfg := &bulkConfig{
		walker: NewWalker(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// BulkOption configures a bulk copy, move or mirror operation.
type BulkOption func(*bulkConfig)

// WithWalker scopes which resources participate, e.g. a walker with
// name filters or excluded sub-trees.
func WithWalker(w *Walker) BulkOption {
	return func(c *bulkConfig) { c.walker = w }
}

// WithWorkers parallelizes independent per-file copies with a bounded
// worker pool. Parallelism is disabled automatically unless both
// endpoint filesystems assert the ThreadSafe capability.
func WithWorkers(n int) BulkOption {
	return func(c *bulkConfig) { c.workers = n }
}

// WithLogger attaches a logger for per-file debug events. The default
// discards everything.
func WithLogger(logger zerolog.Logger) BulkOption {
	return func(c *bulkConfig) { c.logger = logger }
}

// WithContinueOnError skips resources that fail to copy and carries
// on; the collected failures are joined into the returned error.
// Failures that prevent the walk itself from proceeding still abort.
func WithContinueOnError() BulkOption {
	return func(c *bulkConfig) { c.ignoreErrors = true }
}

// WithPreserveTime copies each file's modification time to the
// destination after the content.
func WithPreserveTime() BulkOption {
	return func(c *bulkConfig) { c.preserveTime = true }
}

// parallelism returns the worker count usable for a pair of endpoints.
func (c *bulkConfig) parallelism(srcFS, dstFS FS) int {
	if c.workers <= 1 {
		return 1
	}
	if !isThreadSafe(srcFS) || !isThreadSafe(dstFS) {
		return 1
	}
	return c.workers
}

func isThreadSafe(fsys FS) bool {
	ts, ok := fsys.(ThreadSafe)
	return ok && ts.ThreadSafe()
}

// CopyFile copies a single file between filesystems. A same-instance
// copy uses the backend's native fast path when it has one; otherwise
// the content is streamed in chunks. An existing destination file is
// overwritten.
func CopyFile(ctx context.Context, srcFS FS, srcPath string, dstFS FS, dstPath string) error {
	if srcFS == dstFS {
		return Copy(ctx, srcFS, srcPath, dstPath, true)
	}
	isFile, err := IsFile(ctx, srcFS, srcPath)
	if err != nil {
		return err
	}
	if !isFile {
		return errPath("copyfile", srcPath, ErrIsDir)
	}
	return streamFile(ctx, srcFS, srcPath, dstFS, dstPath)
}

// CopyDir copies a directory tree between filesystems, replicating
// the directory structure before copying files. Existing destination
// content is overwritten.
func CopyDir(ctx context.Context, srcFS FS, srcPath string, dstFS FS, dstPath string, opts ...BulkOption) error {
	cfg := newBulkConfig(opts)
	src, err := normalizeAbs(srcPath)
	if err != nil {
		return err
	}
	dst, err := normalizeAbs(dstPath)
	if err != nil {
		return err
	}
	if err := MakeDirs(ctx, dstFS, dst, true); err != nil {
		return err
	}

	var errs []error
	steps := cfg.walker.Walk(ctx, srcFS, src)
	for steps.Next() {
		step := steps.Step()
		copyPath := Join(dst, Rel(FromBase(src, step.Path)))
		for _, info := range step.Dirs {
			if err := MakeDirs(ctx, dstFS, info.MakePath(copyPath), true); err != nil {
				return err
			}
		}
		if err := copyFileBatch(ctx, cfg, srcFS, step.Path, dstFS, copyPath, step.Files, &errs); err != nil {
			return err
		}
	}
	if err := steps.Err(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// CopyFS copies the contents of one filesystem to another.
func CopyFS(ctx context.Context, srcFS, dstFS FS, opts ...BulkOption) error {
	return CopyDir(ctx, srcFS, "/", dstFS, "/", opts...)
}

// CopyStructure replicates directories (but not files) between
// filesystems.
func CopyStructure(ctx context.Context, srcFS, dstFS FS, opts ...BulkOption) error {
	cfg := newBulkConfig(opts)
	dirs := cfg.walker.Dirs(ctx, srcFS, "/")
	for dirs.Next() {
		if err := MakeDirs(ctx, dstFS, dirs.Path(), true); err != nil {
			return err
		}
	}
	return dirs.Err()
}

// copyFileBatch copies the files of one walked directory, optionally
// with a bounded worker pool.
func copyFileBatch(ctx context.Context, cfg *bulkConfig, srcFS FS, srcDir string, dstFS FS, dstDir string, files []*Info, errs *[]error) error {
	workers := cfg.parallelism(srcFS, dstFS)
	if workers <= 1 {
		for _, info := range files {
			if err := copyOne(ctx, cfg, srcFS, info.MakePath(srcDir), dstFS, info.MakePath(dstDir)); err != nil {
				if !cfg.ignoreErrors {
					return err
				}
				*errs = append(*errs, err)
			}
		}
		return nil
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	collected := make(chan error, len(files))
	for _, info := range files {
		group.Go(func() error {
			err := copyOne(gctx, cfg, srcFS, info.MakePath(srcDir), dstFS, info.MakePath(dstDir))
			if err != nil && cfg.ignoreErrors {
				collected <- err
				return nil
			}
			return err
		})
	}
	err := group.Wait()
	close(collected)
	for cerr := range collected {
		*errs = append(*errs, cerr)
	}
	return err
}

func copyOne(ctx context.Context, cfg *bulkConfig, srcFS FS, srcPath string, dstFS FS, dstPath string) error {
	cfg.logger.Debug().Str("src", srcPath).Str("dst", dstPath).Msg("copy file")
	if err := CopyFile(ctx, srcFS, srcPath, dstFS, dstPath); err != nil {
		return err
	}
	if cfg.preserveTime {
		if err := copyModified(ctx, srcFS, srcPath, dstFS, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// copyModified propagates the source modification time; backends that
// cannot store it ignore the update per the SetInfo contract.
func copyModified(ctx context.Context, srcFS FS, srcPath string, dstFS FS, dstPath string) error {
	info, err := srcFS.GetInfo(ctx, srcPath, NamespaceDetails)
	if err != nil {
		return err
	}
	if !info.HasNamespace(NamespaceDetails) {
		return nil
	}
	modified, err := info.Modified()
	if err != nil || modified.IsZero() {
		return err
	}
	return dstFS.SetInfo(ctx, dstPath, RawInfo{
		NamespaceDetails: {"modified": modified.Unix()},
	})
}
