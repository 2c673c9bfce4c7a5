package fskit

import (
	"context"
	"errors"
)

// WithCopyAll makes Mirror copy every source file regardless of the
// size and modification time comparison.
func WithCopyAll() BulkOption {
	return func(c *bulkConfig) { c.copyAll = true }
}

// WithKeepExtra makes Mirror leave destination resources that are
// absent from the source in place instead of deleting them.
func WithKeepExtra() BulkOption {
	return func(c *bulkConfig) { c.keepExtra = true }
}

// Mirror makes the destination an exact replica of the source. Files
// are copied only when they are missing from the destination, differ
// in size, or the source is newer (or modification times are not
// known); destination resources absent from the source are deleted
// unless WithKeepExtra is set. Mirroring an already synchronized pair
// copies nothing.
func Mirror(ctx context.Context, srcFS, dstFS FS, opts ...BulkOption) error {
	cfg := newBulkConfig(opts)

	walker := *cfg.walker
	walker.namespaces = ensureNamespaces(walker.namespaces, NamespaceDetails)

	var errs []error
	steps := walker.Walk(ctx, srcFS, "/")
	for steps.Next() {
		step := steps.Step()
		if err := mirrorStep(ctx, cfg, srcFS, dstFS, step, &errs); err != nil {
			return err
		}
	}
	if err := steps.Err(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// mirrorStep reconciles one walked directory.
func mirrorStep(ctx context.Context, cfg *bulkConfig, srcFS, dstFS FS, step *Step, errs *[]error) error {
	existing := make(map[string]*Info)
	dstInfos, err := ScanDir(ctx, dstFS, step.Path, NamespaceDetails)
	switch {
	case err == nil:
		for _, info := range dstInfos {
			existing[info.Name()] = info
		}
	case IsNotExist(err):
		if err := MakeDirs(ctx, dstFS, step.Path, true); err != nil {
			return err
		}
	default:
		return err
	}

	var stale []*Info
	for _, file := range step.Files {
		path := file.MakePath(step.Path)
		dstInfo, ok := existing[file.Name()]
		if ok {
			delete(existing, file.Name())
			if dstInfo.IsDir() {
				if err := RemoveTree(ctx, dstFS, path); err != nil {
					return err
				}
			} else if !cfg.copyAll && !outdated(file, dstInfo) {
				continue
			}
		}
		stale = append(stale, file)
	}
	if err := copyFileBatch(ctx, cfg, srcFS, step.Path, dstFS, step.Path, stale, errs); err != nil {
		return err
	}

	for _, dir := range step.Dirs {
		path := dir.MakePath(step.Path)
		dstInfo, ok := existing[dir.Name()]
		if ok {
			delete(existing, dir.Name())
			if !dstInfo.IsDir() {
				if err := dstFS.Remove(ctx, path); err != nil {
					return err
				}
				if err := dstFS.MakeDir(ctx, path); err != nil {
					return err
				}
			}
		} else if err := MakeDirs(ctx, dstFS, path, true); err != nil {
			return err
		}
	}

	if cfg.keepExtra {
		return nil
	}
	for name, info := range existing {
		path := Join(step.Path, name)
		cfg.logger.Debug().Str("path", path).Msg("remove extraneous")
		if info.IsDir() {
			if err := RemoveTree(ctx, dstFS, path); err != nil {
				return err
			}
		} else if err := dstFS.Remove(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// outdated reports whether a destination file needs to be replaced by
// the source file. A size mismatch or a missing modification time on
// either side forces the copy.
func outdated(src, dst *Info) bool {
	srcSize, err1 := src.Size()
	dstSize, err2 := dst.Size()
	if err1 != nil || err2 != nil || srcSize != dstSize {
		return true
	}
	srcMod, err1 := src.Modified()
	dstMod, err2 := dst.Modified()
	if err1 != nil || err2 != nil || srcMod.IsZero() || dstMod.IsZero() {
		return true
	}
	return srcMod.After(dstMod)
}

// ensureNamespaces appends any missing namespaces to a request list.
func ensureNamespaces(namespaces []string, required ...string) []string {
	out := append([]string(nil), namespaces...)
	for _, ns := range required {
		found := false
		for _, have := range out {
			if have == ns {
				found = true
				break
			}
		}
		if !found {
			out = append(out, ns)
		}
	}
	return out
}
