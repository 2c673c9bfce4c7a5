package fskit

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/gobwas/glob"
)

// Derived operations expressed purely in terms of the required FS
// operation set. Backends that can do better expose the corresponding
// capability interface (CanScanDir, CanCopy, CanMove) and these
// functions use it automatically.

// copyChunkSize is the buffer size for streamed file copies.
const copyChunkSize = 64 * 1024

// Exists checks if a resource exists at path.
func Exists(ctx context.Context, fsys FS, path string) (bool, error) {
	_, err := fsys.GetInfo(ctx, path)
	if err != nil {
		if IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsDir checks if a path exists and references a directory.
func IsDir(ctx context.Context, fsys FS, path string) (bool, error) {
	info, err := fsys.GetInfo(ctx, path)
	if err != nil {
		if IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// IsFile checks if a path exists and references a file.
func IsFile(ctx context.Context, fsys FS, path string) (bool, error) {
	info, err := fsys.GetInfo(ctx, path)
	if err != nil {
		if IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsFile(), nil
}

// IsEmpty checks if a directory has no children or a file has no
// content. Returns ErrNotExist if the path is missing.
func IsEmpty(ctx context.Context, fsys FS, path string) (bool, error) {
	info, err := fsys.GetInfo(ctx, path, NamespaceDetails)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		entries, err := fsys.ListDir(ctx, path)
		if err != nil {
			return false, err
		}
		return len(entries) == 0, nil
	}
	size, err := info.Size()
	if err != nil {
		return false, err
	}
	return size == 0, nil
}

// ScanDir enumerates a directory returning full resource info for each
// entry. Uses the backend's native combined scan when available,
// otherwise lists names and stats each one.
func ScanDir(ctx context.Context, fsys FS, path string, namespaces ...string) ([]*Info, error) {
	if scanner, ok := fsys.(CanScanDir); ok {
		return scanner.ScanDir(ctx, path, namespaces...)
	}
	return scanDirFallback(ctx, fsys, path, namespaces...)
}

// scanDirFallback enumerates a directory with the required operations
// only: one list call plus a stat per entry.
func scanDirFallback(ctx context.Context, fsys FS, path string, namespaces ...string) ([]*Info, error) {
	names, err := fsys.ListDir(ctx, path)
	if err != nil {
		return nil, err
	}
	infos := make([]*Info, 0, len(names))
	for _, name := range names {
		info, err := fsys.GetInfo(ctx, Join(path, name), namespaces...)
		if err != nil {
			if IsNotExist(err) {
				// Entry vanished between list and stat.
				continue
			}
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// MatchPatterns reports whether a name matches any of the wildcard
// patterns. A nil pattern list matches everything.
func MatchPatterns(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		if g.Match(name) {
			return true
		}
	}
	return false
}

// FilterOptions select entries in FilterDir by wildcard name patterns.
// Directory patterns apply only to directories and file patterns only
// to files; exclusions are applied after inclusions.
type FilterOptions struct {
	Files        []string
	Dirs         []string
	ExcludeFiles []string
	ExcludeDirs  []string
	Namespaces   []string
}

// FilterDir enumerates a directory keeping only entries that pass the
// filter options.
func FilterDir(ctx context.Context, fsys FS, path string, opts FilterOptions) ([]*Info, error) {
	infos, err := ScanDir(ctx, fsys, path, opts.Namespaces...)
	if err != nil {
		return nil, err
	}
	filtered := infos[:0]
	for _, info := range infos {
		if info.IsDir() {
			if opts.Dirs != nil && !MatchPatterns(opts.Dirs, info.Name()) {
				continue
			}
			if opts.ExcludeDirs != nil && MatchPatterns(opts.ExcludeDirs, info.Name()) {
				continue
			}
		} else {
			if opts.Files != nil && !MatchPatterns(opts.Files, info.Name()) {
				continue
			}
			if opts.ExcludeFiles != nil && MatchPatterns(opts.ExcludeFiles, info.Name()) {
				continue
			}
		}
		filtered = append(filtered, info)
	}
	return filtered, nil
}

// MakeDirs creates a directory and any missing parents. With recreate
// set, an existing directory at path is not an error.
func MakeDirs(ctx context.Context, fsys FS, path string, recreate bool) error {
	p, err := normalizeAbs(path)
	if err != nil {
		return err
	}
	for _, ancestor := range Recurse(p) {
		if ancestor == "/" {
			continue
		}
		err := fsys.MakeDir(ctx, ancestor)
		switch {
		case err == nil:
		case IsExist(err):
			isDir, dirErr := IsDir(ctx, fsys, ancestor)
			if dirErr != nil {
				return dirErr
			}
			if !isDir {
				return errPath("makedirs", ancestor, ErrNotDir)
			}
			if ancestor == p && !recreate {
				return errPath("makedirs", p, ErrExist)
			}
		default:
			return err
		}
	}
	return nil
}

// RemoveTree recursively removes a directory and its contents. Calling
// it on the root clears all contents but preserves the root itself.
func RemoveTree(ctx context.Context, fsys FS, path string) error {
	p, err := normalizeAbs(path)
	if err != nil {
		return err
	}
	info, err := fsys.GetInfo(ctx, p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errPath("removetree", p, ErrNotDir)
	}
	if err := removeContents(ctx, fsys, p); err != nil {
		return err
	}
	if p == "/" {
		return nil
	}
	return fsys.RemoveDir(ctx, p)
}

func removeContents(ctx context.Context, fsys FS, path string) error {
	infos, err := ScanDir(ctx, fsys, path)
	if err != nil {
		return err
	}
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := info.MakePath(path)
		if info.IsDir() {
			if err := removeContents(ctx, fsys, entry); err != nil {
				return err
			}
			if err := fsys.RemoveDir(ctx, entry); err != nil {
				return err
			}
		} else if err := fsys.Remove(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// ReadBytes reads the entire contents of a file.
func ReadBytes(ctx context.Context, fsys FS, path string) ([]byte, error) {
	f, err := fsys.OpenBin(ctx, path, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteBytes writes data to a file, creating it or truncating any
// existing content.
func WriteBytes(ctx context.Context, fsys FS, path string, data []byte) error {
	f, err := fsys.OpenBin(ctx, path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AppendBytes appends data to a file, creating it if missing.
func AppendBytes(ctx context.Context, fsys FS, path string, data []byte) error {
	f, err := fsys.OpenBin(ctx, path, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadText reads the entire contents of a file as a UTF-8 string.
func ReadText(ctx context.Context, fsys FS, path string) (string, error) {
	data, err := ReadBytes(ctx, fsys, path)
	return string(data), err
}

// WriteText writes a UTF-8 string to a file, replacing any existing
// content.
func WriteText(ctx context.Context, fsys FS, path, text string) error {
	return WriteBytes(ctx, fsys, path, []byte(text))
}

// AppendText appends a UTF-8 string to a file, creating it if missing.
func AppendText(ctx context.Context, fsys FS, path, text string) error {
	return AppendBytes(ctx, fsys, path, []byte(text))
}

// WriteStream writes everything from r to a file.
func WriteStream(ctx context.Context, fsys FS, path string, r io.Reader) error {
	f, err := fsys.OpenBin(ctx, path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	if _, err := copyStream(ctx, f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// copyStream is a chunked io.Copy that honors ctx cancellation between
// chunks.
func copyStream(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyChunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			m, werr := dst.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, werr
			}
			if m != n {
				return written, io.ErrShortWrite
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return written, nil
			}
			return written, err
		}
	}
}

// Create makes an empty file at path if one does not exist. With wipe
// set, an existing file is truncated. Reports whether a new, empty
// file is now present at the path.
func Create(ctx context.Context, fsys FS, path string, wipe bool) (bool, error) {
	if !wipe {
		exists, err := Exists(ctx, fsys, path)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}
	f, err := fsys.OpenBin(ctx, path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return false, err
	}
	return true, f.Close()
}

// Touch creates an empty file at path, or updates the modification
// time of an existing resource to the current time.
func Touch(ctx context.Context, fsys FS, path string) error {
	exists, err := Exists(ctx, fsys, path)
	if err != nil {
		return err
	}
	if !exists {
		_, err := Create(ctx, fsys, path, false)
		return err
	}
	now := time.Now()
	return SetTimes(ctx, fsys, path, now, now)
}

// SetTimes updates the access and modification times of a resource.
func SetTimes(ctx context.Context, fsys FS, path string, accessed, modified time.Time) error {
	return fsys.SetInfo(ctx, path, RawInfo{
		NamespaceDetails: {
			"accessed": accessed.Unix(),
			"modified": modified.Unix(),
		},
	})
}

// Copy copies a file within one filesystem. With overwrite unset, an
// existing destination fails with ErrExist. Uses the backend's native
// copy when available.
func Copy(ctx context.Context, fsys FS, src, dst string, overwrite bool) error {
	if !overwrite {
		exists, err := Exists(ctx, fsys, dst)
		if err != nil {
			return err
		}
		if exists {
			return errPath("copy", dst, ErrExist)
		}
	}
	isFile, err := IsFile(ctx, fsys, src)
	if err != nil {
		return err
	}
	if !isFile {
		return errPath("copy", src, ErrIsDir)
	}
	if copier, ok := fsys.(CanCopy); ok {
		return copier.Copy(ctx, src, dst)
	}
	return streamFile(ctx, fsys, src, fsys, dst)
}

// Move moves a file within one filesystem, overwriting the destination
// when allowed. Uses the backend's native rename when available and
// falls back to copy-then-delete.
func Move(ctx context.Context, fsys FS, src, dst string, overwrite bool) error {
	if !overwrite {
		exists, err := Exists(ctx, fsys, dst)
		if err != nil {
			return err
		}
		if exists {
			return errPath("move", dst, ErrExist)
		}
	}
	if mover, ok := fsys.(CanMove); ok {
		isFile, err := IsFile(ctx, fsys, src)
		if err != nil {
			return err
		}
		if !isFile {
			return errPath("move", src, ErrIsDir)
		}
		return mover.Move(ctx, src, dst)
	}
	if err := Copy(ctx, fsys, src, dst, overwrite); err != nil {
		return err
	}
	return fsys.Remove(ctx, src)
}

// streamFile is the chunked read/write copy fallback shared by the
// same-instance and cross-instance copy paths.
func streamFile(ctx context.Context, srcFS FS, srcPath string, dstFS FS, dstPath string) error {
	rf, err := srcFS.OpenBin(ctx, srcPath, os.O_RDONLY)
	if err != nil {
		return err
	}
	defer rf.Close()
	wf, err := dstFS.OpenBin(ctx, dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	if _, err := copyStream(ctx, wf, rf); err != nil {
		wf.Close()
		return err
	}
	return wf.Close()
}
