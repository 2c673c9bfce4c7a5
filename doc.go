// Package fskit provides a unified filesystem abstraction for Go with
// pluggable backends, path-rewriting sub-filesystems, mount and overlay
// composites, recursive walking, glob matching, and bulk copy, move and
// mirror orchestration.
//
// Every backend implements the same small [FS] interface over a common
// virtual path dialect (forward slashes, rooted at "/"), so code written
// against fskit behaves identically whether it talks to a directory on
// disk, an in-memory tree, or a composite of several backends. Backends
// that can do better than the generic algorithms advertise it through
// optional capability interfaces ([CanScanDir], [CanCopy], [CanMove],
// [CanSysPath], [ThreadSafe]) which the package-level helpers pick up
// automatically.
//
// # Backends
//
//   - memfs: in-memory tree, useful for tests and scratch space
//   - osfs: a directory of the host filesystem, sandboxed at its root
//
// Additional backends plug in by implementing [FS]; the opener package
// builds backends from URL-style resource identifiers.
//
// # Basic Usage
//
//	fsys := memfs.New()
//	defer fsys.Close()
//
//	ctx := context.Background()
//
//	_ = fsys.MakeDir(ctx, "/docs")
//	_ = fskit.WriteText(ctx, fsys, "/docs/readme.md", "# Hello")
//
//	globber, _ := fskit.NewGlobber(fsys, "**/*.md")
//	matches := globber.Matches(ctx)
//	for matches.Next() {
//		fmt.Println(matches.Path())
//	}
//
// # Composition
//
// [OpenDir] returns a [SubFS] view of a sub-directory that code cannot
// escape. [MountFS] dispatches paths to child filesystems mounted under
// prefixes. [MultiFS] overlays several filesystems with an optional
// write layer. [NewReadOnlyFS] blocks all mutation.
//
// All operations take a [context.Context] and report failures with
// sentinel errors wrapped in [PathError], so callers can branch with
// errors.Is or the Is* helpers regardless of the backend.
package fskit
