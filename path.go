package fskit

import (
	"strings"
)

// Path helpers for the canonical path dialect used by every filesystem,
// regardless of backend or host platform: forward-slash separated,
// rooted at "/", with "." and ".." resolved during normalization.
// Translation to any native dialect (platform separators, drive
// letters) is the backend's job and never leaks into this package.

// Normalize collapses back-references and duplicate separators, returning
// a relative path unchanged in form and an absolute path without "." or
// ".." segments. It fails with ErrInvalidPath if the text contains a NUL
// byte, and with ErrIllegalBackReference if back-references would escape
// the root. Normalizing an already-normalized path returns it unchanged.
func Normalize(path string) (string, error) {
	if strings.ContainsRune(path, 0) {
		return "", errPath("normalize", path, ErrInvalidPath)
	}
	if path == "" || path == "/" || path == "." {
		if path == "." {
			return "", nil
		}
		return path, nil
	}
	if !requiresNormalization(path) {
		return strings.TrimSuffix(path, "/"), nil
	}

	prefix := ""
	if strings.HasPrefix(path, "/") {
		prefix = "/"
	}
	var components []string
	for _, component := range strings.Split(path, "/") {
		switch component {
		case "", ".":
		case "..":
			if len(components) == 0 {
				return "", errPath("normalize", path, ErrIllegalBackReference)
			}
			components = components[:len(components)-1]
		default:
			components = append(components, component)
		}
	}
	return prefix + strings.Join(components, "/"), nil
}

// requiresNormalization reports whether a path contains "." or ".."
// segments or duplicated separators.
func requiresNormalization(path string) bool {
	if strings.Contains(path, "//") {
		return true
	}
	for _, component := range strings.Split(path, "/") {
		if component == "." || component == ".." {
			return true
		}
	}
	return false
}

// normalizeAbs is the form used by every FS-facing entry point: the path
// is normalized and made absolute, so "" and "." map to the root.
func normalizeAbs(path string) (string, error) {
	p, err := Normalize(path)
	if err != nil {
		return "", err
	}
	return Abs(p), nil
}

// IsAbs reports whether a path is absolute.
func IsAbs(path string) bool {
	return strings.HasPrefix(path, "/")
}

// Abs converts a path to absolute form. Filesystems have no concept of a
// current directory, so this simply ensures a leading slash.
func Abs(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// Rel strips any leading slashes, the inverse of Abs.
func Rel(path string) string {
	return strings.TrimLeft(path, "/")
}

// Join joins any number of paths together, normalizing the result. A
// later absolute path discards everything before it.
func Join(paths ...string) string {
	absolute := false
	var relpaths []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "/") {
			relpaths = relpaths[:0]
			absolute = true
		}
		relpaths = append(relpaths, p)
	}
	joined, err := Normalize(strings.Join(relpaths, "/"))
	if err != nil {
		// Back-references past the start of a relative join degrade to root.
		joined = ""
	}
	if absolute {
		joined = Abs(joined)
	}
	return joined
}

// Split splits a path into a (head, tail) pair, where tail is the last
// component and head is everything preceding it.
func Split(path string) (string, string) {
	if !strings.Contains(path, "/") {
		return "", path
	}
	i := strings.LastIndex(path, "/")
	head, tail := path[:i], path[i+1:]
	if head == "" {
		head = "/"
	}
	return head, tail
}

// SplitExt splits the extension from a path, returning the path up to
// the last "." and the extension including the dot.
func SplitExt(path string) (string, string) {
	head, tail := Split(path)
	i := strings.LastIndex(tail, ".")
	if i <= 0 {
		return path, ""
	}
	return Join(head, tail[:i]), tail[i:]
}

// Dir returns the parent directory of a path.
func Dir(path string) string {
	head, _ := Split(path)
	return head
}

// Base returns the final component of a path.
func Base(path string) string {
	_, tail := Split(path)
	return tail
}

// Parts returns the individual components of a normalized path. The root
// path has no components.
func Parts(path string) []string {
	p, err := Normalize(path)
	if err != nil {
		return nil
	}
	p = Rel(p)
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Recurse returns the intermediate paths from the root to the given
// path, root first.
//
//	Recurse("/a/b/c") -> ["/", "/a", "/a/b", "/a/b/c"]
func Recurse(path string) []string {
	p, err := normalizeAbs(path)
	if err != nil || p == "/" {
		return []string{"/"}
	}
	paths := []string{"/"}
	for i := 1; i < len(p); i++ {
		if p[i] == '/' {
			paths = append(paths, p[:i])
		}
	}
	return append(paths, p)
}

// ForceDir ensures a path ends with a trailing slash.
func ForceDir(path string) string {
	if !strings.HasSuffix(path, "/") {
		return path + "/"
	}
	return path
}

// IsBase reports whether path1 is an ancestor of (or equal to) path2.
func IsBase(path1, path2 string) bool {
	p1 := ForceDir(Abs(path1))
	p2 := ForceDir(Abs(path2))
	return strings.HasPrefix(p2, p1)
}

// FromBase returns path2 with the common prefix path1 removed. The
// second path must be a descendant of the first.
func FromBase(path1, path2 string) string {
	if !IsBase(path1, path2) {
		return path2
	}
	trimmed := strings.TrimPrefix(ForceDir(Abs(path2)), ForceDir(Abs(path1)))
	return Abs(strings.TrimSuffix(trimmed, "/"))
}

// depth returns the number of components in a path, with the root at
// zero. Used by the walker for max-depth bounds.
func depth(path string) int {
	p := strings.Trim(path, "/")
	if p == "" {
		return 0
	}
	return strings.Count(p, "/") + 1
}
