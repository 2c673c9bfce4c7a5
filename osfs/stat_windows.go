//go:build !unix

package osfs

import "os"

// accessFields reports permission bits only; ownership is not mapped
// on this platform.
func accessFields(fi os.FileInfo) map[string]any {
	return map[string]any{
		"permissions": int64(fi.Mode().Perm()),
	}
}
