//go:build darwin

package osfs

import (
	"os"
	"syscall"
)

// addTimeFields fills access, metadata-change and birth times from the
// raw stat data.
func addTimeFields(fi os.FileInfo, fields map[string]any) {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	fields["accessed"] = stat.Atimespec.Sec
	fields["metadata_changed"] = stat.Ctimespec.Sec
	fields["created"] = stat.Birthtimespec.Sec
}
