//go:build linux

package osfs

import (
	"os"
	"syscall"
)

// addTimeFields fills access and metadata-change times from the raw
// stat data. Linux does not expose a birth time through Stat_t, so
// "created" is left unset.
func addTimeFields(fi os.FileInfo, fields map[string]any) {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	fields["accessed"] = stat.Atim.Sec
	fields["metadata_changed"] = stat.Ctim.Sec
}
