//go:build unix

package osfs

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// accessFields builds the "access" namespace from the raw stat data.
func accessFields(fi os.FileInfo) map[string]any {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	fields := map[string]any{
		"permissions": int64(fi.Mode().Perm()),
		"uid":         int64(stat.Uid),
		"gid":         int64(stat.Gid),
	}
	if u, err := user.LookupId(strconv.FormatUint(uint64(stat.Uid), 10)); err == nil {
		fields["user"] = u.Username
	}
	if g, err := user.LookupGroupId(strconv.FormatUint(uint64(stat.Gid), 10)); err == nil {
		fields["group"] = g.Name
	}
	return fields
}
