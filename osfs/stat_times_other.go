//go:build !linux && !darwin

package osfs

import "os"

// addTimeFields has nothing beyond the portable fields on this
// platform.
func addTimeFields(os.FileInfo, map[string]any) {}
