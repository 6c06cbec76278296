//go:build !windows

package cache

import "os"

// atomicRename replaces dst with src in a single filesystem operation.
// os.Rename already does this atomically on POSIX even when dst exists.
func atomicRename(src, dst string) error {
	return os.Rename(src, dst)
}
