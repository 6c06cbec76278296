//go:build windows

package cache

import "golang.org/x/sys/windows"

// atomicRename replaces dst with src in a single filesystem operation.
// Plain os.Rename fails on Windows when dst already exists, so this goes
// through MoveFileEx with MOVEFILE_REPLACE_EXISTING instead, matching how
// the teacher's Windows-specific rename helpers work around the same gap.
func atomicRename(src, dst string) error {
	srcPtr, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	dstPtr, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(srcPtr, dstPtr, windows.MOVEFILE_REPLACE_EXISTING)
}
