//go:build !windows

package fsutil

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// IdentityOf extracts the (device, inode) pair for a path, grounded on the
// teacher's pkg/filesystem/device_posix.go approach of reaching into
// os.FileInfo.Sys() for the raw syscall.Stat_t. It uses Lstat so that a
// symlink's own identity is returned rather than its target's.
func IdentityOf(path string) (Identity, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Identity{}, errors.Wrap(err, "unable to query filesystem information")
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Identity{}, errors.New("unable to extract raw filesystem information")
	}
	return Identity{Device: uint64(stat.Dev), File: uint64(stat.Ino)}, nil
}

// DeviceIDOf returns just the device ID of a path, used to derive the host
// fingerprint from the scan root's own device.
func DeviceIDOf(path string) (uint64, error) {
	id, err := IdentityOf(path)
	if err != nil {
		return 0, err
	}
	return id.Device, nil
}
