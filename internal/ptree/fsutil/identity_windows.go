//go:build windows

package fsutil

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// IdentityOf extracts the (volume serial number, file index) pair for a
// directory entry, the spec's stated Windows equivalent of (device, inode).
// os.FileInfo doesn't expose this directly, so the path is reopened with
// FILE_FLAG_BACKUP_SEMANTICS (required to open a directory handle) and
// queried with GetFileInformationByHandle.
func IdentityOf(path string) (Identity, error) {
	pathPointer, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Identity{}, errors.Wrap(err, "unable to convert path")
	}

	handle, err := windows.CreateFile(
		pathPointer,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return Identity{}, errors.Wrap(err, "unable to open path")
	}
	defer windows.CloseHandle(handle)

	var info windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(handle, &info); err != nil {
		return Identity{}, errors.Wrap(err, "unable to query file information")
	}

	fileIndex := uint64(info.FileIndexHigh)<<32 | uint64(info.FileIndexLow)
	return Identity{Device: uint64(info.VolumeSerialNumber), File: fileIndex}, nil
}

// DeviceIDOf returns the volume serial number of a path.
func DeviceIDOf(path string) (uint64, error) {
	id, err := IdentityOf(path)
	if err != nil {
		return 0, err
	}
	return id.Device, nil
}
