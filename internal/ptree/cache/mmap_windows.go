//go:build windows

package cache

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mapping is a read-only memory-mapped view of a cache file, backed by
// CreateFileMapping/MapViewOfFile on Windows.
type mapping struct {
	data     []byte
	fileMap  windows.Handle
	baseAddr uintptr
}

func openMapping(path string) (*mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size < headerLen+trailerLen {
		return nil, ErrCorrupt
	}

	handle := windows.Handle(f.Fd())
	fileMap, err := windows.CreateFileMapping(handle, nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, err
	}

	addr, err := windows.MapViewOfFile(fileMap, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(fileMap)
		return nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
	return &mapping{data: data, fileMap: fileMap, baseAddr: addr}, nil
}

func (m *mapping) bytes() []byte {
	return m.data
}

func (m *mapping) close() error {
	if m.baseAddr == 0 {
		return nil
	}
	err := windows.UnmapViewOfFile(m.baseAddr)
	windows.CloseHandle(m.fileMap)
	m.baseAddr = 0
	m.data = nil
	return err
}
