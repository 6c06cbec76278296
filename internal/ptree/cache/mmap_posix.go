//go:build !windows

package cache

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapping is a read-only memory-mapped view of a cache file. Header
// validation reads only the first headerLen+trailerLen-relevant bytes the
// kernel has to fault in, not the whole file; only a Load that passes the
// freshness gate goes on to touch the payload pages.
type mapping struct {
	data []byte
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

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &mapping{data: data}, nil
}

func (m *mapping) bytes() []byte {
	return m.data
}

func (m *mapping) close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}
