// Package cache implements the on-disk Cache Store: a single-file,
// bit-exact-header binary layout that persists a Snapshot so a later ptree
// invocation can skip a fresh scan when the cache is still valid.
package cache

import (
	"encoding/binary"
)

// magic identifies a ptree cache file. It is written and compared verbatim;
// a mismatch means either a foreign file or a format this binary predates.
var magic = [8]byte{'P', 'T', 'R', 'E', 'E', 'C', 'A', 'C'}

// formatVersion is the only version this binary knows how to read.
const formatVersion uint16 = 1

// headerLen is the fixed size, in bytes, of the header block that precedes
// the payload. It is also written into the header itself (the header_len
// field) so that a future format can grow the header without breaking
// readers that only need the fields at fixed low offsets.
const headerLen = 64

// flagBigEndian names bit0 of the header's flags field, reserved for
// endianness per spec.md §4.3's "bit0 = endianness". encode always writes
// flags as 0, whatever the host's byte order, and decode ignores the field:
// all multi-byte integers are written and read little-endian.
const flagBigEndian uint16 = 1 << 0

// trailerLen is the size of the block at the end of the file holding the
// CRC-32C checksum. Only the first 4 bytes carry the checksum; the
// remaining 28 are reserved and currently always zero.
const trailerLen = 32

// nodeRecordLen is the fixed size, in bytes, of one encoded DirectoryNode in
// the payload region: nameOffset(4) + nameLen(2) + flags(2) + childStart(4)
// + childLen(4) + fileCount(4).
const nodeRecordLen = 20

const (
	nodeFlagSymlink uint16 = 1 << 0
	nodeFlagPartial uint16 = 1 << 1
)

// header mirrors the fixed 64-byte block at the start of a cache file.
type header struct {
	magic           [8]byte
	version         uint16
	flags           uint16
	headerLen       uint32
	createdAtUnix   int64
	hostFingerprint [16]byte
	nodeCount       uint64
	indexOffset     uint64
	payloadOffset   uint64
}

func (h *header) encode() []byte {
	buf := make([]byte, headerLen)
	copy(buf[0:8], h.magic[:])
	binary.LittleEndian.PutUint16(buf[8:10], h.version)
	binary.LittleEndian.PutUint16(buf[10:12], h.flags)
	binary.LittleEndian.PutUint32(buf[12:16], h.headerLen)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(h.createdAtUnix))
	copy(buf[24:40], h.hostFingerprint[:])
	binary.LittleEndian.PutUint64(buf[40:48], h.nodeCount)
	binary.LittleEndian.PutUint64(buf[48:56], h.indexOffset)
	binary.LittleEndian.PutUint64(buf[56:64], h.payloadOffset)
	return buf
}

func decodeHeader(buf []byte) (header, error) {
	var h header
	if len(buf) < headerLen {
		return h, ErrCorrupt
	}
	copy(h.magic[:], buf[0:8])
	if h.magic != magic {
		return h, ErrCorrupt
	}
	h.version = binary.LittleEndian.Uint16(buf[8:10])
	h.flags = binary.LittleEndian.Uint16(buf[10:12])
	h.headerLen = binary.LittleEndian.Uint32(buf[12:16])
	h.createdAtUnix = int64(binary.LittleEndian.Uint64(buf[16:24]))
	copy(h.hostFingerprint[:], buf[24:40])
	h.nodeCount = binary.LittleEndian.Uint64(buf[40:48])
	h.indexOffset = binary.LittleEndian.Uint64(buf[48:56])
	h.payloadOffset = binary.LittleEndian.Uint64(buf[56:64])
	if h.version != formatVersion {
		return h, ErrUnsupportedVersion
	}
	return h, nil
}
