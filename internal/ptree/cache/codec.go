package cache

import (
	"encoding/binary"
	"hash/crc32"
	"time"

	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// encode serializes snap into the complete on-disk file layout described in
// spec.md §4.3: a fixed header, a payload region of fixed-size node
// records, an index region holding the flattened child-index arena followed
// by the concatenated name bytes, and a trailing CRC-32C checksum.
func encode(snap *snapshot.Snapshot, hostFingerprint [16]byte) []byte {
	nodes := snap.AllNodes()
	children := snap.AllChildren()

	payloadOffset := uint64(headerLen)
	payloadLen := uint64(len(nodes)) * nodeRecordLen
	indexOffset := payloadOffset + payloadLen
	childrenLen := uint64(len(children)) * 4

	nameBlob := make([]byte, 0, len(nodes)*16)
	nameOffsets := make([]uint32, len(nodes))
	nameLens := make([]uint16, len(nodes))
	for i, n := range nodes {
		nameOffsets[i] = uint32(len(nameBlob))
		nameLens[i] = uint16(len(n.Name))
		nameBlob = append(nameBlob, n.Name...)
	}

	h := header{
		magic:           magic,
		version:         formatVersion,
		flags:           0,
		headerLen:       headerLen,
		createdAtUnix:   snap.CreatedAt.Unix(),
		hostFingerprint: hostFingerprint,
		nodeCount:       uint64(len(nodes)),
		indexOffset:     indexOffset,
		payloadOffset:   payloadOffset,
	}

	total := indexOffset + childrenLen + uint64(len(nameBlob)) + trailerLen
	buf := make([]byte, total)
	copy(buf[0:headerLen], h.encode())

	for i, n := range nodes {
		off := payloadOffset + uint64(i)*nodeRecordLen
		rec := buf[off : off+nodeRecordLen]
		binary.LittleEndian.PutUint32(rec[0:4], nameOffsets[i])
		binary.LittleEndian.PutUint16(rec[4:6], nameLens[i])
		var flags uint16
		if n.IsSymlink {
			flags |= nodeFlagSymlink
		}
		if n.IsPartial {
			flags |= nodeFlagPartial
		}
		binary.LittleEndian.PutUint16(rec[6:8], flags)
		binary.LittleEndian.PutUint32(rec[8:12], n.ChildStart())
		binary.LittleEndian.PutUint32(rec[12:16], n.ChildLen())
		binary.LittleEndian.PutUint32(rec[16:20], n.FileCount)
	}

	childrenStart := indexOffset
	for i, c := range children {
		off := childrenStart + uint64(i)*4
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(c))
	}

	nameBlobStart := childrenStart + childrenLen
	copy(buf[nameBlobStart:nameBlobStart+uint64(len(nameBlob))], nameBlob)

	sum := crc32.Checksum(buf[:len(buf)-trailerLen], crc32cTable)
	trailer := buf[len(buf)-trailerLen:]
	binary.LittleEndian.PutUint32(trailer[0:4], sum)

	return buf
}

// decode parses a complete on-disk file back into a Snapshot, verifying the
// magic, version and (unless skipCRC is set, for trust_cache) the CRC-32C
// trailer first. The root's canonical path comes back out of the decoded
// name blob (node 0 is always the root), not from wherever the cache file
// itself happens to live.
func decode(buf []byte, skipCRC bool) (*snapshot.Snapshot, header, error) {
	var h header
	if len(buf) < headerLen+trailerLen {
		return nil, h, ErrCorrupt
	}
	h, err := decodeHeader(buf[:headerLen])
	if err != nil {
		return nil, h, err
	}

	if !skipCRC {
		trailer := buf[len(buf)-trailerLen:]
		wantSum := binary.LittleEndian.Uint32(trailer[0:4])
		gotSum := crc32.Checksum(buf[:len(buf)-trailerLen], crc32cTable)
		if wantSum != gotSum {
			return nil, h, ErrCorrupt
		}
	}

	nodeCount := int(h.nodeCount)
	if nodeCount == 0 {
		return nil, h, ErrCorrupt
	}

	payloadEnd := h.payloadOffset + uint64(nodeCount)*nodeRecordLen
	if payloadEnd > uint64(len(buf)) || h.indexOffset < h.payloadOffset {
		return nil, h, ErrCorrupt
	}

	nodes := make([]snapshot.DirectoryNode, nodeCount)
	nameOffsets := make([]uint32, nodeCount)
	nameLens := make([]uint16, nodeCount)

	for i := 0; i < nodeCount; i++ {
		off := h.payloadOffset + uint64(i)*nodeRecordLen
		rec := buf[off : off+nodeRecordLen]
		nameOffsets[i] = binary.LittleEndian.Uint32(rec[0:4])
		nameLens[i] = binary.LittleEndian.Uint16(rec[4:6])
		flags := binary.LittleEndian.Uint16(rec[6:8])
		childStart := binary.LittleEndian.Uint32(rec[8:12])
		childLen := binary.LittleEndian.Uint32(rec[12:16])
		fileCount := binary.LittleEndian.Uint32(rec[16:20])

		nodes[i] = snapshot.NewDirectoryNode(
			"", childStart, childLen, fileCount,
			flags&nodeFlagSymlink != 0, flags&nodeFlagPartial != 0,
		)
	}

	// The index region is [children array][name blob] with no gap (see
	// encode), so the split point is recoverable from the name blob's total
	// length, which is just the sum of the encoded name lengths.
	var nameTotal uint64
	for _, l := range nameLens {
		nameTotal += uint64(l)
	}
	if uint64(len(buf))-trailerLen < nameTotal {
		return nil, h, ErrCorrupt
	}
	nameBlobStart := uint64(len(buf)) - trailerLen - nameTotal
	if nameBlobStart < h.indexOffset || (nameBlobStart-h.indexOffset)%4 != 0 {
		return nil, h, ErrCorrupt
	}
	childrenLen := (nameBlobStart - h.indexOffset) / 4

	children := make([]snapshot.NodeIndex, childrenLen)
	for i := uint64(0); i < childrenLen; i++ {
		off := h.indexOffset + i*4
		children[i] = snapshot.NodeIndex(binary.LittleEndian.Uint32(buf[off : off+4]))
	}

	nameBlob := buf[nameBlobStart : uint64(len(buf))-trailerLen]
	for i := 0; i < nodeCount; i++ {
		start := nameOffsets[i]
		end := start + uint32(nameLens[i])
		if uint64(end) > uint64(len(nameBlob)) {
			return nil, h, ErrCorrupt
		}
		nodes[i] = snapshot.WithName(nodes[i], string(nameBlob[start:end]))
	}
	rootPath := nodes[0].Name

	// The header carries only node_count, per spec.md §4.3's bit-exact
	// layout; the rest of Stats describes a traversal that, for a cache hit,
	// never happened. TotalDirectories/TotalFiles are cheaply recoverable
	// from the arena we just decoded anyway; SkippedPolicy/SkippedError/
	// ElapsedNanos have no meaning for a cached read and are left zero.
	var totalDirectories, totalFiles uint64
	for _, n := range nodes {
		if !n.IsSymlink {
			totalDirectories++
		}
		totalFiles += uint64(n.FileCount)
	}
	stats := snapshot.Stats{TotalDirectories: totalDirectories, TotalFiles: totalFiles}
	createdAt := time.Unix(h.createdAtUnix, 0).UTC()

	snap := snapshot.FromArena(rootPath, createdAt, h.hostFingerprint, stats, nodes, children)
	return snap, h, nil
}
