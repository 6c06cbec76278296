package snapshot

import "time"

// FromArena reconstructs a Snapshot directly from its two flat arenas. It is
// used exclusively by the cache store when materializing a Snapshot from a
// decoded on-disk file, as an alternative entry point to the incremental
// Builder used by a live scan.
func FromArena(rootPath string, createdAt time.Time, hostFingerprint [16]byte, stats Stats, nodes []DirectoryNode, children []NodeIndex) *Snapshot {
	return &Snapshot{
		RootPath:        rootPath,
		CreatedAt:       createdAt,
		HostFingerprint: hostFingerprint,
		Stats:           stats,
		nodes:           nodes,
		children:        children,
	}
}

// AllNodes returns the snapshot's node arena in index order (element 0 is
// the root, i.e. NodeIndex 1). The cache store uses this to serialize a
// freshly scanned Snapshot; callers must not mutate the returned slice.
func (s *Snapshot) AllNodes() []DirectoryNode {
	return s.nodes
}

// AllChildren returns the snapshot's flattened child-index arena. Callers
// must not mutate the returned slice.
func (s *Snapshot) AllChildren() []NodeIndex {
	return s.children
}

// ChildStart returns the node's raw child-range start, for callers (the
// cache codec) that need to serialize the arena layout directly rather than
// go through Children.
func (n DirectoryNode) ChildStart() uint32 { return n.childStart }

// ChildLen returns the node's raw child-range length.
func (n DirectoryNode) ChildLen() uint32 { return n.childLen }

// NewDirectoryNode constructs a DirectoryNode from its raw fields. It exists
// for the cache codec, which decodes nodes field-by-field directly off a
// byte buffer rather than through the Builder.
func NewDirectoryNode(name string, childStart, childLen, fileCount uint32, isSymlink, isPartial bool) DirectoryNode {
	return DirectoryNode{
		Name:       name,
		childStart: childStart,
		childLen:   childLen,
		FileCount:  fileCount,
		IsSymlink:  isSymlink,
		IsPartial:  isPartial,
	}
}

// WithName returns a copy of n with its Name replaced. Used by the cache
// codec once a node's name bytes have been sliced out of the name blob.
func WithName(n DirectoryNode, name string) DirectoryNode {
	n.Name = name
	return n
}
