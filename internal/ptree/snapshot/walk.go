package snapshot

import (
	"sort"
	"strings"
)

// Visitor is called once per node during a depth-first pre-order Walk, with
// the node's depth from the root (the root itself is depth 0).
type Visitor func(depth int, index NodeIndex, node *DirectoryNode)

// Walk performs a depth-first, pre-order traversal of the snapshot starting
// at its root, invoking visit for every node including the root.
func (s *Snapshot) Walk(visit Visitor) {
	s.walk(s.Root(), 0, visit)
}

func (s *Snapshot) walk(i NodeIndex, depth int, visit Visitor) {
	node := s.Node(i)
	visit(depth, i, node)
	for _, child := range s.Children(i) {
		s.walk(child, depth+1, visit)
	}
}

// Lookup finds the node reachable from the root by the given slash-separated
// relative path ("" or "." returns the root). It performs a binary search
// over each directory's sorted children, giving O(depth * log(children))
// behavior.
func (s *Snapshot) Lookup(relativePath string) (NodeIndex, bool) {
	relativePath = strings.Trim(relativePath, "/")
	current := s.Root()
	if relativePath == "" || relativePath == "." {
		return current, true
	}

	for _, component := range strings.Split(relativePath, "/") {
		children := s.Children(current)
		key := foldKey(component)
		idx := sort.Search(len(children), func(i int) bool {
			return foldKey(s.Node(children[i]).Name) >= key
		})

		found := NoNode
		// Binary search narrows to the fold-key boundary; scan the (small,
		// usually single-element) run of same-fold-key siblings for an exact
		// case-sensitive match, since the total order ties case-insensitively
		// equal names by case-sensitive comparison.
		for i := idx; i < len(children) && foldKey(s.Node(children[i]).Name) == key; i++ {
			if s.Node(children[i]).Name == component {
				found = children[i]
				break
			}
		}
		if found == NoNode {
			return NoNode, false
		}
		current = found
	}
	return current, true
}
