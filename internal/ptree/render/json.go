package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// renderJSON writes one JSON object per node, in the shape described by
// spec.md §4.5: {"name":…, "path":…, "children":[…], "file_count":N,
// "partial":bool}. Nodes are written token-by-token directly to w as the
// tree is walked depth-first; at no point does the renderer hold the
// output for a whole subtree (let alone the whole tree) as a single string
// or byte slice — only one node's scalar fields are ever marshaled at a
// time, via encodeString for proper JSON escaping.
func renderJSON(w io.Writer, snap *snapshot.Snapshot, opts Options) error {
	bw := bufio.NewWriter(w)
	if err := writeJSONNode(bw, snap, snap.Root(), "", 0, opts); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	return bw.Flush()
}

func encodeString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeJSONNode prints the complete object for the node at idx, which sits
// at the given depth (the root is depth 0). Whether idx's own children
// recurse further or render as a collapsed, truncated stub is decided here
// — by idx, looking at its children's depth — exactly mirroring how the
// tree renderer's walk decides per child whether to descend past it. This
// keeps the truncation boundary identical between the two output formats
// for the same MaxDisplayDepth.
func writeJSONNode(w *bufio.Writer, snap *snapshot.Snapshot, idx snapshot.NodeIndex, parentPath string, depth int, opts Options) error {
	n := snap.Node(idx)

	nodePath := n.Name
	if parentPath != "" {
		nodePath = path.Join(parentPath, n.Name)
	}

	if err := writeJSONNodeHeader(w, n.Name, nodePath); err != nil {
		return err
	}

	if n.IsSymlink {
		_, err := fmt.Fprintf(w, `"children":[],"file_count":%d,"partial":%t}`, n.FileCount, n.IsPartial)
		return err
	}

	childIdxs := snap.Children(idx)
	childDepth := depth + 1
	allowGrandchildren := opts.MaxDisplayDepth < 0 || childDepth < opts.MaxDisplayDepth

	if _, err := w.WriteString(`"children":[`); err != nil {
		return err
	}
	for i, childIdx := range childIdxs {
		if i > 0 {
			if _, err := w.WriteByte(','); err != nil {
				return err
			}
		}
		var err error
		if allowGrandchildren {
			err = writeJSONNode(w, snap, childIdx, nodePath, childDepth, opts)
		} else {
			err = writeJSONNodeTruncated(w, snap, childIdx, nodePath)
		}
		if err != nil {
			return err
		}
	}
	if _, err := w.WriteString(`]`); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, `,"file_count":%d,"partial":%t}`, n.FileCount, n.IsPartial)
	return err
}

// writeJSONNodeTruncated prints idx's own fields with its children collapsed
// to an empty, marked-truncated array, without looking past idx at all —
// the display-depth-limit counterpart of the tree renderer's trailing "…"
// marker.
func writeJSONNodeTruncated(w *bufio.Writer, snap *snapshot.Snapshot, idx snapshot.NodeIndex, parentPath string) error {
	n := snap.Node(idx)
	nodePath := path.Join(parentPath, n.Name)

	if err := writeJSONNodeHeader(w, n.Name, nodePath); err != nil {
		return err
	}

	truncated := !n.IsSymlink && len(snap.Children(idx)) > 0
	_, err := fmt.Fprintf(w, `"children":[],"file_count":%d,"partial":%t,"truncated":%t}`, n.FileCount, n.IsPartial, truncated)
	return err
}

func writeJSONNodeHeader(w *bufio.Writer, name, nodePath string) error {
	encodedName, err := encodeString(name)
	if err != nil {
		return err
	}
	encodedPath, err := encodeString(nodePath)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `{"name":%s,"path":%s,`, encodedName, encodedPath)
	return err
}
