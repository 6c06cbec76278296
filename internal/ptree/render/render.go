package render

import (
	"fmt"
	"io"

	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// Render writes snap to w in the format and display depth described by
// opts.
func Render(w io.Writer, snap *snapshot.Snapshot, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return renderJSON(w, snap, opts)
	case FormatTree:
		return renderTree(w, snap, opts)
	default:
		return fmt.Errorf("render: unknown format %d", opts.Format)
	}
}
