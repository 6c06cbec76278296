package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

const (
	connectorMid  = "├── "
	connectorLast = "└── "
	prefixMid     = "│   "
	prefixLast    = "    "
	truncateMark  = " …"
)

// renderTree writes the depth-first pre-order ASCII tree described in
// spec.md §4.5: the root line is the full root path, every other line is
// prefix + connector + name.
func renderTree(w io.Writer, snap *snapshot.Snapshot, opts Options) error {
	colored := colorEnabled(opts.Color, w)
	rootColor := color.New(color.FgBlue, color.Bold)
	dirColor := color.New(color.FgHiBlue)
	connColor := color.New(color.FgCyan)
	if colored {
		// Override color.NoColor, which the library sets from os.Stdout
		// alone, so the resolved mode governs w.
		rootColor.EnableColor()
		dirColor.EnableColor()
		connColor.EnableColor()
	}

	rootName := snap.Node(snap.Root()).Name
	if colored {
		rootName = rootColor.Sprint(rootName)
	}
	if _, err := fmt.Fprintln(w, rootName); err != nil {
		return err
	}

	t := &treeRenderer{w: w, snap: snap, opts: opts, colored: colored, dirColor: dirColor, connColor: connColor}
	return t.walk(snap.Root(), "", 0)
}

type treeRenderer struct {
	w                   io.Writer
	snap                *snapshot.Snapshot
	opts                Options
	colored             bool
	dirColor, connColor *color.Color
}

// walk prints the children of node, recursing into each unless display depth
// has been exhausted, in which case the child's own line gets a trailing
// truncation marker instead of a recursive descent.
func (t *treeRenderer) walk(node snapshot.NodeIndex, prefix string, depth int) error {
	children := t.snap.Children(node)

	for i, childIdx := range children {
		child := t.snap.Node(childIdx)
		last := i == len(children)-1

		connector := connectorMid
		nextPrefix := prefix + prefixMid
		if last {
			connector = connectorLast
			nextPrefix = prefix + prefixLast
		}

		line := prefix
		if t.colored {
			line += t.connColor.Sprint(connector)
		} else {
			line += connector
		}

		name := child.Name
		if t.colored {
			name = t.dirColor.Sprint(name)
		}
		line += name

		atDisplayLimit := t.opts.MaxDisplayDepth >= 0 && depth+1 >= t.opts.MaxDisplayDepth
		hasChildren := len(t.snap.Children(childIdx)) > 0
		if (child.IsPartial || (atDisplayLimit && hasChildren)) && !child.IsSymlink {
			line += truncateMark
		}

		if _, err := fmt.Fprintln(t.w, line); err != nil {
			return err
		}

		if child.IsSymlink || atDisplayLimit {
			continue
		}

		if err := t.walk(childIdx, nextPrefix, depth+1); err != nil {
			return err
		}
	}

	return nil
}
