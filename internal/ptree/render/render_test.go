package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// buildSample constructs:
//
//	/srv/root
//	  apple/ (2 files)
//	  zebra/ (partial)
func buildSample() *snapshot.Snapshot {
	b, root := snapshot.NewBuilder("/srv/root", 4)
	kids := b.AddChildren(root, []string{"apple", "zebra"})
	b.SetFileCount(kids[0], 2)
	b.Seal(kids[0])
	b.MarkPartial(kids[1])
	b.Seal(kids[1])
	b.Seal(root)
	return b.Finish("/srv/root", time.Now(), [16]byte{}, snapshot.Stats{})
}

func TestRenderTreePlain(t *testing.T) {
	snap := buildSample()
	var buf bytes.Buffer

	if err := Render(&buf, snap, Options{Format: FormatTree, Color: ColorNever, MaxDisplayDepth: -1}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), out)
	}
	if lines[0] != "/srv/root" {
		t.Errorf("line 0 = %q, want root path", lines[0])
	}
	if !strings.Contains(lines[1], "apple") || !strings.HasPrefix(lines[1], "├── ") {
		t.Errorf("line 1 = %q, want mid-connector apple line", lines[1])
	}
	if !strings.Contains(lines[2], "zebra") || !strings.HasPrefix(lines[2], "└── ") {
		t.Errorf("line 2 = %q, want last-connector zebra line", lines[2])
	}
	if !strings.Contains(lines[2], "…") {
		t.Errorf("line 2 = %q, want a truncation marker for the partial node", lines[2])
	}
	if strings.Contains(lines[1], "…") {
		t.Errorf("line 1 = %q, should not carry a truncation marker", lines[1])
	}
}

func TestRenderTreeColorAlwaysEmitsEscapes(t *testing.T) {
	snap := buildSample()
	var buf bytes.Buffer
	if err := Render(&buf, snap, Options{Format: FormatTree, Color: ColorAlways}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// A bytes.Buffer doesn't satisfy the Fd() interface colorEnabled checks
	// for ColorAuto, but ColorAlways must still force escapes regardless of
	// stream type.
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("ColorAlways should emit ANSI escapes even to a non-terminal writer")
	}
}

// buildNested constructs /srv/root/apple/inner, two levels under the root,
// for exercising MaxDisplayDepth truncation below the first child level.
func buildNested() *snapshot.Snapshot {
	b, root := snapshot.NewBuilder("/srv/root", 4)
	kids := b.AddChildren(root, []string{"apple"})
	apple := kids[0]
	grandkids := b.AddChildren(apple, []string{"inner"})
	b.Seal(grandkids[0])
	b.Seal(apple)
	b.Seal(root)
	return b.Finish("/srv/root", time.Now(), [16]byte{}, snapshot.Stats{})
}

func TestRenderTreeMaxDisplayDepthTruncatesBelowFirstLevel(t *testing.T) {
	snap := buildNested()
	var buf bytes.Buffer
	if err := Render(&buf, snap, Options{Format: FormatTree, Color: ColorNever, MaxDisplayDepth: 1}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "apple") {
		t.Errorf("MaxDisplayDepth=1 should still show the first level, got %q", out)
	}
	if strings.Contains(out, "inner") {
		t.Errorf("MaxDisplayDepth=1 should hide the second level, got %q", out)
	}
	appleLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "apple") {
			appleLine = line
		}
	}
	if !strings.Contains(appleLine, "…") {
		t.Errorf("apple line = %q, want a truncation marker since its child is hidden", appleLine)
	}
}

type jsonNode struct {
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Children  []jsonNode `json:"children"`
	FileCount int        `json:"file_count"`
	Partial   bool       `json:"partial"`
}

func TestRenderJSONStructure(t *testing.T) {
	snap := buildSample()
	var buf bytes.Buffer
	if err := Render(&buf, snap, Options{Format: FormatJSON, MaxDisplayDepth: -1}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var root jsonNode
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if root.Name != "/srv/root" {
		t.Errorf("root.Name = %q, want %q", root.Name, "/srv/root")
	}
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}
	apple, zebra := root.Children[0], root.Children[1]
	if apple.Name != "apple" || apple.FileCount != 2 {
		t.Errorf("apple mismatch: %+v", apple)
	}
	if apple.Path != "/srv/root/apple" {
		t.Errorf("apple.Path = %q, want %q", apple.Path, "/srv/root/apple")
	}
	if zebra.Name != "zebra" || !zebra.Partial {
		t.Errorf("zebra mismatch: %+v", zebra)
	}
}

type jsonNodeWithTruncated struct {
	Name      string                  `json:"name"`
	Children  []jsonNodeWithTruncated `json:"children"`
	Truncated bool                    `json:"truncated"`
}

func TestRenderJSONMaxDisplayDepthMatchesTree(t *testing.T) {
	snap := buildNested()
	var buf bytes.Buffer
	if err := Render(&buf, snap, Options{Format: FormatJSON, MaxDisplayDepth: 1}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var root jsonNodeWithTruncated
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(root.Children) != 1 || root.Children[0].Name != "apple" {
		t.Fatalf("expected root to still show its first-level child apple, got %+v", root)
	}
	apple := root.Children[0]
	if len(apple.Children) != 0 {
		t.Errorf("apple.Children should be empty past MaxDisplayDepth=1, got %+v", apple.Children)
	}
	if !apple.Truncated {
		t.Error("apple should be marked truncated since its own child is hidden")
	}
}

func TestFormatStats(t *testing.T) {
	stats := snapshot.Stats{
		TotalDirectories: 1234,
		TotalFiles:       5678,
		SkippedPolicy:    3,
		SkippedError:     1,
		ElapsedNanos:     uint64(2500 * time.Millisecond),
	}
	out := FormatStats(stats)
	if !strings.Contains(out, "1,234 directories") {
		t.Errorf("FormatStats = %q, want thousands-separated directory count", out)
	}
	if !strings.Contains(out, "5,678 files") {
		t.Errorf("FormatStats = %q, want thousands-separated file count", out)
	}
	if !strings.Contains(out, "2.5s") {
		t.Errorf("FormatStats = %q, want elapsed duration around 2.5s", out)
	}
}
