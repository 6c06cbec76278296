package scan

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/winux-core/ptree/internal/ptree/skip"
	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// buildTree creates:
//
//	root/
//	  a/
//	    file1.txt
//	    file2.txt
//	    nested/
//	  b/
//	  top.txt
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	mustMkdir := func(rel string) {
		if err := os.Mkdir(filepath.Join(root, rel), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	mustFile := func(rel string) {
		if err := os.WriteFile(filepath.Join(root, rel), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	mustMkdir("a")
	mustMkdir("a/nested")
	mustMkdir("b")
	mustFile("a/file1.txt")
	mustFile("a/file2.txt")
	mustFile("top.txt")

	return root
}

func findChild(snap *snapshot.Snapshot, parent snapshot.NodeIndex, name string) (snapshot.NodeIndex, bool) {
	for _, c := range snap.Children(parent) {
		if snap.Node(c).Name == name {
			return c, true
		}
	}
	return snapshot.NoNode, false
}

func TestRunBasicTree(t *testing.T) {
	root := buildTree(t)

	snap, err := Run(root, Options{Threads: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	a, ok := findChild(snap, snap.Root(), "a")
	if !ok {
		t.Fatal(`expected child "a" at root`)
	}
	if got := snap.Node(a).FileCount; got != 2 {
		t.Errorf("a.FileCount = %d, want 2", got)
	}
	if _, ok := findChild(snap, a, "nested"); !ok {
		t.Error(`expected "nested" under "a"`)
	}
	if _, ok := findChild(snap, snap.Root(), "b"); !ok {
		t.Error(`expected child "b" at root`)
	}
	if got := snap.Node(snap.Root()).FileCount; got != 1 {
		t.Errorf("root.FileCount = %d, want 1 (top.txt)", got)
	}

	if snap.Stats.TotalDirectories == 0 {
		t.Error("expected TotalDirectories > 0")
	}
	if snap.Stats.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", snap.Stats.TotalFiles)
	}
}

func TestRunMaxDepthTruncates(t *testing.T) {
	root := buildTree(t)

	snap, err := Run(root, Options{Threads: 2, MaxDepth: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	a, ok := findChild(snap, snap.Root(), "a")
	if !ok {
		t.Fatal(`expected child "a" at root`)
	}
	if !snap.Node(a).IsPartial {
		t.Error(`"a" at depth 1 with MaxDepth=1 should be marked partial`)
	}
	if len(snap.Children(a)) != 0 {
		t.Errorf("expected no children enumerated under a truncated node, got %d", len(snap.Children(a)))
	}
}

func TestRunMaxNodesTruncates(t *testing.T) {
	root := buildTree(t)

	// Root consumes node 1; only one more node is allowed, so exactly one of
	// {a, b} gets created and the root ends up partial.
	snap, err := Run(root, Options{Threads: 2, MaxNodes: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if snap.NodeCount() > 2 {
		t.Errorf("NodeCount() = %d, want <= 2", snap.NodeCount())
	}
	if !snap.Node(snap.Root()).IsPartial {
		t.Error("root should be marked partial once the node budget is exhausted")
	}
}

func TestRunSkipPolicy(t *testing.T) {
	root := buildTree(t)
	policy := skip.New(skip.ModeNormal, false, []string{"b"})

	snap, err := Run(root, Options{Threads: 2, Policy: policy})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, ok := findChild(snap, snap.Root(), "b"); ok {
		t.Error(`"b" should have been excluded by the skip policy`)
	}
	if snap.Stats.SkippedPolicy == 0 {
		t.Error("expected SkippedPolicy > 0")
	}
}

func TestRunCancelledReturnsPartialSnapshot(t *testing.T) {
	root := buildTree(t)

	cancelled := make(chan struct{})
	close(cancelled)

	snap, err := Run(root, Options{Threads: 2, Cancelled: cancelled})
	if err != ErrCancelled {
		t.Fatalf("Run: err = %v, want ErrCancelled", err)
	}
	if snap == nil {
		t.Fatal("expected a non-nil partial snapshot on cancellation")
	}
	if !snap.Node(snap.Root()).IsPartial {
		t.Error("root should be marked partial when cancelled before it is ever processed")
	}
}

func TestRunMissingRoot(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "nope"), Options{})
	if err == nil {
		t.Fatal("expected an error for a nonexistent root")
	}
}

func TestRunSymlinkedDirectoryNotDescended(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on Windows")
	}

	root := buildTree(t)
	link := filepath.Join(root, "link-to-a")
	if err := os.Symlink(filepath.Join(root, "a"), link); err != nil {
		t.Fatal(err)
	}

	snap, err := Run(root, Options{Threads: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	linkNode, ok := findChild(snap, snap.Root(), "link-to-a")
	if !ok {
		t.Fatal(`expected child "link-to-a" at root`)
	}
	if !snap.Node(linkNode).IsSymlink {
		t.Error("link-to-a should be marked as a symlink")
	}
	if len(snap.Children(linkNode)) != 0 {
		t.Error("a symlinked directory must never be descended into")
	}
}

func TestOptionsResolvedThreadsCap(t *testing.T) {
	if got := (Options{Threads: 1000}).resolvedThreads(); got != maxWorkers {
		t.Errorf("resolvedThreads() = %d, want %d", got, maxWorkers)
	}
	if got := (Options{Threads: 0}).resolvedThreads(); got < 1 {
		t.Errorf("resolvedThreads() with Threads=0 = %d, want >= 1", got)
	}
}

func TestRunCompletesPromptly(t *testing.T) {
	root := buildTree(t)
	done := make(chan struct{})
	go func() {
		Run(root, Options{Threads: 8})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not complete within 5s; possible deadlock in worker termination")
	}
}
