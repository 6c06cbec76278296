package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/winux-core/ptree/internal/ptree/cache"
	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// captureStdout redirects os.Stdout for the duration of fn and returns what
// was written. runCacheInfo writes straight to os.Stdout rather than taking
// an io.Writer, so this is the only way to observe it without a subprocess.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	saved := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = saved }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("close pipe writer: %v", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return string(out)
}

func TestRunCacheInfoNoCache(t *testing.T) {
	saved := cacheInfoPathFlag
	defer func() { cacheInfoPathFlag = saved }()

	dir := t.TempDir()
	cacheInfoPathFlag = dir

	out := captureStdout(t, func() {
		if err := runCacheInfo(nil, nil); err != nil {
			t.Fatalf("runCacheInfo: %v", err)
		}
	})

	if !strings.Contains(out, "no cache at") {
		t.Errorf("runCacheInfo output = %q, want a no-cache message", out)
	}
}

func TestRunCacheInfoPopulated(t *testing.T) {
	saved := cacheInfoPathFlag
	defer func() { cacheInfoPathFlag = saved }()

	dir := t.TempDir()
	cacheInfoPathFlag = dir

	b, root := snapshot.NewBuilder("/srv/root", 2)
	kids := b.AddChildren(root, []string{"alpha"})
	b.Seal(kids[0])
	b.Seal(root)
	snap := b.Finish("/srv/root", time.Now(), [16]byte{1}, snapshot.Stats{})

	path := filepath.Join(dir, "ptree.dat")
	if err := cache.Store(path, snap, [16]byte{1}); err != nil {
		t.Fatalf("cache.Store: %v", err)
	}

	out := captureStdout(t, func() {
		if err := runCacheInfo(nil, nil); err != nil {
			t.Fatalf("runCacheInfo: %v", err)
		}
	})

	for _, want := range []string{"path:", "created at:", "nodes:", "size:"} {
		if !strings.Contains(out, want) {
			t.Errorf("runCacheInfo output = %q, missing %q", out, want)
		}
	}
}
