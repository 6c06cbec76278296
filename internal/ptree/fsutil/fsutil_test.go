package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIdentityOfSamePathIsStable(t *testing.T) {
	dir := t.TempDir()

	a, err := IdentityOf(dir)
	if err != nil {
		t.Fatalf("IdentityOf: %v", err)
	}
	b, err := IdentityOf(dir)
	if err != nil {
		t.Fatalf("IdentityOf: %v", err)
	}
	if a != b {
		t.Errorf("IdentityOf(%q) not stable: %+v vs %+v", dir, a, b)
	}
}

func TestIdentityOfDistinctDirsDiffer(t *testing.T) {
	root := t.TempDir()
	childA := filepath.Join(root, "a")
	childB := filepath.Join(root, "b")
	if err := os.Mkdir(childA, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(childB, 0o755); err != nil {
		t.Fatal(err)
	}

	idA, err := IdentityOf(childA)
	if err != nil {
		t.Fatalf("IdentityOf(childA): %v", err)
	}
	idB, err := IdentityOf(childB)
	if err != nil {
		t.Fatalf("IdentityOf(childB): %v", err)
	}
	if idA == idB {
		t.Errorf("distinct directories reported identical identity: %+v", idA)
	}
}

func TestIdentityOfMissingPath(t *testing.T) {
	if _, err := IdentityOf(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Error("IdentityOf on a missing path: want error, got nil")
	}
}

func TestDeviceIDOfMatchesIdentity(t *testing.T) {
	dir := t.TempDir()
	id, err := IdentityOf(dir)
	if err != nil {
		t.Fatalf("IdentityOf: %v", err)
	}
	device, err := DeviceIDOf(dir)
	if err != nil {
		t.Fatalf("DeviceIDOf: %v", err)
	}
	if device != id.Device {
		t.Errorf("DeviceIDOf = %d, want %d", device, id.Device)
	}
}

func TestCycleGuardTryEnter(t *testing.T) {
	g := NewCycleGuard()
	id := Identity{Device: 1, File: 42}

	if alreadyVisited := g.TryEnter(id); alreadyVisited {
		t.Error("first TryEnter reported already visited")
	}
	if alreadyVisited := g.TryEnter(id); !alreadyVisited {
		t.Error("second TryEnter on the same identity reported not visited")
	}

	other := Identity{Device: 1, File: 43}
	if alreadyVisited := g.TryEnter(other); alreadyVisited {
		t.Error("TryEnter on a distinct identity reported already visited")
	}
}

func TestCycleGuardLeaveAllowsReentry(t *testing.T) {
	g := NewCycleGuard()
	id := Identity{Device: 7, File: 9}

	g.TryEnter(id)
	g.Leave(id)
	if alreadyVisited := g.TryEnter(id); alreadyVisited {
		t.Error("TryEnter after Leave reported already visited")
	}
}

func TestCycleGuardConcurrentTryEnter(t *testing.T) {
	g := NewCycleGuard()
	const workers = 32
	done := make(chan bool, workers)
	id := Identity{Device: 1, File: 1}

	for i := 0; i < workers; i++ {
		go func() {
			done <- g.TryEnter(id)
		}()
	}

	firstCount := 0
	for i := 0; i < workers; i++ {
		if !<-done {
			firstCount++
		}
	}
	if firstCount != 1 {
		t.Errorf("exactly one goroutine should have won TryEnter, got %d", firstCount)
	}
}
