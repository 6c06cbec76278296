// Package scan implements the parallel, work-stealing directory traversal
// engine described in spec.md §4.4: a bounded-memory depth-first enumerator
// that produces a snapshot.Snapshot from a live filesystem.
package scan

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/winux-core/ptree/internal/ptree/fsutil"
	"github.com/winux-core/ptree/internal/ptree/skip"
	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// task describes one directory awaiting enumeration.
type task struct {
	node  snapshot.NodeIndex
	path  string
	depth int
}

// candidate is a subdirectory-or-symlink-to-directory entry discovered while
// listing a directory, pending a node-budget reservation.
type candidate struct {
	name      string
	isSymlink bool
	fullPath  string
}

// Engine runs one scan to completion. A new Engine is created per scan; it
// is not reused.
type Engine struct {
	opts    Options
	policy  *skip.Policy
	builder *snapshot.Builder
	guard   *fsutil.CycleGuard

	deques []*deque

	pending int64 // atomic

	nodeBudget int64 // atomic

	idleMu   sync.Mutex
	idleCond *sync.Cond

	directories   int64 // atomic
	files         int64 // atomic
	skippedPolicy int64 // atomic
	skippedError  int64 // atomic
}

// Run scans root and returns the resulting Snapshot. On a fatal error
// (unreadable root) it returns a nil Snapshot and a wrapped
// ErrRootUnavailable. On cancellation it returns a partial Snapshot and
// ErrCancelled.
func Run(root string, opts Options) (*snapshot.Snapshot, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(ErrRootUnavailable, err.Error())
	}
	info, err := os.Lstat(absRoot)
	if err != nil {
		return nil, errors.Wrap(ErrRootUnavailable, err.Error())
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
			absRoot = resolved
			info, err = os.Lstat(absRoot)
			if err != nil {
				return nil, errors.Wrap(ErrRootUnavailable, err.Error())
			}
		} else {
			return nil, errors.Wrap(ErrRootUnavailable, err.Error())
		}
	}
	if !info.IsDir() {
		return nil, errors.Wrap(ErrRootUnavailable, "root is not a directory")
	}

	rootIdentity, err := fsutil.IdentityOf(absRoot)
	if err != nil {
		return nil, errors.Wrap(ErrRootUnavailable, err.Error())
	}

	builder, rootIdx := snapshot.NewBuilder(absRoot, 1024)

	guard := fsutil.NewCycleGuard()
	guard.TryEnter(rootIdentity)

	e := &Engine{
		opts:       opts,
		policy:     opts.resolvedPolicy(),
		builder:    builder,
		guard:      guard,
		nodeBudget: opts.resolvedMaxNodes() - 1,
		pending:    1,
	}
	e.idleCond = sync.NewCond(&e.idleMu)

	numWorkers := opts.resolvedThreads()
	e.deques = make([]*deque, numWorkers)
	for i := range e.deques {
		e.deques[i] = newDeque()
	}
	e.deques[0].pushBottom(task{node: rootIdx, path: absRoot, depth: 0})

	opts.Logger.Debugf("scanning %s with %d workers", absRoot, numWorkers)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(id int) {
			defer wg.Done()
			e.workerLoop(id)
		}(i)
	}
	wg.Wait()

	stats := snapshot.Stats{
		TotalDirectories: uint64(atomic.LoadInt64(&e.directories)),
		TotalFiles:       uint64(atomic.LoadInt64(&e.files)),
		SkippedPolicy:    uint64(atomic.LoadInt64(&e.skippedPolicy)),
		SkippedError:     uint64(atomic.LoadInt64(&e.skippedError)),
		ElapsedNanos:     uint64(time.Since(start).Nanoseconds()),
	}

	snap := builder.Finish(absRoot, time.Now(), opts.HostFingerprint, stats)

	opts.Logger.Debugf(
		"scan complete: %d directories, %d files, %d skipped by policy, %d skipped on error",
		stats.TotalDirectories, stats.TotalFiles, stats.SkippedPolicy, stats.SkippedError,
	)

	select {
	case <-opts.cancelled():
		return snap, ErrCancelled
	default:
	}
	return snap, nil
}

// workerLoop is the per-worker fetch/process cycle: pop from its own deque,
// else steal from a random peer, else park until either new work appears or
// the scan is globally done.
func (e *Engine) workerLoop(id int) {
	for {
		if t, ok := e.deques[id].popBottom(); ok {
			e.process(id, t)
			continue
		}
		if t, ok := e.steal(id); ok {
			e.process(id, t)
			continue
		}
		if atomic.LoadInt64(&e.pending) == 0 {
			return
		}
		e.idleMu.Lock()
		if atomic.LoadInt64(&e.pending) != 0 {
			e.idleCond.Wait()
		}
		e.idleMu.Unlock()
	}
}

// steal tries every other worker's deque once, starting from a random
// offset so that concurrent thieves don't pile onto the same victim.
func (e *Engine) steal(id int) (task, bool) {
	n := len(e.deques)
	if n <= 1 {
		return task{}, false
	}
	start := rand.Intn(n)
	for i := 0; i < n; i++ {
		victim := (start + i) % n
		if victim == id {
			continue
		}
		if t, ok := e.deques[victim].stealTop(); ok {
			return t, true
		}
	}
	return task{}, false
}

// finishTask decrements the pending counter and, if this was the last
// outstanding task, wakes every parked worker so they can observe
// termination and exit.
func (e *Engine) finishTask() {
	if atomic.AddInt64(&e.pending, -1) == 0 {
		e.idleMu.Lock()
		e.idleCond.Broadcast()
		e.idleMu.Unlock()
	}
}

// addTask registers a newly discovered directory task and pushes it to the
// current worker's own deque, then wakes any idle peers that might steal it.
func (e *Engine) addTask(id int, t task) {
	atomic.AddInt64(&e.pending, 1)
	e.deques[id].pushBottom(t)
	e.idleMu.Lock()
	e.idleCond.Broadcast()
	e.idleMu.Unlock()
}

// reserveNodes atomically takes up to want units from the global node
// budget and returns how many were actually granted.
func (e *Engine) reserveNodes(want int) int {
	if want <= 0 {
		return 0
	}
	for {
		cur := atomic.LoadInt64(&e.nodeBudget)
		if cur <= 0 {
			return 0
		}
		take := int64(want)
		if take > cur {
			take = cur
		}
		if atomic.CompareAndSwapInt64(&e.nodeBudget, cur, cur-take) {
			return int(take)
		}
	}
}

// process enumerates one directory, creates child nodes for its
// subdirectories and symlinked directories, seals it, and pushes new tasks
// for every subdirectory it will descend into.
func (e *Engine) process(workerID int, t task) {
	defer e.finishTask()

	select {
	case <-e.opts.cancelled():
		e.builder.MarkPartial(t.node)
		e.builder.Seal(t.node)
		return
	default:
	}

	atomic.AddInt64(&e.directories, 1)
	e.opts.Logger.Trace("worker", workerID, "visiting", t.path)

	if t.depth >= e.opts.resolvedMaxDepth() {
		e.builder.MarkPartial(t.node)
		e.builder.Seal(t.node)
		return
	}

	f, err := os.Open(t.path)
	if err != nil {
		e.opts.Logger.Warn(errors.Wrapf(err, "open %s", t.path))
		e.builder.MarkPartial(t.node)
		atomic.AddInt64(&e.skippedError, 1)
		e.builder.Seal(t.node)
		return
	}
	defer f.Close()

	var fileCount uint32
	var candidates []candidate
	truncatedByError := false

batches:
	for {
		select {
		case <-e.opts.cancelled():
			truncatedByError = true
			break batches
		default:
		}

		entries, rerr := f.Readdir(defaultScanBatchSize)
		for _, info := range entries {
			name := info.Name()
			childPath := filepath.Join(t.path, name)

			if info.Mode()&os.ModeSymlink != 0 {
				target, statErr := os.Stat(childPath)
				if statErr == nil && target.IsDir() {
					if descend, _ := e.policy.Decide(childPath, name, t.depth+1); !descend {
						atomic.AddInt64(&e.skippedPolicy, 1)
						continue
					}
					candidates = append(candidates, candidate{name: name, isSymlink: true, fullPath: childPath})
					continue
				}
				fileCount++
				continue
			}

			if info.IsDir() {
				if descend, _ := e.policy.Decide(childPath, name, t.depth+1); !descend {
					atomic.AddInt64(&e.skippedPolicy, 1)
					continue
				}
				candidates = append(candidates, candidate{name: name, fullPath: childPath})
				continue
			}

			fileCount++
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			truncatedByError = true
			break
		}
		if len(entries) == 0 {
			break
		}
	}

	if truncatedByError {
		e.builder.MarkPartial(t.node)
		atomic.AddInt64(&e.skippedError, 1)
	}

	want := len(candidates)
	reserved := e.reserveNodes(want)
	if reserved < want {
		e.builder.MarkPartial(t.node)
		candidates = candidates[:reserved]
	}

	e.builder.SetFileCount(t.node, fileCount)
	atomic.AddInt64(&e.files, int64(fileCount))

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	childIndices := e.builder.AddChildren(t.node, names)

	for i, c := range candidates {
		idx := childIndices[i]

		if c.isSymlink {
			e.builder.MarkSymlink(idx)
			atomic.AddInt64(&e.skippedError, 1) // symlink-to-directory: never descended
			e.builder.Seal(idx)
			continue
		}

		identity, err := fsutil.IdentityOf(c.fullPath)
		if err != nil {
			e.builder.MarkPartial(idx)
			atomic.AddInt64(&e.skippedError, 1)
			e.builder.Seal(idx)
			continue
		}
		if alreadyVisited := e.guard.TryEnter(identity); alreadyVisited {
			e.builder.MarkPartial(idx)
			atomic.AddInt64(&e.skippedError, 1)
			e.builder.Seal(idx)
			continue
		}

		e.addTask(workerID, task{node: idx, path: c.fullPath, depth: t.depth + 1})
	}

	e.builder.Seal(t.node)
}
