package scan

import (
	"runtime"

	"github.com/winux-core/ptree/internal/ptree/skip"
	"github.com/winux-core/ptree/pkg/logging"
)

// maxWorkers caps the worker count regardless of what's requested, matching
// spec.md §4.4 ("capped at 64").
const maxWorkers = 64

// defaultScanBatchSize is the number of directory entries drained per
// Readdir call, per spec.md §4.4 point 4.
const defaultScanBatchSize = 64

// Options configures a scan.
type Options struct {
	// Threads is the number of worker goroutines. Zero or negative selects
	// 2x the logical CPU count, capped at maxWorkers.
	Threads int
	// MaxDepth is the deepest directory the engine will descend into,
	// measured from the root at depth 0. A negative value means unlimited.
	MaxDepth int
	// MaxNodes bounds the total number of nodes the resulting Snapshot may
	// contain. Zero or negative means unlimited.
	MaxNodes int
	// Policy decides which directories are descended into.
	Policy *skip.Policy
	// Logger receives diagnostic output. A nil logger disables all logging.
	Logger *logging.Logger
	// Cancelled is polled between directory tasks; once closed, every
	// not-yet-sealed directory becomes partial and the scan stops early.
	Cancelled <-chan struct{}
	// HostFingerprint is stamped into the resulting Snapshot verbatim; the
	// scan package never computes it itself (see cache.Fingerprint).
	HostFingerprint [16]byte
}

func (o Options) resolvedThreads() int {
	if o.Threads > 0 {
		if o.Threads > maxWorkers {
			return maxWorkers
		}
		return o.Threads
	}
	n := 2 * runtime.NumCPU()
	if n > maxWorkers {
		n = maxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (o Options) resolvedMaxNodes() int64 {
	if o.MaxNodes <= 0 {
		return 1<<62 - 1
	}
	return int64(o.MaxNodes)
}

func (o Options) resolvedMaxDepth() int {
	if o.MaxDepth < 0 {
		return 1<<31 - 1
	}
	return o.MaxDepth
}

func (o Options) resolvedPolicy() *skip.Policy {
	if o.Policy != nil {
		return o.Policy
	}
	return skip.New(skip.ModeNormal, false, nil)
}

func (o Options) cancelled() <-chan struct{} {
	if o.Cancelled != nil {
		return o.Cancelled
	}
	never := make(chan struct{})
	return never
}
