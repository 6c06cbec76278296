package scan

import "sync"

// deque is a per-worker double-ended task queue: the owning worker pushes
// and pops from the bottom (LIFO, for cache locality on freshly discovered
// subdirectories), while other workers steal from the top (FIFO, so a thief
// takes the oldest, typically largest, remaining work). It's implemented as
// a plain mutex-guarded slice rather than a lock-free Chase-Lev ring buffer:
// the mutex is only ever held for a slice append/truncate, and contention is
// low because a worker's own pushes/pops never contend with anything but an
// occasional steal.
type deque struct {
	mu    sync.Mutex
	tasks []task
}

func newDeque() *deque {
	return &deque{tasks: make([]task, 0, 64)}
}

// pushBottom is called only by the owning worker.
func (d *deque) pushBottom(t task) {
	d.mu.Lock()
	d.tasks = append(d.tasks, t)
	d.mu.Unlock()
}

// popBottom is called only by the owning worker.
func (d *deque) popBottom() (task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.tasks)
	if n == 0 {
		return task{}, false
	}
	t := d.tasks[n-1]
	d.tasks = d.tasks[:n-1]
	return t, true
}

// stealTop is called by any worker other than the owner.
func (d *deque) stealTop() (task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.tasks) == 0 {
		return task{}, false
	}
	t := d.tasks[0]
	d.tasks = d.tasks[1:]
	return t, true
}

func (d *deque) empty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks) == 0
}
