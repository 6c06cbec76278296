//go:build !windows

package cache

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// fileLock is an advisory, exclusive, non-blocking flock(2) held on a file
// descriptor for the duration of a Store call.
type fileLock struct {
	f *os.File
}

// acquireLock tries to take an exclusive advisory lock on path within
// timeout, retrying on a short backoff. It never blocks past timeout.
func acquireLock(path string, timeout time.Duration) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &fileLock{f: f}, nil
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, ErrLockTimeout
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (l *fileLock) release() error {
	defer l.f.Close()
	return unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
}
