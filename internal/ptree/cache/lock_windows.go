//go:build windows

package cache

import (
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// fileLock is an advisory, exclusive, non-blocking LockFileEx held for the
// duration of a Store call.
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

	handle := windows.Handle(f.Fd())
	var overlapped windows.Overlapped

	deadline := time.Now().Add(timeout)
	for {
		err := windows.LockFileEx(
			handle,
			windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
			0, 1, 0, &overlapped,
		)
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
	var overlapped windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(l.f.Fd()), 0, 1, 0, &overlapped)
}
