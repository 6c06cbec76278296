package scan

import "errors"

// ErrRootUnavailable indicates the scan root is missing, not a directory, or
// unreadable. It is the only error that aborts an entire scan; every other
// failure is localized to the directory that produced it and recorded as a
// partial node instead (spec.md §7).
var ErrRootUnavailable = errors.New("scan root unavailable")

// ErrCancelled indicates the scan observed its cancel flag before finishing.
// A partial Snapshot is still returned alongside this error.
var ErrCancelled = errors.New("scan cancelled")
