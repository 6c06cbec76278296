package cache

import "errors"

// ErrCorrupt indicates the file is too short, or fails the magic or CRC-32C
// check. Load treats it identically to a missing file.
var ErrCorrupt = errors.New("cache: corrupt file")

// ErrUnsupportedVersion indicates a cache file written by a format version
// this binary doesn't understand.
var ErrUnsupportedVersion = errors.New("cache: unsupported format version")

// ErrStale indicates the file parsed cleanly but failed the freshness gate
// (host fingerprint mismatch or TTL exceeded).
var ErrStale = errors.New("cache: stale")

// ErrLockTimeout indicates Store could not acquire the advisory write lock
// within its timeout. Per spec.md §4.3, this is not fatal: the caller's
// freshly scanned Snapshot is still valid for the current run, it just
// won't be published to disk.
var ErrLockTimeout = errors.New("cache: lock timeout")
