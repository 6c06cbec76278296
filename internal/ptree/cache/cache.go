package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// lockTimeout bounds how long Store waits for the advisory write lock
// before giving up on publishing, per spec.md §4.3's "short timeout".
const lockTimeout = 500 * time.Millisecond

// CacheInfo summarizes a cache file without materializing its node arena,
// mirroring spec.md §4.3's `info(path) → Option<CacheInfo>`.
type CacheInfo struct {
	CreatedAt time.Time
	NodeCount uint64
	Bytes     int64
}

// LoadOptions controls the freshness gate applied by Load.
type LoadOptions struct {
	// HostFingerprint must match the file's stored fingerprint, unless
	// TrustCache is set.
	HostFingerprint [16]byte
	// TTL is the maximum age a cache entry may have to be considered fresh.
	// Zero means every call is treated as stale (always rescan); negative
	// disables the freshness gate entirely (any age is accepted).
	TTL time.Duration
	// TrustCache skips both the CRC-32C check and the host-fingerprint
	// comparison, accepting whatever is on disk as long as the header
	// parses. It does not bypass the TTL gate.
	TrustCache bool
}

// Load returns the Snapshot stored at path if present and fresh under opts,
// or (nil, nil) if it is missing, corrupt, foreign-host, or stale — Load
// never returns an error for those cases, only for genuinely unexpected
// I/O failures, matching the Option<Snapshot> contract of spec.md §4.3.
func Load(path string, opts LoadOptions) (*snapshot.Snapshot, error) {
	m, err := openMapping(path)
	if err != nil {
		if os.IsNotExist(err) || err == ErrCorrupt {
			return nil, nil
		}
		return nil, err
	}
	defer m.close()

	buf := m.bytes()
	if len(buf) < headerLen {
		return nil, nil
	}

	h, err := decodeHeader(buf[:headerLen])
	if err != nil {
		return nil, nil
	}
	if !opts.TrustCache && h.hostFingerprint != opts.HostFingerprint {
		return nil, nil
	}
	if !freshEnough(h.createdAtUnix, opts.TTL) {
		return nil, nil
	}

	snap, _, err := decode(buf, opts.TrustCache)
	if err != nil {
		return nil, nil
	}
	return snap, nil
}

func freshEnough(createdAtUnix int64, ttl time.Duration) bool {
	if ttl < 0 {
		return true
	}
	if ttl == 0 {
		return false
	}
	age := time.Since(time.Unix(createdAtUnix, 0))
	return age <= ttl
}

// Store atomically publishes snap to path: encode to a temp file in the
// same directory, fsync, then rename over the destination. An advisory
// exclusive lock on path+".lock" is held for the duration; if it can't be
// acquired within lockTimeout, Store returns ErrLockTimeout and leaves the
// prior file (if any) untouched — the caller's freshly scanned Snapshot
// remains valid for its own run regardless.
func Store(path string, snap *snapshot.Snapshot, hostFingerprint [16]byte) error {
	lock, err := acquireLock(path+".lock", lockTimeout)
	if err != nil {
		return err
	}
	defer lock.release()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	buf := encode(snap, hostFingerprint)
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return atomicRename(tmpPath, path)
}

// Info reads just the header and file size, without decoding the node
// arena, matching spec.md §4.3's O(1) info operation.
func Info(path string) (*CacheInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() < headerLen {
		return nil, nil
	}

	buf := make([]byte, headerLen)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return nil, nil
	}

	return &CacheInfo{
		CreatedAt: time.Unix(h.createdAtUnix, 0).UTC(),
		NodeCount: h.nodeCount,
		Bytes:     stat.Size(),
	}, nil
}
