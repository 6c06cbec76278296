package cache

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Fingerprint deterministically derives the 16-byte host_fingerprint field
// from the current machine's hostname and the scan root's device ID. Two
// runs on the same machine against the same volume always produce the same
// fingerprint; copying a cache file to a different machine, or onto a
// different volume, reliably changes it. uuid.NewSHA1 gives us a stable,
// fixed-width digest for free instead of hand-rolling a hash-to-16-bytes
// scheme.
func Fingerprint(rootDeviceID uint64) [16]byte {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}
	name := fmt.Sprintf("%s:%d", hostname, rootDeviceID)
	return uuid.NewSHA1(uuid.Nil, []byte(name))
}
