package snapshot

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// foldKey computes the case-insensitive sort key for a name: NFC-normalize
// first (so that a decomposed and a precomposed form of the same visible name
// compare equal, matching how the teacher's scanner handles filesystems that
// decompose Unicode on write) and then fold case.
func foldKey(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}

// less implements the total order from the data model: ascending
// case-insensitive by name, with a case-sensitive tiebreak so that two names
// differing only in case still sort deterministically.
func less(a, b string) bool {
	ak, bk := foldKey(a), foldKey(b)
	if ak != bk {
		return ak < bk
	}
	return a < b
}
