// Package skip implements the pure predicate deciding which directories the
// traversal engine descends into.
package skip

import (
	"runtime"
	"strings"
)

// Mode selects which set of rules applies, mirroring the teacher's tagged
// "mode" enums (e.g. synchronization SymbolicLinkMode) rather than a bag of
// booleans.
type Mode uint8

const (
	// ModeNormal applies the system-directory rule, the hidden-name rule,
	// and the user skip set.
	ModeNormal Mode = iota
	// ModeAdmin bypasses the system-directory rule but still applies the
	// hidden-name rule and the user skip set.
	ModeAdmin
)

// Reason identifies why a directory was excluded from descent. The zero
// value, ReasonNone, means the directory was not skipped.
type Reason uint8

const (
	// ReasonNone indicates the directory should be descended into.
	ReasonNone Reason = iota
	// ReasonSystemDirectory indicates a well-known system directory was
	// matched in normal mode.
	ReasonSystemDirectory
	// ReasonUserSkip indicates the name matched the user-supplied skip set.
	ReasonUserSkip
	// ReasonHidden indicates the name is hidden and --hidden was not given.
	ReasonHidden
)

// String returns a human-readable label for the reason.
func (r Reason) String() string {
	switch r {
	case ReasonSystemDirectory:
		return "system"
	case ReasonUserSkip:
		return "user"
	case ReasonHidden:
		return "hidden"
	default:
		return "none"
	}
}

// systemDirectories is the fixed set of well-known system directories
// skipped in ModeNormal, specialized per platform per spec.md §4.1. Names
// are matched case-insensitively against a directory's final path
// component, regardless of depth.
var systemDirectories = buildSystemDirectorySet()

func buildSystemDirectorySet() map[string]struct{} {
	names := []string{
		"proc", "sys", "dev", "run", "tmp",
	}
	if runtime.GOOS == "windows" {
		names = append(names,
			"Windows", "Program Files", "Program Files (x86)",
			"ProgramData", "$Recycle.Bin", "System Volume Information",
			"Temp",
		)
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}

// Policy is the configured, reusable predicate. It is immutable after
// construction and therefore safe to share across all traversal workers.
type Policy struct {
	mode       Mode
	showHidden bool
	extra      map[string]struct{}
}

// New builds a Policy. extraSkipNames is the user-supplied --skip list
// (compared case-insensitively, exact name match, not a glob).
func New(mode Mode, showHidden bool, extraSkipNames []string) *Policy {
	extra := make(map[string]struct{}, len(extraSkipNames))
	for _, name := range extraSkipNames {
		name = strings.TrimSpace(name)
		if name != "" {
			extra[strings.ToLower(name)] = struct{}{}
		}
	}
	return &Policy{mode: mode, showHidden: showHidden, extra: extra}
}

// isHidden reports whether name is a hidden entry by the Unix dot-file
// convention. This is the only hidden-entry test on every platform: neither
// this predicate nor the traversal engine consults Windows'
// FILE_ATTRIBUTE_HIDDEN, so an attribute-hidden directory without a leading
// dot is treated as visible.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Decide reports whether the traversal engine should descend into the named
// directory, and if not, why. path is the directory's absolute path (unused
// by the current rule set but retained for rules that need more context than
// the name, e.g. a future exact-path skip list); depth is the directory's
// distance from the scan root. Decide has no side effects and is safe for
// concurrent use from any number of goroutines.
func (p *Policy) Decide(path, name string, depth int) (descend bool, reason Reason) {
	_ = path
	_ = depth

	if _, skip := p.extra[strings.ToLower(name)]; skip {
		return false, ReasonUserSkip
	}

	if !p.showHidden && isHidden(name) {
		return false, ReasonHidden
	}

	if p.mode == ModeNormal {
		if _, skip := systemDirectories[strings.ToLower(name)]; skip {
			return false, ReasonSystemDirectory
		}
	}

	return true, ReasonNone
}
