// Package orchestrator composes the Cache Store and Traversal Engine per
// spec.md §4.6, and maps the result onto the exit codes of §6.
package orchestrator

import (
	"io"
	"time"

	"github.com/winux-core/ptree/internal/ptree/render"
	"github.com/winux-core/ptree/internal/ptree/skip"
	"github.com/winux-core/ptree/pkg/logging"
)

// Config is the fully resolved set of inputs for one ptree invocation,
// assembled by cmd/ptree from parsed flags.
type Config struct {
	// Root is the scan root. It must already be resolved (drive-letter
	// fallback applied, or cwd substituted) by the caller.
	Root string

	Force   bool
	Admin   bool
	NoCache bool

	// CacheDir is the user-supplied --cache-dir override, or empty to use
	// the platform default from cachepath.
	CacheDir   string
	CacheTTL   time.Duration
	TrustCache bool

	Quiet  bool
	Format render.Format
	Color  render.ColorMode

	MaxDisplayDepth int
	Threads         int

	ShowHidden bool
	SkipNames  []string

	Stats bool

	Logger *logging.Logger

	Stdout    io.Writer
	Stderr    io.Writer
	Cancelled <-chan struct{}
}

func (c Config) skipPolicy() *skip.Policy {
	mode := skip.ModeNormal
	if c.Admin {
		mode = skip.ModeAdmin
	}
	return skip.New(mode, c.ShowHidden, c.SkipNames)
}
