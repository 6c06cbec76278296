package orchestrator

import (
	"errors"
	"fmt"

	"github.com/winux-core/ptree/internal/ptree/cache"
	"github.com/winux-core/ptree/internal/ptree/cachepath"
	"github.com/winux-core/ptree/internal/ptree/fsutil"
	"github.com/winux-core/ptree/internal/ptree/render"
	"github.com/winux-core/ptree/internal/ptree/scan"
	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// Run executes one ptree invocation end to end and returns the process exit
// code described in spec.md §6. It never itself calls os.Exit; cmd/ptree
// does that with the returned value.
func Run(cfg Config) int {
	logger := cfg.Logger.Sublogger("orchestrator")

	cachePath, usingCache := resolveCachePath(cfg)

	var hostFingerprint [16]byte
	if usingCache {
		if deviceID, err := fsutil.DeviceIDOf(cfg.Root); err == nil {
			hostFingerprint = cache.Fingerprint(deviceID)
		}
	}

	var snap *snapshot.Snapshot

	if usingCache && !cfg.Force {
		loaded, err := cache.Load(cachePath, cache.LoadOptions{
			HostFingerprint: hostFingerprint,
			TTL:             cfg.CacheTTL,
			TrustCache:      cfg.TrustCache,
		})
		if err != nil {
			logger.Error(fmt.Errorf("cache load: %w", err))
			return ExitCacheFormat
		}
		if loaded != nil {
			logger.Debugf("cache hit at %s", cachePath)
			snap = loaded
		}
	}

	cancelledDuringScan := false
	if snap == nil {
		scanOpts := scan.Options{
			Threads:         cfg.Threads,
			MaxDepth:        -1,
			MaxNodes:        0,
			Policy:          cfg.skipPolicy(),
			Logger:          cfg.Logger,
			Cancelled:       cfg.Cancelled,
			HostFingerprint: hostFingerprint,
		}

		result, err := scan.Run(cfg.Root, scanOpts)
		if err != nil {
			if errors.Is(err, scan.ErrRootUnavailable) {
				logger.Error(err)
				return ExitIOError
			}
			if errors.Is(err, scan.ErrCancelled) {
				cancelledDuringScan = true
			} else {
				logger.Error(err)
				return ExitIOError
			}
		}
		snap = result

		if usingCache && !cancelledDuringScan {
			if err := cache.Store(cachePath, snap, hostFingerprint); err != nil {
				logger.Warn(fmt.Errorf("cache store: %w", err))
			}
		}
	}

	if cfg.Stats {
		fmt.Fprintln(cfg.Stderr, render.FormatStats(snap.Stats))
	}

	if !cfg.Quiet {
		opts := render.Options{
			Format:          cfg.Format,
			Color:           cfg.Color,
			MaxDisplayDepth: cfg.MaxDisplayDepth,
		}
		if err := render.Render(cfg.Stdout, snap, opts); err != nil {
			logger.Error(err)
			return ExitIOError
		}
	}

	if cancelledDuringScan {
		return ExitCancelled
	}
	return ExitSuccess
}

// resolveCachePath returns the effective cache file path and whether the
// cache is in play at all for this run (--no-cache disables both read and
// write).
func resolveCachePath(cfg Config) (string, bool) {
	if cfg.NoCache {
		return "", false
	}
	if cfg.CacheDir != "" {
		return cachepath.WithDir(cfg.CacheDir), true
	}
	path, err := cachepath.Default()
	if err != nil {
		return "", false
	}
	return path, true
}
