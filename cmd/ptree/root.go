package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cmdutil "github.com/winux-core/ptree/cmd"
	"github.com/winux-core/ptree/internal/ptree/orchestrator"
	"github.com/winux-core/ptree/internal/ptree/render"
	"github.com/winux-core/ptree/pkg/logging"
)

// exitCode is set by rootCommand's RunE and read by main after Execute
// returns, so that the orchestrator's own 0-3 exit codes (spec.md §6) are
// honored without Cobra's default "error implies exit 1" behavior getting
// in the way of codes 2 and 3.
var exitCode = orchestrator.ExitSuccess

var flags struct {
	drive      string
	root       string
	force      bool
	admin      bool
	cacheTTL   int
	cacheDir   string
	noCache    bool
	trustCache bool
	quiet      bool
	format     string
	color      string
	maxDepth   int
	threads    int
	hidden     bool
	skip       string
	stats      bool
	logLevel   string
}

var rootCommand = &cobra.Command{
	Use:          "ptree",
	Short:        "Render a directory tree, with parallel scanning and an on-disk cache",
	Args:         cmdutil.DisallowArguments,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&flags.drive, "drive", "d", "C", "Windows drive letter scan root")
	flagSet.StringVar(&flags.root, "root", "", "explicit scan root (overrides --drive)")
	flagSet.BoolVarP(&flags.force, "force", "f", false, "bypass cache read")
	flagSet.BoolVarP(&flags.admin, "admin", "a", false, "disable system-directory skip rule")
	flagSet.IntVar(&flags.cacheTTL, "cache-ttl", 3600, "freshness window in seconds (0 = always rescan)")
	flagSet.StringVar(&flags.cacheDir, "cache-dir", "", "cache directory override")
	flagSet.BoolVar(&flags.noCache, "no-cache", false, "skip cache read and write")
	flagSet.BoolVar(&flags.trustCache, "trust-cache", false, "skip the cache CRC and host-fingerprint check")
	flagSet.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress render output")
	flagSet.StringVar(&flags.format, "format", "tree", `output format: "tree" or "json"`)
	flagSet.StringVar(&flags.color, "color", "auto", `color mode: "auto", "always", or "never"`)
	flagSet.IntVarP(&flags.maxDepth, "max-depth", "m", -1, "display depth limit (unlimited if negative)")
	flagSet.IntVarP(&flags.threads, "threads", "j", 0, "worker thread count (0 = 2x logical cores)")
	flagSet.BoolVar(&flags.hidden, "hidden", false, "show hidden entries")
	flagSet.StringVar(&flags.skip, "skip", "", "extra skip names, comma-separated")
	flagSet.BoolVar(&flags.stats, "stats", false, "emit a timing/statistics summary")
	flagSet.StringVar(&flags.logLevel, "log-level", "info", "disabled, error, warn, info, debug, or trace")

	rootCommand.AddCommand(cacheInfoCommand)
}

func run(command *cobra.Command, arguments []string) error {
	level, ok := logging.NameToLevel(flags.logLevel)
	if !ok {
		return fmt.Errorf("invalid --log-level value: %s", flags.logLevel)
	}
	logger := logging.NewRoot(level)

	root, err := resolveRoot()
	if err != nil {
		return err
	}

	format, err := parseFormat(flags.format)
	if err != nil {
		return err
	}
	colorMode, err := parseColor(flags.color)
	if err != nil {
		return err
	}

	var skipNames []string
	if strings.TrimSpace(flags.skip) != "" {
		for _, name := range strings.Split(flags.skip, ",") {
			if name = strings.TrimSpace(name); name != "" {
				skipNames = append(skipNames, name)
			}
		}
	}

	cfg := orchestrator.Config{
		Root:            root,
		Force:           flags.force,
		Admin:           flags.admin,
		NoCache:         flags.noCache,
		CacheDir:        flags.cacheDir,
		CacheTTL:        time.Duration(flags.cacheTTL) * time.Second,
		TrustCache:      flags.trustCache,
		Quiet:           flags.quiet,
		Format:          format,
		Color:           colorMode,
		MaxDisplayDepth: flags.maxDepth,
		Threads:         flags.threads,
		ShowHidden:      flags.hidden,
		SkipNames:       skipNames,
		Stats:           flags.stats,
		Logger:          logger,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Cancelled:       installSignalCancellation(logger),
	}

	exitCode = orchestrator.Run(cfg)
	return nil
}

func resolveRoot() (string, error) {
	if flags.root != "" {
		return flags.root, nil
	}
	if runtime.GOOS == "windows" && flags.drive != "" {
		return filepath.VolumeName(flags.drive+":") + `\`, nil
	}
	return os.Getwd()
}

func parseFormat(s string) (render.Format, error) {
	switch strings.ToLower(s) {
	case "tree", "":
		return render.FormatTree, nil
	case "json":
		return render.FormatJSON, nil
	default:
		return 0, fmt.Errorf(`invalid --format value: %s (want "tree" or "json")`, s)
	}
}

func parseColor(s string) (render.ColorMode, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return render.ColorAuto, nil
	case "always":
		return render.ColorAlways, nil
	case "never":
		return render.ColorNever, nil
	default:
		return 0, fmt.Errorf(`invalid --color value: %s (want "auto", "always", or "never")`, s)
	}
}
