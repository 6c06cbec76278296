package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdutil "github.com/winux-core/ptree/cmd"
	"github.com/winux-core/ptree/internal/ptree/cache"
	"github.com/winux-core/ptree/internal/ptree/cachepath"
)

// cacheInfoCommand implements a read-only "cache info" subcommand, echoing
// the teacher's list/monitor commands: it reports what's on disk without
// performing a scan or touching the node arena.
var cacheInfoCommand = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the on-disk scan cache",
}

var cacheInfoPathFlag string

func init() {
	cacheInfoCommand.AddCommand(cacheInfoInfoCommand)
	cacheInfoInfoCommand.Flags().StringVar(&cacheInfoPathFlag, "cache-dir", "", "cache directory override")
}

var cacheInfoInfoCommand = &cobra.Command{
	Use:          "info",
	Short:        "Print the cache file's header summary",
	Args:         cmdutil.DisallowArguments,
	SilenceUsage: true,
	Run:          cmdutil.Mainify(runCacheInfo),
}

func runCacheInfo(command *cobra.Command, arguments []string) error {
	path := cacheInfoPathFlag
	if path == "" {
		resolved, err := cachepath.Default()
		if err != nil {
			return err
		}
		path = resolved
	} else {
		path = cachepath.WithDir(path)
	}

	info, err := cache.Info(path)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Fprintf(os.Stdout, "no cache at %s\n", path)
		return nil
	}

	fmt.Fprintf(os.Stdout, "path:       %s\n", path)
	fmt.Fprintf(os.Stdout, "created at: %s\n", info.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(os.Stdout, "nodes:      %d\n", info.NodeCount)
	fmt.Fprintf(os.Stdout, "size:       %d bytes\n", info.Bytes)
	return nil
}
