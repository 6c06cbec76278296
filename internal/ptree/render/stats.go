package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/winux-core/ptree/internal/ptree/snapshot"
)

// FormatStats renders the --stats summary line: directory/file counts with
// thousands separators and a human-readable elapsed duration, matching how
// the teacher formats transfer summaries with go-humanize.
func FormatStats(stats snapshot.Stats) string {
	elapsed := time.Duration(stats.ElapsedNanos)
	return fmt.Sprintf(
		"%s directories, %s files, %s skipped (policy), %s skipped (error), %s elapsed",
		humanize.Comma(int64(stats.TotalDirectories)),
		humanize.Comma(int64(stats.TotalFiles)),
		humanize.Comma(int64(stats.SkippedPolicy)),
		humanize.Comma(int64(stats.SkippedError)),
		elapsed.Round(time.Millisecond),
	)
}
