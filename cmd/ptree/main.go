// Command ptree scans a directory tree in parallel and renders it as an
// ASCII tree or as JSON, optionally backed by an on-disk cache.
package main

import (
	"os"

	"github.com/winux-core/ptree/cmd"
)

func main() {
	if err := rootCommand.Execute(); err != nil {
		cmd.Error(err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
