package logging

import (
	"log"
	"os"
)

func init() {
	// Set the global logger to use standard error so that diagnostic output
	// never interleaves with tree/JSON output written to standard output.
	log.SetOutput(os.Stderr)
	log.SetFlags(0)
}
