// Command oggdecode drives the decode pipeline library from the command
// line: playback timing simulation, resource-usage sampling, and
// first-frame snapshotting.
package main

import (
	"fmt"
	"os"

	"github.com/fathomsound/oggdecode/cmd/oggdecode/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
