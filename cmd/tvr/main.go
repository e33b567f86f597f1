// Command tvr is the tvratings companion CLI.
//
// Usage:
//
//	tvr fetch <series>       Fetch and render ratings once
//	tvr history              Recent searches
//	tvr events               JSONL event log viewer
//	tvr schedule <series>    Ask the job service to extract a series
//	tvr job <id>             Show an extraction job
//	tvr config show|init     Inspect or create the config file
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "tvr:", err)
		}
		os.Exit(1)
	}
}
