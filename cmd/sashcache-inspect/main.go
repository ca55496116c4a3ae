// Command sashcache-inspect is the external diagnostic collaborator for
// sashcache (spec.md §1 "command-line parsing ... are external
// collaborators, OUT OF SCOPE" for the CORE; SPEC_FULL.md §11 gives this
// tool its own scope). It polls a running sashcached's
// /debug/sashcache/snapshot endpoint, keeps a local history in a badger
// database so `trend` can show change over time, writes one-shot reports
// atomically, and offers an interactive shell. None of this touches the
// CORE's persistence non-goal: the history store belongs to the inspector
// process, not the cache server.
//
// © 2025 sashcache authors. MIT License.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "snapshot":
		err = runSnapshot(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "trend":
		err = runTrend(os.Args[2:])
	case "shell":
		err = runShell(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Println(version)
		return
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "sashcache-inspect:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: sashcache-inspect <command> [flags]

commands:
  snapshot   fetch and print a single snapshot
  watch      poll a target repeatedly, printing each snapshot
  trend      show how a target's history store has changed since a prior run
  shell      interactive REPL for ad hoc snapshot queries
  version    print the build version`)
}
