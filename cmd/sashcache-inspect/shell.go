package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/pflag"
)

// runShell opens an interactive REPL against a single target: "snapshot"
// re-fetches and prints, "trend" records+shows the running delta, "quit"
// exits. peterh/liner gives line history and basic editing the way an
// operator expects from a debugging shell.
func runShell(args []string) error {
	fs := pflag.NewFlagSet("shell", pflag.ExitOnError)
	target := fs.String("target", "http://127.0.0.1:9090", "base URL of the sashcached debug endpoint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openHistoryDB()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer db.Close()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Printf("sashcache-inspect shell — target %s (commands: snapshot, trend, quit)\n", *target)
	for {
		input, err := line.Prompt("sashcache> ")
		if err == io.EOF || err == liner.ErrPromptAborted {
			return nil
		}
		if err != nil {
			return err
		}
		line.AppendHistory(input)

		switch strings.TrimSpace(input) {
		case "snapshot":
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			stats, err := fetchSnapshot(ctx, *target)
			cancel()
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printSnapshot(stats)
		case "trend":
			if err := runTrend([]string{"--target", *target}); err != nil {
				fmt.Println("error:", err)
			}
		case "quit", "exit":
			return nil
		case "":
			// ignore blank lines
		default:
			fmt.Println("unknown command:", input)
		}
	}
}
