package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/pflag"
)

func runSnapshot(args []string) error {
	fs := pflag.NewFlagSet("snapshot", pflag.ExitOnError)
	target := fs.String("target", "http://127.0.0.1:9090", "base URL of the sashcached debug endpoint")
	asJSON := fs.Bool("json", false, "print as JSON instead of a table")
	reportFile := fs.String("report-file", "", "optionally write the snapshot atomically to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
	defer cancel()

	stats, err := fetchSnapshot(ctx, *target)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			return err
		}
	} else {
		printSnapshot(stats)
	}

	if *reportFile != "" {
		return writeReportAtomic(*reportFile, stats)
	}
	return nil
}

// writeReportAtomic persists stats to path without ever leaving a partially
// written report visible to a concurrent reader — natefinch/atomic writes
// to a temp file in the same directory and renames it into place, the same
// discipline the teacher's own pkg/cache.go applies to in-memory arena
// swaps, here applied to a file on disk.
func writeReportAtomic(path string, stats []workerStat) error {
	body, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	body = append(body, '\n')
	return atomic.WriteFile(path, bytes.NewReader(body))
}
