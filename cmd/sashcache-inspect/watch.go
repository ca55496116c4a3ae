package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

func runWatch(args []string) error {
	fs := pflag.NewFlagSet("watch", pflag.ExitOnError)
	target := fs.String("target", "http://127.0.0.1:9090", "base URL of the sashcached debug endpoint")
	interval := fs.Duration("interval", 2*time.Second, "polling interval")
	targetsFile := fs.String("targets-file", "", "optional JSONC file listing multiple targets (see targets.go)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := []string{*target}
	if *targetsFile != "" {
		cfg, err := loadTargetsFile(*targetsFile)
		if err != nil {
			return fmt.Errorf("loading targets file: %w", err)
		}
		targets = cfg.Targets
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		for _, t := range targets {
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			stats, err := fetchSnapshot(ctx, t)
			cancel()
			if err != nil {
				fmt.Println(t, "error:", err)
				continue
			}
			fmt.Printf("%s  total_len=%d\n", t, totalLen(stats))
			printSnapshot(stats)
		}
		<-ticker.C
	}
}
