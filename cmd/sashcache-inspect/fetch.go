package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// workerStat mirrors cmd/sashcached's snapshotWorkerJSON payload shape.
type workerStat struct {
	ID       int `json:"id"`
	Core     int `json:"core"`
	Port     int `json:"port"`
	Len      int `json:"len"`
	Capacity int `json:"capacity"`
	Rehashes int `json:"rehashes"`
}

func fetchSnapshot(ctx context.Context, target string) ([]workerStat, error) {
	url := target + "/debug/sashcache/snapshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s fetching %s", res.Status, url)
	}
	var stats []workerStat
	if err := json.NewDecoder(res.Body).Decode(&stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func printSnapshot(stats []workerStat) {
	fmt.Printf("%-8s %-6s %-6s %-10s %-10s %-10s\n", "WORKER", "CORE", "PORT", "LEN", "CAPACITY", "REHASHES")
	for _, s := range stats {
		fmt.Printf("%-8d %-6d %-6d %-10d %-10d %-10d\n", s.ID, s.Core, s.Port, s.Len, s.Capacity, s.Rehashes)
	}
}

func totalLen(stats []workerStat) int {
	n := 0
	for _, s := range stats {
		n += s.Len
	}
	return n
}

const defaultFetchTimeout = 5 * time.Second
