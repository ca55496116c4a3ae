package main

import (
	"encoding/json"
	"net/http"
	"time"

	cache "github.com/sashcache/sashcache/pkg"
)

const httpShutdownTimeout = 5 * time.Second

type snapshotWorkerJSON struct {
	ID       int `json:"id"`
	Core     int `json:"core"`
	Port     int `json:"port"`
	Len      int `json:"len"`
	Capacity int `json:"capacity"`
	Rehashes int `json:"rehashes"`
}

// writeSnapshotJSON renders Server.Snapshot() as the SPEC_FULL.md §6.3
// debug payload. Only the rehash *count* is exposed here, not full event
// detail — operators wanting history use cmd/sashcache-inspect instead.
func writeSnapshotJSON(w http.ResponseWriter, workers []cache.WorkerSnapshot) {
	out := make([]snapshotWorkerJSON, len(workers))
	for i, ws := range workers {
		out[i] = snapshotWorkerJSON{
			ID:       ws.ID,
			Core:     ws.Core,
			Port:     ws.Port,
			Len:      ws.Len,
			Capacity: ws.Capacity,
			Rehashes: ws.Rehashes,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
