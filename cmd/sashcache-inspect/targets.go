package main

import (
	"encoding/json"
	"os"

	"github.com/tailscale/hujson"
)

// targetsConfig is the shape of a --targets-file: a JSONC (JSON-with-
// comments) document, since operators hand-editing this file want to leave
// notes about which target is which environment.
type targetsConfig struct {
	Targets []string `json:"targets"`
}

// loadTargetsFile parses a JSONC targets file: hujson.Standardize strips
// comments and trailing commas before handing the result to encoding/json,
// the same two-step pattern tailscale's own config loaders use.
func loadTargetsFile(path string) (*targetsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, err
	}
	var cfg targetsConfig
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
