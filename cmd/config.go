package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// checkpointConfig configures the checkpoint side of a run.
type checkpointConfig struct {
	Path      string `yaml:"path"`
	Every     int    `yaml:"every"`
	Store     string `yaml:"store"` // jsonl, sqlite
	Overwrite bool   `yaml:"overwrite"`
}

// runConfig holds everything the run command needs. A YAML file supplies
// defaults that explicit command-line flags override.
type runConfig struct {
	Objective      string           `yaml:"objective"`
	Dim            int              `yaml:"dim"`
	Iters          int              `yaml:"iters"`
	Pop            int              `yaml:"pop"`
	Seed           int64            `yaml:"seed"`
	Optimizer      string           `yaml:"optimizer"` // search, mayfly
	LogEvery       int              `yaml:"logEvery"`
	LogSecs        float64          `yaml:"logSecs"`
	Target         float64          `yaml:"target"`
	Patience       int              `yaml:"patience"`
	StallThreshold float64          `yaml:"stallThreshold"`
	Checkpoint     checkpointConfig `yaml:"checkpoint"`
}

// loadRunConfig parses a YAML run configuration file over the given
// defaults. Unknown fields are rejected so a typo in the file fails loudly
// instead of silently running with defaults.
func loadRunConfig(path string, defaults runConfig) (runConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return defaults, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// mergeFlagOverrides re-applies every flag the user set explicitly on top
// of values loaded from the config file, so the precedence is
// flags > file > built-in defaults.
func mergeFlagOverrides(cmd *cobra.Command, cfg *runConfig, flags runConfig) {
	set := cmd.Flags().Changed
	if set("objective") {
		cfg.Objective = flags.Objective
	}
	if set("dim") {
		cfg.Dim = flags.Dim
	}
	if set("iters") {
		cfg.Iters = flags.Iters
	}
	if set("pop") {
		cfg.Pop = flags.Pop
	}
	if set("seed") {
		cfg.Seed = flags.Seed
	}
	if set("optimizer") {
		cfg.Optimizer = flags.Optimizer
	}
	if set("log-every") {
		cfg.LogEvery = flags.LogEvery
	}
	if set("log-secs") {
		cfg.LogSecs = flags.LogSecs
	}
	if set("target") {
		cfg.Target = flags.Target
	}
	if set("patience") {
		cfg.Patience = flags.Patience
	}
	if set("stall-threshold") {
		cfg.StallThreshold = flags.StallThreshold
	}
	if set("checkpoint") {
		cfg.Checkpoint.Path = flags.Checkpoint.Path
	}
	if set("checkpoint-every") {
		cfg.Checkpoint.Every = flags.Checkpoint.Every
	}
	if set("store") {
		cfg.Checkpoint.Store = flags.Checkpoint.Store
	}
	if set("overwrite") {
		cfg.Checkpoint.Overwrite = flags.Checkpoint.Overwrite
	}
}
