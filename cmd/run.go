package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/optcallback/callback"
	"github.com/cwbudde/optcallback/checkpoint"
	"github.com/cwbudde/optcallback/internal/opt"
)

var (
	runFlags   runConfig
	configPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a benchmark optimization with callbacks attached",
	Long: `Runs a derivative-free optimization of a benchmark objective with
progress logging, optional durable checkpointing, and optional stop
conditions wired in through the callback layer.`,
	RunE: runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.Objective, "objective", "sphere", "Benchmark objective: sphere, rosenbrock, rastrigin, ackley")
	runCmd.Flags().IntVar(&runFlags.Dim, "dim", 2, "Problem dimensionality")
	runCmd.Flags().IntVar(&runFlags.Iters, "iters", 1000, "Max iterations")
	runCmd.Flags().IntVar(&runFlags.Pop, "pop", 30, "Population size (mayfly only)")
	runCmd.Flags().Int64Var(&runFlags.Seed, "seed", 42, "Random seed")
	runCmd.Flags().StringVar(&runFlags.Optimizer, "optimizer", "search", "Optimizer: search, mayfly")
	runCmd.Flags().IntVar(&runFlags.LogEvery, "log-every", 10, "Log progress every N iterations")
	runCmd.Flags().Float64Var(&runFlags.LogSecs, "log-secs", 0, "Also log progress every T seconds (0 = disabled)")
	runCmd.Flags().Float64Var(&runFlags.Target, "target", math.NaN(), "Stop once the cost drops below this value")
	runCmd.Flags().IntVar(&runFlags.Patience, "patience", 0, "Stop after N iterations without significant improvement (0 = disabled)")
	runCmd.Flags().Float64Var(&runFlags.StallThreshold, "stall-threshold", 0.001, "Relative improvement counted as progress")
	runCmd.Flags().StringVar(&runFlags.Checkpoint.Path, "checkpoint", "", "Checkpoint destination path (empty = disabled)")
	runCmd.Flags().IntVar(&runFlags.Checkpoint.Every, "checkpoint-every", 100, "Checkpoint every N iterations")
	runCmd.Flags().StringVar(&runFlags.Checkpoint.Store, "store", "jsonl", "Checkpoint store backend: jsonl, sqlite")
	runCmd.Flags().BoolVar(&runFlags.Checkpoint.Overwrite, "overwrite", false, "Replace an existing checkpoint destination")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration file (flags override it)")

	rootCmd.AddCommand(runCmd)
}

// runInfo is the opaque extra context forwarded to every trigger, action,
// and stop-predicate call of a run.
type runInfo struct {
	ID        string
	Objective string
	Seed      int64
}

// checkpointRecord is what gets persisted for each saved iteration.
type checkpointRecord struct {
	RunID     string    `json:"runId"`
	Objective string    `json:"objective"`
	Params    []float64 `json:"params"`
}

func runOptimization(cmd *cobra.Command, args []string) error {
	cfg := runFlags
	if configPath != "" {
		loaded, err := loadRunConfig(configPath, runFlags)
		if err != nil {
			return err
		}
		cfg = loaded
		mergeFlagOverrides(cmd, &cfg, runFlags)
	}

	obj, err := opt.ByName(cfg.Objective)
	if err != nil {
		return err
	}

	info := runInfo{ID: uuid.NewString(), Objective: obj.Name, Seed: cfg.Seed}
	slog.Info("Starting optimization run",
		"run_id", info.ID,
		"objective", obj.Name,
		"dim", cfg.Dim,
		"iters", cfg.Iters,
		"optimizer", cfg.Optimizer,
		"seed", cfg.Seed,
	)

	logCB, progress, err := buildProgressCallback(cfg, info)
	if err != nil {
		return err
	}

	saveCB, err := buildCheckpointCallback(cfg, info)
	if err != nil {
		return err
	}

	onIter := func(state []float64, value float64) (bool, error) {
		stop, err := logCB.Invoke(state, value)
		if err != nil {
			return false, err
		}
		if saveCB != nil {
			saved, err := saveCB.Invoke(state, value)
			if err != nil {
				return false, err
			}
			stop = stop || saved
		}
		return stop, nil
	}

	var optimizer opt.Optimizer
	switch cfg.Optimizer {
	case "search":
		optimizer = opt.NewRandomSearch(cfg.Iters, cfg.Seed)
	case "mayfly":
		optimizer = opt.NewMayfly(cfg.Iters, cfg.Pop, cfg.Seed)
	default:
		return fmt.Errorf("unknown optimizer %q (available: search, mayfly)", cfg.Optimizer)
	}

	lower, upper := obj.Bounds(cfg.Dim)
	start := time.Now()
	best, bestCost, err := optimizer.Run(obj.Eval, lower, upper, cfg.Dim, onIter)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}
	elapsed := time.Since(start)

	// Flush a final checkpoint regardless of counter alignment: latch the
	// end event and invoke once more with the final best.
	if saveCB != nil {
		callback.Signal(saveCB, "end")
		if _, err := saveCB.Invoke(best, bestCost); err != nil {
			return fmt.Errorf("final checkpoint failed: %w", err)
		}
	}

	slog.Info("Optimization complete",
		"run_id", info.ID,
		"elapsed", elapsed,
		"best_cost", bestCost,
		"lowest_seen", progress.Lowest(),
		"highest_seen", progress.Highest(),
	)

	fmt.Printf("Best cost %.6e on %s (dim %d) after %s\n", bestCost, obj.Name, cfg.Dim, elapsed.Round(time.Millisecond))
	return nil
}

// buildProgressCallback wires the progress logger to its iteration trigger
// and, optionally, a wall-clock trigger and stop conditions.
func buildProgressCallback(cfg runConfig, info runInfo) (*callback.Callback, *callback.LogProgress, error) {
	iterTrigger, err := callback.NewIterationTrigger(cfg.LogEvery)
	if err != nil {
		return nil, nil, err
	}

	trigger := callback.Trigger(iterTrigger)
	if cfg.LogSecs > 0 {
		timeTrigger, err := callback.NewTimeTrigger(time.Duration(cfg.LogSecs * float64(time.Second)))
		if err != nil {
			return nil, nil, err
		}
		trigger = callback.Any(iterTrigger, timeTrigger)
	}

	var stops []callback.StopFunc
	if !math.IsNaN(cfg.Target) {
		stops = append(stops, callback.StopBelow(cfg.Target))
	}
	if cfg.Patience > 0 {
		tracker, err := callback.NewStallTracker(cfg.Patience, cfg.StallThreshold)
		if err != nil {
			return nil, nil, err
		}
		stops = append(stops, tracker.Stop)
	}

	opts := []callback.Option{callback.WithExtra(info)}
	if len(stops) == 1 {
		opts = append(opts, callback.WithStop(stops[0]))
	} else if len(stops) > 1 {
		opts = append(opts, callback.WithStop(callback.AnyStop(stops...)))
	}

	progress := callback.NewLogProgress(os.Stdout)
	return callback.New(progress, trigger, opts...), progress, nil
}

// buildCheckpointCallback wires the checkpoint saver, or returns nil when
// checkpointing is disabled.
func buildCheckpointCallback(cfg runConfig, info runInfo) (*callback.Callback, error) {
	if cfg.Checkpoint.Path == "" {
		return nil, nil
	}

	var store callback.CheckpointStore
	var err error
	switch cfg.Checkpoint.Store {
	case "jsonl":
		store, err = checkpoint.OpenJSONL(cfg.Checkpoint.Path, cfg.Checkpoint.Overwrite)
	case "sqlite":
		store, err = checkpoint.OpenSQLite(cfg.Checkpoint.Path, cfg.Checkpoint.Overwrite)
	default:
		return nil, fmt.Errorf("unknown checkpoint store %q (available: jsonl, sqlite)", cfg.Checkpoint.Store)
	}
	if err != nil {
		return nil, err
	}

	saver := callback.NewCheckpointSaver(store, callback.WithTransform(func(state any) (any, error) {
		params, ok := state.([]float64)
		if !ok {
			return nil, fmt.Errorf("unexpected state type %T", state)
		}
		snapshot := make([]float64, len(params))
		copy(snapshot, params)
		return checkpointRecord{RunID: info.ID, Objective: info.Objective, Params: snapshot}, nil
	}))

	iterTrigger, err := callback.NewIterationTrigger(cfg.Checkpoint.Every)
	if err != nil {
		return nil, err
	}
	trigger := callback.Any(iterTrigger, callback.NewEventTrigger("end"))

	return callback.New(saver, trigger, callback.WithExtra(info)), nil
}
