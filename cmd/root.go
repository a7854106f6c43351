package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "optcallback",
	Short: "Trigger-driven callbacks for iterative optimization",
	Long: `Optcallback runs derivative-free optimization benchmarks with a
trigger/callback layer attached: progress logging every N iterations or
T seconds, durable checkpointing to JSONL or SQLite, and pluggable stop
conditions, all without the optimizer loop knowing about any of it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Structured logs go to stderr so the progress table on stdout
		// stays machine-readable.
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLogLevel(logLevel),
		})
		slog.SetDefault(slog.New(handler))
	},
}

func parseLogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
