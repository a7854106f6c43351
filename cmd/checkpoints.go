package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/optcallback/checkpoint"
)

var (
	checkpointsPath  string
	checkpointsStore string
	showKey          string
)

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Inspect optimization checkpoints",
	Long: `Inspect the contents of a checkpoint destination written by a run
with checkpointing enabled.`,
}

var listCheckpointsCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved checkpoints",
	Long:  `Display all saved checkpoints with iteration key, timestamp, and size.`,
	RunE:  runListCheckpoints,
}

var showCheckpointCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one checkpoint record",
	RunE:  runShowCheckpoint,
}

func init() {
	rootCmd.AddCommand(checkpointsCmd)
	checkpointsCmd.AddCommand(listCheckpointsCmd)
	checkpointsCmd.AddCommand(showCheckpointCmd)

	checkpointsCmd.PersistentFlags().StringVar(&checkpointsPath, "path", "", "Checkpoint destination path (required)")
	checkpointsCmd.PersistentFlags().StringVar(&checkpointsStore, "store", "jsonl", "Checkpoint store backend: jsonl, sqlite")
	checkpointsCmd.MarkPersistentFlagRequired("path")

	showCheckpointCmd.Flags().StringVar(&showKey, "key", "", "Iteration key to print (required)")
	showCheckpointCmd.MarkFlagRequired("key")
}

// openForReading opens an existing destination without the write-side
// overwrite checks.
func openForReading() (checkpoint.Store, error) {
	switch checkpointsStore {
	case "jsonl":
		return checkpoint.ReadJSONL(checkpointsPath)
	case "sqlite":
		return checkpoint.ReadSQLite(checkpointsPath)
	default:
		return nil, fmt.Errorf("unknown checkpoint store %q (available: jsonl, sqlite)", checkpointsStore)
	}
}

func runListCheckpoints(cmd *cobra.Command, args []string) error {
	store, err := openForReading()
	if err != nil {
		return err
	}

	infos, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list checkpoints: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No checkpoints found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERATION\tSAVED AT\tSIZE")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d B\n", info.Key, info.SavedAt.Format("2006-01-02 15:04:05"), info.Bytes)
	}
	return w.Flush()
}

func runShowCheckpoint(cmd *cobra.Command, args []string) error {
	store, err := openForReading()
	if err != nil {
		return err
	}

	raw, err := store.Load(showKey)
	if err != nil {
		return err
	}

	fmt.Println(string(raw))
	return nil
}
