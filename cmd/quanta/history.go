// History command inspects the run history database.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyBackendID string
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `History lists past circuit executions, newest first.

Example:
  quanta history
  quanta history --backend statevector-sim --limit 10
  quanta history prune --older-than 720h`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old runs from the history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().StringVar(&historyBackendID, "backend", "", "filter by backend identifier")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of results (0 = no limit)")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 30*24*time.Hour, "delete runs older than this")
	historyCmd.AddCommand(historyPruneCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openRunStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(historyBackendID, historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if flagJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBACKEND\tSHOTS\tELAPSED\tWHEN")
	for _, e := range entries {
		shortID := e.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			shortID, e.BackendID, e.Shots, e.Elapsed, e.CreatedAt.Local().Format(time.RFC3339))
	}
	w.Flush()
	fmt.Print(sb.String())
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := openRunStore()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(time.Now().Add(-historyOlderThan))
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	fmt.Printf("Removed %d runs.\n", removed)
	return nil
}
