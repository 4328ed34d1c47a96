// Run command executes an OpenQASM circuit on a backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quanta/pkg/backend"
	"github.com/mesh-intelligence/quanta/pkg/circuit"
)

var (
	runBackend string
	runShots   int
	runSeed    int64
)

var runCmd = &cobra.Command{
	Use:   "run <circuit.qasm>",
	Short: "Run a circuit and print measurement counts",
	Long: `Run parses an OpenQASM 2.0 file, executes it on the selected backend,
records the run in the history database, and prints the counts.

Example:
  quanta run bell.qasm
  quanta run bell.qasm --shots 4096 --seed 7
  quanta run bell.qasm --backend device --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runBackend, "backend", "", "backend identifier (default: configured backend)")
	runCmd.Flags().IntVar(&runShots, "shots", 0, "shot count (default: configured shots)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "simulator sampling seed (0 = unseeded)")
}

func runRun(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read circuit: %w", err)
	}
	c, err := circuit.ParseQASM(string(source))
	if err != nil {
		return fmt.Errorf("parse circuit: %w", err)
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	backendID := runBackend
	if backendID == "" {
		backendID = cliConfig.Backend
	}
	shots := runShots
	if shots <= 0 {
		shots = cliConfig.Shots
	}

	req := backend.NewExecutionRequest(backendID, c, shots)
	req.Options.Seed = runSeed

	result, err := mgr.Run(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("run circuit: %w", err)
	}

	store, err := openRunStore()
	if err != nil {
		return err
	}
	defer store.Close()
	runID, err := store.RecordResult(c, result)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]any{
			"run_id":  runID,
			"backend": result.BackendID,
			"shots":   result.Shots,
			"counts":  result.Counts,
			"elapsed": result.Elapsed.String(),
		})
	}

	fmt.Printf("backend: %s  shots: %d  elapsed: %s  run: %s\n",
		result.BackendID, result.Shots, result.Elapsed, runID)
	printCounts(result.Counts, result.Shots)
	return nil
}
