// VQE command runs the molecular-hydrogen ground-state demo.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quanta/pkg/algorithm"
	"github.com/mesh-intelligence/quanta/pkg/circuit"
	"github.com/mesh-intelligence/quanta/pkg/observable"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

var (
	vqeBackend string
	vqeShots   int
	vqeSeed    int64
	vqeDepth   int
	vqeMaxIter int
)

var vqeCmd = &cobra.Command{
	Use:   "vqe",
	Short: "Estimate the H2 ground-state energy variationally",
	Long: `VQE minimizes the molecular-hydrogen Hamiltonian over a
hardware-efficient ansatz using a gradient-free optimizer.

Example:
  quanta vqe
  quanta vqe --depth 3 --shots 8192 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runVQE,
}

func init() {
	vqeCmd.Flags().StringVar(&vqeBackend, "backend", "", "backend identifier (default: configured backend)")
	vqeCmd.Flags().IntVar(&vqeShots, "shots", 0, "shots per evaluation (default: configured shots)")
	vqeCmd.Flags().Int64Var(&vqeSeed, "seed", 0, "simulator sampling seed (0 = unseeded)")
	vqeCmd.Flags().IntVar(&vqeDepth, "depth", 2, "ansatz depth")
	vqeCmd.Flags().IntVar(&vqeMaxIter, "max-iterations", 100, "optimizer iteration budget")
}

func runVQE(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	backendID := vqeBackend
	if backendID == "" {
		backendID = cliConfig.Backend
	}
	shots := vqeShots
	if shots <= 0 {
		shots = cliConfig.Shots
	}

	ansatz := func(params []float64) (types.Circuit, error) {
		return circuit.HardwareEfficientAnsatz(2, vqeDepth, params)
	}
	cfg := algorithm.Config{
		Shots:         shots,
		Seed:          vqeSeed,
		MaxIterations: vqeMaxIter,
	}

	v, err := algorithm.NewVQE(mgr, backendID, observable.H2Hamiltonian(), ansatz, algorithm.NewCoordinateSearch(), cfg, algorithm.WithLogger(logger))
	if err != nil {
		return err
	}

	initial := make([]float64, circuit.AnsatzParamCount(2, vqeDepth))
	for i := range initial {
		initial[i] = 0.1
	}

	result := v.Run(cmd.Context(), initial)
	if result.State == algorithm.StateFailed {
		return fmt.Errorf("vqe run failed: %w", result.Err)
	}

	if flagJSON {
		return printJSON(map[string]any{
			"state":       result.State,
			"energy":      result.Cost,
			"parameters":  result.Params,
			"iterations":  result.Iterations,
			"evaluations": result.Evaluations,
		})
	}

	fmt.Printf("state:       %s\n", result.State)
	fmt.Printf("energy:      %.6f hartree\n", result.Cost)
	fmt.Printf("iterations:  %d (%d circuit evaluations)\n", result.Iterations, result.Evaluations)
	fmt.Printf("parameters:  %v\n", result.Params)
	return nil
}
