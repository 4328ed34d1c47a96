// Backends command lists registered execution backends.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quanta/pkg/backend"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

var (
	backendsSimOnly   bool
	backendsMinQubits int
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List available backends",
	Long: `Backends lists every registered execution backend with its capabilities.

Example:
  quanta backends
  quanta backends --simulators
  quanta backends --min-qubits 5`,
	Args: cobra.NoArgs,
	RunE: runBackends,
}

func init() {
	backendsCmd.Flags().BoolVar(&backendsSimOnly, "simulators", false, "only list simulator backends")
	backendsCmd.Flags().IntVar(&backendsMinQubits, "min-qubits", 0, "only list backends with at least this many qubits")
}

func runBackends(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	minQubits := backend.MinQubits(backendsMinQubits)
	filter := func(d types.BackendDescriptor) bool {
		if backendsSimOnly && !backend.Simulators(d) {
			return false
		}
		if backendsMinQubits > 0 && !minQubits(d) {
			return false
		}
		return true
	}

	var descriptors []types.BackendDescriptor
	for d := range mgr.List(filter) {
		descriptors = append(descriptors, d)
	}

	if flagJSON {
		return printJSON(descriptors)
	}

	if len(descriptors) == 0 {
		fmt.Println("No backends match.")
		return nil
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQUBITS\tSIMULATOR\tGATES")
	for _, d := range descriptors {
		fmt.Fprintf(w, "%s\t%d\t%t\t%s\n",
			d.Identifier, d.MaxQubits, d.IsSimulator, strings.Join(d.SupportedGates, ","))
	}
	w.Flush()
	fmt.Print(sb.String())
	return nil
}
