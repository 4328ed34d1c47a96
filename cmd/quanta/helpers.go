// Shared helpers for quanta CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/quanta/internal/hardware"
	"github.com/mesh-intelligence/quanta/internal/runlog"
	"github.com/mesh-intelligence/quanta/internal/simulator"
	"github.com/mesh-intelligence/quanta/pkg/backend"
)

// newManager builds the backend registry: the local statevector simulator
// plus the configured hardware device when one is set up.
func newManager() (*backend.Manager, error) {
	mgr := backend.NewManager(backend.WithLogger(logger))

	sim := simulator.New(simulator.WithLogger(logger))
	if err := mgr.Register(sim.Describe().Identifier, sim); err != nil {
		return nil, fmt.Errorf("register simulator: %w", err)
	}

	if cliConfig.HardwareEnabled {
		hw, err := hardware.New(hardware.Config{
			Identifier:   cliConfig.HardwareID,
			BaseURL:      cliConfig.HardwareURL,
			APIKey:       cliConfig.HardwareKey,
			MaxQubits:    cliConfig.HardwareQubits,
			PollInterval: cliConfig.HardwarePoll,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("configure hardware backend: %w", err)
		}
		if err := mgr.Register(cliConfig.HardwareID, hw); err != nil {
			return nil, fmt.Errorf("register hardware backend: %w", err)
		}
	}

	return mgr, nil
}

// openRunStore opens the run history database under the data directory.
// The caller must close it.
func openRunStore() (*runlog.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	store, err := runlog.Open(filepath.Join(dataDir, "runs.db"), logger)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	return store, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printCounts prints a measurement distribution sorted by bitstring.
func printCounts(counts map[string]int, shots int) {
	bits := make([]string, 0, len(counts))
	for b := range counts {
		bits = append(bits, b)
	}
	sort.Strings(bits)

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BITSTRING\tCOUNT\tPROBABILITY")
	for _, b := range bits {
		fmt.Fprintf(w, "%s\t%d\t%.4f\n", b, counts[b], float64(counts[b])/float64(shots))
	}
	w.Flush()
	fmt.Print(sb.String())
}
