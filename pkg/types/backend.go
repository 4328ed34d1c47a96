package types

import (
	"context"
	"sort"
)

// Backend is the capability contract every execution engine satisfies,
// whether a local simulator, a proxy for remote hardware, or a custom
// engine. Run may block on network round-trips or long simulations; callers
// needing responsiveness should pass a cancellable context.
type Backend interface {
	// Run executes the circuit and returns a normalized result.
	// Returns an error wrapping ErrUnsupportedGate if the circuit uses a
	// gate kind outside the backend's supported set, or ErrQubitLimit if
	// the circuit is wider than the backend's register, in both cases
	// before any shots are consumed.
	Run(ctx context.Context, circuit Circuit, opts RunOptions) (ExecutionResult, error)

	// Describe reports the backend's identity and capabilities.
	// Descriptors are immutable; repeated calls return identical values.
	Describe() BackendDescriptor
}

// BackendDescriptor reports a backend's identity and capabilities.
// Registered once with the manager and immutable thereafter.
type BackendDescriptor struct {
	Identifier     string
	MaxQubits      int
	SupportedGates []string // sorted, deduplicated
	IsSimulator    bool
}

// NewBackendDescriptor builds a descriptor with the gate set sorted and
// deduplicated so descriptors compare equal regardless of input order.
func NewBackendDescriptor(identifier string, maxQubits int, gates []string, simulator bool) BackendDescriptor {
	set := make(map[string]bool, len(gates))
	for _, g := range gates {
		set[g] = true
	}
	sorted := make([]string, 0, len(set))
	for g := range set {
		sorted = append(sorted, g)
	}
	sort.Strings(sorted)
	return BackendDescriptor{
		Identifier:     identifier,
		MaxQubits:      maxQubits,
		SupportedGates: sorted,
		IsSimulator:    simulator,
	}
}

// Supports reports whether the descriptor's gate set includes kind.
func (d BackendDescriptor) Supports(kind string) bool {
	i := sort.SearchStrings(d.SupportedGates, kind)
	return i < len(d.SupportedGates) && d.SupportedGates[i] == kind
}

// RunOptions carries per-execution settings passed to Backend.Run.
type RunOptions struct {
	// Shots is the number of sampled executions. Must be positive when the
	// circuit contains measurements.
	Shots int

	// Seed fixes the sampling RNG for simulator backends. Zero means
	// unseeded; sampled counts then vary run to run while the underlying
	// distribution stays deterministic. Hardware backends ignore it.
	Seed int64

	// ReturnStatevector asks a simulator to return the final statevector
	// instead of sampled counts. Backends without statevector access
	// ignore it.
	ReturnStatevector bool

	// Extra holds backend-specific options pass-through.
	Extra map[string]string
}
