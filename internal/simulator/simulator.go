// Package simulator implements the reference statevector simulator
// backend. It is deterministic given a fixed sampling seed: the outcome
// distribution is always exact, and the sampled counts reproduce when
// RunOptions.Seed is set.
package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// DefaultMaxQubits bounds the register width; a full statevector over n
// qubits needs 16*2^n bytes.
const DefaultMaxQubits = 24

// Simulator is a local statevector execution backend supporting the full
// primitive gate set plus dense custom unitaries.
type Simulator struct {
	id        string
	maxQubits int
	log       *zap.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithID overrides the backend identifier.
func WithID(id string) Option {
	return func(s *Simulator) { s.id = id }
}

// WithMaxQubits overrides the register width limit.
func WithMaxQubits(n int) Option {
	return func(s *Simulator) { s.maxQubits = n }
}

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(log *zap.Logger) Option {
	return func(s *Simulator) { s.log = log }
}

// New creates a simulator backend.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		id:        "statevector-sim",
		maxQubits: DefaultMaxQubits,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Describe reports the simulator's capabilities.
func (s *Simulator) Describe() types.BackendDescriptor {
	return types.NewBackendDescriptor(s.id, s.maxQubits, types.AllGateKinds(), true)
}

// Run propagates the circuit through a fresh statevector and either
// samples measurement counts or returns the final statevector when
// opts.ReturnStatevector is set. Measurements must be terminal: once a
// qubit is measured no later gate may act on it.
func (s *Simulator) Run(ctx context.Context, c types.Circuit, opts types.RunOptions) (types.ExecutionResult, error) {
	if err := c.Validate(); err != nil {
		return types.ExecutionResult{}, err
	}
	if c.QubitCount > s.maxQubits {
		return types.ExecutionResult{}, fmt.Errorf("%w: circuit has %d qubits, %q supports %d",
			types.ErrQubitLimit, c.QubitCount, s.id, s.maxQubits)
	}
	if !opts.ReturnStatevector {
		if opts.Shots <= 0 {
			return types.ExecutionResult{}, fmt.Errorf("%w: shots must be positive, got %d",
				types.ErrValidation, opts.Shots)
		}
		if !c.HasMeasurements() {
			return types.ExecutionResult{}, fmt.Errorf("%w: circuit has no measurements to sample",
				types.ErrValidation)
		}
	}

	start := time.Now()
	st := newState(c.QubitCount)
	qubitOfClbit := make(map[int]int) // classical bit -> measured qubit
	measured := make(map[int]bool)

	for i, in := range c.Instructions {
		if err := ctx.Err(); err != nil {
			return types.ExecutionResult{}, err
		}
		if in.Kind == types.GateMeasure {
			qubitOfClbit[in.Clbit] = in.Qubits[0]
			measured[in.Qubits[0]] = true
			continue
		}
		for _, q := range in.Qubits {
			if measured[q] {
				return types.ExecutionResult{}, fmt.Errorf("%w: instruction %d acts on qubit %d after measurement",
					types.ErrValidation, i, q)
			}
		}
		if err := st.apply(in); err != nil {
			return types.ExecutionResult{}, err
		}
	}

	if opts.ReturnStatevector {
		return types.ExecutionResult{
			BackendID:   s.id,
			Statevector: append([]complex128(nil), st.amps...),
			Elapsed:     time.Since(start),
		}, nil
	}

	counts, err := s.sample(ctx, st, qubitOfClbit, c.ClassicalBitCount, opts)
	if err != nil {
		return types.ExecutionResult{}, err
	}

	s.log.Debug("sampled circuit",
		zap.String("backend", s.id),
		zap.Int("qubits", c.QubitCount),
		zap.Int("shots", opts.Shots),
		zap.Int("outcomes", len(counts)))

	return types.ExecutionResult{
		BackendID: s.id,
		Shots:     opts.Shots,
		Counts:    counts,
		Elapsed:   time.Since(start),
	}, nil
}

// sample draws opts.Shots outcomes from the state's distribution and keys
// them by classical bitstring, highest classical bit leftmost. Unmeasured
// classical bits read as zero; unmeasured qubits are marginalized out by
// the aggregation.
func (s *Simulator) sample(ctx context.Context, st *state, qubitOfClbit map[int]int, clbits int, opts types.RunOptions) (map[string]int, error) {
	probs := st.probabilities()
	cumulative := make([]float64, len(probs))
	sum := 0.0
	for i, p := range probs {
		sum += p
		cumulative[i] = sum
	}
	// Guard against accumulated float error at the top end.
	cumulative[len(cumulative)-1] = sum

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	buf := make([]byte, clbits)
	counts := make(map[string]int)
	for shot := 0; shot < opts.Shots; shot++ {
		if shot%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		r := rng.Float64() * sum
		idx := sort.SearchFloat64s(cumulative, r)
		if idx == len(cumulative) {
			idx = len(cumulative) - 1
		}
		for c := 0; c < clbits; c++ {
			bit := byte('0')
			if q, ok := qubitOfClbit[c]; ok && idx&(1<<q) != 0 {
				bit = '1'
			}
			buf[clbits-1-c] = bit
		}
		counts[string(buf)]++
	}
	return counts, nil
}
