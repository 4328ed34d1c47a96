package algorithm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/quanta/pkg/backend"
	"github.com/mesh-intelligence/quanta/pkg/circuit"
	"github.com/mesh-intelligence/quanta/pkg/observable"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

// Edge is one undirected graph edge between two vertices, each mapped to
// a qubit.
type Edge struct {
	A, B int
}

// MaxCutObservable returns the cost Hamiltonian whose minimum corresponds
// to the maximum cut: sum over edges of (Z_a Z_b - 1)/2, so every cut
// edge contributes -1.
func MaxCutObservable(vertices int, edges []Edge) (observable.Observable, error) {
	if vertices <= 0 {
		return observable.Observable{}, fmt.Errorf("%w: vertex count must be positive, got %d", types.ErrValidation, vertices)
	}
	if len(edges) == 0 {
		return observable.Observable{}, fmt.Errorf("%w: graph has no edges", types.ErrValidation)
	}

	terms := make([]observable.Term, 0, len(edges)+1)
	for _, e := range edges {
		if e.A < 0 || e.A >= vertices || e.B < 0 || e.B >= vertices {
			return observable.Observable{}, fmt.Errorf("%w: edge (%d,%d) outside %d vertices", types.ErrValidation, e.A, e.B, vertices)
		}
		if e.A == e.B {
			return observable.Observable{}, fmt.Errorf("%w: self-loop on vertex %d", types.ErrValidation, e.A)
		}
		p := []byte(strings.Repeat("I", vertices))
		// Leftmost character is the highest qubit.
		p[vertices-1-e.A] = 'Z'
		p[vertices-1-e.B] = 'Z'
		terms = append(terms, observable.Term{Coefficient: 0.5, Paulis: string(p)})
	}
	terms = append(terms, observable.Term{
		Coefficient: -0.5 * float64(len(edges)),
		Paulis:      strings.Repeat("I", vertices),
	})
	return observable.New(terms...)
}

// QAOAAnsatz returns the alternating-operator ansatz for the graph: a
// uniform superposition followed by layers of cost evolution (a ZZ
// interaction per edge) and a transverse-field mixer. Parameters are laid
// out as [gamma_1..gamma_p, beta_1..beta_p].
func QAOAAnsatz(vertices int, edges []Edge, layers int) AnsatzFunc {
	return func(params []float64) (types.Circuit, error) {
		if layers <= 0 {
			return types.Circuit{}, fmt.Errorf("%w: layer count must be positive, got %d", types.ErrValidation, layers)
		}
		if len(params) != 2*layers {
			return types.Circuit{}, fmt.Errorf("%w: ansatz needs %d parameters, got %d",
				types.ErrValidation, 2*layers, len(params))
		}

		b := circuit.NewBuilder(vertices, vertices)
		for q := 0; q < vertices; q++ {
			b.AddHadamard(q)
		}
		for l := 0; l < layers; l++ {
			gamma, beta := params[l], params[layers+l]
			for _, e := range edges {
				b.AddCNOT(e.A, e.B)
				b.AddRotationZ(e.B, 2*gamma)
				b.AddCNOT(e.A, e.B)
			}
			for q := 0; q < vertices; q++ {
				b.AddRotationX(q, 2*beta)
			}
		}
		return b.Build()
	}
}

// QAOA solves max-cut on a graph with the alternating-operator ansatz,
// reusing the variational loop.
type QAOA struct {
	vqe      *VQE
	ansatz   AnsatzFunc
	edges    []Edge
	vertices int
	cfg      Config
}

// NewQAOA wires a max-cut solver for the graph to a manager-registered
// backend.
func NewQAOA(mgr *backend.Manager, backendID string, vertices int, edges []Edge, layers int, opt Optimizer, cfg Config, opts ...Option) (*QAOA, error) {
	obs, err := MaxCutObservable(vertices, edges)
	if err != nil {
		return nil, err
	}
	ansatz := QAOAAnsatz(vertices, edges, layers)
	v, err := NewVQE(mgr, backendID, obs, ansatz, opt, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &QAOA{
		vqe:      v,
		ansatz:   ansatz,
		edges:    append([]Edge(nil), edges...),
		vertices: vertices,
		cfg:      cfg.withDefaults(),
	}, nil
}

// Run optimizes the ansatz parameters. The result's cost is the negated
// expected cut size at the best point.
func (q *QAOA) Run(ctx context.Context, initial []float64) Result {
	return q.vqe.Run(ctx, initial)
}

// State reports the current phase of the most recent Run.
func (q *QAOA) State() State {
	return q.vqe.State()
}

// Cut samples the ansatz at the given parameters and returns the most
// frequent bitstring with its cut size.
func (q *QAOA) Cut(ctx context.Context, params []float64) (string, int, error) {
	prep, err := q.ansatz(params)
	if err != nil {
		return "", 0, err
	}
	c, err := circuit.Extend(prep).MeasureAll().Build()
	if err != nil {
		return "", 0, err
	}

	req := backend.NewExecutionRequest(q.vqe.backendID, c, q.cfg.Shots)
	req.Options.Seed = q.cfg.Seed
	res, err := q.vqe.mgr.Run(ctx, req)
	if err != nil {
		return "", 0, err
	}

	bits := mostFrequent(res.Counts)
	size, err := CutSize(bits, q.edges)
	if err != nil {
		return "", 0, err
	}
	q.vqe.log.Info("sampled cut",
		zap.String("bitstring", bits),
		zap.Int("cut_size", size))
	return bits, size, nil
}

// CutSize counts the edges whose endpoints land on different sides of the
// partition encoded in the bitstring. The leftmost bit is the highest
// qubit.
func CutSize(bits string, edges []Edge) (int, error) {
	n := len(bits)
	size := 0
	for _, e := range edges {
		if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
			return 0, fmt.Errorf("%w: edge (%d,%d) outside %d-bit string", types.ErrValidation, e.A, e.B, n)
		}
		if bits[n-1-e.A] != bits[n-1-e.B] {
			size++
		}
	}
	return size, nil
}

// mostFrequent returns the bitstring with the highest count, breaking
// ties toward the lexicographically smaller string for determinism.
func mostFrequent(counts map[string]int) string {
	best := ""
	bestCount := -1
	for bits, n := range counts {
		if n > bestCount || (n == bestCount && bits < best) {
			best = bits
			bestCount = n
		}
	}
	return best
}
