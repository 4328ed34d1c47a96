package algorithm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/quanta/pkg/backend"
	"github.com/mesh-intelligence/quanta/pkg/circuit"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

// GroverResult is the outcome of one amplitude-amplified search.
type GroverResult struct {
	// Found is the most frequently observed bitstring.
	Found string
	// Hit reports whether Found is one of the marked states.
	Hit bool
	// Probability is the total probability mass observed on marked
	// states.
	Probability float64
	// Counts is the full measurement distribution.
	Counts map[string]int
}

// Grover runs oracle-based search through a manager-registered backend.
type Grover struct {
	mgr       *backend.Manager
	backendID string
	log       *zap.Logger
}

// NewGrover wires a search driver to a backend.
func NewGrover(mgr *backend.Manager, backendID string, log *zap.Logger) (*Grover, error) {
	if mgr == nil {
		return nil, fmt.Errorf("%w: search driver needs a backend manager", types.ErrValidation)
	}
	if backendID == "" {
		return nil, fmt.Errorf("%w: search driver needs a backend identifier", types.ErrValidation)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Grover{mgr: mgr, backendID: backendID, log: log}, nil
}

// Run searches for the marked states with the optimal iteration count and
// reports the dominant outcome. seed fixes simulator sampling; zero
// leaves it unseeded.
func (g *Grover) Run(ctx context.Context, marked []string, shots int, seed int64) (GroverResult, error) {
	c, err := circuit.GroverSearch(marked, 0)
	if err != nil {
		return GroverResult{}, err
	}

	req := backend.NewExecutionRequest(g.backendID, c, shots)
	req.Options.Seed = seed
	res, err := g.mgr.Run(ctx, req)
	if err != nil {
		return GroverResult{}, err
	}

	markedSet := make(map[string]bool, len(marked))
	for _, m := range marked {
		markedSet[m] = true
	}
	hits := 0
	for bits, n := range res.Counts {
		if markedSet[bits] {
			hits += n
		}
	}

	found := mostFrequent(res.Counts)
	result := GroverResult{
		Found:       found,
		Hit:         markedSet[found],
		Probability: float64(hits) / float64(res.Shots),
		Counts:      res.Counts,
	}
	g.log.Info("search complete",
		zap.String("found", found),
		zap.Bool("hit", result.Hit),
		zap.Float64("marked_probability", result.Probability))
	return result, nil
}
