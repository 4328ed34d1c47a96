package algorithm

import (
	"context"
	"fmt"
	"math"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// CostFunc evaluates the objective at a parameter vector. Implementations
// may block on backend round-trips, so the context is threaded through.
type CostFunc func(ctx context.Context, params []float64) (float64, error)

// Optimizer is one classical update strategy. Step proposes the next
// parameter vector from the current point and its cost; eval lets the
// optimizer probe additional points (finite differences, line search).
// done reports that the optimizer considers the current point stationary
// and no further steps are worthwhile.
type Optimizer interface {
	Step(ctx context.Context, params []float64, cost float64, eval CostFunc) (next []float64, done bool, err error)
}

// GradientDescent updates parameters along the negative gradient estimated
// with the parameter-shift rule. Exact for circuits whose parameters enter
// through Pauli rotations.
type GradientDescent struct {
	// LearningRate scales each update.
	LearningRate float64
	// Shift is the parameter-shift offset. pi/2 gives the exact gradient
	// for Pauli-rotation parameters.
	Shift float64
	// GradientTolerance declares the point stationary when no gradient
	// component exceeds it.
	GradientTolerance float64
}

// NewGradientDescent returns a parameter-shift gradient descent with
// learning rate 0.2, shift pi/2, and gradient tolerance 1e-3.
func NewGradientDescent() *GradientDescent {
	return &GradientDescent{
		LearningRate:      0.2,
		Shift:             math.Pi / 2,
		GradientTolerance: 1e-3,
	}
}

// Step estimates the gradient with two evaluations per parameter and takes
// one descent step.
func (g *GradientDescent) Step(ctx context.Context, params []float64, cost float64, eval CostFunc) ([]float64, bool, error) {
	grad := make([]float64, len(params))
	probe := make([]float64, len(params))
	maxAbs := 0.0

	for i := range params {
		copy(probe, params)
		probe[i] = params[i] + g.Shift
		plus, err := eval(ctx, probe)
		if err != nil {
			return nil, false, err
		}
		probe[i] = params[i] - g.Shift
		minus, err := eval(ctx, probe)
		if err != nil {
			return nil, false, err
		}
		grad[i] = (plus - minus) / 2
		if a := math.Abs(grad[i]); a > maxAbs {
			maxAbs = a
		}
	}

	if maxAbs <= g.GradientTolerance {
		return append([]float64(nil), params...), true, nil
	}

	next := make([]float64, len(params))
	for i := range params {
		next[i] = params[i] - g.LearningRate*grad[i]
	}
	return next, false, nil
}

// CoordinateSearch is a gradient-free pattern search. Each step probes
// both directions along every coordinate at the current step size and
// moves to the best improving point; when nothing improves the step size
// shrinks. Stationary once the step size falls below MinStep.
type CoordinateSearch struct {
	// StepSize is the current probe distance. Shrinks over the run.
	StepSize float64
	// Shrink is the factor applied when no probe improves the cost.
	Shrink float64
	// MinStep ends the search once StepSize falls below it.
	MinStep float64
	// Improvement is the minimum cost decrease counted as progress. Keeps
	// sampling noise from driving a random walk.
	Improvement float64
}

// NewCoordinateSearch returns a pattern search starting at step 0.5,
// halving on failure, stopping below 1e-3.
func NewCoordinateSearch() *CoordinateSearch {
	return &CoordinateSearch{
		StepSize:    0.5,
		Shrink:      0.5,
		MinStep:     1e-3,
		Improvement: 1e-6,
	}
}

func (c *CoordinateSearch) Step(ctx context.Context, params []float64, cost float64, eval CostFunc) ([]float64, bool, error) {
	if c.StepSize <= 0 {
		return nil, false, fmt.Errorf("%w: coordinate search step size must be positive", types.ErrValidation)
	}

	for c.StepSize >= c.MinStep {
		bestCost := cost
		var best []float64
		probe := make([]float64, len(params))

		for i := range params {
			for _, dir := range []float64{1, -1} {
				copy(probe, params)
				probe[i] = params[i] + dir*c.StepSize
				v, err := eval(ctx, probe)
				if err != nil {
					return nil, false, err
				}
				if v < bestCost-c.Improvement {
					bestCost = v
					best = append([]float64(nil), probe...)
				}
			}
		}

		if best != nil {
			return best, false, nil
		}
		c.StepSize *= c.Shrink
	}

	return append([]float64(nil), params...), true, nil
}
