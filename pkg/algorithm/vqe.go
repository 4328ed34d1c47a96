package algorithm

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/quanta/pkg/backend"
	"github.com/mesh-intelligence/quanta/pkg/observable"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

// State names a phase of an orchestrator run.
type State string

const (
	StateInitialized State = "initialized"
	StateEvaluating  State = "evaluating"
	StateConverged   State = "converged"
	StateFailed      State = "failed"
)

// Config tunes the variational loop. The zero value is filled with
// defaults by the orchestrator constructors.
type Config struct {
	// Shots per circuit evaluation.
	Shots int
	// Seed fixes simulator sampling for reproducible runs. Zero leaves
	// sampling unseeded.
	Seed int64
	// Tolerance is the cost delta under which an iteration counts toward
	// convergence.
	Tolerance float64
	// Window is how many consecutive within-tolerance iterations declare
	// convergence.
	Window int
	// MaxIterations bounds the loop. Hitting the budget ends the run as
	// converged at the best point seen.
	MaxIterations int
}

const (
	defaultShots         = 4096
	defaultTolerance     = 1e-6
	defaultWindow        = 5
	defaultMaxIterations = 500
)

func (c Config) withDefaults() Config {
	if c.Shots <= 0 {
		c.Shots = defaultShots
	}
	if c.Tolerance <= 0 {
		c.Tolerance = defaultTolerance
	}
	if c.Window <= 0 {
		c.Window = defaultWindow
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaultMaxIterations
	}
	return c
}

// AnsatzFunc binds a parameter vector to a state-preparation circuit.
type AnsatzFunc func(params []float64) (types.Circuit, error)

// Result is the outcome of an orchestrator run. Err is set only in the
// failed state and carries the originating error.
type Result struct {
	State       State
	Params      []float64
	Cost        float64
	Iterations  int
	Evaluations int
	History     []float64
	Err         error
}

// VQE is a variational quantum eigensolver: it minimizes the expectation
// of a Pauli observable over an ansatz family by alternating backend
// execution with classical optimizer steps.
type VQE struct {
	mgr         *backend.Manager
	backendID   string
	hamiltonian observable.Observable
	ansatz      AnsatzFunc
	opt         Optimizer
	cfg         Config
	log         *zap.Logger

	state atomic.Value // State
}

// Option configures an orchestrator.
type Option func(*VQE)

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(v *VQE) { v.log = log }
}

// NewVQE wires an eigensolver to a manager-registered backend.
func NewVQE(mgr *backend.Manager, backendID string, h observable.Observable, ansatz AnsatzFunc, opt Optimizer, cfg Config, opts ...Option) (*VQE, error) {
	if mgr == nil {
		return nil, fmt.Errorf("%w: eigensolver needs a backend manager", types.ErrValidation)
	}
	if backendID == "" {
		return nil, fmt.Errorf("%w: eigensolver needs a backend identifier", types.ErrValidation)
	}
	if len(h.Terms) == 0 {
		return nil, fmt.Errorf("%w: observable has no terms", types.ErrValidation)
	}
	if ansatz == nil {
		return nil, fmt.Errorf("%w: eigensolver needs an ansatz", types.ErrValidation)
	}
	if opt == nil {
		return nil, fmt.Errorf("%w: eigensolver needs an optimizer", types.ErrValidation)
	}
	v := &VQE{
		mgr:         mgr,
		backendID:   backendID,
		hamiltonian: h,
		ansatz:      ansatz,
		opt:         opt,
		cfg:         cfg.withDefaults(),
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(v)
	}
	v.state.Store(StateInitialized)
	return v, nil
}

// State reports the current phase of the most recent Run. Safe to call
// from other goroutines while a run is in flight.
func (v *VQE) State() State {
	return v.state.Load().(State)
}

// Run minimizes the observable starting from the initial parameters. The
// loop ends converged when the optimizer reports a stationary point, when
// the cost delta stays within tolerance for a full window, or when the
// iteration budget runs out. A backend error fails the run immediately
// with the error attached; iterations are never re-run.
func (v *VQE) Run(ctx context.Context, initial []float64) Result {
	if len(initial) == 0 {
		v.state.Store(StateFailed)
		return Result{State: StateFailed, Err: fmt.Errorf("%w: empty initial parameter vector", types.ErrValidation)}
	}
	v.state.Store(StateEvaluating)

	evaluations := 0
	eval := func(ctx context.Context, params []float64) (float64, error) {
		c, err := v.cost(ctx, params)
		if err != nil {
			return 0, err
		}
		evaluations++
		return c, nil
	}

	params := append([]float64(nil), initial...)
	cost, err := eval(ctx, params)
	if err != nil {
		v.state.Store(StateFailed)
		return Result{State: StateFailed, Params: params, Evaluations: evaluations, Err: err}
	}

	v.log.Info("variational run started",
		zap.String("backend", v.backendID),
		zap.Int("parameters", len(params)),
		zap.Float64("initial_cost", cost))

	history := []float64{cost}
	bestParams := append([]float64(nil), params...)
	bestCost := cost
	streak := 0

	finish := func(state State, iter int, err error) Result {
		v.state.Store(state)
		r := Result{
			State:       state,
			Params:      bestParams,
			Cost:        bestCost,
			Iterations:  iter,
			Evaluations: evaluations,
			History:     history,
			Err:         err,
		}
		if state == StateConverged {
			v.log.Info("variational run converged",
				zap.Int("iterations", iter),
				zap.Int("evaluations", evaluations),
				zap.Float64("cost", bestCost))
		} else {
			v.log.Warn("variational run failed", zap.Int("iterations", iter), zap.Error(err))
		}
		return r
	}

	for iter := 1; iter <= v.cfg.MaxIterations; iter++ {
		next, done, err := v.opt.Step(ctx, params, cost, eval)
		if err != nil {
			return finish(StateFailed, iter-1, err)
		}
		if done {
			return finish(StateConverged, iter-1, nil)
		}

		nextCost, err := eval(ctx, next)
		if err != nil {
			return finish(StateFailed, iter-1, err)
		}
		history = append(history, nextCost)
		v.log.Debug("iteration complete",
			zap.Int("iteration", iter),
			zap.Float64("cost", nextCost))

		if math.Abs(nextCost-cost) <= v.cfg.Tolerance {
			streak++
		} else {
			streak = 0
		}

		params, cost = next, nextCost
		if cost < bestCost {
			bestCost = cost
			bestParams = append([]float64(nil), params...)
		}

		if streak >= v.cfg.Window {
			return finish(StateConverged, iter, nil)
		}
	}

	return finish(StateConverged, v.cfg.MaxIterations, nil)
}

// cost estimates the observable's expectation at one parameter point: the
// ansatz circuit is extended with basis rotations for every distinct
// non-identity Pauli string and each extension runs once on the backend.
func (v *VQE) cost(ctx context.Context, params []float64) (float64, error) {
	prep, err := v.ansatz(params)
	if err != nil {
		return 0, err
	}

	expectations := make(map[string]float64)
	for _, basis := range v.hamiltonian.BasisStrings() {
		mc, err := observable.MeasurementCircuit(prep, basis)
		if err != nil {
			return 0, err
		}
		req := backend.NewExecutionRequest(v.backendID, mc, v.cfg.Shots)
		req.Options.Seed = v.cfg.Seed

		res, err := v.mgr.Run(ctx, req)
		if err != nil {
			return 0, err
		}
		e, err := observable.ExpectationValue(basis, res.Counts)
		if err != nil {
			return 0, err
		}
		expectations[basis] = e
	}
	return v.hamiltonian.Evaluate(expectations)
}
