package backend

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// Manager is a registry of execution backends scoped to its own lifetime.
// Sessions create a Manager, register backends at startup, and pass it to
// the code that runs circuits; independent managers never interfere.
// Registration is expected to complete before concurrent lookups begin;
// reads after that point need no coordination beyond the internal lock.
type Manager struct {
	mu       sync.RWMutex
	backends map[string]types.Backend

	log   *zap.Logger
	retry RetryPolicy
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithRetryPolicy overrides the transient-failure retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(m *Manager) { m.retry = p }
}

// NewManager creates an empty backend registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		backends: make(map[string]types.Backend),
		log:      zap.NewNop(),
		retry:    DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a backend under the given identifier.
// Returns an error wrapping types.ErrDuplicateBackend if the identifier is
// already taken; the original registration is untouched.
func (m *Manager) Register(identifier string, b types.Backend) error {
	if identifier == "" {
		return fmt.Errorf("%w: empty backend identifier", types.ErrValidation)
	}
	if b == nil {
		return fmt.Errorf("%w: nil backend for %q", types.ErrValidation, identifier)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.backends[identifier]; exists {
		return fmt.Errorf("%w: %q", types.ErrDuplicateBackend, identifier)
	}
	m.backends[identifier] = b

	m.log.Info("registered backend",
		zap.String("backend", identifier),
		zap.Bool("simulator", b.Describe().IsSimulator))
	return nil
}

// Get returns the backend registered under the identifier.
// Returns an error wrapping types.ErrBackendNotFound if no backend is
// registered under it; a failed lookup has no side effects.
func (m *Manager) Get(identifier string) (types.Backend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.backends[identifier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrBackendNotFound, identifier)
	}
	return b, nil
}

// List returns the descriptors of registered backends matching the filter,
// in identifier order. A nil filter matches everything. The sequence
// re-reads the registry on every iteration rather than caching a snapshot,
// so it reflects registrations made between ranges.
func (m *Manager) List(filter func(types.BackendDescriptor) bool) iter.Seq[types.BackendDescriptor] {
	return func(yield func(types.BackendDescriptor) bool) {
		m.mu.RLock()
		ids := make([]string, 0, len(m.backends))
		for id := range m.backends {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		descriptors := make([]types.BackendDescriptor, 0, len(ids))
		for _, id := range ids {
			descriptors = append(descriptors, m.backends[id].Describe())
		}
		m.mu.RUnlock()

		for _, d := range descriptors {
			if filter != nil && !filter(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Simulators is a List filter matching simulator backends.
func Simulators(d types.BackendDescriptor) bool {
	return d.IsSimulator
}

// MinQubits returns a List filter matching backends with at least n qubits.
func MinQubits(n int) func(types.BackendDescriptor) bool {
	return func(d types.BackendDescriptor) bool {
		return d.MaxQubits >= n
	}
}

// Run executes the request on its named backend and returns the normalized
// result. Before any shots are consumed it verifies that the backend
// supports every gate kind in the circuit (types.ErrUnsupportedGate) and
// that the circuit fits the backend's register (types.ErrQubitLimit).
// Transient failures are retried per the manager's policy; a result whose
// counts do not sum to the requested shots surfaces as a fatal
// types.ErrBackendContract. Selection failures propagate: the manager
// never substitutes a different backend.
func (m *Manager) Run(ctx context.Context, req ExecutionRequest) (types.ExecutionResult, error) {
	if err := req.Validate(); err != nil {
		return types.ExecutionResult{}, err
	}
	b, err := m.Get(req.BackendID)
	if err != nil {
		return types.ExecutionResult{}, err
	}

	d := b.Describe()
	if req.Circuit.QubitCount > d.MaxQubits {
		return types.ExecutionResult{}, fmt.Errorf("%w: circuit has %d qubits, %q supports %d",
			types.ErrQubitLimit, req.Circuit.QubitCount, d.Identifier, d.MaxQubits)
	}
	for kind := range req.Circuit.GateKinds() {
		if !d.Supports(kind) {
			return types.ExecutionResult{}, fmt.Errorf("%w: %q on backend %q",
				types.ErrUnsupportedGate, kind, d.Identifier)
		}
	}

	m.log.Debug("running circuit",
		zap.String("request", req.ID),
		zap.String("backend", req.BackendID),
		zap.Int("qubits", req.Circuit.QubitCount),
		zap.Int("shots", req.Options.Shots))

	var result types.ExecutionResult
	start := time.Now()
	err = m.retry.do(ctx, func() error {
		var runErr error
		result, runErr = b.Run(ctx, req.Circuit, req.Options)
		return runErr
	})
	if err != nil {
		m.log.Warn("backend run failed",
			zap.String("request", req.ID),
			zap.String("backend", req.BackendID),
			zap.Error(err))
		return types.ExecutionResult{}, err
	}

	result = normalize(result, d.Identifier, req.Options, time.Since(start))
	if err := result.Validate(req.Options.Shots); err != nil {
		return types.ExecutionResult{}, fmt.Errorf("backend %q: %w", d.Identifier, err)
	}

	m.log.Info("circuit executed",
		zap.String("request", req.ID),
		zap.String("backend", req.BackendID),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// normalize fills the identity fields a backend may have left empty so
// every result leaving the manager has the canonical shape.
func normalize(r types.ExecutionResult, backendID string, opts types.RunOptions, elapsed time.Duration) types.ExecutionResult {
	if r.BackendID == "" {
		r.BackendID = backendID
	}
	if r.Shots == 0 {
		r.Shots = opts.Shots
	}
	if r.Elapsed == 0 {
		r.Elapsed = elapsed
	}
	return r
}
