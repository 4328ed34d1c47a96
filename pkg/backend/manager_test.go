package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quanta/pkg/circuit"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

// stubBackend is a configurable in-memory backend for manager tests.
type stubBackend struct {
	descriptor types.BackendDescriptor
	run        func(ctx context.Context, c types.Circuit, opts types.RunOptions) (types.ExecutionResult, error)
	runCalls   int
}

func (s *stubBackend) Run(ctx context.Context, c types.Circuit, opts types.RunOptions) (types.ExecutionResult, error) {
	s.runCalls++
	if s.run != nil {
		return s.run(ctx, c, opts)
	}
	return types.ExecutionResult{Counts: map[string]int{"00": opts.Shots}}, nil
}

func (s *stubBackend) Describe() types.BackendDescriptor {
	return s.descriptor
}

func newStub(id string, maxQubits int, gates []string) *stubBackend {
	return &stubBackend{
		descriptor: types.NewBackendDescriptor(id, maxQubits, gates, true),
	}
}

func bellCircuit(t *testing.T) types.Circuit {
	t.Helper()
	c, err := circuit.BellPair(true)
	require.NoError(t, err)
	return c
}

var allGates = types.AllGateKinds()

func TestManagerRegister(t *testing.T) {
	m := NewManager()
	stub := newStub("sim", 4, allGates)

	require.NoError(t, m.Register("sim", stub))

	// Second registration under the same identifier fails and leaves the
	// original retrievable.
	err := m.Register("sim", newStub("sim", 8, allGates))
	assert.ErrorIs(t, err, types.ErrDuplicateBackend)

	got, err := m.Get("sim")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Describe().MaxQubits)
}

func TestManagerRegisterInvalid(t *testing.T) {
	m := NewManager()

	assert.ErrorIs(t, m.Register("", newStub("x", 1, allGates)), types.ErrValidation)
	assert.ErrorIs(t, m.Register("x", nil), types.ErrValidation)
}

func TestManagerGetNotFound(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register("sim", newStub("sim", 4, allGates)))

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, types.ErrBackendNotFound)

	// The failed lookup leaves the registry unchanged.
	count := 0
	for range m.List(nil) {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestManagerList(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register("sim-b", newStub("sim-b", 8, allGates)))
	require.NoError(t, m.Register("sim-a", newStub("sim-a", 2, allGates)))

	var ids []string
	for d := range m.List(nil) {
		ids = append(ids, d.Identifier)
	}
	assert.Equal(t, []string{"sim-a", "sim-b"}, ids)

	// Filtered.
	ids = nil
	for d := range m.List(MinQubits(4)) {
		ids = append(ids, d.Identifier)
	}
	assert.Equal(t, []string{"sim-b"}, ids)

	// The sequence re-reads the registry: a backend registered between
	// iterations appears on the next range.
	seq := m.List(nil)
	require.NoError(t, m.Register("sim-c", newStub("sim-c", 16, allGates)))
	ids = nil
	for d := range seq {
		ids = append(ids, d.Identifier)
	}
	assert.Equal(t, []string{"sim-a", "sim-b", "sim-c"}, ids)
}

func TestManagerRun(t *testing.T) {
	m := NewManager()
	stub := newStub("sim", 4, allGates)
	require.NoError(t, m.Register("sim", stub))

	req := NewExecutionRequest("sim", bellCircuit(t), 100)
	require.NotEmpty(t, req.ID)

	res, err := m.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "sim", res.BackendID)
	assert.Equal(t, 100, res.Shots)
	assert.Equal(t, map[string]int{"00": 100}, res.Counts)
}

func TestManagerRunPreflight(t *testing.T) {
	m := NewManager()
	// Backend without CNOT support and only one qubit.
	narrow := newStub("narrow", 1, []string{types.GateH, types.GateMeasure})
	wide := newStub("wide", 8, []string{types.GateH, types.GateMeasure})
	require.NoError(t, m.Register("narrow", narrow))
	require.NoError(t, m.Register("wide", wide))

	bell := bellCircuit(t)

	_, err := m.Run(context.Background(), NewExecutionRequest("narrow", bell, 10))
	assert.ErrorIs(t, err, types.ErrQubitLimit)
	assert.Zero(t, narrow.runCalls, "no shots consumed on pre-flight failure")

	_, err = m.Run(context.Background(), NewExecutionRequest("wide", bell, 10))
	assert.ErrorIs(t, err, types.ErrUnsupportedGate)
	assert.Zero(t, wide.runCalls, "no shots consumed on pre-flight failure")

	_, err = m.Run(context.Background(), NewExecutionRequest("missing", bell, 10))
	assert.ErrorIs(t, err, types.ErrBackendNotFound)
}

func TestManagerRunRequestValidation(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register("sim", newStub("sim", 4, allGates)))

	// Zero shots without a statevector request.
	req := NewExecutionRequest("sim", bellCircuit(t), 0)
	_, err := m.Run(context.Background(), req)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestManagerRunContractViolation(t *testing.T) {
	m := NewManager()
	broken := newStub("broken", 4, allGates)
	broken.run = func(_ context.Context, _ types.Circuit, opts types.RunOptions) (types.ExecutionResult, error) {
		// Counts short by one shot.
		return types.ExecutionResult{Counts: map[string]int{"00": opts.Shots - 1}}, nil
	}
	require.NoError(t, m.Register("broken", broken))

	_, err := m.Run(context.Background(), NewExecutionRequest("broken", bellCircuit(t), 100))
	assert.ErrorIs(t, err, types.ErrBackendContract)
	assert.Equal(t, 1, broken.runCalls, "contract violations are never retried")
}

func TestManagerRunRetriesTransient(t *testing.T) {
	m := NewManager(WithRetryPolicy(RetryPolicy{MaxAttempts: 3, InitialBackoff: 1, MaxBackoff: 1}))
	flaky := newStub("flaky", 4, allGates)
	flaky.run = func(_ context.Context, _ types.Circuit, opts types.RunOptions) (types.ExecutionResult, error) {
		if flaky.runCalls < 3 {
			return types.ExecutionResult{}, fmt.Errorf("%w: connection reset", types.ErrTransient)
		}
		return types.ExecutionResult{Counts: map[string]int{"00": opts.Shots}}, nil
	}
	require.NoError(t, m.Register("flaky", flaky))

	res, err := m.Run(context.Background(), NewExecutionRequest("flaky", bellCircuit(t), 10))
	require.NoError(t, err)
	assert.Equal(t, 3, flaky.runCalls)
	assert.Equal(t, 10, res.Shots)
}

func TestManagerRunStopsRetryingAtBound(t *testing.T) {
	m := NewManager(WithRetryPolicy(RetryPolicy{MaxAttempts: 2, InitialBackoff: 1, MaxBackoff: 1}))
	down := newStub("down", 4, allGates)
	down.run = func(_ context.Context, _ types.Circuit, _ types.RunOptions) (types.ExecutionResult, error) {
		return types.ExecutionResult{}, fmt.Errorf("%w: no route to host", types.ErrTransient)
	}
	require.NoError(t, m.Register("down", down))

	_, err := m.Run(context.Background(), NewExecutionRequest("down", bellCircuit(t), 10))
	assert.ErrorIs(t, err, types.ErrTransient)
	assert.Equal(t, 2, down.runCalls)
}

func TestManagerRunDoesNotRetryOtherErrors(t *testing.T) {
	m := NewManager()
	failing := newStub("failing", 4, allGates)
	wantErr := errors.New("engine exploded")
	failing.run = func(_ context.Context, _ types.Circuit, _ types.RunOptions) (types.ExecutionResult, error) {
		return types.ExecutionResult{}, wantErr
	}
	require.NoError(t, m.Register("failing", failing))

	_, err := m.Run(context.Background(), NewExecutionRequest("failing", bellCircuit(t), 10))
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, failing.runCalls)
}

func TestDescribeIdempotent(t *testing.T) {
	stub := newStub("sim", 4, allGates)
	assert.Equal(t, stub.Describe(), stub.Describe())
}
