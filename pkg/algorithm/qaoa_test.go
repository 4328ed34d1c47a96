package algorithm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

func TestMaxCutObservable(t *testing.T) {
	obs, err := MaxCutObservable(3, []Edge{{0, 1}, {1, 2}})
	require.NoError(t, err)

	require.Len(t, obs.Terms, 3)
	assert.Equal(t, "IZZ", obs.Terms[0].Paulis)
	assert.Equal(t, "ZZI", obs.Terms[1].Paulis)
	assert.Equal(t, "III", obs.Terms[2].Paulis)
	assert.Equal(t, -1.0, obs.Terms[2].Coefficient)
}

func TestMaxCutObservableValidation(t *testing.T) {
	tests := []struct {
		name     string
		vertices int
		edges    []Edge
	}{
		{"no vertices", 0, []Edge{{0, 1}}},
		{"no edges", 2, nil},
		{"edge out of range", 2, []Edge{{0, 5}}},
		{"self loop", 2, []Edge{{1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MaxCutObservable(tt.vertices, tt.edges)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestQAOAAnsatzParamCount(t *testing.T) {
	ansatz := QAOAAnsatz(2, []Edge{{0, 1}}, 2)

	_, err := ansatz([]float64{0.1})
	assert.ErrorIs(t, err, types.ErrValidation)

	c, err := ansatz([]float64{0.1, 0.2, 0.3, 0.4})
	require.NoError(t, err)
	assert.Equal(t, 2, c.QubitCount)
	assert.False(t, c.HasMeasurements())
}

func TestCutSize(t *testing.T) {
	edges := []Edge{{0, 1}, {1, 2}, {0, 2}}

	tests := []struct {
		bits string
		want int
	}{
		{"000", 0},
		{"001", 2}, // vertex 0 alone
		{"010", 2},
		{"011", 2},
		{"111", 0},
	}
	for _, tt := range tests {
		t.Run(tt.bits, func(t *testing.T) {
			got, err := CutSize(tt.bits, edges)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CutSize("0", edges)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestMostFrequent(t *testing.T) {
	assert.Equal(t, "11", mostFrequent(map[string]int{"00": 3, "11": 7}))
	// Ties break toward the smaller string.
	assert.Equal(t, "01", mostFrequent(map[string]int{"10": 5, "01": 5}))
	assert.Equal(t, "", mostFrequent(nil))
}

func TestQAOASolvesSingleEdgeMaxCut(t *testing.T) {
	mgr := newSimManager(t)

	opt := NewCoordinateSearch()
	opt.MinStep = 0.02
	cfg := Config{Shots: 2048, Seed: 5, Tolerance: 0.02, Window: 3, MaxIterations: 40}

	q, err := NewQAOA(mgr, "sim", 2, []Edge{{0, 1}}, 1, opt, cfg)
	require.NoError(t, err)

	result := q.Run(context.Background(), []float64{0.3, 0.2})
	assert.Equal(t, StateConverged, result.State)
	assert.Equal(t, StateConverged, q.State())
	// One edge, so the best expected cut value is -1.
	assert.Less(t, result.Cost, -0.7)

	bits, size, err := q.Cut(context.Background(), result.Params)
	require.NoError(t, err)
	assert.Len(t, bits, 2)
	assert.Equal(t, 1, size)
}

func TestNewQAOARejectsBadGraph(t *testing.T) {
	mgr := newSimManager(t)
	_, err := NewQAOA(mgr, "sim", 2, nil, 1, NewCoordinateSearch(), Config{})
	assert.ErrorIs(t, err, types.ErrValidation)
}
