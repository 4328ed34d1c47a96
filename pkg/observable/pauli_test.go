package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quanta/pkg/circuit"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		terms   []Term
		wantErr bool
	}{
		{
			name:  "valid two-qubit observable",
			terms: []Term{{1.0, "ZZ"}, {0.5, "XX"}},
		},
		{
			name:    "no terms",
			wantErr: true,
		},
		{
			name:    "mixed widths",
			terms:   []Term{{1.0, "ZZ"}, {0.5, "X"}},
			wantErr: true,
		},
		{
			name:    "invalid pauli letter",
			terms:   []Term{{1.0, "ZA"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := New(tt.terms...)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, o.Qubits())
		})
	}
}

func TestBasisStrings(t *testing.T) {
	o := H2Hamiltonian()

	// Identity term excluded, duplicates collapsed, order preserved.
	assert.Equal(t, []string{"IZ", "ZI", "ZZ", "XX"}, o.BasisStrings())
}

func TestExpectationValue(t *testing.T) {
	tests := []struct {
		name   string
		paulis string
		counts map[string]int
		want   float64
	}{
		{
			name:   "ZZ on perfectly correlated counts",
			paulis: "ZZ",
			counts: map[string]int{"00": 500, "11": 500},
			want:   1.0,
		},
		{
			name:   "ZZ on anti-correlated counts",
			paulis: "ZZ",
			counts: map[string]int{"01": 500, "10": 500},
			want:   -1.0,
		},
		{
			name:   "IZ reads only the low qubit",
			paulis: "IZ",
			counts: map[string]int{"10": 400, "11": 600},
			want:   400.0/1000 - 600.0/1000,
		},
		{
			name:   "uniform counts average to zero",
			paulis: "ZI",
			counts: map[string]int{"00": 250, "01": 250, "10": 250, "11": 250},
			want:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpectationValue(tt.paulis, tt.counts)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestExpectationValueErrors(t *testing.T) {
	_, err := ExpectationValue("ZZ", map[string]int{"0": 10})
	assert.ErrorIs(t, err, types.ErrBackendContract)

	_, err = ExpectationValue("ZZ", map[string]int{})
	assert.ErrorIs(t, err, types.ErrBackendContract)
}

func TestEvaluate(t *testing.T) {
	o, err := New(Term{2.0, "II"}, Term{0.5, "ZZ"}, Term{-1.0, "XX"})
	require.NoError(t, err)

	value, err := o.Evaluate(map[string]float64{"ZZ": 1.0, "XX": -0.5})
	require.NoError(t, err)
	assert.InDelta(t, 2.0+0.5*1.0+(-1.0)*(-0.5), value, 1e-12)

	_, err = o.Evaluate(map[string]float64{"ZZ": 1.0})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestMeasurementCircuit(t *testing.T) {
	prep, err := circuit.BellPair(false)
	require.NoError(t, err)

	// ZZ needs no rotations, only measurements.
	zz, err := MeasurementCircuit(prep, "ZZ")
	require.NoError(t, err)
	assert.Len(t, zz.Instructions, len(prep.Instructions)+2)

	// XX adds one Hadamard per qubit.
	xx, err := MeasurementCircuit(prep, "XX")
	require.NoError(t, err)
	assert.Len(t, xx.Instructions, len(prep.Instructions)+2+2)

	// Width mismatch is rejected.
	_, err = MeasurementCircuit(prep, "ZZZ")
	assert.ErrorIs(t, err, types.ErrValidation)
}
