package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitValidate(t *testing.T) {
	tests := []struct {
		name    string
		circuit Circuit
		wantErr error
	}{
		{
			name: "bell pair with measurements",
			circuit: Circuit{
				QubitCount:        2,
				ClassicalBitCount: 2,
				Instructions: []Instruction{
					NewInstruction(GateH, []int{0}, nil),
					NewInstruction(GateCNOT, []int{0, 1}, nil),
					NewMeasurement(0, 0),
					NewMeasurement(1, 1),
				},
			},
		},
		{
			name:    "zero qubits",
			circuit: Circuit{QubitCount: 0, Instructions: []Instruction{NewInstruction(GateH, []int{0}, nil)}},
			wantErr: ErrValidation,
		},
		{
			name:    "negative classical bits",
			circuit: Circuit{QubitCount: 1, ClassicalBitCount: -1, Instructions: []Instruction{NewInstruction(GateH, []int{0}, nil)}},
			wantErr: ErrValidation,
		},
		{
			name:    "no instructions",
			circuit: Circuit{QubitCount: 1},
			wantErr: ErrValidation,
		},
		{
			name: "qubit index out of range",
			circuit: Circuit{
				QubitCount:   2,
				Instructions: []Instruction{NewInstruction(GateCNOT, []int{0, 2}, nil)},
			},
			wantErr: ErrValidation,
		},
		{
			name: "classical bit out of range",
			circuit: Circuit{
				QubitCount:        1,
				ClassicalBitCount: 1,
				Instructions: []Instruction{
					NewInstruction(GateH, []int{0}, nil),
					NewMeasurement(0, 1),
				},
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.circuit.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCircuitClone(t *testing.T) {
	c := Circuit{
		QubitCount:        2,
		ClassicalBitCount: 2,
		Instructions:      []Instruction{NewInstruction(GateRX, []int{0}, []float64{0.25})},
		Metadata:          map[string]string{"name": "test"},
	}

	clone := c.Clone()
	clone.Instructions[0].Params[0] = 7.0
	clone.Metadata["name"] = "changed"

	assert.Equal(t, 0.25, c.Instructions[0].Params[0])
	assert.Equal(t, "test", c.Metadata["name"])
}

func TestCircuitGateKinds(t *testing.T) {
	c := Circuit{
		QubitCount: 2,
		Instructions: []Instruction{
			NewInstruction(GateH, []int{0}, nil),
			NewInstruction(GateH, []int{1}, nil),
			NewInstruction(GateCNOT, []int{0, 1}, nil),
		},
	}

	kinds := c.GateKinds()
	assert.Equal(t, map[string]bool{GateH: true, GateCNOT: true}, kinds)
	assert.False(t, c.HasMeasurements())
}

func TestCircuitFingerprint(t *testing.T) {
	build := func(angle float64) Circuit {
		return Circuit{
			QubitCount: 1,
			Instructions: []Instruction{
				NewInstruction(GateRX, []int{0}, []float64{angle}),
			},
		}
	}

	a := build(0.5)
	b := build(0.5)
	c := build(0.6)

	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	// Metadata does not contribute to the fingerprint.
	withMeta := build(0.5)
	withMeta.Metadata = map[string]string{"name": "x"}
	assert.Equal(t, a.Fingerprint(), withMeta.Fingerprint())
}
