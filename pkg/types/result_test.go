package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		result  ExecutionResult
		shots   int
		wantErr error
	}{
		{
			name:   "counts summing to shots",
			result: ExecutionResult{Counts: map[string]int{"00": 600, "11": 400}},
			shots:  1000,
		},
		{
			name:   "statevector only",
			result: ExecutionResult{Statevector: []complex128{1, 0}},
			shots:  0,
		},
		{
			name:    "counts sum mismatch",
			result:  ExecutionResult{Counts: map[string]int{"00": 999}},
			shots:   1000,
			wantErr: ErrBackendContract,
		},
		{
			name:    "negative count",
			result:  ExecutionResult{Counts: map[string]int{"00": 1001, "11": -1}},
			shots:   1000,
			wantErr: ErrBackendContract,
		},
		{
			name:    "neither counts nor statevector",
			result:  ExecutionResult{},
			shots:   0,
			wantErr: ErrBackendContract,
		},
		{
			name: "both counts and statevector",
			result: ExecutionResult{
				Counts:      map[string]int{"0": 1},
				Statevector: []complex128{1, 0},
			},
			shots:   1,
			wantErr: ErrBackendContract,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate(tt.shots)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecutionResultProbabilities(t *testing.T) {
	r := ExecutionResult{Counts: map[string]int{"00": 750, "11": 250}}

	probs := r.Probabilities()
	assert.InDelta(t, 0.75, probs["00"], 1e-12)
	assert.InDelta(t, 0.25, probs["11"], 1e-12)

	empty := ExecutionResult{}
	assert.Empty(t, empty.Probabilities())
}
