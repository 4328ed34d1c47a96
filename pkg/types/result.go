package types

import (
	"fmt"
	"time"
)

// ExecutionResult is the normalized output of a backend run, independent of
// the engine that produced it. Exactly one of Counts and Statevector is
// populated for a completed execution; ExpectationValues is present only
// when observables were requested by a higher layer.
type ExecutionResult struct {
	BackendID         string
	Shots             int
	Counts            map[string]int
	Statevector       []complex128
	ExpectationValues map[string]float64
	Elapsed           time.Duration
}

// Validate checks the normalization contract: exactly one of counts and
// statevector populated, and counts summing exactly to the requested shots.
// A violation wraps ErrBackendContract; it indicates a broken backend
// implementation and is never retried.
func (r ExecutionResult) Validate(shots int) error {
	hasCounts := len(r.Counts) > 0
	hasState := len(r.Statevector) > 0
	if hasCounts == hasState {
		return fmt.Errorf("%w: exactly one of counts and statevector must be populated",
			ErrBackendContract)
	}
	if hasCounts {
		sum := 0
		for bits, n := range r.Counts {
			if n < 0 {
				return fmt.Errorf("%w: negative count %d for %q", ErrBackendContract, n, bits)
			}
			sum += n
		}
		if sum != shots {
			return fmt.Errorf("%w: counts sum to %d, requested %d shots",
				ErrBackendContract, sum, shots)
		}
	}
	return nil
}

// Probabilities returns the empirical outcome distribution derived from
// counts. Returns an empty map when the result carries no counts.
func (r ExecutionResult) Probabilities() map[string]float64 {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	probs := make(map[string]float64, len(r.Counts))
	if total == 0 {
		return probs
	}
	for bits, n := range r.Counts {
		probs[bits] = float64(n) / float64(total)
	}
	return probs
}
