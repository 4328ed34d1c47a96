package backend

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// ExecutionRequest names a backend, a circuit, and the execution options
// for one run. Value object, constructed per call; the manager does not
// retain it after Run returns.
type ExecutionRequest struct {
	ID        string // UUID v7, generated on creation.
	BackendID string
	Circuit   types.Circuit
	Options   types.RunOptions
}

// NewExecutionRequest builds a request with a fresh ID for the given
// backend, circuit, and shot count.
func NewExecutionRequest(backendID string, c types.Circuit, shots int) ExecutionRequest {
	return ExecutionRequest{
		ID:        newRequestID(),
		BackendID: backendID,
		Circuit:   c,
		Options:   types.RunOptions{Shots: shots},
	}
}

// newRequestID generates a UUID v7, falling back to v4 if the clock is
// unavailable.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Validate checks that the request is executable: a named backend, a valid
// circuit, and a positive shot count unless a statevector was requested.
func (r ExecutionRequest) Validate() error {
	if r.BackendID == "" {
		return fmt.Errorf("%w: request names no backend", types.ErrValidation)
	}
	if err := r.Circuit.Validate(); err != nil {
		return err
	}
	if !r.Options.ReturnStatevector && r.Options.Shots <= 0 {
		return fmt.Errorf("%w: shots must be positive, got %d", types.ErrValidation, r.Options.Shots)
	}
	return nil
}
