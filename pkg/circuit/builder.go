package circuit

import (
	"fmt"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// Builder constructs circuits through a chainable interface. Every Add call
// validates the instruction against the declared registers before appending
// it; the first validation failure sticks and is returned by Build. A
// builder is a mutable value and not safe for concurrent use; the circuits
// it produces are frozen and independent of the builder's internal buffer.
type Builder struct {
	qubitCount int
	clbitCount int
	buf        []types.Instruction
	metadata   map[string]string
	err        error
}

// NewBuilder creates a builder for a circuit with the given number of
// qubits and classical bits.
func NewBuilder(qubits, clbits int) *Builder {
	b := &Builder{qubitCount: qubits, clbitCount: clbits}
	if qubits <= 0 {
		b.err = fmt.Errorf("%w: qubit count must be positive, got %d", types.ErrValidation, qubits)
	} else if clbits < 0 {
		b.err = fmt.Errorf("%w: classical bit count must be non-negative, got %d", types.ErrValidation, clbits)
	}
	return b
}

// Extend returns a builder preloaded with the instructions and metadata of
// an existing circuit, so callers can derive a longer circuit without
// mutating the original.
func Extend(c types.Circuit) *Builder {
	b := NewBuilder(c.QubitCount, c.ClassicalBitCount)
	for _, in := range c.Instructions {
		b.Add(in)
	}
	for k, v := range c.Metadata {
		b.WithMetadata(k, v)
	}
	return b
}

// Add validates the instruction against the builder's registers and
// appends it. The instruction is copied; later mutation of the argument
// does not affect the builder.
func (b *Builder) Add(in types.Instruction) *Builder {
	if b.err != nil {
		return b
	}
	if err := in.ValidateFor(b.qubitCount, b.clbitCount); err != nil {
		b.err = err
		return b
	}
	b.buf = append(b.buf, in.Clone())
	return b
}

// AddGate appends a gate of the given kind acting on the given qubits with
// the given parameters.
func (b *Builder) AddGate(kind string, qubits []int, params []float64) *Builder {
	return b.Add(types.NewInstruction(kind, qubits, params))
}

// AddHadamard appends a Hadamard gate.
func (b *Builder) AddHadamard(qubit int) *Builder {
	return b.AddGate(types.GateH, []int{qubit}, nil)
}

// AddPauliX appends a Pauli-X gate.
func (b *Builder) AddPauliX(qubit int) *Builder {
	return b.AddGate(types.GateX, []int{qubit}, nil)
}

// AddPauliY appends a Pauli-Y gate.
func (b *Builder) AddPauliY(qubit int) *Builder {
	return b.AddGate(types.GateY, []int{qubit}, nil)
}

// AddPauliZ appends a Pauli-Z gate.
func (b *Builder) AddPauliZ(qubit int) *Builder {
	return b.AddGate(types.GateZ, []int{qubit}, nil)
}

// AddS appends an S phase gate.
func (b *Builder) AddS(qubit int) *Builder {
	return b.AddGate(types.GateS, []int{qubit}, nil)
}

// AddT appends a T phase gate.
func (b *Builder) AddT(qubit int) *Builder {
	return b.AddGate(types.GateT, []int{qubit}, nil)
}

// AddCNOT appends a controlled-NOT gate.
func (b *Builder) AddCNOT(control, target int) *Builder {
	return b.AddGate(types.GateCNOT, []int{control, target}, nil)
}

// AddCZ appends a controlled-Z gate.
func (b *Builder) AddCZ(control, target int) *Builder {
	return b.AddGate(types.GateCZ, []int{control, target}, nil)
}

// AddSwap appends a SWAP gate.
func (b *Builder) AddSwap(qubit1, qubit2 int) *Builder {
	return b.AddGate(types.GateSwap, []int{qubit1, qubit2}, nil)
}

// AddToffoli appends a Toffoli (CCX) gate.
func (b *Builder) AddToffoli(control1, control2, target int) *Builder {
	return b.AddGate(types.GateCCX, []int{control1, control2, target}, nil)
}

// AddRotationX appends an X rotation by angle radians.
func (b *Builder) AddRotationX(qubit int, angle float64) *Builder {
	return b.AddGate(types.GateRX, []int{qubit}, []float64{angle})
}

// AddRotationY appends a Y rotation by angle radians.
func (b *Builder) AddRotationY(qubit int, angle float64) *Builder {
	return b.AddGate(types.GateRY, []int{qubit}, []float64{angle})
}

// AddRotationZ appends a Z rotation by angle radians.
func (b *Builder) AddRotationZ(qubit int, angle float64) *Builder {
	return b.AddGate(types.GateRZ, []int{qubit}, []float64{angle})
}

// AddUnitary appends a custom unitary over the given qubits. The matrix is
// row-major over the 2^n-dimensional space spanned by the qubits.
func (b *Builder) AddUnitary(qubits []int, matrix []complex128) *Builder {
	params := make([]float64, 0, 2*len(matrix))
	for _, a := range matrix {
		params = append(params, real(a), imag(a))
	}
	return b.AddGate(types.GateUnitary, qubits, params)
}

// AddMeasurement appends a measurement of the given qubit into the given
// classical bit.
func (b *Builder) AddMeasurement(qubit, clbit int) *Builder {
	return b.Add(types.NewMeasurement(qubit, clbit))
}

// MeasureAll appends a measurement of every qubit into the classical bit of
// the same index. The classical register must be at least as wide as the
// quantum register.
func (b *Builder) MeasureAll() *Builder {
	for q := 0; q < b.qubitCount; q++ {
		b.AddMeasurement(q, q)
	}
	return b
}

// AddEntangledPair prepares a Bell pair on the two qubits.
func (b *Builder) AddEntangledPair(qubit1, qubit2 int) *Builder {
	return b.AddHadamard(qubit1).AddCNOT(qubit1, qubit2)
}

// WithMetadata attaches a metadata key/value pair to the built circuit.
func (b *Builder) WithMetadata(key, value string) *Builder {
	if b.err != nil {
		return b
	}
	if b.metadata == nil {
		b.metadata = make(map[string]string)
	}
	b.metadata[key] = value
	return b
}

// Err returns the first validation error encountered so far, or nil.
func (b *Builder) Err() error {
	return b.err
}

// Build performs final validation and returns the frozen circuit. The
// returned circuit is a deep copy: further builder calls never mutate it.
// Returns an error wrapping types.ErrValidation if any Add call failed or
// the circuit is empty.
func (b *Builder) Build() (types.Circuit, error) {
	if b.err != nil {
		return types.Circuit{}, b.err
	}
	c := types.Circuit{
		QubitCount:        b.qubitCount,
		ClassicalBitCount: b.clbitCount,
		Instructions:      b.buf,
		Metadata:          b.metadata,
	}
	if err := c.Validate(); err != nil {
		return types.Circuit{}, err
	}
	return c.Clone(), nil
}
