package types

import "fmt"

// Instruction describes a single quantum operation: a gate kind, the qubits
// it acts on, and its real parameters. Instructions are circuit-agnostic;
// qubit indices are only checked against register bounds when the
// instruction is appended to a circuit through the builder.
//
// Clbit is the classical bit receiving a measurement outcome and is
// meaningful only when Kind is GateMeasure; it is -1 otherwise.
type Instruction struct {
	Kind   string
	Qubits []int
	Params []float64
	Clbit  int
}

// NewInstruction constructs an instruction for a non-measurement gate.
// No validation is performed; out-of-range qubit indices are permitted
// until the instruction is attached to a circuit.
func NewInstruction(kind string, qubits []int, params []float64) Instruction {
	return Instruction{
		Kind:   kind,
		Qubits: append([]int(nil), qubits...),
		Params: append([]float64(nil), params...),
		Clbit:  -1,
	}
}

// NewMeasurement constructs a measurement instruction reading the given
// qubit into the given classical bit.
func NewMeasurement(qubit, clbit int) Instruction {
	return Instruction{
		Kind:   GateMeasure,
		Qubits: []int{qubit},
		Clbit:  clbit,
	}
}

// Clone returns a deep copy of the instruction.
func (in Instruction) Clone() Instruction {
	out := in
	out.Qubits = append([]int(nil), in.Qubits...)
	out.Params = append([]float64(nil), in.Params...)
	return out
}

// Validate checks the instruction's internal consistency: the gate kind is
// recognized, the qubit and parameter counts match the kind's arity, qubit
// indices are non-negative and distinct. Register bounds are not checked;
// use ValidateFor when the circuit dimensions are known.
// Returns an error wrapping ErrValidation on failure.
func (in Instruction) Validate() error {
	if !IsValidGateKind(in.Kind) {
		return fmt.Errorf("%w: unknown gate kind %q", ErrValidation, in.Kind)
	}

	if in.Kind == GateUnitary {
		n := len(in.Qubits)
		if n == 0 {
			return fmt.Errorf("%w: unitary gate needs at least one qubit", ErrValidation)
		}
		dim := 1 << n
		want := 2 * dim * dim
		if len(in.Params) != want {
			return fmt.Errorf("%w: unitary on %d qubits needs %d parameters, got %d",
				ErrValidation, n, want, len(in.Params))
		}
	} else {
		if got, want := len(in.Qubits), GateQubitArity(in.Kind); got != want {
			return fmt.Errorf("%w: gate %q acts on %d qubits, got %d",
				ErrValidation, in.Kind, want, got)
		}
		if got, want := len(in.Params), GateParamArity(in.Kind); got != want {
			return fmt.Errorf("%w: gate %q takes %d parameters, got %d",
				ErrValidation, in.Kind, want, got)
		}
	}

	seen := make(map[int]bool, len(in.Qubits))
	for _, q := range in.Qubits {
		if q < 0 {
			return fmt.Errorf("%w: negative qubit index %d", ErrValidation, q)
		}
		if seen[q] {
			return fmt.Errorf("%w: duplicate qubit index %d", ErrValidation, q)
		}
		seen[q] = true
	}

	if in.Kind == GateMeasure && in.Clbit < 0 {
		return fmt.Errorf("%w: measurement needs a non-negative classical bit", ErrValidation)
	}

	return nil
}

// ValidateFor checks the instruction against a circuit's register sizes in
// addition to the internal checks performed by Validate.
// Returns an error wrapping ErrValidation on failure.
func (in Instruction) ValidateFor(qubitCount, clbitCount int) error {
	if err := in.Validate(); err != nil {
		return err
	}
	for _, q := range in.Qubits {
		if q >= qubitCount {
			return fmt.Errorf("%w: qubit index %d out of range for %d-qubit circuit",
				ErrValidation, q, qubitCount)
		}
	}
	if in.Kind == GateMeasure && in.Clbit >= clbitCount {
		return fmt.Errorf("%w: classical bit %d out of range for %d classical bits",
			ErrValidation, in.Clbit, clbitCount)
	}
	return nil
}
