package types

// Gate kinds. Every instruction in a circuit carries one of these values.
const (
	GateH       = "h"
	GateX       = "x"
	GateY       = "y"
	GateZ       = "z"
	GateS       = "s"
	GateT       = "t"
	GateSwap    = "swap"
	GateCNOT    = "cnot"
	GateCZ      = "cz"
	GateCCX     = "ccx"
	GateRX      = "rx"
	GateRY      = "ry"
	GateRZ      = "rz"
	GateUnitary = "unitary"
	GateMeasure = "measure"
)

// gateArity describes how many qubits and parameters a gate kind requires.
type gateArity struct {
	qubits int
	params int
}

// gateArities is the arity table for the recognized gate kinds.
// GateUnitary is absent: its arity is variable and checked separately.
var gateArities = map[string]gateArity{
	GateH:       {qubits: 1, params: 0},
	GateX:       {qubits: 1, params: 0},
	GateY:       {qubits: 1, params: 0},
	GateZ:       {qubits: 1, params: 0},
	GateS:       {qubits: 1, params: 0},
	GateT:       {qubits: 1, params: 0},
	GateSwap:    {qubits: 2, params: 0},
	GateCNOT:    {qubits: 2, params: 0},
	GateCZ:      {qubits: 2, params: 0},
	GateCCX:     {qubits: 3, params: 0},
	GateRX:      {qubits: 1, params: 1},
	GateRY:      {qubits: 1, params: 1},
	GateRZ:      {qubits: 1, params: 1},
	GateMeasure: {qubits: 1, params: 0},
}

// AllGateKinds returns every recognized gate kind, including GateUnitary
// and GateMeasure. The returned slice is a fresh copy.
func AllGateKinds() []string {
	return []string{
		GateH, GateX, GateY, GateZ, GateS, GateT,
		GateSwap, GateCNOT, GateCZ, GateCCX,
		GateRX, GateRY, GateRZ,
		GateUnitary, GateMeasure,
	}
}

// IsValidGateKind reports whether kind is a recognized gate kind.
func IsValidGateKind(kind string) bool {
	if kind == GateUnitary {
		return true
	}
	_, ok := gateArities[kind]
	return ok
}

// GateQubitArity returns the number of qubits the gate kind acts on.
// Returns -1 for GateUnitary (variable) and for unrecognized kinds.
func GateQubitArity(kind string) int {
	a, ok := gateArities[kind]
	if !ok {
		return -1
	}
	return a.qubits
}

// GateParamArity returns the number of real parameters the gate kind takes.
// Returns -1 for GateUnitary (variable) and for unrecognized kinds.
func GateParamArity(kind string) int {
	a, ok := gateArities[kind]
	if !ok {
		return -1
	}
	return a.params
}
