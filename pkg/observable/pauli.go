// Package observable defines Pauli-string observables and estimates their
// expectation values from measurement counts. Orchestrators rotate the
// measurement basis per term, run the circuit, and feed the counts back
// through ExpectationValue.
package observable

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/quanta/pkg/circuit"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

// Term is a weighted Pauli string. Paulis is read left to right from the
// highest qubit index down, matching measurement bitstrings: "IZ" applies Z
// to qubit 0 of a two-qubit register.
type Term struct {
	Coefficient float64
	Paulis      string
}

// Observable is a linear combination of Pauli terms over a fixed register
// width.
type Observable struct {
	Terms []Term
}

// New builds an observable from terms, validating that every Pauli string
// uses only I, X, Y, Z and that all terms have the same width.
func New(terms ...Term) (Observable, error) {
	if len(terms) == 0 {
		return Observable{}, fmt.Errorf("%w: observable has no terms", types.ErrValidation)
	}
	width := len(terms[0].Paulis)
	for _, t := range terms {
		if len(t.Paulis) != width {
			return Observable{}, fmt.Errorf("%w: mixed Pauli string widths", types.ErrValidation)
		}
		for _, ch := range t.Paulis {
			switch ch {
			case 'I', 'X', 'Y', 'Z':
			default:
				return Observable{}, fmt.Errorf("%w: invalid Pauli %q in %q",
					types.ErrValidation, ch, t.Paulis)
			}
		}
	}
	return Observable{Terms: terms}, nil
}

// Qubits returns the register width the observable acts on.
func (o Observable) Qubits() int {
	if len(o.Terms) == 0 {
		return 0
	}
	return len(o.Terms[0].Paulis)
}

// BasisStrings returns the distinct Pauli strings of the observable,
// skipping identity-only terms, in first-appearance order. Each distinct
// string needs one circuit execution per evaluation.
func (o Observable) BasisStrings() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range o.Terms {
		if isIdentity(t.Paulis) || seen[t.Paulis] {
			continue
		}
		seen[t.Paulis] = true
		out = append(out, t.Paulis)
	}
	return out
}

func isIdentity(paulis string) bool {
	for _, ch := range paulis {
		if ch != 'I' {
			return false
		}
	}
	return true
}

// MeasurementCircuit extends a state-preparation circuit with the basis
// rotations for the given Pauli string and measures every qubit. X is
// rotated into the computational basis with H, Y with S-dagger followed by
// H (S-dagger expressed as an RZ by -pi/2).
func MeasurementCircuit(prep types.Circuit, paulis string) (types.Circuit, error) {
	n := len(paulis)
	if n != prep.QubitCount {
		return types.Circuit{}, fmt.Errorf("%w: Pauli string %q does not match %d-qubit circuit",
			types.ErrValidation, paulis, prep.QubitCount)
	}
	if prep.ClassicalBitCount < n {
		return types.Circuit{}, fmt.Errorf("%w: circuit needs %d classical bits, has %d",
			types.ErrValidation, n, prep.ClassicalBitCount)
	}

	b := circuit.Extend(prep)
	for i := 0; i < n; i++ {
		qubit := n - 1 - i
		switch paulis[i] {
		case 'X':
			b.AddHadamard(qubit)
		case 'Y':
			b.AddRotationZ(qubit, -math.Pi/2)
			b.AddHadamard(qubit)
		}
	}
	return b.MeasureAll().Build()
}

// ExpectationValue estimates <P> for a single Pauli string from counts
// measured in the rotated basis: the parity of the outcome bits at non-I
// positions, averaged over shots.
func ExpectationValue(paulis string, counts map[string]int) (float64, error) {
	total := 0
	acc := 0.0
	for bits, n := range counts {
		if len(bits) < len(paulis) {
			return 0, fmt.Errorf("%w: bitstring %q shorter than Pauli string %q",
				types.ErrBackendContract, bits, paulis)
		}
		parity := 1.0
		// Bitstrings may be wider than the Pauli string when the circuit
		// carries extra classical bits; the observable reads the low bits,
		// which sit at the right end.
		offset := len(bits) - len(paulis)
		for i := 0; i < len(paulis); i++ {
			if paulis[i] != 'I' && bits[offset+i] == '1' {
				parity = -parity
			}
		}
		acc += parity * float64(n)
		total += n
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: no counts to estimate from", types.ErrBackendContract)
	}
	return acc / float64(total), nil
}

// Evaluate combines per-basis expectation estimates into the observable's
// value. expectations maps each string from BasisStrings to its estimate;
// identity terms contribute their coefficient directly.
func (o Observable) Evaluate(expectations map[string]float64) (float64, error) {
	value := 0.0
	for _, t := range o.Terms {
		if isIdentity(t.Paulis) {
			value += t.Coefficient
			continue
		}
		e, ok := expectations[t.Paulis]
		if !ok {
			return 0, fmt.Errorf("%w: missing expectation for %q", types.ErrValidation, t.Paulis)
		}
		value += t.Coefficient * e
	}
	return value, nil
}

// H2Hamiltonian returns the minimal-basis two-qubit Hamiltonian of
// molecular hydrogen, the standard reference problem for variational
// eigensolvers.
func H2Hamiltonian() Observable {
	return Observable{Terms: []Term{
		{Coefficient: -1.052373245772859, Paulis: "II"},
		{Coefficient: 0.39793742484318045, Paulis: "IZ"},
		{Coefficient: -0.39793742484318045, Paulis: "ZI"},
		{Coefficient: -0.01128010425623538, Paulis: "ZZ"},
		{Coefficient: 0.18093119978423156, Paulis: "XX"},
	}}
}
