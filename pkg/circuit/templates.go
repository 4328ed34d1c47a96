package circuit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// BellPair returns a two-qubit circuit preparing the Bell state
// (|00> + |11>)/sqrt(2), measuring both qubits when measure is set.
func BellPair(measure bool) (types.Circuit, error) {
	b := NewBuilder(2, 2).AddEntangledPair(0, 1)
	if measure {
		b.MeasureAll()
	}
	return b.Build()
}

// GHZState returns an n-qubit circuit preparing the GHZ state, measuring
// every qubit when measure is set.
func GHZState(qubits int, measure bool) (types.Circuit, error) {
	b := NewBuilder(qubits, qubits).AddHadamard(0)
	for i := 1; i < qubits; i++ {
		b.AddCNOT(0, i)
	}
	if measure {
		b.MeasureAll()
	}
	return b.Build()
}

// controlledPhase returns the 4x4 matrix of a controlled phase rotation,
// in the basis ordering |control target>.
func controlledPhase(angle float64) []complex128 {
	m := make([]complex128, 16)
	m[0], m[5], m[10] = 1, 1, 1
	m[15] = cmplx.Exp(complex(0, angle))
	return m
}

// QFT returns the quantum Fourier transform circuit over n qubits, without
// measurements. Controlled phase rotations are expressed as two-qubit
// unitaries since they are not part of the primitive gate set.
func QFT(qubits int) (types.Circuit, error) {
	b := NewBuilder(qubits, 0)
	for i := 0; i < qubits; i++ {
		b.AddHadamard(i)
		for j := i + 1; j < qubits; j++ {
			angle := math.Pi / math.Pow(2, float64(j-i))
			b.AddUnitary([]int{j, i}, controlledPhase(angle))
		}
	}
	for i := 0; i < qubits/2; i++ {
		b.AddSwap(i, qubits-1-i)
	}
	return b.Build()
}

// bitstringIndex converts a measurement bitstring (leftmost character is
// the highest qubit index) to a basis state index with qubit 0 as the
// least significant bit.
func bitstringIndex(bits string) (int, error) {
	idx := 0
	for _, ch := range bits {
		switch ch {
		case '0':
			idx <<= 1
		case '1':
			idx = idx<<1 | 1
		default:
			return 0, fmt.Errorf("%w: bitstring %q contains %q", types.ErrValidation, bits, ch)
		}
	}
	return idx, nil
}

// GroverOracle returns the phase oracle flipping the sign of every marked
// basis state, as an n-qubit diagonal unitary.
func GroverOracle(marked []string) (types.Instruction, error) {
	if len(marked) == 0 {
		return types.Instruction{}, fmt.Errorf("%w: no marked states", types.ErrValidation)
	}
	n := len(marked[0])
	dim := 1 << n
	m := make([]complex128, dim*dim)
	for i := 0; i < dim; i++ {
		m[i*dim+i] = 1
	}
	for _, bits := range marked {
		if len(bits) != n {
			return types.Instruction{}, fmt.Errorf("%w: marked states have mixed lengths", types.ErrValidation)
		}
		idx, err := bitstringIndex(bits)
		if err != nil {
			return types.Instruction{}, err
		}
		m[idx*dim+idx] = -1
	}
	qubits := make([]int, n)
	for i := range qubits {
		qubits[i] = n - 1 - i
	}
	params := make([]float64, 0, 2*len(m))
	for _, a := range m {
		params = append(params, real(a), imag(a))
	}
	return types.NewInstruction(types.GateUnitary, qubits, params), nil
}

// GroverSearch returns a Grover search circuit over the marked states.
// When iterations is zero the optimal count for the marked fraction is
// used. All qubits are measured.
func GroverSearch(marked []string, iterations int) (types.Circuit, error) {
	oracle, err := GroverOracle(marked)
	if err != nil {
		return types.Circuit{}, err
	}
	n := len(marked[0])
	if iterations <= 0 {
		// floor(pi / (4*theta)) with sin(theta) = sqrt(M/N) maximizes the
		// success amplitude sin((2k+1)*theta).
		N := float64(int(1) << n)
		M := float64(len(marked))
		theta := math.Asin(math.Sqrt(M / N))
		iterations = int(math.Floor(math.Pi / (4 * theta)))
		if iterations < 1 {
			iterations = 1
		}
	}

	// Diffusion operator: H^n, phase flip on everything but |0...0>, H^n.
	dim := 1 << n
	flip := make([]complex128, dim*dim)
	flip[0] = 1
	for i := 1; i < dim; i++ {
		flip[i*dim+i] = -1
	}
	diffQubits := make([]int, n)
	for i := range diffQubits {
		diffQubits[i] = n - 1 - i
	}

	b := NewBuilder(n, n)
	for q := 0; q < n; q++ {
		b.AddHadamard(q)
	}
	for i := 0; i < iterations; i++ {
		b.Add(oracle)
		for q := 0; q < n; q++ {
			b.AddHadamard(q)
		}
		b.AddUnitary(diffQubits, flip)
		for q := 0; q < n; q++ {
			b.AddHadamard(q)
		}
	}
	b.MeasureAll()
	return b.Build()
}

// AnsatzParamCount returns the number of parameters the hardware-efficient
// ansatz takes for the given width and depth.
func AnsatzParamCount(qubits, depth int) int {
	return qubits * depth
}

// HardwareEfficientAnsatz returns a variational ansatz of depth alternating
// layers: a Y rotation on every qubit followed by a CNOT entanglement
// chain, with a wraparound CNOT for widths above two. No measurements are
// appended; orchestrators add basis rotations and measurements per
// observable term.
func HardwareEfficientAnsatz(qubits, depth int, params []float64) (types.Circuit, error) {
	if want := AnsatzParamCount(qubits, depth); len(params) != want {
		return types.Circuit{}, fmt.Errorf("%w: ansatz needs %d parameters, got %d",
			types.ErrValidation, want, len(params))
	}
	b := NewBuilder(qubits, qubits)
	p := 0
	for d := 0; d < depth; d++ {
		for q := 0; q < qubits; q++ {
			b.AddRotationY(q, params[p])
			p++
		}
		for q := 0; q < qubits-1; q++ {
			b.AddCNOT(q, q+1)
		}
		if qubits > 2 {
			b.AddCNOT(qubits-1, 0)
		}
	}
	return b.Build()
}
