package simulator

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// state is a full-register statevector over n qubits. Qubit 0 is the least
// significant bit of the basis index.
type state struct {
	n    int
	amps []complex128
}

// newState returns the |0...0> state over n qubits.
func newState(n int) *state {
	s := &state{n: n, amps: make([]complex128, 1<<n)}
	s.amps[0] = 1
	return s
}

// single-qubit gate matrices, row-major.
func singleGateMatrix(kind string, params []float64) ([4]complex128, error) {
	invSqrt2 := complex(1/math.Sqrt2, 0)
	switch kind {
	case types.GateH:
		return [4]complex128{invSqrt2, invSqrt2, invSqrt2, -invSqrt2}, nil
	case types.GateX:
		return [4]complex128{0, 1, 1, 0}, nil
	case types.GateY:
		return [4]complex128{0, complex(0, -1), complex(0, 1), 0}, nil
	case types.GateZ:
		return [4]complex128{1, 0, 0, -1}, nil
	case types.GateS:
		return [4]complex128{1, 0, 0, complex(0, 1)}, nil
	case types.GateT:
		return [4]complex128{1, 0, 0, cmplx.Exp(complex(0, math.Pi/4))}, nil
	case types.GateRX:
		half := params[0] / 2
		c, s := complex(math.Cos(half), 0), complex(0, -math.Sin(half))
		return [4]complex128{c, s, s, c}, nil
	case types.GateRY:
		half := params[0] / 2
		c, s := complex(math.Cos(half), 0), complex(math.Sin(half), 0)
		return [4]complex128{c, -s, s, c}, nil
	case types.GateRZ:
		half := params[0] / 2
		return [4]complex128{cmplx.Exp(complex(0, -half)), 0, 0, cmplx.Exp(complex(0, half))}, nil
	default:
		return [4]complex128{}, fmt.Errorf("%w: %q is not a single-qubit gate", types.ErrUnsupportedGate, kind)
	}
}

// apply1 applies a single-qubit gate to the given qubit.
func (s *state) apply1(qubit int, m [4]complex128) {
	bit := 1 << qubit
	for i := range s.amps {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := s.amps[i], s.amps[j]
		s.amps[i] = m[0]*a0 + m[1]*a1
		s.amps[j] = m[2]*a0 + m[3]*a1
	}
}

// applyCNOT flips the target bit wherever the control bit is set.
func (s *state) applyCNOT(control, target int) {
	cbit, tbit := 1<<control, 1<<target
	for i := range s.amps {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// applyCZ negates the amplitude wherever both bits are set.
func (s *state) applyCZ(a, b int) {
	abit, bbit := 1<<a, 1<<b
	for i := range s.amps {
		if i&abit != 0 && i&bbit != 0 {
			s.amps[i] = -s.amps[i]
		}
	}
}

// applySwap exchanges the two qubits' bits.
func (s *state) applySwap(a, b int) {
	abit, bbit := 1<<a, 1<<b
	for i := range s.amps {
		if i&abit != 0 && i&bbit == 0 {
			j := i &^ abit | bbit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// applyCCX flips the target bit wherever both control bits are set.
func (s *state) applyCCX(c1, c2, target int) {
	b1, b2, tbit := 1<<c1, 1<<c2, 1<<target
	for i := range s.amps {
		if i&b1 != 0 && i&b2 != 0 && i&tbit == 0 {
			j := i | tbit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// applyUnitary applies a dense k-qubit unitary to the listed qubits. The
// first listed qubit is the most significant bit of the matrix's basis
// index; matrix is row-major over dimension 2^k with interleaved real and
// imaginary parts.
func (s *state) applyUnitary(qubits []int, params []float64) {
	k := len(qubits)
	dim := 1 << k
	m := make([]complex128, dim*dim)
	for i := range m {
		m[i] = complex(params[2*i], params[2*i+1])
	}

	mask := 0
	for _, q := range qubits {
		mask |= 1 << q
	}

	idx := make([]int, dim)
	vec := make([]complex128, dim)
	for base := range s.amps {
		if base&mask != 0 {
			continue
		}
		for local := 0; local < dim; local++ {
			full := base
			for pos, q := range qubits {
				if local&(1<<(k-1-pos)) != 0 {
					full |= 1 << q
				}
			}
			idx[local] = full
			vec[local] = s.amps[full]
		}
		for row := 0; row < dim; row++ {
			var acc complex128
			for col := 0; col < dim; col++ {
				acc += m[row*dim+col] * vec[col]
			}
			s.amps[idx[row]] = acc
		}
	}
}

// apply dispatches one non-measurement instruction onto the state.
func (s *state) apply(in types.Instruction) error {
	switch in.Kind {
	case types.GateCNOT:
		s.applyCNOT(in.Qubits[0], in.Qubits[1])
	case types.GateCZ:
		s.applyCZ(in.Qubits[0], in.Qubits[1])
	case types.GateSwap:
		s.applySwap(in.Qubits[0], in.Qubits[1])
	case types.GateCCX:
		s.applyCCX(in.Qubits[0], in.Qubits[1], in.Qubits[2])
	case types.GateUnitary:
		s.applyUnitary(in.Qubits, in.Params)
	default:
		m, err := singleGateMatrix(in.Kind, in.Params)
		if err != nil {
			return err
		}
		s.apply1(in.Qubits[0], m)
	}
	return nil
}

// probabilities returns |amp|^2 for every basis state.
func (s *state) probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}
