package types

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// Circuit is a frozen, ordered sequence of instructions over a fixed
// qubit and classical-bit register. Circuits are produced by the builder
// in package circuit and are never mutated after Build; backends receive
// them by value and must not retain references past a single Run call.
type Circuit struct {
	QubitCount        int
	ClassicalBitCount int
	Instructions      []Instruction
	Metadata          map[string]string
}

// Clone returns a deep copy of the circuit.
func (c Circuit) Clone() Circuit {
	out := Circuit{
		QubitCount:        c.QubitCount,
		ClassicalBitCount: c.ClassicalBitCount,
	}
	if c.Instructions != nil {
		out.Instructions = make([]Instruction, len(c.Instructions))
		for i, in := range c.Instructions {
			out.Instructions[i] = in.Clone()
		}
	}
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Validate checks the circuit invariants: a positive qubit count, a
// non-negative classical bit count, at least one instruction, and every
// instruction in bounds. Returns an error wrapping ErrValidation on failure.
func (c Circuit) Validate() error {
	if c.QubitCount <= 0 {
		return fmt.Errorf("%w: qubit count must be positive, got %d", ErrValidation, c.QubitCount)
	}
	if c.ClassicalBitCount < 0 {
		return fmt.Errorf("%w: classical bit count must be non-negative, got %d",
			ErrValidation, c.ClassicalBitCount)
	}
	if len(c.Instructions) == 0 {
		return fmt.Errorf("%w: circuit has no instructions", ErrValidation)
	}
	for i, in := range c.Instructions {
		if err := in.ValidateFor(c.QubitCount, c.ClassicalBitCount); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return nil
}

// HasMeasurements reports whether the circuit contains at least one
// measurement instruction.
func (c Circuit) HasMeasurements() bool {
	for _, in := range c.Instructions {
		if in.Kind == GateMeasure {
			return true
		}
	}
	return false
}

// GateKinds returns the set of gate kinds used by the circuit.
func (c Circuit) GateKinds() map[string]bool {
	kinds := make(map[string]bool)
	for _, in := range c.Instructions {
		kinds[in.Kind] = true
	}
	return kinds
}

// Fingerprint returns a stable hash of the circuit's registers and
// instruction sequence. Metadata does not contribute; two circuits with the
// same instructions share a fingerprint. Used as a cache key by backends
// that encode circuits for transmission.
func (c Circuit) Fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeInt(c.QubitCount)
	writeInt(c.ClassicalBitCount)
	for _, in := range c.Instructions {
		h.Write([]byte(in.Kind))
		writeInt(len(in.Qubits))
		for _, q := range in.Qubits {
			writeInt(q)
		}
		writeInt(len(in.Params))
		for _, p := range in.Params {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p))
			h.Write(buf[:])
		}
		writeInt(in.Clbit)
	}
	return h.Sum64()
}
