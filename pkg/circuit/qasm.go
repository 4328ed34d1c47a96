package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// QASM gate names for the primitive gate set. Custom unitaries have no
// OpenQASM 2.0 spelling and cannot be encoded.
var kindToQASM = map[string]string{
	types.GateH:    "h",
	types.GateX:    "x",
	types.GateY:    "y",
	types.GateZ:    "z",
	types.GateS:    "s",
	types.GateT:    "t",
	types.GateSwap: "swap",
	types.GateCNOT: "cx",
	types.GateCZ:   "cz",
	types.GateCCX:  "ccx",
	types.GateRX:   "rx",
	types.GateRY:   "ry",
	types.GateRZ:   "rz",
}

var qasmToKind = func() map[string]string {
	m := make(map[string]string, len(kindToQASM))
	for kind, name := range kindToQASM {
		m[name] = kind
	}
	return m
}()

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex    = regexp.MustCompile(`^qreg\s+q\[(\d+)\];?$`)
	cregRegex    = regexp.MustCompile(`^creg\s+c\[(\d+)\];?$`)
	gateRegex    = regexp.MustCompile(`^(\w+)(?:\(([^)]*)\))?\s+(q\[\d+\](?:\s*,\s*q\[\d+\])*);?$`)
	qubitRegex   = regexp.MustCompile(`q\[(\d+)\]`)
	measureRegex = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*c\[(\d+)\];?$`)
)

// EncodeQASM renders the circuit as OpenQASM 2.0 text. Circuits containing
// custom unitary gates cannot be encoded and return an error wrapping
// types.ErrValidation.
func EncodeQASM(c types.Circuit) (string, error) {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.QubitCount)
	if c.ClassicalBitCount > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.ClassicalBitCount)
	}
	sb.WriteString("\n")

	for _, in := range c.Instructions {
		switch in.Kind {
		case types.GateMeasure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", in.Qubits[0], in.Clbit)
		case types.GateUnitary:
			return "", fmt.Errorf("%w: custom unitary gates have no QASM form", types.ErrValidation)
		default:
			name, ok := kindToQASM[in.Kind]
			if !ok {
				return "", fmt.Errorf("%w: gate %q has no QASM form", types.ErrValidation, in.Kind)
			}
			sb.WriteString(name)
			if len(in.Params) > 0 {
				sb.WriteString("(")
				for i, p := range in.Params {
					if i > 0 {
						sb.WriteString(", ")
					}
					sb.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
				}
				sb.WriteString(")")
			}
			sb.WriteString(" ")
			for i, q := range in.Qubits {
				if i > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "q[%d]", q)
			}
			sb.WriteString(";\n")
		}
	}
	return sb.String(), nil
}

// ParseQASM parses OpenQASM 2.0 text into a validated circuit. The subset
// understood is the primitive gate set plus measurements; gate modifiers,
// conditionals, and user-defined gates are rejected.
func ParseQASM(text string) (types.Circuit, error) {
	qubits, clbits := 0, 0
	var instructions []types.Instruction

	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			qubits, _ = strconv.Atoi(m[1])
			continue
		}
		if m := cregRegex.FindStringSubmatch(line); m != nil {
			clbits, _ = strconv.Atoi(m[1])
			continue
		}
		if m := measureRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			cl, _ := strconv.Atoi(m[2])
			instructions = append(instructions, types.NewMeasurement(q, cl))
			continue
		}
		if m := gateRegex.FindStringSubmatch(line); m != nil {
			kind, ok := qasmToKind[strings.ToLower(m[1])]
			if !ok {
				return types.Circuit{}, fmt.Errorf("%w: line %d: unknown gate %q",
					types.ErrValidation, lineNo+1, m[1])
			}
			var params []float64
			if m[2] != "" {
				for _, field := range strings.Split(m[2], ",") {
					p, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
					if err != nil {
						return types.Circuit{}, fmt.Errorf("%w: line %d: bad parameter %q",
							types.ErrValidation, lineNo+1, field)
					}
					params = append(params, p)
				}
			}
			var qs []int
			for _, qm := range qubitRegex.FindAllStringSubmatch(m[3], -1) {
				q, _ := strconv.Atoi(qm[1])
				qs = append(qs, q)
			}
			instructions = append(instructions, types.NewInstruction(kind, qs, params))
			continue
		}

		return types.Circuit{}, fmt.Errorf("%w: line %d: cannot parse %q",
			types.ErrValidation, lineNo+1, line)
	}

	if qubits == 0 {
		return types.Circuit{}, fmt.Errorf("%w: missing qreg declaration", types.ErrValidation)
	}

	b := NewBuilder(qubits, clbits)
	for _, in := range instructions {
		b.Add(in)
	}
	return b.Build()
}
