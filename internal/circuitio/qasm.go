package circuitio

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qevolve/internal/quantum"
)

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex       = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\]$`)
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+(\w+)\[(\d+)\]$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+(\w+)\[(\d+)\]\s*,\s*(\w+)\[(\d+)\]$`)
	// Any other application, e.g. "rx(pi/2) q[0]" or "ccx q[0],q[1],q[2]".
	gateLikeRegex = regexp.MustCompile(`^(\w+)\s*(?:\([^)]*\))?\s+\w+\[\d+\]`)
)

var qasmNames = map[quantum.GateKind]string{
	quantum.GateH:    "h",
	quantum.GateX:    "x",
	quantum.GateY:    "y",
	quantum.GateZ:    "z",
	quantum.GateS:    "s",
	quantum.GateT:    "t",
	quantum.GateCNOT: "cx",
}

// ToQASM renders the circuit as OpenQASM 2.0 over a single register "q".
func ToQASM(c *quantum.Circuit) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", c.NumQubits())

	for _, op := range c.Ops() {
		name := qasmNames[op.Kind]
		if op.Kind == quantum.GateCNOT {
			fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", name, op.Control, op.Target)
			continue
		}
		fmt.Fprintf(&sb, "%s q[%d];\n", name, op.Qubit)
	}
	return sb.String()
}

// ParseQASM reads the supported OpenQASM 2.0 subset. The qreg declaration, if
// present, fixes the register size. Headers, creg, barrier and measure
// statements carry no unitary and are skipped; any other gate application
// outside {h, x, y, z, s, t, cx} is an UnsupportedGateError.
func ParseQASM(src string) (*quantum.Circuit, error) {
	var ops []quantum.GateOperation
	numQubits := -1
	register := ""

	for _, stmt := range statements(src) {
		line := stmt.text
		switch {
		case strings.HasPrefix(line, "OPENQASM"),
			strings.HasPrefix(line, "include"),
			strings.HasPrefix(line, "creg"),
			strings.HasPrefix(line, "barrier"),
			strings.HasPrefix(line, "measure"):
			continue
		}

		if matches := qregRegex.FindStringSubmatch(line); matches != nil {
			if register != "" {
				return nil, fmt.Errorf("circuitio: line %d: only one qreg is supported", stmt.line)
			}
			register = matches[1]
			numQubits, _ = strconv.Atoi(matches[2])
			continue
		}

		step := len(ops)
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			kind, err := quantum.ParseGateKind(matches[1])
			if err != nil || kind != quantum.GateCNOT {
				return nil, &quantum.UnsupportedGateError{Gate: matches[1], Step: step}
			}
			if err := checkRegister(register, stmt.line, matches[2], matches[4]); err != nil {
				return nil, err
			}
			control, _ := strconv.Atoi(matches[3])
			target, _ := strconv.Atoi(matches[5])
			ops = append(ops, quantum.CNOT(control, target))
			continue
		}

		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			kind, err := quantum.ParseGateKind(matches[1])
			if err != nil {
				return nil, &quantum.UnsupportedGateError{Gate: matches[1], Step: step}
			}
			if kind == quantum.GateCNOT {
				return nil, &quantum.InvalidOperandError{Step: step, Gate: kind.String(), Field: "target", Reason: "missing"}
			}
			if err := checkRegister(register, stmt.line, matches[2]); err != nil {
				return nil, err
			}
			q, _ := strconv.Atoi(matches[3])
			ops = append(ops, quantum.Single(kind, q))
			continue
		}

		if matches := gateLikeRegex.FindStringSubmatch(line); matches != nil {
			return nil, &quantum.UnsupportedGateError{Gate: matches[1], Step: step}
		}
		return nil, fmt.Errorf("circuitio: line %d: cannot parse %q", stmt.line, line)
	}

	if numQubits >= 0 {
		return quantum.NewSizedCircuit(numQubits, ops...)
	}
	return quantum.NewCircuit(ops...)
}

func checkRegister(declared string, line int, used ...string) error {
	if declared == "" {
		return nil
	}
	for _, u := range used {
		if u != declared {
			return fmt.Errorf("circuitio: line %d: unknown register %q", line, u)
		}
	}
	return nil
}

type statement struct {
	text string
	line int
}

// statements strips comments and splits the source on ';', remembering the
// line each statement starts on.
func statements(src string) []statement {
	var out []statement
	for i, raw := range strings.Split(src, "\n") {
		if idx := strings.Index(raw, "//"); idx >= 0 {
			raw = raw[:idx]
		}
		for _, part := range strings.Split(raw, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, statement{text: part, line: i + 1})
		}
	}
	return out
}
