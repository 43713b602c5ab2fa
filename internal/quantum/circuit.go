package quantum

import (
	"fmt"
)

// GateOperation is one gate application. Single-qubit kinds use Qubit; CNOT
// uses Control and Target. Build values with Single and CNOT.
type GateOperation struct {
	Kind    GateKind
	Qubit   int
	Control int
	Target  int
}

// Single returns a single-qubit operation.
func Single(kind GateKind, qubit int) GateOperation {
	return GateOperation{Kind: kind, Qubit: qubit, Control: -1, Target: -1}
}

// CNOT returns a controlled-NOT operation.
func CNOT(control, target int) GateOperation {
	return GateOperation{Kind: GateCNOT, Qubit: -1, Control: control, Target: target}
}

// Qubits returns the wires the operation touches. For CNOT the control comes
// first, matching the local basis order of MatrixFor(GateCNOT).
func (op GateOperation) Qubits() []int {
	if op.Kind == GateCNOT {
		return []int{op.Control, op.Target}
	}
	return []int{op.Qubit}
}

func (op GateOperation) String() string {
	if op.Kind == GateCNOT {
		return fmt.Sprintf("CNOT(%d→%d)", op.Control, op.Target)
	}
	return fmt.Sprintf("%s(%d)", op.Kind, op.Qubit)
}

// Validate checks the operation against a register of numQubits qubits.
// numQubits <= 0 skips the upper bound check.
func (op GateOperation) Validate(numQubits int) error {
	if !op.Kind.Valid() {
		return &UnsupportedGateError{Gate: op.Kind.String(), Step: -1}
	}
	fields := []string{"qubit"}
	if op.Kind == GateCNOT {
		fields = []string{"control", "target"}
	}
	for i, q := range op.Qubits() {
		if q < 0 {
			return &InvalidOperandError{Step: -1, Gate: op.Kind.String(), Field: fields[i], Reason: fmt.Sprintf("negative index %d", q)}
		}
		if numQubits > 0 && q >= numQubits {
			return &InvalidOperandError{Step: -1, Gate: op.Kind.String(), Field: fields[i], Reason: fmt.Sprintf("index %d outside [0, %d)", q, numQubits)}
		}
	}
	if op.Kind == GateCNOT && op.Control == op.Target {
		return &InvalidOperandError{Step: -1, Gate: op.Kind.String(), Field: "target", Reason: fmt.Sprintf("control and target are both %d", op.Control)}
	}
	return nil
}

// Circuit is an immutable, validated, ordered list of operations.
type Circuit struct {
	ops       []GateOperation
	numQubits int
}

// NewCircuit validates ops and derives the qubit count as one more than the
// largest index referenced, or 1 for an empty list.
func NewCircuit(ops ...GateOperation) (*Circuit, error) {
	n := 1
	for _, op := range ops {
		for _, q := range op.Qubits() {
			if q+1 > n {
				n = q + 1
			}
		}
	}
	return newCircuit(n, ops)
}

// NewSizedCircuit is NewCircuit with an explicitly declared register size.
// Operations referencing an index >= numQubits are rejected.
func NewSizedCircuit(numQubits int, ops ...GateOperation) (*Circuit, error) {
	if numQubits < 1 {
		return nil, &InvalidOperandError{Step: -1, Gate: "circuit", Field: "qubits", Reason: fmt.Sprintf("register size %d, need at least 1", numQubits)}
	}
	return newCircuit(numQubits, ops)
}

func newCircuit(n int, ops []GateOperation) (*Circuit, error) {
	for i, op := range ops {
		if err := op.Validate(n); err != nil {
			return nil, atStep(err, i)
		}
	}
	owned := make([]GateOperation, len(ops))
	copy(owned, ops)
	return &Circuit{ops: owned, numQubits: n}, nil
}

// atStep stamps a step index onto taxonomy errors.
func atStep(err error, step int) error {
	switch e := err.(type) {
	case *UnsupportedGateError:
		c := *e
		c.Step = step
		return &c
	case *InvalidOperandError:
		c := *e
		c.Step = step
		return &c
	}
	return err
}

// NumQubits is the register size.
func (c *Circuit) NumQubits() int { return c.numQubits }

// Len is the number of operations.
func (c *Circuit) Len() int { return len(c.ops) }

// At returns operation i.
func (c *Circuit) At(i int) GateOperation { return c.ops[i] }

// Ops returns a copy of the operation list.
func (c *Circuit) Ops() []GateOperation {
	out := make([]GateOperation, len(c.ops))
	copy(out, c.ops)
	return out
}

// Layers groups operation indices into moments: each operation is placed one
// layer after the latest layer that already touches any of its qubits, so no
// two operations in a layer share a wire and list order is preserved per wire.
func (c *Circuit) Layers() [][]int {
	lastLayer := make(map[int]int) // qubit -> index of last layer using it
	var layers [][]int
	for i, op := range c.ops {
		layer := 0
		for _, q := range op.Qubits() {
			if l, ok := lastLayer[q]; ok && l+1 > layer {
				layer = l + 1
			}
		}
		for len(layers) <= layer {
			layers = append(layers, nil)
		}
		layers[layer] = append(layers[layer], i)
		for _, q := range op.Qubits() {
			lastLayer[q] = layer
		}
	}
	return layers
}

// Depth is the number of layers.
func (c *Circuit) Depth() int {
	return len(c.Layers())
}
