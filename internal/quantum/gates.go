package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// GateKind enumerates the supported gate set.
type GateKind int

const (
	GateH GateKind = iota
	GateX
	GateY
	GateZ
	GateS
	GateT
	GateCNOT

	numGateKinds
)

var gateNames = [numGateKinds]string{
	GateH:    "H",
	GateX:    "X",
	GateY:    "Y",
	GateZ:    "Z",
	GateS:    "S",
	GateT:    "T",
	GateCNOT: "CNOT",
}

func (k GateKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
	return gateNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k GateKind) Valid() bool {
	return k >= 0 && k < numGateKinds
}

// Arity is the number of qubits the gate acts on.
func (k GateKind) Arity() int {
	if k == GateCNOT {
		return 2
	}
	return 1
}

// ParseGateKind resolves a gate name. Matching is case-insensitive and "CX"
// is accepted as an alias for CNOT. Anything else is an UnsupportedGateError.
func ParseGateKind(name string) (GateKind, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "H":
		return GateH, nil
	case "X":
		return GateX, nil
	case "Y":
		return GateY, nil
	case "Z":
		return GateZ, nil
	case "S":
		return GateS, nil
	case "T":
		return GateT, nil
	case "CNOT", "CX":
		return GateCNOT, nil
	}
	return 0, &UnsupportedGateError{Gate: name, Step: -1}
}

// Closed forms. Built once; MatrixFor hands out copies.
var gateMatrices = func() [numGateKinds]Matrix {
	h := complex(1/math.Sqrt2, 0)
	return [numGateKinds]Matrix{
		GateH: MatrixFromRows([][]Complex{{h, h}, {h, -h}}),
		GateX: MatrixFromRows([][]Complex{{0, 1}, {1, 0}}),
		GateY: MatrixFromRows([][]Complex{{0, -1i}, {1i, 0}}),
		GateZ: MatrixFromRows([][]Complex{{1, 0}, {0, -1}}),
		GateS: MatrixFromRows([][]Complex{{1, 0}, {0, 1i}}),
		GateT: MatrixFromRows([][]Complex{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}),
		// |control target>: swaps |10> and |11>.
		GateCNOT: MatrixFromRows([][]Complex{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
			{0, 0, 1, 0},
		}),
	}
}()

// MatrixFor returns the unitary for kind. The local basis of two-qubit gates
// is |q0 q1> with q0 (the control for CNOT) as the high bit.
func MatrixFor(kind GateKind) (Matrix, error) {
	if !kind.Valid() {
		return Matrix{}, &UnsupportedGateError{Gate: kind.String(), Step: -1}
	}
	src := gateMatrices[kind]
	m := NewMatrix(src.Dim)
	copy(m.Data, src.Data)
	return m, nil
}

// Embed lifts a 2^k x 2^k gate acting on targets into the full 2^n x 2^n
// operator. targets[0] is the most significant bit of the gate's local index,
// so for CNOT targets is {control, target}. Targets may appear in any order
// and need not be adjacent; entry (r, c) of the result is
// gate[local(r), local(c)] when r and c agree on every non-target bit and
// zero otherwise.
func Embed(gate Matrix, targets []int, n int) (Matrix, error) {
	if n < 1 || n > maxDenseQubits {
		return Matrix{}, fmt.Errorf("quantum: dense embedding supports 1..%d qubits, got %d", maxDenseQubits, n)
	}
	if gate.Dim != 1<<len(targets) {
		return Matrix{}, fmt.Errorf("quantum: %dx%d gate cannot act on %d qubits", gate.Dim, gate.Dim, len(targets))
	}
	if err := checkTargets(targets, n); err != nil {
		return Matrix{}, err
	}

	var mask int
	for _, t := range targets {
		mask |= 1 << t
	}

	dim := 1 << n
	out := NewMatrix(dim)
	for r := 0; r < dim; r++ {
		rest := r &^ mask
		lr := localIndex(r, targets)
		for lc := 0; lc < gate.Dim; lc++ {
			v := gate.At(lr, lc)
			if v == 0 {
				continue
			}
			out.set(r, rest|globalBits(lc, targets), v)
		}
	}
	return out, nil
}

func checkTargets(targets []int, n int) error {
	seen := make(map[int]bool, len(targets))
	for _, t := range targets {
		if t < 0 || t >= n {
			return &InvalidOperandError{Step: -1, Gate: "embed", Field: "target", Reason: fmt.Sprintf("index %d outside [0, %d)", t, n)}
		}
		if seen[t] {
			return &InvalidOperandError{Step: -1, Gate: "embed", Field: "target", Reason: fmt.Sprintf("qubit %d listed twice", t)}
		}
		seen[t] = true
	}
	return nil
}

// localIndex extracts the bits of idx at the target positions, targets[0]
// landing in the most significant place.
func localIndex(idx int, targets []int) int {
	k := len(targets)
	var l int
	for i, t := range targets {
		if idx&(1<<t) != 0 {
			l |= 1 << (k - 1 - i)
		}
	}
	return l
}

// globalBits scatters a local index back onto the target bit positions.
func globalBits(local int, targets []int) int {
	k := len(targets)
	var g int
	for i, t := range targets {
		if local&(1<<(k-1-i)) != 0 {
			g |= 1 << t
		}
	}
	return g
}
