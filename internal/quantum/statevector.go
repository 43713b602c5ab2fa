package quantum

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
)

// StateVector is the dense amplitude array of an n-qubit pure state. Index i
// encodes the basis state whose bit q is the value of qubit q.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns |0...0> on numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Clone returns a deep copy.
func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Apply returns op * s as a new vector. op must be the full 2^n operator,
// typically produced by Embed.
func (s *StateVector) Apply(op Matrix) (*StateVector, error) {
	n := len(s.Amplitudes)
	if op.Dim != n {
		return nil, fmt.Errorf("quantum: %dx%d operator applied to %d amplitudes", op.Dim, op.Dim, n)
	}
	out := make([]Complex, n)
	for r := 0; r < n; r++ {
		var acc Complex
		row := op.Data[r*n : (r+1)*n]
		for c, a := range s.Amplitudes {
			if a == 0 || row[c] == 0 {
				continue
			}
			acc += row[c] * a
		}
		out[r] = acc
	}
	return &StateVector{Amplitudes: out, NumQubits: s.NumQubits}, nil
}

// applyLocal returns the result of applying a 2^k gate to targets without
// building the dense operator. For each assignment of the non-target bits it
// gathers the 2^k amplitudes of the subspace, multiplies, and scatters back.
// The result equals Embed(gate, targets, n) * s.
func (s *StateVector) applyLocal(gate Matrix, targets []int) *StateVector {
	n := len(s.Amplitudes)
	k := len(targets)
	var mask int
	for _, t := range targets {
		mask |= 1 << t
	}

	offsets := make([]int, 1<<k)
	for l := range offsets {
		offsets[l] = globalBits(l, targets)
	}

	out := make([]Complex, n)
	in := make([]Complex, 1<<k)
	for base := 0; base < n; base++ {
		if base&mask != 0 {
			continue
		}
		for l, off := range offsets {
			in[l] = s.Amplitudes[base|off]
		}
		for r, off := range offsets {
			var acc Complex
			for c, a := range in {
				if a == 0 {
					continue
				}
				acc += gate.At(r, c) * a
			}
			out[base|off] = acc
		}
	}
	return &StateVector{Amplitudes: out, NumQubits: s.NumQubits}
}

// Norm returns the Euclidean norm of the amplitude vector.
func (s *StateVector) Norm() float64 {
	var sum float64
	for _, a := range s.Amplitudes {
		sum += real(a * cmplx.Conj(a))
	}
	return math.Sqrt(sum)
}

// Normalized reports whether the norm is 1 within Tolerance.
func (s *StateVector) Normalized() bool {
	return math.Abs(s.Norm()-1) <= Tolerance
}

// ApproxEqual compares amplitudes element-wise within tol.
func (s *StateVector) ApproxEqual(o *StateVector, tol float64) bool {
	if s.NumQubits != o.NumQubits || len(s.Amplitudes) != len(o.Amplitudes) {
		return false
	}
	for i := range s.Amplitudes {
		if cmplx.Abs(s.Amplitudes[i]-o.Amplitudes[i]) > tol {
			return false
		}
	}
	return true
}

// Chopped returns a copy with components within Tolerance of zero set to zero.
func (s *StateVector) Chopped() *StateVector {
	c := s.Clone()
	for i, a := range c.Amplitudes {
		c.Amplitudes[i] = chopComplex(a)
	}
	return c
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal measurement probabilities of each
// qubit in the computational basis.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	n := len(s.Amplitudes)

	for i := 0; i < n; i++ {
		prob := real(s.Amplitudes[i] * cmplx.Conj(s.Amplitudes[i]))
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}

	for q := range probs {
		probs[q].Prob0 = chop(probs[q].Prob0)
		probs[q].Prob1 = chop(probs[q].Prob1)
	}
	return probs
}

// BasisAmplitude is one non-negligible term of the state.
type BasisAmplitude struct {
	BasisState int
	Amplitude  Complex
	Prob       float64
	Phase      float64
	Hamming    int
}

// Support lists the basis states whose probability exceeds Tolerance, in
// index order.
func (s *StateVector) Support() []BasisAmplitude {
	n := len(s.Amplitudes)
	states := make([]BasisAmplitude, 0, n)

	for i := 0; i < n; i++ {
		amp := chopComplex(s.Amplitudes[i])
		prob := real(amp * cmplx.Conj(amp))

		if prob > Tolerance {
			states = append(states, BasisAmplitude{
				BasisState: i,
				Amplitude:  amp,
				Prob:       prob,
				Phase:      cmplx.Phase(amp),
				Hamming:    bits.OnesCount(uint(i)),
			})
		}
	}

	return states
}

// BasisLabel renders index i as an n-character bit string with qubit n-1 on
// the left, the usual ket ordering.
func BasisLabel(i, numQubits int) string {
	b := make([]byte, numQubits)
	for q := 0; q < numQubits; q++ {
		if i&(1<<q) != 0 {
			b[numQubits-1-q] = '1'
		} else {
			b[numQubits-1-q] = '0'
		}
	}
	return string(b)
}
