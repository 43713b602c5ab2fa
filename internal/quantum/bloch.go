package quantum

import (
	"math"
	"math/cmplx"
)

// BlochResult is the reduced single-qubit state of one qubit.
type BlochResult struct {
	Qubit  int
	X      float64
	Y      float64
	Z      float64
	Purity float64
}

// Length is the Euclidean norm of (X, Y, Z). It is 1 for a pure marginal and
// below 1 when the qubit is entangled with the rest of the register.
func (b BlochResult) Length() float64 {
	return math.Sqrt(b.X*b.X + b.Y*b.Y + b.Z*b.Z)
}

// Angles returns the polar angle theta in [0, pi] and azimuth phi in
// (-pi, pi] of the vector's direction. For the zero vector both are 0.
func (b BlochResult) Angles() (theta, phi float64) {
	r := b.Length()
	if r <= Tolerance {
		return 0, 0
	}
	theta = math.Acos(clamp(b.Z/r, -1, 1))
	if math.Abs(b.X) > Tolerance || math.Abs(b.Y) > Tolerance {
		phi = math.Atan2(b.Y, b.X)
	}
	return theta, phi
}

// ReducedDensityMatrix traces out every qubit except qubit and returns the
// 2x2 marginal rho, rho[a][b] = sum over the other bits of psi[a..] conj(psi[b..]).
func ReducedDensityMatrix(s *StateVector, qubit int) (Matrix, error) {
	if qubit < 0 || qubit >= s.NumQubits {
		return Matrix{}, &RangeViolationError{Qubit: qubit, NumQubits: s.NumQubits}
	}
	bit := 1 << qubit
	var r00, r11 float64
	var r01 Complex
	for i, a0 := range s.Amplitudes {
		if i&bit != 0 {
			continue
		}
		a1 := s.Amplitudes[i|bit]
		r00 += real(a0 * cmplx.Conj(a0))
		r11 += real(a1 * cmplx.Conj(a1))
		r01 += a0 * cmplx.Conj(a1)
	}
	return MatrixFromRows([][]Complex{
		{complex(r00, 0), r01},
		{cmplx.Conj(r01), complex(r11, 0)},
	}), nil
}

// BlochVector derives the Bloch vector and purity of qubit from the full state.
func BlochVector(s *StateVector, qubit int) (BlochResult, error) {
	rho, err := ReducedDensityMatrix(s, qubit)
	if err != nil {
		return BlochResult{}, err
	}
	x := 2 * real(rho.At(0, 1))
	y := 2 * imag(rho.At(1, 0))
	z := real(rho.At(0, 0) - rho.At(1, 1))
	purity := real(rho.Mul(rho).Trace())

	return BlochResult{
		Qubit:  qubit,
		X:      clamp(chop(x), -1, 1),
		Y:      clamp(chop(y), -1, 1),
		Z:      clamp(chop(z), -1, 1),
		Purity: clamp(snapPurity(purity), 0.5, 1),
	}, nil
}

// BlochVectors returns BlochVector for every qubit in index order.
func BlochVectors(s *StateVector) []BlochResult {
	out := make([]BlochResult, s.NumQubits)
	for q := range out {
		// q is always in range here.
		out[q], _ = BlochVector(s, q)
	}
	return out
}

// snapPurity rounds values within Tolerance of the 0.5 and 1 bounds onto them.
func snapPurity(p float64) float64 {
	switch {
	case math.Abs(p-1) <= Tolerance:
		return 1
	case math.Abs(p-0.5) <= Tolerance:
		return 0.5
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
