package quantum

import (
	"fmt"
	"math/cmplx"
)

// Complex is the amplitude type used throughout the simulator.
type Complex = complex128

// Tolerance is the absolute threshold below which magnitudes are treated as
// exact zero.
const Tolerance = 1e-8

// maxDenseQubits bounds Embed. A dense operator on n qubits holds 4^n
// entries; 12 qubits is already 256 MiB.
const maxDenseQubits = 12

// Matrix is a dense square complex matrix in row-major order.
type Matrix struct {
	Dim  int
	Data []Complex
}

// NewMatrix returns a zero Dim x Dim matrix.
func NewMatrix(dim int) Matrix {
	return Matrix{Dim: dim, Data: make([]Complex, dim*dim)}
}

// MatrixFromRows builds a matrix from row slices. All rows must have len(rows)
// entries.
func MatrixFromRows(rows [][]Complex) Matrix {
	m := NewMatrix(len(rows))
	for r, row := range rows {
		if len(row) != m.Dim {
			panic(fmt.Sprintf("quantum: row %d has %d entries, want %d", r, len(row), m.Dim))
		}
		copy(m.Data[r*m.Dim:], row)
	}
	return m
}

// Identity returns the dim x dim identity.
func Identity(dim int) Matrix {
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		m.Data[i*dim+i] = 1
	}
	return m
}

// At returns entry (r, c).
func (m Matrix) At(r, c int) Complex {
	return m.Data[r*m.Dim+c]
}

func (m Matrix) set(r, c int, v Complex) {
	m.Data[r*m.Dim+c] = v
}

// Mul returns m * o.
func (m Matrix) Mul(o Matrix) Matrix {
	if m.Dim != o.Dim {
		panic(fmt.Sprintf("quantum: dimension mismatch %d x %d", m.Dim, o.Dim))
	}
	out := NewMatrix(m.Dim)
	for r := 0; r < m.Dim; r++ {
		for k := 0; k < m.Dim; k++ {
			a := m.At(r, k)
			if a == 0 {
				continue
			}
			for c := 0; c < m.Dim; c++ {
				out.Data[r*m.Dim+c] += a * o.At(k, c)
			}
		}
	}
	return out
}

// Dagger returns the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	out := NewMatrix(m.Dim)
	for r := 0; r < m.Dim; r++ {
		for c := 0; c < m.Dim; c++ {
			out.set(c, r, cmplx.Conj(m.At(r, c)))
		}
	}
	return out
}

// Trace returns the sum of the diagonal.
func (m Matrix) Trace() Complex {
	var t Complex
	for i := 0; i < m.Dim; i++ {
		t += m.At(i, i)
	}
	return t
}

// ApproxEqual reports whether every entry of m and o differs by at most tol.
func (m Matrix) ApproxEqual(o Matrix, tol float64) bool {
	if m.Dim != o.Dim {
		return false
	}
	for i := range m.Data {
		if cmplx.Abs(m.Data[i]-o.Data[i]) > tol {
			return false
		}
	}
	return true
}

// IsUnitary reports whether m * m^dagger is the identity within tol.
func (m Matrix) IsUnitary(tol float64) bool {
	return m.Mul(m.Dagger()).ApproxEqual(Identity(m.Dim), tol)
}

// chop maps values within Tolerance of zero to exact zero.
func chop(x float64) float64 {
	if x < Tolerance && x > -Tolerance {
		return 0
	}
	return x
}

func chopComplex(z Complex) Complex {
	return complex(chop(real(z)), chop(imag(z)))
}
