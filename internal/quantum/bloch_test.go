package quantum

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func blochOf(ops []GateOperation, qubit int) BlochResult {
	c, err := NewCircuit(ops...)
	if err != nil {
		panic(err)
	}
	final, err := FinalState(c)
	if err != nil {
		panic(err)
	}
	b, err := BlochVector(final, qubit)
	if err != nil {
		panic(err)
	}
	return b
}

func TestBlochVector(t *testing.T) {
	Convey("Given |0>", t, func() {
		b := blochOf(nil, 0)
		So(b.X, ShouldEqual, 0)
		So(b.Y, ShouldEqual, 0)
		So(b.Z, ShouldEqual, 1)
		So(b.Purity, ShouldEqual, 1)

		theta, phi := b.Angles()
		So(theta, ShouldEqual, 0)
		So(phi, ShouldEqual, 0)
	})

	Convey("Given H|0>", t, func() {
		b := blochOf([]GateOperation{Single(GateH, 0)}, 0)
		So(b.X, ShouldAlmostEqual, 1, Tolerance)
		So(b.Y, ShouldEqual, 0)
		So(b.Z, ShouldEqual, 0)
		So(b.Purity, ShouldEqual, 1)

		theta, _ := b.Angles()
		So(theta, ShouldAlmostEqual, math.Pi/2, 1e-9)
	})

	Convey("Given S H|0> = |+i>", t, func() {
		b := blochOf([]GateOperation{Single(GateH, 0), Single(GateS, 0)}, 0)
		So(b.X, ShouldEqual, 0)
		So(b.Y, ShouldAlmostEqual, 1, Tolerance)

		_, phi := b.Angles()
		So(phi, ShouldAlmostEqual, math.Pi/2, 1e-9)
	})

	Convey("Given X|0>", t, func() {
		b := blochOf([]GateOperation{Single(GateX, 0)}, 0)
		So(b.Z, ShouldEqual, -1)
	})

	Convey("Given the Bell state", t, func() {
		ops := []GateOperation{Single(GateH, 0), CNOT(0, 1)}
		for q := 0; q < 2; q++ {
			b := blochOf(ops, q)
			So(b.X, ShouldEqual, 0)
			So(b.Y, ShouldEqual, 0)
			So(b.Z, ShouldEqual, 0)
			So(b.Purity, ShouldEqual, 0.5)
			So(b.Length(), ShouldEqual, 0)
		}
	})

	Convey("Given a product state on three qubits", t, func() {
		ops := []GateOperation{Single(GateH, 0), Single(GateX, 2), Single(GateH, 1), Single(GateS, 1)}
		c, _ := NewCircuit(ops...)
		final, _ := FinalState(c)
		all := BlochVectors(final)
		So(all, ShouldHaveLength, 3)

		Convey("Every marginal is pure with a unit vector", func() {
			for _, b := range all {
				So(b.Purity, ShouldEqual, 1)
				So(b.Length(), ShouldAlmostEqual, 1, 1e-9)
			}
			So(all[0].X, ShouldAlmostEqual, 1, Tolerance)
			So(all[1].Y, ShouldAlmostEqual, 1, Tolerance)
			So(all[2].Z, ShouldAlmostEqual, -1, Tolerance)
		})
	})

	Convey("Given partially entangled states", t, func() {
		c, _ := NewCircuit(Single(GateH, 0), Single(GateT, 0), CNOT(0, 1), Single(GateH, 1), CNOT(1, 2), Single(GateT, 2))
		trace, _ := Evolve(c)

		Convey("Purity and length stay within bounds at every step", func() {
			for _, rec := range trace {
				for _, b := range BlochVectors(rec.State) {
					So(b.Purity, ShouldBeBetweenOrEqual, 0.5, 1)
					So(b.Length(), ShouldBeLessThanOrEqualTo, 1+Tolerance)
					// For one qubit, Tr(rho^2) = (1 + |r|^2) / 2.
					So(b.Purity, ShouldAlmostEqual, (1+b.Length()*b.Length())/2, 1e-9)
				}
			}
		})

		Convey("The reduced density matrix is Hermitian with unit trace", func() {
			rho, err := ReducedDensityMatrix(trace[len(trace)-1].State, 1)
			So(err, ShouldBeNil)
			So(real(rho.Trace()), ShouldAlmostEqual, 1, Tolerance)
			So(rho.ApproxEqual(rho.Dagger(), 1e-12), ShouldBeTrue)
		})
	})

	Convey("Given an out-of-range qubit", t, func() {
		state := NewStateVector(2)
		for _, q := range []int{-1, 2, 7} {
			_, err := BlochVector(state, q)
			So(errors.Is(err, ErrRangeViolation), ShouldBeTrue)

			var rv *RangeViolationError
			So(errors.As(err, &rv), ShouldBeTrue)
			So(rv.NumQubits, ShouldEqual, 2)
		}
	})
}
