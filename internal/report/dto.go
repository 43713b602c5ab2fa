// Package report turns evolution results into the shapes consumers read:
// JSON payloads for the HTTP and CLI JSON outputs, and styled text for
// terminals.
package report

import (
	"qevolve/internal/circuitio"
	"qevolve/internal/quantum"
)

// Amplitude is a complex amplitude on the wire.
type Amplitude struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

type Probability struct {
	Qubit int     `json:"qubit"`
	P0    float64 `json:"p0"`
	P1    float64 `json:"p1"`
}

type Bloch struct {
	Qubit  int     `json:"qubit"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Purity float64 `json:"purity"`
	Theta  float64 `json:"theta"`
	Phi    float64 `json:"phi"`
}

type Step struct {
	Index      int                `json:"index"`
	Gate       circuitio.OpRecord `json:"gate"`
	Amplitudes []Amplitude        `json:"amplitudes"`
	Bloch      []Bloch            `json:"bloch,omitempty"`
}

// FinalState is the payload of /simulate.
type FinalState struct {
	NumQubits     int           `json:"num_qubits"`
	Amplitudes    []Amplitude   `json:"amplitudes"`
	Probabilities []Probability `json:"probabilities"`
	Bloch         []Bloch       `json:"bloch"`
}

// Evolution is the payload of /state-evolution.
type Evolution struct {
	NumQubits int         `json:"num_qubits"`
	Depth     int         `json:"depth"`
	Initial   []Amplitude `json:"initial"`
	Steps     []Step      `json:"steps"`
}

// StepBloch is the Bloch data after one step.
type StepBloch struct {
	Index  int     `json:"index"`
	Qubits []Bloch `json:"qubits"`
}

// BlochReport is the payload of /bloch.
type BlochReport struct {
	NumQubits int         `json:"num_qubits"`
	Qubits    []Bloch     `json:"qubits"`
	Steps     []StepBloch `json:"steps,omitempty"`
}

// Amplitudes converts a state vector, snapping noise below the tolerance to 0.
func Amplitudes(s *quantum.StateVector) []Amplitude {
	chopped := s.Chopped()
	out := make([]Amplitude, len(chopped.Amplitudes))
	for i, a := range chopped.Amplitudes {
		out[i] = Amplitude{Re: real(a), Im: imag(a)}
	}
	return out
}

// Probabilities converts per-qubit marginals.
func Probabilities(s *quantum.StateVector) []Probability {
	probs := s.QubitProbabilities()
	out := make([]Probability, len(probs))
	for q, p := range probs {
		out[q] = Probability{Qubit: q, P0: p.Prob0, P1: p.Prob1}
	}
	return out
}

// BlochVectors converts the Bloch data of every qubit.
func BlochVectors(s *quantum.StateVector) []Bloch {
	results := quantum.BlochVectors(s)
	out := make([]Bloch, len(results))
	for i, b := range results {
		out[i] = NewBloch(b)
	}
	return out
}

func NewBloch(b quantum.BlochResult) Bloch {
	theta, phi := b.Angles()
	return Bloch{Qubit: b.Qubit, X: b.X, Y: b.Y, Z: b.Z, Purity: b.Purity, Theta: theta, Phi: phi}
}

// NewFinalState builds the /simulate payload.
func NewFinalState(final *quantum.StateVector) FinalState {
	return FinalState{
		NumQubits:     final.NumQubits,
		Amplitudes:    Amplitudes(final),
		Probabilities: Probabilities(final),
		Bloch:         BlochVectors(final),
	}
}

// NewEvolution builds the /state-evolution payload. withBloch adds per-step
// Bloch data.
func NewEvolution(c *quantum.Circuit, trace []quantum.StepRecord, withBloch bool) Evolution {
	ev := Evolution{
		NumQubits: c.NumQubits(),
		Depth:     c.Depth(),
		Initial:   Amplitudes(quantum.InitialState(c)),
		Steps:     make([]Step, 0, len(trace)),
	}
	for _, rec := range trace {
		st := Step{
			Index:      rec.Index,
			Gate:       circuitio.Record(rec.Op),
			Amplitudes: Amplitudes(rec.State),
		}
		if withBloch {
			st.Bloch = BlochVectors(rec.State)
		}
		ev.Steps = append(ev.Steps, st)
	}
	return ev
}

// NewBlochReport builds the /bloch payload for the final state, optionally
// with the Bloch data after every step.
func NewBlochReport(c *quantum.Circuit, trace []quantum.StepRecord, perStep bool) BlochReport {
	final := quantum.InitialState(c)
	if len(trace) > 0 {
		final = trace[len(trace)-1].State
	}
	rep := BlochReport{NumQubits: c.NumQubits(), Qubits: BlochVectors(final)}
	if perStep {
		rep.Steps = make([]StepBloch, 0, len(trace))
		for _, rec := range trace {
			rep.Steps = append(rep.Steps, StepBloch{Index: rec.Index, Qubits: BlochVectors(rec.State)})
		}
	}
	return rep
}
