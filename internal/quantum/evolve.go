package quantum

// StepRecord is the state immediately after applying Op, the Index-th
// operation of the circuit.
type StepRecord struct {
	Index int
	Op    GateOperation
	State *StateVector
}

// Evolve runs the circuit from |0...0> and returns one record per operation in
// circuit order. Each record's state is cumulative. A nil or empty circuit
// yields no records; use InitialState for the starting vector.
//
// Evolve holds no state between calls: identical circuits give identical
// traces.
func Evolve(c *Circuit) ([]StepRecord, error) {
	if c == nil {
		return nil, nil
	}
	state := InitialState(c)
	trace := make([]StepRecord, 0, c.Len())
	for i, op := range c.ops {
		next, err := step(state, op)
		if err != nil {
			return nil, atStep(err, i)
		}
		trace = append(trace, StepRecord{Index: i, Op: op, State: next})
		state = next
	}
	return trace, nil
}

// InitialState is |0...0> on the circuit's register.
func InitialState(c *Circuit) *StateVector {
	if c == nil {
		return NewStateVector(1)
	}
	return NewStateVector(c.numQubits)
}

// FinalState returns the state after the whole circuit, or the initial state
// for an empty circuit.
func FinalState(c *Circuit) (*StateVector, error) {
	trace, err := Evolve(c)
	if err != nil {
		return nil, err
	}
	if len(trace) == 0 {
		return InitialState(c), nil
	}
	return trace[len(trace)-1].State, nil
}

// step applies one operation, revalidating it against the state's register.
func step(state *StateVector, op GateOperation) (*StateVector, error) {
	if err := op.Validate(state.NumQubits); err != nil {
		return nil, err
	}
	gate, err := MatrixFor(op.Kind)
	if err != nil {
		return nil, err
	}
	return state.applyLocal(gate, op.Qubits()), nil
}

// ApplyOperation applies op to state through the dense embedded operator.
// It is the reference path for Evolve and is limited to small registers.
func ApplyOperation(state *StateVector, op GateOperation) (*StateVector, error) {
	if err := op.Validate(state.NumQubits); err != nil {
		return nil, err
	}
	gate, err := MatrixFor(op.Kind)
	if err != nil {
		return nil, err
	}
	full, err := Embed(gate, op.Qubits(), state.NumQubits)
	if err != nil {
		return nil, err
	}
	return state.Apply(full)
}
