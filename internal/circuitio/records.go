// Package circuitio turns circuit descriptions (JSON or YAML operation
// records, OpenQASM 2.0) into validated quantum.Circuit values and back.
package circuitio

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"qevolve/internal/quantum"
)

// OpRecord is one operation as it appears on the wire:
//
//	{"gate": "H", "qubit": 0}
//	{"gate": "CNOT", "control": 0, "target": 1}
//
// Indices are pointers so a missing field can be told apart from index 0.
type OpRecord struct {
	Gate    string `json:"gate" yaml:"gate"`
	Qubit   *int   `json:"qubit,omitempty" yaml:"qubit,omitempty"`
	Control *int   `json:"control,omitempty" yaml:"control,omitempty"`
	Target  *int   `json:"target,omitempty" yaml:"target,omitempty"`
}

// Document is the envelope shared by HTTP requests and circuit files:
// {"circuit": [...]}. Qubits optionally declares the register size; when nil
// it is derived from the operations.
type Document struct {
	Circuit []OpRecord `json:"circuit" yaml:"circuit"`
	Qubits  *int       `json:"qubits,omitempty" yaml:"qubits,omitempty"`
}

// Decode reads a Document from JSON or YAML. A bare list of operation
// records is accepted as well as the envelope.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("circuitio: read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Document{}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("circuitio: parse: %w", err)
	}
	doc := &Document{}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&doc.Circuit)
	case yaml.MappingNode:
		err = root.Decode(doc)
	default:
		err = fmt.Errorf("expected a list of operations or an object with a \"circuit\" key")
	}
	if err != nil {
		return nil, fmt.Errorf("circuitio: decode: %w", err)
	}
	return doc, nil
}

// Build converts the document into a validated circuit.
func (d *Document) Build() (*quantum.Circuit, error) {
	return BuildCircuit(d.Circuit, d.Qubits)
}

// BuildCircuit converts records into operations and validates them. Unknown
// gate names are UnsupportedGateErrors and missing index fields are
// InvalidOperandErrors, each stamped with the record's position.
func BuildCircuit(records []OpRecord, qubits *int) (*quantum.Circuit, error) {
	ops := make([]quantum.GateOperation, 0, len(records))
	for i, rec := range records {
		op, err := rec.Operation(i)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if qubits != nil {
		return quantum.NewSizedCircuit(*qubits, ops...)
	}
	return quantum.NewCircuit(ops...)
}

// Operation converts one record; step is used in error messages.
func (r OpRecord) Operation(step int) (quantum.GateOperation, error) {
	kind, err := quantum.ParseGateKind(r.Gate)
	if err != nil {
		return quantum.GateOperation{}, &quantum.UnsupportedGateError{Gate: r.Gate, Step: step}
	}
	missing := func(field string) error {
		return &quantum.InvalidOperandError{Step: step, Gate: kind.String(), Field: field, Reason: "missing"}
	}
	if kind == quantum.GateCNOT {
		if r.Control == nil {
			return quantum.GateOperation{}, missing("control")
		}
		if r.Target == nil {
			return quantum.GateOperation{}, missing("target")
		}
		return quantum.CNOT(*r.Control, *r.Target), nil
	}
	if r.Qubit == nil {
		return quantum.GateOperation{}, missing("qubit")
	}
	return quantum.Single(kind, *r.Qubit), nil
}

// Records is the inverse of BuildCircuit.
func Records(c *quantum.Circuit) []OpRecord {
	out := make([]OpRecord, 0, c.Len())
	for _, op := range c.Ops() {
		out = append(out, Record(op))
	}
	return out
}

// Record converts one operation to its wire form.
func Record(op quantum.GateOperation) OpRecord {
	if op.Kind == quantum.GateCNOT {
		control, target := op.Control, op.Target
		return OpRecord{Gate: op.Kind.String(), Control: &control, Target: &target}
	}
	q := op.Qubit
	return OpRecord{Gate: op.Kind.String(), Qubit: &q}
}

// Encode writes records as a YAML document.
func Encode(w io.Writer, c *quantum.Circuit) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Circuit: Records(c)}); err != nil {
		return fmt.Errorf("circuitio: encode: %w", err)
	}
	return enc.Close()
}
