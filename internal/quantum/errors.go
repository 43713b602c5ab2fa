package quantum

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. Every typed error below unwraps to
// exactly one of these.
var (
	ErrUnsupportedGate = errors.New("unsupported gate")
	ErrInvalidOperand  = errors.New("invalid operand")
	ErrRangeViolation  = errors.New("qubit index out of range")
)

// UnsupportedGateError is returned when a gate name is not part of the
// supported gate set.
type UnsupportedGateError struct {
	Gate string
	Step int // -1 when not tied to a circuit position
}

func (e *UnsupportedGateError) Error() string {
	if e.Step >= 0 {
		return fmt.Sprintf("step %d: unsupported gate %q", e.Step, e.Gate)
	}
	return fmt.Sprintf("unsupported gate %q", e.Gate)
}

func (e *UnsupportedGateError) Unwrap() error { return ErrUnsupportedGate }

// InvalidOperandError reports a missing or illegal qubit/control/target.
type InvalidOperandError struct {
	Step   int    // -1 when not tied to a circuit position
	Gate   string // gate name as given
	Field  string // "qubit", "control" or "target"
	Reason string
}

func (e *InvalidOperandError) Error() string {
	if e.Step >= 0 {
		return fmt.Sprintf("step %d: %s %s: %s", e.Step, e.Gate, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Gate, e.Field, e.Reason)
}

func (e *InvalidOperandError) Unwrap() error { return ErrInvalidOperand }

// RangeViolationError is returned by the Bloch extractor for a qubit index
// outside [0, NumQubits).
type RangeViolationError struct {
	Qubit     int
	NumQubits int
}

func (e *RangeViolationError) Error() string {
	return fmt.Sprintf("qubit %d out of range [0, %d)", e.Qubit, e.NumQubits)
}

func (e *RangeViolationError) Unwrap() error { return ErrRangeViolation }

// ErrorCode returns a short stable code for one of the taxonomy errors, or
// "INTERNAL" for anything else. Transports use it in error payloads.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedGate):
		return "UNSUPPORTED_GATE"
	case errors.Is(err, ErrInvalidOperand):
		return "INVALID_OPERAND"
	case errors.Is(err, ErrRangeViolation):
		return "RANGE_VIOLATION"
	default:
		return "INTERNAL"
	}
}
