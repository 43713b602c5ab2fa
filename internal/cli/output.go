package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"qevolve/internal/quantum"
	"qevolve/internal/report"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The circuit was rejected (unsupported gate, bad operand, range)
	ExitCommandError = 2 // Command error (unreadable input, bad flags, bad config)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set once the error has been written to the command output,
	// so the entry point does not print it a second time.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrCircuitTooLarge is returned for circuits above engine.max_qubits.
var ErrCircuitTooLarge = errors.New("circuit too large")

// circuitExitError classifies err: rejected circuits exit 1, anything else 2.
func circuitExitError(message string, err error) *ExitError {
	if isCircuitError(err) {
		return WrapExitError(ExitFailure, message, err)
	}
	return WrapExitError(ExitCommandError, message, err)
}

func isCircuitError(err error) bool {
	return errors.Is(err, ErrCircuitTooLarge) ||
		errors.Is(err, quantum.ErrUnsupportedGate) ||
		errors.Is(err, quantum.ErrInvalidOperand) ||
		errors.Is(err, quantum.ErrRangeViolation)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	NoColor bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
	RunID  string    `json:"run_id,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`    // see errorCode
	Message string `json:"message"` // human-readable message
}

// JSON reports whether output is machine-readable.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Text returns a styled writer for human-readable output.
func (f *OutputFormatter) Text() *report.TextWriter {
	return report.NewTextWriter(f.Writer, f.NoColor)
}

// Success writes a JSON success envelope.
func (f *OutputFormatter) Success(runID string, data any) error {
	return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data, RunID: runID})
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(err error) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    errorCode(err),
				Message: err.Error(),
			},
		})
	}
	f.Text().Failure(errorCode(err), err)
	return nil
}

// errorCode extends quantum.ErrorCode with the CLI's own failures.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrCircuitTooLarge):
		return "CIRCUIT_TOO_LARGE"
	case isCircuitError(err):
		return quantum.ErrorCode(err)
	default:
		return "COMMAND_ERROR"
	}
}

// IsReported reports whether err was already written to the command output.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}
