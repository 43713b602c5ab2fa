package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"qevolve/internal/circuitio"
	"qevolve/internal/quantum"
)

// evaluation is a loaded circuit with its trace.
type evaluation struct {
	runID   string
	circuit *quantum.Circuit
	trace   []quantum.StepRecord
}

func (e *evaluation) final() *quantum.StateVector {
	if len(e.trace) == 0 {
		return quantum.InitialState(e.circuit)
	}
	return e.trace[len(e.trace)-1].State
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		NoColor: opts.NoColor,
	}
}

// inputPath returns the circuit file argument, "-" for stdin.
func inputPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// loadCircuit reads and validates the circuit named by args and enforces the
// configured qubit limit.
func loadCircuit(opts *RootOptions, cmd *cobra.Command, args []string) (*quantum.Circuit, error) {
	path := inputPath(args)
	c, err := circuitio.Load(path, opts.InputFormat, cmd.InOrStdin())
	if err != nil {
		return nil, circuitExitError("load circuit", err)
	}
	if limit := opts.Config.Engine.MaxQubits; c.NumQubits() > limit {
		return nil, circuitExitError("check circuit",
			fmt.Errorf("%w: needs %d qubits, limit is %d (engine.max_qubits)", ErrCircuitTooLarge, c.NumQubits(), limit))
	}
	opts.Logger.Debug("loaded circuit", "path", path, "qubits", c.NumQubits(), "ops", c.Len())
	return c, nil
}

// evaluate loads and evolves the circuit.
func evaluate(opts *RootOptions, cmd *cobra.Command, args []string) (*evaluation, error) {
	c, err := loadCircuit(opts, cmd, args)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := opts.Logger.With("run_id", runID)
	start := time.Now()
	trace, err := quantum.Evolve(c)
	if err != nil {
		return nil, circuitExitError("evolve circuit", err)
	}
	for _, rec := range trace {
		logger.Debug("step", "index", rec.Index, "op", rec.Op.String())
	}
	logger.Info("evolved", "qubits", c.NumQubits(), "steps", len(trace), "elapsed", time.Since(start))
	return &evaluation{runID: runID, circuit: c, trace: trace}, nil
}

// fail writes err in the configured format and marks it reported.
func fail(f *OutputFormatter, err error) error {
	exitErr, ok := err.(*ExitError)
	if !ok {
		exitErr = WrapExitError(ExitCommandError, "command failed", err)
	}
	cause := error(exitErr)
	if exitErr.Err != nil {
		cause = exitErr.Err
	}
	if werr := f.Error(cause); werr != nil {
		return werr
	}
	exitErr.Reported = true
	return exitErr
}
