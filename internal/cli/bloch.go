package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"qevolve/internal/quantum"
	"qevolve/internal/report"
)

// BlochOptions holds flags for the bloch command.
type BlochOptions struct {
	*RootOptions
	Qubit   int
	PerStep bool
}

// NewBlochCommand creates the bloch command.
func NewBlochCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BlochOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bloch [circuit-file]",
		Short: "Print Bloch vectors of the evolved state",
		Long: `Evolve a circuit and print the Bloch vector (x, y, z), purity and polar
angles of each qubit's reduced state. A purity below 1 means the qubit is
entangled with the rest of the register.

Example:
  qevolve bloch bell.json
  qevolve bloch --qubit 1 --per-step bell.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBloch(opts, cmd, args)
		},
	}

	cmd.Flags().IntVarP(&opts.Qubit, "qubit", "q", -1, "only this qubit (default all)")
	cmd.Flags().BoolVar(&opts.PerStep, "per-step", false, "also print Bloch vectors after every step")

	return cmd
}

func runBloch(opts *BlochOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts.RootOptions, cmd)

	ev, err := evaluate(opts.RootOptions, cmd, args)
	if err != nil {
		return fail(f, err)
	}

	final, err := blochFor(ev.final(), opts.Qubit)
	if err != nil {
		return fail(f, circuitExitError("bloch", err))
	}
	rep := report.BlochReport{NumQubits: ev.circuit.NumQubits(), Qubits: final}
	if opts.PerStep {
		for _, rec := range ev.trace {
			vectors, err := blochFor(rec.State, opts.Qubit)
			if err != nil {
				return fail(f, circuitExitError("bloch", err))
			}
			rep.Steps = append(rep.Steps, report.StepBloch{Index: rec.Index, Qubits: vectors})
		}
	}

	if f.JSON() {
		return f.Success(ev.runID, rep)
	}

	tw := f.Text()
	tw.Summary(ev.circuit)
	for i, st := range rep.Steps {
		tw.Bloch(fmt.Sprintf("step %d %s", st.Index, ev.trace[i].Op), st.Qubits)
	}
	tw.Bloch("final", rep.Qubits)
	return nil
}

// blochFor returns the Bloch data of one qubit, or of all qubits when qubit
// is negative.
func blochFor(s *quantum.StateVector, qubit int) ([]report.Bloch, error) {
	if qubit < 0 {
		return report.BlochVectors(s), nil
	}
	b, err := quantum.BlochVector(s, qubit)
	if err != nil {
		return nil, err
	}
	return []report.Bloch{report.NewBloch(b)}, nil
}
