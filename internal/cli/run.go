package cli

import (
	"github.com/spf13/cobra"

	"qevolve/internal/report"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	FinalOnly bool
	Bloch     bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [circuit-file]",
		Short: "Evolve a circuit and print the state after every gate",
		Long: `Evolve a circuit from |0...0> and print the state after every operation,
followed by the Bloch vector of every qubit in the final state.

Reads from stdin when no file is given or the file is "-".

Example:
  qevolve run bell.json
  echo '[{"gate":"H","qubit":0}]' | qevolve run --format json
  qevolve run --final circuit.qasm`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvolve(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.FinalOnly, "final", false, "print only the final state and per-qubit probabilities")
	cmd.Flags().BoolVar(&opts.Bloch, "bloch", false, "include Bloch vectors after every step (json output)")

	return cmd
}

func runEvolve(opts *RunOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts.RootOptions, cmd)

	ev, err := evaluate(opts.RootOptions, cmd, args)
	if err != nil {
		return fail(f, err)
	}
	final := ev.final()

	if f.JSON() {
		if opts.FinalOnly {
			return f.Success(ev.runID, report.NewFinalState(final))
		}
		return f.Success(ev.runID, report.NewEvolution(ev.circuit, ev.trace, opts.Bloch))
	}

	tw := f.Text()
	if opts.FinalOnly {
		tw.FinalState(ev.circuit, final)
	} else {
		tw.Evolution(ev.circuit, ev.trace)
	}
	tw.Bloch("bloch", report.BlochVectors(final))
	return nil
}
