package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"qevolve/internal/tui"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Dump bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [circuit-file]",
		Short: "Step through the evolution interactively",
		Long: `Open a terminal UI that steps through the evolution trace one gate at a
time, showing the amplitudes and every qubit's Bloch vector. The circuit can
be edited as QASM and re-run in place.

With --dump the trace is printed as a Go value dump instead, for debugging.

Example:
  qevolve inspect bell.json
  qevolve inspect --dump bell.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print the raw trace instead of opening the UI")

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts.RootOptions, cmd)

	if opts.Dump {
		ev, err := evaluate(opts.RootOptions, cmd, args)
		if err != nil {
			return fail(f, err)
		}
		return dumpTrace(f.Writer, ev)
	}

	c, err := loadCircuit(opts.RootOptions, cmd, args)
	if err != nil {
		return fail(f, err)
	}
	model, err := tui.New(c, tui.Options{MaxQubits: opts.Config.Engine.MaxQubits})
	if err != nil {
		return fail(f, circuitExitError("evolve circuit", err))
	}

	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	}
	if inputPath(args) == "-" {
		// stdin carried the circuit; read keys from the terminal instead.
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		return WrapExitError(ExitCommandError, "run inspector", err)
	}
	return nil
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func dumpTrace(w io.Writer, ev *evaluation) error {
	dumpConfig.Fdump(w, ev.circuit.Ops())
	for _, rec := range ev.trace {
		dumpConfig.Fdump(w, rec)
	}
	return nil
}
