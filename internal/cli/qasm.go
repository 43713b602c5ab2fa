package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"qevolve/internal/circuitio"
)

// QASMOptions holds flags for the qasm command.
type QASMOptions struct {
	*RootOptions
	To string
}

// ValidTargets are the formats the qasm command can convert to.
var ValidTargets = []string{"qasm", "yaml"}

// NewQASMCommand creates the qasm command.
func NewQASMCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QASMOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "qasm [circuit-file]",
		Short: "Convert a circuit to OpenQASM 2.0 or YAML records",
		Long: `Validate a circuit and write it as OpenQASM 2.0 (default) or as YAML
operation records. The circuit is not evolved.

Example:
  qevolve qasm bell.json > bell.qasm
  qevolve qasm --to yaml bell.qasm`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQASM(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "qasm", "target format (qasm|yaml)")

	return cmd
}

func runQASM(opts *QASMOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts.RootOptions, cmd)

	if !slices.Contains(ValidTargets, opts.To) {
		return fail(f, NewExitError(ExitCommandError,
			fmt.Sprintf("invalid target %q: must be one of %v", opts.To, ValidTargets)))
	}

	c, err := loadCircuit(opts.RootOptions, cmd, args)
	if err != nil {
		return fail(f, err)
	}

	switch {
	case f.JSON() && opts.To == "yaml":
		return f.Success("", circuitio.Document{Circuit: circuitio.Records(c)})
	case f.JSON():
		return f.Success("", map[string]string{"qasm": circuitio.ToQASM(c)})
	case opts.To == "yaml":
		if err := circuitio.Encode(f.Writer, c); err != nil {
			return fail(f, WrapExitError(ExitCommandError, "write yaml", err))
		}
		return nil
	}
	_, err = io.WriteString(f.Writer, circuitio.ToQASM(c))
	return err
}
