// Package cli wires the qevolve commands together.
package cli

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"qevolve/internal/circuitio"
	"qevolve/internal/config"
	"qevolve/internal/logging"
)

// RootOptions holds global flags for all commands, plus the configuration and
// logger resolved from them before any subcommand runs.
type RootOptions struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	Format      string // "json" | "text"
	InputFormat string
	NoColor     bool

	Config config.Config
	Logger *log.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the qevolve CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qevolve",
		Short: "qevolve - statevector evolution for small quantum circuits",
		Long: `Evolve a circuit of H, X, Y, Z, S, T and CNOT gates from |0...0>,
recording the full state after every gate and the Bloch vector of every qubit.

Circuits are read as JSON or YAML operation records
([{"gate": "H", "qubit": 0}, {"gate": "CNOT", "control": 0, "target": 1}])
or as OpenQASM 2.0.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !slices.Contains(circuitio.ValidFormats, opts.InputFormat) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid input format %q: must be one of %v", opts.InputFormat, circuitio.ValidFormats))
			}

			cfg, err := config.Load(opts.ConfigPath, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, "load configuration", err)
			}
			logger, err := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return WrapExitError(ExitCommandError, "configure logging", err)
			}
			opts.Config = cfg
			opts.Logger = logger
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log format (text|json|logfmt)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.InputFormat, "input-format", circuitio.FormatAuto, "circuit format (auto|json|yaml|qasm)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored text output")
	cmd.PersistentFlags().Int("max-qubits", config.Default().Engine.MaxQubits, "largest register accepted")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewBlochCommand(opts))
	cmd.AddCommand(NewQASMCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}
