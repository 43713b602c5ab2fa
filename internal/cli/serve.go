package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qevolve/internal/config"
	"qevolve/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the stateless HTTP server",
		Long: `Serve the evolution engine as a JSON API. Every request carries a whole
circuit ({"circuit": [...]}) and is evaluated independently.

Routes:
  POST /simulate         final state, probabilities and Bloch vectors
  POST /state-evolution  state after every step
  POST /bloch            Bloch vectors ("per_step": true for every step)
  POST /qasm             circuit as OpenQASM 2.0
  GET  /healthz
  GET  /metrics          Prometheus metrics`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, cmd)
		},
	}

	cmd.Flags().String("addr", config.Default().Server.Addr, "listen address")

	return cmd
}

func runServe(opts *RootOptions, cmd *cobra.Command) error {
	cfg := opts.Config
	srv := server.New(opts.Logger, server.Options{MaxQubits: cfg.Engine.MaxQubits})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.ShutdownTimeout); err != nil {
		return WrapExitError(ExitCommandError, "serve", err)
	}
	return nil
}
