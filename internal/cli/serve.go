package cli

import (
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API for the browser page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.initLogger(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := env.dashboard(ctx)
			if err != nil {
				return err
			}
			s := server.New(env.cfg, a)
			if err := s.Init(ctx); err != nil {
				return err
			}
			cmd.PrintErrf("Dashboard API on http://%s\n", s.Addr())
			return s.Run(ctx)
		},
	}
}
