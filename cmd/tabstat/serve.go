package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tabstat/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve statistics and chart series over HTTP",
		Long: `Start the HTTP API. A file given here, or data.file, is loaded before
the server starts; otherwise load one with POST /api/tables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 || a.cfg.Data.File != "" {
				if _, err := a.load(cmd.Context(), args); err != nil {
					return err
				}
			}
			if port == "" {
				port = a.cfg.Server.Port
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(a.session, a.runner, api.Options{
				Port:            port,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
			}, a.logger)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default server.port)")

	return cmd
}
