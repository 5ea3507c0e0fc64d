package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JoelBender/bsit-tags/pkg/server"
	"github.com/JoelBender/bsit-tags/pkg/store"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP translation endpoint",
		Long: "Serve POST /translate, the run archive under /runs when a store is configured,\n" +
			"and Prometheus metrics under /metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			var archive *store.Archive
			if a.cfg.Store.Enabled() {
				var err error
				if archive, err = a.openArchive(); err != nil {
					return err
				}
				defer archive.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.NewServer(a.cfg, archive, a.logger).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}
