package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/torosent/reqbench/internal/logging"
	"github.com/torosent/reqbench/internal/server"
)

func newServeCommand() *cobra.Command {
	var (
		addr  string
		h2c   bool
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the static hello page benchmarks run against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				logging.SetDebug()
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return server.New(server.Options{Addr: addr, H2C: h2c}).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "Listen address")
	cmd.Flags().BoolVar(&h2c, "h2c", false, "Also accept HTTP/2 over cleartext")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")
	return cmd
}
