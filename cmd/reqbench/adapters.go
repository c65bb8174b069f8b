package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/output"
)

func newAdaptersCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the registered client adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.PrintAdapters(stdout, httpclient.Adapters())
			return nil
		},
	}
}
