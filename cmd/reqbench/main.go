package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return execute(args, os.Stdout, os.Stderr)
}

// execute dispatches to a subcommand. Anything that is not a subcommand
// name, including no arguments at all, runs the benchmark.
func execute(args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	if len(args) == 0 || !isSubcommand(root, args[0]) {
		args = append([]string{"run"}, args...)
	}
	root.SetArgs(args)
	return root.Execute()
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "reqbench",
		Short:         "Compare HTTP client latency against a single endpoint",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(
		newRunCommand(stdout, stderr),
		newServeCommand(),
		newHistoryCommand(stdout),
		newAdaptersCommand(stdout),
	)
	return root
}

func isSubcommand(root *cobra.Command, name string) bool {
	if name == "help" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}
