package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reqbench run",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	flags.String("target", DefaultTarget, "Target URL every request is sent to")
	flags.IntP("workers", "w", DefaultWorkers, "Number of concurrent workers per variant")
	flags.IntP("requests", "n", DefaultRequestsPerWorker, "Sequential requests issued by each worker")
	flags.Duration("timeout", 0, "Per-request timeout (0 keeps the transport default)")
	flags.StringSlice("variant", nil, "Only run the named variants (repeatable)")

	flags.StringP("format", "f", string(FormatText), "Output format: text, table, json or yaml")
	flags.BoolP("verbose", "v", false, "Add loop-mean and bench-time columns to text output")
	flags.Bool("debug", false, "Enable debug logging on stderr")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	flags.String("history-file", "", "Append every report as a JSON line to this file")
	flags.String("results-db", "", "Persist every report into this sqlite database")
	flags.StringSlice("threshold", nil, "Latency gates (repeatable, e.g. 'latency:p99 < 5')")

	flags.String("tracing-endpoint", "", "OTLP collector endpoint (enables tracing)")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: grpc or http")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of runs traced (0..1)")
	flags.Bool("tracing-insecure", false, "Disable TLS towards the OTLP collector")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s [flags]\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("target") {
		val, err := fs.GetString("target")
		if err != nil {
			return err
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}
	if fs.Changed("workers") {
		val, err := fs.GetInt("workers")
		if err != nil {
			return err
		}
		cfg.Workers = val
	}
	if fs.Changed("requests") {
		val, err := fs.GetInt("requests")
		if err != nil {
			return err
		}
		cfg.RequestsPerWorker = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("variant") {
		val, err := fs.GetStringSlice("variant")
		if err != nil {
			return err
		}
		cfg.VariantFilter = val
	}
	if fs.Changed("format") {
		val, err := fs.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = OutputFormat(strings.ToLower(strings.TrimSpace(val)))
	}
	if fs.Changed("verbose") {
		val, err := fs.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = val
	}
	if fs.Changed("debug") {
		val, err := fs.GetBool("debug")
		if err != nil {
			return err
		}
		cfg.Debug = val
	}
	if fs.Changed("history-file") {
		val, err := fs.GetString("history-file")
		if err != nil {
			return err
		}
		cfg.HistoryFile = strings.TrimSpace(val)
	}
	if fs.Changed("results-db") {
		val, err := fs.GetString("results-db")
		if err != nil {
			return err
		}
		cfg.ResultsDB = strings.TrimSpace(val)
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}
	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	return nil
}
