package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/torosent/reqbench/internal/config"
	"github.com/torosent/reqbench/internal/history"
	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/logging"
	"github.com/torosent/reqbench/internal/output"
	"github.com/torosent/reqbench/internal/runner"
	"github.com/torosent/reqbench/internal/store"
	"github.com/torosent/reqbench/internal/threshold"
	"github.com/torosent/reqbench/internal/tracing"
)

const progressInterval = 250 * time.Millisecond

func newRunCommand(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:                "run [flags]",
		Short:              "Benchmark the configured client variants (default command)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runBenchmark(ctx, args, stdout, stderr)
		},
	}
}

func runBenchmark(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.NewLoader().Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if cfg.Debug {
		logging.SetDebug()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}
	evaluator := threshold.NewEvaluator(thresholds)

	variants, err := buildVariants(cfg)
	if err != nil {
		return err
	}

	printer, err := output.NewPrinter(stdout, string(cfg.Format), cfg.Verbose)
	if err != nil {
		return err
	}

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logging.Warnf("tracing shutdown: %v", err)
		}
	}()

	var db *store.Store
	if cfg.ResultsDB != "" {
		db, err = store.Open(cfg.ResultsDB)
		if err != nil {
			return fmt.Errorf("results db: %w", err)
		}
		defer db.Close()
	}

	opts := runner.Options{
		Target:            cfg.TargetURL,
		Workers:           cfg.Workers,
		RequestsPerWorker: cfg.RequestsPerWorker,
		Logger:            logging.Logger(),
		Tracer:            provider.Tracer(),
	}

	var progress *output.ProgressReporter
	if output.IsTerminal(stderr) && !cfg.Debug {
		progress = output.NewProgressReporter(progressInterval, stderr)
		opts.Progress = progress.Update
		progress.Start()
	}

	var (
		persistErrs []string
		failedGates int
	)
	r := runner.New(opts)
	runErr := r.RunAll(ctx, variants, func(rep runner.Report) {
		if progress != nil {
			progress.Clear()
		}
		printer.Print(rep)

		if cfg.HistoryFile != "" {
			if err := history.Append(cfg.HistoryFile, output.Language, rep); err != nil {
				persistErrs = append(persistErrs, fmt.Sprintf("history: %v", err))
			}
		}
		if db != nil {
			if _, err := db.Save(ctx, output.Language, rep); err != nil {
				persistErrs = append(persistErrs, fmt.Sprintf("results db: %v", err))
			}
		}

		results := evaluator.Evaluate(rep.Summary)
		output.PrintThresholdResults(stderr, rep.Variant, results)
		for _, res := range results {
			if !res.Pass {
				failedGates++
			}
		}
	})

	if progress != nil {
		progress.Stop()
	}
	if err := printer.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	if len(persistErrs) > 0 {
		return fmt.Errorf("storing results: %s", strings.Join(persistErrs, "; "))
	}
	if failedGates > 0 {
		return fmt.Errorf("%d threshold(s) failed", failedGates)
	}
	return nil
}

// buildVariants resolves the selected variant configs into runnable
// variants with adapter factories bound to their timeouts.
func buildVariants(cfg *config.Config) ([]runner.Variant, error) {
	selected := cfg.SelectedVariants()
	if len(selected) == 0 {
		return nil, fmt.Errorf("no variants selected")
	}
	variants := make([]runner.Variant, 0, len(selected))
	for _, v := range selected {
		adapter, err := httpclient.Lookup(v.Client)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
		kind, err := httpclient.ParseKind(v.Kind)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
		variants = append(variants, runner.Variant{
			Name:    v.Name,
			Kind:    kind,
			Factory: adapter.Factory(httpclient.Options{Timeout: cfg.EffectiveTimeout(v)}),
		})
	}
	return variants, nil
}
