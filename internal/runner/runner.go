package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/metrics"
	"github.com/torosent/reqbench/internal/tracing"
)

// Report is the outcome of one successful variant run.
type Report struct {
	RunID             string          `json:"run_id" yaml:"run_id"`
	Variant           string          `json:"variant" yaml:"variant"`
	Kind              httpclient.Kind `json:"kind" yaml:"kind"`
	Target            string          `json:"target" yaml:"target"`
	Workers           int             `json:"workers" yaml:"workers"`
	RequestsPerWorker int             `json:"requests_per_worker" yaml:"requests_per_worker"`
	Started           time.Time       `json:"started" yaml:"started"`
	Summary           metrics.Stats   `json:"summary" yaml:"summary"`
}

// Runner benchmarks variants one after another.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Run benchmarks a single variant. On any failure no report is produced.
func (r *Runner) Run(ctx context.Context, v Variant) (Report, error) {
	if err := r.opt.Validate(); err != nil {
		return Report{}, err
	}
	if v.Factory == nil {
		return Report{}, fmt.Errorf("variant %s: no client factory", v.Name)
	}
	kind, err := httpclient.ParseKind(string(v.Kind))
	if err != nil {
		return Report{}, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	v.Kind = kind

	log := r.opt.Logger.WithFields(logrus.Fields{
		"variant": v.Name,
		"kind":    v.Kind,
	})
	log.Infof("starting %d workers x %d requests against %s", r.opt.Workers, r.opt.RequestsPerWorker, r.opt.Target)

	started := time.Now()
	ctx, span := tracing.StartRunSpan(ctx, r.opt.Tracer, v.Name, string(v.Kind), r.opt.Workers, r.opt.RequestsPerWorker)

	collector, elapsed, err := r.drive(ctx, v)
	if err != nil {
		tracing.EndSpan(span, err)
		log.Errorf("run failed after %s: %v", elapsed, err)
		return Report{}, err
	}

	summary, err := collector.Stats(elapsed)
	if err != nil {
		tracing.EndSpan(span, err)
		return Report{}, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	tracing.EndSpan(span, nil,
		attribute.Float64("reqbench.mean_ms", summary.Mean),
		attribute.Float64("reqbench.p99_ms", summary.P99),
		attribute.Float64("reqbench.p999_ms", summary.P999),
		attribute.Float64("reqbench.max_ms", summary.Max),
	)
	log.Infof("completed %d samples in %s", summary.Count, elapsed.Round(time.Millisecond))

	return Report{
		RunID:             ulid.Make().String(),
		Variant:           v.Name,
		Kind:              v.Kind,
		Target:            r.opt.Target,
		Workers:           r.opt.Workers,
		RequestsPerWorker: r.opt.RequestsPerWorker,
		Started:           started,
		Summary:           summary,
	}, nil
}

// RunAll benchmarks variants in order and hands every report to emit as soon
// as its run completed. The first failure stops the sequence.
func (r *Runner) RunAll(ctx context.Context, variants []Variant, emit func(Report)) error {
	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return err
		}
		rep, err := r.Run(ctx, v)
		if err != nil {
			return err
		}
		if emit != nil {
			emit(rep)
		}
	}
	return nil
}
