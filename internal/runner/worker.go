package runner

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/metrics"
	"github.com/torosent/reqbench/internal/tracing"
)

const progressInterval = time.Second

func (r *Runner) runWorker(ctx context.Context, v Variant, worker int) (metrics.WorkerResult, error) {
	ctx, span := tracing.StartWorkerSpan(ctx, r.opt.Tracer, worker)
	res, err := r.workerLoop(ctx, v, worker)
	tracing.EndSpan(span, err, attribute.Int("reqbench.samples", len(res.Samples)))
	return res, err
}

// workerLoop owns one client for its whole lifetime. Client creation and
// release happen outside the timed region.
func (r *Runner) workerLoop(ctx context.Context, v Variant, worker int) (metrics.WorkerResult, error) {
	client, err := v.Factory(ctx)
	if err != nil {
		return metrics.WorkerResult{}, &WorkerError{Variant: v.Name, Worker: worker, Err: err}
	}
	log := r.opt.Logger.WithField("variant", v.Name).WithField("worker", worker)
	defer func() {
		if cerr := client.Close(); cerr != nil {
			log.Debugf("closing client: %v", cerr)
		}
	}()

	now := r.opt.NewClock(worker)
	n := r.opt.RequestsPerWorker
	samples := make([]metrics.Sample, 0, n)
	progress := rate.Sometimes{First: 1, Interval: progressInterval}

	loopStart := time.Now()
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return metrics.WorkerResult{}, &WorkerError{Variant: v.Name, Worker: worker, Err: err}
		}

		start := now()
		status := client.Get(ctx, r.opt.Target)
		samples = append(samples, metrics.SampleOf(now().Sub(start)))

		if status != http.StatusOK {
			if err := ctx.Err(); err != nil && status == httpclient.StatusTransportFailure {
				return metrics.WorkerResult{}, &WorkerError{Variant: v.Name, Worker: worker, Err: err}
			}
			return metrics.WorkerResult{}, statusError(v.Name, worker, i, status, client)
		}

		progress.Do(func() {
			log.Debugf("%d/%d requests done", i, n)
		})
	}
	elapsed := time.Since(loopStart)

	if len(samples) != n {
		return metrics.WorkerResult{}, &WorkerError{
			Variant: v.Name,
			Worker:  worker,
			Err:     &metrics.CountError{Expected: n, Observed: len(samples)},
		}
	}
	log.Debugf("worker finished in %s", elapsed)
	return metrics.WorkerResult{Samples: samples, Elapsed: elapsed}, nil
}

func statusError(variant string, worker, request, status int, client httpclient.Client) *StatusError {
	failures := int64(-1)
	if mp, ok := client.(httpclient.MetricsProvider); ok {
		failures = mp.Metrics().TransportFailures
	}
	return &StatusError{
		Variant:           variant,
		Worker:            worker,
		Request:           request,
		Status:            status,
		TransportFailures: failures,
	}
}
