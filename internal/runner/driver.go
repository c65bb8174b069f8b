package runner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/metrics"
	"github.com/torosent/reqbench/internal/pool"
)

// strategyFor maps a variant kind onto the pool strategy that schedules its
// workers.
func strategyFor(kind httpclient.Kind) pool.Strategy {
	if kind == httpclient.KindSuspending {
		return pool.Tasks
	}
	return pool.Threads
}

// drive runs every worker of one variant and returns the verified pool of
// their results together with the wall time of the whole fan-out.
func (r *Runner) drive(ctx context.Context, v Variant) (*metrics.Collector, time.Duration, error) {
	collector := metrics.NewCollector(r.opt.Workers, r.opt.RequestsPerWorker)

	var finished int64
	start := time.Now()
	err := pool.Run(ctx, strategyFor(v.Kind), r.opt.Workers, func(ctx context.Context, slot int) error {
		res, err := r.runWorker(ctx, v, slot+1)
		if err != nil {
			return err
		}
		collector.Add(res)
		if r.opt.Progress != nil {
			r.opt.Progress(v.Name, int(atomic.AddInt64(&finished, 1)), r.opt.Workers)
		}
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, err
	}

	if err := collector.Verify(); err != nil {
		return nil, elapsed, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	return collector, elapsed, nil
}
