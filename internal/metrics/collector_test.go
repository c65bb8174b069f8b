package metrics_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torosent/reqbench/internal/metrics"
)

func fixedResult(n int, value metrics.Sample, loop time.Duration) metrics.WorkerResult {
	samples := make([]metrics.Sample, n)
	for i := range samples {
		samples[i] = value
	}
	return metrics.WorkerResult{Samples: samples, Elapsed: loop}
}

func TestCollectorConcurrentAdd(t *testing.T) {
	workers, perWorker := 10, 100
	c := metrics.NewCollector(workers, perWorker)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			c.Add(fixedResult(perWorker, 1000, 100*time.Millisecond))
		}()
	}
	wg.Wait()

	require.NoError(t, c.Verify())
	stats, err := c.Stats(150 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1000, stats.Count)
	assert.Equal(t, 1.0, stats.Mean)
	assert.Equal(t, 1.0, stats.P99)
	assert.Equal(t, 1.0, stats.P999)
	assert.Equal(t, 1.0, stats.Max)
	assert.InDelta(t, 100.0, stats.LoopMean, 1e-9)
	assert.InDelta(t, 150.0, stats.Elapsed, 1e-9)
}

func TestCollectorRejectsShortPool(t *testing.T) {
	c := metrics.NewCollector(2, 5)
	c.Add(fixedResult(5, 10, time.Millisecond))
	c.Add(fixedResult(4, 10, time.Millisecond))

	_, err := c.Stats(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, metrics.ErrSampleCount))

	var countErr *metrics.CountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 10, countErr.Expected)
	assert.Equal(t, 9, countErr.Observed)
	assert.Contains(t, err.Error(), "expected 10 samples, collected 9")
}

func TestCollectorRejectsDuplicatedWorker(t *testing.T) {
	c := metrics.NewCollector(1, 3)
	c.Add(fixedResult(3, 10, time.Millisecond))
	c.Add(fixedResult(3, 10, time.Millisecond))

	err := c.Verify()
	var countErr *metrics.CountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 6, countErr.Observed)
}

func TestCollectorSamplesReturnsCopy(t *testing.T) {
	c := metrics.NewCollector(1, 2)
	c.Add(metrics.WorkerResult{Samples: []metrics.Sample{1, 2}})

	got := c.Samples()
	got[0] = 99
	assert.Equal(t, []metrics.Sample{1, 2}, c.Samples())
	assert.Equal(t, 2, c.Expected())
}
