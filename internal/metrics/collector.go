package metrics

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// ErrSampleCount signals a pooled result set with a lost or duplicated worker.
var ErrSampleCount = errors.New("sample count mismatch")

// CountError reports the expected and observed sample counts.
type CountError struct {
	Expected int
	Observed int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%v: expected %d samples, collected %d", ErrSampleCount, e.Expected, e.Observed)
}

func (e *CountError) Unwrap() error {
	return ErrSampleCount
}

// WorkerResult is what one worker hands back after its loop completed.
type WorkerResult struct {
	Samples []Sample
	Elapsed time.Duration
}

// Collector pools the results of every worker of one run. Each worker adds
// its result exactly once, after its loop finished.
type Collector struct {
	mu       sync.Mutex
	expected int
	samples  []Sample
	loops    []time.Duration
}

// NewCollector creates a collector expecting workers*perWorker samples.
func NewCollector(workers, perWorker int) *Collector {
	expected := workers * perWorker
	if expected < 0 {
		expected = 0
	}
	return &Collector{
		expected: expected,
		samples:  make([]Sample, 0, expected),
		loops:    make([]time.Duration, 0, workers),
	}
}

// Add appends one worker result.
func (c *Collector) Add(r WorkerResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, r.Samples...)
	c.loops = append(c.loops, r.Elapsed)
}

// Len returns the number of pooled samples.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples)
}

// Expected returns the sample count a complete run must produce.
func (c *Collector) Expected() int {
	return c.expected
}

// Verify fails with a *CountError unless exactly the expected number of
// samples was pooled.
func (c *Collector) Verify() error {
	observed := c.Len()
	if observed != c.expected {
		return &CountError{Expected: c.expected, Observed: observed}
	}
	return nil
}

// Samples returns a copy of the pooled samples.
func (c *Collector) Samples() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Sample, len(c.samples))
	copy(out, c.samples)
	return out
}

// Stats verifies the pool and summarizes it. elapsed is the wall time of the
// whole run and is only reported.
func (c *Collector) Stats(elapsed time.Duration) (Stats, error) {
	if err := c.Verify(); err != nil {
		return Stats{}, err
	}
	summary, err := Summarize(c.Samples())
	if err != nil {
		return Stats{}, err
	}

	c.mu.Lock()
	loops := make([]float64, len(c.loops))
	for i, d := range c.loops {
		loops[i] = float64(d) / float64(time.Millisecond)
	}
	c.mu.Unlock()

	if len(loops) > 0 {
		mean, err := stats.Mean(loops)
		if err == nil {
			summary.LoopMean = mean
		}
	}
	summary.Elapsed = float64(elapsed) / float64(time.Millisecond)
	return summary, nil
}
