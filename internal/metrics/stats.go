package metrics

import (
	"errors"
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	moremath "github.com/aclements/go-moremath/stats"
)

// ErrNoSamples is returned when statistics are requested over an empty set.
var ErrNoSamples = errors.New("no samples to summarize")

// Sample is the latency of one completed request in microseconds.
type Sample int64

// SampleOf truncates a measured duration to microsecond resolution.
func SampleOf(d time.Duration) Sample {
	return Sample(d.Microseconds())
}

// Millis converts the sample to fractional milliseconds.
func (s Sample) Millis() float64 {
	return float64(s) / 1000.0
}

// Stats is the summary of one pooled result set. Mean, P99, P999 and Max are
// the comparable order statistics; the remaining fields are informational.
type Stats struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean_ms" yaml:"mean_ms"`
	P99    float64 `json:"p99_ms" yaml:"p99_ms"`
	P999   float64 `json:"p999_ms" yaml:"p999_ms"`
	Max    float64 `json:"max_ms" yaml:"max_ms"`
	Min    float64 `json:"min_ms" yaml:"min_ms"`
	P50    float64 `json:"p50_ms" yaml:"p50_ms"`
	P90    float64 `json:"p90_ms" yaml:"p90_ms"`
	StdDev float64 `json:"stddev_ms" yaml:"stddev_ms"`

	// LoopMean is the mean wall time of one worker loop.
	LoopMean float64 `json:"loop_mean_ms" yaml:"loop_mean_ms"`
	// Elapsed is the wall time of the whole run.
	Elapsed float64 `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// QuantileIndex returns the 0-based index of the nearest-rank quantile over n
// sorted samples, i.e. ceil(n*perMille/1000) - 1. Integer arithmetic keeps the
// rank exact where n*0.99 would round in floating point.
func QuantileIndex(n, perMille int) int {
	if n <= 0 {
		return -1
	}
	rank := (n*perMille + 999) / 1000
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return rank - 1
}

// Summarize sorts a copy of samples and computes the summary. The result only
// depends on the multiset of samples, never on their order.
func Summarize(samples []Sample) (Stats, error) {
	n := len(samples)
	if n == 0 {
		return Stats{}, ErrNoSamples
	}

	sorted := make([]Sample, n)
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	xs := make([]float64, n)
	for i, s := range sorted {
		sum += int64(s)
		xs[i] = s.Millis()
	}

	stats := Stats{
		Count: n,
		Mean:  float64(sum) / float64(n) / 1000.0,
		P99:   sorted[QuantileIndex(n, 990)].Millis(),
		P999:  sorted[QuantileIndex(n, 999)].Millis(),
		Max:   sorted[n-1].Millis(),
		Min:   sorted[0].Millis(),
	}
	if n > 1 {
		stats.StdDev = moremath.Sample{Xs: xs, Sorted: true}.StdDev()
	}

	hist := newHistogram(sorted)
	stats.P50 = float64(hist.ValueAtQuantile(50)) / 1000.0
	stats.P90 = float64(hist.ValueAtQuantile(90)) / 1000.0

	return stats, nil
}

// newHistogram tracks latencies from 1µs up to 60s with 3 significant figures.
func newHistogram(samples []Sample) *hdrhistogram.Histogram {
	h := hdrhistogram.New(1, 60_000_000, 3)
	for _, s := range samples {
		us := int64(s)
		if us < h.LowestTrackableValue() {
			us = h.LowestTrackableValue()
		}
		if us > h.HighestTrackableValue() {
			us = h.HighestTrackableValue()
		}
		_ = h.RecordValue(us)
	}
	return h
}
