package metrics_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/torosent/reqbench/internal/metrics"
)

func TestSummarizeFixedLatency(t *testing.T) {
	samples := make([]metrics.Sample, 1000)
	for i := range samples {
		samples[i] = 1000
	}

	stats, err := metrics.Summarize(samples)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if stats.Count != 1000 {
		t.Errorf("expected count 1000, got %d", stats.Count)
	}
	for name, got := range map[string]float64{
		"mean":  stats.Mean,
		"p99":   stats.P99,
		"p99.9": stats.P999,
		"max":   stats.Max,
	} {
		if got != 1.0 {
			t.Errorf("expected %s 1.00ms, got %.3f", name, got)
		}
	}
	if stats.StdDev != 0 {
		t.Errorf("expected zero stddev, got %f", stats.StdDev)
	}
}

func TestSummarizeKnownDistribution(t *testing.T) {
	// 1µs..1000µs, shuffled.
	samples := make([]metrics.Sample, 1000)
	for i := range samples {
		samples[i] = metrics.Sample(i + 1)
	}
	rnd := rand.New(rand.NewSource(7))
	rnd.Shuffle(len(samples), func(i, j int) { samples[i], samples[j] = samples[j], samples[i] })

	stats, err := metrics.Summarize(samples)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if stats.P99 != 0.990 {
		t.Errorf("expected p99 to be the 990th value (0.990ms), got %.3f", stats.P99)
	}
	if stats.P999 != 0.999 {
		t.Errorf("expected p99.9 to be the 999th value (0.999ms), got %.3f", stats.P999)
	}
	if stats.Max != 1.0 {
		t.Errorf("expected max 1.000ms, got %.3f", stats.Max)
	}
	if stats.Min != 0.001 {
		t.Errorf("expected min 0.001ms, got %.3f", stats.Min)
	}
	if stats.Mean != 0.5005 {
		t.Errorf("expected mean 0.5005ms, got %f", stats.Mean)
	}
}

func TestSummarizePermutationInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	samples := make([]metrics.Sample, 777)
	for i := range samples {
		samples[i] = metrics.Sample(rnd.Int63n(50_000) + 1)
	}

	want, err := metrics.Summarize(samples)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	for round := 0; round < 20; round++ {
		shuffled := append([]metrics.Sample(nil), samples...)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, err := metrics.Summarize(shuffled)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if got.Mean != want.Mean || got.P99 != want.P99 || got.P999 != want.P999 || got.Max != want.Max {
			t.Fatalf("round %d: summary changed with input order: got %+v want %+v", round, got, want)
		}
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	samples := []metrics.Sample{30, 10, 20}
	if _, err := metrics.Summarize(samples); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if samples[0] != 30 || samples[1] != 10 || samples[2] != 20 {
		t.Fatalf("input was mutated: %v", samples)
	}
}

func TestSummarizeMaxIsLargest(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for n := 1; n <= 64; n++ {
		samples := make([]metrics.Sample, n)
		var largest metrics.Sample
		for i := range samples {
			samples[i] = metrics.Sample(rnd.Int63n(10_000))
			if samples[i] > largest {
				largest = samples[i]
			}
		}
		stats, err := metrics.Summarize(samples)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if stats.Max != largest.Millis() {
			t.Fatalf("n=%d: expected max %.3f, got %.3f", n, largest.Millis(), stats.Max)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := metrics.Summarize(nil)
	if !errors.Is(err, metrics.ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestQuantileIndexAlwaysValid(t *testing.T) {
	for n := 1; n <= 5000; n++ {
		for _, pm := range []int{990, 999} {
			idx := metrics.QuantileIndex(n, pm)
			if idx < 0 || idx >= n {
				t.Fatalf("QuantileIndex(%d, %d) = %d out of range", n, pm, idx)
			}
		}
	}
}

func TestQuantileIndexNearestRank(t *testing.T) {
	tests := []struct {
		n, perMille, want int
	}{
		{1, 990, 0},
		{1, 999, 0},
		{10, 990, 9},
		{100, 990, 98},
		{100, 999, 99},
		{1000, 990, 989},
		{1000, 999, 998},
		{1001, 990, 990},
		{2000, 999, 1997},
	}
	for _, tt := range tests {
		if got := metrics.QuantileIndex(tt.n, tt.perMille); got != tt.want {
			t.Errorf("QuantileIndex(%d, %d) = %d, want %d", tt.n, tt.perMille, got, tt.want)
		}
	}
}

func TestSampleOfTruncatesToMicroseconds(t *testing.T) {
	if got := metrics.SampleOf(1999 * time.Nanosecond); got != 1 {
		t.Errorf("expected 1µs, got %d", got)
	}
	if got := metrics.SampleOf(2500 * time.Microsecond); got != 2500 {
		t.Errorf("expected 2500µs, got %d", got)
	}
}
