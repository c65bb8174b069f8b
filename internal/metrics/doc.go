// Package metrics pools per-request latency samples and computes the summary
// statistics that make benchmark runs comparable.
//
// # Samples
//
// A [Sample] is the latency of one successful request in whole microseconds.
// Workers collect their own samples without sharing and hand them to a
// [Collector] once, after their loop finished:
//
//	collector := metrics.NewCollector(workers, requestsPerWorker)
//	collector.Add(metrics.WorkerResult{Samples: samples, Elapsed: loop})
//
// # Statistics
//
// [Collector.Stats] refuses to summarize a pool whose size differs from
// workers*requestsPerWorker and returns a [*CountError] instead. [Summarize]
// sorts a copy of the samples and derives:
//   - Mean: sum / count
//   - P99 and P999: nearest rank, index ceil(count*q) - 1
//   - Max: last sorted sample
//
// All values are fractional milliseconds. P50, P90 (HDR histogram), Min and
// StdDev are reported alongside but are informational only.
package metrics
