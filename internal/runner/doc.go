// Package runner executes latency benchmarks against a single target.
//
// A run benchmarks one [Variant]: a fixed number of workers each create their
// own client, issue a fixed number of strictly sequential GET requests and
// time every one of them. Workers are scheduled according to the variant's
// kind:
//   - blocking variants run on a pool of OS-thread-locked goroutines
//   - suspending variants run as one task group that is cancelled on the
//     first failure
//
// Results are pooled only after a worker finished its whole loop, and the
// pooled sample count must equal Workers*RequestsPerWorker before any
// statistics are computed.
//
// # Basic Usage
//
//	r := runner.New(runner.Options{
//		Target:            "http://127.0.0.1:8000",
//		Workers:           10,
//		RequestsPerWorker: 100,
//	})
//	err := r.RunAll(ctx, variants, func(rep runner.Report) {
//		fmt.Println(rep.Variant, rep.Summary.P99)
//	})
//
// # Error Handling
//
// A response other than 200 fails the whole run with a [*StatusError]; no
// summary is produced for that variant and RunAll stops. Client creation and
// cancellation surface as [*WorkerError]. A pooled sample count mismatch
// surfaces as [*metrics.CountError].
package runner
