package runner

import (
	"fmt"

	"github.com/torosent/reqbench/internal/httpclient"
)

// StatusError reports a response other than 200. Worker and Request are
// 1-based. Status 0 means the adapter hit a transport failure.
type StatusError struct {
	Variant string
	Worker  int
	Request int
	Status  int
	// TransportFailures is the adapter's failure count at the time of the
	// error, or -1 when the adapter exposes no metrics.
	TransportFailures int64
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("variant %s: worker %d request %d: unexpected status %d", e.Variant, e.Worker, e.Request, e.Status)
	if e.Status == httpclient.StatusTransportFailure {
		msg += " (transport failure"
		if e.TransportFailures >= 0 {
			msg += fmt.Sprintf(", %d so far on this worker", e.TransportFailures)
		}
		msg += ")"
	}
	return msg
}

// WorkerError reports a worker that could not produce a result for a reason
// other than a response status.
type WorkerError struct {
	Variant string
	Worker  int
	Err     error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("variant %s: worker %d: %v", e.Variant, e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}
