package httpclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/torosent/reqbench/internal/clientmetrics"
)

// StatusTransportFailure is returned by Get when no HTTP status was received.
const StatusTransportFailure = 0

// Kind selects how workers of a variant are scheduled.
type Kind string

const (
	// KindBlocking adapters occupy one OS thread per worker for the whole loop.
	KindBlocking Kind = "blocking"
	// KindSuspending adapters yield at the network wait and honor cancellation.
	KindSuspending Kind = "suspending"
)

// ParseKind validates a kind label.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBlocking:
		return KindBlocking, nil
	case KindSuspending:
		return KindSuspending, nil
	default:
		return "", fmt.Errorf("unknown client kind %q (use %q or %q)", s, KindBlocking, KindSuspending)
	}
}

// Client issues one GET at a time and reports the response status.
//
// Get never fails: transport errors are reported as StatusTransportFailure.
// Blocking implementations ignore ctx, suspending ones bind the request to it.
type Client interface {
	Get(ctx context.Context, url string) int
	Close() error
}

// Factory acquires a new client with its own connections.
type Factory func(ctx context.Context) (Client, error)

// MetricsProvider exposes transfer counters of a client.
type MetricsProvider interface {
	Metrics() clientmetrics.Snapshot
}
