package clientmetrics

import (
	"sync"
	"time"
)

// ClientMetrics tracks connection and transfer statistics of one adapter
// instance. A worker owns its client exclusively, the mutex only guards
// snapshots taken by diagnostics.
type ClientMetrics struct {
	mu                sync.Mutex
	connectTime       time.Time
	connects          int64
	requests          int64
	transportFailures int64
	bytesRecv         int64
}

// New creates a new ClientMetrics instance.
func New() *ClientMetrics {
	return &ClientMetrics{}
}

// MarkConnected records a (re)connection.
func (m *ClientMetrics) MarkConnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectTime = time.Now()
	m.connects++
}

// IncrementRequests counts an issued request.
func (m *ClientMetrics) IncrementRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
}

// IncrementReceived adds response bytes read.
func (m *ClientMetrics) IncrementReceived(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bytesRecv += bytes
}

// IncrementTransportFailures counts a request that never produced a status.
func (m *ClientMetrics) IncrementTransportFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transportFailures++
}

// Reset clears the connection time (used when disconnecting).
func (m *ClientMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectTime = time.Time{}
}

// Snapshot holds the counters at a point in time.
type Snapshot struct {
	ConnectionDuration time.Duration
	Connects           int64
	Requests           int64
	TransportFailures  int64
	BytesReceived      int64
}

// Snapshot returns a consistent snapshot of all metrics.
func (m *ClientMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := time.Duration(0)
	if !m.connectTime.IsZero() {
		duration = time.Since(m.connectTime)
	}

	return Snapshot{
		ConnectionDuration: duration,
		Connects:           m.connects,
		Requests:           m.requests,
		TransportFailures:  m.transportFailures,
		BytesReceived:      m.bytesRecv,
	}
}
