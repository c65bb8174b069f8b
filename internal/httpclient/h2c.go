package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"github.com/torosent/reqbench/internal/clientmetrics"
)

// h2cClient speaks HTTP/2 over cleartext TCP with prior knowledge. All
// requests of a worker are multiplexed on one connection, one at a time.
type h2cClient struct {
	client    *http.Client
	transport *http2.Transport
	metrics   *clientmetrics.ClientMetrics
}

func newH2CFactory(opts Options) Factory {
	return func(context.Context) (Client, error) {
		m := clientmetrics.New()
		dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
		transport := &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				conn, err := dialer.DialContext(ctx, network, addr)
				if err == nil {
					m.MarkConnected()
				}
				return conn, err
			},
		}
		timeout := opts.Timeout
		if timeout < 0 {
			timeout = 0
		}
		return &h2cClient{
			client:    &http.Client{Timeout: timeout, Transport: transport},
			transport: transport,
			metrics:   m,
		}, nil
	}
}

// Get implements Client.
func (c *h2cClient) Get(ctx context.Context, url string) int {
	c.metrics.IncrementRequests()
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.metrics.IncrementTransportFailures()
		return StatusTransportFailure
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.IncrementTransportFailures()
		return StatusTransportFailure
	}
	c.metrics.IncrementReceived(drain(resp.Body))
	return resp.StatusCode
}

// Close implements Client.
func (c *h2cClient) Close() error {
	c.transport.CloseIdleConnections()
	c.metrics.Reset()
	return nil
}

// Metrics implements MetricsProvider.
func (c *h2cClient) Metrics() clientmetrics.Snapshot {
	return c.metrics.Snapshot()
}
