package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/torosent/reqbench/internal/clientmetrics"
)

// netHTTPClient issues requests through net/http.
//
// With fresh set every request builds and tears down its own transport, so
// each sample includes connection setup. Otherwise the keep-alive connection
// is reused for the whole worker loop.
type netHTTPClient struct {
	client  *http.Client
	timeout time.Duration
	fresh   bool
	bindCtx bool
	metrics *clientmetrics.ClientMetrics
}

func newNetHTTPFactory(opts Options, fresh, bindCtx bool) Factory {
	return func(context.Context) (Client, error) {
		m := clientmetrics.New()
		c := &netHTTPClient{
			timeout: opts.Timeout,
			fresh:   fresh,
			bindCtx: bindCtx,
			metrics: m,
		}
		if !fresh {
			c.client = newClient(opts.Timeout, m.MarkConnected)
		}
		return c, nil
	}
}

// Get implements Client.
func (c *netHTTPClient) Get(ctx context.Context, url string) int {
	c.metrics.IncrementRequests()

	hc := c.client
	if c.fresh {
		hc = newClient(c.timeout, c.metrics.MarkConnected)
		defer hc.CloseIdleConnections()
	}

	if !c.bindCtx || ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.metrics.IncrementTransportFailures()
		return StatusTransportFailure
	}

	resp, err := hc.Do(req)
	if err != nil {
		c.metrics.IncrementTransportFailures()
		return StatusTransportFailure
	}
	c.metrics.IncrementReceived(drain(resp.Body))
	return resp.StatusCode
}

// Close implements Client.
func (c *netHTTPClient) Close() error {
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	c.metrics.Reset()
	return nil
}

// Metrics implements MetricsProvider.
func (c *netHTTPClient) Metrics() clientmetrics.Snapshot {
	return c.metrics.Snapshot()
}
