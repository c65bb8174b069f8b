package httpclient

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/torosent/reqbench/internal/clientmetrics"
)

const rawUserAgent = "reqbench-rawtcp"

// rawTCPClient writes HTTP/1.1 requests directly onto one persistent TCP
// connection, outside of net/http's transport. It reconnects when the host
// changes or after the connection broke; a failed request is never resent.
type rawTCPClient struct {
	timeout time.Duration
	dialer  *net.Dialer
	conn    net.Conn
	reader  *bufio.Reader
	addr    string
	metrics *clientmetrics.ClientMetrics
}

func newRawTCPFactory(opts Options) Factory {
	return func(context.Context) (Client, error) {
		return &rawTCPClient{
			timeout: opts.Timeout,
			dialer:  &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second},
			metrics: clientmetrics.New(),
		}, nil
	}
}

// Get implements Client.
func (c *rawTCPClient) Get(_ context.Context, rawURL string) int {
	c.metrics.IncrementRequests()

	target, addr, host, err := splitTarget(rawURL)
	if err != nil {
		c.metrics.IncrementTransportFailures()
		return StatusTransportFailure
	}
	if err := c.ensureConn(addr); err != nil {
		c.metrics.IncrementTransportFailures()
		return StatusTransportFailure
	}

	status, keepAlive, err := c.roundTrip(host, target)
	if err != nil {
		c.disconnect()
		c.metrics.IncrementTransportFailures()
		return StatusTransportFailure
	}
	if !keepAlive {
		c.disconnect()
	}
	return status
}

func (c *rawTCPClient) roundTrip(host, target string) (int, bool, error) {
	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, false, err
		}
	}

	if _, err := fmt.Fprintf(c.conn, "GET %s HTTP/1.1\r\nHost: %s\r\nUser-Agent: %s\r\nAccept: */*\r\n\r\n", target, host, rawUserAgent); err != nil {
		return 0, false, err
	}

	resp, err := http.ReadResponse(c.reader, nil)
	if err != nil {
		return 0, false, err
	}
	c.metrics.IncrementReceived(drain(resp.Body))
	return resp.StatusCode, !resp.Close, nil
}

func (c *rawTCPClient) ensureConn(addr string) error {
	if c.conn != nil && c.addr == addr {
		return nil
	}
	c.disconnect()

	conn, err := c.dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.addr = addr
	c.metrics.MarkConnected()
	return nil
}

func (c *rawTCPClient) disconnect() {
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.reader = nil
	c.addr = ""
	c.metrics.Reset()
}

// Close implements Client.
func (c *rawTCPClient) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	c.metrics.Reset()
	return err
}

// Metrics implements MetricsProvider.
func (c *rawTCPClient) Metrics() clientmetrics.Snapshot {
	return c.metrics.Snapshot()
}

// splitTarget returns the request target, dial address and Host header of a
// plain http URL.
func splitTarget(rawURL string) (target, addr, host string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", err
	}
	if u.Scheme != "http" {
		return "", "", "", fmt.Errorf("rawtcp supports plain http only, got %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return "", "", "", fmt.Errorf("missing host in %q", rawURL)
	}
	port := u.Port()
	if port == "" {
		port = "80"
	}
	target = u.RequestURI()
	if target == "" {
		target = "/"
	}
	return target, net.JoinHostPort(u.Hostname(), port), u.Host, nil
}
