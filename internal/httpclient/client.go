package httpclient

import (
	"context"
	"net"
	"net/http"
	"time"
)

// newClient returns an *http.Client with its own keep-alive transport.
// onConnect runs after every successful dial.
func newClient(timeout time.Duration, onConnect func()) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(onConnect),
	}
}

func newTransport(onConnect func()) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err == nil && onConnect != nil {
				onConnect()
			}
			return conn, err
		},
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   1,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
