package httpclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func newHelloServer(t *testing.T, status int, hits *int64) *httptest.Server {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt64(hits, 1)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte("<h1>Hello</h1>"))
	})
	srv := httptest.NewServer(h2c.NewHandler(handler, &http2.Server{}))
	t.Cleanup(srv.Close)
	return srv
}

func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return "http://" + addr + "/"
}

func TestAdaptersReturnStatus(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			var hits int64
			srv := newHelloServer(t, http.StatusOK, &hits)

			adapter, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", name, err)
			}
			client, err := adapter.Factory(Options{Timeout: 5 * time.Second})(context.Background())
			if err != nil {
				t.Fatalf("factory: %v", err)
			}
			defer client.Close()

			for i := 0; i < 5; i++ {
				if status := client.Get(context.Background(), srv.URL); status != http.StatusOK {
					t.Fatalf("request %d: expected 200, got %d", i+1, status)
				}
			}
			if hits != 5 {
				t.Fatalf("expected 5 server hits, got %d", hits)
			}

			provider, ok := client.(MetricsProvider)
			if !ok {
				t.Fatalf("%s does not expose metrics", name)
			}
			snap := provider.Metrics()
			if snap.Requests != 5 {
				t.Errorf("expected 5 requests, got %d", snap.Requests)
			}
			if snap.TransportFailures != 0 {
				t.Errorf("expected no transport failures, got %d", snap.TransportFailures)
			}
			if snap.BytesReceived == 0 {
				t.Errorf("expected response bytes to be counted")
			}
			if snap.Connects == 0 {
				t.Errorf("expected at least one connect")
			}
		})
	}
}

func TestAdaptersReportNonSuccessStatus(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			srv := newHelloServer(t, http.StatusInternalServerError, nil)
			adapter, _ := Lookup(name)
			client, err := adapter.Factory(Options{})(context.Background())
			if err != nil {
				t.Fatalf("factory: %v", err)
			}
			defer client.Close()

			if status := client.Get(context.Background(), srv.URL); status != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", status)
			}
		})
	}
}

func TestAdaptersMapTransportFailures(t *testing.T) {
	target := closedAddr(t)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			adapter, _ := Lookup(name)
			client, err := adapter.Factory(Options{Timeout: time.Second})(context.Background())
			if err != nil {
				t.Fatalf("factory: %v", err)
			}
			defer client.Close()

			if status := client.Get(context.Background(), target); status != StatusTransportFailure {
				t.Fatalf("expected transport failure sentinel, got %d", status)
			}
			snap := client.(MetricsProvider).Metrics()
			if snap.TransportFailures != 1 {
				t.Errorf("expected 1 transport failure, got %d", snap.TransportFailures)
			}
		})
	}
}

func TestKeepAliveReusesConnection(t *testing.T) {
	srv := newHelloServer(t, http.StatusOK, nil)
	for _, name := range []string{"nethttp", "nethttp-async", "rawtcp", "h2c"} {
		adapter, _ := Lookup(name)
		client, _ := adapter.Factory(Options{})(context.Background())
		for i := 0; i < 10; i++ {
			client.Get(context.Background(), srv.URL)
		}
		if connects := client.(MetricsProvider).Metrics().Connects; connects != 1 {
			t.Errorf("%s: expected a single connection, got %d", name, connects)
		}
		_ = client.Close()
	}
}

func TestFreshSessionConnectsPerRequest(t *testing.T) {
	srv := newHelloServer(t, http.StatusOK, nil)
	adapter, _ := Lookup("nethttp-fresh")
	client, _ := adapter.Factory(Options{})(context.Background())
	defer client.Close()

	for i := 0; i < 3; i++ {
		client.Get(context.Background(), srv.URL)
	}
	if connects := client.(MetricsProvider).Metrics().Connects; connects != 3 {
		t.Fatalf("expected 3 connections, got %d", connects)
	}
}

func TestSuspendingAdapterHonorsCancellation(t *testing.T) {
	srv := newHelloServer(t, http.StatusOK, nil)
	adapter, _ := Lookup("nethttp-async")
	client, _ := adapter.Factory(Options{})(context.Background())
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if status := client.Get(ctx, srv.URL); status != StatusTransportFailure {
		t.Fatalf("expected cancelled request to map to transport failure, got %d", status)
	}
}

func TestBlockingAdapterIgnoresCancellation(t *testing.T) {
	srv := newHelloServer(t, http.StatusOK, nil)
	adapter, _ := Lookup("nethttp")
	client, _ := adapter.Factory(Options{})(context.Background())
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if status := client.Get(ctx, srv.URL); status != http.StatusOK {
		t.Fatalf("expected blocking adapter to complete, got %d", status)
	}
}

func TestLookupUnknownAdapter(t *testing.T) {
	_, err := Lookup("curl")
	if !errors.Is(err, ErrUnknownAdapter) {
		t.Fatalf("expected ErrUnknownAdapter, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"blocking", KindBlocking, false},
		{" Suspending ", KindSuspending, false},
		{"async", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSplitTarget(t *testing.T) {
	tests := []struct {
		url        string
		wantTarget string
		wantAddr   string
		wantHost   string
		wantErr    bool
	}{
		{"http://127.0.0.1:8000", "/", "127.0.0.1:8000", "127.0.0.1:8000", false},
		{"http://example.com/a?b=c", "/a?b=c", "example.com:80", "example.com", false},
		{"https://example.com/", "", "", "", true},
		{"http:///nohost", "", "", "", true},
	}
	for _, tt := range tests {
		target, addr, host, err := splitTarget(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("splitTarget(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if target != tt.wantTarget || addr != tt.wantAddr || host != tt.wantHost {
			t.Errorf("splitTarget(%q) = (%q, %q, %q), want (%q, %q, %q)", tt.url, target, addr, host, tt.wantTarget, tt.wantAddr, tt.wantHost)
		}
	}
}
