// Package server provides the static hello endpoint benchmarks run against.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/torosent/reqbench/internal/logging"
)

const (
	// Body is the page served on "/".
	Body = "<h1>Hello, reqbench!</h1>"

	DefaultAddr = ":8000"

	shutdownTimeout = 5 * time.Second
	logEvery        = 10000
)

type Options struct {
	Addr   string
	H2C    bool // also accept HTTP/2 cleartext (prior knowledge and upgrade)
	Logger logrus.FieldLogger
}

// Server serves Body on "/" and counts requests.
type Server struct {
	opts     Options
	requests atomic.Int64
	http     *http.Server
}

func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = logging.Logger()
	}
	s := &Server{opts: opts}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routing for the hello endpoint, wrapped for h2c when
// enabled.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHello)
	if !s.opts.H2C {
		return mux
	}
	return h2c.NewHandler(mux, &http2.Server{})
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if n := s.requests.Add(1); n%logEvery == 0 {
		s.opts.Logger.Debugf("served %d requests", n)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(Body))
}

// Requests returns the number of hello pages served.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, waiting up to five seconds for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.opts.Logger.WithFields(logrus.Fields{
		"addr": ln.Addr().String(),
		"h2c":  s.opts.H2C,
	}).Info("target server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.opts.Logger.Infof("target server stopped after %d requests", s.Requests())
	return nil
}
