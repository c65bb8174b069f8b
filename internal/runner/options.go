package runner

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/logging"
)

// Variant describes one client implementation under test.
type Variant struct {
	Name    string
	Kind    httpclient.Kind
	Factory httpclient.Factory
}

// Clock reads the current time for request timing.
type Clock func() time.Time

// Options configure the Runner.
type Options struct {
	Target            string                 // URL every request is sent to
	Workers           int                    // concurrent workers per run
	RequestsPerWorker int                    // sequential requests per worker
	Logger            logrus.FieldLogger     // optional, defaults to the shared logger
	Tracer            trace.Tracer           // optional, defaults to a no-op tracer
	NewClock          func(worker int) Clock // optional injection for tests

	// Progress, when set, is called after each worker's result was pooled.
	Progress func(variant string, done, total int)
}

func (o *Options) normalize() {
	if o.Logger == nil {
		o.Logger = logging.Logger()
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer("reqbench")
	}
	if o.NewClock == nil {
		o.NewClock = func(int) Clock { return time.Now }
	}
}

// Validate rejects run sizes that cannot produce a complete result set.
func (o Options) Validate() error {
	if o.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", o.Workers)
	}
	if o.RequestsPerWorker <= 0 {
		return fmt.Errorf("requests per worker must be positive, got %d", o.RequestsPerWorker)
	}
	if o.Target == "" {
		return fmt.Errorf("target is required")
	}
	return nil
}
