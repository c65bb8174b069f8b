package output

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// ProgressReporter redraws a single status line with the number of workers
// that finished in the current run.
type ProgressReporter struct {
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	writer   io.Writer
	active   int32

	mu      sync.Mutex
	variant string
	workers int
	total   int
	drawn   bool
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
	}
}

// Update records that done of total workers of variant have finished. It is
// safe for concurrent use and matches the runner's progress callback.
func (p *ProgressReporter) Update(variant string, done, total int) {
	p.mu.Lock()
	p.variant = variant
	p.workers = done
	p.total = total
	p.mu.Unlock()
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and clears the status line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		p.Clear()
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			p.draw()
		case <-p.done:
			return
		}
	}
}

func (p *ProgressReporter) draw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.variant == "" {
		return
	}
	fmt.Fprintf(p.writer, "\r%-20s workers done: %d/%d", p.variant, p.workers, p.total)
	p.drawn = true
}

// Clear erases the status line so a result line can be printed in its place.
func (p *ProgressReporter) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawn {
		return
	}
	fmt.Fprint(p.writer, "\r\033[K")
	p.drawn = false
}
