// Package pool runs a fixed number of concurrent units of work and waits for
// all of them, failing as a whole when any unit fails.
package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Unit is one concurrent unit of work. slot is its 0-based index.
type Unit func(ctx context.Context, slot int) error

// Strategy decides how units are executed.
type Strategy interface {
	Name() string
	run(ctx context.Context, n int, unit Unit) error
}

var (
	// Threads runs every unit on its own locked OS thread, bounded at exactly
	// n slots. Units that ignore ctx run to completion after a failure.
	Threads Strategy = threads{}
	// Tasks runs every unit as a goroutine of one errgroup. The first failure
	// cancels the context shared by the remaining units.
	Tasks Strategy = tasks{}
)

// Run executes n units with the given strategy and returns once all of them
// returned. The error is the first unit failure in completion order.
func Run(ctx context.Context, s Strategy, n int, unit Unit) error {
	if n <= 0 {
		return fmt.Errorf("pool: unit count must be positive, got %d", n)
	}
	if unit == nil {
		return fmt.Errorf("pool: unit is nil")
	}
	if s == nil {
		s = Tasks
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.run(ctx, n, unit)
}

type threads struct{}

func (threads) Name() string { return "threads" }

func (threads) run(ctx context.Context, n int, unit Unit) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make(chan struct{}, n)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	wg.Add(n)
	for i := 0; i < n; i++ {
		slots <- struct{}{}
		go func(slot int) {
			defer wg.Done()
			defer func() { <-slots }()

			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			if err := unit(ctx, slot); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(i)
	}
	wg.Wait()

	return firstErr
}

type tasks struct{}

func (tasks) Name() string { return "tasks" }

func (tasks) run(ctx context.Context, n int, unit Unit) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		slot := i
		g.Go(func() error {
			return unit(gctx, slot)
		})
	}
	return g.Wait()
}
