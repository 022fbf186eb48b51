// Package worker runs jobs concurrently: a long-lived Pool drains a queue,
// and Map fans a slice out over a bounded number of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/resumerank/pkg/logger"
	"github.com/okian/resumerank/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Handler processes one job.
type Handler[T any] func(ctx context.Context, job T) error

// Source is what a Pool reads jobs from.
type Source[T any] interface {
	Dequeue(ctx context.Context) <-chan T
}

// Pool manages a fixed number of workers draining one Source.
type Pool[T any] struct {
	size   int
	source Source[T]
	handle Handler[T]
	name   string
	logger logger.Logger

	wg        sync.WaitGroup
	processed atomic.Int64
	failed    atomic.Int64
}

// NewPool creates a pool of size workers. A size below 1 uses one worker per CPU.
func NewPool[T any](size int, source Source[T], handle Handler[T], opts ...Option) *Pool[T] {
	if size < 1 {
		size = runtime.NumCPU()
	}
	s := settings{name: "worker"}
	for _, opt := range opts {
		opt(&s)
	}
	lg := s.logger
	if lg == nil {
		lg = logger.Get()
	}
	return &Pool[T]{
		size:   size,
		source: source,
		handle: handle,
		name:   s.name,
		logger: lg.Named(s.name),
	}
}

// Start launches the workers. They stop when the source is drained or ctx
// is done.
func (p *Pool[T]) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, p.name+"-"+strconv.Itoa(i))
	}
}

func (p *Pool[T]) run(ctx context.Context, name string) {
	defer p.wg.Done()
	jobs := p.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := track(ctx, job, p.handle); err != nil {
				p.failed.Add(1)
				p.logger.Error(ctx, "job failed", logger.String("worker", name), logger.Error(err))
				continue
			}
			p.processed.Add(1)
		}
	}
}

// Wait blocks until every worker has returned.
func (p *Pool[T]) Wait() {
	p.wg.Wait()
}

// Shutdown closes the source when it supports it and waits for the workers
// to drain it, giving up when ctx or the pool timeout expires.
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()
	select {
	case <-done:
		return nil
	case <-shutdownCtx.Done():
		p.logger.Warn(ctx, "worker shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
	}
}

// Stats returns the number of processed and failed jobs so far.
func (p *Pool[T]) Stats() (processed, failed int64) {
	return p.processed.Load(), p.failed.Load()
}

// Map calls fn for every item with at most limit calls in flight and
// returns the results in input order. The first error cancels the calls
// that have not started and is returned.
func Map[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return track(gctx, item, func(ctx context.Context, item T) error {
				r, err := fn(ctx, item)
				if err != nil {
					return err
				}
				out[i] = r
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func track[T any](ctx context.Context, job T, handle Handler[T]) error {
	metrics.UpdateWorkerActiveCount(1)
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerActiveCount(-1)
		metrics.RecordWorkerTaskLatency(float64(time.Since(start).Milliseconds()))
	}()
	return handle(ctx, job)
}
