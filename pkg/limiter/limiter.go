// Package limiter bounds the number of concurrently running fetch operations.
//
// A Limiter admits at most N tasks at once. Excess tasks wait in FIFO order
// and are started as running tasks release their slots. A task that fails
// still releases its slot.
package limiter

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
)

// Prometheus metrics for limiter slot accounting.
var (
	limiterActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ohtujutt_limiter_active_tasks",
		Help: "Number of tasks currently holding a limiter slot",
	})

	limiterPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ohtujutt_limiter_pending_tasks",
		Help: "Number of tasks queued waiting for a limiter slot",
	})

	limiterScheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ohtujutt_limiter_scheduled_total",
		Help: "Total number of tasks scheduled through the limiter",
	})
)

// Limiter bounds concurrent execution to a fixed number of slots.
// The zero value is not usable; create instances with New and share
// one per process.
type Limiter struct {
	sem     *semaphore.Weighted
	max     int
	active  atomic.Int64
	pending atomic.Int64
}

// New creates a Limiter with the given maximum concurrency.
func New(maxConcurrent int) (*Limiter, error) {
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("max concurrency must be >= 1 (got %d)", maxConcurrent)
	}
	return &Limiter{
		sem: semaphore.NewWeighted(int64(maxConcurrent)),
		max: maxConcurrent,
	}, nil
}

// Do runs task once a slot is available, blocking until then or until ctx is
// done. Waiters acquire slots in FIFO order. The slot is released when task
// returns, regardless of outcome, and task's error is returned unchanged.
func (l *Limiter) Do(ctx context.Context, task func() error) error {
	limiterScheduledTotal.Inc()

	l.pending.Add(1)
	limiterPending.Inc()
	err := l.sem.Acquire(ctx, 1)
	l.pending.Add(-1)
	limiterPending.Dec()
	if err != nil {
		return fmt.Errorf("acquire limiter slot: %w", err)
	}

	l.active.Add(1)
	limiterActive.Inc()
	defer func() {
		l.sem.Release(1)
		l.active.Add(-1)
		limiterActive.Dec()
	}()

	return task()
}

// Max returns the configured maximum concurrency.
func (l *Limiter) Max() int {
	return l.max
}

// Active returns the number of tasks currently holding a slot.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// Pending returns the number of tasks queued waiting for a slot.
func (l *Limiter) Pending() int {
	return int(l.pending.Load())
}
