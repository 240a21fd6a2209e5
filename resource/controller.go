// Package resource provides shared limits for background work: a weighted
// semaphore bounding concurrent leaf tasks and a byte-rate limiter for
// snapshot I/O. A nil *Controller disables all limiting, so call sites need
// no nil checks.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of concurrent background tasks.
	// If 0, no worker limit is enforced.
	MaxWorkers int64

	// IOLimitBytesPerSec is the maximum I/O throughput for snapshot streams.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller enforces the configured limits.
type Controller struct {
	workerSem *semaphore.Weighted // nil if unlimited
	ioLimiter *rate.Limiter       // nil if unlimited
}

// NewController creates a controller for the given limits.
func NewController(cfg Config) *Controller {
	c := &Controller{}
	if cfg.MaxWorkers > 0 {
		c.workerSem = semaphore.NewWeighted(cfg.MaxWorkers)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireWorker blocks until a worker slot is available or ctx is canceled.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil || c.workerSem == nil {
		return nil
	}
	return c.workerSem.Acquire(ctx, 1)
}

// ReleaseWorker releases a previously acquired worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil || c.workerSem == nil {
		return
	}
	c.workerSem.Release(1)
}

// AcquireIO waits until the I/O budget admits n bytes or ctx is canceled.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	if n <= 0 {
		return nil
	}

	// rate.Limiter cannot grant more than its burst in one call.
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
