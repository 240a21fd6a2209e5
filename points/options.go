package points

import (
	"github.com/hupe1980/pointgrid"
	"github.com/hupe1980/pointgrid/resource"
)

// Options configures DeleteFromGroups.
type Options struct {
	// Logger receives structured operation logs. Defaults to a no-op logger.
	Logger *pointgrid.Logger

	// MaxParallelism bounds the number of leaf ranges compacted concurrently.
	// Defaults to runtime.GOMAXPROCS(0).
	MaxParallelism int

	// Resources optionally gates leaf tasks behind a shared worker semaphore.
	Resources *resource.Controller
}

// WithLogger sets the operation logger.
func WithLogger(l *pointgrid.Logger) func(*Options) {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMaxParallelism bounds the number of concurrently compacted leaf ranges.
func WithMaxParallelism(n int) func(*Options) {
	return func(o *Options) {
		o.MaxParallelism = n
	}
}

// WithResourceController attaches a shared resource controller.
func WithResourceController(rc *resource.Controller) func(*Options) {
	return func(o *Options) {
		o.Resources = rc
	}
}
