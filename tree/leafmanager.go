package tree

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pointgrid/resource"
)

// ForEachOptions configures parallel leaf iteration.
type ForEachOptions struct {
	// MaxParallelism bounds the number of concurrently executing ranges.
	// Defaults to runtime.GOMAXPROCS(0).
	MaxParallelism int

	// GrainSize is the number of leaves per range. If 0, ranges are sized so
	// that each worker gets several ranges for load balancing.
	GrainSize int

	// Resources optionally gates each range behind a shared worker semaphore.
	Resources *resource.Controller
}

// LeafManager holds an origin-ordered snapshot of a tree's leaves and drives
// fork-join parallel iteration over contiguous leaf ranges.
//
// Ranges are independent: the callback must not assume any ordering between
// ranges, and shared state passed into it must be read-only.
type LeafManager struct {
	leaves []*Leaf
}

// NewLeafManager snapshots the tree's leaves.
func NewLeafManager(t *PointTree) *LeafManager {
	return &LeafManager{leaves: t.Leaves()}
}

// LeafCount returns the number of leaves in the snapshot.
func (m *LeafManager) LeafCount() int { return len(m.leaves) }

// Leaf returns the i-th leaf of the snapshot.
func (m *LeafManager) Leaf(i int) *Leaf { return m.leaves[i] }

// ForEachRange invokes fn once per contiguous leaf range, running ranges in
// parallel. The first error cancels outstanding ranges and is returned;
// already-completed ranges are not rolled back.
func (m *LeafManager) ForEachRange(ctx context.Context, fn func(leaves []*Leaf) error, optFns ...func(*ForEachOptions)) error {
	opts := ForEachOptions{}
	for _, optFn := range optFns {
		optFn(&opts)
	}

	limit := opts.MaxParallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	grain := opts.GrainSize
	if grain <= 0 {
		// A few ranges per worker keeps stealing effective without
		// drowning in per-range overhead.
		grain = (len(m.leaves) + limit*4 - 1) / (limit * 4)
		if grain < 1 {
			grain = 1
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for start := 0; start < len(m.leaves); start += grain {
		end := start + grain
		if end > len(m.leaves) {
			end = len(m.leaves)
		}
		rng := m.leaves[start:end]

		g.Go(func() error {
			if err := opts.Resources.AcquireWorker(ctx); err != nil {
				return err
			}
			defer opts.Resources.ReleaseWorker()

			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(rng)
		})
	}

	return g.Wait()
}
