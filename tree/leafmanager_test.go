package tree

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pointgrid/resource"
)

func managerTree(t *testing.T, numLeaves int) *PointTree {
	t.Helper()
	desc := testDescriptor(t)
	pt := New(desc)
	for i := 0; i < numLeaves; i++ {
		require.NoError(t, pt.AddLeaf(makeLeaf(t, desc, Coord{X: int32(i)}, 2)))
	}
	return pt
}

func TestLeafManagerForEachRange(t *testing.T) {
	t.Run("visits every leaf exactly once", func(t *testing.T) {
		pt := managerTree(t, 37)
		m := NewLeafManager(pt)
		assert.Equal(t, 37, m.LeafCount())

		var mu sync.Mutex
		seen := make(map[Coord]int)

		err := m.ForEachRange(context.Background(), func(leaves []*Leaf) error {
			mu.Lock()
			defer mu.Unlock()
			for _, l := range leaves {
				seen[l.Origin()]++
			}
			return nil
		})
		require.NoError(t, err)

		require.Len(t, seen, 37)
		for origin, count := range seen {
			assert.Equalf(t, 1, count, "leaf %s visited %d times", origin, count)
		}
	})

	t.Run("empty tree is a no-op", func(t *testing.T) {
		m := NewLeafManager(managerTree(t, 0))
		err := m.ForEachRange(context.Background(), func([]*Leaf) error {
			t.Fatal("callback invoked for empty tree")
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("first error is returned", func(t *testing.T) {
		pt := managerTree(t, 16)
		m := NewLeafManager(pt)

		sentinel := errors.New("boom")
		err := m.ForEachRange(context.Background(), func(leaves []*Leaf) error {
			if leaves[0].Origin() == (Coord{X: 0}) {
				return sentinel
			}
			return nil
		}, func(o *ForEachOptions) {
			o.GrainSize = 1
		})
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("canceled context aborts", func(t *testing.T) {
		pt := managerTree(t, 8)
		m := NewLeafManager(pt)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := m.ForEachRange(ctx, func([]*Leaf) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("honors worker semaphore", func(t *testing.T) {
		pt := managerTree(t, 20)
		m := NewLeafManager(pt)
		rc := resource.NewController(resource.Config{MaxWorkers: 1})

		var mu sync.Mutex
		active, maxActive := 0, 0

		err := m.ForEachRange(context.Background(), func([]*Leaf) error {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
			return nil
		}, func(o *ForEachOptions) {
			o.GrainSize = 1
			o.Resources = rc
		})
		require.NoError(t, err)
		assert.Equal(t, 1, maxActive)
	})
}
