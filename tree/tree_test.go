package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pointgrid/attribute"
)

func makeLeaf(t *testing.T, desc *attribute.Descriptor, origin Coord, points int) *Leaf {
	t.Helper()
	set := attribute.NewSet(desc, points)
	leaf, err := NewLeaf(origin, 1, []uint32{uint32(points)}, set)
	require.NoError(t, err)
	return leaf
}

func TestPointTree(t *testing.T) {
	t.Run("add and lookup", func(t *testing.T) {
		desc := testDescriptor(t)
		pt := New(desc)
		assert.True(t, pt.Empty())

		leaf := makeLeaf(t, desc, Coord{X: 1}, 4)
		require.NoError(t, pt.AddLeaf(leaf))

		got, ok := pt.Leaf(Coord{X: 1})
		require.True(t, ok)
		assert.Same(t, leaf, got)

		_, ok = pt.Leaf(Coord{X: 2})
		assert.False(t, ok)
		assert.Equal(t, 1, pt.LeafCount())
		assert.Equal(t, 4, pt.PointCount())
	})

	t.Run("duplicate origin rejected", func(t *testing.T) {
		desc := testDescriptor(t)
		pt := New(desc)
		require.NoError(t, pt.AddLeaf(makeLeaf(t, desc, Coord{}, 1)))
		assert.ErrorIs(t, pt.AddLeaf(makeLeaf(t, desc, Coord{}, 1)), ErrDuplicateLeaf)
	})

	t.Run("descriptor mismatch rejected", func(t *testing.T) {
		pt := New(testDescriptor(t))
		other := testDescriptor(t)
		assert.ErrorIs(t, pt.AddLeaf(makeLeaf(t, other, Coord{}, 1)), ErrDescriptorMismatch)
	})

	t.Run("leaves sorted by origin", func(t *testing.T) {
		desc := testDescriptor(t)
		pt := New(desc)
		origins := []Coord{{X: 2}, {X: 1, Y: 5}, {X: 1, Y: 3}, {X: -4}}
		for _, o := range origins {
			require.NoError(t, pt.AddLeaf(makeLeaf(t, desc, o, 1)))
		}

		var got []Coord
		for _, l := range pt.Leaves() {
			got = append(got, l.Origin())
		}
		assert.Equal(t, []Coord{{X: -4}, {X: 1, Y: 3}, {X: 1, Y: 5}, {X: 2}}, got)
	})
}
