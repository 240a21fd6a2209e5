package tree

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/pointgrid/attribute"
)

var (
	// ErrOffsetMismatch is returned when an offset table's length does not
	// match the leaf's voxel count.
	ErrOffsetMismatch = errors.New("tree: offset table length does not match voxel count")
	// ErrOffsetOrder is returned when an offset table is not non-decreasing.
	ErrOffsetOrder = errors.New("tree: offset table is not non-decreasing")
	// ErrLengthMismatch is returned when an attribute set's length does not
	// match the offset table's final entry.
	ErrLengthMismatch = errors.New("tree: attribute length does not match offset table")
)

// leafState is the atomically swappable payload of a leaf: the cumulative
// per-voxel offset table and the attribute set it delimits.
type leafState struct {
	offsets []uint32
	attrs   *attribute.Set
}

// Leaf is a fixed-capacity spatial bucket holding an ordered run of points.
//
// Points are partitioned into voxels by a cumulative offset table: voxel v
// owns attribute indices [offsets[v-1], offsets[v]). State replacement is a
// single atomic swap; the prior state stays valid until the replacement is
// fully built.
//
// Concurrent reads are safe. Mutations of the same leaf require external
// synchronization; the parallel compaction phase touches disjoint leaves.
type Leaf struct {
	origin Coord
	voxels int
	state  atomic.Pointer[leafState]
}

func validateState(voxels int, offsets []uint32, attrs *attribute.Set) error {
	if len(offsets) != voxels {
		return fmt.Errorf("%w: got %d entries for %d voxels", ErrOffsetMismatch, len(offsets), voxels)
	}
	var prev uint32
	for _, off := range offsets {
		if off < prev {
			return ErrOffsetOrder
		}
		prev = off
	}
	total := 0
	if voxels > 0 {
		total = int(offsets[voxels-1])
	}
	if attrs.Len() != total {
		return fmt.Errorf("%w: %d attribute elements, offset table ends at %d", ErrLengthMismatch, attrs.Len(), total)
	}
	return nil
}

// NewLeaf creates a leaf at the given origin with voxelCount voxels, the
// cumulative offset table, and the attribute set the offsets delimit.
func NewLeaf(origin Coord, voxelCount int, offsets []uint32, attrs *attribute.Set) (*Leaf, error) {
	if voxelCount < 1 {
		return nil, errors.New("tree: leaf needs at least one voxel")
	}
	if err := validateState(voxelCount, offsets, attrs); err != nil {
		return nil, err
	}
	l := &Leaf{origin: origin, voxels: voxelCount}
	l.state.Store(&leafState{
		offsets: append([]uint32(nil), offsets...),
		attrs:   attrs,
	})
	return l, nil
}

// Origin returns the leaf's spatial origin.
func (l *Leaf) Origin() Coord { return l.origin }

// VoxelCount returns the fixed number of voxels in the leaf.
func (l *Leaf) VoxelCount() int { return l.voxels }

// PointCount returns the number of points currently held by the leaf.
func (l *Leaf) PointCount() int {
	return l.state.Load().attrs.Len()
}

// Attributes returns the leaf's current attribute set.
func (l *Leaf) Attributes() *attribute.Set {
	return l.state.Load().attrs
}

// Offsets returns a copy of the leaf's cumulative offset table.
func (l *Leaf) Offsets() []uint32 {
	st := l.state.Load()
	return append([]uint32(nil), st.offsets...)
}

// VoxelRange returns the half-open attribute index range [start, end) owned
// by voxel v.
func (l *Leaf) VoxelRange(v int) (start, end int) {
	st := l.state.Load()
	if v > 0 {
		start = int(st.offsets[v-1])
	}
	return start, int(st.offsets[v])
}

// ReplaceAttributes validates and atomically installs a new attribute set and
// offset table. On error the leaf is left untouched.
func (l *Leaf) ReplaceAttributes(attrs *attribute.Set, offsets []uint32) error {
	if err := validateState(l.voxels, offsets, attrs); err != nil {
		return err
	}
	l.state.Store(&leafState{
		offsets: append([]uint32(nil), offsets...),
		attrs:   attrs,
	})
	return nil
}

// ClearAttributes empties the leaf: a zero-length attribute set with the same
// schema and an all-zero offset table. The leaf node itself is retained.
func (l *Leaf) ClearAttributes() {
	st := l.state.Load()
	l.state.Store(&leafState{
		offsets: make([]uint32, l.voxels),
		attrs:   attribute.NewSetFromExisting(st.attrs, 0),
	})
}
