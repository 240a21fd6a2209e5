package tree

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/pointgrid/attribute"
)

var (
	// ErrDuplicateLeaf is returned when adding a leaf at an occupied origin.
	ErrDuplicateLeaf = errors.New("tree: leaf origin already occupied")
	// ErrDescriptorMismatch is returned when a leaf's attribute set does not
	// share the tree's descriptor.
	ErrDescriptorMismatch = errors.New("tree: leaf descriptor does not match tree")
)

// PointTree is a sparse collection of leaves keyed by origin, all sharing one
// attribute descriptor.
type PointTree struct {
	desc *attribute.Descriptor

	mu     sync.RWMutex
	leaves map[Coord]*Leaf
}

// New creates an empty tree with the given shared descriptor.
func New(desc *attribute.Descriptor) *PointTree {
	return &PointTree{
		desc:   desc,
		leaves: make(map[Coord]*Leaf),
	}
}

// Descriptor returns the tree's shared attribute descriptor.
func (t *PointTree) Descriptor() *attribute.Descriptor { return t.desc }

// AddLeaf inserts a leaf. The leaf's attribute set must share the tree's
// descriptor and its origin must be unoccupied.
func (t *PointTree) AddLeaf(l *Leaf) error {
	if l.Attributes().Descriptor() != t.desc {
		return ErrDescriptorMismatch
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.leaves[l.origin]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLeaf, l.origin)
	}
	t.leaves[l.origin] = l
	return nil
}

// Leaf returns the leaf at the given origin.
func (t *PointTree) Leaf(origin Coord) (*Leaf, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	l, ok := t.leaves[origin]
	return l, ok
}

// LeafCount returns the number of leaves.
func (t *PointTree) LeafCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.leaves)
}

// Empty reports whether the tree has no leaves.
func (t *PointTree) Empty() bool {
	return t.LeafCount() == 0
}

// Leaves returns a snapshot of all leaves in origin-sorted order.
func (t *PointTree) Leaves() []*Leaf {
	t.mu.RLock()
	leaves := make([]*Leaf, 0, len(t.leaves))
	for _, l := range t.leaves {
		leaves = append(leaves, l)
	}
	t.mu.RUnlock()

	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].origin.Less(leaves[j].origin)
	})
	return leaves
}

// PointCount returns the total number of points across all leaves.
func (t *PointTree) PointCount() int {
	var total int
	for _, l := range t.Leaves() {
		total += l.PointCount()
	}
	return total
}
