// Package index provides bitmap views of group membership across a tree.
//
// Point ordinals are tree-wide: leaves are visited in origin-sorted order and
// each leaf's points contribute their in-leaf indices after a running offset.
// Ordinals are only stable between mutations of the tree.
package index

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/pointgrid/tree"
)

// Membership returns a bitmap of the tree-wide ordinals of all points that
// are members of the named group.
func Membership(pt *tree.PointTree, group string) (*roaring.Bitmap, error) {
	rb := roaring.New()
	var base uint32
	for _, leaf := range pt.Leaves() {
		attrs := leaf.Attributes()
		h, err := attrs.GroupHandle(group)
		if err != nil {
			return nil, err
		}
		for i := 0; i < attrs.Len(); i++ {
			if h.Member(i) {
				rb.Add(base + uint32(i))
			}
		}
		base += uint32(attrs.Len())
	}
	return rb, nil
}

// Cardinality returns the number of points that are members of the named group.
func Cardinality(pt *tree.PointTree, group string) (uint64, error) {
	rb, err := Membership(pt, group)
	if err != nil {
		return 0, err
	}
	return rb.GetCardinality(), nil
}

// Union returns a bitmap of the tree-wide ordinals of all points that are
// members of at least one of the named groups.
func Union(pt *tree.PointTree, groups ...string) (*roaring.Bitmap, error) {
	out := roaring.New()
	for _, group := range groups {
		rb, err := Membership(pt, group)
		if err != nil {
			return nil, err
		}
		out.Or(rb)
	}
	return out, nil
}
