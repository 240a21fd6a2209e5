package points

import "github.com/hupe1980/pointgrid/tree"

// CountInGroup returns the number of points across the tree that are members
// of the named group.
func CountInGroup(pt *tree.PointTree, group string) (int, error) {
	var total int
	for _, leaf := range pt.Leaves() {
		attrs := leaf.Attributes()
		h, err := attrs.GroupHandle(group)
		if err != nil {
			return 0, err
		}
		for i := 0; i < attrs.Len(); i++ {
			if h.Member(i) {
				total++
			}
		}
	}
	return total, nil
}

// CountMatching returns the number of points across the tree that pass the
// given filter.
func CountMatching(pt *tree.PointTree, filter *MultiGroupFilter) (int, error) {
	var total int
	for _, leaf := range pt.Leaves() {
		attrs := leaf.Attributes()
		bound, err := filter.Bind(attrs)
		if err != nil {
			return 0, err
		}
		for i := 0; i < attrs.Len(); i++ {
			if bound.Matches(i) {
				total++
			}
		}
	}
	return total, nil
}
