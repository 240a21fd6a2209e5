package points

import "github.com/hupe1980/pointgrid/attribute"

// MultiGroupFilter is an immutable include/exclude predicate over point
// groups. A point matches iff it belongs to at least one include group (an
// empty include set matches everything) and to none of the exclude groups.
//
// One filter instance is constructed per top-level call and shared read-only
// across all parallel leaf tasks; Bind resolves it against a single leaf's
// attribute set.
type MultiGroupFilter struct {
	include []string
	exclude []string
}

// NewMultiGroupFilter creates a filter from include and exclude group names.
func NewMultiGroupFilter(include, exclude []string) *MultiGroupFilter {
	return &MultiGroupFilter{
		include: append([]string(nil), include...),
		exclude: append([]string(nil), exclude...),
	}
}

// Bind resolves the filter's group names against one leaf's attribute set.
// Every name must exist in the set's descriptor.
func (f *MultiGroupFilter) Bind(set *attribute.Set) (*BoundGroupFilter, error) {
	bound := &BoundGroupFilter{
		include: make([]attribute.GroupHandle, 0, len(f.include)),
		exclude: make([]attribute.GroupHandle, 0, len(f.exclude)),
	}
	for _, name := range f.include {
		h, err := set.GroupHandle(name)
		if err != nil {
			return nil, err
		}
		bound.include = append(bound.include, h)
	}
	for _, name := range f.exclude {
		h, err := set.GroupHandle(name)
		if err != nil {
			return nil, err
		}
		bound.exclude = append(bound.exclude, h)
	}
	return bound, nil
}

// BoundGroupFilter is a MultiGroupFilter resolved against one leaf's group
// arrays. It is valid only for the attribute set it was bound to and only
// within the task that bound it.
type BoundGroupFilter struct {
	include []attribute.GroupHandle
	exclude []attribute.GroupHandle
}

// Matches evaluates the predicate for the point at index i.
func (f *BoundGroupFilter) Matches(i int) bool {
	for _, h := range f.exclude {
		if h.Member(i) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, h := range f.include {
		if h.Member(i) {
			return true
		}
	}
	return false
}
