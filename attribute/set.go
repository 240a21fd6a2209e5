package attribute

import "fmt"

// Set is an ordered collection of typed attribute arrays sharing a common
// length, plus the shared Descriptor describing them.
type Set struct {
	desc   *Descriptor
	arrays []Array
	size   int
}

// NewSet allocates a set of the given size with one array per descriptor field.
func NewSet(desc *Descriptor, size int) *Set {
	fields := desc.Fields()
	arrays := make([]Array, len(fields))
	for i, f := range fields {
		arrays[i] = newArray(f, size)
	}
	return &Set{desc: desc, arrays: arrays, size: size}
}

// NewSetFromExisting allocates a set with the same schema (same descriptor,
// same ordered array list) as src but the given size. This is the allocator
// used by compaction: the new set is populated index by index and then swapped
// in wholesale.
func NewSetFromExisting(src *Set, size int) *Set {
	return NewSet(src.desc, size)
}

func newArray(f Field, size int) Array {
	switch f.Type {
	case TypeFloat32:
		return NewFloat32Array(size, f.Width)
	case TypeInt32:
		return NewInt32Array(size)
	case TypeInt64:
		return NewInt64Array(size)
	case TypeGroup:
		return NewGroupArray(size)
	default:
		// Descriptor construction rejects unknown types.
		panic(fmt.Sprintf("attribute: unknown field type %d", f.Type))
	}
}

// Descriptor returns the shared schema descriptor.
func (s *Set) Descriptor() *Descriptor { return s.desc }

// Len returns the common array length (the point count).
func (s *Set) Len() int { return s.size }

// ArrayCount returns the number of arrays in the set.
func (s *Set) ArrayCount() int { return len(s.arrays) }

// Array returns the array at position i in descriptor field order.
func (s *Set) Array(i int) Array { return s.arrays[i] }

// ArrayByName returns the array backing the named field.
func (s *Set) ArrayByName(name string) (Array, bool) {
	i, ok := s.desc.FieldIndex(name)
	if !ok {
		return nil, false
	}
	return s.arrays[i], true
}

// Clear truncates every array to zero length.
func (s *Set) Clear() {
	for _, a := range s.arrays {
		a.Clear()
	}
	s.size = 0
}

// GroupHandle resolves the named group to its backing array and bitmask
// within this set.
func (s *Set) GroupHandle(name string) (GroupHandle, error) {
	fieldIndex, mask, err := s.desc.GroupLocation(name)
	if err != nil {
		return GroupHandle{}, err
	}
	ga, ok := s.arrays[fieldIndex].(*GroupArray)
	if !ok {
		return GroupHandle{}, fmt.Errorf("attribute: group %q backed by non-group array", name)
	}
	return GroupHandle{arr: ga, mask: mask}, nil
}
