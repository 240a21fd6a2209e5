package attribute

// GroupsPerArray is the number of group bits packed into each group array element.
const GroupsPerArray = 8

// GroupArray is a packed bitmask column. Each element holds the membership
// bits of up to GroupsPerArray named groups for one point.
type GroupArray struct {
	data []uint8
}

// NewGroupArray creates a group bitmask array with n elements.
func NewGroupArray(n int) *GroupArray {
	return &GroupArray{data: make([]uint8, n)}
}

// Type returns TypeGroup.
func (a *GroupArray) Type() Type { return TypeGroup }

// Width returns 1.
func (a *GroupArray) Width() int { return 1 }

// Len returns the number of elements.
func (a *GroupArray) Len() int { return len(a.data) }

// Member reports whether the bits selected by mask are set for point i.
func (a *GroupArray) Member(i int, mask uint8) bool {
	return a.data[i]&mask != 0
}

// SetMember sets or clears the bits selected by mask for point i.
func (a *GroupArray) SetMember(i int, mask uint8, on bool) {
	if on {
		a.data[i] |= mask
	} else {
		a.data[i] &^= mask
	}
}

// Set copies the element at srcIndex in src into dstIndex.
// The whole bitmask byte is copied, carrying every group bit at once.
func (a *GroupArray) Set(dstIndex int, src Array, srcIndex int) error {
	sa, ok := src.(*GroupArray)
	if !ok {
		return ErrTypeMismatch
	}
	if dstIndex < 0 || dstIndex >= len(a.data) || srcIndex < 0 || srcIndex >= len(sa.data) {
		return ErrOutOfBounds
	}
	a.data[dstIndex] = sa.data[srcIndex]
	return nil
}

// Clear truncates the array to zero length.
func (a *GroupArray) Clear() { a.data = a.data[:0] }

// Raw returns the backing bitmask slice.
// The returned slice aliases internal memory; used for serialization.
func (a *GroupArray) Raw() []uint8 { return a.data }

var _ Array = (*GroupArray)(nil)

// GroupHandle is a resolved reference to one group's bit within a leaf's
// group arrays. Handles are cheap to copy and valid only for the Set they
// were resolved from.
type GroupHandle struct {
	arr  *GroupArray
	mask uint8
}

// Member reports whether point i belongs to the group.
func (h GroupHandle) Member(i int) bool {
	return h.arr.Member(i, h.mask)
}

// SetMember adds or removes point i from the group.
func (h GroupHandle) SetMember(i int, on bool) {
	h.arr.SetMember(i, h.mask, on)
}
