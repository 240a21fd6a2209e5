package attribute

import "errors"

var (
	// ErrTypeMismatch is returned when copying between arrays of different types.
	ErrTypeMismatch = errors.New("attribute: array type mismatch")
	// ErrWidthMismatch is returned when copying between arrays of different widths.
	ErrWidthMismatch = errors.New("attribute: array width mismatch")
	// ErrOutOfBounds is returned when an element index is outside the array.
	ErrOutOfBounds = errors.New("attribute: index out of bounds")
)

// Array is one typed column of per-point data.
//
// All arrays within a Set share a common length equal to the point count of
// the owning leaf. Elements may be multi-component (Width > 1), e.g. a
// width-3 float32 array holding positions.
type Array interface {
	// Type returns the element type of the array.
	Type() Type

	// Width returns the number of components per element.
	Width() int

	// Len returns the number of elements.
	Len() int

	// Set copies the element at srcIndex in src into dstIndex.
	// src must have the same type and width as the receiver.
	Set(dstIndex int, src Array, srcIndex int) error

	// Clear truncates the array to zero length.
	Clear()
}

// Float32Array is a float32 column with a fixed component width.
type Float32Array struct {
	data  []float32
	width int
}

// NewFloat32Array creates a float32 array with n elements of the given width.
func NewFloat32Array(n, width int) *Float32Array {
	if width < 1 {
		width = 1
	}
	return &Float32Array{
		data:  make([]float32, n*width),
		width: width,
	}
}

// Type returns TypeFloat32.
func (a *Float32Array) Type() Type { return TypeFloat32 }

// Width returns the number of float32 components per element.
func (a *Float32Array) Width() int { return a.width }

// Len returns the number of elements.
func (a *Float32Array) Len() int { return len(a.data) / a.width }

// Get returns the components of element i.
// The returned slice aliases internal memory; do not modify.
func (a *Float32Array) Get(i int) []float32 {
	start := i * a.width
	return a.data[start : start+a.width : start+a.width]
}

// SetValue stores v as the components of element i.
func (a *Float32Array) SetValue(i int, v []float32) error {
	if len(v) != a.width {
		return ErrWidthMismatch
	}
	if i < 0 || i >= a.Len() {
		return ErrOutOfBounds
	}
	copy(a.data[i*a.width:], v)
	return nil
}

// Set copies the element at srcIndex in src into dstIndex.
func (a *Float32Array) Set(dstIndex int, src Array, srcIndex int) error {
	sa, ok := src.(*Float32Array)
	if !ok {
		return ErrTypeMismatch
	}
	if sa.width != a.width {
		return ErrWidthMismatch
	}
	if dstIndex < 0 || dstIndex >= a.Len() || srcIndex < 0 || srcIndex >= sa.Len() {
		return ErrOutOfBounds
	}
	copy(a.data[dstIndex*a.width:(dstIndex+1)*a.width], sa.data[srcIndex*sa.width:])
	return nil
}

// Clear truncates the array to zero length.
func (a *Float32Array) Clear() { a.data = a.data[:0] }

// Raw returns the backing component slice in element order.
// The returned slice aliases internal memory; used for serialization.
func (a *Float32Array) Raw() []float32 { return a.data }

// Int32Array is a single-component int32 column.
type Int32Array struct {
	data []int32
}

// NewInt32Array creates an int32 array with n elements.
func NewInt32Array(n int) *Int32Array {
	return &Int32Array{data: make([]int32, n)}
}

// Type returns TypeInt32.
func (a *Int32Array) Type() Type { return TypeInt32 }

// Width returns 1.
func (a *Int32Array) Width() int { return 1 }

// Len returns the number of elements.
func (a *Int32Array) Len() int { return len(a.data) }

// Get returns element i.
func (a *Int32Array) Get(i int) int32 { return a.data[i] }

// SetValue stores v at element i.
func (a *Int32Array) SetValue(i int, v int32) error {
	if i < 0 || i >= len(a.data) {
		return ErrOutOfBounds
	}
	a.data[i] = v
	return nil
}

// Set copies the element at srcIndex in src into dstIndex.
func (a *Int32Array) Set(dstIndex int, src Array, srcIndex int) error {
	sa, ok := src.(*Int32Array)
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
func (a *Int32Array) Clear() { a.data = a.data[:0] }

// Raw returns the backing slice.
// The returned slice aliases internal memory; used for serialization.
func (a *Int32Array) Raw() []int32 { return a.data }

// Int64Array is a single-component int64 column.
type Int64Array struct {
	data []int64
}

// NewInt64Array creates an int64 array with n elements.
func NewInt64Array(n int) *Int64Array {
	return &Int64Array{data: make([]int64, n)}
}

// Type returns TypeInt64.
func (a *Int64Array) Type() Type { return TypeInt64 }

// Width returns 1.
func (a *Int64Array) Width() int { return 1 }

// Len returns the number of elements.
func (a *Int64Array) Len() int { return len(a.data) }

// Get returns element i.
func (a *Int64Array) Get(i int) int64 { return a.data[i] }

// SetValue stores v at element i.
func (a *Int64Array) SetValue(i int, v int64) error {
	if i < 0 || i >= len(a.data) {
		return ErrOutOfBounds
	}
	a.data[i] = v
	return nil
}

// Set copies the element at srcIndex in src into dstIndex.
func (a *Int64Array) Set(dstIndex int, src Array, srcIndex int) error {
	sa, ok := src.(*Int64Array)
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
func (a *Int64Array) Clear() { a.data = a.data[:0] }

// Raw returns the backing slice.
// The returned slice aliases internal memory; used for serialization.
func (a *Int64Array) Raw() []int64 { return a.data }

var (
	_ Array = (*Float32Array)(nil)
	_ Array = (*Int32Array)(nil)
	_ Array = (*Int64Array)(nil)
)
