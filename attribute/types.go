package attribute

// Type identifies the element type of an attribute array.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeFloat32
	TypeInt32
	TypeInt64
	TypeGroup
)

// String returns the string representation of the Type.
func (t Type) String() string {
	switch t {
	case TypeFloat32:
		return "Float32"
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeGroup:
		return "Group"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is a known array type.
func (t Type) Valid() bool {
	switch t {
	case TypeFloat32, TypeInt32, TypeInt64, TypeGroup:
		return true
	default:
		return false
	}
}
