package tree

import "fmt"

// Coord is the spatial origin of a leaf.
type Coord struct {
	X, Y, Z int32
}

// Less orders coordinates lexicographically by X, Y, Z.
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

// String returns the coordinate as "(x, y, z)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}
