package world

import "fmt"

// Coordinate addresses a grid slot: x grows east, y grows south, z grows up.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Shift returns the coordinate one step away in the given direction.
// Diagonals adjust two axes in a single call.
func (c Coordinate) Shift(d Direction) Coordinate {
	if d.Has(North) {
		c.Y--
	}
	if d.Has(South) {
		c.Y++
	}
	if d.Has(East) {
		c.X++
	}
	if d.Has(West) {
		c.X--
	}
	if d.Has(Up) {
		c.Z++
	}
	if d.Has(Down) {
		c.Z--
	}
	return c
}

func (c Coordinate) String() string {
	return fmt.Sprintf("{%d,%d,%d}", c.X, c.Y, c.Z)
}
