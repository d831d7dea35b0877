package world

import "strings"

// Direction is a bitmask over the six primitive movement directions.
// Diagonals are unions of two cardinals, so component tests are plain
// bitwise checks (NorthEast.Has(North) == true).
type Direction uint8

const (
	North Direction = 1 << iota
	East
	South
	West
	Up
	Down

	NorthEast = North | East
	SouthEast = South | East
	SouthWest = South | West
	NorthWest = North | West
)

// Directions lists every valid direction, cardinals and verticals first.
var Directions = []Direction{
	North, East, South, West,
	NorthEast, SouthEast, SouthWest, NorthWest,
	Up, Down,
}

// Has reports whether d includes the component c.
func (d Direction) Has(c Direction) bool {
	return d&c == c
}

// Cardinal reports whether d is a single horizontal cardinal.
func (d Direction) Cardinal() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

// Valid reports whether d is one of the ten recognized directions.
func (d Direction) Valid() bool {
	for _, v := range Directions {
		if d == v {
			return true
		}
	}
	return false
}

// Reverse returns the opposite direction. It is a total bijection over
// the ten directions: each primitive bit maps to its opposite and
// diagonal unions reverse component-wise.
func (d Direction) Reverse() Direction {
	var r Direction
	if d.Has(North) {
		r |= South
	}
	if d.Has(South) {
		r |= North
	}
	if d.Has(East) {
		r |= West
	}
	if d.Has(West) {
		r |= East
	}
	if d.Has(Up) {
		r |= Down
	}
	if d.Has(Down) {
		r |= Up
	}
	return r
}

var directionNames = map[Direction]string{
	North:     "north",
	East:      "east",
	South:     "south",
	West:      "west",
	NorthEast: "northeast",
	SouthEast: "southeast",
	SouthWest: "southwest",
	NorthWest: "northwest",
	Up:        "up",
	Down:      "down",
}

var directionAbbrevs = map[Direction]string{
	North:     "n",
	East:      "e",
	South:     "s",
	West:      "w",
	NorthEast: "ne",
	SouthEast: "se",
	SouthWest: "sw",
	NorthWest: "nw",
	Up:        "u",
	Down:      "d",
}

// String returns the full lowercase name, or "" for an invalid direction.
func (d Direction) String() string {
	return directionNames[d]
}

// Abbrev returns the abbreviated name, or "" for an invalid direction.
func (d Direction) Abbrev() string {
	return directionAbbrevs[d]
}

// ParseDirection converts a full or abbreviated direction name back to a
// Direction. Matching is exact apart from case; no fuzzy prefixes.
// Returns 0, false for anything unrecognized.
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(s)
	for d, name := range directionNames {
		if s == name || s == directionAbbrevs[d] {
			return d, true
		}
	}
	return 0, false
}
