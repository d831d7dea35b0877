package world

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestDirectionReverse(t *testing.T) {
	tests := map[Direction]Direction{
		North:     South,
		South:     North,
		East:      West,
		West:      East,
		NorthEast: SouthWest,
		SouthEast: NorthWest,
		SouthWest: NorthEast,
		NorthWest: SouthEast,
		Up:        Down,
		Down:      Up,
	}

	for d, exp := range tests {
		t.Run(d.String(), func(t *testing.T) {
			testutil.AssertEqual(t, "reverse", d.Reverse(), exp)
			testutil.AssertEqual(t, "double reverse", d.Reverse().Reverse(), d)
		})
	}
}

func TestDirectionReverseBijection(t *testing.T) {
	seen := map[Direction]bool{}
	for _, d := range Directions {
		r := d.Reverse()
		if !r.Valid() {
			t.Errorf("reverse of %s is invalid: %b", d, r)
		}
		if seen[r] {
			t.Errorf("reverse of %s collides with an earlier direction", d)
		}
		seen[r] = true
	}
	testutil.AssertEqual(t, "distinct reverses", len(seen), len(Directions))
}

func TestDirectionText(t *testing.T) {
	for _, d := range Directions {
		t.Run(d.String(), func(t *testing.T) {
			full, ok := ParseDirection(d.String())
			if !ok {
				t.Fatalf("full name %q did not parse", d.String())
			}
			testutil.AssertEqual(t, "full round-trip", full, d)

			abbr, ok := ParseDirection(d.Abbrev())
			if !ok {
				t.Fatalf("abbreviation %q did not parse", d.Abbrev())
			}
			testutil.AssertEqual(t, "abbrev round-trip", abbr, d)
		})
	}
}

func TestParseDirectionRejects(t *testing.T) {
	for _, s := range []string{"", "norht", "northh", "nor", "north east", "NE "} {
		if _, ok := ParseDirection(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestParseDirectionCase(t *testing.T) {
	d, ok := ParseDirection("NorthWest")
	if !ok {
		t.Fatal("mixed case full name did not parse")
	}
	testutil.AssertEqual(t, "direction", d, NorthWest)
}

func TestDirectionComponents(t *testing.T) {
	tests := map[string]struct {
		d, c Direction
		exp  bool
	}{
		"northeast has north": {NorthEast, North, true},
		"northeast has east":  {NorthEast, East, true},
		"northeast not south": {NorthEast, South, false},
		"north has north":     {North, North, true},
		"north not east":      {North, East, false},
		"southwest has west":  {SouthWest, West, true},
		"up not down":         {Up, Down, false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "has", tt.d.Has(tt.c), tt.exp)
		})
	}
}

func TestCoordinateShift(t *testing.T) {
	origin := Coordinate{X: 5, Y: 5, Z: 5}
	tests := map[Direction]Coordinate{
		North:     {5, 4, 5},
		South:     {5, 6, 5},
		East:      {6, 5, 5},
		West:      {4, 5, 5},
		NorthEast: {6, 4, 5},
		SouthWest: {4, 6, 5},
		Up:        {5, 5, 6},
		Down:      {5, 5, 4},
	}

	for d, exp := range tests {
		t.Run(d.String(), func(t *testing.T) {
			testutil.AssertEqual(t, "shift", origin.Shift(d), exp)
		})
	}
}
