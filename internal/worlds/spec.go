package worlds

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"

	"github.com/lattice-mud/lattice/internal/storage"
	"github.com/lattice-mud/lattice/internal/world"
)

var roomRefPattern = regexp.MustCompile(`^@[a-zA-Z0-9-]+\{\d+,\d+,\d+\}$`)

// TemplateSpec is the stored form of an object template: the concrete
// kind it stamps out and the field values layered over that kind's
// defaults.
type TemplateSpec struct {
	Tag    string         `json:"tag"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (s *TemplateSpec) Validate() error {
	el := errors.NewErrorList()

	switch s.Tag {
	case "object", "item", "movable", "creature", "room":
	case "":
		el.Add(fmt.Errorf("tag is required"))
	default:
		el.Add(fmt.Errorf("unrecognized tag %q", s.Tag))
	}

	for _, k := range []string{"id", "type", "children", "location"} {
		if _, ok := s.Fields[k]; ok {
			el.Add(fmt.Errorf("field %q is not templatable", k))
		}
	}

	return el.Err()
}

// Position is a grid coordinate inside a blueprint.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (p Position) coordinate() world.Coordinate {
	return world.Coordinate{X: p.X, Y: p.Y, Z: p.Z}
}

// RoomSpec describes one room of a world blueprint. A nil exit list
// means the default cardinal exits; an explicitly empty list seals the
// room.
type RoomSpec struct {
	Position
	Keyword     string   `json:"keyword,omitempty"`
	Display     string   `json:"display,omitempty"`
	Description string   `json:"description,omitempty"`
	Exits       []string `json:"exits,omitempty"`
	Dense       bool     `json:"dense,omitempty"`
}

func (s *RoomSpec) validate() error {
	el := errors.NewErrorList()

	for _, name := range s.Exits {
		if _, ok := world.ParseDirection(name); !ok {
			el.Add(fmt.Errorf("unrecognized exit direction %q", name))
		}
	}

	return el.Err()
}

// PortalSpec joins a room of this world to any room anywhere, named by
// portable reference so the far side may live in another blueprint.
type PortalSpec struct {
	From      Position `json:"from"`
	Direction string   `json:"direction"`
	To        string   `json:"to"`
	OneWay    bool     `json:"one_way,omitempty"`
}

func (s *PortalSpec) validate() error {
	el := errors.NewErrorList()

	if d, ok := world.ParseDirection(s.Direction); !ok || !d.Valid() {
		el.Add(fmt.Errorf("unrecognized portal direction %q", s.Direction))
	}
	if !roomRefPattern.MatchString(s.To) {
		el.Add(fmt.Errorf("malformed room reference %q", s.To))
	}

	return el.Err()
}

// ResetSpec is a stored population rule: keep between min and max
// instances of a template in a room of this world, optionally outfitting
// spawned creatures.
type ResetSpec struct {
	Template  storage.Ref[*TemplateSpec]   `json:"template"`
	Room      Position                     `json:"room"`
	Min       int                          `json:"min"`
	Max       int                          `json:"max"`
	Equipment []storage.Ref[*TemplateSpec] `json:"equipment,omitempty"`
	Inventory []storage.Ref[*TemplateSpec] `json:"inventory,omitempty"`
}

func (s *ResetSpec) validate() error {
	el := errors.NewErrorList()

	el.Add(s.Template.Validate())
	if s.Min < 0 {
		el.Add(fmt.Errorf("min must not be negative"))
	}
	if s.Max < 1 {
		el.Add(fmt.Errorf("max must be at least 1"))
	}
	if s.Min > s.Max {
		el.Add(fmt.Errorf("min %d exceeds max %d", s.Min, s.Max))
	}

	return el.Err()
}

// WorldSpec is a full world blueprint: grid dimensions, rooms, portals,
// resets, and the ids of the templates loaded into its dictionary.
type WorldSpec struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`

	Templates []storage.Ref[*TemplateSpec] `json:"templates,omitempty"`
	Rooms     []RoomSpec                   `json:"rooms"`
	Portals   []PortalSpec                 `json:"portals,omitempty"`
	Resets    []ResetSpec                  `json:"resets,omitempty"`
}

// Validate satisfies storage.ValidatingSpec. Cross-world references
// (portal targets) can only be checked once every blueprint is built,
// so they are validated structurally here and resolved by the manager.
func (s *WorldSpec) Validate() error {
	el := errors.NewErrorList()

	if s.Width < 1 || s.Height < 1 || s.Depth < 1 {
		el.Add(fmt.Errorf("dimensions must be at least 1x1x1"))
	}

	seen := map[Position]bool{}
	for i, r := range s.Rooms {
		if r.X < 0 || r.X >= s.Width || r.Y < 0 || r.Y >= s.Height || r.Z < 0 || r.Z >= s.Depth {
			el.Add(fmt.Errorf("room %d: position %d,%d,%d out of bounds", i, r.X, r.Y, r.Z))
		}
		if seen[r.Position] {
			el.Add(fmt.Errorf("room %d: position %d,%d,%d already occupied", i, r.X, r.Y, r.Z))
		}
		seen[r.Position] = true

		if err := r.validate(); err != nil {
			el.Add(fmt.Errorf("room %d: %w", i, err))
		}
	}

	for i, p := range s.Portals {
		if !seen[p.From] {
			el.Add(fmt.Errorf("portal %d: no room at %d,%d,%d", i, p.From.X, p.From.Y, p.From.Z))
		}
		if err := p.validate(); err != nil {
			el.Add(fmt.Errorf("portal %d: %w", i, err))
		}
	}

	for i, r := range s.Resets {
		if !seen[r.Room] {
			el.Add(fmt.Errorf("reset %d: no room at %d,%d,%d", i, r.Room.X, r.Room.Y, r.Room.Z))
		}
		if err := r.validate(); err != nil {
			el.Add(fmt.Errorf("reset %d: %w", i, err))
		}
	}

	return el.Err()
}
