package world

import "errors"

// Movement failure reasons. These are outcomes, not faults: callers turn
// them into user-facing messages.
var (
	// ErrNotInRoom means the mover is not directly inside a Room.
	ErrNotInRoom = errors.New("not in a room")
	// ErrNoExit means no destination resolves in that direction.
	ErrNoExit = errors.New("no exit that way")
	// ErrBlocked means a destination exists but a permission check failed.
	ErrBlocked = errors.New("movement blocked")
)

// Movable is an entity that can walk the grid. It mirrors the coordinate
// of the Room containing it; the mirror is cleared whenever it is not
// directly inside a Room.
type Movable struct {
	Object

	at     Coordinate
	inRoom bool
}

// NewMovable creates a movable entity outside any room.
func NewMovable() *Movable {
	m := &Movable{}
	m.init(m)
	return m
}

func (m *Movable) TypeTag() string { return "movable" }

// Room returns the Room directly containing the movable, or nil.
func (m *Movable) Room() *Room {
	r, _ := m.location.(*Room)
	return r
}

// Coord returns the cached room coordinate. ok is false when the movable
// is not inside a room.
func (m *Movable) Coord() (Coordinate, bool) {
	return m.at, m.inRoom
}

func (m *Movable) relocated() {
	if r, ok := m.location.(*Room); ok {
		m.at = r.Coord()
		m.inRoom = true
		return
	}
	m.at = Coordinate{}
	m.inRoom = false
}

// Step moves one room in the given direction. Both permission checks
// must pass: the source room's CanExit for d AND the destination's
// CanEnter for the reversed direction. On success the source exit hook
// fires, the mover relocates, then the destination enter hook fires.
func (m *Movable) Step(d Direction) error {
	from := m.Room()
	if from == nil {
		return ErrNotInRoom
	}

	to := from.Step(d)
	if to == nil {
		return ErrNoExit
	}

	if !from.CanExit(d) || !to.CanEnter(m.self, d.Reverse()) {
		return ErrBlocked
	}

	if from.OnExit != nil {
		from.OnExit(m.self, to, d)
	}
	to.Add(m.self)
	if to.OnEnter != nil {
		to.OnEnter(m.self, from, d)
	}
	return nil
}
