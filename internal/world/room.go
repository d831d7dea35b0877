package world

import "fmt"

// DefaultExits is the exit permission a new room starts with: the four
// cardinal directions.
const DefaultExits = North | East | South | West

// Room is a fixed slot in a World's grid. Exit permissions are a
// direction bitmask consulted after portal overrides; a dense room is
// impassable and treated as absent by grid navigation.
type Room struct {
	Object

	coord   Coordinate
	exits   Direction
	dense   bool
	portals []*Portal

	// EnterGuard, when set, replaces the default always-allow entry
	// check. Dense rooms refuse entry regardless.
	EnterGuard func(mover Entity, from Direction) bool

	// OnExit and OnEnter are fired by Movable.Step around a relocation.
	// They exist for the aggression/trap layer built on top of this core.
	OnExit  func(mover Entity, to *Room, d Direction)
	OnEnter func(mover Entity, from *Room, d Direction)
}

// NewRoom creates an unregistered room at the given coordinate.
func NewRoom(c Coordinate) *Room {
	r := &Room{
		coord: c,
		exits: DefaultExits,
	}
	r.init(r)
	return r
}

func (r *Room) TypeTag() string { return "room" }

func (r *Room) Coord() Coordinate { return r.coord }

func (r *Room) Exits() Direction     { return r.exits }
func (r *Room) SetExits(d Direction) { r.exits = d }

// AllowExit adds the direction's bits to the exit mask.
func (r *Room) AllowExit(d Direction) { r.exits |= d }

// BlockExit removes the direction's bits from the exit mask.
func (r *Room) BlockExit(d Direction) { r.exits &^= d }

func (r *Room) Dense() bool     { return r.dense }
func (r *Room) SetDense(b bool) { r.dense = b }

// Portals returns the portals registered on this room. One-way portals
// appear only on their origin room.
func (r *Room) Portals() []*Portal { return r.portals }

func (r *Room) attachPortal(p *Portal) {
	for _, q := range r.portals {
		if q == p {
			return
		}
	}
	r.portals = append(r.portals, p)
}

func (r *Room) detachPortal(p *Portal) {
	for i, q := range r.portals {
		if q == p {
			r.portals = append(r.portals[:i], r.portals[i+1:]...)
			return
		}
	}
}

// Step resolves the room one move away in the given direction. Portals
// are checked first and fully override grid adjacency; with no portal the
// exit mask must include the direction before the grid is consulted. A
// dense destination is treated as absent either way.
func (r *Room) Step(d Direction) *Room {
	for _, p := range r.portals {
		if dst := p.Destination(r, d); dst != nil {
			if dst.dense {
				return nil
			}
			return dst
		}
	}

	if !r.exits.Has(d) {
		return nil
	}
	if r.world == nil {
		return nil
	}
	return r.world.Step(r.coord, d)
}

// CanExit is the permission-only half of movement: true for the
// undirected zero value, true when a portal handles the exact (room,
// direction) pair, otherwise true iff the exit mask allows it. It does
// not care whether a destination actually exists.
func (r *Room) CanExit(d Direction) bool {
	if d == 0 {
		return true
	}
	for _, p := range r.portals {
		if p.Destination(r, d) != nil {
			return true
		}
	}
	return r.exits.Has(d)
}

// CanEnter reports whether a mover arriving from the given direction may
// enter. Dense rooms never allow entry; otherwise the optional guard
// decides.
func (r *Room) CanEnter(mover Entity, from Direction) bool {
	if r.dense {
		return false
	}
	if r.EnterGuard != nil {
		return r.EnterGuard(mover, from)
	}
	return true
}

// Ref returns the portable reference string @<world-id>{x,y,z}, or ""
// when the room is not registered in a World with an id.
func (r *Room) Ref() string {
	if r.world == nil || r.world.ID() == "" {
		return ""
	}
	return fmt.Sprintf("@%s{%d,%d,%d}", r.world.ID(), r.coord.X, r.coord.Y, r.coord.Z)
}

// Destroy removes every portal referencing this room (including one-way
// portals pointing at it, which are not on its own list), frees its grid
// slot, then tears down the base object.
func (r *Room) Destroy(recursive bool) {
	DefaultPortals.RemoveTouching(r)
	if r.world != nil {
		r.world.clearSlot(r)
	}
	r.Object.Destroy(recursive)
}
