package world

import "fmt"

// World is a top-level spatial and ownership scope: a fixed-size 3D grid
// of optional rooms, the flat membership of everything reachable inside
// it, its population resets, and a template dictionary.
//
// The whole core is single-writer by contract; no operation here
// suspends, so a reader always observes the last completed mutation.
type World struct {
	id string

	width  int // x extent, east
	height int // y extent, south
	depth  int // z extent, up

	grid      []*Room
	members   []Entity
	resets    []*Reset
	templates map[string]*Template
}

// NewWorld allocates an empty world with immutable dimensions. Each
// dimension is clamped to at least 1.
func NewWorld(width, height, depth int) *World {
	width = max(width, 1)
	height = max(height, 1)
	depth = max(depth, 1)
	return &World{
		width:     width,
		height:    height,
		depth:     depth,
		grid:      make([]*Room, width*height*depth),
		templates: map[string]*Template{},
	}
}

func (w *World) ID() string { return w.id }

func (w *World) Width() int  { return w.width }
func (w *World) Height() int { return w.height }
func (w *World) Depth() int  { return w.depth }

// SetID assigns a globally unique id, registering the world in the
// process-wide directory. Assigning an id already held by another world
// is a caller bug and fails loud. Assigning "" unregisters.
func (w *World) SetID(id string) error {
	if id == w.id {
		return nil
	}
	if id != "" {
		if other := DefaultWorlds.Lookup(id); other != nil {
			return fmt.Errorf("world id %q already registered", id)
		}
	}
	if w.id != "" {
		DefaultWorlds.unregister(w)
	}
	w.id = id
	if id != "" {
		DefaultWorlds.register(w)
	}
	return nil
}

// InBounds reports whether the coordinate falls inside the grid.
func (w *World) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < w.width &&
		c.Y >= 0 && c.Y < w.height &&
		c.Z >= 0 && c.Z < w.depth
}

func (w *World) slot(c Coordinate) int {
	return (c.Z*w.height+c.Y)*w.width + c.X
}

// RoomAt returns the room occupying the slot, or nil when the slot is
// empty or the coordinate is out of bounds. Density is not considered;
// navigation applies that on top.
func (w *World) RoomAt(c Coordinate) *Room {
	if !w.InBounds(c) {
		return nil
	}
	return w.grid[w.slot(c)]
}

// Step resolves the grid-adjacent room one move from the coordinate.
// Out-of-bounds destinations and dense rooms both resolve to nil.
func (w *World) Step(from Coordinate, d Direction) *Room {
	r := w.RoomAt(from.Shift(d))
	if r == nil || r.dense {
		return nil
	}
	return r
}

// PlaceRoom registers a room into both the grid and the world's
// membership at the room's own coordinate. The slot must be free.
func (w *World) PlaceRoom(r *Room) error {
	if !w.InBounds(r.coord) {
		return fmt.Errorf("room coordinate %s outside %dx%dx%d world", r.coord, w.width, w.height, w.depth)
	}
	i := w.slot(r.coord)
	if w.grid[i] != nil && w.grid[i] != r {
		return fmt.Errorf("slot %s already occupied", r.coord)
	}
	w.grid[i] = r
	r.SetWorld(w)
	return nil
}

// clearSlot frees the grid slot the room occupies, if it still does.
func (w *World) clearSlot(r *Room) {
	if !w.InBounds(r.coord) {
		return
	}
	if i := w.slot(r.coord); w.grid[i] == r {
		w.grid[i] = nil
	}
}

// EachRoom calls fn for every occupied grid slot.
func (w *World) EachRoom(fn func(*Room)) {
	for _, r := range w.grid {
		if r != nil {
			fn(r)
		}
	}
}

// Members returns the flat membership list: everything reachable from the
// world's rooms plus anything added directly. The slice is shared;
// callers must not mutate it.
func (w *World) Members() []Entity { return w.members }

// EachMember iterates the membership in insertion order. This is the
// hook the session layer uses to message everything in a world.
func (w *World) EachMember(fn func(Entity)) {
	for _, m := range w.members {
		fn(m)
	}
}

func (w *World) addMember(e Entity) {
	for _, m := range w.members {
		if m == e {
			return
		}
	}
	w.members = append(w.members, e)
}

func (w *World) removeMember(e Entity) {
	for i, m := range w.members {
		if m == e {
			w.members = append(w.members[:i], w.members[i+1:]...)
			return
		}
	}
}

// AddReset attaches a population reset to this world.
func (w *World) AddReset(r *Reset) {
	w.resets = append(w.resets, r)
}

// Resets returns the world's reset list.
func (w *World) Resets() []*Reset { return w.resets }

// RunResets executes every reset and returns the number of objects
// spawned. Individual resets fail soft, so one bad reference never
// aborts the sweep.
func (w *World) RunResets() int {
	total := 0
	for _, r := range w.resets {
		total += r.Execute()
	}
	return total
}

// AddTemplate registers a template in this world's dictionary, replacing
// any previous template with the same id.
func (w *World) AddTemplate(t *Template) {
	w.templates[t.ID] = t
}

// Template resolves a local (unqualified) template id, or nil.
func (w *World) Template(id string) *Template {
	return w.templates[id]
}

// Destroy unregisters the world's id, removes every portal touching its
// rooms, and clears the grid and membership. Members keep their
// containment structure but lose their world back-reference; this is
// bulk teardown, not per-object destruction.
func (w *World) Destroy() {
	if w.id != "" {
		DefaultWorlds.unregister(w)
		w.id = ""
	}

	for _, r := range w.grid {
		if r == nil {
			continue
		}
		if len(r.portals) > 0 {
			for _, p := range append([]*Portal(nil), r.portals...) {
				p.Remove()
			}
		}
		DefaultPortals.RemoveTouching(r)
	}

	for _, m := range w.members {
		b := m.Base()
		if b.world == w {
			b.world = nil
		}
		if b.reset != nil {
			b.clearReset()
		}
	}
	w.members = nil
	w.resets = nil
	w.grid = make([]*Room, w.width*w.height*w.depth)
}
