package world

// Portal is an explicit connection between two (room, direction)
// endpoints that bypasses grid adjacency. The destination-side direction
// is always the reverse of the origin direction. Portals resolve exact
// matches only and ignore exit permission masks entirely.
type Portal struct {
	rooms  [2]*Room
	dirs   [2]Direction
	oneWay bool
}

// NewPortal links from and to in direction d. A one-way portal registers
// only on its origin room; a two-way portal registers on both endpoints.
// The new portal is also added to the process-wide registry.
func NewPortal(from *Room, d Direction, to *Room, oneWay bool) *Portal {
	p := &Portal{
		rooms:  [2]*Room{from, to},
		dirs:   [2]Direction{d, d.Reverse()},
		oneWay: oneWay,
	}
	from.attachPortal(p)
	if !oneWay {
		to.attachPortal(p)
	}
	DefaultPortals.register(p)
	return p
}

func (p *Portal) OneWay() bool { return p.oneWay }

// Endpoints returns the two rooms, origin first.
func (p *Portal) Endpoints() (*Room, *Room) { return p.rooms[0], p.rooms[1] }

// Destination resolves an exact (room, direction) match. One-way portals
// match only their origin endpoint; two-way portals match either side.
// Returns nil when the pair does not match.
func (p *Portal) Destination(from *Room, d Direction) *Room {
	if from == p.rooms[0] && d == p.dirs[0] {
		return p.rooms[1]
	}
	if !p.oneWay && from == p.rooms[1] && d == p.dirs[1] {
		return p.rooms[0]
	}
	return nil
}

// Touches reports whether r is either endpoint.
func (p *Portal) Touches(r *Room) bool {
	return r == p.rooms[0] || r == p.rooms[1]
}

// Remove detaches the portal from both rooms and the registry. Safe to
// call more than once.
func (p *Portal) Remove() {
	p.rooms[0].detachPortal(p)
	p.rooms[1].detachPortal(p)
	DefaultPortals.unregister(p)
}

// PortalRegistry tracks every live portal in the process. It starts
// empty and is mutated only by portal creation and removal; nothing
// sweeps it implicitly, so Room and World teardown must remove the
// portals that reference them.
type PortalRegistry struct {
	portals []*Portal
}

// DefaultPortals is the process-wide portal registry.
var DefaultPortals = &PortalRegistry{}

func (pr *PortalRegistry) register(p *Portal) {
	for _, q := range pr.portals {
		if q == p {
			return
		}
	}
	pr.portals = append(pr.portals, p)
}

func (pr *PortalRegistry) unregister(p *Portal) {
	for i, q := range pr.portals {
		if q == p {
			pr.portals = append(pr.portals[:i], pr.portals[i+1:]...)
			return
		}
	}
}

// Len returns the number of live portals.
func (pr *PortalRegistry) Len() int { return len(pr.portals) }

// ForRoom returns every portal with r as an endpoint.
func (pr *PortalRegistry) ForRoom(r *Room) []*Portal {
	var out []*Portal
	for _, p := range pr.portals {
		if p.Touches(r) {
			out = append(out, p)
		}
	}
	return out
}

// RemoveTouching removes every portal with r as an endpoint.
func (pr *PortalRegistry) RemoveTouching(r *Room) {
	for _, p := range pr.ForRoom(r) {
		p.Remove()
	}
}
