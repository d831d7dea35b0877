package world

import (
	"log/slog"
	"regexp"
	"strconv"
)

// WorldDirectory maps ids to registered worlds. It starts empty and is
// mutated only through World.SetID and World.Destroy; registration order
// is preserved because unqualified template lookup scans it in order.
type WorldDirectory struct {
	byID  map[string]*World
	order []*World
}

// DefaultWorlds is the process-wide world directory.
var DefaultWorlds = NewWorldDirectory()

func NewWorldDirectory() *WorldDirectory {
	return &WorldDirectory{byID: map[string]*World{}}
}

// Lookup returns the world registered under id, or nil.
func (d *WorldDirectory) Lookup(id string) *World {
	return d.byID[id]
}

// All returns every registered world in registration order.
func (d *WorldDirectory) All() []*World {
	return d.order
}

// Len returns the number of registered worlds.
func (d *WorldDirectory) Len() int { return len(d.order) }

func (d *WorldDirectory) register(w *World) {
	if _, ok := d.byID[w.id]; ok {
		return
	}
	d.byID[w.id] = w
	d.order = append(d.order, w)
}

func (d *WorldDirectory) unregister(w *World) {
	if d.byID[w.id] != w {
		return
	}
	delete(d.byID, w.id)
	for i, o := range d.order {
		if o == w {
			d.order = append(d.order[:i], d.order[i+1:]...)
			return
		}
	}
}

// Room references use the exact grammar @<world-id>{<x>,<y>,<z>} with
// non-negative integer coordinates.
var roomRefPattern = regexp.MustCompile(`^@([a-zA-Z0-9-]+)\{(\d+),(\d+),(\d+)\}$`)

// GetRoomByRef resolves a room reference string. Malformed strings,
// unknown world ids, and out-of-bounds or empty slots all resolve to
// nil; stale references are routine data, not errors.
func GetRoomByRef(ref string) *Room {
	m := roomRefPattern.FindStringSubmatch(ref)
	if m == nil {
		slog.Debug("malformed room reference", "ref", ref)
		return nil
	}

	w := DefaultWorlds.Lookup(m[1])
	if w == nil {
		slog.Debug("room reference to unknown world", "ref", ref, "world", m[1])
		return nil
	}

	x, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])
	z, _ := strconv.Atoi(m[4])
	return w.RoomAt(Coordinate{X: x, Y: y, Z: z})
}
