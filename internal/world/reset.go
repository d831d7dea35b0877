package world

import (
	"log/slog"
	"strings"
)

// Reset is a population-control rule: keep between Min and Max instances
// of a template alive in a target room. It tracks what it has spawned;
// an object tracks the single Reset that spawned it, and the association
// is severed the moment the object leaves the reset's world (or, for
// items, its original container), so counts never include strays.
// Unclaimed instances of the template standing in the target room, such
// as objects restored from a snapshot, are adopted into the tracked set
// before any spawning.
type Reset struct {
	TemplateID string
	RoomRef    string
	Min        int
	Max        int

	// Equipment and Inventory are item template ids attached to spawned
	// creatures. Missing or mistyped entries are skipped, not fatal.
	Equipment []string
	Inventory []string

	room    *Room
	spawned []Entity
}

// NewReset creates a reset spawning the template into the referenced
// room until between min and max tracked instances exist.
func NewReset(templateID, roomRef string, min, max int) *Reset {
	return &Reset{
		TemplateID: templateID,
		RoomRef:    roomRef,
		Min:        min,
		Max:        max,
	}
}

// Spawned returns the objects this reset currently tracks.
func (r *Reset) Spawned() []Entity { return r.spawned }

// Room returns the resolved target room from the last execution, or nil.
func (r *Reset) Room() *Room { return r.room }

func (r *Reset) untrack(e Entity) {
	for i, s := range r.spawned {
		if s == e {
			r.spawned = append(r.spawned[:i], r.spawned[i+1:]...)
			return
		}
	}
}

// worldChanged is called when a tracked object's World assignment moves.
// If the new world no longer matches the reset's target room, the spawn
// association is dropped.
func (r *Reset) worldChanged(e Entity, w *World) {
	if r.room != nil && r.room.World() == w && w != nil {
		return
	}
	e.Base().clearReset()
}

// Execute tops the population up: with existing tracked spawns counted,
// it spawns min(Min-existing, Max-existing) new instances into the
// target room and returns how many were created. Unresolvable room or
// template references log and spawn nothing; stale references are
// routine data here, not program errors.
func (r *Reset) Execute() int {
	room := GetRoomByRef(r.RoomRef)
	if room == nil {
		slog.Warn("reset: unresolvable room reference", "room", r.RoomRef, "template", r.TemplateID)
		return 0
	}
	r.room = room
	r.adopt(room)

	tmpl := r.resolveTemplate(room.World(), r.TemplateID)
	if tmpl == nil {
		slog.Warn("reset: unresolvable template", "template", r.TemplateID, "room", r.RoomRef)
		return 0
	}

	existing := len(r.spawned)
	if existing >= r.Max {
		return 0
	}
	want := r.Min - existing
	if limit := r.Max - existing; want > limit {
		want = limit
	}
	if want <= 0 {
		return 0
	}

	count := 0
	for i := 0; i < want; i++ {
		e, err := tmpl.Instantiate()
		if err != nil {
			slog.Warn("reset: spawn failed", "template", r.TemplateID, "error", err)
			break
		}
		room.Add(e)
		e.Base().attachReset(r)
		r.spawned = append(r.spawned, e)
		count++

		if cr, ok := e.(*Creature); ok {
			r.outfit(cr)
		}
	}
	return count
}

// adopt re-tracks unclaimed instances of the template standing in the
// target room, up to Max. Restored snapshot records carry no spawn
// association; without adoption every restart would pile a fresh
// population on top of the restored one.
func (r *Reset) adopt(room *Room) {
	for _, c := range room.Children() {
		if len(r.spawned) >= r.Max {
			return
		}
		b := c.Base()
		if b.TemplateID() != r.TemplateID || b.SpawnedBy() != nil {
			continue
		}
		b.attachReset(r)
		r.spawned = append(r.spawned, c)
	}
}

// resolveTemplate prefers the target room's own world dictionary, then
// falls back to the cross-world lookup (which also handles qualified
// ids).
func (r *Reset) resolveTemplate(w *World, id string) *Template {
	if w != nil && !strings.HasPrefix(id, "@") {
		if t := w.Template(id); t != nil {
			return t
		}
	}
	return FindTemplate(id)
}

// outfit attaches the configured equipment and inventory sub-templates
// to a spawned creature. A missing or non-item sub-template logs and is
// skipped; the rest of the reset proceeds.
func (r *Reset) outfit(c *Creature) {
	for _, tid := range r.Equipment {
		if it := r.spawnItem(tid); it != nil {
			c.Equip(it)
		}
	}
	for _, tid := range r.Inventory {
		if it := r.spawnItem(tid); it != nil {
			c.Add(it)
		}
	}
}

func (r *Reset) spawnItem(tid string) *Item {
	tmpl := r.resolveTemplate(r.room.World(), tid)
	if tmpl == nil {
		slog.Warn("reset: unresolvable sub-template", "template", tid, "parent", r.TemplateID)
		return nil
	}
	e, err := tmpl.Instantiate()
	if err != nil {
		slog.Warn("reset: sub-template spawn failed", "template", tid, "error", err)
		return nil
	}
	it, ok := e.(*Item)
	if !ok {
		slog.Warn("reset: sub-template is not an item", "template", tid, "type", e.TypeTag())
		e.Destroy(true)
		return nil
	}
	return it
}
