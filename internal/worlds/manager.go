package worlds

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lattice-mud/lattice/internal/storage"
	"github.com/lattice-mud/lattice/internal/world"
)

// Manager owns the built worlds. It constructs them from blueprint
// stores, restores persisted objects, and on every tick runs resets and
// writes fresh snapshots. All world mutation happens on the tick
// goroutine; the core is not locked.
type Manager struct {
	worlds    storage.Storer[*WorldSpec]
	templates storage.Storer[*TemplateSpec]
	snapshots *storage.SnapshotStore
	publisher world.Publisher

	built []*world.World
}

func NewManager(worlds storage.Storer[*WorldSpec], templates storage.Storer[*TemplateSpec], opts ...ManagerOpt) *Manager {
	m := &Manager{
		worlds:    worlds,
		templates: templates,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Worlds returns the built worlds. Empty before Build.
func (m *Manager) Worlds() []*world.World {
	return m.built
}

// Build constructs every blueprint into a live world. Rooms, templates,
// and resets are local to their blueprint, so they build in one pass;
// portals may target rooms of other blueprints and are linked in a
// second pass once every world is registered.
func (m *Manager) Build() error {
	specs := m.worlds.GetAll()

	for id, spec := range specs {
		if err := m.resolveRefs(spec); err != nil {
			return fmt.Errorf("world %q: %w", id, err)
		}
	}

	for id, spec := range specs {
		w, err := m.buildWorld(id, spec)
		if err != nil {
			return fmt.Errorf("building world %q: %w", id, err)
		}
		m.built = append(m.built, w)
	}

	for id, spec := range specs {
		if err := m.linkPortals(id, spec); err != nil {
			return fmt.Errorf("linking world %q: %w", id, err)
		}
	}

	if m.snapshots != nil {
		m.restore()
	}

	return nil
}

// resolveRefs resolves every template reference in the blueprint
// against the template store. A dangling reference fails the build;
// blueprints are authored data and get checked loudly up front.
func (m *Manager) resolveRefs(spec *WorldSpec) error {
	for i := range spec.Templates {
		if err := spec.Templates[i].Resolve(m.templates); err != nil {
			return err
		}
	}
	for ri := range spec.Resets {
		r := &spec.Resets[ri]
		if err := r.Template.Resolve(m.templates); err != nil {
			return fmt.Errorf("reset %d: %w", ri, err)
		}
		for i := range r.Equipment {
			if err := r.Equipment[i].Resolve(m.templates); err != nil {
				return fmt.Errorf("reset %d equipment: %w", ri, err)
			}
		}
		for i := range r.Inventory {
			if err := r.Inventory[i].Resolve(m.templates); err != nil {
				return fmt.Errorf("reset %d inventory: %w", ri, err)
			}
		}
	}
	return nil
}

func (m *Manager) buildWorld(id string, spec *WorldSpec) (*world.World, error) {
	w := world.NewWorld(spec.Width, spec.Height, spec.Depth)

	for _, rs := range spec.Rooms {
		room := world.NewRoom(rs.coordinate())
		room.SetKeyword(rs.Keyword)
		room.SetDisplay(rs.Display)
		room.SetDescription(rs.Description)
		room.SetDense(rs.Dense)
		if rs.Exits != nil {
			var mask world.Direction
			for _, name := range rs.Exits {
				d, _ := world.ParseDirection(name)
				mask |= d
			}
			room.SetExits(mask)
		}
		if err := w.PlaceRoom(room); err != nil {
			return nil, err
		}
	}

	if err := w.SetID(id); err != nil {
		return nil, err
	}

	// Everything a reset references belongs in the dictionary alongside
	// the explicitly listed templates.
	refs := append([]storage.Ref[*TemplateSpec]{}, spec.Templates...)
	for _, rs := range spec.Resets {
		refs = append(refs, rs.Template)
		refs = append(refs, rs.Equipment...)
		refs = append(refs, rs.Inventory...)
	}
	for _, ref := range refs {
		if w.Template(ref.Key()) != nil {
			continue
		}
		ts := ref.Value()
		w.AddTemplate(world.NewTemplateFields(ref.Key(), ts.Tag, world.Record(ts.Fields)))
	}

	for _, rs := range spec.Resets {
		reset := world.NewReset(rs.Template.Key(), roomRef(id, rs.Room), rs.Min, rs.Max)
		for _, e := range rs.Equipment {
			reset.Equipment = append(reset.Equipment, e.Key())
		}
		for _, e := range rs.Inventory {
			reset.Inventory = append(reset.Inventory, e.Key())
		}
		w.AddReset(reset)
	}

	return w, nil
}

// linkPortals wires the blueprint's portals now that every target room
// exists. A portal into a world that failed to load is a build error,
// not a soft skip.
func (m *Manager) linkPortals(id string, spec *WorldSpec) error {
	w := world.DefaultWorlds.Lookup(id)
	for i, ps := range spec.Portals {
		from := w.RoomAt(ps.From.coordinate())
		to := world.GetRoomByRef(ps.To)
		if to == nil {
			return fmt.Errorf("portal %d: unresolvable target %q", i, ps.To)
		}
		d, _ := world.ParseDirection(ps.Direction)
		world.NewPortal(from, d, to, ps.OneWay)
	}
	return nil
}

// restore reloads each world's persisted objects. Snapshot data ages
// out from under a changed blueprint, so a record that no longer
// deserializes is logged and skipped rather than failing the build.
func (m *Manager) restore() {
	for _, w := range m.built {
		snap, err := m.snapshots.Load(w.ID())
		if err != nil {
			slog.Warn("loading snapshot", "world", w.ID(), "error", err)
			continue
		}
		if snap == nil {
			continue
		}
		for _, rec := range snap.Records {
			if _, err := world.Deserialize(world.Record(rec)); err != nil {
				slog.Warn("restoring snapshot record", "world", w.ID(), "error", err)
			}
		}
		slog.Info("snapshot restored", "world", w.ID(), "records", len(snap.Records), "batch", snap.Batch)
	}
}

// Tick runs every world's resets, announces spawns to that world's
// occupants, then persists the resulting layout.
func (m *Manager) Tick(ctx context.Context) error {
	spawned := 0
	for _, w := range m.built {
		n := w.RunResets()
		spawned += n
		if n > 0 && m.publisher != nil {
			m.announce(ctx, w, n)
		}
	}
	if spawned > 0 {
		slog.InfoContext(ctx, "resets complete", "worlds", len(m.built), "spawned", spawned)
	}

	if m.snapshots != nil {
		m.snapshot(ctx)
	}

	return nil
}

// announce broadcasts a reset event to everything the world contains.
// Delivery failure is transport trouble, not world state, so it only
// logs.
func (m *Manager) announce(ctx context.Context, w *world.World, spawned int) {
	data, err := json.Marshal(map[string]any{
		"event":   "reset",
		"world":   w.ID(),
		"spawned": spawned,
	})
	if err != nil {
		return
	}
	if err := w.Broadcast(m.publisher, data); err != nil {
		slog.WarnContext(ctx, "broadcasting reset event", "world", w.ID(), "error", err)
	}
}

// snapshot writes one compressed record per placed top-level object.
// Rooms are blueprint material and are not persisted; children ride
// along inside their parent's record. A failed write is logged, the
// world keeps running.
func (m *Manager) snapshot(ctx context.Context) {
	batch := uuid.New().String()
	for _, w := range m.built {
		var records []map[string]any
		w.EachMember(func(e world.Entity) {
			if _, isRoom := e.(*world.Room); isRoom {
				return
			}
			if _, inRoom := e.Base().Location().(*world.Room); !inRoom {
				return
			}
			records = append(records, world.Serialize(e, true))
		})
		if err := m.snapshots.Save(w.ID(), batch, records); err != nil {
			slog.WarnContext(ctx, "saving snapshot", "world", w.ID(), "error", err)
		}
	}
}

func roomRef(worldID string, p Position) string {
	return fmt.Sprintf("@%s{%d,%d,%d}", worldID, p.X, p.Y, p.Z)
}
