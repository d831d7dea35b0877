package world

import "sync/atomic"

// Entity is implemented by every concrete kind that participates in the
// containment graph (Object, Item, Movable, Creature, Room). Kinds embed
// Object and register themselves as its self reference at construction,
// so graph operations on the base always see the outer kind.
type Entity interface {
	Base() *Object
	TypeTag() string

	// Destroy tears the entity out of the graph. If recursive, children
	// are destroyed first; otherwise the child list is cleared and the
	// children keep pointing at the defunct parent. That dangling
	// location is deliberate: callers may still log through it.
	Destroy(recursive bool)

	writeFields(rec Record)
	readFields(rec Record)
}

// relocator is implemented by kinds that react to a completed location
// change (Movable mirrors its room coordinate, Item drops its reset).
type relocator interface {
	relocated()
}

var idCounter atomic.Int64

func nextID() int64 {
	return idCounter.Add(1)
}

// Object is the base of the containment graph: identity, descriptive
// fields, weight, and the location/children/world relationships shared by
// every entity kind. All mutators are pure graph operations guarded by
// identity checks; repeating one, or applying it to a non-member, is a
// no-op rather than an error.
type Object struct {
	id          int64
	keyword     string
	display     string
	description string
	templateID  string

	weight      int
	totalWeight int

	children []Entity
	location Entity
	world    *World
	reset    *Reset

	self Entity
}

// NewObject creates a bare object with a fresh numeric identity.
func NewObject() *Object {
	o := &Object{}
	o.init(o)
	return o
}

// init wires the self reference and allocates an identity. Every kind
// constructor must call it with the outermost value.
func (o *Object) init(self Entity) {
	o.self = self
	o.id = nextID()
}

func (o *Object) Base() *Object    { return o }
func (o *Object) TypeTag() string  { return "object" }
func (o *Object) ID() int64        { return o.id }
func (o *Object) Keyword() string  { return o.keyword }
func (o *Object) Display() string  { return o.display }
func (o *Object) Location() Entity { return o.location }
func (o *Object) World() *World    { return o.world }

func (o *Object) SetKeyword(s string) { o.keyword = s }
func (o *Object) SetDisplay(s string) { o.display = s }

func (o *Object) Description() string     { return o.description }
func (o *Object) SetDescription(s string) { o.description = s }

// TemplateID returns the id of the template this object was stamped from,
// or "" for ad-hoc objects.
func (o *Object) TemplateID() string      { return o.templateID }
func (o *Object) SetTemplateID(id string) { o.templateID = id }

// Weight is the intrinsic weight, excluding contents.
func (o *Object) Weight() int { return o.weight }

// TotalWeight is the intrinsic weight plus the total weight of every child.
func (o *Object) TotalWeight() int { return o.totalWeight }

// SetWeight changes the intrinsic weight and pushes the delta up the
// ancestor chain, so every container's total stays consistent.
func (o *Object) SetWeight(w int) {
	delta := w - o.weight
	o.weight = w
	o.addTotal(delta)
}

// addTotal applies a weight delta to this object and every ancestor.
// Walks only the location chain: O(depth), never O(subtree).
func (o *Object) addTotal(delta int) {
	if delta == 0 {
		return
	}
	o.totalWeight += delta
	for p := o.location; p != nil; p = p.Base().location {
		p.Base().totalWeight += delta
	}
}

// Children returns the ordered child list. The slice is shared; callers
// must not mutate it.
func (o *Object) Children() []Entity { return o.children }

// Contains reports direct-child membership only. Recursive search is the
// caller's responsibility.
func (o *Object) Contains(e Entity) bool {
	return o.childIndex(e) >= 0
}

func (o *Object) childIndex(e Entity) int {
	for i, c := range o.children {
		if c == e {
			return i
		}
	}
	return -1
}

// Add makes each given entity a direct child, relocating it out of any
// previous container. Entities that are already direct children are
// skipped.
func (o *Object) Add(items ...Entity) {
	for _, it := range items {
		if it == nil || it == o.self || o.Contains(it) {
			continue
		}
		it.Base().SetLocation(o.self)
	}
}

// Remove detaches each given entity from the child list, subtracting its
// total weight. Entities that are not direct children are skipped.
func (o *Object) Remove(items ...Entity) {
	for _, it := range items {
		if it == nil || !o.Contains(it) {
			continue
		}
		b := it.Base()
		o.removeChild(it)
		if b.location == o.self {
			b.SetLocation(nil)
		}
	}
}

// removeChild drops e from the child list and rolls its weight out of the
// ancestor totals. It does not touch e's own back-references.
func (o *Object) removeChild(e Entity) {
	i := o.childIndex(e)
	if i < 0 {
		return
	}
	o.children = append(o.children[:i], o.children[i+1:]...)
	o.addTotal(-e.Base().totalWeight)
}

// SetLocation moves the object under a new container (or out of any, when
// loc is nil), keeping the location and child-list sides of the relation
// consistent in one operation. Attaching forces the object's World to the
// container's World; detaching clears it.
func (o *Object) SetLocation(loc Entity) {
	if o.location == loc {
		return
	}

	if old := o.location; old != nil {
		o.location = nil
		old.Base().removeChild(o.self)
	}

	o.location = loc
	if loc != nil {
		lb := loc.Base()
		if lb.childIndex(o.self) < 0 {
			lb.children = append(lb.children, o.self)
			lb.addTotal(o.totalWeight)
		}
		o.SetWorld(lb.world)
	} else {
		o.SetWorld(nil)
	}

	if r, ok := o.self.(relocator); ok {
		r.relocated()
	}
}

// SetWorld moves the object, and transitively its whole subtree, into a
// new World's membership. An object cannot remain spatially contained in
// a room belonging to a different World, so a mismatched location is
// detached. A Reset association that no longer matches the new World is
// dropped so population counts stay honest.
func (o *Object) SetWorld(w *World) {
	if o.world == w {
		return
	}

	if o.world != nil {
		o.world.removeMember(o.self)
	}
	o.world = w
	if w != nil {
		w.addMember(o.self)
	}

	if o.location != nil && o.location.Base().world != w {
		loc := o.location
		o.location = nil
		loc.Base().removeChild(o.self)
	}

	for _, c := range o.children {
		c.Base().SetWorld(w)
	}

	if o.reset != nil {
		o.reset.worldChanged(o.self, w)
	}
}

// attachReset records the Reset that spawned this object.
func (o *Object) attachReset(r *Reset) {
	o.clearReset()
	o.reset = r
}

// clearReset severs the spawn association in both directions. Idempotent.
func (o *Object) clearReset() {
	if r := o.reset; r != nil {
		o.reset = nil
		r.untrack(o.self)
	}
}

// SpawnedBy returns the Reset that spawned this object, if any.
func (o *Object) SpawnedBy() *Reset { return o.reset }

// Destroy detaches reset tracking, location, and World membership, each
// idempotently. If recursive, every child is destroyed first; otherwise
// the child list is cleared without reparenting the children.
func (o *Object) Destroy(recursive bool) {
	o.clearReset()
	o.SetLocation(nil)
	o.SetWorld(nil)

	if recursive {
		for _, c := range append([]Entity(nil), o.children...) {
			c.Destroy(true)
		}
	}
	o.children = nil
	o.totalWeight = o.weight
}
