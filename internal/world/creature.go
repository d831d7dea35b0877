package world

// Creature is a movable entity that can carry and equip items. Combat
// and derived attributes live in a layer above this core; here a
// creature is containment plus movement plus an equipped-item set.
type Creature struct {
	Movable

	equipped []*Item
}

// NewCreature creates a creature outside any room.
func NewCreature() *Creature {
	c := &Creature{}
	c.init(c)
	return c
}

func (c *Creature) TypeTag() string { return "creature" }

// Equip adds the item to the creature's containment and marks it worn.
func (c *Creature) Equip(it *Item) {
	c.Add(it)
	if !c.Equipped(it) {
		c.equipped = append(c.equipped, it)
	}
}

// Unequip clears the worn mark. The item stays in the creature's
// inventory.
func (c *Creature) Unequip(it *Item) {
	for i, e := range c.equipped {
		if e == it {
			c.equipped = append(c.equipped[:i], c.equipped[i+1:]...)
			return
		}
	}
}

// Equipped reports whether the item is currently worn. An item that was
// moved out of the creature by some other path no longer counts.
func (c *Creature) Equipped(it *Item) bool {
	if !c.Contains(it) {
		return false
	}
	for _, e := range c.equipped {
		if e == it {
			return true
		}
	}
	return false
}

// Equipment returns the worn items still in the creature's containment.
func (c *Creature) Equipment() []*Item {
	var out []*Item
	for _, e := range c.equipped {
		if c.Contains(e) {
			out = append(out, e)
		}
	}
	return out
}

// writeFields adds the worn-item identities to the base fields. The
// items themselves serialize as ordinary children; the equipped list
// only records which of them are worn.
func (c *Creature) writeFields(rec Record) {
	c.Object.writeFields(rec)
	if eq := c.Equipment(); len(eq) > 0 {
		ids := make([]any, len(eq))
		for i, it := range eq {
			ids[i] = it.ID()
		}
		rec["equipped"] = ids
	}
}

// restoreEquipment re-marks worn items once the children are rebuilt.
// An identity that no longer resolves to a carried item is skipped.
func (c *Creature) restoreEquipment(rec Record) {
	ids, ok := rec["equipped"].([]any)
	if !ok {
		return
	}
	for _, v := range ids {
		id, ok := asInt(v)
		if !ok {
			continue
		}
		for _, ch := range c.children {
			if it, ok := ch.(*Item); ok && it.ID() == id {
				c.Equip(it)
				break
			}
		}
	}
}

// Remove drops the worn mark along with containment.
func (c *Creature) Remove(items ...Entity) {
	for _, e := range items {
		if it, ok := e.(*Item); ok {
			c.Unequip(it)
		}
	}
	c.Object.Remove(items...)
}
