package world

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"
)

// cmp cannot descend into the entity graph (unexported fields, func
// fields, cycles), so rooms and worlds compare by identity.
var (
	roomCmp  = cmp.Comparer(func(a, b *Room) bool { return a == b })
	worldCmp = cmp.Comparer(func(a, b *World) bool { return a == b })
)

// newGridWorld builds a world with a room in every slot. When id is
// non-empty the world registers in the directory and is unregistered on
// test cleanup.
func newGridWorld(t *testing.T, id string, width, height, depth int) *World {
	t.Helper()
	w := NewWorld(width, height, depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if err := w.PlaceRoom(NewRoom(Coordinate{X: x, Y: y, Z: z})); err != nil {
					t.Fatalf("placing room: %v", err)
				}
			}
		}
	}
	if id != "" {
		if err := w.SetID(id); err != nil {
			t.Fatalf("setting world id: %v", err)
		}
	}
	t.Cleanup(w.Destroy)
	return w
}

func TestRoomAtBounds(t *testing.T) {
	tests := map[string]struct {
		dims  [3]int
		coord Coordinate
		exp   bool
	}{
		"origin":            {[3]int{3, 3, 2}, Coordinate{0, 0, 0}, true},
		"far corner":        {[3]int{3, 3, 2}, Coordinate{2, 2, 1}, true},
		"x negative":        {[3]int{3, 3, 2}, Coordinate{-1, 0, 0}, false},
		"y negative":        {[3]int{3, 3, 2}, Coordinate{0, -1, 0}, false},
		"z negative":        {[3]int{3, 3, 2}, Coordinate{0, 0, -1}, false},
		"x at limit":        {[3]int{3, 3, 2}, Coordinate{3, 0, 0}, false},
		"y at limit":        {[3]int{3, 3, 2}, Coordinate{0, 3, 0}, false},
		"z at limit":        {[3]int{3, 3, 2}, Coordinate{0, 0, 2}, false},
		"degenerate inside": {[3]int{1, 1, 1}, Coordinate{0, 0, 0}, true},
		"degenerate beyond": {[3]int{1, 1, 1}, Coordinate{1, 0, 0}, false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newGridWorld(t, "", tt.dims[0], tt.dims[1], tt.dims[2])
			got := w.RoomAt(tt.coord) != nil
			testutil.AssertEqual(t, "room present", got, tt.exp)
		})
	}
}

func TestWorldStep(t *testing.T) {
	w := newGridWorld(t, "", 3, 3, 3)
	center := Coordinate{1, 1, 1}

	tests := map[Direction]Coordinate{
		North:     {1, 0, 1},
		South:     {1, 2, 1},
		East:      {2, 1, 1},
		West:      {0, 1, 1},
		NorthEast: {2, 0, 1},
		SouthWest: {0, 2, 1},
		Up:        {1, 1, 2},
		Down:      {1, 1, 0},
	}

	for d, exp := range tests {
		t.Run(d.String(), func(t *testing.T) {
			r := w.Step(center, d)
			if r == nil {
				t.Fatalf("no room stepping %s", d)
			}
			testutil.AssertEqual(t, "coordinate", r.Coord(), exp)
		})
	}

	if w.Step(Coordinate{0, 0, 0}, North) != nil {
		t.Error("stepped off the north edge")
	}
	if w.Step(Coordinate{2, 2, 2}, Up) != nil {
		t.Error("stepped off the top")
	}
}

func TestStepDenseIsAbsent(t *testing.T) {
	w := newGridWorld(t, "", 2, 1, 1)
	w.RoomAt(Coordinate{1, 0, 0}).SetDense(true)

	if w.Step(Coordinate{0, 0, 0}, East) != nil {
		t.Error("dense room resolved as a destination")
	}
	if w.RoomAt(Coordinate{1, 0, 0}) == nil {
		t.Error("dense room should still be present in raw lookup")
	}
}

func TestPlaceRoomErrors(t *testing.T) {
	w := NewWorld(2, 2, 1)

	if err := w.PlaceRoom(NewRoom(Coordinate{X: 5, Y: 0, Z: 0})); err == nil {
		t.Error("expected error placing a room out of bounds")
	}

	if err := w.PlaceRoom(NewRoom(Coordinate{})); err != nil {
		t.Fatalf("placing room: %v", err)
	}
	if err := w.PlaceRoom(NewRoom(Coordinate{})); err == nil {
		t.Error("expected error placing into an occupied slot")
	}
}

func TestWorldIDRegistration(t *testing.T) {
	w := newGridWorld(t, "reg-a", 1, 1, 1)

	if DefaultWorlds.Lookup("reg-a") != w {
		t.Fatal("world not registered under its id")
	}

	other := NewWorld(1, 1, 1)
	t.Cleanup(other.Destroy)
	if err := other.SetID("reg-a"); err == nil {
		t.Error("expected duplicate world id to fail")
	}
	testutil.AssertEqual(t, "other id unchanged", other.ID(), "")

	if err := w.SetID("reg-a"); err != nil {
		t.Errorf("reassigning the same id should be a no-op: %v", err)
	}

	if err := w.SetID(""); err != nil {
		t.Fatalf("clearing id: %v", err)
	}
	if DefaultWorlds.Lookup("reg-a") != nil {
		t.Error("world still registered after clearing id")
	}
}

func TestWorldDestroyCleansUp(t *testing.T) {
	wa := newGridWorld(t, "destroy-a", 1, 1, 1)
	wb := newGridWorld(t, "destroy-b", 1, 1, 1)

	ra := wa.RoomAt(Coordinate{})
	rb := wb.RoomAt(Coordinate{})
	NewPortal(ra, North, rb, false)

	coin := NewItem()
	ra.Add(coin)

	wa.Destroy()

	if DefaultWorlds.Lookup("destroy-a") != nil {
		t.Error("destroyed world still registered")
	}
	testutil.AssertEqual(t, "portal removed from registry", len(DefaultPortals.ForRoom(ra)), 0)
	testutil.AssertEqual(t, "portal removed from far room", len(rb.Portals()), 0)
	if coin.World() != nil {
		t.Error("member kept a world reference after destroy")
	}
	testutil.AssertEqual(t, "membership cleared", len(wa.Members()), 0)
}

func TestWorldDestroyFindsUnlistedPortals(t *testing.T) {
	wa := newGridWorld(t, "unlisted-a", 1, 1, 1)
	wb := newGridWorld(t, "unlisted-b", 1, 1, 1)

	// A one-way portal into wa registers only on the origin room, so
	// wa's own rooms never list it; destroy must find it in the global
	// registry.
	origin := wb.RoomAt(Coordinate{})
	target := wa.RoomAt(Coordinate{})
	NewPortal(origin, North, target, true)

	wa.Destroy()

	testutil.AssertEqual(t, "origin room portal removed", len(origin.Portals()), 0)
	testutil.AssertEqual(t, "registry empty of target", len(DefaultPortals.ForRoom(target)), 0)
}

func TestGetRoomByRef(t *testing.T) {
	w := newGridWorld(t, "refworld", 2, 2, 1)

	tests := map[string]struct {
		ref string
		exp *Room
	}{
		"valid":             {"@refworld{1,0,0}", w.RoomAt(Coordinate{1, 0, 0})},
		"valid origin":      {"@refworld{0,0,0}", w.RoomAt(Coordinate{})},
		"unknown world":     {"@missing{0,0,0}", nil},
		"out of bounds":     {"@refworld{5,0,0}", nil},
		"negative":          {"@refworld{-1,0,0}", nil},
		"missing at":        {"refworld{0,0,0}", nil},
		"missing braces":    {"@refworld 0,0,0", nil},
		"too few coords":    {"@refworld{0,0}", nil},
		"trailing garbage":  {"@refworld{0,0,0}x", nil},
		"non-numeric coord": {"@refworld{a,0,0}", nil},
		"empty":             {"", nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "room", GetRoomByRef(tt.ref), tt.exp, roomCmp)
		})
	}
}

func TestRoomRefRoundTrip(t *testing.T) {
	w := newGridWorld(t, "trip", 3, 3, 2)
	room := w.RoomAt(Coordinate{2, 1, 1})

	ref := room.Ref()
	testutil.AssertEqual(t, "ref", ref, "@trip{2,1,1}")
	testutil.AssertEqual(t, "resolved", GetRoomByRef(ref), room, roomCmp)
}

func TestRoomRefUnregisteredWorld(t *testing.T) {
	w := newGridWorld(t, "", 1, 1, 1)
	testutil.AssertEqual(t, "ref", w.RoomAt(Coordinate{}).Ref(), "")
}

func TestBroadcastReachesAllMembers(t *testing.T) {
	w := newGridWorld(t, "", 1, 1, 1)
	room := w.RoomAt(Coordinate{})
	bag := NewItem()
	coin := NewItem()
	bag.Add(coin)
	room.Add(bag)

	got := map[int64]int{}
	p := publisherFunc(func(id int64, data []byte) error {
		got[id]++
		return nil
	})

	if err := w.Broadcast(p, []byte("hello")); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	for _, e := range []Entity{room, bag, coin} {
		if got[e.Base().ID()] != 1 {
			t.Errorf("member %d received %d messages, expected 1", e.Base().ID(), got[e.Base().ID()])
		}
	}
}

type publisherFunc func(id int64, data []byte) error

func (f publisherFunc) PublishToObject(id int64, data []byte) error {
	return f(id, data)
}
