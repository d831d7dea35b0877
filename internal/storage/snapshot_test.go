package storage

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSnapshotRoundTrip(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	records := []map[string]any{
		{"type": "item", "template": "iron-sword", "id": float64(12)},
		{"type": "creature", "id": float64(13), "display": "Guard"},
	}
	if err := store.Save("keep", "batch-1", records); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := store.Load("keep")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	testutil.AssertEqual(t, "world", snap.World, "keep")
	testutil.AssertEqual(t, "batch", snap.Batch, "batch-1")
	testutil.AssertEqual(t, "record count", len(snap.Records), 2)
	testutil.AssertEqual(t, "template survived", snap.Records[0]["template"].(string), "iron-sword")
}

func TestSnapshotLoadMissing(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	snap, err := store.Load("never-saved")
	if err != nil {
		t.Fatalf("missing snapshot should not error: %v", err)
	}
	if snap != nil {
		t.Error("expected nil snapshot for unknown world")
	}
}

func TestSnapshotSaveReplaces(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	if err := store.Save("w", "old", []map[string]any{{"type": "item"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save("w", "new", nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := store.Load("w")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "batch", snap.Batch, "new")
	testutil.AssertEqual(t, "record count", len(snap.Records), 0)
}

func TestSnapshotList(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	for _, w := range []string{"zeta", "alpha", "mid"} {
		if err := store.Save(w, "b", nil); err != nil {
			t.Fatalf("save %s: %v", w, err)
		}
	}

	worlds, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	testutil.AssertEqual(t, "count", len(worlds), 3)
	testutil.AssertEqual(t, "sorted first", worlds[0], "alpha")
	testutil.AssertEqual(t, "sorted last", worlds[2], "zeta")
}
