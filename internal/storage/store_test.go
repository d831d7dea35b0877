package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type blockSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *blockSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, dir, file, id string, spec *blockSpec) {
	t.Helper()
	data, err := json.Marshal(Asset[*blockSpec]{Version: 1, Id: id, Spec: spec})
	if err != nil {
		t.Fatalf("marshalling asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), data, 0644); err != nil {
		t.Fatalf("writing asset file: %v", err)
	}
}

func TestFileStoreLoadsAssets(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "granite.json", "granite", &blockSpec{Name: "Granite", Value: 1})
	writeAsset(t, dir, "marble.json", "marble", &blockSpec{Name: "Marble", Value: 2})

	store, err := NewFileStore[*blockSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.GetAll()), 2)

	got := store.Get("granite")
	if got == nil {
		t.Fatal("expected granite to be loaded")
	}
	testutil.AssertEqual(t, "name", got.Name, "Granite")
	testutil.AssertEqual(t, "value", got.Value, 1)
}

func TestFileStoreLoadFailures(t *testing.T) {
	tests := map[string]struct {
		setup func(t *testing.T, dir string)
	}{
		"missing directory": {
			setup: func(t *testing.T, dir string) {
				// Point at a path that never existed.
			},
		},
		"malformed json": {
			setup: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{nope`), 0644); err != nil {
					t.Fatal(err)
				}
			},
		},
		"validation failure": {
			setup: func(t *testing.T, dir string) {
				data, _ := json.Marshal(Asset[*blockSpec]{Version: 0, Id: "x", Spec: &blockSpec{}})
				if err := os.WriteFile(filepath.Join(dir, "x.json"), data, 0644); err != nil {
					t.Fatal(err)
				}
			},
		},
		"duplicate id across files": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "a.json", "same", &blockSpec{})
				writeAsset(t, dir, "b.json", "same", &blockSpec{})
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)
			if name == "missing directory" {
				dir = filepath.Join(dir, "does-not-exist")
			}
			if _, err := NewFileStore[*blockSpec](dir); err == nil {
				t.Error("expected load to fail")
			}
		})
	}
}

func TestFileStoreIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "keep.json", "keep", &blockSpec{Name: "Keep"})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an asset"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "legacy.yaml"), []byte("nope: true"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := NewFileStore[*blockSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "record count", len(store.GetAll()), 1)
}

func TestFileStoreLoadsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeAsset(t, dir, "top.json", "top", &blockSpec{})
	writeAsset(t, sub, "deep.json", "deep", &blockSpec{})

	store, err := NewFileStore[*blockSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "record count", len(store.GetAll()), 2)
}

func TestFileStoreGetUnknown(t *testing.T) {
	store, err := NewFileStore[*blockSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Get("missing") != nil {
		t.Error("expected nil for unknown id")
	}
	if store.Get("") != nil {
		t.Error("expected nil for empty id")
	}
}

func TestFileStoreGetAllIsACopy(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "one.json", "one", &blockSpec{})

	store, err := NewFileStore[*blockSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := store.GetAll()
	delete(all, "one")

	if store.Get("one") == nil {
		t.Error("mutating the returned map reached the store")
	}
}

func TestFileStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*blockSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("slate", &blockSpec{Name: "Slate", Value: 7}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Served from memory immediately.
	testutil.AssertEqual(t, "cached name", store.Get("slate").Name, "Slate")

	// And written through to disk in the envelope form.
	data, err := os.ReadFile(filepath.Join(dir, "slate.json"))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	var asset Asset[*blockSpec]
	if err := json.Unmarshal(data, &asset); err != nil {
		t.Fatalf("unmarshalling saved file: %v", err)
	}
	testutil.AssertEqual(t, "version", asset.Version, uint(1))
	testutil.AssertEqual(t, "id", asset.Id, "slate")
	testutil.AssertEqual(t, "value", asset.Spec.Value, 7)

	// A reloaded store sees the saved asset.
	reloaded, err := NewFileStore[*blockSpec](dir)
	if err != nil {
		t.Fatalf("reloading store: %v", err)
	}
	testutil.AssertEqual(t, "reloaded value", reloaded.Get("slate").Value, 7)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store, err := NewFileStore[*blockSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("gem", &blockSpec{Value: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save("gem", &blockSpec{Value: 2}); err != nil {
		t.Fatalf("save: %v", err)
	}

	testutil.AssertEqual(t, "value", store.Get("gem").Value, 2)
}
