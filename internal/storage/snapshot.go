package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Snapshot is a persisted batch of serialized object records, one file
// per world. Records are stored in whatever form the serializer handed
// over; the store does not interpret them.
type Snapshot struct {
	Version uint             `json:"version"`
	World   string           `json:"world"`
	Batch   string           `json:"batch"`
	Taken   time.Time        `json:"taken"`
	Records []map[string]any `json:"records"`
}

// SnapshotStore reads and writes world snapshots under a directory,
// one JSON file per world id. Writes go through a temp-file rename so
// a crash mid-save never leaves a truncated snapshot.
type SnapshotStore struct {
	path string

	mu sync.Mutex
}

func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &SnapshotStore{path: path}, nil
}

// Save persists the records as the current snapshot for the world,
// replacing any previous one. The batch id groups one sweep across
// worlds so partial sweeps are recognizable afterwards.
func (s *SnapshotStore) Save(world, batch string, records []map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		Version: 1,
		World:   world,
		Batch:   batch,
		Taken:   time.Now().UTC(),
		Records: records,
	}

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}

	return atomicWrite(s.filePath(world), jsonData, 0644)
}

// Load returns the stored snapshot for the world, or nil when none
// exists yet.
func (s *SnapshotStore) Load(world string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jsonData, err := os.ReadFile(s.filePath(world))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(jsonData, snap); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot: %w", err)
	}

	return snap, nil
}

// List returns the world ids with a stored snapshot, sorted.
func (s *SnapshotStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var worlds []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		worlds = append(worlds, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(worlds)

	return worlds, nil
}

func (s *SnapshotStore) filePath(world string) string {
	return filepath.Join(s.path, fmt.Sprintf("%s.json", world))
}
