package worlds

import (
	"github.com/lattice-mud/lattice/internal/storage"
	"github.com/lattice-mud/lattice/internal/world"
)

type ManagerOpt func(*Manager)

// WithSnapshotStore enables layout persistence: restore on Build, save
// on every Tick.
func WithSnapshotStore(s *storage.SnapshotStore) ManagerOpt {
	return func(m *Manager) {
		m.snapshots = s
	}
}

// WithPublisher enables reset announcements to world occupants.
func WithPublisher(p world.Publisher) ManagerOpt {
	return func(m *Manager) {
		m.publisher = p
	}
}
