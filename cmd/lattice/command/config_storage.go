package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/lattice-mud/lattice/internal/storage"
	"github.com/lattice-mud/lattice/internal/worlds"
)

type StorageConfig struct {
	Worlds    AssetConfig[*worlds.WorldSpec]    `json:"worlds"`
	Templates AssetConfig[*worlds.TemplateSpec] `json:"templates"`

	// Snapshots is optional: without a path the server rebuilds each
	// world from its blueprint alone on every start.
	Snapshots SnapshotConfig `json:"snapshots"`
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()
	el.Add(c.Worlds.Validate("worlds"))
	el.Add(c.Templates.Validate("templates"))
	el.Add(c.Snapshots.Validate())
	return el.Err()
}

func (c *StorageConfig) BuildWorldStore() (*storage.FileStore[*worlds.WorldSpec], error) {
	return c.Worlds.BuildFileStore()
}

func (c *StorageConfig) BuildTemplateStore() (*storage.FileStore[*worlds.TemplateSpec], error) {
	return c.Templates.BuildFileStore()
}

func (c *StorageConfig) BuildSnapshotStore() (*storage.SnapshotStore, error) {
	if c.Snapshots.Path == "" {
		return nil, nil
	}
	return storage.NewSnapshotStore(c.Snapshots.Path)
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

type SnapshotConfig struct {
	Path string `json:"path,omitempty"`
}

func (c *SnapshotConfig) Validate() error {
	// The directory is created on demand.
	return nil
}
