package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Manager is anything advanced by the world clock.
type Manager interface {
	Tick(context.Context) error
}

// WorldDriver advances its managers on a fixed interval. It is the only
// goroutine mutating world state, which is what lets the core stay
// lock-free.
type WorldDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewWorldDriver(managers []Manager, opts ...WorldDriverOpt) *WorldDriver {
	d := &WorldDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *WorldDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (d *WorldDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
