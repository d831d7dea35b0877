package command

import (
	"fmt"

	service "github.com/pixil98/go-service"

	"github.com/lattice-mud/lattice/internal/driver"
	"github.com/lattice-mud/lattice/internal/messaging"
	"github.com/lattice-mud/lattice/internal/worlds"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Stores
	worldStore, err := cfg.Storage.BuildWorldStore()
	if err != nil {
		return nil, fmt.Errorf("creating world store: %w", err)
	}
	templateStore, err := cfg.Storage.BuildTemplateStore()
	if err != nil {
		return nil, fmt.Errorf("creating template store: %w", err)
	}
	snapshotStore, err := cfg.Storage.BuildSnapshotStore()
	if err != nil {
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}

	// Messaging
	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Build the worlds
	opts := []worlds.ManagerOpt{
		worlds.WithPublisher(messaging.NewObjectPublisher(natsServer)),
	}
	if snapshotStore != nil {
		opts = append(opts, worlds.WithSnapshotStore(snapshotStore))
	}
	manager := worlds.NewManager(worldStore, templateStore, opts...)
	if err := manager.Build(); err != nil {
		return nil, fmt.Errorf("building worlds: %w", err)
	}

	// Set up the world driver
	var driverOpts []driver.WorldDriverOpt
	if tick, err := cfg.tickLength(); err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	} else if tick > 0 {
		driverOpts = append(driverOpts, driver.WithTickLength(tick))
	}
	drv := driver.NewWorldDriver([]driver.Manager{manager}, driverOpts...)

	return service.WorkerList{
		"driver": drv,
		"nats":   natsServer,
	}, nil
}
