package messaging

import (
	"fmt"

	"github.com/lattice-mud/lattice/internal/world"
)

// ObjectPublisher delivers messages to per-object NATS subjects. It is
// the transport half of world broadcasts: sessions subscribe to the
// subjects of the objects they animate, the world publishes to every
// member it contains.
type ObjectPublisher struct {
	server *NatsServer
}

var _ world.Publisher = (*ObjectPublisher)(nil)

func NewObjectPublisher(server *NatsServer) *ObjectPublisher {
	return &ObjectPublisher{server: server}
}

func (p *ObjectPublisher) PublishToObject(id int64, data []byte) error {
	return p.server.Publish(objectSubject(id), data)
}

// SubscribeObject registers a handler for one object's messages and
// returns an unsubscribe function.
func (p *ObjectPublisher) SubscribeObject(id int64, handler func(data []byte)) (func(), error) {
	return p.server.Subscribe(objectSubject(id), handler)
}

// Broadcast delivers data to every object contained anywhere in the
// world.
func (p *ObjectPublisher) Broadcast(w *world.World, data []byte) error {
	return w.Broadcast(p, data)
}

func objectSubject(id int64) string {
	return fmt.Sprintf("object-%d", id)
}
