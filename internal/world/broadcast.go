package world

// Publisher delivers opaque payloads to individual entities. The
// messaging layer implements it; this core only decides who receives.
type Publisher interface {
	PublishToObject(id int64, data []byte) error
}

// Broadcast sends data to every member of the world through the
// publisher. Delivery errors do not stop the sweep; the first one is
// returned.
func (w *World) Broadcast(p Publisher, data []byte) error {
	var firstErr error
	for _, m := range w.members {
		if err := p.PublishToObject(m.Base().ID(), data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
