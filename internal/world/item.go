package world

// Item is a portable entity. Because items are carried freely, any
// container change at all drops the spawn association, so a Reset never
// over-counts an item that has been picked up and walked away with.
type Item struct {
	Object
}

// NewItem creates an unplaced item.
func NewItem() *Item {
	i := &Item{}
	i.init(i)
	return i
}

func (i *Item) TypeTag() string { return "item" }

func (i *Item) relocated() {
	i.clearReset()
}
