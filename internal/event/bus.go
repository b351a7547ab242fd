package event

// Handler reacts to an event. Returning true suppresses the event's default
// action.
type Handler func(ev Event) (preventDefault bool)

type entry struct {
	id uint32
	fn Handler
}

// Bus is one event target.
type Bus struct {
	handlers [kindCount][]entry
	nextID   uint32
}

func NewBus() *Bus {
	return &Bus{}
}

// On registers fn for events of kind k.
func (b *Bus) On(k Kind, fn Handler) Handle {
	if k >= kindCount || fn == nil {
		return Handle{}
	}
	b.nextID++
	b.handlers[k] = append(b.handlers[k], entry{id: b.nextID, fn: fn})
	return Handle{id: b.nextID, kind: k, bus: b}
}

// Dispatch delivers ev to every handler registered for its kind, in
// registration order, and reports whether any of them prevented the default
// action. Handlers added during dispatch first run on the next event, a
// handler removed during dispatch does not run again, not even for the
// current event.
func (b *Bus) Dispatch(ev Event) bool {
	k := ev.Kind()
	if k >= kindCount {
		return false
	}
	hs := b.handlers[k]
	if len(hs) == 0 {
		return false
	}
	snapshot := make([]entry, len(hs))
	copy(snapshot, hs)

	prevented := false
	for _, h := range snapshot {
		if !b.registered(k, h.id) {
			continue
		}
		if h.fn(ev) {
			prevented = true
		}
	}
	return prevented
}

// Len returns the number of handlers registered for k.
func (b *Bus) Len(k Kind) int {
	if k >= kindCount {
		return 0
	}
	return len(b.handlers[k])
}

func (b *Bus) registered(k Kind, id uint32) bool {
	for _, e := range b.handlers[k] {
		if e.id == id {
			return true
		}
	}
	return false
}

func (b *Bus) remove(k Kind, id uint32) {
	s := b.handlers[k]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = entry{}
			b.handlers[k] = s[:len(s)-1]
			return
		}
	}
}

// Handle identifies one subscription.
type Handle struct {
	id   uint32
	kind Kind
	bus  *Bus
}

// Remove unregisters the subscription. Removing twice is a no-op.
func (h Handle) Remove() {
	if h.bus == nil {
		return
	}
	h.bus.remove(h.kind, h.id)
}

// Group owns a set of subscriptions.
type Group struct {
	handles []Handle
}

// Add takes ownership of hs.
func (g *Group) Add(hs ...Handle) {
	g.handles = append(g.handles, hs...)
}

// Len returns the number of subscriptions still owned by g.
func (g *Group) Len() int {
	return len(g.handles)
}

// Close removes every subscription owned by g. It is safe to call more than
// once.
func (g *Group) Close() {
	for _, h := range g.handles {
		h.Remove()
	}
	g.handles = nil
}
