package service

import "sync"

// Event types carried on the bus. Map events mirror the Leaflet event
// names the landing page listens for.
const (
	EventLayerAdd    = "layeradd"
	EventLayerRemove = "layerremove"
	EventCatalog     = "catalog"
)

// Event is a map interaction or catalog mutation notification.
type Event struct {
	Type   string `json:"type"`             // layeradd, layerremove, catalog
	Layer  string `json:"layer,omitempty"`  // layer ID the event refers to
	Action string `json:"action,omitempty"` // catalog only: created, updated, deleted
}

// EventBus is a simple fan-out pub/sub for map and catalog events. Each
// browser session subscribes once and drives its legend coordinator from
// the stream.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]struct{})}
}

// Publish sends an event to all subscribers (non-blocking).
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives events.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}
