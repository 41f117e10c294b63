package service

import "sync"

// MapState mirrors the landing page map's layer set on the server. Layer
// toggles mutate it, and it emits the layeradd/layerremove stream that
// legend coordination is driven from.
type MapState struct {
	mu    sync.Mutex
	bus   *EventBus
	shown map[string]bool
}

// NewMapState creates map state publishing to bus.
func NewMapState(bus *EventBus) *MapState {
	return &MapState{bus: bus, shown: make(map[string]bool)}
}

// Show adds a layer to the map. Re-adding a shown layer still publishes;
// downstream handlers treat the duplicate as harmless.
func (m *MapState) Show(id string) {
	m.mu.Lock()
	m.shown[id] = true
	m.mu.Unlock()

	m.bus.Publish(Event{Type: EventLayerAdd, Layer: id})
}

// Hide removes a layer from the map. Hiding a layer that is not shown is
// a no-op and publishes nothing, matching how map libraries only fire
// layerremove for layers actually on the map.
func (m *MapState) Hide(id string) {
	m.mu.Lock()
	wasShown := m.shown[id]
	delete(m.shown, id)
	m.mu.Unlock()

	if wasShown {
		m.bus.Publish(Event{Type: EventLayerRemove, Layer: id})
	}
}

// ShowDefaults shows every layer configured to start visible. Called once
// at startup, before any session subscribes.
func (m *MapState) ShowDefaults(layers []LayerConfig) {
	for _, l := range layers {
		if l.DefaultVisible {
			m.Show(l.ID)
		}
	}
}

// Toggle flips a layer's visibility and returns the new state.
func (m *MapState) Toggle(id string) bool {
	m.mu.Lock()
	show := !m.shown[id]
	m.mu.Unlock()

	if show {
		m.Show(id)
	} else {
		m.Hide(id)
	}
	return show
}

// IsShown reports whether a layer is currently on the map.
func (m *MapState) IsShown(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown[id]
}
