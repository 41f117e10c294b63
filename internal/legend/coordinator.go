// Package legend builds map legend fragments and coordinates their
// visibility against layer toggle events.
package legend

// Kind partitions registered legends by how their content is built.
type Kind int

const (
	KindGradient Kind = iota
	KindCategorical
	KindImage
)

// kinds is the fixed scan order for the exclusivity sweep.
var kinds = [...]Kind{KindGradient, KindCategorical, KindImage}

func (k Kind) String() string {
	switch k {
	case KindGradient:
		return "gradient"
	case KindCategorical:
		return "categorical"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Legend is a single registered legend: an identifier plus the rendered
// fragment shown while its layer is active.
type Legend struct {
	ID    int
	Kind  Kind
	Title string
	HTML  string
}

// Screen is the surface legends appear on. The web implementation patches
// the map's legend container over SSE; tests use an in-memory fake.
type Screen interface {
	Attach(l Legend)
	Detach(l Legend)
}

// entry binds a legend to the layer it tracks.
type entry[L comparable] struct {
	legend  Legend
	layer   L
	visible bool
}

// pendingEvent is a layer event raised from inside a Screen callback,
// held until the sweep that triggered it finishes.
type pendingEvent[L comparable] struct {
	layer L
	add   bool
}

// Coordinator enforces the single-visible-legend rule: the only legend on
// screen is the one bound to the most recently added layer. It is not safe
// for concurrent use; callers drive it from a single event stream, matching
// a browser event loop.
type Coordinator[L comparable] struct {
	screen      Screen
	parts       map[Kind][]*entry[L]
	nextID      int
	dispatching bool
	pending     []pendingEvent[L]
}

// NewCoordinator creates a coordinator that shows legends on screen.
func NewCoordinator[L comparable](screen Screen) *Coordinator[L] {
	return &Coordinator[L]{
		screen: screen,
		parts:  make(map[Kind][]*entry[L]),
	}
}

// Register binds a legend to a layer and returns the assigned identifier.
// The legend starts hidden; it appears when its layer is next added.
func (c *Coordinator[L]) Register(l Legend, layer L) int {
	c.nextID++
	l.ID = c.nextID
	c.parts[l.Kind] = append(c.parts[l.Kind], &entry[L]{legend: l, layer: layer})
	return l.ID
}

// LayerAdded handles a layeradd event. Every visible legend is cleared
// before the matching legend is shown, so two legends are never on screen
// at once (there may be a moment with none). Unknown layers are a no-op,
// and re-adding an already-active layer is harmless.
//
// Events raised from inside a Screen callback are queued and applied after
// the running sweep completes: a Detach that itself adds a layer would
// otherwise activate its legend mid-sweep, and the outer event would then
// attach a second one on top.
func (c *Coordinator[L]) LayerAdded(layer L) {
	defer dropPanic()
	if c.dispatching {
		c.pending = append(c.pending, pendingEvent[L]{layer: layer, add: true})
		return
	}
	c.dispatching = true
	defer c.drain()
	c.applyAdd(layer)
}

// LayerRemoved handles a layerremove event. Only the visible legend reacts;
// removing a layer whose legend is hidden changes nothing. Reentrant events
// queue like in LayerAdded.
func (c *Coordinator[L]) LayerRemoved(layer L) {
	defer dropPanic()
	if c.dispatching {
		c.pending = append(c.pending, pendingEvent[L]{layer: layer})
		return
	}
	c.dispatching = true
	defer c.drain()
	c.applyRemove(layer)
}

func (c *Coordinator[L]) applyAdd(layer L) {
	for _, e := range c.matches(layer) {
		c.hideAll()
		e.visible = true
		c.screen.Attach(e.legend)
	}
}

func (c *Coordinator[L]) applyRemove(layer L) {
	for _, e := range c.matches(layer) {
		if e.visible {
			e.visible = false
			c.screen.Detach(e.legend)
		}
	}
}

// drain applies events queued during a sweep, in arrival order. Events
// queued while draining join the same queue, matching how a browser event
// loop serializes handlers.
func (c *Coordinator[L]) drain() {
	defer func() {
		c.dispatching = false
		c.pending = nil
	}()
	for len(c.pending) > 0 {
		ev := c.pending[0]
		c.pending = c.pending[1:]
		if ev.add {
			c.applyAdd(ev.layer)
		} else {
			c.applyRemove(ev.layer)
		}
	}
}

// Visible returns the legend currently on screen, if any.
func (c *Coordinator[L]) Visible() (Legend, bool) {
	for _, k := range kinds {
		for _, e := range c.parts[k] {
			if e.visible {
				return e.legend, true
			}
		}
	}
	return Legend{}, false
}

// Len returns the number of registered legends across all partitions.
func (c *Coordinator[L]) Len() int {
	n := 0
	for _, k := range kinds {
		n += len(c.parts[k])
	}
	return n
}

// hideAll clears every visible legend across all partitions in fixed order.
// It snapshots first so a Screen that dispatches events synchronously from
// Detach cannot corrupt the scan.
func (c *Coordinator[L]) hideAll() {
	var visible []*entry[L]
	for _, k := range kinds {
		for _, e := range c.parts[k] {
			if e.visible {
				visible = append(visible, e)
			}
		}
	}
	for _, e := range visible {
		e.visible = false
		c.screen.Detach(e.legend)
	}
}

func (c *Coordinator[L]) matches(layer L) []*entry[L] {
	var out []*entry[L]
	for _, k := range kinds {
		for _, e := range c.parts[k] {
			if e.layer == layer {
				out = append(out, e)
			}
		}
	}
	return out
}

// dropPanic keeps a misbehaving Screen from taking down the event stream;
// one broken patch must not break every later map interaction.
func dropPanic() {
	_ = recover()
}
