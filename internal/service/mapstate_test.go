package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwincm/gaia-hazlab-catalog/internal/service"
)

func TestMapStateToggle(t *testing.T) {
	bus := service.NewEventBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	state := service.NewMapState(bus)

	require.True(t, state.Toggle("hazard"))
	assert.True(t, state.IsShown("hazard"))

	ev := <-ch
	assert.Equal(t, service.EventLayerAdd, ev.Type)
	assert.Equal(t, "hazard", ev.Layer)

	require.False(t, state.Toggle("hazard"))
	assert.False(t, state.IsShown("hazard"))

	ev = <-ch
	assert.Equal(t, service.EventLayerRemove, ev.Type)
}

func TestMapStateHideHiddenPublishesNothing(t *testing.T) {
	bus := service.NewEventBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	state := service.NewMapState(bus)
	state.Hide("hazard")

	assert.Empty(t, ch, "hiding an absent layer must not emit layerremove")
}

func TestMapStateShowDefaults(t *testing.T) {
	bus := service.NewEventBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	state := service.NewMapState(bus)
	state.ShowDefaults([]service.LayerConfig{
		{ID: "hazard", DefaultVisible: true},
		{ID: "flood"},
		{ID: "burn", DefaultVisible: true},
	})

	assert.True(t, state.IsShown("hazard"))
	assert.False(t, state.IsShown("flood"))
	assert.True(t, state.IsShown("burn"))

	for _, want := range []string{"hazard", "burn"} {
		ev := <-ch
		assert.Equal(t, service.EventLayerAdd, ev.Type)
		assert.Equal(t, want, ev.Layer)
	}
	assert.Empty(t, ch, "non-default layers must not emit layeradd")
}

func TestMapStateReShowPublishesAgain(t *testing.T) {
	bus := service.NewEventBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	state := service.NewMapState(bus)
	state.Show("hazard")
	state.Show("hazard")

	assert.Equal(t, service.EventLayerAdd, (<-ch).Type)
	assert.Equal(t, service.EventLayerAdd, (<-ch).Type, "re-add is forwarded, not swallowed")
}
