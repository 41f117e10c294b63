package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwincm/gaia-hazlab-catalog/internal/service"
)

func TestLayerServiceCRUD(t *testing.T) {
	dir := t.TempDir()
	svc := service.NewLayerService(dir, nil)

	created, err := svc.Create(service.LayerConfig{
		Name: "Vegetation Disturbance",
		Kind: "wms",
		URL:  "https://example.com/wms.cgi",
	})
	require.NoError(t, err)
	assert.Equal(t, "vegetation_disturbance", created.ID, "ID derived from name")

	_, err = svc.Create(service.LayerConfig{ID: created.ID, Name: "dup", Kind: "wms", URL: "u"})
	require.Error(t, err, "duplicate ID rejected")

	got, ok := svc.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Vegetation Disturbance", got.Name)

	got.Opacity = 0.5
	updated, err := svc.Update(created.ID, got)
	require.NoError(t, err)
	assert.Equal(t, 0.5, updated.Opacity)

	// Catalog survives a restart.
	svc2 := service.NewLayerService(dir, nil)
	_, ok = svc2.Get(created.ID)
	assert.True(t, ok)

	require.NoError(t, svc.Delete(created.ID))
	_, ok = svc.Get(created.ID)
	assert.False(t, ok)

	require.Error(t, svc.Delete(created.ID))
}

func TestLayerServiceOrdered(t *testing.T) {
	svc := service.NewLayerService(t.TempDir(), nil)

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		_, err := svc.Create(service.LayerConfig{Name: name, Kind: "tile", URL: "u"})
		require.NoError(t, err)
	}

	ordered := svc.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, "alpha", ordered[0].ID)
	assert.Equal(t, "bravo", ordered[1].ID)
	assert.Equal(t, "charlie", ordered[2].ID)
}

func TestLayerServicePublishesCatalogEvents(t *testing.T) {
	bus := service.NewEventBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	svc := service.NewLayerService(t.TempDir(), bus)

	created, err := svc.Create(service.LayerConfig{Name: "Flood Zones", Kind: "esri", URL: "u"})
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, service.EventCatalog, ev.Type)
	assert.Equal(t, "created", ev.Action)
	assert.Equal(t, created.ID, ev.Layer)

	require.NoError(t, svc.Delete(created.ID))
	ev = <-ch
	assert.Equal(t, "deleted", ev.Action)
}
