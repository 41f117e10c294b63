package mapui

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uwincm/gaia-hazlab-catalog/internal/api"
	"github.com/uwincm/gaia-hazlab-catalog/internal/humastar"
	"github.com/uwincm/gaia-hazlab-catalog/internal/legend"
	"github.com/uwincm/gaia-hazlab-catalog/internal/service"
	"github.com/uwincm/gaia-hazlab-catalog/internal/templates"
	"github.com/uwincm/gaia-hazlab-catalog/internal/wms"
)

// MapHandler serves the map session stream and layer toggle endpoints.
type MapHandler struct {
	humastar.Handler
	layers *service.LayerService
	state  *service.MapState
	bus    *service.EventBus
	wmsc   *wms.Client
	log    *zap.Logger
}

// NewMapHandler creates the map UI handler.
func NewMapHandler(layers *service.LayerService, state *service.MapState, bus *service.EventBus,
	wmsc *wms.Client, renderer *templates.Renderer, log *zap.Logger) *MapHandler {
	return &MapHandler{
		Handler: humastar.Handler{Renderer: renderer},
		layers:  layers,
		state:   state,
		bus:     bus,
		wmsc:    wmsc,
		log:     log,
	}
}

// RegisterRoutes registers map UI routes with Huma.
func (h *MapHandler) RegisterRoutes(hapi huma.API) {
	huma.Get(hapi, "/api/v1/map/events", h.Events, huma.OperationTags("map"))
	huma.Get(hapi, "/api/v1/map/layers", h.ListLayers, huma.OperationTags("map"))
	huma.Post(hapi, "/api/v1/map/layers/{id}/toggle", h.ToggleLayer, huma.OperationTags("map"))
}

// Events is the per-session SSE stream. It builds a legend per catalog
// layer, then replays the map's layeradd/layerremove events into the
// session's legend coordinator, which patches the page as layers toggle.
func (h *MapHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		sessionID := uuid.NewString()
		log := h.log.With(zap.String("session", sessionID))

		coord := legend.NewCoordinator[string](&sseScreen{
			sse:      sse,
			renderer: h.Renderer,
			log:      log,
		})

		for _, cfg := range h.layers.Ordered() {
			l, ok, err := api.BuildLegend(ctx, cfg, h.wmsc)
			if err != nil {
				log.Warn("legend build failed",
					zap.String("layer", cfg.ID),
					zap.Error(err))
				continue
			}
			if !ok {
				continue
			}
			coord.Register(l, cfg.ID)
		}

		h.replayShown(coord)

		sse.Signals(map[string]any{"session": sessionID})
		sse.Patch(h.renderLayerList(), "#layer-list")

		ch := h.bus.Subscribe()
		defer h.bus.Unsubscribe(ch)

		log.Info("map session started", zap.Int("legends", coord.Len()))

		for {
			select {
			case <-ctx.Done():
				log.Info("map session closed")
				return
			case ev := <-ch:
				switch ev.Type {
				case service.EventLayerAdd:
					coord.LayerAdded(ev.Layer)
				case service.EventLayerRemove:
					coord.LayerRemoved(ev.Layer)
				case service.EventCatalog:
					sse.Patch(h.renderLayerList(), "#layer-list")
				}
			}
		}
	}), nil
}

// ListLayers renders the layer toggle list fragment.
func (h *MapHandler) ListLayers(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.renderLayerList(), "#layer-list")
	}), nil
}

// ToggleInput identifies the layer being toggled.
type ToggleInput struct {
	ID string `path:"id" doc:"Layer ID to toggle"`
}

// ToggleLayer flips a layer on or off the shared map. The resulting
// layeradd/layerremove event fans out to every session's legend
// coordinator via the bus.
func (h *MapHandler) ToggleLayer(ctx context.Context, input *ToggleInput) (*huma.StreamResponse, error) {
	cfg, ok := h.layers.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("layer not found")
	}

	return h.Stream(func(sse humastar.SSE) {
		shown := h.state.Toggle(cfg.ID)
		h.log.Debug("layer toggled",
			zap.String("layer", cfg.ID),
			zap.Bool("shown", shown))

		sse.Patch(h.renderLayerList(), "#layer-list")
	}), nil
}

// replayShown feeds layers already on the shared map into a fresh session's
// coordinator, so a browser joining mid-session sees the active legend
// instead of waiting for the next toggle.
func (h *MapHandler) replayShown(coord *legend.Coordinator[string]) {
	for _, cfg := range h.layers.Ordered() {
		if h.state.IsShown(cfg.ID) {
			coord.LayerAdded(cfg.ID)
		}
	}
}

type layerCardData struct {
	ID      string
	Name    string
	Kind    string
	Visible bool
}

func (h *MapHandler) renderLayerList() string {
	ordered := h.layers.Ordered()

	items := make([]any, len(ordered))
	for i, cfg := range ordered {
		items[i] = layerCardData{
			ID:      cfg.ID,
			Name:    cfg.Name,
			Kind:    cfg.Kind,
			Visible: h.state.IsShown(cfg.ID),
		}
	}

	return h.RenderList("layer-card", items, "No layers configured", "Add a layer to get started")
}
