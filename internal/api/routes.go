// Package api defines the Huma REST routes for the hazard catalog.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"github.com/uwincm/gaia-hazlab-catalog/internal/geo"
	"github.com/uwincm/gaia-hazlab-catalog/internal/humastar"
	"github.com/uwincm/gaia-hazlab-catalog/internal/service"
	"github.com/uwincm/gaia-hazlab-catalog/internal/wms"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Layer   *service.LayerService
	Bus     *service.EventBus
	WMS     *wms.Client
	Sites   *geo.Index
	DataDir string
}

// Types

type IDInput struct {
	ID string `path:"id" doc:"Layer ID" example:"opera_dist"`
}

type ListInput struct {
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
	Limit  int `query:"limit" minimum:"1" maximum:"100" default:"50" doc:"Page size"`
}

// LayerBody is a layer configuration plus its hypermedia actions.
type LayerBody struct {
	service.LayerConfig
}

var layerActions = []humastar.ActionDef{
	{Rel: "toggle", Pattern: "/api/v1/map/layers/%s/toggle", Method: "POST", Title: "Toggle layer on the map"},
	{Rel: "legend", Pattern: "/api/v1/layers/%s/legend", Method: "GET", Title: "Preview legend"},
	{Rel: "delete", Pattern: "/api/v1/layers/%s", Method: "DELETE", Title: "Delete layer"},
}

// Actions implements humastar.Actor.
func (b LayerBody) Actions() []humastar.Action {
	return humastar.ActionsFor(b.ID, layerActions)
}

type LayerOutput struct {
	Body LayerBody
}

type LayersOutput struct {
	Body humastar.PageBody[service.LayerConfig]
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type CreatedLayerBody struct {
	ID      string              `json:"id" doc:"Generated layer ID"`
	Layer   service.LayerConfig `json:"layer" doc:"Created layer configuration"`
	Message string              `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DataDir  string   `json:"dataDir" doc:"Catalog data directory"`
	Features []string `json:"features" doc:"Enabled feature set"`
}

type LegendBody struct {
	LayerID string `json:"layerId" doc:"Layer the legend belongs to"`
	Kind    string `json:"kind" doc:"Legend kind" example:"gradient"`
	Title   string `json:"title" doc:"Panel title"`
	HTML    string `json:"html" doc:"Rendered legend fragment"`
}

type WMSLegendInput struct {
	Layer    string `query:"layer" required:"true" doc:"WMS layer name" example:"OPERA_L3_DIST-ANN-HLS_Color_Index"`
	Endpoint string `query:"endpoint" doc:"Override the configured GetCapabilities endpoint"`
}

type WMSLegendBody struct {
	Layer string `json:"layer" doc:"WMS layer name"`
	URL   string `json:"url" doc:"Legend image URL, empty when the service advertises none"`
	Found bool   `json:"found" doc:"Whether the capability document advertises a legend"`
}

type NearestInput struct {
	Lon float64 `query:"lon" required:"true" minimum:"-180" maximum:"180" doc:"Longitude"`
	Lat float64 `query:"lat" required:"true" minimum:"-90" maximum:"90" doc:"Latitude"`
}

type NearestBody struct {
	Site     geo.Site `json:"site" doc:"Closest indexed site"`
	Distance float64  `json:"distanceMeters" doc:"Haversine distance to the site"`
}

type NearestBatchInput struct {
	Body struct {
		Points [][2]float64 `json:"points" required:"true" maxItems:"10000" doc:"Query points as [lon, lat] pairs"`
	}
}

type NearestBatchBody struct {
	Sites []geo.Site `json:"sites" doc:"Closest site per query point, in input order"`
}

// APIHandler holds all REST API handlers.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterRoutes registers all REST routes with Huma.
func (h *APIHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))

	huma.Get(api, "/api/v1/layers", h.GetLayers, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/layers", h.CreateLayer, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/{id}", h.GetLayer, huma.OperationTags("layers"))
	huma.Put(api, "/api/v1/layers/{id}", h.PutLayer, huma.OperationTags("layers"))
	huma.Delete(api, "/api/v1/layers/{id}", h.DeleteLayer, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/{id}/legend", h.GetLayerLegend, huma.OperationTags("legends"))

	huma.Get(api, "/api/v1/wms/layers", h.GetWMSLayers, huma.OperationTags("wms"))
	huma.Get(api, "/api/v1/wms/legend", h.GetWMSLegend, huma.OperationTags("wms"))

	huma.Get(api, "/api/v1/sites/nearest", h.GetNearestSite, huma.OperationTags("sites"))
	huma.Post(api, "/api/v1/sites/nearest", h.PostNearestBatch, huma.OperationTags("sites"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:    "gaia-hazlab-catalog",
		Version: "1.0.0",
		DataDir: h.svc.DataDir,
		Features: []string{
			"legends",
			"wms-discovery",
			"nearest-sites",
			"duckdb",
		},
	}}, nil
}

func (h *APIHandler) GetLayers(ctx context.Context, input *ListInput) (*LayersOutput, error) {
	ordered := h.svc.Layer.Ordered()

	page := humastar.PageBody[service.LayerConfig]{
		Total:  len(ordered),
		Offset: input.Offset,
		Limit:  input.Limit,
		Data:   []service.LayerConfig{},
	}

	if input.Offset < len(ordered) {
		end := input.Offset + input.Limit
		if end > len(ordered) {
			end = len(ordered)
		}
		page.Data = ordered[input.Offset:end]
	}

	return &LayersOutput{Body: page}, nil
}

func (h *APIHandler) CreateLayer(ctx context.Context, input *struct{ Body service.LayerConfig }) (*struct{ Body CreatedLayerBody }, error) {
	created, err := h.svc.Layer.Create(input.Body)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &struct{ Body CreatedLayerBody }{Body: CreatedLayerBody{
		ID: created.ID, Layer: created, Message: "Layer created",
	}}, nil
}

func (h *APIHandler) GetLayer(ctx context.Context, input *IDInput) (*LayerOutput, error) {
	layer, ok := h.svc.Layer.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("layer not found")
	}
	return &LayerOutput{Body: LayerBody{LayerConfig: layer}}, nil
}

func (h *APIHandler) PutLayer(ctx context.Context, input *struct {
	IDInput
	Body service.LayerConfig
}) (*LayerOutput, error) {
	updated, err := h.svc.Layer.Update(input.ID, input.Body)
	if err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &LayerOutput{Body: LayerBody{LayerConfig: updated}}, nil
}

func (h *APIHandler) DeleteLayer(ctx context.Context, input *IDInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Layer.Delete(input.ID); err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Layer deleted"}}, nil
}

func (h *APIHandler) GetLayerLegend(ctx context.Context, input *IDInput) (*struct{ Body LegendBody }, error) {
	layer, ok := h.svc.Layer.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("layer not found")
	}

	l, ok, err := BuildLegend(ctx, layer, h.svc.WMS)
	if err != nil {
		return nil, huma.Error502BadGateway(err.Error())
	}
	if !ok {
		return nil, huma.Error404NotFound("layer has no legend")
	}

	return &struct{ Body LegendBody }{Body: LegendBody{
		LayerID: layer.ID,
		Kind:    l.Kind.String(),
		Title:   l.Title,
		HTML:    l.HTML,
	}}, nil
}

func (h *APIHandler) GetWMSLayers(ctx context.Context, input *struct{}) (*struct {
	Body struct {
		Layers []string `json:"layers" doc:"Named layers in the capability document"`
	}
}, error) {
	if h.svc.WMS == nil {
		return nil, huma.Error503ServiceUnavailable("WMS client not configured")
	}

	names, err := h.svc.WMS.LayerNames(ctx)
	if err != nil {
		return nil, huma.Error502BadGateway(err.Error())
	}

	out := &struct {
		Body struct {
			Layers []string `json:"layers" doc:"Named layers in the capability document"`
		}
	}{}
	out.Body.Layers = names
	return out, nil
}

func (h *APIHandler) GetWMSLegend(ctx context.Context, input *WMSLegendInput) (*struct{ Body WMSLegendBody }, error) {
	client := h.svc.WMS
	if input.Endpoint != "" {
		client = wms.NewClient(input.Endpoint, nil)
	}
	if client == nil {
		return nil, huma.Error503ServiceUnavailable("WMS client not configured")
	}

	url, err := client.LegendURL(ctx, input.Layer)
	if err != nil {
		return nil, huma.Error502BadGateway(err.Error())
	}

	return &struct{ Body WMSLegendBody }{Body: WMSLegendBody{
		Layer: input.Layer,
		URL:   url,
		Found: url != "",
	}}, nil
}

func (h *APIHandler) GetNearestSite(ctx context.Context, input *NearestInput) (*struct{ Body NearestBody }, error) {
	if h.svc.Sites == nil {
		return nil, huma.Error503ServiceUnavailable("site index not configured")
	}

	p := orb.Point{input.Lon, input.Lat}
	site := h.svc.Sites.Nearest(p)

	return &struct{ Body NearestBody }{Body: NearestBody{
		Site:     site,
		Distance: geo.DistanceMeters(p, site.Location),
	}}, nil
}

func (h *APIHandler) PostNearestBatch(ctx context.Context, input *NearestBatchInput) (*struct{ Body NearestBatchBody }, error) {
	if h.svc.Sites == nil {
		return nil, huma.Error503ServiceUnavailable("site index not configured")
	}

	pts := make([]orb.Point, len(input.Body.Points))
	for i, p := range input.Body.Points {
		pts[i] = orb.Point{p[0], p[1]}
	}

	sites, err := h.svc.Sites.NearestBatch(ctx, pts, 0)
	if err != nil {
		return nil, huma.Error500InternalServerError("nearest lookup failed", err)
	}

	return &struct{ Body NearestBatchBody }{Body: NearestBatchBody{Sites: sites}}, nil
}
