// Package service contains the layer catalog and map-event logic behind
// the hazard landing page.
package service

import "encoding/json"

// LayerConfig describes one toggleable hazard overlay on the landing page.
// Huma reads the tags for OpenAPI docs and request validation.
type LayerConfig struct {
	ID             string      `json:"id,omitempty" doc:"Unique layer identifier" example:"opera_dist"`
	Name           string      `json:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name" example:"Vegetation Disturbance"`
	Kind           string      `json:"kind" required:"true" enum:"wms,tile,esri" doc:"Tile source type" example:"wms"`
	URL            string      `json:"url" required:"true" doc:"Tile or service URL" example:"https://gibs.earthdata.nasa.gov/wms/epsg3857/best/wms.cgi"`
	WMSLayer       string      `json:"wmsLayer,omitempty" doc:"WMS layer identifier for capability lookups" example:"OPERA_L3_DIST-ANN-HLS_Color_Index"`
	Opacity        float64     `json:"opacity,omitempty" minimum:"0" maximum:"1" default:"0.8" doc:"Layer opacity (0-1)"`
	DefaultVisible bool        `json:"defaultVisible" default:"false" doc:"Whether the layer starts visible"`
	Legend         *LegendSpec `json:"legend,omitempty" doc:"How to build this layer's legend"`
}

// LegendSpec selects one of the three legend builders and carries its
// inputs. Exactly one of the per-kind field groups is meaningful.
type LegendSpec struct {
	Kind  string `json:"kind" required:"true" enum:"gradient,categorical,image" doc:"Legend kind"`
	Title string `json:"title,omitempty" doc:"Panel title" default:"Legend"`

	// gradient: a named color ramp sampled over [vmin, vmax].
	Ramp    string  `json:"ramp,omitempty" doc:"Built-in ramp name" example:"viridis"`
	Vmin    float64 `json:"vmin,omitempty" doc:"Data range minimum"`
	Vmax    float64 `json:"vmax,omitempty" doc:"Data range maximum"`
	Samples int     `json:"samples,omitempty" minimum:"0" maximum:"512" doc:"Swatch count (default 64)"`

	// categorical: an inline ESRI MapServer legend document.
	Document json.RawMessage `json:"document,omitempty" doc:"ESRI legend JSON"`

	// image: explicit legend image URL. Empty means discover it from the
	// layer's WMS capabilities at session start.
	ImageURL string `json:"imageUrl,omitempty" doc:"Remote legend image URL"`
}
