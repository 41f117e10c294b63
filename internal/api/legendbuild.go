package api

import (
	"context"
	"fmt"

	"github.com/uwincm/gaia-hazlab-catalog/internal/legend"
	"github.com/uwincm/gaia-hazlab-catalog/internal/service"
	"github.com/uwincm/gaia-hazlab-catalog/internal/wms"
)

const defaultGradientSamples = 64

// BuildLegend renders the legend fragment for a catalog layer.
//
// ok is false when the layer has no legend: either no spec is configured,
// or an image legend relies on WMS discovery and the capability document
// does not advertise one. Both are normal; only transport and config
// mistakes are errors.
func BuildLegend(ctx context.Context, cfg service.LayerConfig, wmsc *wms.Client) (legend.Legend, bool, error) {
	spec := cfg.Legend
	if spec == nil {
		return legend.Legend{}, false, nil
	}

	title := spec.Title
	if title == "" {
		title = cfg.Name
	}

	switch spec.Kind {
	case "gradient":
		ramp, found := legend.RampByName(spec.Ramp, spec.Vmin, spec.Vmax)
		if !found {
			return legend.Legend{}, false, fmt.Errorf("layer %s: unknown ramp %q", cfg.ID, spec.Ramp)
		}
		n := spec.Samples
		if n <= 0 {
			n = defaultGradientSamples
		}
		return legend.Legend{
			Kind:  legend.KindGradient,
			Title: title,
			HTML:  legend.BuildGradient(title, ramp, n),
		}, true, nil

	case "categorical":
		var doc legend.Document
		if len(spec.Document) > 0 {
			parsed, err := legend.ParseDocument(spec.Document)
			if err != nil {
				return legend.Legend{}, false, fmt.Errorf("layer %s: legend document: %w", cfg.ID, err)
			}
			doc = parsed
		}
		return legend.Legend{
			Kind:  legend.KindCategorical,
			Title: title,
			HTML:  legend.BuildCategorical(title, doc),
		}, true, nil

	case "image":
		url := spec.ImageURL
		if url == "" {
			if wmsc == nil || cfg.WMSLayer == "" {
				return legend.Legend{}, false, fmt.Errorf("layer %s: image legend has no URL and no WMS layer to discover from", cfg.ID)
			}
			discovered, err := wmsc.LegendURL(ctx, cfg.WMSLayer)
			if err != nil {
				return legend.Legend{}, false, fmt.Errorf("layer %s: %w", cfg.ID, err)
			}
			if discovered == "" {
				return legend.Legend{}, false, nil
			}
			url = discovered
		}
		return legend.Legend{
			Kind:  legend.KindImage,
			Title: title,
			HTML:  legend.BuildImage(title, url),
		}, true, nil
	}

	return legend.Legend{}, false, fmt.Errorf("layer %s: unknown legend kind %q", cfg.ID, spec.Kind)
}
