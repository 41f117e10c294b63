// Package wms fetches WMS GetCapabilities documents and extracts per-layer
// legend metadata. The landing page only consumes a single string per layer
// (the legend image URL), so the document itself stays internal.
package wms

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultEndpoint is the NASA GIBS WMS behind the landing page basemaps.
const DefaultEndpoint = "https://gibs.earthdata.nasa.gov/wms/epsg3857/best/wms.cgi"

// Client queries one WMS endpoint for capability metadata.
type Client struct {
	endpoint string
	httpc    *http.Client
}

// NewClient creates a client for the given WMS endpoint. An empty endpoint
// falls back to [DefaultEndpoint]; a nil httpc uses http.DefaultClient.
func NewClient(endpoint string, httpc *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpc: httpc}
}

// Endpoint returns the WMS endpoint URL this client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// WMS 1.3.0 capability document, reduced to the elements we read.
// Unqualified tags match the http://www.opengis.net/wms namespace.
type capabilities struct {
	XMLName xml.Name   `xml:"WMS_Capabilities"`
	Layers  []capLayer `xml:"Capability>Layer"`
}

type capLayer struct {
	Name   string     `xml:"Name"`
	Styles []capStyle `xml:"Style"`
	Layers []capLayer `xml:"Layer"`
}

type capStyle struct {
	LegendURLs []capLegendURL `xml:"LegendURL"`
}

type capLegendURL struct {
	OnlineResource capOnlineResource `xml:"OnlineResource"`
}

type capOnlineResource struct {
	Href string `xml:"http://www.w3.org/1999/xlink href,attr"`
}

// LegendURL returns the legend image URL advertised for the named layer.
//
// A well-formed document that does not mention the layer, or offers no
// legend for it, returns ("", nil): callers treat empty as "no legend".
// Transport failures, non-2xx responses, and XML that does not parse are
// errors, so the two cases are distinguishable.
func (c *Client) LegendURL(ctx context.Context, layerName string) (string, error) {
	caps, err := c.getCapabilities(ctx)
	if err != nil {
		return "", err
	}
	l := findLayer(caps.Layers, layerName)
	if l == nil {
		return "", nil
	}
	return firstLegendHref(l), nil
}

// LayerNames returns every named layer in the capability document, in
// document order.
func (c *Client) LayerNames(ctx context.Context) ([]string, error) {
	caps, err := c.getCapabilities(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	collectNames(caps.Layers, &names)
	return names, nil
}

func (c *Client) getCapabilities(ctx context.Context) (*capabilities, error) {
	// Endpoints may already carry query parameters (e.g. ?map=...), so the
	// request parameters merge into them instead of appending a second "?".
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("SERVICE", "WMS")
	q.Set("REQUEST", "GetCapabilities")
	q.Set("VERSION", "1.3.0")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build capabilities request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch capabilities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch capabilities: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read capabilities: %w", err)
	}

	var caps capabilities
	if err := xml.Unmarshal(body, &caps); err != nil {
		return nil, fmt.Errorf("parse capabilities: %w", err)
	}
	return &caps, nil
}

// findLayer walks the (nested) layer tree for the first layer with the
// given name.
func findLayer(layers []capLayer, name string) *capLayer {
	for i := range layers {
		if layers[i].Name == name {
			return &layers[i]
		}
		if l := findLayer(layers[i].Layers, name); l != nil {
			return l
		}
	}
	return nil
}

// firstLegendHref returns the first LegendURL href under the layer,
// checking its own styles before any sublayers.
func firstLegendHref(l *capLayer) string {
	for _, s := range l.Styles {
		for _, lu := range s.LegendURLs {
			if lu.OnlineResource.Href != "" {
				return lu.OnlineResource.Href
			}
		}
	}
	for i := range l.Layers {
		if href := firstLegendHref(&l.Layers[i]); href != "" {
			return href
		}
	}
	return ""
}

func collectNames(layers []capLayer, names *[]string) {
	for i := range layers {
		if layers[i].Name != "" {
			*names = append(*names, layers[i].Name)
		}
		collectNames(layers[i].Layers, names)
	}
}
