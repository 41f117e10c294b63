// Package catalogclient is a small Go client for the hazard catalog API.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client talks to a running catalog server.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:8088".
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpc: http.DefaultClient}
}

// LayerConfig mirrors the server's layer configuration body.
type LayerConfig struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`
	URL            string  `json:"url"`
	WMSLayer       string  `json:"wmsLayer,omitempty"`
	Opacity        float64 `json:"opacity,omitempty"`
	DefaultVisible bool    `json:"defaultVisible"`
}

// Health is the /health response body.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// LayerPage is a page of layers.
type LayerPage struct {
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
	Data   []LayerConfig `json:"data"`
}

// CreatedLayer is the create-layer response body.
type CreatedLayer struct {
	ID      string      `json:"id"`
	Layer   LayerConfig `json:"layer"`
	Message string      `json:"message"`
}

// Legend is a rendered legend fragment.
type Legend struct {
	LayerID string `json:"layerId"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	HTML    string `json:"html"`
}

// WMSLegend is a discovered legend URL.
type WMSLegend struct {
	Layer string `json:"layer"`
	URL   string `json:"url"`
	Found bool   `json:"found"`
}

// NearestSite is the nearest-site response body.
type NearestSite struct {
	Site struct {
		ID       string     `json:"id"`
		Name     string     `json:"name"`
		Location [2]float64 `json:"location"`
	} `json:"site"`
	Distance float64 `json:"distanceMeters"`
}

func (c *Client) GetHealth(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func (c *Client) ListLayers(ctx context.Context) (LayerPage, error) {
	var out LayerPage
	err := c.do(ctx, http.MethodGet, "/api/v1/layers", nil, &out)
	return out, err
}

func (c *Client) CreateLayer(ctx context.Context, layer LayerConfig) (CreatedLayer, error) {
	var out CreatedLayer
	err := c.do(ctx, http.MethodPost, "/api/v1/layers", layer, &out)
	return out, err
}

func (c *Client) GetLayer(ctx context.Context, id string) (LayerConfig, error) {
	var out LayerConfig
	err := c.do(ctx, http.MethodGet, "/api/v1/layers/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) DeleteLayer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/layers/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetLegend(ctx context.Context, id string) (Legend, error) {
	var out Legend
	err := c.do(ctx, http.MethodGet, "/api/v1/layers/"+url.PathEscape(id)+"/legend", nil, &out)
	return out, err
}

func (c *Client) GetWMSLegend(ctx context.Context, layer string) (WMSLegend, error) {
	var out WMSLegend
	err := c.do(ctx, http.MethodGet, "/api/v1/wms/legend?layer="+url.QueryEscape(layer), nil, &out)
	return out, err
}

func (c *Client) GetNearestSite(ctx context.Context, lon, lat float64) (NearestSite, error) {
	var out NearestSite
	path := fmt.Sprintf("/api/v1/sites/nearest?lon=%g&lat=%g", lon, lat)
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, data)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
