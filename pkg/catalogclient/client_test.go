//go:build integration

// Integration test for the catalog client.
// Requires a running server: task run
//
// Run: go test -tags=integration ./pkg/catalogclient/
package catalogclient_test

import (
	"context"
	"os"
	"testing"

	"github.com/uwincm/gaia-hazlab-catalog/pkg/catalogclient"
)

func baseURL() string {
	if u := os.Getenv("GAIA_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8088"
}

func client() *catalogclient.Client {
	return catalogclient.New(baseURL())
}

func TestHealth(t *testing.T) {
	body, err := client().GetHealth(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Fatalf("status=%q, want ok", body.Status)
	}
}

func TestLayerCRUD(t *testing.T) {
	c := client()
	ctx := context.Background()

	_, err := c.ListLayers(ctx)
	if err != nil {
		t.Fatal("list:", err)
	}

	created, err := c.CreateLayer(ctx, catalogclient.LayerConfig{
		Name:    "Integration Test",
		Kind:    "wms",
		URL:     "https://gibs.earthdata.nasa.gov/wms/epsg3857/best/wms.cgi",
		Opacity: 0.5,
	})
	if err != nil {
		t.Fatal("create:", err)
	}

	layer, err := c.GetLayer(ctx, created.ID)
	if err != nil {
		t.Fatal("get:", err)
	}
	if layer.Name != "Integration Test" {
		t.Fatalf("name=%q, want Integration Test", layer.Name)
	}

	if err := c.DeleteLayer(ctx, created.ID); err != nil {
		t.Fatal("delete:", err)
	}
}

func TestWMSLegendDiscovery(t *testing.T) {
	body, err := client().GetWMSLegend(context.Background(), "OPERA_L3_DIST-ANN-HLS_Color_Index")
	if err != nil {
		t.Fatal(err)
	}
	if body.Found && body.URL == "" {
		t.Fatal("found legend with empty URL")
	}
}

func TestNearestSite(t *testing.T) {
	body, err := client().GetNearestSite(context.Background(), -118.44, 34.07)
	if err != nil {
		t.Skip("site index not configured:", err)
	}
	if body.Site.ID == "" {
		t.Fatal("nearest site has empty ID")
	}
}
