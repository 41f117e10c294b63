package wms_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwincm/gaia-hazlab-catalog/internal/wms"
)

const capabilitiesDoc = `<?xml version="1.0" encoding="UTF-8"?>
<WMS_Capabilities xmlns="http://www.opengis.net/wms"
                  xmlns:xlink="http://www.w3.org/1999/xlink" version="1.3.0">
  <Service><Name>WMS</Name></Service>
  <Capability>
    <Layer>
      <Title>Root</Title>
      <Layer>
        <Name>X</Name>
        <Title>Hazard Index</Title>
        <Style>
          <Name>default</Name>
          <LegendURL width="420" height="95">
            <Format>image/png</Format>
            <OnlineResource xlink:type="simple" xlink:href="http://example.com/legend.png"/>
          </LegendURL>
        </Style>
      </Layer>
      <Layer>
        <Name>NoLegend</Name>
        <Title>Bare layer</Title>
      </Layer>
    </Layer>
  </Capability>
</WMS_Capabilities>`

func capabilitiesServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "WMS", q.Get("SERVICE"))
		assert.Equal(t, "GetCapabilities", q.Get("REQUEST"))
		assert.Equal(t, "1.3.0", q.Get("VERSION"))

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLegendURLFound(t *testing.T) {
	srv := capabilitiesServer(t, http.StatusOK, capabilitiesDoc)
	c := wms.NewClient(srv.URL, srv.Client())

	href, err := c.LegendURL(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/legend.png", href)
}

func TestLegendURLAbsentLayer(t *testing.T) {
	srv := capabilitiesServer(t, http.StatusOK, capabilitiesDoc)
	c := wms.NewClient(srv.URL, srv.Client())

	href, err := c.LegendURL(context.Background(), "Missing")
	require.NoError(t, err, "absent layer is not-found, not an error")
	assert.Empty(t, href)
}

func TestLegendURLLayerWithoutLegend(t *testing.T) {
	srv := capabilitiesServer(t, http.StatusOK, capabilitiesDoc)
	c := wms.NewClient(srv.URL, srv.Client())

	href, err := c.LegendURL(context.Background(), "NoLegend")
	require.NoError(t, err)
	assert.Empty(t, href)
}

func TestLegendURLServerError(t *testing.T) {
	srv := capabilitiesServer(t, http.StatusBadGateway, "upstream broken")
	c := wms.NewClient(srv.URL, srv.Client())

	_, err := c.LegendURL(context.Background(), "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestLegendURLMalformedXML(t *testing.T) {
	srv := capabilitiesServer(t, http.StatusOK, "<WMS_Capabilities><unclosed>")
	c := wms.NewClient(srv.URL, srv.Client())

	_, err := c.LegendURL(context.Background(), "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse capabilities")
}

func TestLegendURLEndpointWithQueryString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "hazards", q.Get("map"), "existing endpoint parameters must survive")
		assert.Equal(t, "WMS", q.Get("SERVICE"))
		assert.Equal(t, "GetCapabilities", q.Get("REQUEST"))
		assert.Equal(t, "1.3.0", q.Get("VERSION"))

		w.Write([]byte(capabilitiesDoc))
	}))
	t.Cleanup(srv.Close)

	c := wms.NewClient(srv.URL+"/wms.cgi?map=hazards", srv.Client())

	href, err := c.LegendURL(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/legend.png", href)
}

func TestLayerNames(t *testing.T) {
	srv := capabilitiesServer(t, http.StatusOK, capabilitiesDoc)
	c := wms.NewClient(srv.URL, srv.Client())

	names, err := c.LayerNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "NoLegend"}, names)
}

func TestDefaultEndpoint(t *testing.T) {
	c := wms.NewClient("", nil)
	assert.Equal(t, wms.DefaultEndpoint, c.Endpoint())
}
