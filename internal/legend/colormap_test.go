package legend_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwincm/gaia-hazlab-catalog/internal/legend"
)

func grayRamp() legend.Ramp {
	return legend.Ramp{
		Name: "gray",
		Vmin: 0,
		Vmax: 1,
		Stops: []legend.Stop{
			{Pos: 0, Color: color.RGBA{0, 0, 0, 255}},
			{Pos: 1, Color: color.RGBA{255, 255, 255, 255}},
		},
	}
}

func TestRampAtEndpointsAndClamp(t *testing.T) {
	r := grayRamp()

	assert.Equal(t, color.RGBA{0, 0, 0, 255}, r.At(0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, r.At(1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, r.At(-0.5), "clamps below")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, r.At(2), "clamps above")
}

func TestRampAtInterpolates(t *testing.T) {
	c := grayRamp().At(0.5)
	assert.InDelta(t, 127, int(c.R), 1)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.R, c.B)
}

func TestRampSample(t *testing.T) {
	r := grayRamp()

	colors := r.Sample(3)
	require.Len(t, colors, 3)
	assert.Equal(t, "#000000", colors[0])
	assert.Equal(t, "#ffffff", colors[2])

	assert.Nil(t, r.Sample(0))
	assert.Equal(t, []string{"#000000"}, r.Sample(1))
}

func TestRampByName(t *testing.T) {
	r, ok := legend.RampByName("viridis", -10, 40)
	require.True(t, ok)
	assert.Equal(t, -10.0, r.Vmin)
	assert.Equal(t, 40.0, r.Vmax)
	assert.NotEmpty(t, r.Stops)

	_, ok = legend.RampByName("nope", 0, 1)
	assert.False(t, ok)
}

func TestEmptyRampIsBlack(t *testing.T) {
	var r legend.Ramp
	assert.Equal(t, color.RGBA{A: 255}, r.At(0.5))
}
