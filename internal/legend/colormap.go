package legend

import (
	"fmt"
	"image/color"
)

// Stop anchors a color at a position within [0,1].
type Stop struct {
	Pos   float64
	Color color.RGBA
}

// Ramp is a continuous color ramp over a data range. Sampling it produces
// the discrete swatches of a colorbar legend.
type Ramp struct {
	Name  string
	Vmin  float64
	Vmax  float64
	Stops []Stop
}

// At returns the interpolated color at t in [0,1].
// Out-of-range values clamp to the end stops.
func (r Ramp) At(t float64) color.RGBA {
	if len(r.Stops) == 0 {
		return color.RGBA{A: 255}
	}
	if t <= r.Stops[0].Pos {
		return r.Stops[0].Color
	}
	last := len(r.Stops) - 1
	if t >= r.Stops[last].Pos {
		return r.Stops[last].Color
	}

	// Binary search for the segment containing t.
	var idx int
	lo, hi := 0, last
	for lo <= hi {
		mid := (lo + hi) / 2
		if r.Stops[mid].Pos > t {
			hi = mid - 1
		} else {
			idx = mid
			lo = mid + 1
		}
	}
	if idx >= last {
		return r.Stops[last].Color
	}

	p1, p2 := r.Stops[idx], r.Stops[idx+1]
	f := (t - p1.Pos) / (p2.Pos - p1.Pos)
	return color.RGBA{
		R: lerp(p1.Color.R, p2.Color.R, f),
		G: lerp(p1.Color.G, p2.Color.G, f),
		B: lerp(p1.Color.B, p2.Color.B, f),
		A: 255,
	}
}

// Sample returns n evenly spaced hex colors across the ramp.
func (r Ramp) Sample(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	if n == 1 {
		out[0] = hexColor(r.At(0))
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = hexColor(r.At(float64(i) / float64(n-1)))
	}
	return out
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + f*(float64(b)-float64(a)))
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Built-in ramps for common hazard rasters. Anything else comes in as
// explicit stops on the layer configuration.
var builtinRamps = map[string]Ramp{
	"viridis": {
		Name: "viridis",
		Stops: []Stop{
			{0.00, color.RGBA{68, 1, 84, 255}},
			{0.25, color.RGBA{59, 82, 139, 255}},
			{0.50, color.RGBA{33, 145, 140, 255}},
			{0.75, color.RGBA{94, 201, 98, 255}},
			{1.00, color.RGBA{253, 231, 37, 255}},
		},
	},
	"rdbu": {
		Name: "rdbu",
		Stops: []Stop{
			{0.0, color.RGBA{5, 48, 97, 255}},
			{0.5, color.RGBA{247, 247, 247, 255}},
			{1.0, color.RGBA{103, 0, 31, 255}},
		},
	},
	"ndvi": {
		Name: "ndvi",
		Stops: []Stop{
			{0.0, color.RGBA{0, 0, 128, 255}},
			{0.4, color.RGBA{65, 105, 225, 255}},
			{0.5, color.RGBA{255, 0, 0, 255}},
			{0.75, color.RGBA{255, 255, 0, 255}},
			{1.0, color.RGBA{0, 128, 0, 255}},
		},
	},
}

// RampByName returns a built-in ramp scaled to the given data range.
func RampByName(name string, vmin, vmax float64) (Ramp, bool) {
	r, ok := builtinRamps[name]
	if !ok {
		return Ramp{}, false
	}
	r.Vmin = vmin
	r.Vmax = vmax
	return r, true
}
