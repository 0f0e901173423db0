// Package colorscale maps leaf fatality counts onto a normalized color
// position.
//
// The mapping itself is numeric: [BuildDomain] finds the value extent and
// [For] places a value linearly inside it, returning a position in [0, 1].
// A single-valued domain maps every value to [Midpoint]. [Reds] is the
// renderer-side lookup from that position to a sequential red color.
package colorscale

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/crashviz/pkg/render/treemap"
)

// Midpoint is the position returned for a degenerate (min == max) domain.
const Midpoint = 0.5

// Domain is the closed value extent [Min, Max].
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Degenerate reports whether the domain has zero width.
func (d Domain) Degenerate() bool { return d.Min == d.Max }

// BuildDomain returns the extent of the fatality counts of the given
// leaves. An empty slice yields the degenerate domain [0, 0].
func BuildDomain(leaves []*treemap.Node) Domain {
	values := make([]float64, len(leaves))
	for i, l := range leaves {
		values[i] = float64(l.Fatalities)
	}
	return DomainOf(values)
}

// DomainOf returns the extent of values, ignoring NaNs.
func DomainOf(values []float64) Domain {
	d := Domain{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d.Min = math.Min(d.Min, v)
		d.Max = math.Max(d.Max, v)
	}
	if d.Min > d.Max {
		return Domain{}
	}
	return d
}

// For returns the normalized position of v in d, clamped to [0, 1].
func For(v float64, d Domain) float64 {
	if d.Degenerate() || math.IsNaN(v) {
		return Midpoint
	}
	t := (v - d.Min) / (d.Max - d.Min)
	return math.Max(0, math.Min(1, t))
}

// Ramp endpoints, light to dark.
var (
	redLight = colorful.Color{R: 0xff / 255.0, G: 0xf5 / 255.0, B: 0xf0 / 255.0}
	redMid   = colorful.Color{R: 0xfb / 255.0, G: 0x6a / 255.0, B: 0x4a / 255.0}
	redDark  = colorful.Color{R: 0x67 / 255.0, G: 0x00 / 255.0, B: 0x0d / 255.0}
)

// Reds returns the sequential red ramp color at position t as a hex string.
// t is clamped to [0, 1].
func Reds(t float64) string {
	t = math.Max(0, math.Min(1, t))
	if t < 0.5 {
		return redLight.BlendLab(redMid, t*2).Clamped().Hex()
	}
	return redMid.BlendLab(redDark, (t-0.5)*2).Clamped().Hex()
}
