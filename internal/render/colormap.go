package render

import (
	"fmt"
	"image/color"
	"math"
)

// Palette maps a normalized value in [0, 1] to a color by linear
// interpolation between anchor colors.
type Palette struct {
	name    string
	anchors []color.NRGBA
}

// Name returns the palette name.
func (p Palette) Name() string { return p.name }

// Lookup returns the color for a normalized value. Values outside [0, 1]
// and NaN clamp to the ends.
func (p Palette) Lookup(t float64) color.NRGBA {
	if len(p.anchors) == 0 {
		return color.NRGBA{}
	}
	if math.IsNaN(t) || t <= 0 {
		return p.anchors[0]
	}
	if t >= 1 {
		return p.anchors[len(p.anchors)-1]
	}
	pos := t * float64(len(p.anchors)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := p.anchors[i], p.anchors[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.NRGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}

func rgb(r, g, b uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: 0xff} }

// Viridis is the default perceptually uniform palette.
var Viridis = Palette{name: "viridis", anchors: []color.NRGBA{
	rgb(0x44, 0x01, 0x54),
	rgb(0x48, 0x28, 0x78),
	rgb(0x3e, 0x49, 0x89),
	rgb(0x31, 0x68, 0x8e),
	rgb(0x26, 0x82, 0x8e),
	rgb(0x1f, 0x9e, 0x89),
	rgb(0x35, 0xb7, 0x79),
	rgb(0x6e, 0xce, 0x58),
	rgb(0xb5, 0xde, 0x2b),
	rgb(0xfd, 0xe7, 0x25),
}}

// Plasma is a high-contrast alternative palette.
var Plasma = Palette{name: "plasma", anchors: []color.NRGBA{
	rgb(0x0d, 0x08, 0x87),
	rgb(0x46, 0x03, 0x9f),
	rgb(0x72, 0x01, 0xa8),
	rgb(0x9c, 0x17, 0x9e),
	rgb(0xbd, 0x37, 0x86),
	rgb(0xd8, 0x57, 0x6b),
	rgb(0xed, 0x79, 0x53),
	rgb(0xfb, 0x9f, 0x3a),
	rgb(0xfd, 0xca, 0x26),
	rgb(0xf0, 0xf9, 0x21),
}}

// Gray maps values to a black-to-white ramp.
var Gray = Palette{name: "gray", anchors: []color.NRGBA{
	rgb(0x00, 0x00, 0x00),
	rgb(0xff, 0xff, 0xff),
}}

// PaletteNamed resolves a palette by name.
func PaletteNamed(name string) (Palette, error) {
	switch name {
	case "viridis", "":
		return Viridis, nil
	case "plasma":
		return Plasma, nil
	case "gray", "grey":
		return Gray, nil
	default:
		return Palette{}, fmt.Errorf("unknown palette %q", name)
	}
}
