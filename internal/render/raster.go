package render

import (
	"image"
	"math"

	"gridviz/internal/grid"
	"gridviz/internal/reproject"
)

// Normalize scales finite values to [0, 1] as (v - min) / (max - min) over
// the finite values only. Non-finite inputs and degenerate spans (all equal,
// all NaN, empty) come out as 0.
func Normalize(values []float64) []float64 {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(values))
	span := max - min
	if math.IsInf(min, 1) || span == 0 {
		return out
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = (v - min) / span
	}
	return out
}

// Raster reprojects a scalar slice into web mercator, normalizes it and
// applies the palette, producing a PNG data URI artifact. Degenerate inputs
// (empty bounds, all-NaN data) yield a blank artifact rather than an error.
func Raster(slice grid.Slice, transform grid.Transform, bounds grid.Bounds, palette Palette) (*Artifact, error) {
	dst := reproject.DestinationFor(bounds, slice.Cols(), slice.Rows())
	warped := reproject.Resample(slice, transform, dst)

	var img image.Image
	if warped.Empty() {
		img = blankImage()
	} else {
		norm := Normalize(warped.Values())
		rgba := image.NewNRGBA(image.Rect(0, 0, warped.Cols(), warped.Rows()))
		for r := 0; r < warped.Rows(); r++ {
			for c := 0; c < warped.Cols(); c++ {
				rgba.SetNRGBA(c, r, palette.Lookup(norm[r*warped.Cols()+c]))
			}
		}
		img = rgba
	}

	uri, err := encodeDataURI(img)
	if err != nil {
		return nil, err
	}
	return &Artifact{Method: MethodRaster, ImageURI: uri}, nil
}
