package reproject

import (
	"math"

	"gridviz/internal/grid"
)

// maxDimension caps destination grid sides so a grid reaching toward the
// poles cannot explode the output image.
const maxDimension = 8192

// Destination describes the mercator grid a slice is resampled into. Its
// transform maps destination pixel coordinates to mercator meters.
type Destination struct {
	Transform grid.Transform
	Width     int
	Height    int
}

// Empty reports whether the destination holds no pixels.
func (d Destination) Empty() bool { return d.Width <= 0 || d.Height <= 0 }

// DestinationFor computes the mercator destination grid for a source of
// cols x rows samples covering bounds. The width matches the source column
// count and the height follows from near-square mercator pixels, so output
// resolution tracks input resolution.
func DestinationFor(bounds grid.Bounds, cols, rows int) Destination {
	if bounds.Degenerate() || cols <= 0 || rows <= 0 {
		return Destination{}
	}
	left, bottom := Forward(bounds.Left, bounds.Bottom)
	right, top := Forward(bounds.Right, bounds.Top)
	if right <= left || top <= bottom {
		return Destination{}
	}

	width := cols
	if width > maxDimension {
		width = maxDimension
	}
	xres := (right - left) / float64(width)
	height := int(math.Round((top - bottom) / xres))
	if height < 1 {
		height = 1
	}
	if height > maxDimension {
		height = maxDimension
	}
	yres := (top - bottom) / float64(height)

	return Destination{
		Width:  width,
		Height: height,
		Transform: grid.Transform{
			A: xres,
			C: left,
			E: -yres,
			F: top,
		},
	}
}

// Resample maps a source slice into the destination grid with
// nearest-neighbor sampling. Destination pixels falling outside the source
// grid become NaN. An empty destination yields an empty slice.
func Resample(src grid.Slice, srcTransform grid.Transform, dst Destination) grid.Slice {
	if dst.Empty() || src.Empty() {
		s, _ := grid.NewSlice(0, 0, nil)
		return s
	}
	inv, err := srcTransform.Invert()
	if err != nil {
		s, _ := grid.NewSlice(0, 0, nil)
		return s
	}

	values := make([]float64, dst.Width*dst.Height)
	for r := 0; r < dst.Height; r++ {
		for c := 0; c < dst.Width; c++ {
			mx, my := dst.Transform.Apply(float64(c)+0.5, float64(r)+0.5)
			lon, lat := Inverse(mx, my)
			colF, rowF := inv.Apply(lon, lat)
			sc := int(math.Floor(colF))
			sr := int(math.Floor(rowF))
			if sr < 0 || sr >= src.Rows() || sc < 0 || sc >= src.Cols() {
				values[r*dst.Width+c] = math.NaN()
				continue
			}
			values[r*dst.Width+c] = src.At(sr, sc)
		}
	}

	out, _ := grid.NewSlice(dst.Height, dst.Width, values)
	return out
}
