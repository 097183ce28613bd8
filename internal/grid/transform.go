package grid

import (
	"fmt"
)

// Transform holds six affine coefficients mapping (col, row) pixel
// coordinates to geographic (x, y):
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
//
// Integer col/row values land on pixel edges; the center of cell (r, c) is
// Apply(c+0.5, r+0.5).
type Transform struct {
	A, B, C, D, E, F float64
}

// Apply maps pixel coordinates to geographic coordinates.
func (t Transform) Apply(col, row float64) (x, y float64) {
	x = t.A*col + t.B*row + t.C
	y = t.D*col + t.E*row + t.F
	return x, y
}

// Invert returns the transform mapping geographic coordinates back to pixel
// coordinates. Fails on a degenerate (zero determinant) transform.
func (t Transform) Invert() (Transform, error) {
	det := t.A*t.E - t.B*t.D
	if det == 0 {
		return Transform{}, fmt.Errorf("transform is not invertible")
	}
	inv := Transform{
		A: t.E / det,
		B: -t.B / det,
		D: -t.D / det,
		E: t.A / det,
	}
	inv.C = -(inv.A*t.C + inv.B*t.F)
	inv.F = -(inv.D*t.C + inv.E*t.F)
	return inv, nil
}

// Stride scales the pixel size by n for decimated grids that keep every nth
// sample.
func (t Transform) Stride(n int) Transform {
	if n <= 1 {
		return t
	}
	t.A *= float64(n)
	t.E *= float64(n)
	return t
}

// TransformFromAxes derives the georeferencing transform of a regular grid
// from its coordinate axes. Row 0 maps to the first latitude value, column 0
// to the first longitude value, with the pixel origin at the outer sample
// edge.
func TransformFromAxes(lat, lon Axis) (Transform, error) {
	if lat.Len() < 2 || lon.Len() < 2 {
		return Transform{}, fmt.Errorf("axes need at least two samples, got %dx%d", lat.Len(), lon.Len())
	}
	dx := lon.At(1) - lon.At(0)
	dy := lat.At(1) - lat.At(0)
	return Transform{
		A: dx,
		C: lon.At(0) - dx/2,
		E: dy,
		F: lat.At(0) - dy/2,
	}, nil
}
