// Package grid holds the in-memory data model for time-indexed geospatial
// grids: coordinate axes, 3-D sample blocks, affine georeferencing
// transforms and bounding boxes.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Axis is a monotonic 1-D coordinate axis (latitude or longitude values at
// sample centers). Values may ascend or descend and need not be uniformly
// spaced.
type Axis struct {
	values    []float64
	ascending bool
}

// NewAxis wraps a monotonic coordinate array. The slice is retained, not
// copied; callers must not modify it afterwards.
func NewAxis(values []float64) Axis {
	asc := true
	if len(values) >= 2 {
		asc = values[len(values)-1] >= values[0]
	}
	return Axis{values: values, ascending: asc}
}

// Linspace builds an evenly spaced axis of n values from start to stop
// inclusive.
func Linspace(start, stop float64, n int) Axis {
	if n <= 0 {
		return Axis{ascending: stop >= start}
	}
	if n == 1 {
		return NewAxis([]float64{start})
	}
	return NewAxis(floats.Span(make([]float64, n), start, stop))
}

// Len returns the number of samples on the axis.
func (a Axis) Len() int { return len(a.values) }

// At returns the coordinate of sample i.
func (a Axis) At(i int) float64 { return a.values[i] }

// Values returns the underlying coordinate array. Callers must not modify it.
func (a Axis) Values() []float64 { return a.values }

// Ascending reports whether coordinates increase with index.
func (a Axis) Ascending() bool { return a.ascending }

// Step returns the absolute spacing between the first two samples.
func (a Axis) Step() float64 {
	if len(a.values) < 2 {
		return 0
	}
	return math.Abs(a.values[1] - a.values[0])
}

// Min returns the smallest coordinate on the axis.
func (a Axis) Min() float64 {
	if len(a.values) == 0 {
		return math.NaN()
	}
	if a.ascending {
		return a.values[0]
	}
	return a.values[len(a.values)-1]
}

// Max returns the largest coordinate on the axis.
func (a Axis) Max() float64 {
	if len(a.values) == 0 {
		return math.NaN()
	}
	if a.ascending {
		return a.values[len(a.values)-1]
	}
	return a.values[0]
}

// Stride returns an axis containing every nth sample.
func (a Axis) Stride(n int) Axis {
	if n <= 1 {
		return a
	}
	out := make([]float64, 0, (len(a.values)+n-1)/n)
	for i := 0; i < len(a.values); i += n {
		out = append(out, a.values[i])
	}
	return NewAxis(out)
}

// searchAscending returns the sorted insertion point of x in ascending
// values, i.e. the smallest i with values[i] >= x.
func searchAscending(values []float64, x float64) int {
	lo, hi := 0, len(values)
	for lo < hi {
		mid := (lo + hi) / 2
		if values[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// IndexRange converts the coordinate band [lo, hi] into a half-open index
// range [i0, i1) covering all samples inside the band, padded by one index
// on each side so boundary samples are not lost to rounding. The range is
// clamped to the axis and handles both ascending and descending axes.
func (a Axis) IndexRange(lo, hi float64) (int, int) {
	if lo > hi {
		lo, hi = hi, lo
	}
	var i0, i1 int
	if a.ascending {
		i0 = searchAscending(a.values, lo) - 1
		i1 = searchAscending(a.values, hi) + 1
	} else {
		n := len(a.values)
		flipped := make([]float64, n)
		for i, v := range a.values {
			flipped[n-1-i] = v
		}
		i0 = n - searchAscending(flipped, hi) - 1
		i1 = n - searchAscending(flipped, lo) + 1
	}
	if i0 < 0 {
		i0 = 0
	}
	if i1 > len(a.values) {
		i1 = len(a.values)
	}
	if i1 < i0 {
		i1 = i0
	}
	return i0, i1
}

// Slice is a 2-D view over one time step of a Grid, row-major.
type Slice struct {
	rows, cols int
	values     []float64
}

// NewSlice builds a slice from row-major values.
func NewSlice(rows, cols int, values []float64) (Slice, error) {
	if rows < 0 || cols < 0 {
		return Slice{}, fmt.Errorf("negative slice shape %dx%d", rows, cols)
	}
	if len(values) != rows*cols {
		return Slice{}, fmt.Errorf("slice shape %dx%d needs %d values, got %d", rows, cols, rows*cols, len(values))
	}
	return Slice{rows: rows, cols: cols, values: values}, nil
}

// Rows returns the number of rows.
func (s Slice) Rows() int { return s.rows }

// Cols returns the number of columns.
func (s Slice) Cols() int { return s.cols }

// Empty reports whether the slice holds no samples.
func (s Slice) Empty() bool { return s.rows == 0 || s.cols == 0 }

// At returns the sample at row r, column c.
func (s Slice) At(r, c int) float64 { return s.values[r*s.cols+c] }

// Values returns the underlying row-major array. Callers must not modify it.
func (s Slice) Values() []float64 { return s.values }

// Stride returns a copy containing every nth row and column.
func (s Slice) Stride(n int) Slice {
	if n <= 1 {
		return s
	}
	rows := (s.rows + n - 1) / n
	cols := (s.cols + n - 1) / n
	out := make([]float64, 0, rows*cols)
	for r := 0; r < s.rows; r += n {
		for c := 0; c < s.cols; c += n {
			out = append(out, s.At(r, c))
		}
	}
	return Slice{rows: rows, cols: cols, values: out}
}

// Grid is an immutable time x row x column block of scalar samples. Vector
// fields are represented as two grids, one per component.
type Grid struct {
	steps, rows, cols int
	values            []float64
}

// NewGrid wraps row-major values of shape steps x rows x cols. The slice is
// retained, not copied.
func NewGrid(steps, rows, cols int, values []float64) (*Grid, error) {
	if steps <= 0 || rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("empty grid shape %dx%dx%d", steps, rows, cols)
	}
	if len(values) != steps*rows*cols {
		return nil, fmt.Errorf("grid shape %dx%dx%d needs %d values, got %d",
			steps, rows, cols, steps*rows*cols, len(values))
	}
	return &Grid{steps: steps, rows: rows, cols: cols, values: values}, nil
}

// Len returns the number of time steps.
func (g *Grid) Len() int { return g.steps }

// Rows returns the number of rows per time step.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns per time step.
func (g *Grid) Cols() int { return g.cols }

// Slice returns a view over time step t. The view shares storage with the
// grid and must be treated as read-only.
func (g *Grid) Slice(t int) Slice {
	n := g.rows * g.cols
	return Slice{rows: g.rows, cols: g.cols, values: g.values[t*n : (t+1)*n]}
}
