// Package selection answers which grid cells fall inside user-drawn shapes:
// circles (point + radius), axis-aligned rectangles and arbitrary polygons.
// Masks are transient and recomputed per query.
package selection

import "fmt"

// Mask is a boolean 2-D array over one grid slice. True means the cell is
// excluded (outside the shape), matching masked-array conventions.
type Mask struct {
	rows, cols int
	excluded   []bool
}

// NewMask returns a mask with every cell excluded.
func NewMask(rows, cols int) *Mask {
	m := &Mask{rows: rows, cols: cols, excluded: make([]bool, rows*cols)}
	for i := range m.excluded {
		m.excluded[i] = true
	}
	return m
}

// Rows returns the number of rows.
func (m *Mask) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Mask) Cols() int { return m.cols }

// Excluded reports whether cell (r, c) is outside the selection.
func (m *Mask) Excluded(r, c int) bool { return m.excluded[r*m.cols+c] }

func (m *Mask) include(r, c int) { m.excluded[r*m.cols+c] = false }

// IncludedCount returns the number of cells inside the selection.
func (m *Mask) IncludedCount() int {
	n := 0
	for _, e := range m.excluded {
		if !e {
			n++
		}
	}
	return n
}

// Intersect restricts m to cells included by both masks: a cell must be
// inside every shape, so exclusions accumulate by OR.
func (m *Mask) Intersect(other *Mask) error {
	if other.rows != m.rows || other.cols != m.cols {
		return fmt.Errorf("mask shape mismatch: %dx%d vs %dx%d", m.rows, m.cols, other.rows, other.cols)
	}
	for i, e := range other.excluded {
		if e {
			m.excluded[i] = true
		}
	}
	return nil
}
