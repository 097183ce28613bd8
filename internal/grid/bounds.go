package grid

// Bounds is a geographic bounding box.
type Bounds struct {
	Left, Bottom, Right, Top float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// Degenerate reports whether the box has no area.
func (b Bounds) Degenerate() bool {
	return b.Right <= b.Left || b.Top <= b.Bottom
}

// BoundsOf returns the box spanning the sample centers of the axes.
func BoundsOf(lat, lon Axis) Bounds {
	return Bounds{
		Left:   lon.Min(),
		Bottom: lat.Min(),
		Right:  lon.Max(),
		Top:    lat.Max(),
	}
}

// EdgeBoundsOf returns the box expanded by half the sample spacing on each
// side, so a rendered image's edges align with the outer pixel edges rather
// than the outer sample centers.
func EdgeBoundsOf(lat, lon Axis) Bounds {
	b := BoundsOf(lat, lon)
	hx, hy := lon.Step()/2, lat.Step()/2
	return Bounds{
		Left:   b.Left - hx,
		Bottom: b.Bottom - hy,
		Right:  b.Right + hx,
		Top:    b.Top + hy,
	}
}
