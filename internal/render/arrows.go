package render

import (
	"math"

	geojson "github.com/paulmach/go.geojson"

	"gridviz/internal/grid"
)

// ArrowOptions controls geojson arrow rendering.
type ArrowOptions struct {
	// Autoscale sets arrow length from the vector magnitude; otherwise all
	// arrows share the fixed Scale length.
	Autoscale bool
	// Scale is the length multiplier (autoscale) or the fixed length in
	// coordinate degrees.
	Scale float64
}

// DefaultArrowOptions returns the default arrow settings.
func DefaultArrowOptions() ArrowOptions {
	return ArrowOptions{Autoscale: true, Scale: 0.5}
}

// Arrowhead barbs sit 50 degrees off the reverse shaft direction and span
// 10% of the arrow length.
const (
	arrowHeadScale = 0.1
	arrowBarbLeft  = (270 - 50) * math.Pi / 180
	arrowBarbRight = (270 + 50) * math.Pi / 180
)

// Arrows renders a vector field as a MultiLineString of arrow glyphs in
// native lon/lat coordinates, one arrow per sample. No reprojection is
// needed; geometry is projected by the display layer. Non-finite samples
// are skipped.
func Arrows(u, v grid.Slice, lon, lat grid.Axis, opts ArrowOptions) (*Artifact, error) {
	if opts.Scale == 0 {
		opts.Scale = DefaultArrowOptions().Scale
	}

	lines := make([][][]float64, 0, lat.Len()*lon.Len())
	for i := 0; i < lat.Len() && i < u.Rows(); i++ {
		for j := 0; j < lon.Len() && j < u.Cols(); j++ {
			uu, vv := u.At(i, j), v.At(i, j)
			if math.IsNaN(uu) || math.IsNaN(vv) || math.IsInf(uu, 0) || math.IsInf(vv, 0) {
				continue
			}
			lines = append(lines, arrow(uu, vv, lon.At(j), lat.At(i), opts))
		}
	}

	return &Artifact{
		Method:   MethodGeoJSON,
		Geometry: geojson.NewMultiLineStringGeometry(lines...),
	}, nil
}

// arrow computes the 5-point line string describing one arrow: shaft from
// tail to tip, then a barb, back to the tip, then the other barb.
func arrow(u, v, lon, lat float64, opts ArrowOptions) [][]float64 {
	angle := math.Atan2(v, u)

	length := opts.Scale
	if opts.Autoscale {
		length = math.Sqrt(math.Abs(u*v)) * opts.Scale
	}

	dx := length / 2 * math.Cos(angle)
	dy := length / 2 * math.Sin(angle)
	tail := []float64{lon - dx, lat - dy}
	tip := []float64{lon + dx, lat + dy}

	dxL := length * arrowHeadScale * math.Cos(angle+arrowBarbLeft)
	dyL := length * arrowHeadScale * math.Sin(angle+arrowBarbLeft)
	dxR := length * arrowHeadScale * math.Cos(angle+arrowBarbRight)
	dyR := length * arrowHeadScale * math.Sin(angle+arrowBarbRight)

	barbL := []float64{tip[0] + dxL, tip[1] + dyL}
	barbR := []float64{tip[0] - dxR, tip[1] - dyR}

	return [][]float64{tail, tip, barbL, tip, barbR}
}
