package selection

import (
	"fmt"
	"math"

	geojson "github.com/paulmach/go.geojson"

	"gridviz/internal/grid"
)

const (
	earthRadiusKM = 6371

	// kmPerDegreeLat approximates the largest extent of one degree of
	// latitude, used to bound the row range searched for a circle.
	kmPerDegreeLat = 110
)

// FromFeature computes the selection mask of one drawn shape over the given
// coordinate axes. A Point geometry with a radius property is a circle; a
// closed 5-vertex axis-aligned Polygon is a rectangle; any other Polygon is
// tested vertex-by-vertex. Unsupported geometry fails fast.
func FromFeature(f *geojson.Feature, lat, lon grid.Axis) (*Mask, error) {
	if f == nil || f.Geometry == nil {
		return nil, fmt.Errorf("selection feature has no geometry")
	}
	switch {
	case f.Geometry.IsPoint():
		radius, err := featureRadius(f)
		if err != nil {
			return nil, err
		}
		p := f.Geometry.Point
		if len(p) < 2 {
			return nil, fmt.Errorf("selection point needs lon/lat coordinates")
		}
		return Circle(p[0], p[1], radius, lat, lon), nil
	case f.Geometry.IsPolygon():
		if len(f.Geometry.Polygon) == 0 || len(f.Geometry.Polygon[0]) == 0 {
			return nil, fmt.Errorf("selection polygon has no ring")
		}
		ring := f.Geometry.Polygon[0]
		if isRectangle(ring) {
			return Rectangle(ring, lat, lon), nil
		}
		return Polygon(ring, lat, lon)
	default:
		return nil, fmt.Errorf("unsupported selection geometry %q", f.Geometry.Type)
	}
}

// Combine intersects the masks of several shapes: a cell is included only
// when it is inside every shape.
func Combine(features []*geojson.Feature, lat, lon grid.Axis) (*Mask, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no selection shapes given")
	}
	mask, err := FromFeature(features[0], lat, lon)
	if err != nil {
		return nil, err
	}
	for _, f := range features[1:] {
		next, err := FromFeature(f, lat, lon)
		if err != nil {
			return nil, err
		}
		if err := mask.Intersect(next); err != nil {
			return nil, err
		}
	}
	return mask, nil
}

// featureRadius reads the circle radius in meters from the feature
// properties, either flat ("radius") or nested under "style" as leaflet
// draw tools emit it.
func featureRadius(f *geojson.Feature) (float64, error) {
	if r, err := f.PropertyFloat64("radius"); err == nil {
		return r, nil
	}
	if style, ok := f.Properties["style"].(map[string]interface{}); ok {
		switch r := style["radius"].(type) {
		case float64:
			return r, nil
		case int:
			return float64(r), nil
		}
	}
	return 0, fmt.Errorf("point selection has no radius property")
}

// Circle includes every sample whose haversine distance to the center is
// under the radius. The radius is in meters; only the latitude band the
// circle can reach is scanned.
func Circle(lonC, latC, radiusMeters float64, lat, lon grid.Axis) *Mask {
	mask := NewMask(lat.Len(), lon.Len())
	radiusKM := radiusMeters / 1000
	deg := radiusKM / kmPerDegreeLat
	r0, r1 := lat.IndexRange(latC-deg, latC+deg)
	for r := r0; r < r1; r++ {
		for c := 0; c < lon.Len(); c++ {
			if haversineKM(lonC, latC, lon.At(c), lat.At(r)) < radiusKM {
				mask.include(r, c)
			}
		}
	}
	return mask
}

// Rectangle includes the index block covered by the ring's bounding box.
// No polygon test is needed for an axis-aligned shape; the padded index
// range is trimmed back to the box by comparing axis coordinates.
func Rectangle(ring [][]float64, lat, lon grid.Axis) *Mask {
	mask := NewMask(lat.Len(), lon.Len())
	xmin, xmax, ymin, ymax := ringBounds(ring)
	r0, r1 := lat.IndexRange(ymin, ymax)
	c0, c1 := lon.IndexRange(xmin, xmax)
	for r := r0; r < r1; r++ {
		if y := lat.At(r); y < ymin || y > ymax {
			continue
		}
		for c := c0; c < c1; c++ {
			if x := lon.At(c); x < xmin || x > xmax {
				continue
			}
			mask.include(r, c)
		}
	}
	return mask
}

// Polygon ray-casts every candidate cell against the full vertex ring,
// restricting the scan to the ring's bounding box.
func Polygon(ring [][]float64, lat, lon grid.Axis) (*Mask, error) {
	if len(ring) < 4 {
		return nil, fmt.Errorf("selection polygon needs at least 3 distinct vertices, got %d", len(ring)-1)
	}
	mask := NewMask(lat.Len(), lon.Len())
	xmin, xmax, ymin, ymax := ringBounds(ring)
	r0, r1 := lat.IndexRange(ymin, ymax)
	c0, c1 := lon.IndexRange(xmin, xmax)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			if pointInRing(lon.At(c), lat.At(r), ring) {
				mask.include(r, c)
			}
		}
	}
	return mask, nil
}

func ringBounds(ring [][]float64) (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = ring[0][0], ring[0][0]
	ymin, ymax = ring[0][1], ring[0][1]
	for _, p := range ring[1:] {
		xmin = math.Min(xmin, p[0])
		xmax = math.Max(xmax, p[0])
		ymin = math.Min(ymin, p[1])
		ymax = math.Max(ymax, p[1])
	}
	return xmin, xmax, ymin, ymax
}

// isRectangle detects the closed 5-vertex ring a rectangle draw tool emits:
// two pairs of equal x coordinates and two pairs of equal y coordinates.
func isRectangle(ring [][]float64) bool {
	if len(ring) != 5 {
		return false
	}
	return ring[0][0] == ring[1][0] &&
		ring[0][0] == ring[4][0] &&
		ring[0][1] == ring[3][1] &&
		ring[1][1] == ring[2][1] &&
		ring[2][0] == ring[3][0]
}

// pointInRing is an even-odd ray-casting test against a closed ring.
func pointInRing(x, y float64, ring [][]float64) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// haversineKM returns the great-circle distance in kilometers between two
// lon/lat points.
func haversineKM(lon1, lat1, lon2, lat2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKM * 2 * math.Asin(math.Sqrt(a))
}
