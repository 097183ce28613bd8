package selection

import (
	"math"
	"testing"

	geojson "github.com/paulmach/go.geojson"

	"gridviz/internal/grid"
)

// axes returns a 13x13 degree grid with descending latitude, the layout
// climate datasets usually ship.
func axes() (lat, lon grid.Axis) {
	return grid.Linspace(3, -3, 13), grid.Linspace(-3, 3, 13)
}

func circleFeature(lonC, latC, radiusMeters float64) *geojson.Feature {
	f := geojson.NewPointFeature([]float64{lonC, latC})
	f.Properties["radius"] = radiusMeters
	return f
}

func TestCircle(t *testing.T) {
	lat, lon := axes()
	// ~111 km is about one degree of latitude.
	mask := Circle(0, 0, 111000, lat, lon)

	tests := []struct {
		name     string
		lat, lon float64
		excluded bool
	}{
		{"center", 0, 0, false},
		{"half degree north", 0.5, 0, false},
		{"one and a half degrees north", 1.5, 0, true},
		{"half degree east", 0, 0.5, false},
		{"far corner", 3, 3, true},
	}

	rowOf := func(v float64) int {
		for i := 0; i < lat.Len(); i++ {
			if math.Abs(lat.At(i)-v) < 1e-9 {
				return i
			}
		}
		t.Fatalf("latitude %v not on axis", v)
		return -1
	}
	colOf := func(v float64) int {
		for i := 0; i < lon.Len(); i++ {
			if math.Abs(lon.At(i)-v) < 1e-9 {
				return i
			}
		}
		t.Fatalf("longitude %v not on axis", v)
		return -1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mask.Excluded(rowOf(tt.lat), colOf(tt.lon)); got != tt.excluded {
				t.Errorf("Excluded(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.excluded)
			}
		})
	}
}

func TestRectangleMatchesPolygon(t *testing.T) {
	lat, lon := axes()
	// Rectangle edges fall between samples so both paths see the same
	// interior.
	ring := [][]float64{
		{-1.25, -1.75},
		{-1.25, 1.75},
		{2.25, 1.75},
		{2.25, -1.75},
		{-1.25, -1.75},
	}
	if !isRectangle(ring) {
		t.Fatal("ring should classify as a rectangle")
	}

	rect := Rectangle(ring, lat, lon)
	poly, err := Polygon(ring, lat, lon)
	if err != nil {
		t.Fatalf("Polygon: %v", err)
	}

	if rect.IncludedCount() == 0 {
		t.Fatal("rectangle selected nothing")
	}
	for r := 0; r < lat.Len(); r++ {
		for c := 0; c < lon.Len(); c++ {
			if rect.Excluded(r, c) != poly.Excluded(r, c) {
				t.Errorf("cell (%d,%d) lat=%v lon=%v: rect=%v poly=%v",
					r, c, lat.At(r), lon.At(c), rect.Excluded(r, c), poly.Excluded(r, c))
			}
		}
	}
}

func TestPolygonTriangle(t *testing.T) {
	lat, lon := axes()
	ring := [][]float64{
		{-2.1, -2.1},
		{2.1, -2.1},
		{0, 2.6},
		{-2.1, -2.1},
	}
	mask, err := Polygon(ring, lat, lon)
	if err != nil {
		t.Fatalf("Polygon: %v", err)
	}
	// Centroid region is inside, the top corners are not.
	if mask.Excluded(6, 6) {
		t.Error("triangle center should be included")
	}
	if !mask.Excluded(0, 0) || !mask.Excluded(0, 12) {
		t.Error("top corners should be excluded")
	}
}

func TestCombineIsRestrictive(t *testing.T) {
	lat, lon := axes()
	a := circleFeature(0, 0, 250000)
	b := circleFeature(1, 0, 250000)

	maskA, err := FromFeature(a, lat, lon)
	if err != nil {
		t.Fatalf("FromFeature: %v", err)
	}
	maskB, err := FromFeature(b, lat, lon)
	if err != nil {
		t.Fatalf("FromFeature: %v", err)
	}
	combined, err := Combine([]*geojson.Feature{a, b}, lat, lon)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	if combined.IncludedCount() > maskA.IncludedCount() || combined.IncludedCount() > maskB.IncludedCount() {
		t.Error("combining shapes must not include more cells than either shape")
	}
	if combined.IncludedCount() == 0 {
		t.Error("overlapping circles should keep a shared region")
	}
	for r := 0; r < lat.Len(); r++ {
		for c := 0; c < lon.Len(); c++ {
			wantExcluded := maskA.Excluded(r, c) || maskB.Excluded(r, c)
			if combined.Excluded(r, c) != wantExcluded {
				t.Fatalf("cell (%d,%d): combined=%v, want OR of exclusions %v",
					r, c, combined.Excluded(r, c), wantExcluded)
			}
		}
	}
}

func TestFromFeatureClassification(t *testing.T) {
	lat, lon := axes()

	t.Run("rectangle polygon uses fast path", func(t *testing.T) {
		ring := [][]float64{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}, {-1, -1}}
		f := geojson.NewPolygonFeature([][][]float64{ring})
		mask, err := FromFeature(f, lat, lon)
		if err != nil {
			t.Fatalf("FromFeature: %v", err)
		}
		if mask.IncludedCount() == 0 {
			t.Error("rectangle selected nothing")
		}
	})

	t.Run("nested style radius", func(t *testing.T) {
		f := geojson.NewPointFeature([]float64{0, 0})
		f.Properties["style"] = map[string]interface{}{"radius": 111000.0}
		if _, err := FromFeature(f, lat, lon); err != nil {
			t.Errorf("FromFeature: %v", err)
		}
	})

	t.Run("point without radius", func(t *testing.T) {
		f := geojson.NewPointFeature([]float64{0, 0})
		if _, err := FromFeature(f, lat, lon); err == nil {
			t.Error("expected error for missing radius")
		}
	})

	t.Run("unsupported geometry", func(t *testing.T) {
		f := geojson.NewFeature(geojson.NewLineStringGeometry([][]float64{{0, 0}, {1, 1}}))
		if _, err := FromFeature(f, lat, lon); err == nil {
			t.Error("expected error for line geometry")
		}
	})

	t.Run("no shapes", func(t *testing.T) {
		if _, err := Combine(nil, lat, lon); err == nil {
			t.Error("expected error for empty selection")
		}
	})
}

func TestIsRectangle(t *testing.T) {
	tests := []struct {
		name string
		ring [][]float64
		want bool
	}{
		{
			"closed axis-aligned",
			[][]float64{{0, 0}, {0, 2}, {3, 2}, {3, 0}, {0, 0}},
			true,
		},
		{
			"unclosed",
			[][]float64{{0, 0}, {0, 2}, {3, 2}, {3, 0}},
			false,
		},
		{
			"rotated quad",
			[][]float64{{0, 1}, {1, 2}, {2, 1}, {1, 0}, {0, 1}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRectangle(tt.ring); got != tt.want {
				t.Errorf("isRectangle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHaversine(t *testing.T) {
	// One degree of latitude is ~111.2 km.
	d := haversineKM(0, 0, 0, 1)
	if math.Abs(d-111.2) > 1 {
		t.Errorf("1 degree latitude = %v km, want ~111.2", d)
	}
	if haversineKM(10, 20, 10, 20) != 0 {
		t.Error("identical points should be at distance 0")
	}
}
