package render

import (
	"math"
	"strings"
	"testing"

	"gridviz/internal/grid"
)

func TestNormalize(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"with nan", []float64{1, 2, 3, nan}, []float64{0, 0.5, 1, 0}},
		{"all nan", []float64{nan, nan}, []float64{0, 0}},
		{"constant", []float64{7, 7, 7}, []float64{0, 0, 0}},
		{"empty", nil, nil},
		{"infinite ignored", []float64{0, 10, math.Inf(1)}, []float64{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.values)
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("index %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPaletteLookup(t *testing.T) {
	first := Viridis.Lookup(0)
	last := Viridis.Lookup(1)
	if first == last {
		t.Error("palette endpoints should differ")
	}
	if Viridis.Lookup(math.NaN()) != first {
		t.Error("NaN should clamp to the low end")
	}
	if Viridis.Lookup(-3) != first || Viridis.Lookup(9) != last {
		t.Error("out-of-range values should clamp")
	}
}

func TestPaletteNamed(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"viridis", "viridis", false},
		{"plasma", "plasma", false},
		{"grey", "gray", false},
		{"", "viridis", false},
		{"magma", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PaletteNamed(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("PaletteNamed: %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestMethodString(t *testing.T) {
	if MethodRaster.String() != "raster" || MethodQuiver.String() != "quiver" || MethodGeoJSON.String() != "geojson" {
		t.Error("method names wrong")
	}
}

func testField(t *testing.T, rows, cols int) (grid.Slice, grid.Transform, grid.Bounds) {
	t.Helper()
	lat := grid.Linspace(10, -10, rows)
	lon := grid.Linspace(-10, 10, cols)
	tr, err := grid.TransformFromAxes(lat, lon)
	if err != nil {
		t.Fatalf("TransformFromAxes: %v", err)
	}
	values := make([]float64, rows*cols)
	for i := range values {
		values[i] = math.Sin(float64(i) / 3)
	}
	s, err := grid.NewSlice(rows, cols, values)
	if err != nil {
		t.Fatalf("NewSlice: %v", err)
	}
	return s, tr, grid.EdgeBoundsOf(lat, lon)
}

func TestRaster(t *testing.T) {
	s, tr, bounds := testField(t, 8, 8)
	a, err := Raster(s, tr, bounds, Viridis)
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	if a.Method != MethodRaster {
		t.Errorf("Method = %s, want raster", a.Method)
	}
	if !strings.HasPrefix(a.ImageURI, "data:image/png;base64,") {
		t.Errorf("payload is not a PNG data URI: %.40q", a.ImageURI)
	}
	img, err := a.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if img.Bounds().Dx() < 2 || img.Bounds().Dy() < 2 {
		t.Errorf("image too small: %v", img.Bounds())
	}
}

func TestRasterDeterministic(t *testing.T) {
	s, tr, bounds := testField(t, 6, 6)
	a, err := Raster(s, tr, bounds, Plasma)
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	b, err := Raster(s, tr, bounds, Plasma)
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	if a.ImageURI != b.ImageURI {
		t.Error("identical inputs must produce byte-identical artifacts")
	}
}

func TestRasterDegenerate(t *testing.T) {
	s, tr, _ := testField(t, 4, 4)

	t.Run("degenerate bounds", func(t *testing.T) {
		a, err := Raster(s, tr, grid.Bounds{Left: 1, Right: 1, Bottom: 0, Top: 1}, Viridis)
		if err != nil {
			t.Fatalf("Raster: %v", err)
		}
		if _, err := a.Image(); err != nil {
			t.Errorf("blank artifact must still decode: %v", err)
		}
	})

	t.Run("all nan slice", func(t *testing.T) {
		values := make([]float64, 16)
		for i := range values {
			values[i] = math.NaN()
		}
		nanSlice, _ := grid.NewSlice(4, 4, values)
		lat := grid.Linspace(2, -2, 4)
		lon := grid.Linspace(-2, 2, 4)
		a, err := Raster(nanSlice, tr, grid.EdgeBoundsOf(lat, lon), Viridis)
		if err != nil {
			t.Fatalf("Raster: %v", err)
		}
		if _, err := a.Image(); err != nil {
			t.Errorf("all-NaN artifact must still decode: %v", err)
		}
	})
}

func TestQuiver(t *testing.T) {
	u, tr, bounds := testField(t, 6, 6)
	v, _, _ := testField(t, 6, 6)

	opts := DefaultQuiverOptions()
	opts.Color = true
	a, err := Quiver(u, v, tr, bounds, opts)
	if err != nil {
		t.Fatalf("Quiver: %v", err)
	}
	if a.Method != MethodQuiver {
		t.Errorf("Method = %s, want quiver", a.Method)
	}
	img, err := a.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if img.Bounds().Dx() <= 6 {
		t.Errorf("glyph image should upscale the field, got %v", img.Bounds())
	}

	b, err := Quiver(u, v, tr, bounds, opts)
	if err != nil {
		t.Fatalf("Quiver: %v", err)
	}
	if a.ImageURI != b.ImageURI {
		t.Error("quiver rendering must be deterministic")
	}
}

func TestQuiverDegenerate(t *testing.T) {
	u, tr, _ := testField(t, 4, 4)
	a, err := Quiver(u, u, tr, grid.Bounds{}, DefaultQuiverOptions())
	if err != nil {
		t.Fatalf("Quiver: %v", err)
	}
	if _, err := a.Image(); err != nil {
		t.Errorf("blank artifact must still decode: %v", err)
	}
}

func TestArrowGeometry(t *testing.T) {
	opts := ArrowOptions{Autoscale: false, Scale: 2}

	// Pure eastward vector at the origin: shaft along the x axis.
	pts := arrow(1, 0, 0, 0, opts)
	if len(pts) != 5 {
		t.Fatalf("arrow has %d points, want 5", len(pts))
	}
	tail, tip := pts[0], pts[1]
	if math.Abs(tail[0]+1) > 1e-9 || math.Abs(tail[1]) > 1e-9 {
		t.Errorf("tail = %v, want (-1, 0)", tail)
	}
	if math.Abs(tip[0]-1) > 1e-9 || math.Abs(tip[1]) > 1e-9 {
		t.Errorf("tip = %v, want (1, 0)", tip)
	}
	// The barbs are returned as tip, barb, tip, barb.
	if pts[3][0] != tip[0] || pts[3][1] != tip[1] {
		t.Errorf("point 3 should revisit the tip, got %v", pts[3])
	}
	// Both barbs trail behind the tip.
	if pts[2][0] >= tip[0] || pts[4][0] >= tip[0] {
		t.Errorf("barbs should trail the tip: %v, %v", pts[2], pts[4])
	}
}

func TestArrowAutoscale(t *testing.T) {
	opts := ArrowOptions{Autoscale: true, Scale: 0.5}
	small := arrow(1, 1, 0, 0, opts)
	large := arrow(4, 4, 0, 0, opts)
	lenOf := func(pts [][]float64) float64 {
		return math.Hypot(pts[1][0]-pts[0][0], pts[1][1]-pts[0][1])
	}
	if lenOf(large) <= lenOf(small) {
		t.Error("autoscaled arrow length must grow with magnitude")
	}
	// length = sqrt(|u*v|) * scale
	if math.Abs(lenOf(small)-0.5) > 1e-9 {
		t.Errorf("unit vector arrow length = %v, want 0.5", lenOf(small))
	}
}

func TestArrows(t *testing.T) {
	lat := grid.NewAxis([]float64{1, 0})
	lon := grid.NewAxis([]float64{0, 1})
	u, _ := grid.NewSlice(2, 2, []float64{1, 1, math.NaN(), 1})
	v, _ := grid.NewSlice(2, 2, []float64{0, 0, 0, 0})

	a, err := Arrows(u, v, lon, lat, DefaultArrowOptions())
	if err != nil {
		t.Fatalf("Arrows: %v", err)
	}
	if a.Method != MethodGeoJSON {
		t.Errorf("Method = %s, want geojson", a.Method)
	}
	if a.Geometry == nil || !a.Geometry.IsMultiLineString() {
		t.Fatal("artifact should carry a MultiLineString geometry")
	}
	// One sample is NaN, so 3 of 4 arrows survive.
	if len(a.Geometry.MultiLineString) != 3 {
		t.Errorf("got %d arrows, want 3", len(a.Geometry.MultiLineString))
	}
	if _, err := a.Image(); err == nil {
		t.Error("geometry artifacts must refuse image decoding")
	}
}
