package gridviz

import (
	"fmt"
	"time"

	geojson "github.com/paulmach/go.geojson"

	"gridviz/internal/grid"
	"gridviz/internal/prefetch"
	"gridviz/internal/render"
	"gridviz/internal/selection"
)

// RasterConfig configures a raster layer.
type RasterConfig struct {
	// Palette colors the normalized samples. Defaults to viridis.
	Palette render.Palette
	// Prefetch tunes the background scheduler.
	Prefetch prefetch.Options
	// OnRender, when set, is called with the frame index after every
	// successful render, synchronous or prefetched.
	OnRender func(index int)
}

// DefaultRasterConfig returns the default raster settings.
func DefaultRasterConfig() RasterConfig {
	return RasterConfig{
		Palette:  render.Viridis,
		Prefetch: prefetch.DefaultOptions(),
	}
}

// MaskedSlice is one time slice paired with a selection mask over it.
type MaskedSlice struct {
	Values grid.Slice
	Mask   *selection.Mask
}

// RasterLayer animates a single-variable scalar grid as color-mapped
// imagery.
type RasterLayer struct {
	*baseLayer
	data       *grid.Grid
	lat, lon   grid.Axis
	transform  grid.Transform
	bounds     grid.Bounds
	edgeBounds grid.Bounds
}

// NewRasterLayer builds a raster layer over an in-memory dataset: the
// sample block, its coordinate axes and time axis, and the affine transform
// from grid indices to geographic coordinates.
func NewRasterLayer(name string, data *grid.Grid, lat, lon grid.Axis, times []time.Time, transform grid.Transform, cfg RasterConfig) (*RasterLayer, error) {
	if data == nil {
		return nil, fmt.Errorf("raster layer %q: no data grid", name)
	}
	if err := timesValid(times, data.Len()); err != nil {
		return nil, fmt.Errorf("raster layer %q: %w", name, err)
	}
	if data.Rows() != lat.Len() || data.Cols() != lon.Len() {
		return nil, fmt.Errorf("raster layer %q: grid is %dx%d but axes are %dx%d",
			name, data.Rows(), data.Cols(), lat.Len(), lon.Len())
	}
	if cfg.Palette.Name() == "" {
		cfg.Palette = render.Viridis
	}

	l := &RasterLayer{
		data:       data,
		lat:        lat,
		lon:        lon,
		transform:  transform,
		bounds:     grid.BoundsOf(lat, lon),
		edgeBounds: grid.EdgeBoundsOf(lat, lon),
	}
	renderFrame := func(i int) (*render.Artifact, error) {
		return render.Raster(data.Slice(i), transform, l.edgeBounds, cfg.Palette)
	}
	l.baseLayer = newBaseLayer(name, times, renderFrame, cfg.Prefetch, cfg.OnRender)
	return l, nil
}

// DisplayBounds returns the edge-aligned box the rendered image covers.
func (l *RasterLayer) DisplayBounds() grid.Bounds { return l.edgeBounds }

// Bounds returns the box spanning the sample centers.
func (l *RasterLayer) Bounds() grid.Bounds { return l.bounds }

// Selection masks the current frame's slice with the drawn shapes. A cell
// is included only when it lies inside every shape.
func (l *RasterLayer) Selection(shapes ...*geojson.Feature) (MaskedSlice, error) {
	mask, err := selection.Combine(shapes, l.lat, l.lon)
	if err != nil {
		return MaskedSlice{}, err
	}
	return MaskedSlice{Values: l.data.Slice(l.frame), Mask: mask}, nil
}
