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

// WindConfig configures a vector-field layer.
type WindConfig struct {
	// Method selects quiver images or geojson arrow geometry.
	Method render.Method
	// Stride keeps every nth sample. Higher stride means fewer arrows and
	// faster rendering.
	Stride int
	// Autoscale scales arrows by magnitude; otherwise all arrows share one
	// length.
	Autoscale bool
	// Color colors quiver glyphs by magnitude (quiver only).
	Color bool
	// Scale is the arrow length factor; its meaning depends on the method
	// and on Autoscale.
	Scale float64
	// Palette colors quiver glyphs when Color is set.
	Palette render.Palette
	// Prefetch tunes the background scheduler.
	Prefetch prefetch.Options
	// OnRender, when set, is called after every successful render.
	OnRender func(index int)
}

// DefaultWindConfig returns the default vector-field settings.
func DefaultWindConfig() WindConfig {
	return WindConfig{
		Method:    render.MethodGeoJSON,
		Stride:    1,
		Autoscale: true,
		Scale:     0.5,
		Palette:   render.Viridis,
		Prefetch:  prefetch.DefaultOptions(),
	}
}

// WindLayer animates a two-component vector field (eastward u, northward v)
// as arrow geometry or glyph imagery.
type WindLayer struct {
	*baseLayer
	u, v       *grid.Grid
	stride     int
	method     render.Method
	lat, lon   grid.Axis // decimated by stride
	transform  grid.Transform
	bounds     grid.Bounds
	edgeBounds grid.Bounds
}

// NewWindLayer builds a vector-field layer from the two component grids.
// The transform describes the full-resolution grid; it is scaled by the
// stride internally.
func NewWindLayer(name string, u, v *grid.Grid, lat, lon grid.Axis, times []time.Time, transform grid.Transform, cfg WindConfig) (*WindLayer, error) {
	if u == nil || v == nil {
		return nil, fmt.Errorf("wind layer %q: missing component grid", name)
	}
	if u.Len() != v.Len() || u.Rows() != v.Rows() || u.Cols() != v.Cols() {
		return nil, fmt.Errorf("wind layer %q: u is %dx%dx%d but v is %dx%dx%d",
			name, u.Len(), u.Rows(), u.Cols(), v.Len(), v.Rows(), v.Cols())
	}
	if err := timesValid(times, u.Len()); err != nil {
		return nil, fmt.Errorf("wind layer %q: %w", name, err)
	}
	if u.Rows() != lat.Len() || u.Cols() != lon.Len() {
		return nil, fmt.Errorf("wind layer %q: grid is %dx%d but axes are %dx%d",
			name, u.Rows(), u.Cols(), lat.Len(), lon.Len())
	}
	if cfg.Stride < 1 {
		cfg.Stride = 1
	}
	if cfg.Method != render.MethodQuiver && cfg.Method != render.MethodGeoJSON {
		return nil, fmt.Errorf("wind layer %q: unsupported method %s", name, cfg.Method)
	}
	if cfg.Palette.Name() == "" {
		cfg.Palette = render.Viridis
	}

	l := &WindLayer{
		u:          u,
		v:          v,
		stride:     cfg.Stride,
		method:     cfg.Method,
		lat:        lat.Stride(cfg.Stride),
		lon:        lon.Stride(cfg.Stride),
		transform:  transform.Stride(cfg.Stride),
		bounds:     grid.BoundsOf(lat, lon),
		edgeBounds: grid.EdgeBoundsOf(lat, lon),
	}

	var renderFrame prefetch.RenderFunc
	switch cfg.Method {
	case render.MethodGeoJSON:
		opts := render.ArrowOptions{Autoscale: cfg.Autoscale, Scale: cfg.Scale}
		renderFrame = func(i int) (*render.Artifact, error) {
			return render.Arrows(
				u.Slice(i).Stride(l.stride),
				v.Slice(i).Stride(l.stride),
				l.lon, l.lat, opts)
		}
	case render.MethodQuiver:
		opts := render.DefaultQuiverOptions()
		opts.Autoscale = cfg.Autoscale
		opts.Color = cfg.Color
		opts.Palette = cfg.Palette
		if cfg.Scale > 0 {
			opts.Scale = cfg.Scale
		}
		renderFrame = func(i int) (*render.Artifact, error) {
			return render.Quiver(
				u.Slice(i).Stride(l.stride),
				v.Slice(i).Stride(l.stride),
				l.transform, l.edgeBounds, opts)
		}
	}

	l.baseLayer = newBaseLayer(name, times, renderFrame, cfg.Prefetch, cfg.OnRender)
	return l, nil
}

// DisplayBounds returns the edge-aligned box a quiver image covers.
func (l *WindLayer) DisplayBounds() grid.Bounds { return l.edgeBounds }

// Selection masks the current frame's u and v component slices (decimated
// by the layer stride) with the drawn shapes.
func (l *WindLayer) Selection(shapes ...*geojson.Feature) (MaskedSlice, MaskedSlice, error) {
	mask, err := selection.Combine(shapes, l.lat, l.lon)
	if err != nil {
		return MaskedSlice{}, MaskedSlice{}, err
	}
	return MaskedSlice{Values: l.u.Slice(l.frame).Stride(l.stride), Mask: mask},
		MaskedSlice{Values: l.v.Slice(l.frame).Stride(l.stride), Mask: mask},
		nil
}
