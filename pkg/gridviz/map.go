package gridviz

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

// Map composes multiple layers over one interactive display. It advances
// layers together on frame changes and fans selection queries out to every
// raster layer.
type Map struct {
	layers []Layer
}

// NewMap creates an empty map.
func NewMap() *Map { return &Map{} }

// AddLayer appends a layer. Layers are advanced in insertion order.
func (m *Map) AddLayer(l Layer) { m.layers = append(m.layers, l) }

// Layers returns the layers in insertion order.
func (m *Map) Layers() []Layer { return m.layers }

// AdvanceTo moves every layer that has frame i to it and returns the new
// frames keyed by layer name. Layers with fewer time steps are skipped.
func (m *Map) AdvanceTo(i int) (map[string]Frame, error) {
	frames := make(map[string]Frame, len(m.layers))
	for _, l := range m.layers {
		if i >= l.Len() {
			continue
		}
		f, err := l.AdvanceTo(i)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.Name(), err)
		}
		frames[l.Name()] = f
	}
	return frames, nil
}

// Selections runs the drawn shapes against every raster layer and returns
// the masked slices keyed by layer name.
func (m *Map) Selections(shapes ...*geojson.Feature) (map[string]MaskedSlice, error) {
	out := make(map[string]MaskedSlice)
	for _, l := range m.layers {
		rl, ok := l.(*RasterLayer)
		if !ok {
			continue
		}
		ms, err := rl.Selection(shapes...)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.Name(), err)
		}
		out[l.Name()] = ms
	}
	return out, nil
}

// Close shuts down every layer's background prefetching.
func (m *Map) Close() {
	for _, l := range m.layers {
		l.Close()
	}
}
