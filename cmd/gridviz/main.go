// Command gridviz renders a synthetic time-animated dataset through the
// full layer pipeline and exports the frame sequence as an MJPEG video.
// It exists to exercise the library end to end without a dataset file.
package main

import (
	"flag"
	"log"
	"math"
	"sync/atomic"
	"time"

	"gridviz/internal/grid"
	"gridviz/internal/render"
	"gridviz/internal/video"
	"gridviz/pkg/gridviz"
)

var (
	frames  = flag.Int("frames", 60, "number of time steps to synthesize")
	rows    = flag.Int("rows", 90, "grid rows (latitude samples)")
	cols    = flag.Int("cols", 180, "grid columns (longitude samples)")
	method  = flag.String("method", "raster", "rendering method: raster or quiver")
	palette = flag.String("palette", "viridis", "color palette: viridis, plasma or gray")
	out     = flag.String("out", "gridviz.avi", "output video path")
	fps     = flag.Int("fps", 10, "video frame rate")
)

func main() {
	flag.Parse()

	pal, err := render.PaletteNamed(*palette)
	if err != nil {
		log.Fatalf("[Demo] %v", err)
	}

	lat := grid.Linspace(60, -60, *rows)
	lon := grid.Linspace(-120, 120, *cols)
	transform, err := grid.TransformFromAxes(lat, lon)
	if err != nil {
		log.Fatalf("[Demo] %v", err)
	}

	times := make([]time.Time, *frames)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}

	var layer interface {
		gridviz.Layer
		ExportVideo(string, video.Options) error
	}

	var rendered atomic.Int64
	onRender := func(int) {
		if n := rendered.Add(1); n%25 == 0 {
			log.Printf("[Demo] rendered %d frames", n)
		}
	}

	switch *method {
	case "raster":
		cfg := gridviz.DefaultRasterConfig()
		cfg.Palette = pal
		cfg.OnRender = onRender
		layer, err = gridviz.NewRasterLayer("temperature", temperatureGrid(*frames, lat, lon), lat, lon, times, transform, cfg)
	case "quiver":
		cfg := gridviz.DefaultWindConfig()
		cfg.Method = render.MethodQuiver
		cfg.Color = true
		cfg.Palette = pal
		cfg.OnRender = onRender
		u, v := vortexGrids(*frames, lat, lon)
		layer, err = gridviz.NewWindLayer("wind", u, v, lat, lon, times, transform, cfg)
	default:
		log.Fatalf("[Demo] unknown method %q", *method)
	}
	if err != nil {
		log.Fatalf("[Demo] %v", err)
	}
	defer layer.Close()

	f, err := layer.AdvanceTo(0)
	if err != nil {
		log.Fatalf("[Demo] %v", err)
	}
	log.Printf("[Demo] first frame at %s, bounds %+v", f.Time.Format(time.RFC3339), layer.DisplayBounds())

	opts := video.DefaultOptions()
	opts.FPS = *fps
	if err := layer.ExportVideo(*out, opts); err != nil {
		log.Fatalf("[Demo] video export failed: %v", err)
	}
}

// temperatureGrid synthesizes a drifting warm band over the axes.
func temperatureGrid(steps int, lat, lon grid.Axis) *grid.Grid {
	values := make([]float64, 0, steps*lat.Len()*lon.Len())
	for t := 0; t < steps; t++ {
		phase := 2 * math.Pi * float64(t) / float64(steps)
		for r := 0; r < lat.Len(); r++ {
			for c := 0; c < lon.Len(); c++ {
				band := math.Cos(lat.At(r) * math.Pi / 90)
				wave := math.Sin(lon.At(c)*math.Pi/60 + phase)
				values = append(values, 15+10*band+5*wave)
			}
		}
	}
	g, err := grid.NewGrid(steps, lat.Len(), lon.Len(), values)
	if err != nil {
		log.Fatalf("[Demo] %v", err)
	}
	return g
}

// vortexGrids synthesizes a rotating vortex centered on the domain.
func vortexGrids(steps int, lat, lon grid.Axis) (*grid.Grid, *grid.Grid) {
	n := steps * lat.Len() * lon.Len()
	uVals := make([]float64, 0, n)
	vVals := make([]float64, 0, n)
	for t := 0; t < steps; t++ {
		spin := 1 + 0.5*math.Sin(2*math.Pi*float64(t)/float64(steps))
		for r := 0; r < lat.Len(); r++ {
			for c := 0; c < lon.Len(); c++ {
				y := lat.At(r) / 60
				x := lon.At(c) / 120
				uVals = append(uVals, -y*spin)
				vVals = append(vVals, x*spin)
			}
		}
	}
	u, err := grid.NewGrid(steps, lat.Len(), lon.Len(), uVals)
	if err != nil {
		log.Fatalf("[Demo] %v", err)
	}
	v, err := grid.NewGrid(steps, lat.Len(), lon.Len(), vVals)
	if err != nil {
		log.Fatalf("[Demo] %v", err)
	}
	return u, v
}
