// Package gridviz animates time-indexed geospatial datasets as map overlay
// artifacts. A layer owns one dataset's coordinate axes, georeferencing
// transform and frame cache; advancing to a frame serves from the cache or
// renders synchronously, and always prefetches the upcoming frames in the
// background.
package gridviz

import (
	"fmt"
	"time"

	"gridviz/internal/framecache"
	"gridviz/internal/grid"
	"gridviz/internal/prefetch"
	"gridviz/internal/render"
	"gridviz/internal/video"
)

// Frame is one displayed time step: the rendered artifact plus the
// timestamp it represents.
type Frame struct {
	Index    int
	Time     time.Time
	Artifact *render.Artifact
}

// Layer is one animated dataset on the map.
type Layer interface {
	// Name identifies the layer.
	Name() string
	// Len returns the number of time steps.
	Len() int
	// AdvanceTo moves the layer to frame i and returns its artifact.
	AdvanceTo(i int) (Frame, error)
	// DisplayBounds returns the edge-aligned geographic box the rendered
	// image should be placed in.
	DisplayBounds() grid.Bounds
	// Close stops background prefetching and waits for in-flight work.
	Close()
}

// Lookahead defaults: how many upcoming frames a frame change schedules for
// background rendering. These are tunables, not correctness constants.
const (
	defaultLookahead = 50

	// Every 10th frame reached while scrubbing schedules a slightly
	// shorter refill pass.
	checkpointLookahead = 40
	checkpointInterval  = 10
)

// baseLayer carries the machinery shared by raster and wind layers: the
// time axis, the write-once frame cache and the prefetch scheduler.
type baseLayer struct {
	name      string
	times     []time.Time
	cache     *framecache.Cache
	sched     *prefetch.Scheduler
	renderFn  prefetch.RenderFunc
	lookahead int
	frame     int
}

func newBaseLayer(name string, times []time.Time, fn prefetch.RenderFunc, opts prefetch.Options, onRender func(int)) *baseLayer {
	wrapped := fn
	if onRender != nil {
		wrapped = func(i int) (*render.Artifact, error) {
			a, err := fn(i)
			if err == nil {
				onRender(i)
			}
			return a, err
		}
	}
	cache := framecache.New(len(times))
	return &baseLayer{
		name:      name,
		times:     times,
		cache:     cache,
		sched:     prefetch.New(cache, wrapped, opts),
		renderFn:  wrapped,
		lookahead: defaultLookahead,
	}
}

func (l *baseLayer) Name() string { return l.name }

func (l *baseLayer) Len() int { return len(l.times) }

// Frame returns the index the layer currently displays.
func (l *baseLayer) Frame() int { return l.frame }

// AdvanceTo serves frame i from the cache, rendering synchronously on a
// miss, and schedules background prefetch of the frames beyond it.
func (l *baseLayer) AdvanceTo(i int) (Frame, error) {
	if i < 0 || i >= len(l.times) {
		return Frame{}, fmt.Errorf("frame %d out of range [0, %d)", i, len(l.times))
	}
	l.frame = i

	a := l.cache.Get(i)
	if a == nil {
		rendered, err := l.renderFn(i)
		if err != nil {
			return Frame{}, fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		l.cache.Publish(i, rendered)
		// A racing prefetch write may have won; the first write is
		// authoritative either way.
		a = l.cache.Get(i)
	}

	n := l.lookahead
	if i%checkpointInterval == 0 {
		n = checkpointLookahead
	}
	l.sched.Schedule(i+1, n)

	return Frame{Index: i, Time: l.times[i], Artifact: a}, nil
}

// RenderAll blocks until every frame of the layer is present in the cache
// and returns the full artifact sequence in time order.
func (l *baseLayer) RenderAll() ([]*render.Artifact, error) {
	l.sched.Flush(0, len(l.times))
	artifacts := make([]*render.Artifact, len(l.times))
	missing := 0
	for i := range l.times {
		artifacts[i] = l.cache.Get(i)
		if artifacts[i] == nil {
			missing++
		}
	}
	if missing > 0 {
		return nil, fmt.Errorf("%d of %d frames failed to render", missing, len(l.times))
	}
	return artifacts, nil
}

// ExportVideo renders every frame and writes the sequence to an MJPEG AVI.
func (l *baseLayer) ExportVideo(outputPath string, opts video.Options) error {
	artifacts, err := l.RenderAll()
	if err != nil {
		return err
	}
	return video.ExportMJPEG(artifacts, outputPath, opts)
}

// CachedFrames reports how many frames are already rendered.
func (l *baseLayer) CachedFrames() (present, total int) { return l.cache.Stats() }

func (l *baseLayer) Close() { l.sched.Close() }

// timesValid checks the shared layer constructor inputs.
func timesValid(times []time.Time, steps int) error {
	if len(times) == 0 {
		return fmt.Errorf("dataset has no time steps")
	}
	if len(times) != steps {
		return fmt.Errorf("time axis has %d entries for %d grid steps", len(times), steps)
	}
	return nil
}
