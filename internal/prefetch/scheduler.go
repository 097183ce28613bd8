// Package prefetch computes upcoming frames in the background so scrubbing
// through time stays smooth. Dispatch requests are debounced so a burst of
// frame changes collapses into one pass, and rendering runs on a long-lived
// bounded worker pool.
package prefetch

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"golang.org/x/sync/semaphore"

	"gridviz/internal/framecache"
	"gridviz/internal/render"
)

// RenderFunc produces the artifact for one frame index.
type RenderFunc func(index int) (*render.Artifact, error)

// Options configures a scheduler.
type Options struct {
	// Workers bounds concurrent render tasks. Defaults to the host core
	// count.
	Workers int
	// Window is the debounce interval: calls arriving faster than this
	// collapse into the last one.
	Window time.Duration
}

// DefaultOptions returns the default scheduler settings.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.NumCPU(),
		Window:  300 * time.Millisecond,
	}
}

// Scheduler fills absent cache slots in the background. Schedule is
// best-effort and coalesced; Flush renders synchronously for callers that
// need every frame present.
type Scheduler struct {
	cache    *framecache.Cache
	render   RenderFunc
	sem      *semaphore.Weighted
	debounce func(func())

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	onRendered atomic.Pointer[func(index int)]

	dispatches atomic.Int64
	rendered   atomic.Int64
	failed     atomic.Int64
}

// New creates a scheduler writing into cache via fn.
func New(cache *framecache.Cache, fn RenderFunc, opts Options) *Scheduler {
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	if opts.Window <= 0 {
		opts.Window = DefaultOptions().Window
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cache:    cache,
		render:   fn,
		sem:      semaphore.NewWeighted(int64(opts.Workers)),
		debounce: debounce.New(opts.Window),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetOnRendered registers a callback invoked after a prefetched frame is
// published. Used for progress reporting.
func (s *Scheduler) SetOnRendered(fn func(index int)) {
	s.onRendered.Store(&fn)
}

// Schedule requests background rendering of the count frames starting at
// start. Calls within the debounce window collapse into the most recent
// one; only the last call in a burst dispatches.
func (s *Scheduler) Schedule(start, count int) {
	s.debounce(func() {
		s.dispatch(start, count, false)
	})
}

// Flush renders the requested range immediately and blocks until every
// submitted task has completed.
func (s *Scheduler) Flush(start, count int) {
	s.dispatch(start, count, true)
}

// dispatch submits one render task per absent index. Already-present slots
// are skipped without submission. A failing task is logged and leaves its
// slot absent for a later retry; it never aborts the other tasks.
func (s *Scheduler) dispatch(start, count int, wait bool) {
	s.dispatches.Add(1)
	var wg sync.WaitGroup
	for _, i := range s.cache.Missing(start, count) {
		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			break // scheduler closed
		}
		wg.Add(1)
		s.tasks.Add(1)
		go func(i int) {
			defer s.sem.Release(1)
			defer wg.Done()
			defer s.tasks.Done()

			a, err := s.renderSafe(i)
			if err != nil {
				s.failed.Add(1)
				log.Printf("[Prefetch] frame %d failed: %v", i, err)
				return
			}
			if s.cache.Publish(i, a) {
				s.rendered.Add(1)
				if cb := s.onRendered.Load(); cb != nil {
					(*cb)(i)
				}
			}
		}(i)
	}
	if wait {
		wg.Wait()
	}
}

// renderSafe keeps a panicking render task from taking down the pool.
func (s *Scheduler) renderSafe(i int) (a *render.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panicked: %v", r)
		}
	}()
	return s.render(i)
}

// Wait blocks until all in-flight tasks are done.
func (s *Scheduler) Wait() { s.tasks.Wait() }

// Stats returns dispatch, rendered and failed counters.
func (s *Scheduler) Stats() (dispatches, rendered, failed int64) {
	return s.dispatches.Load(), s.rendered.Load(), s.failed.Load()
}

// Close stops accepting work and waits for in-flight tasks. A coalesced
// call still pending in the debounce window will find the context closed
// and dispatch nothing.
func (s *Scheduler) Close() {
	s.cancel()
	s.tasks.Wait()
}
