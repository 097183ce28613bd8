// Package framecache stores rendered frame artifacts in a per-layer arena
// of write-once slots indexed by frame number. Slots move from absent to
// present exactly once and are never invalidated, so readers need no lock
// and concurrent writers on disjoint indices cannot lose writes.
package framecache

import (
	"sync/atomic"

	"gridviz/internal/render"
)

// Cache is a fixed-size array of optional frame artifacts.
type Cache struct {
	slots []atomic.Pointer[render.Artifact]
}

// New creates a cache with n absent entries.
func New(n int) *Cache {
	if n < 0 {
		n = 0
	}
	return &Cache{slots: make([]atomic.Pointer[render.Artifact], n)}
}

// Len returns the number of slots.
func (c *Cache) Len() int { return len(c.slots) }

// Get returns the artifact at index i, or nil when absent or out of range.
func (c *Cache) Get(i int) *render.Artifact {
	if i < 0 || i >= len(c.slots) {
		return nil
	}
	return c.slots[i].Load()
}

// Present reports whether slot i holds an artifact.
func (c *Cache) Present(i int) bool { return c.Get(i) != nil }

// Publish fills slot i if it is still absent and reports whether this write
// won. A slot that is already present keeps its first artifact; the losing
// write is silently discarded.
func (c *Cache) Publish(i int, a *render.Artifact) bool {
	if i < 0 || i >= len(c.slots) || a == nil {
		return false
	}
	return c.slots[i].CompareAndSwap(nil, a)
}

// Missing returns the absent indices within [start, start+count), clamped
// to the cache range.
func (c *Cache) Missing(start, count int) []int {
	if start < 0 {
		count += start
		start = 0
	}
	end := start + count
	if end > len(c.slots) {
		end = len(c.slots)
	}
	var absent []int
	for i := start; i < end; i++ {
		if c.slots[i].Load() == nil {
			absent = append(absent, i)
		}
	}
	return absent
}

// Stats returns the number of present slots and the total slot count.
func (c *Cache) Stats() (present, total int) {
	for i := range c.slots {
		if c.slots[i].Load() != nil {
			present++
		}
	}
	return present, len(c.slots)
}
