// Package cache provides a memoizer for pure computations that are requested
// once per render frame.
package cache

import "sync"

// Computer produces an output from an input. Compute must be pure: equal
// inputs yield equal outputs.
type Computer[In, Out any] interface {
	Compute(in In) Out
}

// ComputerFunc adapts a function to the Computer interface.
type ComputerFunc[In, Out any] func(In) Out

// Compute calls f(in).
func (f ComputerFunc[In, Out]) Compute(in In) Out {
	return f(in)
}

// Stats counts cache lookups.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Collisions uint64 // key hits whose stored input differed
}

type entry[In, Out any] struct {
	generation uint64
	input      In
	value      Out
}

// FrameCache memoizes a Computer keyed by a comparable key derived from the
// input. A key hit is only served when the stored input equals the
// requested one; otherwise the entry is recomputed and replaced. Entries not
// requested since the previous Evict are dropped by the next Evict, so a
// cache holds only what the current frame uses.
//
// The host loop calls Evict once per frame. FrameCache is safe for
// concurrent use; Compute runs with the cache locked.
type FrameCache[K comparable, In, Out any] struct {
	mu         sync.Mutex
	computer   Computer[In, Out]
	key        func(In) K
	equal      func(a, b In) bool
	generation uint64
	entries    map[K]*entry[In, Out]
	stats      Stats
}

// New returns a FrameCache wrapping computer. key must map equal inputs to
// equal keys; distinct inputs may share a key. equal decides whether a
// stored input matches a requested one.
func New[K comparable, In, Out any](computer Computer[In, Out], key func(In) K, equal func(a, b In) bool) *FrameCache[K, In, Out] {
	return &FrameCache[K, In, Out]{
		computer: computer,
		key:      key,
		equal:    equal,
		entries:  make(map[K]*entry[In, Out]),
	}
}

// Get returns the cached output for in, computing and storing it when no
// entry exists for its key or the entry holds a different input.
func (c *FrameCache[K, In, Out]) Get(in In) Out {
	k := c.key(in)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[k]; ok {
		if c.equal(e.input, in) {
			e.generation = c.generation
			c.stats.Hits++
			return e.value
		}
		c.stats.Collisions++
	}

	value := c.computer.Compute(in)
	c.entries[k] = &entry[In, Out]{generation: c.generation, input: in, value: value}
	c.stats.Misses++
	return value
}

// Evict drops every entry not requested since the previous Evict and starts
// a new frame.
func (c *FrameCache[K, In, Out]) Evict() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.generation != c.generation {
			delete(c.entries, k)
			c.stats.Evictions++
		}
	}
	c.generation++
}

// Len returns the number of live entries.
func (c *FrameCache[K, In, Out]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the lookup counters.
func (c *FrameCache[K, In, Out]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Evicter is implemented by caches swept once per frame.
type Evicter interface {
	Evict()
}

// Storage groups the caches of one view so the host loop can sweep them
// together.
type Storage struct {
	mu     sync.Mutex
	caches []Evicter
}

// Register adds c to the storage and returns it.
func (s *Storage) Register(c Evicter) Evicter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caches = append(s.caches, c)
	return c
}

// Evict sweeps every registered cache.
func (s *Storage) Evict() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.caches {
		c.Evict()
	}
}
