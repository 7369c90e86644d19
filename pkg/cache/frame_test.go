package cache

import (
	"sync"
	"testing"
)

// countingSquare squares its input and records how often it ran per input.
type countingSquare struct {
	mu    sync.Mutex
	calls map[int]int
}

func newCountingSquare() *countingSquare {
	return &countingSquare{calls: make(map[int]int)}
}

func (c *countingSquare) Compute(in int) int {
	c.mu.Lock()
	c.calls[in]++
	c.mu.Unlock()
	return in * in
}

func identity(in int) int { return in }

func sameInt(a, b int) bool { return a == b }

func TestGetIsTransparent(t *testing.T) {
	computer := newCountingSquare()
	c := New[int, int, int](computer, identity, sameInt)

	for _, in := range []int{0, 3, -4, 3, 7} {
		if got, want := c.Get(in), in*in; got != want {
			t.Errorf("Get(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestGetComputesOncePerFrame(t *testing.T) {
	computer := newCountingSquare()
	c := New[int, int, int](computer, identity, sameInt)

	c.Get(2)
	c.Get(3)
	c.Get(2)
	c.Get(2)

	if computer.calls[2] != 1 || computer.calls[3] != 1 {
		t.Errorf("Expected one computation per input, got %v", computer.calls)
	}
	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("Expected 2 hits and 2 misses, got %+v", stats)
	}
}

func TestEvict(t *testing.T) {
	tests := []struct {
		name      string
		frames    [][]int // inputs requested per frame, Evict between frames
		final     int     // input requested after the last Evict
		wantCalls int     // computations of final over the whole run
	}{
		{
			name:      "A then B then A without sweep reuses A",
			frames:    [][]int{{1, 2}},
			final:     1,
			wantCalls: 1,
		},
		{
			name:      "entry used in the previous frame survives one sweep",
			frames:    [][]int{{1, 2}, {}},
			final:     1,
			wantCalls: 1,
		},
		{
			name:      "entry unused for a whole frame is recomputed",
			frames:    [][]int{{1, 2}, {2}, {}},
			final:     1,
			wantCalls: 2,
		},
		{
			name:      "entry touched every frame is never recomputed",
			frames:    [][]int{{1}, {1}, {1}, {1}},
			final:     1,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			computer := newCountingSquare()
			c := New[int, int, int](computer, identity, sameInt)

			for i, frame := range tt.frames {
				for _, in := range frame {
					c.Get(in)
				}
				if i < len(tt.frames)-1 {
					c.Evict()
				}
			}
			// final is requested in the last frame
			c.Get(tt.final)

			if computer.calls[tt.final] != tt.wantCalls {
				t.Errorf("Expected %d computations of %d, got %d", tt.wantCalls, tt.final, computer.calls[tt.final])
			}
		})
	}
}

func TestEvictBoundsSize(t *testing.T) {
	c := New[int, int, int](newCountingSquare(), identity, sameInt)

	// A slider dragged across many values, one per frame.
	for in := 0; in < 100; in++ {
		c.Get(in)
		c.Evict()
	}

	if c.Len() > 1 {
		t.Errorf("Expected at most one live entry, got %d", c.Len())
	}
	if c.Stats().Evictions != 99 {
		t.Errorf("Expected 99 evictions, got %d", c.Stats().Evictions)
	}
}

func TestComputerFunc(t *testing.T) {
	c := New[string, string, int](ComputerFunc[string, int](func(s string) int {
		return len(s)
	}), func(s string) string { return s }, func(a, b string) bool { return a == b })

	if got := c.Get("peaks"); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
}

func TestConcurrentGet(t *testing.T) {
	computer := newCountingSquare()
	c := New[int, int, int](computer, identity, sameInt)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := 0; in < 10; in++ {
				if got := c.Get(in); got != in*in {
					t.Errorf("Get(%d) = %d", in, got)
				}
			}
		}()
	}
	wg.Wait()

	for in := 0; in < 10; in++ {
		if computer.calls[in] != 1 {
			t.Errorf("Expected one computation of %d, got %d", in, computer.calls[in])
		}
	}
}

func TestStorageEvictsAll(t *testing.T) {
	var storage Storage
	a := New[int, int, int](newCountingSquare(), identity, sameInt)
	b := New[int, int, int](newCountingSquare(), identity, sameInt)
	storage.Register(a)
	storage.Register(b)

	a.Get(1)
	b.Get(1)
	storage.Evict()
	storage.Evict()

	if a.Len() != 0 || b.Len() != 0 {
		t.Errorf("Expected both caches empty, got %d and %d", a.Len(), b.Len())
	}
}

func TestSharedKeyComparesInputs(t *testing.T) {
	computer := newCountingSquare()
	c := New[int, int, int](computer, func(int) int { return 0 }, sameInt)

	tests := []struct {
		in   int
		want int
	}{
		{in: 1, want: 1},
		{in: 2, want: 4},
		{in: 2, want: 4},
		{in: 1, want: 1},
	}
	for _, tt := range tests {
		if got := c.Get(tt.in); got != tt.want {
			t.Errorf("Get(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 3 || stats.Collisions != 2 {
		t.Errorf("Expected 1 hit, 3 misses and 2 collisions, got %+v", stats)
	}
	if c.Len() != 1 {
		t.Errorf("Expected one entry per key, got %d", c.Len())
	}
}
