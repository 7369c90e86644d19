// Package bounder restricts spectra to a mass window.
package bounder

import (
	"github.com/ChrisMcGann/mspview/pkg/cache"
	"github.com/ChrisMcGann/mspview/pkg/core"
)

// Bound returns the peaks of s whose mass lies in [b.Start, b.End]. Inverted
// bounds yield an empty spectrum. The result shares storage with s.
func Bound(s core.Spectrum, b core.Bounds) core.Spectrum {
	if b.Empty() || s.Len() == 0 {
		return core.Spectrum{}
	}

	lo := s.Search(b.Start)
	hi := s.Len()
	if b.End < ^uint64(0) {
		hi = s.Search(b.End + 1)
	}
	return s.Slice(lo, hi)
}

// Input is what a bounded view depends on.
type Input struct {
	Spectrum core.Spectrum
	Bounds   core.Bounds
}

// Key identifies an Input by spectrum content and bounds.
type Key struct {
	Spectrum core.Digest
	Bounds   core.Bounds
}

// KeyOf returns the cache key of in.
func KeyOf(in Input) Key {
	return Key{Spectrum: in.Spectrum.Digest(), Bounds: in.Bounds}
}

// Equal reports whether a and b hold the same peaks and bounds.
func Equal(a, b Input) bool {
	return a.Bounds == b.Bounds && a.Spectrum.Equal(b.Spectrum)
}

// Bounder computes bounded spectra.
type Bounder struct{}

// Compute implements cache.Computer.
func (Bounder) Compute(in Input) core.Spectrum {
	return Bound(in.Spectrum, in.Bounds)
}

// Bounded is a per-frame cache of bounded spectra.
type Bounded = cache.FrameCache[Key, Input, core.Spectrum]

// NewBounded returns an empty Bounded cache.
func NewBounded() *Bounded {
	return cache.New[Key, Input, core.Spectrum](Bounder{}, KeyOf, Equal)
}
