// Package normalizer rescales spectrum intensities relative to the base peak.
package normalizer

import (
	"github.com/ChrisMcGann/mspview/pkg/cache"
	"github.com/ChrisMcGann/mspview/pkg/core"
)

// Normalize maps every intensity of s to scale*intensity/max, where max is
// the largest intensity in s and scale is 1 or 100 depending on kind.
//
// When max is zero every peak maps to 0. The mass set of the result always
// equals that of s.
func Normalize(s core.Spectrum, kind core.Kind) core.Normalized {
	if s.Len() == 0 {
		return core.NewNormalized(nil, kind)
	}

	max := s.MaxIntensity()
	scale := kind.Scale()

	peaks := make([]core.NormalizedPeak, 0, s.Len())
	for mass, intensity := range s.All() {
		var v float64
		if max > 0 {
			v = scale * float64(intensity) / float64(max)
		}
		peaks = append(peaks, core.NormalizedPeak{Mass: mass, Intensity: v})
	}
	return core.NewNormalized(peaks, kind)
}

// Input is what a normalized view depends on.
type Input struct {
	Spectrum core.Spectrum
	Kind     core.Kind
}

// Key identifies an Input by spectrum content and kind.
type Key struct {
	Spectrum core.Digest
	Kind     core.Kind
}

// KeyOf returns the cache key of in.
func KeyOf(in Input) Key {
	return Key{Spectrum: in.Spectrum.Digest(), Kind: in.Kind}
}

// Equal reports whether a and b hold the same peaks and kind.
func Equal(a, b Input) bool {
	return a.Kind == b.Kind && a.Spectrum.Equal(b.Spectrum)
}

// Normalizer computes normalized spectra.
type Normalizer struct{}

// Compute implements cache.Computer.
func (Normalizer) Compute(in Input) core.Normalized {
	return Normalize(in.Spectrum, in.Kind)
}

// Normalized is a per-frame cache of normalized spectra.
type Normalized = cache.FrameCache[Key, Input, core.Normalized]

// NewNormalized returns an empty Normalized cache.
func NewNormalized() *Normalized {
	return cache.New[Key, Input, core.Normalized](Normalizer{}, KeyOf, Equal)
}
