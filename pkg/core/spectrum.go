// Package core provides the data model shared by the mspview transformation
// pipeline: sparse spectra keyed by nominal mass, display bounds and
// normalized views.
package core

import (
	"encoding/binary"
	"hash/fnv"
	"iter"
	"math"
	"math/bits"
	"sort"
)

// Peak is a single nominal mass, intensity pair.
type Peak struct {
	Mass      uint64
	Intensity uint64
}

// Digest identifies a spectrum by content. Two spectra with the same peaks
// have the same digest.
type Digest struct {
	Sum uint64
	Len int
}

// Spectrum is an immutable mapping from mass to intensity, iterated in
// ascending mass order. The zero value is an empty spectrum.
type Spectrum struct {
	peaks  []Peak
	digest Digest
}

// NewSpectrum builds a spectrum from peaks in any order. Peaks sharing a
// mass are summed; a sum that overflows saturates at math.MaxUint64.
func NewSpectrum(peaks []Peak) Spectrum {
	sorted := make([]Peak, len(peaks))
	copy(sorted, peaks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Mass < sorted[j].Mass
	})

	merged := sorted[:0]
	for _, p := range sorted {
		if n := len(merged); n > 0 && merged[n-1].Mass == p.Mass {
			merged[n-1].Intensity = saturatingAdd(merged[n-1].Intensity, p.Intensity)
			continue
		}
		merged = append(merged, p)
	}

	return fromSorted(merged)
}

func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// FromMap builds a spectrum from a mass → intensity map.
func FromMap(m map[uint64]uint64) Spectrum {
	peaks := make([]Peak, 0, len(m))
	for mass, intensity := range m {
		peaks = append(peaks, Peak{Mass: mass, Intensity: intensity})
	}
	return NewSpectrum(peaks)
}

// fromSorted wraps peaks that are already sorted with unique masses. The
// slice must not be modified afterwards.
func fromSorted(peaks []Peak) Spectrum {
	if len(peaks) == 0 {
		return Spectrum{}
	}
	return Spectrum{peaks: peaks, digest: digestOf(peaks)}
}

// Slice returns the peaks with index in [lo, hi). It shares storage with s.
func (s Spectrum) Slice(lo, hi int) Spectrum {
	if lo >= hi {
		return Spectrum{}
	}
	return fromSorted(s.peaks[lo:hi:hi])
}

func digestOf(peaks []Peak) Digest {
	h := fnv.New64a()
	var buf [16]byte
	for _, p := range peaks {
		binary.LittleEndian.PutUint64(buf[:8], p.Mass)
		binary.LittleEndian.PutUint64(buf[8:], p.Intensity)
		h.Write(buf[:])
	}
	return Digest{Sum: h.Sum64(), Len: len(peaks)}
}

// Len returns the number of peaks.
func (s Spectrum) Len() int {
	return len(s.peaks)
}

// Digest returns the content digest of s.
func (s Spectrum) Digest() Digest {
	return s.digest
}

// Peaks returns a copy of the peaks in ascending mass order.
func (s Spectrum) Peaks() []Peak {
	if len(s.peaks) == 0 {
		return nil
	}
	out := make([]Peak, len(s.peaks))
	copy(out, s.peaks)
	return out
}

// All iterates over (mass, intensity) pairs in ascending mass order.
func (s Spectrum) All() iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		for _, p := range s.peaks {
			if !yield(p.Mass, p.Intensity) {
				return
			}
		}
	}
}

// Intensity returns the intensity at mass and whether the mass is present.
func (s Spectrum) Intensity(mass uint64) (uint64, bool) {
	i := s.Search(mass)
	if i < len(s.peaks) && s.peaks[i].Mass == mass {
		return s.peaks[i].Intensity, true
	}
	return 0, false
}

// Search returns the index of the first peak with mass >= mass.
func (s Spectrum) Search(mass uint64) int {
	return sort.Search(len(s.peaks), func(i int) bool {
		return s.peaks[i].Mass >= mass
	})
}

// MaxIntensity returns the largest intensity, or 0 for an empty spectrum.
func (s Spectrum) MaxIntensity() uint64 {
	var max uint64
	for _, p := range s.peaks {
		if p.Intensity > max {
			max = p.Intensity
		}
	}
	return max
}

// BasePeak returns the most intense peak. Ties resolve to the lowest mass.
func (s Spectrum) BasePeak() (Peak, bool) {
	if len(s.peaks) == 0 {
		return Peak{}, false
	}
	base := s.peaks[0]
	for _, p := range s.peaks[1:] {
		if p.Intensity > base.Intensity {
			base = p
		}
	}
	return base, true
}

// Equal reports whether s and other hold the same peaks.
func (s Spectrum) Equal(other Spectrum) bool {
	if s.digest != other.digest || len(s.peaks) != len(other.peaks) {
		return false
	}
	for i := range s.peaks {
		if s.peaks[i] != other.peaks[i] {
			return false
		}
	}
	return true
}
