// Package filter provides peak filtering applied to records after parsing
package filter

import (
	"sort"

	"github.com/ChrisMcGann/mspview/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	TopN            int     `yaml:"top_n"`     // Keep only top N most intense peaks (0 = no limit)
	IntensityCutoff float64 `yaml:"cutoff"`    // Keep only peaks at or above this % of base peak (0 = no cutoff)
	KeepZero        bool    `yaml:"keep_zero"` // Keep zero intensity peaks
}

// Enabled reports whether Apply would change anything beyond zero removal.
func (c *Config) Enabled() bool {
	return c.TopN > 0 || c.IntensityCutoff > 0
}

// Apply applies all configured filters to a spectrum and returns the result.
func (c *Config) Apply(s core.Spectrum) core.Spectrum {
	if !c.KeepZero {
		s = RemoveZeroIntensityPeaks(s)
	}

	// Apply intensity filters
	if c.IntensityCutoff > 0 {
		s = filterByIntensity(s, c.IntensityCutoff)
	}

	// Apply top-N filter
	if c.TopN > 0 {
		s = filterTopN(s, c.TopN)
	}

	return s
}

// filterByIntensity removes peaks below the intensity cutoff percentage
func filterByIntensity(s core.Spectrum, cutoff float64) core.Spectrum {
	if s.Len() == 0 {
		return s
	}

	// Calculate threshold
	threshold := (cutoff / 100.0) * float64(s.MaxIntensity())

	var filtered []core.Peak
	for mass, intensity := range s.All() {
		if float64(intensity) >= threshold {
			filtered = append(filtered, core.Peak{Mass: mass, Intensity: intensity})
		}
	}

	return core.NewSpectrum(filtered)
}

// filterTopN keeps only the N most intense peaks. Ties keep the lower mass.
func filterTopN(s core.Spectrum, n int) core.Spectrum {
	if s.Len() <= n {
		return s
	}

	// Sort a copy by intensity descending
	peaks := s.Peaks()
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Intensity > peaks[j].Intensity
	})

	return core.NewSpectrum(peaks[:n])
}

// RemoveZeroIntensityPeaks removes peaks with zero intensity
func RemoveZeroIntensityPeaks(s core.Spectrum) core.Spectrum {
	var filtered []core.Peak
	for mass, intensity := range s.All() {
		if intensity > 0 {
			filtered = append(filtered, core.Peak{Mass: mass, Intensity: intensity})
		}
	}
	if len(filtered) == s.Len() {
		return s
	}
	return core.NewSpectrum(filtered)
}
