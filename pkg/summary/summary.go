// Package summary computes per-record statistics for peak-list libraries.
package summary

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/mspview/pkg/core"
)

// Summary holds statistics of one spectrum.
type Summary struct {
	Name           string
	Peaks          int
	MinMass        uint64
	MaxMass        uint64
	BasePeak       core.Peak
	TotalIntensity float64 // total ion current
	MeanIntensity  float64
	StdIntensity   float64
}

// Of summarizes s. An empty spectrum yields a zero Summary apart from name.
func Of(name string, s core.Spectrum) Summary {
	sum := Summary{Name: name, Peaks: s.Len()}
	if s.Len() == 0 {
		return sum
	}

	peaks := s.Peaks()
	sum.MinMass = peaks[0].Mass
	sum.MaxMass = peaks[len(peaks)-1].Mass
	sum.BasePeak, _ = s.BasePeak()

	intensities := make([]float64, len(peaks))
	for i, p := range peaks {
		intensities[i] = float64(p.Intensity)
	}
	sum.TotalIntensity = floats.Sum(intensities)
	sum.MeanIntensity, sum.StdIntensity = stat.MeanStdDev(intensities, nil)
	if len(intensities) < 2 {
		sum.StdIntensity = 0
	}

	return sum
}

// Library aggregates summaries over a whole file.
type Library struct {
	Records      int
	EmptyRecords int
	TotalPeaks   int
	MinMass      uint64
	MaxMass      uint64
	MeanPeaks    float64
}

// Aggregate combines record summaries.
func Aggregate(items []Summary) Library {
	lib := Library{Records: len(items)}
	if len(items) == 0 {
		return lib
	}

	counts := make([]float64, 0, len(items))
	first := true
	for _, s := range items {
		counts = append(counts, float64(s.Peaks))
		lib.TotalPeaks += s.Peaks
		if s.Peaks == 0 {
			lib.EmptyRecords++
			continue
		}
		if first || s.MinMass < lib.MinMass {
			lib.MinMass = s.MinMass
		}
		if first || s.MaxMass > lib.MaxMass {
			lib.MaxMass = s.MaxMass
		}
		first = false
	}
	lib.MeanPeaks = stat.Mean(counts, nil)

	return lib
}
