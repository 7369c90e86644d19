package core

import (
	"fmt"
	"iter"
	"strings"
)

// Kind selects the scale of normalized intensities.
type Kind int

const (
	// Fraction scales intensities into [0, 1].
	Fraction Kind = iota
	// Percent scales intensities into [0, 100].
	Percent
)

// Scale returns the value assigned to the most intense peak.
func (k Kind) Scale() float64 {
	if k == Percent {
		return 100
	}
	return 1
}

func (k Kind) String() string {
	switch k {
	case Fraction:
		return "fraction"
	case Percent:
		return "percent"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "fraction" or "percent" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fraction", "relative":
		return Fraction, nil
	case "percent", "%":
		return Percent, nil
	default:
		return 0, fmt.Errorf("invalid normalization kind '%s', must be fraction or percent", s)
	}
}

// NormalizedPeak is a peak with a rescaled intensity.
type NormalizedPeak struct {
	Mass      uint64
	Intensity float64
}

// Normalized is a spectrum whose intensities were rescaled relative to its
// most intense peak. It is immutable and ordered by ascending mass.
type Normalized struct {
	peaks []NormalizedPeak
	kind  Kind
}

// NewNormalized wraps peaks already sorted by mass. The slice must not be
// modified afterwards.
func NewNormalized(peaks []NormalizedPeak, kind Kind) Normalized {
	return Normalized{peaks: peaks, kind: kind}
}

// Kind returns the scale the intensities were computed with.
func (n Normalized) Kind() Kind {
	return n.kind
}

// Len returns the number of peaks.
func (n Normalized) Len() int {
	return len(n.peaks)
}

// Peaks returns a copy of the peaks in ascending mass order.
func (n Normalized) Peaks() []NormalizedPeak {
	if len(n.peaks) == 0 {
		return nil
	}
	out := make([]NormalizedPeak, len(n.peaks))
	copy(out, n.peaks)
	return out
}

// All iterates over (mass, intensity) pairs in ascending mass order.
func (n Normalized) All() iter.Seq2[uint64, float64] {
	return func(yield func(uint64, float64) bool) {
		for _, p := range n.peaks {
			if !yield(p.Mass, p.Intensity) {
				return
			}
		}
	}
}
