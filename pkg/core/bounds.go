package core

import "fmt"

// Bounds is a closed interval [Start, End] on one chart axis.
type Bounds struct {
	Start uint64 `yaml:"start"`
	End   uint64 `yaml:"end"`
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v uint64) bool {
	return b.Start <= v && v <= b.End
}

// Empty reports whether no value can satisfy the bounds.
func (b Bounds) Empty() bool {
	return b.Start > b.End
}

// Clamp returns b with End raised to Start when the interval is inverted.
func (b Bounds) Clamp() Bounds {
	if b.End < b.Start {
		b.End = b.Start
	}
	return b
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%d, %d]", b.Start, b.End)
}
