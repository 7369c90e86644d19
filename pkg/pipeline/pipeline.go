// Package pipeline composes the per-frame transformations applied to a
// spectrum before it is drawn: bounding, then normalization.
package pipeline

import (
	"github.com/ChrisMcGann/mspview/pkg/bounder"
	"github.com/ChrisMcGann/mspview/pkg/cache"
	"github.com/ChrisMcGann/mspview/pkg/core"
	"github.com/ChrisMcGann/mspview/pkg/normalizer"
)

// Pipeline owns one cache per transformation. Call EndFrame once per
// render cycle.
type Pipeline struct {
	bounded    *bounder.Bounded
	normalized *normalizer.Normalized
	storage    cache.Storage
	frames     uint64
}

// New returns a pipeline with empty caches.
func New() *Pipeline {
	p := &Pipeline{
		bounded:    bounder.NewBounded(),
		normalized: normalizer.NewNormalized(),
	}
	p.storage.Register(p.bounded)
	p.storage.Register(p.normalized)
	return p
}

// Bound returns s restricted to bounds, cached per frame.
func (p *Pipeline) Bound(s core.Spectrum, bounds core.Bounds) core.Spectrum {
	return p.bounded.Get(bounder.Input{Spectrum: s, Bounds: bounds})
}

// Normalize returns s normalized with kind, cached per frame.
func (p *Pipeline) Normalize(s core.Spectrum, kind core.Kind) core.Normalized {
	return p.normalized.Get(normalizer.Input{Spectrum: s, Kind: kind})
}

// Frame bounds s and normalizes the result.
func (p *Pipeline) Frame(s core.Spectrum, bounds core.Bounds, kind core.Kind) core.Normalized {
	return p.Normalize(p.Bound(s, bounds), kind)
}

// EndFrame sweeps entries the finished frame did not use.
func (p *Pipeline) EndFrame() {
	p.storage.Evict()
	p.frames++
}

// Frames returns the number of completed frames.
func (p *Pipeline) Frames() uint64 {
	return p.frames
}

// Stats reports the lookup counters of both caches.
func (p *Pipeline) Stats() (bounded, normalized cache.Stats) {
	return p.bounded.Stats(), p.normalized.Stats()
}
