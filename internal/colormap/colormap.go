// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package colormap maps normalized values onto colors.
//
// A continuous scheme is a function from [0, 1] to RGBA. Map discretizes
// such a function into a fixed-resolution lookup table so that per-pixel
// lookups cost O(1) regardless of how expensive the underlying function
// is, at the price of a small quantization error.
package colormap

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Func is a continuous color scheme over t in [0, 1].
type Func func(t float32) color.RGBA

// DefaultResolution is the sample count used by the standard maps.
const DefaultResolution = 256

// Map is a discretized colormap: a precomputed table of evenly spaced
// samples of a continuous scheme, with linear interpolation between
// neighboring samples on lookup.
type Map struct {
	name     string
	table    []uint8 // 4 bytes per sample
	count    int
	fallback color.RGBA
}

// New discretizes fn into count samples at t = i/(count-1). A count below
// 2 is raised to 2 so interpolation always has two endpoints.
func New(name string, fn Func, count int) *Map {
	if count < 2 {
		count = 2
	}
	m := &Map{
		name:  name,
		table: make([]uint8, count*4),
		count: count,
		// Fallback for non-finite t: fully transparent black.
		fallback: color.RGBA{},
	}
	for i := 0; i < count; i++ {
		c := fn(float32(i) / float32(count-1))
		m.table[i*4+0] = c.R
		m.table[i*4+1] = c.G
		m.table[i*4+2] = c.B
		m.table[i*4+3] = c.A
	}
	return m
}

// Name returns the scheme name the map was built from.
func (m *Map) Name() string {
	return m.name
}

// SetFallback overrides the color returned for non-finite lookups.
func (m *Map) SetFallback(c color.RGBA) {
	m.fallback = c
}

// At maps t linearly into sample-index space, clamps to the table bounds,
// and linearly interpolates between the two neighboring samples.
//
// Non-finite t (for example log(0) or log of a negative value produced
// during log-scale pixel mapping) returns the fallback color instead of
// propagating NaN through the pixel pipeline.
func (m *Map) At(t float32) color.RGBA {
	if math32.IsNaN(t) || math32.IsInf(t, 0) {
		return m.fallback
	}
	pos := t * float32(m.count-1)
	if pos <= 0 {
		return m.sample(0)
	}
	if pos >= float32(m.count-1) {
		return m.sample(m.count - 1)
	}
	i := int(math32.Floor(pos))
	frac := pos - float32(i)
	a := m.sample(i)
	b := m.sample(i + 1)
	return color.RGBA{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
		A: lerp8(a.A, b.A, frac),
	}
}

func (m *Map) sample(i int) color.RGBA {
	return color.RGBA{
		R: m.table[i*4+0],
		G: m.table[i*4+1],
		B: m.table[i*4+2],
		A: m.table[i*4+3],
	}
}

func lerp8(a, b uint8, frac float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*frac + 0.5)
}

// Gradient builds a continuous scheme from evenly spaced color stops,
// interpolating linearly between neighbors. At least two stops are
// required; fewer panics (scheme definitions are package constants, so
// this is a programmer error).
func Gradient(stops ...color.RGBA) Func {
	if len(stops) < 2 {
		panic("colormap: Gradient requires at least two stops")
	}
	return func(t float32) color.RGBA {
		if math32.IsNaN(t) {
			return color.RGBA{}
		}
		pos := t * float32(len(stops)-1)
		if pos <= 0 {
			return stops[0]
		}
		if pos >= float32(len(stops)-1) {
			return stops[len(stops)-1]
		}
		i := int(math32.Floor(pos))
		frac := pos - float32(i)
		a, b := stops[i], stops[i+1]
		return color.RGBA{
			R: lerp8(a.R, b.R, frac),
			G: lerp8(a.G, b.G, frac),
			B: lerp8(a.B, b.B, frac),
			A: lerp8(a.A, b.A, frac),
		}
	}
}
