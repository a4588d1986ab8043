// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package scale resolves heatmap color scales from tensor value extents.
//
// A resolved scale is always fully specified: type, domain, and scheme
// name. Explicit overrides take precedence field by field over inference.
package scale

import (
	"math"

	"github.com/tensorviz-ml/tensorviz/internal/tensor"
)

// Type is the scale transform applied before colormap lookup.
type Type string

// Supported scale types.
const (
	Linear Type = "linear"
	Log    Type = "log"
)

// Default scheme names by domain shape.
const (
	// SchemeDiverging is used when the domain crosses zero.
	SchemeDiverging = "burd"
	// SchemeSequential is used for one-sided domains.
	SchemeSequential = "turbo"
)

// Resolved is a fully specified color scale, ready for pixel mapping.
type Resolved struct {
	Type   Type       `json:"type"`
	Domain [2]float64 `json:"domain"`
	Scheme string     `json:"scheme"`
}

// Overrides carries explicit user settings. Zero values mean "infer":
// empty Type, nil Domain, empty Scheme.
type Overrides struct {
	Type   Type
	Domain []float64 // [min, max] when set
	Scheme string
}

// Resolve derives a concrete scale from value extents and optional
// overrides.
//
// Domain inference: when the extents span both signs, the domain is
// symmetric around zero so diverging schemes center on zero regardless of
// data skew. Otherwise the domain defaults to [min, max]; a linear scale
// extends it to include zero when the range is wide relative to the
// maximum (keeps near-constant-offset data anchored at a meaningful
// origin), and a log scale replaces the lower bound with the smallest
// strictly-positive observed value, or max*1e-4 if none exists.
func Resolve(ext tensor.Extents, o Overrides) Resolved {
	typ := o.Type
	if typ == "" {
		typ = Linear
	}

	var domain [2]float64
	if len(o.Domain) == 2 {
		domain = [2]float64{o.Domain[0], o.Domain[1]}
	} else if ext.Min < 0 && ext.Max > 0 {
		maxAbs := math.Max(-ext.Min, ext.Max)
		domain = [2]float64{-maxAbs, maxAbs}
	} else {
		domain = [2]float64{ext.Min, ext.Max}
		switch typ {
		case Log:
			if ext.MinPositive > 0 {
				domain[0] = ext.MinPositive
			} else {
				domain[0] = domain[1] * 1e-4
			}
		default:
			if math.Abs(domain[1]-domain[0]) > 0.1*math.Abs(domain[1]) {
				if domain[0] > 0 {
					domain[0] = 0
				}
				if domain[1] < 0 {
					domain[1] = 0
				}
			}
		}
	}

	scheme := o.Scheme
	if scheme == "" {
		if domain[0] < 0 && domain[1] > 0 {
			scheme = SchemeDiverging
		} else {
			scheme = SchemeSequential
		}
	}

	return Resolved{Type: typ, Domain: domain, Scheme: scheme}
}

// Mapper returns the affine function mapping element values onto [0, 1]
// for colormap lookup: scaled = v*sk + sb with sk = 1/(max-min) and
// sb = -min*sk; log scales apply the same form to log(v).
//
// Out-of-domain or invalid inputs (log of a non-positive value, a
// degenerate domain) produce non-finite outputs; the colormap's fallback
// color absorbs those rather than this function reporting an error.
func (r Resolved) Mapper() func(v float64) float64 {
	if r.Type == Log {
		lo, hi := math.Log(r.Domain[0]), math.Log(r.Domain[1])
		sk := 1 / (hi - lo)
		sb := -lo * sk
		return func(v float64) float64 {
			return math.Log(v)*sk + sb
		}
	}
	sk := 1 / (r.Domain[1] - r.Domain[0])
	sb := -r.Domain[0] * sk
	return func(v float64) float64 {
		return v*sk + sb
	}
}
