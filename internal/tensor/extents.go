// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "math"

// Extents summarizes the value range of a tensor: the minimum, maximum,
// and minimum strictly-positive value observed across all elements.
//
// MinPositive stays 0 when no positive element exists; callers that feed
// it into log-domain math must check for that before using it as a lower
// bound.
type Extents struct {
	Min         float64
	Max         float64
	MinPositive float64
}

// EmptyExtents is the degenerate result for a tensor with no elements:
// Min +Inf, Max -Inf, MinPositive 0. Merging it into any other extents is
// a no-op.
func EmptyExtents() Extents {
	return Extents{Min: math.Inf(1), Max: math.Inf(-1), MinPositive: 0}
}

// Merge folds other into e, returning the combined extents.
func (e Extents) Merge(other Extents) Extents {
	out := e
	if other.Min < out.Min {
		out.Min = other.Min
	}
	if other.Max > out.Max {
		out.Max = other.Max
	}
	if other.MinPositive > 0 && (out.MinPositive == 0 || other.MinPositive < out.MinPositive) {
		out.MinPositive = other.MinPositive
	}
	return out
}

// Extents computes the value extents in a single linear pass over all
// elements. An empty tensor yields EmptyExtents().
func (t *Tensor) Extents() Extents {
	ext := EmptyExtents()
	n := t.NumElements()
	for i := 0; i < n; i++ {
		v := t.atFlat(i)
		if v < ext.Min {
			ext.Min = v
		}
		if v > ext.Max {
			ext.Max = v
		}
		if v > 0 && (ext.MinPositive == 0 || v < ext.MinPositive) {
			ext.MinPositive = v
		}
	}
	return ext
}
