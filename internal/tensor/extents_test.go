// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math"
	"testing"
)

func TestExtents(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Extents
	}{
		{
			name:   "mixed signs",
			values: []float64{-5, 3, -1, 0},
			want:   Extents{Min: -5, Max: 3, MinPositive: 3},
		},
		{
			name:   "all negative leaves MinPositive zero",
			values: []float64{-5, -2, -1},
			want:   Extents{Min: -5, Max: -1, MinPositive: 0},
		},
		{
			name:   "all positive",
			values: []float64{4, 2, 8},
			want:   Extents{Min: 2, Max: 8, MinPositive: 2},
		},
		{
			name:   "zeros only",
			values: []float64{0, 0},
			want:   Extents{Min: 0, Max: 0, MinPositive: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := mustFromValues(t, Shape{len(tt.values)}, Float64, tt.values)
			got := ts.Extents()
			if got != tt.want {
				t.Errorf("Extents() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtentsEmptyTensor(t *testing.T) {
	ts := mustFromValues(t, Shape{0, 4}, Float32, nil)
	got := ts.Extents()
	if !math.IsInf(got.Min, 1) || !math.IsInf(got.Max, -1) || got.MinPositive != 0 {
		t.Errorf("Extents() of empty tensor = %+v, want {+Inf, -Inf, 0}", got)
	}
}

func TestExtentsMerge(t *testing.T) {
	a := Extents{Min: -2, Max: 5, MinPositive: 1}
	b := Extents{Min: -7, Max: 3, MinPositive: 0.5}
	got := a.Merge(b)
	want := Extents{Min: -7, Max: 5, MinPositive: 0.5}
	if got != want {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}

	// Merging the empty extents is a no-op.
	if got := a.Merge(EmptyExtents()); got != a {
		t.Errorf("Merge(EmptyExtents()) = %+v, want %+v", got, a)
	}
	if got := EmptyExtents().Merge(a); got != a {
		t.Errorf("EmptyExtents().Merge = %+v, want %+v", got, a)
	}
}
