// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"math"
)

// BinaryOp folds two element values during a reduction.
type BinaryOp func(a, b float64) float64

// Reduce collapses the given dimension to size 1 by folding all slices
// along that dimension with op, left to right, seeding the accumulator
// with the first slice. There is no separate identity element.
//
// The output is a fresh tensor with the input's dtype; the input is never
// mutated. Use ReduceTo to override the output dtype.
func (t *Tensor) Reduce(dim int, op BinaryOp) (*Tensor, error) {
	return t.ReduceTo(dim, op, t.dtype)
}

// ReduceTo is Reduce with an explicit output dtype. Values accumulate in
// float64 and convert on store, so integer output dtypes truncate.
func (t *Tensor) ReduceTo(dim int, op BinaryOp, dtype DataType) (*Tensor, error) {
	if dim < 0 || dim >= len(t.shape) {
		return nil, fmt.Errorf("reduce dimension %d out of range for rank %d", dim, len(t.shape))
	}

	outShape := t.shape.Clone()
	outShape[dim] = 1
	out, err := New(outShape, dtype)
	if err != nil {
		return nil, err
	}

	n := t.shape[dim]
	if n == 0 || t.NumElements() == 0 {
		// Nothing to fold; the output stays zeroed. The element check also
		// covers a zero-size dimension elsewhere in the shape, which would
		// otherwise zero the inner stride.
		return out, nil
	}
	inner := t.stride[dim]
	outer := t.NumElements() / (n * inner)
	for o := 0; o < outer; o++ {
		srcBase := o * n * inner
		dstBase := o * inner
		for i := 0; i < inner; i++ {
			acc := t.atFlat(srcBase + i)
			for k := 1; k < n; k++ {
				acc = op(acc, t.atFlat(srcBase+k*inner+i))
			}
			out.setFlat(dstBase+i, acc)
		}
	}
	return out, nil
}

// Sum reduces the given dimension by addition.
func (t *Tensor) Sum(dim int) (*Tensor, error) {
	return t.Reduce(dim, func(a, b float64) float64 { return a + b })
}

// Mean reduces the given dimension by addition, then divides by the
// dimension size. For integer dtypes the division happens after
// accumulation and the result truncates per the target type.
func (t *Tensor) Mean(dim int) (*Tensor, error) {
	sum, err := t.Sum(dim)
	if err != nil {
		return nil, err
	}
	n := t.shape[dim]
	if n == 0 {
		return sum, nil
	}
	count := float64(n)
	total := sum.NumElements()
	for i := 0; i < total; i++ {
		sum.setFlat(i, sum.atFlat(i)/count)
	}
	return sum, nil
}

// Min reduces the given dimension by the minimum.
func (t *Tensor) Min(dim int) (*Tensor, error) {
	return t.Reduce(dim, math.Min)
}

// Max reduces the given dimension by the maximum.
func (t *Tensor) Max(dim int) (*Tensor, error) {
	return t.Reduce(dim, math.Max)
}
