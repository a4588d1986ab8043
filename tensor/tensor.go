// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for TensorViz tensors.
//
// A Tensor is a strided view over a flat numeric buffer. Slicing with Get
// is zero-copy; reductions (Sum, Mean, Min, Max) and Clone allocate fresh
// storage.
//
// Example:
//
//	t, _ := tensor.FromValues(tensor.Shape{2, 3}, tensor.Float32,
//	    []float64{1, 2, 3, 4, 5, 6})
//	row := t.Get(1)      // zero-copy view of [4 5 6]
//	ext := t.Extents()   // {Min: 1, Max: 6, MinPositive: 1}
package tensor

import (
	"github.com/tensorviz-ml/tensorviz/internal/tensor"
)

// DataType represents the underlying element type of a tensor.
type DataType = tensor.DataType

// Element type constants.
const (
	Int8    DataType = tensor.Int8
	Uint8   DataType = tensor.Uint8
	Int16   DataType = tensor.Int16
	Uint16  DataType = tensor.Uint16
	Int32   DataType = tensor.Int32
	Uint32  DataType = tensor.Uint32
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a strided N-dimensional tensor.
type Tensor = tensor.Tensor

// Extents summarizes a tensor's value range: minimum, maximum, and
// minimum strictly-positive value.
type Extents = tensor.Extents

// BinaryOp folds two element values during a reduction.
type BinaryOp = tensor.BinaryOp

// New creates a tensor with zeroed storage.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.New(shape, dtype)
}

// NewFromBytes creates a tensor over a raw element buffer.
func NewFromBytes(shape Shape, dtype DataType, data []byte) (*Tensor, error) {
	return tensor.NewFromBytes(shape, dtype, data)
}

// FromValues creates a tensor from float64 values, converting each
// element to the target dtype.
func FromValues(shape Shape, dtype DataType, values []float64) (*Tensor, error) {
	return tensor.FromValues(shape, dtype, values)
}

// ParseDataType parses a wire dtype name such as "float32".
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// EmptyExtents is the degenerate extents of an element-free tensor.
func EmptyExtents() Extents {
	return tensor.EmptyExtents()
}
