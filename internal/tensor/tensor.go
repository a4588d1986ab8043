// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the strided tensor core for TensorViz.
//
// A Tensor is an immutable-shape view over a flat contiguous numeric
// buffer. Slicing with Get produces zero-copy views sharing the parent's
// storage; reductions and Clone allocate fresh storage. Go's garbage
// collector keeps a parent buffer alive for as long as any view of it
// exists, so views are plain sub-slices with no explicit ownership
// handling.
package tensor

import (
	"fmt"
	"math"
	"unsafe"
)

// Tensor is the strided N-dimensional tensor.
//
// Element values are read and written as float64 regardless of the
// underlying DataType; writes convert (and for integer types truncate) to
// the storage type. This matches how the visualization pipeline consumes
// values: every element ends up as a scalar fed into a color scale.
type Tensor struct {
	data   []byte // view into the backing buffer
	shape  Shape
	stride []int
	dtype  DataType
}

// New creates a tensor with zeroed storage.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Tensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// NewFromBytes creates a tensor over a raw element buffer, taking
// ownership of data. The buffer length must be exactly
// shape.NumElements() * dtype.Size().
func NewFromBytes(shape Shape, dtype DataType, data []byte) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	want := shape.NumElements() * dtype.Size()
	if len(data) != want {
		return nil, fmt.Errorf("shape %v with dtype %s requires %d bytes, got %d",
			shape, dtype, want, len(data))
	}
	return &Tensor{
		data:   data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// FromValues creates a tensor from float64 values, converting each element
// to the target dtype.
func FromValues(shape Shape, dtype DataType, values []float64) (*Tensor, error) {
	if shape.NumElements() != len(values) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(values))
	}
	t, err := New(shape, dtype)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		t.setFlat(i, v)
	}
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's memory strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// Bytes returns the raw element buffer.
// WARNING: Direct access to underlying memory. Use with caution.
func (t *Tensor) Bytes() []byte {
	return t.data
}

// Offset computes the flat element offset for the given indices: the dot
// product of indices and strides. The caller must supply exactly Rank()
// indices; bounds are not checked on this hot path.
func (t *Tensor) Offset(indices []int) int {
	off := 0
	for i, idx := range indices {
		off += idx * t.stride[i]
	}
	return off
}

// At returns the element at the given indices as a float64.
// Like Offset, it does not bounds-check.
func (t *Tensor) At(indices ...int) float64 {
	return t.atFlat(t.Offset(indices))
}

// Set stores v at the given indices, converting to the tensor's dtype.
// Integer dtypes truncate.
func (t *Tensor) Set(v float64, indices ...int) {
	t.setFlat(t.Offset(indices), v)
}

// Get slices off the leading dimension for each index given, returning a
// lower-rank view that shares the original storage. Slicing the first
// dimension is a pure offset/length restriction into the flat buffer, so
// this is O(1) and never copies.
func (t *Tensor) Get(indices ...int) *Tensor {
	cur := t
	for _, idx := range indices {
		if len(cur.shape) == 0 {
			panic("tensor: Get on a scalar tensor")
		}
		if idx < 0 || idx >= cur.shape[0] {
			panic(fmt.Sprintf("tensor: index %d out of bounds for leading dimension (size %d)",
				idx, cur.shape[0]))
		}
		esz := cur.dtype.Size()
		block := cur.stride[0] // elements per leading-dim slice
		cur = &Tensor{
			data:   cur.data[idx*block*esz : (idx+1)*block*esz],
			shape:  cur.shape[1:],
			stride: cur.stride[1:],
			dtype:  cur.dtype,
		}
	}
	return cur
}

// Clone deep-copies the tensor's storage. This is the only way to decouple
// a view from its parent's memory.
func (t *Tensor) Clone() *Tensor {
	data := make([]byte, len(t.data))
	copy(data, t.data)
	return &Tensor{
		data:   data,
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		dtype:  t.dtype,
	}
}

// Transpose returns a new contiguous tensor with dimensions reordered by
// perm (output dimension i is input dimension perm[i]). Unlike Get this
// materializes a copy: downstream slicing assumes row-major contiguous
// storage, which a strided permuted view would break.
func (t *Tensor) Transpose(perm ...int) (*Tensor, error) {
	if len(perm) != len(t.shape) {
		return nil, fmt.Errorf("permutation length %d does not match rank %d", len(perm), len(t.shape))
	}
	seen := make([]bool, len(perm))
	outShape := make(Shape, len(perm))
	for i, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return nil, fmt.Errorf("invalid permutation %v", perm)
		}
		seen[p] = true
		outShape[i] = t.shape[p]
	}
	out, err := New(outShape, t.dtype)
	if err != nil {
		return nil, err
	}
	if out.NumElements() == 0 {
		return out, nil
	}
	srcIdx := make([]int, len(perm))
	outIdx := make([]int, len(perm))
	for flat := 0; ; flat++ {
		for i, p := range perm {
			srcIdx[p] = outIdx[i]
		}
		out.setFlat(flat, t.atFlat(t.Offset(srcIdx)))
		// Advance outIdx in row-major order.
		d := len(outIdx) - 1
		for ; d >= 0; d-- {
			outIdx[d]++
			if outIdx[d] < outShape[d] {
				break
			}
			outIdx[d] = 0
		}
		if d < 0 {
			break
		}
	}
	return out, nil
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor[%s]%v", t.dtype, t.shape)
}

// Typed views over the raw buffer. These reinterpret the native-endian
// byte buffer in place (zero-copy), in the same way the wire format lays
// elements out.

// Int8s interprets the data as []int8. Panics if dtype is not Int8.
func (t *Tensor) Int8s() []int8 {
	t.mustDType(Int8)
	return reinterpret[int8](t.data, t.NumElements())
}

// Uint8s interprets the data as []uint8. Panics if dtype is not Uint8.
func (t *Tensor) Uint8s() []uint8 {
	t.mustDType(Uint8)
	return t.data
}

// Int16s interprets the data as []int16. Panics if dtype is not Int16.
func (t *Tensor) Int16s() []int16 {
	t.mustDType(Int16)
	return reinterpret[int16](t.data, t.NumElements())
}

// Uint16s interprets the data as []uint16. Panics if dtype is not Uint16.
func (t *Tensor) Uint16s() []uint16 {
	t.mustDType(Uint16)
	return reinterpret[uint16](t.data, t.NumElements())
}

// Int32s interprets the data as []int32. Panics if dtype is not Int32.
func (t *Tensor) Int32s() []int32 {
	t.mustDType(Int32)
	return reinterpret[int32](t.data, t.NumElements())
}

// Uint32s interprets the data as []uint32. Panics if dtype is not Uint32.
func (t *Tensor) Uint32s() []uint32 {
	t.mustDType(Uint32)
	return reinterpret[uint32](t.data, t.NumElements())
}

// Float32s interprets the data as []float32. Panics if dtype is not Float32.
func (t *Tensor) Float32s() []float32 {
	t.mustDType(Float32)
	return reinterpret[float32](t.data, t.NumElements())
}

// Float64s interprets the data as []float64. Panics if dtype is not Float64.
func (t *Tensor) Float64s() []float64 {
	t.mustDType(Float64)
	return reinterpret[float64](t.data, t.NumElements())
}

func (t *Tensor) mustDType(want DataType) {
	if t.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", t.dtype, want))
	}
}

func reinterpret[T any](data []byte, n int) []T {
	if n == 0 {
		return nil
	}
	//nolint:gosec // zero-copy view, length bounded by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n)
}

// atFlat reads the element at flat offset off as a float64.
func (t *Tensor) atFlat(off int) float64 {
	switch t.dtype {
	case Int8:
		return float64(int8(t.data[off]))
	case Uint8:
		return float64(t.data[off])
	case Int16:
		return float64(reinterpret[int16](t.data, len(t.data)/2)[off])
	case Uint16:
		return float64(reinterpret[uint16](t.data, len(t.data)/2)[off])
	case Int32:
		return float64(reinterpret[int32](t.data, len(t.data)/4)[off])
	case Uint32:
		return float64(reinterpret[uint32](t.data, len(t.data)/4)[off])
	case Float32:
		return float64(reinterpret[float32](t.data, len(t.data)/4)[off])
	case Float64:
		return reinterpret[float64](t.data, len(t.data)/8)[off]
	default:
		panic("unknown data type")
	}
}

// setFlat stores v at flat offset off, converting to the tensor's dtype.
func (t *Tensor) setFlat(off int, v float64) {
	switch t.dtype {
	case Int8:
		t.data[off] = byte(int8(truncInt(v)))
	case Uint8:
		t.data[off] = byte(uint8(truncInt(v)))
	case Int16:
		reinterpret[int16](t.data, len(t.data)/2)[off] = int16(truncInt(v))
	case Uint16:
		reinterpret[uint16](t.data, len(t.data)/2)[off] = uint16(truncInt(v))
	case Int32:
		reinterpret[int32](t.data, len(t.data)/4)[off] = int32(truncInt(v))
	case Uint32:
		reinterpret[uint32](t.data, len(t.data)/4)[off] = uint32(truncInt(v))
	case Float32:
		reinterpret[float32](t.data, len(t.data)/4)[off] = float32(v)
	case Float64:
		reinterpret[float64](t.data, len(t.data)/8)[off] = v
	default:
		panic("unknown data type")
	}
}

// truncInt truncates toward zero, mapping NaN to 0 so integer stores are
// always defined.
func truncInt(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	return int64(v)
}
