// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "testing"

func TestSumShapeAndValues(t *testing.T) {
	// 2x3: rows [1 2 3], [4 5 6]
	ts := mustFromValues(t, Shape{2, 3}, Float64, []float64{1, 2, 3, 4, 5, 6})

	sum0, err := ts.Sum(0)
	if err != nil {
		t.Fatalf("Sum(0) failed: %v", err)
	}
	assertEqualShape(t, Shape{1, 3}, sum0.Shape(), "Sum(0)")
	if sum0.NumElements() != ts.NumElements()/ts.Shape()[0] {
		t.Errorf("Sum(0) has %d elements, want %d", sum0.NumElements(), ts.NumElements()/2)
	}
	for j, want := range []float64{5, 7, 9} {
		assertEqualFloat(t, want, sum0.At(0, j), "Sum(0) column")
	}

	sum1, err := ts.Sum(1)
	if err != nil {
		t.Fatalf("Sum(1) failed: %v", err)
	}
	assertEqualShape(t, Shape{2, 1}, sum1.Shape(), "Sum(1)")
	assertEqualFloat(t, 6, sum1.At(0, 0), "Sum(1) row 0")
	assertEqualFloat(t, 15, sum1.At(1, 0), "Sum(1) row 1")
}

func TestMinMaxMean(t *testing.T) {
	ts := mustFromValues(t, Shape{3, 2}, Float64, []float64{4, -1, 2, 7, -6, 3})

	min0, err := ts.Min(0)
	if err != nil {
		t.Fatalf("Min(0) failed: %v", err)
	}
	assertEqualFloat(t, -6, min0.At(0, 0), "Min(0) col 0")
	assertEqualFloat(t, -1, min0.At(0, 1), "Min(0) col 1")

	max0, err := ts.Max(0)
	if err != nil {
		t.Fatalf("Max(0) failed: %v", err)
	}
	assertEqualFloat(t, 4, max0.At(0, 0), "Max(0) col 0")
	assertEqualFloat(t, 7, max0.At(0, 1), "Max(0) col 1")

	mean0, err := ts.Mean(0)
	if err != nil {
		t.Fatalf("Mean(0) failed: %v", err)
	}
	assertEqualFloat(t, 0, mean0.At(0, 0), "Mean(0) col 0")
	assertEqualFloat(t, 3, mean0.At(0, 1), "Mean(0) col 1")
}

// TestReduceSizeOneIdentity verifies that reducing over a dimension of
// size 1 leaves the tensor unchanged for every reduction kind.
func TestReduceSizeOneIdentity(t *testing.T) {
	ts := mustFromValues(t, Shape{1, 2, 2}, Float64, []float64{3, -1, 4, -5})

	for name, reduce := range map[string]func(int) (*Tensor, error){
		"sum":  ts.Sum,
		"min":  ts.Min,
		"max":  ts.Max,
		"mean": ts.Mean,
	} {
		out, err := reduce(0)
		if err != nil {
			t.Fatalf("%s(0) failed: %v", name, err)
		}
		assertEqualShape(t, ts.Shape(), out.Shape(), name)
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				assertEqualFloat(t, ts.At(0, j, k), out.At(0, j, k), name)
			}
		}
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	ts := mustFromValues(t, Shape{2, 2}, Float64, values)
	if _, err := ts.Sum(0); err != nil {
		t.Fatalf("Sum(0) failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assertEqualFloat(t, values[i*2+j], ts.At(i, j), "input after reduce")
		}
	}
}

// TestIntegerMeanTruncates pins the known precision caveat: integer-dtype
// mean divides after accumulation and truncates per the target type.
func TestIntegerMeanTruncates(t *testing.T) {
	ts := mustFromValues(t, Shape{2, 1}, Int32, []float64{1, 2})
	mean, err := ts.Mean(0)
	if err != nil {
		t.Fatalf("Mean(0) failed: %v", err)
	}
	if mean.DType() != Int32 {
		t.Errorf("Mean dtype = %s, want int32", mean.DType())
	}
	assertEqualFloat(t, 1, mean.At(0, 0), "truncated integer mean") // 3/2 -> 1
}

func TestReduceToOverridesDType(t *testing.T) {
	ts := mustFromValues(t, Shape{2, 1}, Int32, []float64{1, 2})
	out, err := ts.ReduceTo(0, func(a, b float64) float64 { return a + b }, Float64)
	if err != nil {
		t.Fatalf("ReduceTo failed: %v", err)
	}
	if out.DType() != Float64 {
		t.Errorf("ReduceTo dtype = %s, want float64", out.DType())
	}
	assertEqualFloat(t, 3, out.At(0, 0), "ReduceTo sum")
}

func TestReduceBadDimension(t *testing.T) {
	ts := mustFromValues(t, Shape{2, 2}, Float64, []float64{1, 2, 3, 4})
	if _, err := ts.Sum(2); err == nil {
		t.Error("Sum(2) on rank-2 tensor should fail")
	}
	if _, err := ts.Sum(-1); err == nil {
		t.Error("Sum(-1) should fail")
	}
}

func TestReduceEmptyDimension(t *testing.T) {
	ts := mustFromValues(t, Shape{0, 3}, Float64, nil)
	out, err := ts.Sum(0)
	if err != nil {
		t.Fatalf("Sum(0) on empty dimension failed: %v", err)
	}
	assertEqualShape(t, Shape{1, 3}, out.Shape(), "empty reduce")
}

// TestReduceEmptyInnerDimension reduces over a non-empty dimension while
// a different dimension has size 0, so the tensor holds no elements.
func TestReduceEmptyInnerDimension(t *testing.T) {
	ts := mustFromValues(t, Shape{2, 3, 0}, Float64, nil)

	for name, reduce := range map[string]func(int) (*Tensor, error){
		"sum":  ts.Sum,
		"min":  ts.Min,
		"max":  ts.Max,
		"mean": ts.Mean,
	} {
		out, err := reduce(1)
		if err != nil {
			t.Fatalf("%s(1) on element-free tensor failed: %v", name, err)
		}
		assertEqualShape(t, Shape{2, 1, 0}, out.Shape(), name)
		if out.NumElements() != 0 {
			t.Errorf("%s(1) has %d elements, want 0", name, out.NumElements())
		}
	}

	// Empty leading dimension with a non-empty reduced one.
	ts = mustFromValues(t, Shape{0, 3}, Float64, nil)
	out, err := ts.Sum(1)
	if err != nil {
		t.Fatalf("Sum(1) with empty leading dimension failed: %v", err)
	}
	assertEqualShape(t, Shape{0, 1}, out.Shape(), "Sum(1)")
}

func TestReduceMiddleDimension(t *testing.T) {
	// Shape {2, 3, 2}: reduce the strided middle dimension.
	values := make([]float64, 12)
	for i := range values {
		values[i] = float64(i)
	}
	ts := mustFromValues(t, Shape{2, 3, 2}, Float64, values)
	sum, err := ts.Sum(1)
	if err != nil {
		t.Fatalf("Sum(1) failed: %v", err)
	}
	assertEqualShape(t, Shape{2, 1, 2}, sum.Shape(), "Sum(1)")
	// Block 0: slices (0,1),(2,3),(4,5) -> (6, 9); block 1: (24, 27).
	assertEqualFloat(t, 6, sum.At(0, 0, 0), "Sum(1)[0,0,0]")
	assertEqualFloat(t, 9, sum.At(0, 0, 1), "Sum(1)[0,0,1]")
	assertEqualFloat(t, 24, sum.At(1, 0, 0), "Sum(1)[1,0,0]")
	assertEqualFloat(t, 27, sum.At(1, 0, 1), "Sum(1)[1,0,1]")
}
