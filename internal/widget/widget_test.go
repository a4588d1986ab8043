// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorviz-ml/tensorviz/internal/scale"
	"github.com/tensorviz-ml/tensorviz/internal/tensor"
	"github.com/tensorviz-ml/tensorviz/internal/view"
)

func testTensor(t *testing.T, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	values := make([]float64, shape.NumElements())
	for i := range values {
		values[i] = float64(i) - float64(len(values))/2
	}
	ts, err := tensor.FromValues(shape, tensor.Float64, values)
	require.NoError(t, err)
	return ts
}

func TestNewAppliesDefaultViews(t *testing.T) {
	viz, err := New(testTensor(t, tensor.Shape{3, 4, 2, 2}), Options{
		Names:        []string{"layer", "head"},
		DefaultViews: []string{"mean", "small-multiples"},
	})
	require.NoError(t, err)

	states := viz.States()
	require.Len(t, states, 2)
	assert.Equal(t, view.ModeMean, states[0].Mode)
	assert.Equal(t, view.ModeSmallMultiples, states[1].Mode)
	assert.Equal(t, "layer", states[0].Name)
	assert.Equal(t, "head", states[1].Name)
}

func TestNewRejectsBadDefaultView(t *testing.T) {
	_, err := New(testTensor(t, tensor.Shape{3, 2, 2}), Options{
		DefaultViews: []string{"median"},
	})
	assert.Error(t, err)
}

func TestNewAppliesPermute(t *testing.T) {
	// Shape {2, 3, 4, 5} permuted to {4, 5, 2, 3}.
	viz, err := New(testTensor(t, tensor.Shape{2, 3, 4, 5}), Options{
		Names:   []string{"a", "b", "c", "d"},
		Permute: []int{2, 3, 0, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4, 5, 2, 3}, viz.Tensor().Shape())

	states := viz.States()
	require.Len(t, states, 2)
	assert.Equal(t, "c", states[0].Name)
	assert.Equal(t, "d", states[1].Name)
}

func TestNewRejectsBadPermute(t *testing.T) {
	_, err := New(testTensor(t, tensor.Shape{2, 3}), Options{Permute: []int{0}})
	assert.Error(t, err)
}

func TestRenderEmitsScale(t *testing.T) {
	viz, err := New(testTensor(t, tensor.Shape{3, 2, 2}), Options{
		DefaultViews: []string{"mean"},
	})
	require.NoError(t, err)

	if _, resolved := viz.CurrentScale(); resolved {
		t.Fatal("CurrentScale should be unresolved before the first Render")
	}

	var events []scale.Resolved
	remove := viz.OnScale(func(sc scale.Resolved) {
		events = append(events, sc)
	})

	node, sc, err := viz.Render()
	require.NoError(t, err)
	require.True(t, node.IsLeaf())
	require.Len(t, events, 1)
	assert.Equal(t, sc, events[0])

	current, resolved := viz.CurrentScale()
	assert.True(t, resolved)
	assert.Equal(t, sc, current)

	// Removed listeners stay silent.
	remove()
	_, _, err = viz.Render()
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRenderHonorsScaleOverrides(t *testing.T) {
	viz, err := New(testTensor(t, tensor.Shape{2, 2}), Options{
		ScaleDomain: []float64{-1, 1},
		ScaleScheme: "greys",
	})
	require.NoError(t, err)

	_, sc, err := viz.Render()
	require.NoError(t, err)
	assert.Equal(t, [2]float64{-1, 1}, sc.Domain)
	assert.Equal(t, "greys", sc.Scheme)
	assert.Equal(t, scale.Linear, sc.Type)
}

func TestSetModeAndSlice(t *testing.T) {
	ts := testTensor(t, tensor.Shape{3, 4, 2, 2})
	viz, err := New(ts, Options{})
	require.NoError(t, err)

	require.NoError(t, viz.SetMode(0, view.ModeSmallMultiples))
	require.NoError(t, viz.SetSlice(1, 2))
	assert.Error(t, viz.SetMode(2, view.ModeMean))
	assert.Error(t, viz.SetSlice(-1, 0))

	node, _, err := viz.Render()
	require.NoError(t, err)
	require.False(t, node.IsLeaf())
	require.Len(t, node.Children, 3)
	for k, child := range node.Children {
		require.True(t, child.IsLeaf())
		assert.Equal(t, ts.At(k, 2, 1, 1), child.Matrix.At(1, 1))
	}
}

func TestSetTensorRenormalizesStates(t *testing.T) {
	viz, err := New(testTensor(t, tensor.Shape{3, 2, 2}), Options{
		DefaultViews: []string{"mean"},
	})
	require.NoError(t, err)

	// Rank changes: the stale single-state list is reinitialized.
	viz.SetTensor(testTensor(t, tensor.Shape{2, 3, 2, 2}))
	states := viz.States()
	require.Len(t, states, 2)
	assert.Equal(t, view.ModeSlice, states[0].Mode)

	node, _, err := viz.Render()
	require.NoError(t, err)
	require.True(t, node.IsLeaf())
	assert.Equal(t, tensor.Shape{2, 2}, node.Matrix.Shape())
}
