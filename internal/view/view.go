// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package view composes N-dimensional tensors down to renderable 2D
// matrices, driven by a per-dimension display directive list.
//
// The last two dimensions of a tensor are always displayed as the 2D
// matrix; every leading dimension carries one DimensionState saying how
// to collapse it: pick one index (slice), render every index
// (small-multiples), or reduce it (min/max/mean).
package view

import (
	"fmt"
	"strings"

	"github.com/tensorviz-ml/tensorviz/internal/tensor"
)

// Mode is a display directive for one tensor dimension. The set is closed;
// composition dispatches over it in a single recursive function.
type Mode int

// Display modes.
const (
	ModeSlice Mode = iota
	ModeSmallMultiples
	ModeMin
	ModeMax
	ModeMean
)

// String returns the wire name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeSlice:
		return "slice"
	case ModeSmallMultiples:
		return "small-multiples"
	case ModeMin:
		return "min"
	case ModeMax:
		return "max"
	case ModeMean:
		return "mean"
	default:
		return "unknown"
	}
}

// ParseMode parses a wire mode name.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "slice":
		return ModeSlice, nil
	case "small-multiples":
		return ModeSmallMultiples, nil
	case "min":
		return ModeMin, nil
	case "max":
		return ModeMax, nil
	case "mean":
		return ModeMean, nil
	default:
		return 0, fmt.Errorf("unsupported view mode %q", name)
	}
}

// isReduction reports whether the mode collapses its dimension with a
// reduction that is independent of slice position.
func (m Mode) isReduction() bool {
	return m == ModeMin || m == ModeMax || m == ModeMean
}

// DimensionState is the display directive for one leading dimension.
type DimensionState struct {
	Name   string
	Mode   Mode
	Labels []string
	Index  int // current slice index, used when Mode == ModeSlice
}

// Node is the result of composing a tensor: either a single rank-2 matrix
// or a nested collection of child results (small multiples). Exactly one
// of Matrix and Children is set.
type Node struct {
	Matrix   *tensor.Tensor
	Children []*Node
}

// IsLeaf reports whether the node holds a single matrix.
func (n *Node) IsLeaf() bool {
	return n.Matrix != nil
}

// Extents merges the value extents of every matrix under the node.
func (n *Node) Extents() tensor.Extents {
	if n.IsLeaf() {
		return n.Matrix.Extents()
	}
	ext := tensor.EmptyExtents()
	for _, child := range n.Children {
		ext = ext.Merge(child.Extents())
	}
	return ext
}

// Normalize repairs a dimension-state list whose length does not match
// the tensor rank, reinitializing every entry to slice at index 0. A
// mismatch is a recoverable normalization step (stale state after the
// tensor changed shape), not an error. A matching list is returned as is.
func Normalize(states []DimensionState, rank int) []DimensionState {
	want := rank - 2
	if want < 0 {
		want = 0
	}
	if len(states) == want {
		return states
	}
	fresh := make([]DimensionState, want)
	for i := range fresh {
		fresh[i] = DimensionState{Mode: ModeSlice}
	}
	return fresh
}

// Composer composes tensors into render nodes, caching the reduction
// pass across slice-index changes.
//
// The cached "display tensor" is the source tensor with every min/max/mean
// dimension pre-reduced to size 1. It is keyed by the ordered sequence of
// mode kinds only: changing a slice index does not invalidate it, since
// reductions do not depend on slice position. The cache holds a single
// entry, invalidated when the source tensor identity or the mode
// signature changes.
//
// A Composer is not safe for concurrent use; callers in multi-threaded
// hosts must serialize access.
type Composer struct {
	cacheSrc     *tensor.Tensor
	cacheSig     string
	cacheDisplay *tensor.Tensor
}

// NewComposer returns an empty composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose reduces t down to a render node per the dimension states. It
// returns the (possibly reinitialized) states actually used.
func (c *Composer) Compose(t *tensor.Tensor, states []DimensionState) (*Node, []DimensionState, error) {
	states = Normalize(states, t.Rank())
	display, err := c.displayTensor(t, states)
	if err != nil {
		return nil, states, err
	}
	return composeNode(display, states), states, nil
}

// displayTensor pre-applies all reduction modes along their dimensions,
// reusing the cached result when the source tensor and mode signature are
// unchanged.
func (c *Composer) displayTensor(t *tensor.Tensor, states []DimensionState) (*tensor.Tensor, error) {
	sig := signature(states)
	if c.cacheSrc == t && c.cacheSig == sig {
		return c.cacheDisplay, nil
	}

	display := t
	var err error
	for dim, st := range states {
		// Reductions preserve rank (the dimension collapses to size 1),
		// so dim stays valid as the loop advances.
		switch st.Mode {
		case ModeMin:
			display, err = display.Min(dim)
		case ModeMax:
			display, err = display.Max(dim)
		case ModeMean:
			display, err = display.Mean(dim)
		}
		if err != nil {
			return nil, fmt.Errorf("reducing dimension %d: %w", dim, err)
		}
	}

	c.cacheSrc = t
	c.cacheSig = sig
	c.cacheDisplay = display
	return display, nil
}

func composeNode(t *tensor.Tensor, states []DimensionState) *Node {
	if len(states) == 0 {
		return &Node{Matrix: t}
	}
	st := states[0]
	rest := states[1:]
	switch {
	case st.Mode == ModeSmallMultiples:
		children := make([]*Node, t.Shape()[0])
		for k := range children {
			children[k] = composeNode(t.Get(k), rest)
		}
		return &Node{Children: children}
	case st.Mode.isReduction():
		// The dimension was pre-reduced to size 1, unless an outer empty
		// dimension already drained the tensor.
		if t.Shape()[0] == 0 {
			return composeNode(emptyLike(t), rest)
		}
		return composeNode(t.Get(0), rest)
	default:
		size := t.Shape()[0]
		if size == 0 {
			// No index to slice; stand in with an element-free matrix of
			// the trailing shape, matching the zero-children case above.
			return composeNode(emptyLike(t), rest)
		}
		return composeNode(t.Get(clampIndex(st.Index, size)), rest)
	}
}

// emptyLike drops the leading dimension of an element-free tensor,
// zeroing the next dimension so the result stays element-free.
func emptyLike(t *tensor.Tensor) *tensor.Tensor {
	shape := t.Shape()[1:].Clone()
	if len(shape) > 0 {
		shape[0] = 0
	}
	out, err := tensor.New(shape, t.DType())
	if err != nil {
		panic(err) // sub-shapes of a valid shape are always valid
	}
	return out
}

// clampIndex keeps a possibly stale slice index inside the dimension
// (the host can send an index for a tensor that has since changed shape).
func clampIndex(idx, size int) int {
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}

func signature(states []DimensionState) string {
	var b strings.Builder
	for i, st := range states {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(st.Mode.String())
	}
	return b.String()
}
