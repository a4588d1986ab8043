// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package widget hosts a tensor visualization for an interactive front
// end: it owns the tensor and display state, recomputes the composed view
// and color scale on every change, and notifies listeners of the
// currently resolved scale so hosts can read it back after render.
package widget

import (
	"fmt"
	"sync"

	"github.com/tensorviz-ml/tensorviz/internal/scale"
	"github.com/tensorviz-ml/tensorviz/internal/tensor"
	"github.com/tensorviz-ml/tensorviz/internal/view"
)

// Options is the configuration surface a host can supply. Any subset may
// be set; absent fields fall back to inference.
type Options struct {
	// Names are per-dimension display names.
	Names []string
	// Labels are per-dimension index labels.
	Labels [][]string
	// DefaultViews sets the initial display mode per leading dimension:
	// "slice", "small-multiples", "min", "max", or "mean".
	DefaultViews []string
	// ScaleDomain pins the color scale domain to [min, max].
	ScaleDomain []float64
	// ScaleType is "linear" or "log"; default linear.
	ScaleType string
	// ScaleScheme names the color scheme; inferred from the domain when
	// empty.
	ScaleScheme string
	// Permute reorders the tensor's dimensions before display. Names,
	// Labels, and DefaultViews are given in pre-permute order and are
	// reordered along with the dimensions.
	Permute []int
}

// ScaleListener receives the resolved scale after each recomputation.
type ScaleListener func(scale.Resolved)

// Visualizer owns a tensor and its display state.
//
// All methods are safe for concurrent use: the underlying composer and
// cache are single-threaded by design, so a mutex serializes access.
type Visualizer struct {
	mu        sync.Mutex
	src       *tensor.Tensor
	opts      Options
	states    []view.DimensionState
	composer  *view.Composer
	current   scale.Resolved
	resolved  bool
	listeners map[int]ScaleListener
	nextID    int
}

// New creates a visualizer for t. The permute option, when set, is
// applied up front to the tensor and to the per-dimension option lists,
// mirroring how hosts hand over pre-permuted data.
func New(t *tensor.Tensor, opts Options) (*Visualizer, error) {
	if opts.Permute != nil {
		if len(opts.Permute) != t.Rank() {
			return nil, fmt.Errorf("permute length %d does not match tensor rank %d",
				len(opts.Permute), t.Rank())
		}
		var err error
		t, err = t.Transpose(opts.Permute...)
		if err != nil {
			return nil, err
		}
		opts.Names = permuted(opts.Names, opts.Permute)
		opts.Labels = permuted(opts.Labels, opts.Permute)
		opts.DefaultViews = permuted(opts.DefaultViews, opts.Permute)
	}

	v := &Visualizer{
		src:       t,
		opts:      opts,
		composer:  view.NewComposer(),
		listeners: make(map[int]ScaleListener),
	}
	if err := v.initStates(); err != nil {
		return nil, err
	}
	return v, nil
}

// initStates builds the dimension-state list from the options.
func (v *Visualizer) initStates() error {
	states := view.Normalize(nil, v.src.Rank())
	for i := range states {
		if i < len(v.opts.Names) {
			states[i].Name = v.opts.Names[i]
		}
		if i < len(v.opts.Labels) {
			states[i].Labels = v.opts.Labels[i]
		}
		if i < len(v.opts.DefaultViews) && v.opts.DefaultViews[i] != "" {
			mode, err := view.ParseMode(v.opts.DefaultViews[i])
			if err != nil {
				return fmt.Errorf("default view for dimension %d: %w", i, err)
			}
			states[i].Mode = mode
		}
	}
	v.states = states
	return nil
}

// Tensor returns the displayed tensor (post-permute).
func (v *Visualizer) Tensor() *tensor.Tensor {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.src
}

// SetTensor replaces the displayed tensor. Dimension states are
// reinitialized when the rank no longer matches.
func (v *Visualizer) SetTensor(t *tensor.Tensor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.src = t
	v.states = view.Normalize(v.states, t.Rank())
}

// States returns a copy of the current dimension states.
func (v *Visualizer) States() []view.DimensionState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]view.DimensionState(nil), v.states...)
}

// SetMode changes the display mode of one leading dimension.
func (v *Visualizer) SetMode(dim int, mode view.Mode) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if dim < 0 || dim >= len(v.states) {
		return fmt.Errorf("dimension %d out of range (tensor has %d leading dimensions)", dim, len(v.states))
	}
	v.states[dim].Mode = mode
	return nil
}

// SetSlice changes the slice index of one leading dimension.
func (v *Visualizer) SetSlice(dim, index int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if dim < 0 || dim >= len(v.states) {
		return fmt.Errorf("dimension %d out of range (tensor has %d leading dimensions)", dim, len(v.states))
	}
	v.states[dim].Index = index
	return nil
}

// OnScale registers a listener invoked after every scale recomputation.
// The returned function removes the listener.
func (v *Visualizer) OnScale(fn ScaleListener) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// Render composes the current view and resolves the color scale from the
// composed matrices' extents, then notifies scale listeners.
func (v *Visualizer) Render() (*view.Node, scale.Resolved, error) {
	v.mu.Lock()
	node, states, err := v.composer.Compose(v.src, v.states)
	if err != nil {
		v.mu.Unlock()
		return nil, scale.Resolved{}, err
	}
	v.states = states

	overrides := scale.Overrides{
		Type:   scale.Type(v.opts.ScaleType),
		Scheme: v.opts.ScaleScheme,
	}
	if len(v.opts.ScaleDomain) == 2 {
		overrides.Domain = v.opts.ScaleDomain
	}
	resolved := scale.Resolve(node.Extents(), overrides)
	v.current = resolved
	v.resolved = true
	listeners := make([]ScaleListener, 0, len(v.listeners))
	for _, fn := range v.listeners {
		listeners = append(listeners, fn)
	}
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(resolved)
	}
	return node, resolved, nil
}

// CurrentScale returns the most recently resolved scale. The second
// result is false before the first Render.
func (v *Visualizer) CurrentScale() (scale.Resolved, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.resolved
}

// permuted reorders arr by perm, padding with zero values where perm
// points past the end of arr.
func permuted[T any](arr []T, perm []int) []T {
	if arr == nil {
		return nil
	}
	out := make([]T, len(perm))
	for i, p := range perm {
		if p < len(arr) {
			out[i] = arr[p]
		}
	}
	return out
}
