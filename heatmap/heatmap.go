// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package heatmap provides the public API for turning tensors into
// heatmap pixels: view composition, color scale resolution, colormaps,
// and rendering.
//
// Example:
//
//	t, _ := tensor.FromValues(tensor.Shape{4, 8, 8}, tensor.Float32, values)
//	node, states, _ := heatmap.NewComposer().Compose(t, nil)
//	sc := heatmap.ResolveScale(node.Extents(), heatmap.ScaleOverrides{})
//	cm := heatmap.LookupColormap(sc.Scheme)
//	img, _ := heatmap.Image(node.Matrix, sc, cm)
//	_ = states
package heatmap

import (
	"image"
	"io"

	"github.com/tensorviz-ml/tensorviz/internal/colormap"
	"github.com/tensorviz-ml/tensorviz/internal/render"
	"github.com/tensorviz-ml/tensorviz/internal/scale"
	"github.com/tensorviz-ml/tensorviz/internal/tensor"
	"github.com/tensorviz-ml/tensorviz/internal/view"
)

// ScaleType is the scale transform applied before colormap lookup.
type ScaleType = scale.Type

// Supported scale types.
const (
	Linear ScaleType = scale.Linear
	Log    ScaleType = scale.Log
)

// Scale is a fully resolved color scale: type, domain, scheme.
type Scale = scale.Resolved

// ScaleOverrides carries explicit user settings; zero values mean
// "infer".
type ScaleOverrides = scale.Overrides

// ResolveScale derives a concrete scale from value extents and optional
// overrides.
func ResolveScale(ext tensor.Extents, o ScaleOverrides) Scale {
	return scale.Resolve(ext, o)
}

// Colormap is a discretized color lookup table.
type Colormap = colormap.Map

// ColormapFunc is a continuous color scheme over [0, 1].
type ColormapFunc = colormap.Func

// Built-in scheme names.
const (
	SchemeTurbo = colormap.SchemeTurbo
	SchemeBuRd  = colormap.SchemeBuRd
	SchemeGreys = colormap.SchemeGreys
)

// NewColormap discretizes a continuous scheme into count samples.
func NewColormap(name string, fn ColormapFunc, count int) *Colormap {
	return colormap.New(name, fn, count)
}

// LookupColormap returns a discretized map for a scheme name, falling
// back to greyscale (with a logged warning) for unknown names.
func LookupColormap(name string) *Colormap {
	return colormap.LookupMap(name)
}

// Mode is the display directive for one leading tensor dimension.
type Mode = view.Mode

// Display modes.
const (
	ModeSlice          Mode = view.ModeSlice
	ModeSmallMultiples Mode = view.ModeSmallMultiples
	ModeMin            Mode = view.ModeMin
	ModeMax            Mode = view.ModeMax
	ModeMean           Mode = view.ModeMean
)

// ParseMode parses a wire mode name such as "small-multiples".
func ParseMode(name string) (Mode, error) {
	return view.ParseMode(name)
}

// DimensionState is the display directive for one leading dimension.
type DimensionState = view.DimensionState

// Node is a composed result: a single matrix or nested small multiples.
type Node = view.Node

// Composer composes tensors into render nodes, caching reductions across
// slice-index changes.
type Composer = view.Composer

// NewComposer returns an empty composer.
func NewComposer() *Composer {
	return view.NewComposer()
}

// Image renders a rank-2 tensor into an RGBA pixel buffer.
func Image(m *tensor.Tensor, sc Scale, cm *Colormap) (*image.RGBA, error) {
	return render.Image(m, sc, cm)
}

// WritePNG renders a rank-2 tensor and PNG-encodes it.
func WritePNG(w io.Writer, m *tensor.Tensor, sc Scale, cm *Colormap) error {
	return render.WritePNG(w, m, sc, cm)
}

// Legend renders a horizontal gradient strip of a colormap.
func Legend(cm *Colormap, width, height int) *image.RGBA {
	return render.Legend(cm, width, height)
}
