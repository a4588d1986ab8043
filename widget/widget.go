// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package widget provides the public API for hosting interactive tensor
// visualizations: the visualizer state machine, the wire-format tensor
// codec, and a websocket bridge for browser front ends.
package widget

import (
	"log/slog"

	"github.com/tensorviz-ml/tensorviz/internal/tensor"
	"github.com/tensorviz-ml/tensorviz/internal/widget"
	"github.com/tensorviz-ml/tensorviz/internal/wire"
)

// Options is the host configuration surface; any subset may be set.
type Options = widget.Options

// Visualizer owns a tensor and its display state.
type Visualizer = widget.Visualizer

// ScaleListener receives the resolved scale after each recomputation.
type ScaleListener = widget.ScaleListener

// Server bridges a Visualizer to front ends over websockets.
type Server = widget.Server

// WireTensor is the JSON wire representation of a tensor.
type WireTensor = wire.Message

// New creates a visualizer for t.
func New(t *tensor.Tensor, opts Options) (*Visualizer, error) {
	return widget.New(t, opts)
}

// NewServer creates a websocket bridge for viz. A nil logger uses
// slog.Default().
func NewServer(viz *Visualizer, log *slog.Logger) *Server {
	return widget.NewServer(viz, log)
}

// DecodeTensor reconstructs a tensor from its wire message.
func DecodeTensor(msg *WireTensor) (*tensor.Tensor, error) {
	return wire.Decode(msg)
}

// EncodeTensor converts a tensor into its wire message.
func EncodeTensor(t *tensor.Tensor) (*WireTensor, error) {
	return wire.Encode(t)
}
