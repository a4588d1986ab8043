// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package render draws composed 2D matrices into pixel buffers.
//
// This is the thin drawing end of the pipeline: it consumes a resolved
// scale and a rank-2 tensor and produces one pixel per element. Layout
// concerns (axis ticks, labels, widget chrome) belong to the front end.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/tensorviz-ml/tensorviz/internal/colormap"
	"github.com/tensorviz-ml/tensorviz/internal/scale"
	"github.com/tensorviz-ml/tensorviz/internal/tensor"
)

// Image renders a rank-2 tensor into an RGBA buffer, one pixel per
// element. The image height is the matrix's first dimension and the width
// its second. Values map through the scale's affine [0,1] transform and
// then the colormap; non-finite scaled values come out as the colormap's
// fallback color.
func Image(m *tensor.Tensor, sc scale.Resolved, cm *colormap.Map) (*image.RGBA, error) {
	if m.Rank() != 2 {
		return nil, fmt.Errorf("expected a rank-2 tensor, got rank %d", m.Rank())
	}
	rows, cols := m.Shape()[0], m.Shape()[1]
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	mapper := sc.Mapper()
	for y := 0; y < rows; y++ {
		row := m.Get(y)
		for x := 0; x < cols; x++ {
			c := cm.At(float32(mapper(row.At(x))))
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img, nil
}

// WritePNG renders the matrix and encodes it as PNG.
func WritePNG(w io.Writer, m *tensor.Tensor, sc scale.Resolved, cm *colormap.Map) error {
	img, err := Image(m, sc, cm)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Legend renders a horizontal gradient strip of the colormap, for use as
// a scale legend next to a heatmap.
func Legend(cm *colormap.Map, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		t := float32(0)
		if width > 1 {
			t = float32(x) / float32(width-1)
		}
		c := cm.At(t)
		for y := 0; y < height; y++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}
