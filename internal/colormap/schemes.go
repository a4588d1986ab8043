// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package colormap

import (
	"image/color"
	"log/slog"

	"github.com/chewxy/math32"
)

// Scheme names understood by Lookup.
const (
	SchemeTurbo = "turbo"
	SchemeBuRd  = "burd"
	SchemeGreys = "greys"
)

// schemes is the closed registry of named continuous schemes.
var schemes = map[string]Func{
	SchemeTurbo: Turbo,
	SchemeBuRd:  BuRd,
	SchemeGreys: Greys,
}

// Lookup returns the continuous scheme for name. An unknown name is not
// fatal: it logs a warning and falls back to the greyscale scheme so a
// render never fails on a bad scheme string.
func Lookup(name string) Func {
	if fn, ok := schemes[name]; ok {
		return fn
	}
	slog.Warn("unknown color scheme, falling back to greys", "scheme", name)
	return Greys
}

// LookupMap returns a discretized map for name at the default resolution,
// with the same unknown-name fallback as Lookup.
func LookupMap(name string) *Map {
	return New(name, Lookup(name), DefaultResolution)
}

// Turbo is the polynomial approximation of Google's Turbo colormap, the
// default sequential scheme.
func Turbo(t float32) color.RGBA {
	t = clamp01(t)
	r := 34.61 + t*(1172.33+t*(-10793.56+t*(33300.12+t*(-38394.49+t*14825.05))))
	g := 23.31 + t*(557.33+t*(1225.33+t*(-3574.96+t*(1073.77+t*707.56))))
	b := 27.2 + t*(3211.1+t*(-15327.97+t*(27814.0+t*(-22569.18+t*6838.66))))
	return color.RGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: 255}
}

// BuRd is the blue-white-red diverging scheme (ColorBrewer RdBu reversed),
// the default when a scale domain crosses zero.
var BuRd = Gradient(
	color.RGBA{R: 0x05, G: 0x30, B: 0x61, A: 255},
	color.RGBA{R: 0x21, G: 0x66, B: 0xac, A: 255},
	color.RGBA{R: 0x43, G: 0x93, B: 0xc3, A: 255},
	color.RGBA{R: 0x92, G: 0xc5, B: 0xde, A: 255},
	color.RGBA{R: 0xd1, G: 0xe5, B: 0xf0, A: 255},
	color.RGBA{R: 0xf7, G: 0xf7, B: 0xf7, A: 255},
	color.RGBA{R: 0xfd, G: 0xdb, B: 0xc7, A: 255},
	color.RGBA{R: 0xf4, G: 0xa5, B: 0x82, A: 255},
	color.RGBA{R: 0xd6, G: 0x60, B: 0x4d, A: 255},
	color.RGBA{R: 0xb2, G: 0x18, B: 0x2b, A: 255},
	color.RGBA{R: 0x67, G: 0x00, B: 0x1f, A: 255},
)

// Greys is the white-to-black greyscale scheme, used as the fallback for
// unknown scheme names.
func Greys(t float32) color.RGBA {
	v := clamp8((1 - clamp01(t)) * 255)
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

func clamp01(t float32) float32 {
	if math32.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
