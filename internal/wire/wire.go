// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package wire encodes and decodes the tensor wire format exchanged with
// the widget front end.
//
// A tensor travels as a JSON object:
//
//	{
//	  "shape":       [int, ...],
//	  "dtype":       "float32" | "float64" | "int8" | ...,
//	  "data":        base64 string,
//	  "shuffle":     optional int (byte-shuffle stride),
//	  "compression": optional "zlib"
//	}
//
// Decoding pipeline: base64-decode, zlib-inflate when compression is set,
// reverse the byte shuffle when shuffle is set, then wrap the raw buffer
// in a tensor. Encoding runs the same pipeline in reverse, shuffling by
// the element byte width so same-significance bytes group together and
// compress better.
package wire

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/tensorviz-ml/tensorviz/internal/tensor"
)

// Common errors.
var (
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrShuffleStride          = errors.New("data length is not a multiple of the shuffle stride")
)

// CompressionZlib is the only compression scheme the format defines.
const CompressionZlib = "zlib"

// Message is the JSON wire representation of a tensor.
type Message struct {
	Shape       []int  `json:"shape"`
	DType       string `json:"dtype"`
	Data        string `json:"data"`
	Shuffle     int    `json:"shuffle,omitempty"`
	Compression string `json:"compression,omitempty"`
}

// Decode reconstructs a tensor from its wire message.
func Decode(msg *Message) (*tensor.Tensor, error) {
	dtype, err := tensor.ParseDataType(msg.DType)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding tensor data: %w", err)
	}

	switch msg.Compression {
	case "":
	case CompressionZlib:
		data, err = inflate(data)
		if err != nil {
			return nil, fmt.Errorf("inflating tensor data: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, msg.Compression)
	}

	if msg.Shuffle > 1 {
		data, err = unshuffle(data, msg.Shuffle)
		if err != nil {
			return nil, err
		}
	}

	return tensor.NewFromBytes(tensor.Shape(msg.Shape), dtype, data)
}

// Encode converts a tensor into its wire message, byte-shuffling
// multi-byte element types and compressing with zlib at best speed.
func Encode(t *tensor.Tensor) (*Message, error) {
	data := t.Bytes()
	shuffle := 0
	if esz := t.DType().Size(); esz > 1 {
		shuffle = esz
		var err error
		data, err = shuffleBytes(data, esz)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compressing tensor data: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing tensor data: %w", err)
	}

	return &Message{
		Shape:       append([]int(nil), t.Shape()...),
		DType:       t.DType().String(),
		Data:        base64.StdEncoding.EncodeToString(buf.Bytes()),
		Shuffle:     shuffle,
		Compression: CompressionZlib,
	}, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// unshuffle reverses a byte-shuffle transform with stride k: byte i of
// the shuffled buffer belongs to group i%k at position i/k, so
// original[group*k+g] = shuffled[group+n*g] with n = len/k groups.
func unshuffle(data []byte, k int) ([]byte, error) {
	if len(data)%k != 0 {
		return nil, fmt.Errorf("%w: %d bytes, stride %d", ErrShuffleStride, len(data), k)
	}
	n := len(data) / k
	out := make([]byte, len(data))
	for g := 0; g < k; g++ {
		for group := 0; group < n; group++ {
			out[group*k+g] = data[group+n*g]
		}
	}
	return out, nil
}

// shuffleBytes applies the forward transform: same-significance bytes of
// consecutive elements end up adjacent.
func shuffleBytes(data []byte, k int) ([]byte, error) {
	if len(data)%k != 0 {
		return nil, fmt.Errorf("%w: %d bytes, stride %d", ErrShuffleStride, len(data), k)
	}
	n := len(data) / k
	out := make([]byte, len(data))
	for g := 0; g < k; g++ {
		for group := 0; group < n; group++ {
			out[group+n*g] = data[group*k+g]
		}
	}
	return out, nil
}
