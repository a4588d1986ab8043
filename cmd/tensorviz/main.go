// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package main provides the TensorViz CLI.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/tensorviz-ml/tensorviz/heatmap"
	"github.com/tensorviz-ml/tensorviz/widget"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("TensorViz %s\n", version)
	case "render":
		err = runRender(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "tensorviz:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("TensorViz - tensor heatmap visualization")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  render     Render a wire-format tensor to PNG")
	fmt.Println("  serve      Host a tensor for an interactive front end")
}

// loadTensor reads a wire-format tensor JSON file and builds a
// visualizer for it.
func loadTensor(path string, opts widget.Options) (*widget.Visualizer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var msg widget.WireTensor
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	t, err := widget.DecodeTensor(&msg)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return widget.New(t, opts)
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	in := fs.String("in", "", "wire-format tensor JSON file (required)")
	out := fs.String("out", "heatmap.png", "output PNG path")
	scheme := fs.String("scheme", "", "color scheme (inferred when empty)")
	scaleType := fs.String("scale", "", "scale type: linear or log (default linear)")
	domain := fs.String("domain", "", "explicit scale domain as min,max")
	views := fs.String("views", "", "comma-separated display modes for leading dimensions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("render: -in is required")
	}

	opts := widget.Options{
		ScaleType:   *scaleType,
		ScaleScheme: *scheme,
	}
	if *domain != "" {
		d, err := parseDomain(*domain)
		if err != nil {
			return err
		}
		opts.ScaleDomain = d
	}
	if *views != "" {
		opts.DefaultViews = strings.Split(*views, ",")
	}

	viz, err := loadTensor(*in, opts)
	if err != nil {
		return err
	}
	node, sc, err := viz.Render()
	if err != nil {
		return err
	}
	cm := heatmap.LookupColormap(sc.Scheme)
	fmt.Printf("scale: type=%s domain=[%g, %g] scheme=%s\n",
		sc.Type, sc.Domain[0], sc.Domain[1], sc.Scheme)
	return writeNode(node, *out, sc, cm)
}

// writeNode writes one PNG per composed matrix. Small-multiples children
// get a numbered suffix before the extension.
func writeNode(node *heatmap.Node, path string, sc heatmap.Scale, cm *heatmap.Colormap) error {
	if node.IsLeaf() {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := heatmap.WritePNG(f, node.Matrix, sc, cm); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	}
	base, ext := path, ""
	if i := strings.LastIndexByte(path, '.'); i > 0 {
		base, ext = path[:i], path[i:]
	}
	for k, child := range node.Children {
		if err := writeNode(child, fmt.Sprintf("%s-%d%s", base, k, ext), sc, cm); err != nil {
			return err
		}
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	in := fs.String("in", "", "wire-format tensor JSON file (required)")
	addr := fs.String("addr", "localhost:8787", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("serve: -in is required")
	}

	viz, err := loadTensor(*in, widget.Options{})
	if err != nil {
		return err
	}
	// Resolve an initial scale so CurrentScale is readable immediately.
	if _, _, err := viz.Render(); err != nil {
		return err
	}

	log := slog.Default()
	mux := http.NewServeMux()
	mux.Handle("/widget", widget.NewServer(viz, log))
	log.Info("serving tensor widget", "addr", *addr, "path", "/widget")
	return http.ListenAndServe(*addr, mux)
}

func parseDomain(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("domain must be min,max, got %q", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad domain minimum %q", parts[0])
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad domain maximum %q", parts[1])
	}
	return []float64{lo, hi}, nil
}
