// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package render draws polygon meshes and Voronoi diagrams as SVG documents and raster
// images. World coordinates are fitted into the canvas with y pointing up.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/2dChan/cvtpmesh/halfedge"
	"github.com/2dChan/cvtpmesh/polymesh"
	"github.com/2dChan/cvtpmesh/voronoi"
	"github.com/golang/geo/r2"
)

const (
	defaultWidth  = 800
	defaultHeight = 800
	defaultMargin = 20

	siteRadius = 3
)

var ErrEmpty = errors.New("render: nothing to draw")

var (
	background    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	cellStroke    = color.RGBA{R: 170, G: 170, B: 170, A: 255}
	boundaryColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	siteColor     = color.RGBA{R: 255, G: 0, B: 0, A: 255}

	// palette[0] fills untagged cells, the rest cycle over positive subdomain ids.
	palette = []color.RGBA{
		{R: 255, G: 255, B: 255, A: 255},
		{R: 204, G: 229, B: 255, A: 255},
		{R: 255, G: 229, B: 204, A: 255},
		{R: 214, G: 245, B: 214, A: 255},
		{R: 245, G: 214, B: 245, A: 255},
		{R: 255, G: 250, B: 205, A: 255},
	}
)

type Options struct {
	Width  int
	Height int
	Margin int
	// Supersample draws raster images at this multiple of the size and scales them down.
	Supersample int
	Sites       []r2.Point
	// Tags colors diagram cells by site; ignored for polygon meshes.
	Tags     []int
	Boundary *halfedge.Mesh
}

type Option func(*Options) error

func WithSize(width, height int) Option {
	return func(o *Options) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("WithSize: size must be positive, got %dx%d", width, height)
		}
		o.Width, o.Height = width, height
		return nil
	}
}

func WithMargin(margin int) Option {
	return func(o *Options) error {
		if margin < 0 {
			return fmt.Errorf("WithMargin: negative margin %d", margin)
		}
		o.Margin = margin
		return nil
	}
}

func WithSupersample(k int) Option {
	return func(o *Options) error {
		if k < 1 {
			return fmt.Errorf("WithSupersample: factor must be at least 1, got %d", k)
		}
		o.Supersample = k
		return nil
	}
}

// WithSites draws the given generators on top of the cells.
func WithSites(sites []r2.Point) Option {
	return func(o *Options) error {
		o.Sites = sites
		return nil
	}
}

func WithTags(tags []int) Option {
	return func(o *Options) error {
		o.Tags = tags
		return nil
	}
}

// WithBoundary draws the facets of mesh over the cells.
func WithBoundary(mesh *halfedge.Mesh) Option {
	return func(o *Options) error {
		o.Boundary = mesh
		return nil
	}
}

func newOptions(setters []Option) (Options, error) {
	opts := Options{
		Width:       defaultWidth,
		Height:      defaultHeight,
		Margin:      defaultMargin,
		Supersample: 1,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return Options{}, err
		}
	}
	if 2*opts.Margin >= min(opts.Width, opts.Height) {
		return Options{}, fmt.Errorf("render: margin %d leaves no room in %dx%d", opts.Margin,
			opts.Width, opts.Height)
	}
	return opts, nil
}

type polygon struct {
	points []r2.Point
	tag    int
}

func meshPolygons(pm *polymesh.Mesh) ([]polygon, error) {
	polys := make([]polygon, pm.NumCells())
	for i := range polys {
		c, err := pm.Cell(i)
		if err != nil {
			return nil, err
		}
		polys[i] = polygon{points: c.Polygon(), tag: c.Subdomain()}
	}
	return polys, nil
}

// diagramPolygons returns the bounded cells of d.
func diagramPolygons(d *voronoi.Diagram, tags []int) ([]polygon, error) {
	if tags != nil && len(tags) != d.NumCells() {
		return nil, fmt.Errorf("render: %d tags for %d cells", len(tags), d.NumCells())
	}
	polys := make([]polygon, 0, d.NumCells())
	for i := range d.NumCells() {
		c, err := d.Cell(i)
		if err != nil {
			return nil, err
		}
		if !c.IsBounded() {
			continue
		}
		p := polygon{points: c.Polygon()}
		if tags != nil {
			p.tag = tags[i]
		}
		polys = append(polys, p)
	}
	return polys, nil
}

func fillColor(tag int) color.RGBA {
	if tag <= 0 {
		return palette[0]
	}
	return palette[1+(tag-1)%(len(palette)-1)]
}

// viewport maps world coordinates to canvas pixels, flipping y.
type viewport struct {
	lo     r2.Point
	scale  float64
	margin float64
	height float64
}

func newViewport(polys []polygon, o Options, k int) (viewport, error) {
	var pts []r2.Point
	for _, p := range polys {
		pts = append(pts, p.points...)
	}
	pts = append(pts, o.Sites...)
	if o.Boundary != nil {
		pts = append(pts, o.Boundary.Nodes...)
	}
	if len(pts) == 0 {
		return viewport{}, ErrEmpty
	}

	bound := r2.RectFromPoints(pts...)
	size := bound.Size()
	inner := r2.Point{X: float64(k * (o.Width - 2*o.Margin)), Y: float64(k * (o.Height - 2*o.Margin))}
	scale := 1.0
	switch {
	case size.X > 0 && size.Y > 0:
		scale = min(inner.X/size.X, inner.Y/size.Y)
	case size.X > 0:
		scale = inner.X / size.X
	case size.Y > 0:
		scale = inner.Y / size.Y
	}
	return viewport{
		lo:     bound.Lo(),
		scale:  scale,
		margin: float64(k * o.Margin),
		height: float64(k * o.Height),
	}, nil
}

func (v viewport) project(p r2.Point) (float64, float64) {
	x := v.margin + (p.X-v.lo.X)*v.scale
	y := v.height - v.margin - (p.Y-v.lo.Y)*v.scale
	return x, y
}

// boundarySegments returns the facets of mesh, one per twin pair.
func boundarySegments(mesh *halfedge.Mesh) [][2]r2.Point {
	if mesh == nil {
		return nil
	}
	var segs [][2]r2.Point
	for e, he := range mesh.HalfEdges {
		if he.Main {
			segs = append(segs, [2]r2.Point{mesh.Nodes[he.Origin], mesh.Nodes[mesh.Dest(e)]})
		}
	}
	return segs
}
