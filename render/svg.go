// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/2dChan/cvtpmesh/polymesh"
	"github.com/2dChan/cvtpmesh/voronoi"
	svg "github.com/ajstarks/svgo"
)

// MeshSVG writes the cells of pm as an SVG document, filled by subdomain.
func MeshSVG(w io.Writer, pm *polymesh.Mesh, setters ...Option) error {
	opts, err := newOptions(setters)
	if err != nil {
		return err
	}
	polys, err := meshPolygons(pm)
	if err != nil {
		return err
	}
	return writeSVG(w, polys, opts)
}

// DiagramSVG writes the bounded cells of d as an SVG document.
func DiagramSVG(w io.Writer, d *voronoi.Diagram, setters ...Option) error {
	opts, err := newOptions(setters)
	if err != nil {
		return err
	}
	polys, err := diagramPolygons(d, opts.Tags)
	if err != nil {
		return err
	}
	return writeSVG(w, polys, opts)
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

func writeSVG(w io.Writer, polys []polygon, o Options) error {
	vp, err := newViewport(polys, o, 1)
	if err != nil {
		return err
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(o.Width, o.Height)
	canvas.Rect(0, 0, o.Width, o.Height, "fill:"+rgb(background))

	xPoints := make([]int, 0)
	yPoints := make([]int, 0)
	for _, poly := range polys {
		xPoints = xPoints[:0]
		yPoints = yPoints[:0]
		for _, p := range poly.points {
			x, y := vp.project(p)
			xPoints = append(xPoints, int(math.Round(x)))
			yPoints = append(yPoints, int(math.Round(y)))
		}
		canvas.Polygon(xPoints, yPoints,
			"fill:"+rgb(fillColor(poly.tag))+";stroke:"+rgb(cellStroke)+";stroke-width:1;stroke-opacity:1.0")
	}

	for _, seg := range boundarySegments(o.Boundary) {
		x0, y0 := vp.project(seg[0])
		x1, y1 := vp.project(seg[1])
		canvas.Line(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)),
			"stroke:"+rgb(boundaryColor)+";stroke-width:2")
	}

	for _, s := range o.Sites {
		x, y := vp.project(s)
		canvas.Circle(int(math.Round(x)), int(math.Round(y)), siteRadius, "fill:"+rgb(siteColor))
	}
	canvas.End()
	return ew.err
}

func rgb(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
