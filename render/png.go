// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package render

import (
	"image"
	"io"

	"github.com/2dChan/cvtpmesh/polymesh"
	"github.com/2dChan/cvtpmesh/voronoi"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// MeshImage rasterizes the cells of pm, filled by subdomain.
func MeshImage(pm *polymesh.Mesh, setters ...Option) (image.Image, error) {
	opts, err := newOptions(setters)
	if err != nil {
		return nil, err
	}
	polys, err := meshPolygons(pm)
	if err != nil {
		return nil, err
	}
	return rasterize(polys, opts)
}

// DiagramImage rasterizes the bounded cells of d.
func DiagramImage(d *voronoi.Diagram, setters ...Option) (image.Image, error) {
	opts, err := newOptions(setters)
	if err != nil {
		return nil, err
	}
	polys, err := diagramPolygons(d, opts.Tags)
	if err != nil {
		return nil, err
	}
	return rasterize(polys, opts)
}

func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// SavePNG writes img to filename. The format follows the file extension.
func SavePNG(filename string, img image.Image) error {
	return imaging.Save(img, filename)
}

func rasterize(polys []polygon, o Options) (image.Image, error) {
	k := o.Supersample
	vp, err := newViewport(polys, o, k)
	if err != nil {
		return nil, err
	}
	scale := float64(k)

	dc := gg.NewContext(k*o.Width, k*o.Height)
	dc.SetColor(background)
	dc.Clear()

	dc.SetLineWidth(scale)
	for _, poly := range polys {
		dc.NewSubPath()
		for j, p := range poly.points {
			x, y := vp.project(p)
			if j == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.SetColor(fillColor(poly.tag))
		dc.FillPreserve()
		dc.SetColor(cellStroke)
		dc.Stroke()
	}

	dc.SetLineWidth(2 * scale)
	dc.SetColor(boundaryColor)
	for _, seg := range boundarySegments(o.Boundary) {
		x0, y0 := vp.project(seg[0])
		x1, y1 := vp.project(seg[1])
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}

	dc.SetColor(siteColor)
	for _, s := range o.Sites {
		x, y := vp.project(s)
		dc.DrawCircle(x, y, siteRadius*scale)
		dc.Fill()
	}

	img := dc.Image()
	if k > 1 {
		return imaging.Resize(img, o.Width, o.Height, imaging.Lanczos), nil
	}
	return img, nil
}
