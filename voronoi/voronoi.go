// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package voronoi implements planar Voronoi diagrams, built on Delaunay triangulation.
package voronoi

import (
	"fmt"
	"slices"

	"github.com/2dChan/cvtpmesh/delaunay"
	"github.com/golang/geo/r2"
)

const (
	defaultEps = 1e-12

	// Infinity marks the missing end of a ridge on the convex hull.
	Infinity = -1
)

type Diagram struct {
	Sites    []r2.Point
	Vertices []r2.Point

	// RidgePoints[k] holds the two sites separated by ridge k and RidgeVertices[k] its
	// end vertices. The second vertex is Infinity for ridges of unbounded cells.
	RidgePoints   [][2]int
	RidgeVertices [][2]int

	// NOTE: Sort in CCW per Cell.
	CellVertices []int
	// NOTE: Sort in CCW per Cell.
	CellNeighbors []int
	CellOffsets   []int
	// Bounded is false for sites on the convex hull, whose cells reach infinity.
	Bounded []bool

	eps float64
}

type DiagramOptions struct {
	Eps float64
}

type DiagramOption func(*DiagramOptions) error

func WithEps(eps float64) DiagramOption {
	return func(o *DiagramOptions) error {
		if eps <= 0 {
			return fmt.Errorf("WithEps: eps must be positive, got %v", eps)
		}
		o.Eps = eps
		return nil
	}
}

func NewDiagram(sites []r2.Point, setters ...DiagramOption) (*Diagram, error) {
	opts := DiagramOptions{
		Eps: defaultEps,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	dt, err := delaunay.NewTriangulation(sites, delaunay.WithEps(opts.Eps))
	if err != nil {
		return nil, err
	}

	numTriangles := len(dt.Triangles)
	numNeighbors := len(dt.IncidentTriangleIndices)
	vd := &Diagram{
		Sites:         dt.Vertices,
		Vertices:      make([]r2.Point, numTriangles),
		CellVertices:  dt.IncidentTriangleIndices,
		CellNeighbors: make([]int, numNeighbors),
		CellOffsets:   dt.IncidentTriangleOffsets,
		Bounded:       make([]bool, len(dt.Vertices)),
		eps:           opts.Eps,
	}

	for i := range numTriangles {
		vd.Vertices[i] = triangleCircumcenter(dt.TriangleVertices(i))
	}

	for vIdx := range dt.Vertices {
		offset := dt.IncidentTriangleOffsets[vIdx]
		it := dt.IncidentTriangles(vIdx)
		for i, tIdx := range it {
			vd.CellNeighbors[offset+i] = delaunay.NextVertex(dt.Triangles[tIdx], vIdx)
		}
	}

	edges := dt.Edges()
	vd.RidgePoints = make([][2]int, len(edges))
	vd.RidgeVertices = make([][2]int, len(edges))
	for i := range vd.Bounded {
		vd.Bounded[i] = true
	}
	for k, e := range edges {
		vd.RidgePoints[k] = e.V
		vd.RidgeVertices[k] = e.T
		if e.T[1] == Infinity {
			vd.Bounded[e.V[0]] = false
			vd.Bounded[e.V[1]] = false
		}
	}

	return vd, nil
}

// AddPoints returns the diagram of the current sites followed by points. Existing site
// indices are preserved; the receiver is left untouched.
func (vd *Diagram) AddPoints(points []r2.Point) (*Diagram, error) {
	sites := slices.Concat(vd.Sites, points)
	return NewDiagram(sites, WithEps(vd.eps))
}

func (vd *Diagram) NumCells() int {
	return len(vd.Sites)
}

func (vd *Diagram) NumRidges() int {
	return len(vd.RidgePoints)
}

// RidgeIsFinite reports whether both ends of ridge k are Voronoi vertices.
func (vd *Diagram) RidgeIsFinite(k int) bool {
	return vd.RidgeVertices[k][0] != Infinity && vd.RidgeVertices[k][1] != Infinity
}

// RidgeMidpoint returns the midpoint of a finite ridge.
func (vd *Diagram) RidgeMidpoint(k int) r2.Point {
	rv := vd.RidgeVertices[k]
	return vd.Vertices[rv[0]].Add(vd.Vertices[rv[1]]).Mul(0.5)
}

func (vd *Diagram) Cell(i int) (Cell, error) {
	if i < 0 || i >= len(vd.Sites) {
		return Cell{}, fmt.Errorf("Cell: index %d out of range [0 %d)", i, len(vd.Sites))
	}
	return Cell{idx: i, d: vd}, nil
}

func triangleCircumcenter(p1, p2, p3 r2.Point) r2.Point {
	v1 := p2.Sub(p1)
	v2 := p3.Sub(p1)

	d := 2 * v1.Cross(v2)
	l1 := v1.Dot(v1)
	l2 := v2.Dot(v2)

	return r2.Point{
		X: p1.X + (v2.Y*l1-v1.Y*l2)/d,
		Y: p1.Y + (v1.X*l2-v2.X*l1)/d,
	}
}
