// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package polymesh

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Cell is a view of a single polygon in a Mesh.
type Cell struct {
	idx int
	m   *Mesh
}

func (c Cell) Index() int {
	return c.idx
}

func (c Cell) NumVertices() int {
	return c.m.CellOffsets[c.idx+1] - c.m.CellOffsets[c.idx]
}

func (c Cell) VertexIndices() []int {
	return c.m.Cells[c.m.CellOffsets[c.idx]:c.m.CellOffsets[c.idx+1]]
}

func (c Cell) Vertex(i int) (r2.Point, error) {
	start := c.m.CellOffsets[c.idx]
	end := c.m.CellOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return r2.Point{}, fmt.Errorf("Vertex: index %d out of range [0 %d)", i, end-start)
	}
	return c.m.Nodes[c.m.Cells[start+i]], nil
}

// Subdomain returns the subdomain tag of the cell, or 0 if the mesh carries none.
func (c Cell) Subdomain() int {
	if c.m.CellSubdomains == nil {
		return 0
	}
	return c.m.CellSubdomains[c.idx]
}

// Generator returns the index of the generating point, or -1 if the mesh carries none.
func (c Cell) Generator() int {
	if c.m.CellGenerators == nil {
		return -1
	}
	return c.m.CellGenerators[c.idx]
}

// NeighborIndices returns the cells sharing an edge with this one, or nil if the mesh
// carries no adjacency.
func (c Cell) NeighborIndices() []int {
	if c.m.NeighborOffsets == nil {
		return nil
	}
	return c.m.CellNeighbors[c.m.NeighborOffsets[c.idx]:c.m.NeighborOffsets[c.idx+1]]
}

func (c Cell) Polygon() []r2.Point {
	vs := c.VertexIndices()
	poly := make([]r2.Point, len(vs))
	for i, v := range vs {
		poly[i] = c.m.Nodes[v]
	}
	return poly
}

// Area returns the signed shoelace area; positive for CCW cells.
func (c Cell) Area() float64 {
	poly := c.Polygon()
	var a float64
	for i, p := range poly {
		a += p.Cross(poly[(i+1)%len(poly)])
	}
	return a / 2
}

// Barycenter returns the mean of the cell vertices.
func (c Cell) Barycenter() r2.Point {
	poly := c.Polygon()
	var sum r2.Point
	for _, p := range poly {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(poly)))
}
