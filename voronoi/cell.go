// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package voronoi

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// ErrUnbounded is returned by geometric queries on cells that reach infinity.
var ErrUnbounded = errors.New("voronoi: cell is unbounded")

// Cell represents a Voronoi cell. It is a view structure for accessing a cell in a Diagram.
// The cell's index corresponds to the index of its site in the Diagram's Sites.
type Cell struct {
	idx int
	d   *Diagram
}

// SiteIndex returns the index of the site in the Diagram's Sites.
func (c Cell) SiteIndex() int {
	return c.idx
}

// Site returns the site point of the cell.
func (c Cell) Site() r2.Point {
	return c.d.Sites[c.idx]
}

// IsBounded reports whether the cell is a closed polygon.
func (c Cell) IsBounded() bool {
	return c.d.Bounded[c.idx]
}

// NumVertices returns the number of vertices in the cell.
// This equals the number of neighbors.
func (c Cell) NumVertices() int {
	return c.d.CellOffsets[c.idx+1] - c.d.CellOffsets[c.idx]
}

// VertexIndices returns the indices of the vertices that form the cell in the Diagram's Vertices,
// sorted in counter-clockwise order.
func (c Cell) VertexIndices() []int {
	return c.d.CellVertices[c.d.CellOffsets[c.idx]:c.d.CellOffsets[c.idx+1]]
}

// Vertex returns the vertex at the specified index.
// It returns an error if the index is out of range.
func (c Cell) Vertex(i int) (r2.Point, error) {
	start := c.d.CellOffsets[c.idx]
	end := c.d.CellOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return r2.Point{}, fmt.Errorf("Vertex: index %d out of range [0 %d)", i, end-start)
	}
	return c.d.Vertices[c.d.CellVertices[start+i]], nil
}

// NumNeighbors returns the number of neighboring cells.
// This equals the number of vertices.
func (c Cell) NumNeighbors() int {
	return c.d.CellOffsets[c.idx+1] - c.d.CellOffsets[c.idx]
}

// NeighborIndices returns the indices of the neighboring cells in the Diagram,
// sorted in counter-clockwise order.
func (c Cell) NeighborIndices() []int {
	return c.d.CellNeighbors[c.d.CellOffsets[c.idx]:c.d.CellOffsets[c.idx+1]]
}

// Neighbor returns the neighboring cell at the specified index.
// It returns an error if the index is out of range.
func (c Cell) Neighbor(i int) (Cell, error) {
	neighbors := c.NeighborIndices()
	if i < 0 || i >= len(neighbors) {
		return Cell{}, fmt.Errorf("Neighbor: index %d out of range [0 %d)", i, len(neighbors))
	}
	return c.d.Cell(neighbors[i])
}

// Polygon returns the cell vertices in counter-clockwise order.
func (c Cell) Polygon() []r2.Point {
	idx := c.VertexIndices()
	poly := make([]r2.Point, len(idx))
	for i, v := range idx {
		poly[i] = c.d.Vertices[v]
	}
	return poly
}

// Area returns the area of a bounded cell and +Inf otherwise.
func (c Cell) Area() float64 {
	if !c.IsBounded() {
		return math.Inf(1)
	}
	poly := c.Polygon()
	var a float64
	for i, p := range poly {
		a += p.Cross(poly[(i+1)%len(poly)])
	}
	return a / 2
}

// Centroid returns the area centroid of a bounded cell.
func (c Cell) Centroid() (r2.Point, error) {
	if !c.IsBounded() {
		return r2.Point{}, fmt.Errorf("Centroid: cell %d: %w", c.idx, ErrUnbounded)
	}
	poly := c.Polygon()
	// Relative to the site to keep the cross products well conditioned.
	origin := c.Site()
	var (
		area float64
		sum  r2.Point
	)
	for i := range poly {
		p := poly[i].Sub(origin)
		q := poly[(i+1)%len(poly)].Sub(origin)
		w := p.Cross(q)
		area += w
		sum = sum.Add(p.Add(q).Mul(w))
	}
	if area == 0 {
		return origin, nil
	}
	return origin.Add(sum.Mul(1 / (3 * area))), nil
}
