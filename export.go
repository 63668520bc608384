// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cvtpmesh

import (
	"fmt"

	"github.com/2dChan/cvtpmesh/polymesh"
	"github.com/2dChan/cvtpmesh/voronoi"
)

// ToPolygonMesh turns the bounded cells of generators with a positive subdomain tag
// into a polygon mesh. Voronoi vertices are renumbered in order of first use. Two
// exported cells are neighbours when their generators are.
func (m *Mesher) ToPolygonMesh(d *voronoi.Diagram) (*polymesh.Mesh, error) {
	if err := m.expect("ToPolygonMesh", DiagramBuilt, Relaxing, Converged,
		IterationLimitReached); err != nil {
		return nil, err
	}
	if err := m.checkDiagram(d); err != nil {
		return nil, err
	}

	tags := m.PointSubdomains()
	renumber := make(map[int]int)
	cellOf := make([]int, d.NumCells())
	pm := &polymesh.Mesh{CellOffsets: []int{0}}
	var cells []voronoi.Cell
	for i := range d.NumCells() {
		cellOf[i] = -1
		if tags[i] <= 0 || !d.Bounded[i] {
			continue
		}
		c, err := d.Cell(i)
		if err != nil {
			return nil, err
		}
		cellOf[i] = len(cells)
		cells = append(cells, c)
		for _, v := range c.VertexIndices() {
			nv, ok := renumber[v]
			if !ok {
				nv = len(pm.Nodes)
				renumber[v] = nv
				pm.Nodes = append(pm.Nodes, d.Vertices[v])
			}
			pm.Cells = append(pm.Cells, nv)
		}
		pm.CellOffsets = append(pm.CellOffsets, len(pm.Cells))
		pm.CellSubdomains = append(pm.CellSubdomains, tags[i])
		pm.CellGenerators = append(pm.CellGenerators, c.SiteIndex())
	}

	pm.NeighborOffsets = make([]int, 1, len(cells)+1)
	for _, c := range cells {
		for k := range c.NumNeighbors() {
			nb, err := c.Neighbor(k)
			if err != nil {
				return nil, err
			}
			if j := cellOf[nb.SiteIndex()]; j >= 0 {
				pm.CellNeighbors = append(pm.CellNeighbors, j)
			}
		}
		pm.NeighborOffsets = append(pm.NeighborOffsets, len(pm.CellNeighbors))
	}
	if err := pm.Validate(); err != nil {
		return nil, fmt.Errorf("ToPolygonMesh: %w", err)
	}

	m.setState(PolygonMeshExported)
	return pm, nil
}

// UniformMeshing refines every facet n times, discretizes the boundary and seeds the
// interior.
func (m *Mesher) UniformMeshing(n int) error {
	if err := m.Refine(n); err != nil {
		return err
	}
	if err := m.Discretize(); err != nil {
		return err
	}
	return m.SeedInterior()
}

// Generate runs the whole pipeline with a fixed number of Lloyd iterations.
func (m *Mesher) Generate(n, iterations int) (*polymesh.Mesh, error) {
	if err := m.UniformMeshing(n); err != nil {
		return nil, err
	}
	d, err := m.BuildDiagram()
	if err != nil {
		return nil, err
	}
	d, _, err = m.Lloyd(d, iterations, 0)
	if err != nil {
		return nil, err
	}
	return m.ToPolygonMesh(d)
}
