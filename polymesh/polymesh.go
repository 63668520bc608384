// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package polymesh holds general polygon meshes in flattened form: every cell is a
// counter-clockwise run of node indices in Cells delimited by CellOffsets.
package polymesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"
)

// VTKPolygon is the VTK cell type of a general polygon.
const VTKPolygon = 7

var ErrInvalidMesh = errors.New("polymesh: invalid mesh")

type Mesh struct {
	Nodes []r2.Point
	// NOTE: Sort in CCW per Cell.
	Cells       []int
	CellOffsets []int

	// Optional per-cell data; nil or len NumCells.
	CellSubdomains []int
	CellGenerators []int

	// Optional adjacency, CCW per cell; nil or NeighborOffsets of len NumCells+1.
	CellNeighbors   []int
	NeighborOffsets []int
}

// New flattens polygons into a Mesh and validates it.
func New(nodes []r2.Point, polygons [][]int) (*Mesh, error) {
	m := &Mesh{
		Nodes:       nodes,
		CellOffsets: make([]int, 1, len(polygons)+1),
	}
	for _, poly := range polygons {
		m.Cells = append(m.Cells, poly...)
		m.CellOffsets = append(m.CellOffsets, len(m.Cells))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mesh) NumNodes() int {
	return len(m.Nodes)
}

func (m *Mesh) NumCells() int {
	return len(m.CellOffsets) - 1
}

func (m *Mesh) Cell(i int) (Cell, error) {
	if i < 0 || i >= m.NumCells() {
		return Cell{}, fmt.Errorf("Cell: index %d out of range [0 %d)", i, m.NumCells())
	}
	return Cell{idx: i, m: m}, nil
}

// Validate checks offsets, node indices and per-cell data lengths.
func (m *Mesh) Validate() error {
	if len(m.CellOffsets) == 0 || m.CellOffsets[0] != 0 {
		return fmt.Errorf("%w: offsets must start at 0", ErrInvalidMesh)
	}
	if last := m.CellOffsets[len(m.CellOffsets)-1]; last != len(m.Cells) {
		return fmt.Errorf("%w: last offset %d, want %d", ErrInvalidMesh, last, len(m.Cells))
	}
	for i := range m.NumCells() {
		if n := m.CellOffsets[i+1] - m.CellOffsets[i]; n < 3 {
			return fmt.Errorf("%w: cell %d has %d vertices", ErrInvalidMesh, i, n)
		}
	}
	for k, v := range m.Cells {
		if v < 0 || v >= len(m.Nodes) {
			return fmt.Errorf("%w: cell entry %d references node %d of %d", ErrInvalidMesh, k, v, len(m.Nodes))
		}
	}
	if m.CellSubdomains != nil && len(m.CellSubdomains) != m.NumCells() {
		return fmt.Errorf("%w: %d subdomain tags for %d cells", ErrInvalidMesh, len(m.CellSubdomains), m.NumCells())
	}
	if m.CellGenerators != nil && len(m.CellGenerators) != m.NumCells() {
		return fmt.Errorf("%w: %d generators for %d cells", ErrInvalidMesh, len(m.CellGenerators), m.NumCells())
	}
	return m.validateNeighbors()
}

func (m *Mesh) validateNeighbors() error {
	if m.NeighborOffsets == nil {
		if m.CellNeighbors != nil {
			return fmt.Errorf("%w: neighbors without offsets", ErrInvalidMesh)
		}
		return nil
	}
	if len(m.NeighborOffsets) != m.NumCells()+1 || m.NeighborOffsets[0] != 0 ||
		m.NeighborOffsets[m.NumCells()] != len(m.CellNeighbors) {
		return fmt.Errorf("%w: %d neighbor offsets for %d cells and %d neighbors", ErrInvalidMesh,
			len(m.NeighborOffsets), m.NumCells(), len(m.CellNeighbors))
	}
	for i := range m.NumCells() {
		if m.NeighborOffsets[i] > m.NeighborOffsets[i+1] {
			return fmt.Errorf("%w: neighbor offsets decrease at cell %d", ErrInvalidMesh, i)
		}
	}
	for k, j := range m.CellNeighbors {
		if j < 0 || j >= m.NumCells() {
			return fmt.Errorf("%w: neighbor entry %d references cell %d of %d", ErrInvalidMesh, k, j,
				m.NumCells())
		}
	}
	return nil
}

func (m *Mesh) Areas() []float64 {
	areas := make([]float64, m.NumCells())
	for i := range areas {
		areas[i] = Cell{idx: i, m: m}.Area()
	}
	return areas
}

func (m *Mesh) TotalArea() float64 {
	return lo.Sum(m.Areas())
}

func (m *Mesh) Barycenters() []r2.Point {
	bc := make([]r2.Point, m.NumCells())
	for i := range bc {
		bc[i] = Cell{idx: i, m: m}.Barycenter()
	}
	return bc
}

// Edges lists every undirected edge once, lower node index first, in order of first
// appearance.
func (m *Mesh) Edges() [][2]int {
	seen := make(map[[2]int]struct{}, len(m.Cells))
	edges := make([][2]int, 0, len(m.Cells))
	for i := range m.NumCells() {
		vs := m.Cells[m.CellOffsets[i]:m.CellOffsets[i+1]]
		for j, a := range vs {
			b := vs[(j+1)%len(vs)]
			key := [2]int{min(a, b), max(a, b)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key)
		}
	}
	return edges
}

// ToVTK returns the VTK connectivity (vertex count followed by vertex indices, per cell)
// and the cell types.
func (m *Mesh) ToVTK() (cells []int, cellTypes []int) {
	cells = make([]int, 0, len(m.Cells)+m.NumCells())
	cellTypes = make([]int, m.NumCells())
	for i := range m.NumCells() {
		vs := m.Cells[m.CellOffsets[i]:m.CellOffsets[i+1]]
		cells = append(cells, len(vs))
		cells = append(cells, vs...)
		cellTypes[i] = VTKPolygon
	}
	return cells, cellTypes
}

// WriteVTK writes the mesh as a legacy ASCII unstructured grid. Subdomain tags, when
// present, are written as cell data.
func (m *Mesh) WriteVTK(w io.Writer) error {
	bw := bufio.NewWriter(w)
	cells, cellTypes := m.ToVTK()

	fmt.Fprintln(bw, "# vtk DataFile Version 3.0")
	fmt.Fprintln(bw, "polymesh")
	fmt.Fprintln(bw, "ASCII")
	fmt.Fprintln(bw, "DATASET UNSTRUCTURED_GRID")
	fmt.Fprintf(bw, "POINTS %d double\n", m.NumNodes())
	for _, p := range m.Nodes {
		fmt.Fprintf(bw, "%g %g 0\n", p.X, p.Y)
	}
	fmt.Fprintf(bw, "CELLS %d %d\n", m.NumCells(), len(cells))
	for i := range m.NumCells() {
		start := m.CellOffsets[i] + i
		end := m.CellOffsets[i+1] + i + 1
		fmt.Fprintln(bw, joinInts(cells[start:end]))
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", m.NumCells())
	for _, ct := range cellTypes {
		fmt.Fprintln(bw, ct)
	}
	if m.CellSubdomains != nil {
		fmt.Fprintf(bw, "CELL_DATA %d\n", m.NumCells())
		fmt.Fprintln(bw, "SCALARS subdomain int 1")
		fmt.Fprintln(bw, "LOOKUP_TABLE default")
		for _, s := range m.CellSubdomains {
			fmt.Fprintln(bw, s)
		}
	}
	return bw.Flush()
}

func joinInts(vs []int) string {
	b := make([]byte, 0, len(vs)*4)
	for i, v := range vs {
		if i > 0 {
			b = append(b, ' ')
		}
		b = fmt.Appendf(b, "%d", v)
	}
	return string(b)
}
