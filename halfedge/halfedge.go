// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package halfedge

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"
)

// HalfEdge is a directed edge record. Cell is the subdomain on its left.
type HalfEdge struct {
	Origin int
	Twin   int
	Next   int
	Prev   int
	Cell   int
	// Main marks the canonical half-edge of a twin pair.
	Main bool
	// Facet is the input facet this half-edge descends from.
	Facet int
}

type Mesh struct {
	Nodes     []r2.Point
	HalfEdges []HalfEdge
	// Fixed is true for nodes that may be corners. Refinement adds unfixed nodes.
	Fixed []bool

	numFacets int
}

// FromEdges builds a mesh from a planar straight-line graph. facets[k] joins two node
// indices and subdomains[k] holds the {left, right} subdomain tags of the facet when
// walking from facets[k][0] to facets[k][1]. A nil fixed marks every node as fixed.
func FromEdges(nodes []r2.Point, facets [][2]int, subdomains [][2]int, fixed []bool) (*Mesh, error) {
	numNodes := len(nodes)
	numFacets := len(facets)
	if numFacets == 0 {
		return nil, fmt.Errorf("%w: no facets", ErrInvalidInput)
	}
	if len(subdomains) != numFacets {
		return nil, fmt.Errorf("%w: %d subdomain pairs for %d facets", ErrInvalidInput,
			len(subdomains), numFacets)
	}
	if fixed == nil {
		fixed = make([]bool, numNodes)
		for i := range fixed {
			fixed[i] = true
		}
	}
	if len(fixed) != numNodes {
		return nil, fmt.Errorf("%w: %d fixed flags for %d nodes", ErrInvalidInput,
			len(fixed), numNodes)
	}

	m := &Mesh{
		Nodes:     slices.Clone(nodes),
		HalfEdges: make([]HalfEdge, 2*numFacets),
		Fixed:     slices.Clone(fixed),
		numFacets: numFacets,
	}

	seen := make(map[[2]int]int, numFacets)
	for k, f := range facets {
		a, b := f[0], f[1]
		if a < 0 || a >= numNodes || b < 0 || b >= numNodes {
			return nil, fmt.Errorf("%w: facet %d references node out of range [0 %d)",
				ErrInvalidInput, k, numNodes)
		}
		if a == b || nodes[a] == nodes[b] {
			return nil, fmt.Errorf("%w: facet %d has zero length", ErrDegenerate, k)
		}
		key := [2]int{min(a, b), max(a, b)}
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: facets %d and %d join the same nodes", ErrInvalidInput,
				prev, k)
		}
		seen[key] = k

		m.HalfEdges[2*k] = HalfEdge{Origin: a, Twin: 2*k + 1, Cell: subdomains[k][0],
			Main: true, Facet: k}
		m.HalfEdges[2*k+1] = HalfEdge{Origin: b, Twin: 2 * k, Cell: subdomains[k][1],
			Facet: k}
	}

	if err := m.link(); err != nil {
		return nil, err
	}
	if err := m.Validate("from-edges"); err != nil {
		return nil, err
	}
	return m, nil
}

// link connects Next/Prev by turning clockwise at every node: the successor of u->v is
// the outgoing half-edge of v that precedes v->u in counter-clockwise order.
func (m *Mesh) link() error {
	outgoing := make([][]int, len(m.Nodes))
	for h, he := range m.HalfEdges {
		outgoing[he.Origin] = append(outgoing[he.Origin], h)
	}

	pos := make([]int, len(m.HalfEdges))
	for v, out := range outgoing {
		if len(out) == 1 {
			return &TopologyError{HalfEdge: out[0], Op: "from-edges",
				Reason: fmt.Sprintf("node %d has a single incident facet", v)}
		}
		slices.SortFunc(out, func(a, b int) int {
			va, vb := m.Vector(a), m.Vector(b)
			return cmp.Compare(math.Atan2(va.Y, va.X), math.Atan2(vb.Y, vb.X))
		})
		for i, h := range out {
			pos[h] = i
		}
	}

	for h := range m.HalfEdges {
		t := m.HalfEdges[h].Twin
		out := outgoing[m.HalfEdges[t].Origin]
		n := len(out)
		next := out[(pos[t]-1+n)%n]
		m.HalfEdges[h].Next = next
		m.HalfEdges[next].Prev = h
	}
	return nil
}

// Validate checks twin, cycle and subdomain invariants. op names the operation in the
// returned *TopologyError.
func (m *Mesh) Validate(op string) error {
	nh := len(m.HalfEdges)
	inRange := func(i int) bool { return i >= 0 && i < nh }
	for h, he := range m.HalfEdges {
		if he.Origin < 0 || he.Origin >= len(m.Nodes) {
			return &TopologyError{HalfEdge: h, Op: op, Reason: "origin out of range"}
		}
		if !inRange(he.Twin) || !inRange(he.Next) || !inRange(he.Prev) {
			return &TopologyError{HalfEdge: h, Op: op, Reason: "link out of range"}
		}
		if he.Twin == h || m.HalfEdges[he.Twin].Twin != h {
			return &TopologyError{HalfEdge: h, Op: op, Reason: "twin is not mutual"}
		}
		if he.Main == m.HalfEdges[he.Twin].Main {
			return &TopologyError{HalfEdge: h, Op: op, Reason: "twin pair must have one main half-edge"}
		}
		if m.HalfEdges[he.Next].Prev != h || m.HalfEdges[he.Prev].Next != h {
			return &TopologyError{HalfEdge: h, Op: op, Reason: "next/prev are not mutual"}
		}
		if m.HalfEdges[he.Next].Origin != m.Dest(h) {
			return &TopologyError{HalfEdge: h, Op: op, Reason: "next does not start at destination"}
		}
		if m.HalfEdges[he.Next].Cell != he.Cell {
			return &TopologyError{HalfEdge: h, Op: op,
				Reason: fmt.Sprintf("cycle switches subdomain %d -> %d", he.Cell,
					m.HalfEdges[he.Next].Cell)}
		}
	}
	return nil
}

func (m *Mesh) NumNodes() int {
	return len(m.Nodes)
}

func (m *Mesh) NumHalfEdges() int {
	return len(m.HalfEdges)
}

// NumFacets returns the number of input facets; refinement does not change it.
func (m *Mesh) NumFacets() int {
	return m.numFacets
}

// Dest returns the node the half-edge points to.
func (m *Mesh) Dest(h int) int {
	return m.HalfEdges[m.HalfEdges[h].Twin].Origin
}

// Vector returns Dest(h) - Origin(h).
func (m *Mesh) Vector(h int) r2.Point {
	return m.Nodes[m.Dest(h)].Sub(m.Nodes[m.HalfEdges[h].Origin])
}

func (m *Mesh) Length(h int) float64 {
	return m.Vector(h).Norm()
}

// Midpoint returns the midpoint of the half-edge.
func (m *Mesh) Midpoint(h int) r2.Point {
	return m.Nodes[m.HalfEdges[h].Origin].Add(m.Nodes[m.Dest(h)]).Mul(0.5)
}

// MainHalfEdgeFlags returns one flag per half-edge, true for the canonical half of each pair.
func (m *Mesh) MainHalfEdgeFlags() []bool {
	flags := make([]bool, len(m.HalfEdges))
	for h, he := range m.HalfEdges {
		flags[h] = he.Main
	}
	return flags
}

// BoundaryNodeFlags marks nodes touching the exterior or a hole.
func (m *Mesh) BoundaryNodeFlags() []bool {
	flags := make([]bool, len(m.Nodes))
	for h, he := range m.HalfEdges {
		if he.Cell <= 0 {
			flags[he.Origin] = true
			flags[m.Dest(h)] = true
		}
	}
	return flags
}

// Incoming returns, for each node, the half-edges that end at it.
func (m *Mesh) Incoming() [][]int {
	in := make([][]int, len(m.Nodes))
	for h := range m.HalfEdges {
		d := m.Dest(h)
		in[d] = append(in[d], h)
	}
	return in
}

// Subdomains returns the sorted distinct subdomain tags, exterior and holes included.
func (m *Mesh) Subdomains() []int {
	tags := lo.Uniq(lo.Map(m.HalfEdges, func(he HalfEdge, _ int) int { return he.Cell }))
	slices.Sort(tags)
	return tags
}

// SubdomainArea returns the signed area enclosed by the half-edges carrying id on their
// left. Holes traced clockwise subtract from it.
func (m *Mesh) SubdomainArea(id int) float64 {
	var area float64
	for h, he := range m.HalfEdges {
		if he.Cell != id {
			continue
		}
		area += m.Nodes[he.Origin].Cross(m.Nodes[m.Dest(h)])
	}
	return area / 2
}

// SubdomainAreas returns SubdomainArea for every positive subdomain.
func (m *Mesh) SubdomainAreas() map[int]float64 {
	areas := make(map[int]float64)
	for h, he := range m.HalfEdges {
		if he.Cell <= 0 {
			continue
		}
		areas[he.Cell] += m.Nodes[he.Origin].Cross(m.Nodes[m.Dest(h)]) / 2
	}
	return areas
}

// Bound returns the bounding rectangle of the nodes.
func (m *Mesh) Bound() r2.Rect {
	return r2.RectFromPoints(m.Nodes...)
}

func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Nodes:     slices.Clone(m.Nodes),
		HalfEdges: slices.Clone(m.HalfEdges),
		Fixed:     slices.Clone(m.Fixed),
		numFacets: m.numFacets,
	}
}
