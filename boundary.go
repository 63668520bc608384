// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cvtpmesh

import (
	"fmt"
	"math"
	"slices"

	"github.com/2dChan/cvtpmesh/spatial"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// Refine splits every boundary facet n times.
func (m *Mesher) Refine(n int) error {
	if err := m.expect("Refine", Uninitialized, Refined); err != nil {
		return err
	}
	if err := m.mesh.RefineUniform(n); err != nil {
		return fmt.Errorf("Refine: %w", err)
	}
	m.setState(Refined)
	return nil
}

// RefineByCount splits input facet k counts[k] times.
func (m *Mesher) RefineByCount(counts []int) error {
	if err := m.expect("RefineByCount", Uninitialized, Refined); err != nil {
		return err
	}
	if err := m.mesh.RefineByCount(counts); err != nil {
		return fmt.Errorf("RefineByCount: %w", err)
	}
	m.setState(Refined)
	return nil
}

type corner struct {
	halfEdge int
	// p is the merged generator, node + bisector.
	p        r2.Point
	bisector r2.Point
}

// Discretize places one generator per half-edge on the side of its cell, merges the
// generator pairs at sharp corners and mirrors exterior corners into CNode.
func (m *Mesher) Discretize() error {
	if err := m.expect("Discretize", Uninitialized, Refined); err != nil {
		return err
	}
	mesh := m.mesh
	nh := mesh.NumHalfEdges()

	h := make([]float64, nh)
	for e := range nh {
		h[e] = mesh.Length(e)
	}
	r := m.nodeRadii(h)
	corners := m.findCorners(r)

	// Neighbour radii are corrected after every corner is found so that all bisector
	// points use the uncorrected corner radii.
	for _, c := range corners {
		e := c.halfEdge
		next := mesh.HalfEdges[e].Next
		prevNode := mesh.HalfEdges[e].Origin
		nextNode := mesh.Dest(next)
		r[prevNode] = c.p.Sub(mesh.Nodes[prevNode]).Norm()
		r[nextNode] = c.p.Sub(mesh.Nodes[nextNode]).Norm()
	}
	guard, err := newNodeGuard(mesh.Nodes, r)
	if err != nil {
		return fmt.Errorf("Discretize: %w", err)
	}
	m.guard = guard

	gen := make([]r2.Point, nh)
	for e := range nh {
		o, d := mesh.HalfEdges[e].Origin, mesh.Dest(e)
		p, ok := edgeGenerator(mesh.Midpoint(e), mesh.Vector(e), r[o], r[d], h[e])
		if !ok {
			eq := max(r[o], r[d], m.opts.SpacingFactor*h[e])
			p, _ = edgeGenerator(mesh.Midpoint(e), mesh.Vector(e), eq, eq, h[e])
			m.warn(GeometryDegeneracy, fmt.Sprintf("half-edge %d", e),
				fmt.Errorf("%w: radii %.6g and %.6g do not meet over length %.6g", ErrDegenerate,
					r[o], r[d], h[e]))
		}
		gen[e] = p
	}

	index := make([]int, nh)
	for e := range index {
		index[e] = e
	}
	isCorner := make([]bool, nh)
	for _, c := range corners {
		isCorner[c.halfEdge] = true
	}
	m.cornerHalfEdges = make([]int, 0, len(corners))
	for _, c := range corners {
		e := c.halfEdge
		next := mesh.HalfEdges[e].Next
		m.cornerHalfEdges = append(m.cornerHalfEdges, e)
		gen[e] = c.p
		if isCorner[next] {
			m.warn(GeometryDegeneracy, fmt.Sprintf("half-edge %d", next),
				fmt.Errorf("%w: segment joins two sharp corners, refine the boundary", ErrDegenerate))
			continue
		}
		index[next] = e
	}

	keep := make([]int, nh)
	for e := range keep {
		keep[e] = -1
	}
	m.bnode = m.bnode[:0]
	m.bnodeSubdomain = m.bnodeSubdomain[:0]
	for e := range nh {
		if index[e] != e {
			continue
		}
		keep[e] = len(m.bnode)
		m.bnode = append(m.bnode, gen[e])
		m.bnodeSubdomain = append(m.bnodeSubdomain, mesh.HalfEdges[e].Cell)
	}
	m.hedge2bnode = make([]int, nh)
	for e := range nh {
		m.hedge2bnode[e] = keep[index[e]]
	}

	m.cnode = make([]r2.Point, 0, len(corners))
	m.cnodeSubdomain = make([]int, 0, len(corners))
	for _, c := range corners {
		he := mesh.HalfEdges[c.halfEdge]
		if he.Cell > 0 {
			continue
		}
		m.cnode = append(m.cnode, mesh.Nodes[mesh.Dest(c.halfEdge)].Sub(c.bisector))
		m.cnodeSubdomain = append(m.cnodeSubdomain, mesh.HalfEdges[he.Twin].Cell)
	}

	m.opts.Logger.Debug("cvtpmesh: discretized boundary",
		"halfEdges", nh, "corners", len(corners), "bnode", len(m.bnode), "cnode", len(m.cnode))
	m.setState(BoundaryDiscretized)
	return nil
}

// nodeRadii returns c times the mean length of the half-edges incident to each node.
func (m *Mesher) nodeRadii(h []float64) []float64 {
	mesh := m.mesh
	r := make([]float64, mesh.NumNodes())
	n := make([]int, mesh.NumNodes())
	for e, he := range mesh.HalfEdges {
		d := mesh.Dest(e)
		r[he.Origin] += h[e]
		r[d] += h[e]
		n[he.Origin]++
		n[d]++
	}
	for i := range r {
		if n[i] > 0 {
			r[i] *= m.opts.SpacingFactor / float64(n[i])
		}
	}
	return r
}

// findCorners checks every fixed node on both sides and returns the sharp ones.
func (m *Mesher) findCorners(r []float64) []corner {
	mesh := m.mesh
	theta := s1.Angle(m.opts.CornerAngle) * s1.Degree
	incoming := mesh.Incoming()

	var corners []corner
	for node, fixed := range mesh.Fixed {
		if !fixed {
			continue
		}
		p1 := mesh.Nodes[node]
		for _, e := range incoming[node] {
			next := mesh.HalfEdges[e].Next
			p0 := mesh.Nodes[mesh.HalfEdges[e].Origin]
			p2 := mesh.Nodes[mesh.Dest(next)]
			v0 := p2.Sub(p1)
			v1 := p0.Sub(p1)

			a := cornerAngle(v0, v1)
			if a >= theta {
				continue
			}
			bisector := v0.Normalize().Add(v1.Normalize())
			if a <= 0 || bisector.Norm() <= m.opts.Eps {
				m.warn(GeometryDegeneracy, fmt.Sprintf("node %d", node),
					fmt.Errorf("%w: corner angle %.6g degrees", ErrDegenerate, a.Degrees()))
				continue
			}
			bisector = bisector.Normalize().Mul(r[node])
			corners = append(corners, corner{
				halfEdge: e,
				p:        p1.Add(bisector),
				bisector: bisector,
			})
		}
	}
	return corners
}

// cornerAngle returns the counter-clockwise angle from v0 to v1 in [0, 2π). For a
// half-edge ending at a corner, with v0 pointing along its successor and v1 back along
// the half-edge, this is the angle of the corner on the side of the cell.
func cornerAngle(v0, v1 r2.Point) s1.Angle {
	a := math.Atan2(v0.Cross(v1), v0.Dot(v1))
	if a < 0 {
		a += 2 * math.Pi
	}
	return s1.Angle(a)
}

// edgeGenerator returns the point on the left of the edge at distance r0 from its
// origin and r1 from its destination. ok is false when the circles do not meet.
func edgeGenerator(center, v r2.Point, r0, r1, h float64) (r2.Point, bool) {
	h2 := h * h
	dr := r0*r0 - r1*r1
	disc := 2*(r0*r0+r1*r1)/h2 - dr*dr/(h2*h2) - 1
	if disc < 0 || h == 0 {
		return r2.Point{}, false
	}
	c0 := 0.5 * dr / h2
	c1 := 0.5 * math.Sqrt(disc)
	return center.Add(v.Mul(c0)).Add(v.Ortho().Mul(c1)), true
}

// nodeGuard keeps movable points out of the disk of radius r around every boundary
// node. Outside those disks each node stays a Voronoi vertex and each facet stays on the
// ridge of its generator pair.
type nodeGuard struct {
	index  *spatial.Index
	radius []float64
	rMax   float64
}

func newNodeGuard(nodes []r2.Point, radius []float64) (*nodeGuard, error) {
	index, err := spatial.Build(nodes, make([]int, len(nodes)))
	if err != nil {
		return nil, err
	}
	return &nodeGuard{
		index:  index,
		radius: slices.Clone(radius),
		rMax:   slices.Max(append([]float64{0}, radius...)),
	}, nil
}

// allows reports whether p lies strictly outside every node disk.
func (g *nodeGuard) allows(p r2.Point) bool {
	for _, i := range g.index.Within(p, g.rMax) {
		if g.index.Point(i).Sub(p).Norm() <= g.radius[i] {
			return false
		}
	}
	return true
}
