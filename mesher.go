// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package cvtpmesh generates polygonal meshes of planar domains from centroidal
// Voronoi tessellations.
//
// A Mesher walks a fixed pipeline: optional boundary refinement, boundary
// discretization into generator points, interior seeding by rejection sampling,
// Voronoi construction and Lloyd relaxation, and finally export of the bounded cells
// as a polygon mesh. Each step may run once and only after its predecessor.
package cvtpmesh

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/2dChan/cvtpmesh/halfedge"
	"github.com/golang/geo/r2"
)

type State int

const (
	Uninitialized State = iota
	Refined
	BoundaryDiscretized
	InteriorSeeded
	DiagramBuilt
	Relaxing
	Converged
	IterationLimitReached
	PolygonMeshExported
)

var stateNames = [...]string{
	Uninitialized:         "uninitialized",
	Refined:               "refined",
	BoundaryDiscretized:   "boundary discretized",
	InteriorSeeded:        "interior seeded",
	DiagramBuilt:          "diagram built",
	Relaxing:              "relaxing",
	Converged:             "converged",
	IterationLimitReached: "iteration limit reached",
	PolygonMeshExported:   "polygon mesh exported",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

type Mesher struct {
	mesh  *halfedge.Mesh
	opts  Options
	state State

	bnode           []r2.Point
	bnodeSubdomain  []int
	cnode           []r2.Point
	cnodeSubdomain  []int
	inode           *InteriorNodes
	hedge2bnode     []int
	cornerHalfEdges []int
	guard           *nodeGuard
	stats           []InteriorStats
	start           int

	warnings []Warning
}

// New returns a mesher over a copy of mesh. The Fixed flags of mesh mark the nodes
// checked for sharp corners.
func New(mesh *halfedge.Mesh, setters ...Option) (*Mesher, error) {
	if mesh == nil {
		return nil, fmt.Errorf("%w: nil mesh", ErrInvalidArgument)
	}
	opts := defaultOptions()
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	return &Mesher{
		mesh:  mesh.Clone(),
		opts:  opts,
		inode: NewInteriorNodes(),
	}, nil
}

func (m *Mesher) State() State {
	return m.state
}

func (m *Mesher) Options() Options {
	return m.opts
}

// Mesh returns the boundary mesh owned by the mesher. It must not be modified.
func (m *Mesher) Mesh() *halfedge.Mesh {
	return m.mesh
}

// BNode returns the boundary generators in half-edge order after corner merging.
func (m *Mesher) BNode() []r2.Point {
	return m.bnode
}

// CNode returns the generators mirrored in from sharp exterior and hole corners.
func (m *Mesher) CNode() []r2.Point {
	return m.cnode
}

func (m *Mesher) INode() *InteriorNodes {
	return m.inode
}

// Hedge2BNode maps every half-edge to the index of its generator in BNode.
func (m *Mesher) Hedge2BNode() []int {
	return m.hedge2bnode
}

// CornerHalfEdges lists the half-edges ending at a sharp corner.
func (m *Mesher) CornerHalfEdges() []int {
	return m.cornerHalfEdges
}

func (m *Mesher) InteriorStats() []InteriorStats {
	return m.stats
}

// Start returns the index of the first movable point in the diagram point order.
func (m *Mesher) Start() int {
	return m.start
}

// Points returns all generators in diagram order: BNode, CNode, then interior points
// by ascending subdomain id.
func (m *Mesher) Points() []r2.Point {
	inner, _ := m.inode.Flatten()
	return slices.Concat(m.bnode, m.cnode, inner)
}

// PointSubdomains returns the subdomain tag of every generator in Points order.
func (m *Mesher) PointSubdomains() []int {
	_, tags := m.inode.Flatten()
	return slices.Concat(m.bnodeSubdomain, m.cnodeSubdomain, tags)
}

func (m *Mesher) Warnings() []Warning {
	return m.warnings
}

// Err joins all warnings into one error, or returns nil if there are none.
func (m *Mesher) Err() error {
	errs := make([]error, len(m.warnings))
	for i, w := range m.warnings {
		errs[i] = w
	}
	return errors.Join(errs...)
}

func (m *Mesher) warn(kind WarningKind, entity string, err error) {
	w := Warning{Kind: kind, Entity: entity, Err: err}
	m.warnings = append(m.warnings, w)
	m.opts.Logger.Warn("cvtpmesh: "+kind.String(), "entity", entity, "err", err)
}

// expect fails unless the mesher is in one of the given states.
func (m *Mesher) expect(op string, states ...State) error {
	if slices.Contains(states, m.state) {
		return nil
	}
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.String()
	}
	return fmt.Errorf("%w: %s in state %q, want one of [%s]", ErrInvalidState, op, m.state,
		strings.Join(names, ", "))
}

func (m *Mesher) setState(s State) {
	m.opts.Logger.Debug("cvtpmesh: state", "from", m.state.String(), "to", s.String())
	m.state = s
}
