// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package domain provides ready-made planar domains described as straight-line graphs.
package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/2dChan/cvtpmesh/halfedge"
	"github.com/golang/geo/r2"
)

var ErrUnknownDomain = errors.New("domain: unknown domain")

type Domain struct {
	Name   string
	Nodes  []r2.Point
	Facets [][2]int
	// Subdomains[k] holds the {left, right} tags of Facets[k].
	Subdomains [][2]int
	// Fixed marks corner candidates; nil marks every node.
	Fixed []bool
	// Counts are suggested per-facet refinement counts; nil means uniform refinement.
	Counts []int
}

// Mesh builds the half-edge mesh of the domain.
func (d Domain) Mesh() (*halfedge.Mesh, error) {
	m, err := halfedge.FromEdges(d.Nodes, d.Facets, d.Subdomains, d.Fixed)
	if err != nil {
		return nil, fmt.Errorf("domain %s: %w", d.Name, err)
	}
	return m, nil
}

var builders = map[string]func() Domain{
	"square":      Square,
	"lshape":      LShape,
	"circle":      func() Domain { return Circle(20) },
	"circle_hole": func() Domain { return CircleHole(20) },
	"partition1":  Partition1,
	"partition2":  Partition2,
	"hole1":       Hole1,
	"hole2":       Hole2,
	"square2":     Square2,
	"triangle":    Triangle,
	"trapezoid":   Trapezoid,
	"hexagon":     Hexagon,
}

// Names returns the names accepted by ByName in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func ByName(name string) (Domain, error) {
	build, ok := builders[name]
	if !ok {
		return Domain{}, fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	return build(), nil
}

// Square is the unit square.
func Square() Domain {
	return Domain{
		Name:       "square",
		Nodes:      []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Facets:     [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
		Subdomains: [][2]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}},
	}
}

// LShape is [-1,1]x[0,1] joined with [-1,0]x[-1,0]. The midpoints of the long sides
// are not corners.
func LShape() Domain {
	return Domain{
		Name: "lshape",
		Nodes: []r2.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
			{X: -1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1},
		},
		Facets: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4},
			{4, 5}, {5, 6}, {6, 7}, {7, 0},
		},
		Subdomains: slices.Repeat([][2]int{{1, 0}}, 8),
		Fixed:      []bool{true, true, true, false, true, false, true, true},
	}
}

// Circle is a regular n-gon inscribed in the unit circle, without corners.
func Circle(n int) Domain {
	return Domain{
		Name:       "circle",
		Nodes:      polygon(n, 1, 1),
		Facets:     loop(0, n),
		Subdomains: slices.Repeat([][2]int{{1, 0}}, n),
		Fixed:      make([]bool, n),
	}
}

// CircleHole is the square [-2,2]^2 with a unit n-gon hole tagged -1.
func CircleHole(n int) Domain {
	nodes := []r2.Point{{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}}
	nodes = append(nodes, polygon(n, 1, -1)...)
	fixed := make([]bool, 4+n)
	for i := range 4 {
		fixed[i] = true
	}
	return Domain{
		Name:       "circle_hole",
		Nodes:      nodes,
		Facets:     slices.Concat(loop(0, 4), loop(4, n)),
		Subdomains: slices.Concat(slices.Repeat([][2]int{{1, 0}}, 4), slices.Repeat([][2]int{{1, -1}}, n)),
		Fixed:      fixed,
		Counts:     slices.Concat(slices.Repeat([]int{3}, 4), slices.Repeat([]int{1}, n)),
	}
}

// Partition1 splits the unit square into four triangles meeting at its center.
func Partition1() Domain {
	return Domain{
		Name:  "partition1",
		Nodes: []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0.5, Y: 0.5}},
		Facets: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{0, 4}, {4, 3}, {4, 1}, {4, 2},
		},
		Subdomains: [][2]int{
			{1, 0}, {2, 0}, {3, 0}, {4, 0},
			{4, 1}, {4, 3}, {2, 1}, {3, 2},
		},
	}
}

// Partition2 splits the unit square into four quarter squares.
func Partition2() Domain {
	return Domain{
		Name: "partition2",
		Nodes: []r2.Point{
			{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0.5},
			{X: 1, Y: 1}, {X: 0.5, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0.5},
			{X: 0.5, Y: 0.5},
		},
		Facets: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4},
			{4, 5}, {5, 6}, {6, 7}, {7, 0},
			{1, 8}, {8, 7}, {8, 3}, {8, 5},
		},
		Subdomains: [][2]int{
			{1, 0}, {2, 0}, {2, 0}, {3, 0},
			{3, 0}, {4, 0}, {4, 0}, {1, 0},
			{1, 2}, {1, 4}, {3, 2}, {4, 3},
		},
	}
}

// Hole1 is the unit square with the square hole [0.4,0.8]^2 tagged -1.
func Hole1() Domain {
	return Domain{
		Name: "hole1",
		Nodes: []r2.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
			{X: 0.4, Y: 0.4}, {X: 0.4, Y: 0.8}, {X: 0.8, Y: 0.8}, {X: 0.8, Y: 0.4},
		},
		Facets: slices.Concat(loop(0, 4), loop(4, 4)),
		Subdomains: [][2]int{
			{1, 0}, {1, 0}, {1, 0}, {1, 0},
			{1, -1}, {1, -1}, {1, -1}, {1, -1},
		},
		Counts: []int{3, 3, 3, 3, 2, 2, 2, 2},
	}
}

// Hole2 is the square [0,2]^2 with two square holes tagged -1 and -2.
func Hole2() Domain {
	return Domain{
		Name: "hole2",
		Nodes: []r2.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1},
			{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 1},
			{X: 0.4, Y: 0.4}, {X: 0.4, Y: 0.7}, {X: 0.7, Y: 0.7}, {X: 0.7, Y: 0.4},
			{X: 1.2, Y: 1.2}, {X: 1.2, Y: 1.5}, {X: 1.5, Y: 1.5}, {X: 1.5, Y: 1.2},
		},
		Facets: slices.Concat(loop(0, 8), loop(8, 4), loop(12, 4)),
		Subdomains: slices.Concat(
			slices.Repeat([][2]int{{1, 0}}, 8),
			slices.Repeat([][2]int{{1, -1}}, 4),
			slices.Repeat([][2]int{{1, -2}}, 4),
		),
	}
}

// Square2 is two disjoint unit squares tagged 1 and 2.
func Square2() Domain {
	return Domain{
		Name: "square2",
		Nodes: []r2.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
			{X: 2, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 2, Y: 1},
		},
		Facets: slices.Concat(loop(0, 4), loop(4, 4)),
		Subdomains: slices.Concat(
			slices.Repeat([][2]int{{1, 0}}, 4),
			slices.Repeat([][2]int{{2, 0}}, 4),
		),
	}
}

func Triangle() Domain {
	return Domain{
		Name:       "triangle",
		Nodes:      []r2.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}},
		Facets:     loop(0, 3),
		Subdomains: slices.Repeat([][2]int{{1, 0}}, 3),
	}
}

func Trapezoid() Domain {
	return Domain{
		Name:       "trapezoid",
		Nodes:      []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 3.8, Y: 4}, {X: 0.2, Y: 4}},
		Facets:     loop(0, 4),
		Subdomains: slices.Repeat([][2]int{{1, 0}}, 4),
	}
}

func Hexagon() Domain {
	return Domain{
		Name: "hexagon",
		Nodes: []r2.Point{
			{X: 0, Y: 0}, {X: 1, Y: -1}, {X: 2, Y: -1},
			{X: 3, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1},
		},
		Facets:     loop(0, 6),
		Subdomains: slices.Repeat([][2]int{{1, 0}}, 6),
	}
}

// polygon returns n points on a circle of radius r, counter-clockwise for dir 1 and
// clockwise for dir -1.
func polygon(n int, r, dir float64) []r2.Point {
	pts := make([]r2.Point, n)
	for i := range n {
		t := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = r2.Point{X: r * math.Cos(t), Y: dir * r * math.Sin(t)}
	}
	return pts
}

// loop returns the facets of a closed chain over nodes first..first+n-1.
func loop(first, n int) [][2]int {
	facets := make([][2]int, n)
	for i := range n {
		facets[i] = [2]int{first + i, first + (i+1)%n}
	}
	return facets
}
