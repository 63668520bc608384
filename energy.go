// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cvtpmesh

import (
	"math"

	"github.com/2dChan/cvtpmesh/voronoi"
	"github.com/golang/geo/r2"
)

// EnergyResult holds the CVT energy of a diagram. Areas and Gradient are aligned with
// Points, the indices of the sites taken into account.
type EnergyResult struct {
	Energy   float64
	Gradient []r2.Point
	Areas    []float64
	Points   []int
}

// Energy returns the sum over sites of area times squared distance to the ridge-midpoint
// centroid. Generators of exterior and hole half-edges are left out.
func (m *Mesher) Energy(d *voronoi.Diagram) (EnergyResult, error) {
	if err := m.expect("Energy", DiagramBuilt, Relaxing, Converged, IterationLimitReached,
		PolygonMeshExported); err != nil {
		return EnergyResult{}, err
	}
	if err := m.checkDiagram(d); err != nil {
		return EnergyResult{}, err
	}

	excluded := make([]bool, d.NumCells())
	for e, he := range m.mesh.HalfEdges {
		if he.Cell <= 0 {
			excluded[m.hedge2bnode[e]] = true
		}
	}
	return energy(d, excluded), nil
}

func energy(d *voronoi.Diagram, excluded []bool) EnergyResult {
	n := d.NumCells()
	area := make([]float64, n)
	sum := make([]r2.Point, n)
	valence := make([]int, n)
	for k := range d.NumRidges() {
		if !d.RidgeIsFinite(k) {
			continue
		}
		rv := d.RidgeVertices[k]
		v0, v1 := d.Vertices[rv[0]], d.Vertices[rv[1]]
		mid := v0.Add(v1).Mul(0.5)
		for _, p := range d.RidgePoints[k] {
			area[p] += heron(d.Sites[p], v0, v1)
			sum[p] = sum[p].Add(mid)
			valence[p]++
		}
	}

	var res EnergyResult
	for i := range n {
		if excluded[i] {
			continue
		}
		p := d.Sites[i]
		c := p
		if valence[i] > 0 {
			c = sum[i].Mul(1 / float64(valence[i]))
		}
		diff := p.Sub(c)
		res.Energy += diff.Dot(diff) * area[i]
		res.Gradient = append(res.Gradient, diff.Mul(2*area[i]))
		res.Areas = append(res.Areas, area[i])
		res.Points = append(res.Points, i)
	}
	return res
}

// heron returns the area of triangle abc from its side lengths.
func heron(a, b, c r2.Point) float64 {
	l0 := b.Sub(c).Norm()
	l1 := a.Sub(b).Norm()
	l2 := a.Sub(c).Norm()
	s := (l0 + l1 + l2) / 2
	// Clamped: rounding makes the product slightly negative for flat triangles.
	return math.Sqrt(max(0, s*(s-l0)*(s-l1)*(s-l2)))
}
