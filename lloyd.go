// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cvtpmesh

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/2dChan/cvtpmesh/voronoi"
	"github.com/golang/geo/r2"
)

// LloydResult summarizes a run of Lloyd iterations.
type LloydResult struct {
	Iterations int
	Energy     float64
	Converged  bool
}

// BuildDiagram computes the Voronoi diagram of Points and records Start.
func (m *Mesher) BuildDiagram() (*voronoi.Diagram, error) {
	if err := m.expect("BuildDiagram", InteriorSeeded); err != nil {
		return nil, err
	}
	d, err := voronoi.NewDiagram(m.Points(), voronoi.WithEps(m.opts.Eps))
	if err != nil {
		return nil, fmt.Errorf("BuildDiagram: %w", err)
	}
	m.start = len(m.bnode) + len(m.cnode)
	m.setState(DiagramBuilt)
	return d, nil
}

// Relax moves every point at or after Start to the mean midpoint of its finite ridges
// and returns the rebuilt diagram.
func (m *Mesher) Relax(d *voronoi.Diagram) (*voronoi.Diagram, error) {
	if err := m.expect("Relax", DiagramBuilt, Relaxing); err != nil {
		return nil, err
	}
	if err := m.checkDiagram(d); err != nil {
		return nil, err
	}
	nd, err := relax(d, m.start, m.opts.Workers, m.opts.Eps, m.guard.allows)
	if err != nil {
		return nil, fmt.Errorf("Relax: %w", err)
	}
	m.setState(Relaxing)
	return nd, nil
}

// Lloyd relaxes up to iterations times. With tol > 0 it stops once the relative energy
// change drops to tol.
func (m *Mesher) Lloyd(d *voronoi.Diagram, iterations int, tol float64) (*voronoi.Diagram, LloydResult, error) {
	if iterations < 0 || tol < 0 {
		return nil, LloydResult{}, fmt.Errorf("%w: Lloyd: iterations %d, tol %v", ErrInvalidArgument,
			iterations, tol)
	}
	if err := m.expect("Lloyd", DiagramBuilt, Relaxing); err != nil {
		return nil, LloydResult{}, err
	}

	e, err := m.Energy(d)
	if err != nil {
		return nil, LloydResult{}, err
	}
	res := LloydResult{Energy: e.Energy}
	for k := range iterations {
		if d, err = m.Relax(d); err != nil {
			return nil, res, err
		}
		prev := res.Energy
		if e, err = m.Energy(d); err != nil {
			return nil, res, err
		}
		res.Iterations = k + 1
		res.Energy = e.Energy
		m.opts.Logger.Debug("cvtpmesh: lloyd", "iteration", res.Iterations, "energy", res.Energy)

		if tol > 0 && math.Abs(res.Energy-prev) <= tol*prev {
			res.Converged = true
			break
		}
	}

	if res.Converged {
		m.setState(Converged)
	} else {
		m.setState(IterationLimitReached)
	}
	return d, res, nil
}

func (m *Mesher) checkDiagram(d *voronoi.Diagram) error {
	if d == nil {
		return fmt.Errorf("%w: nil diagram", ErrInvalidArgument)
	}
	if want := len(m.bnode) + len(m.cnode) + m.inode.NumPoints(); d.NumCells() != want {
		return fmt.Errorf("%w: diagram has %d sites, mesher has %d generators",
			ErrInvalidArgument, d.NumCells(), want)
	}
	return nil
}

// relax accumulates ridge midpoints in parallel shards, reduces them on the calling
// goroutine and rebuilds the diagram. Points below start, points without a finite ridge
// and points whose new position allow rejects keep their position. A nil allow accepts
// every move.
func relax(d *voronoi.Diagram, start, workers int, eps float64,
	allow func(r2.Point) bool) (*voronoi.Diagram, error) {
	sum, valence := accumulateMidpoints(d, workers)

	points := slices.Clone(d.Sites)
	for i := start; i < len(points); i++ {
		if valence[i] == 0 {
			continue
		}
		p := sum[i].Mul(1 / float64(valence[i]))
		if allow == nil || allow(p) {
			points[i] = p
		}
	}
	return voronoi.NewDiagram(points, voronoi.WithEps(eps))
}

// accumulateMidpoints returns, per site, the sum of the midpoints of its finite ridges
// and their number.
func accumulateMidpoints(d *voronoi.Diagram, workers int) ([]r2.Point, []int) {
	n := d.NumCells()
	nr := d.NumRidges()
	workers = max(1, min(workers, nr))
	chunk := (nr + workers - 1) / max(1, workers)

	type shard struct {
		sum     []r2.Point
		valence []int
	}
	shards := make([]shard, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := shard{sum: make([]r2.Point, n), valence: make([]int, n)}
			for k := w * chunk; k < min(nr, (w+1)*chunk); k++ {
				if !d.RidgeIsFinite(k) {
					continue
				}
				mid := d.RidgeMidpoint(k)
				for _, p := range d.RidgePoints[k] {
					s.sum[p] = s.sum[p].Add(mid)
					s.valence[p]++
				}
			}
			shards[w] = s
		}()
	}
	wg.Wait()

	sum := make([]r2.Point, n)
	valence := make([]int, n)
	for _, s := range shards {
		for i := range n {
			sum[i] = sum[i].Add(s.sum[i])
			valence[i] += s.valence[i]
		}
	}
	return sum, valence
}
