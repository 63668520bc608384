// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cvtpmesh

import (
	"fmt"
	"iter"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/2dChan/cvtpmesh/spatial"
	"github.com/2dChan/cvtpmesh/utils"
	"github.com/golang/geo/r2"
	"github.com/samber/lo"
)

const (
	// Minimum accepted distance in units of the representative edge length.
	spacingRatio = 0.7
	// Shrink factor for the cell size when the target count is too small, and for the
	// spacing after an exhausted draw budget.
	shrink = 0.9
)

// InteriorNodes maps subdomain ids to their interior points and iterates in ascending
// id order.
type InteriorNodes struct {
	ids    []int
	points map[int][]r2.Point
}

func NewInteriorNodes() *InteriorNodes {
	return &InteriorNodes{points: make(map[int][]r2.Point)}
}

// Set stores points for id, replacing earlier ones.
func (n *InteriorNodes) Set(id int, points []r2.Point) {
	if i, found := slices.BinarySearch(n.ids, id); !found {
		n.ids = slices.Insert(n.ids, i, id)
	}
	n.points[id] = points
}

func (n *InteriorNodes) Get(id int) ([]r2.Point, bool) {
	p, ok := n.points[id]
	return p, ok
}

// IDs returns the subdomain ids in ascending order.
func (n *InteriorNodes) IDs() []int {
	return slices.Clone(n.ids)
}

// Len returns the number of subdomains.
func (n *InteriorNodes) Len() int {
	return len(n.ids)
}

// NumPoints returns the number of points over all subdomains.
func (n *InteriorNodes) NumPoints() int {
	return lo.SumBy(n.ids, func(id int) int { return len(n.points[id]) })
}

func (n *InteriorNodes) All() iter.Seq2[int, []r2.Point] {
	return func(yield func(int, []r2.Point) bool) {
		for _, id := range n.ids {
			if !yield(id, n.points[id]) {
				return
			}
		}
	}
}

// Flatten concatenates the points in id order and returns the id of each point.
func (n *InteriorNodes) Flatten() ([]r2.Point, []int) {
	points := make([]r2.Point, 0, n.NumPoints())
	tags := make([]int, 0, cap(points))
	for id, ps := range n.All() {
		points = append(points, ps...)
		for range ps {
			tags = append(tags, id)
		}
	}
	return points, tags
}

// InteriorStats describes the sampling of one subdomain.
type InteriorStats struct {
	Subdomain int
	Area      float64
	// Target is the number of interior points asked for.
	Target   int
	Accepted int
	// Spacing is the minimum distance in force when sampling stopped.
	Spacing float64
	Retries int
	// Draws counts candidates over all attempts.
	Draws int
}

type seedResult struct {
	points   []r2.Point
	stats    InteriorStats
	warnings []Warning
}

// SeedInterior fills every positive subdomain with points by rejection sampling.
// Subdomains are sampled concurrently, each from its own seeded source, so the result
// does not depend on the number of workers.
func (m *Mesher) SeedInterior() error {
	if err := m.expect("SeedInterior", BoundaryDiscretized); err != nil {
		return err
	}

	nh := m.mesh.NumHalfEdges()
	hRep := lo.SumBy(lo.Range(nh), m.mesh.Length) / float64(nh)
	cellArea := 3 * math.Sqrt(3) / 8 * hRep * hRep

	bd := slices.Concat(m.bnode, m.cnode)
	bdTags := slices.Concat(m.bnodeSubdomain, m.cnodeSubdomain)
	index, err := spatial.Build(bd, bdTags)
	if err != nil {
		return fmt.Errorf("SeedInterior: %w", err)
	}

	areas := m.mesh.SubdomainAreas()
	ids := lo.Keys(areas)
	slices.Sort(ids)

	results := make([]seedResult, len(ids))
	sem := make(chan struct{}, m.opts.Workers)
	var wg sync.WaitGroup
	for i, id := range ids {
		own := lo.Filter(bd, func(_ r2.Point, k int) bool { return bdTags[k] == id })
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = m.seedSubdomain(id, areas[id], own, index, hRep, cellArea)
		}()
	}
	wg.Wait()

	m.stats = make([]InteriorStats, 0, len(ids))
	for i, id := range ids {
		res := results[i]
		for _, w := range res.warnings {
			m.warn(w.Kind, w.Entity, w.Err)
		}
		if res.points == nil {
			continue
		}
		m.inode.Set(id, res.points)
		m.stats = append(m.stats, res.stats)
		m.opts.Logger.Debug("cvtpmesh: seeded subdomain", "subdomain", id,
			"target", res.stats.Target, "accepted", res.stats.Accepted,
			"spacing", res.stats.Spacing, "retries", res.stats.Retries)
	}

	m.setState(InteriorSeeded)
	return nil
}

// seedSubdomain runs on its own goroutine and must only read shared state.
func (m *Mesher) seedSubdomain(id int, area float64, boundary []r2.Point, index *spatial.Index,
	hRep, cellArea float64) seedResult {
	entity := fmt.Sprintf("subdomain %d", id)
	if area <= m.opts.Eps || len(boundary) == 0 || hRep <= 0 {
		return seedResult{warnings: []Warning{{
			Kind:   GeometryDegeneracy,
			Entity: entity,
			Err: fmt.Errorf("%w: area %.6g with %d boundary generators", ErrDegenerate, area,
				len(boundary)),
		}}}
	}

	n0 := len(boundary)
	n := int(area / cellArea)
	for n <= n0 {
		cellArea *= shrink
		n = int(area / cellArea)
	}
	target := n - n0

	stats := InteriorStats{
		Subdomain: id,
		Area:      area,
		Target:    target,
		Spacing:   spacingRatio * hRep,
	}
	maxDraws := m.opts.MaxDraws
	if maxDraws == 0 {
		maxDraws = drawsPerPoint * target
	}

	//nolint:gosec
	random := rand.New(rand.NewSource(m.opts.Seed + int64(id)))
	bound := r2.RectFromPoints(boundary...)
	accepted := spatial.New()
	points := make([]r2.Point, 0, target)
	draws := 0

	var warnings []Warning
	for len(points) < target {
		if draws >= maxDraws {
			if stats.Retries >= m.opts.MaxRetries {
				warnings = append(warnings, Warning{
					Kind:   SamplingExhaustion,
					Entity: entity,
					Err: fmt.Errorf("%w: accepted %d of %d points", ErrSamplingExhausted,
						len(points), target),
				})
				break
			}
			stats.Retries++
			stats.Spacing *= shrink
			draws = 0
		}

		batch := min(target-len(points), maxDraws-draws)
		draws += batch
		stats.Draws += batch
		for _, q := range utils.RandomPointsInRect(random, batch, bound) {
			nb, _ := index.Nearest(q)
			if nb.Tag != id || nb.Dist <= stats.Spacing || !m.guard.allows(q) {
				continue
			}
			if ni, ok := accepted.Nearest(q); ok && ni.Dist <= stats.Spacing {
				continue
			}
			accepted.Insert(q, id)
			points = append(points, q)
		}
	}

	stats.Accepted = len(points)
	return seedResult{points: points, stats: stats, warnings: warnings}
}
