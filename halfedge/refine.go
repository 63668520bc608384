// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package halfedge

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// RefineMarked splits every marked twin pair at its midpoint. Marking either half of a
// pair splits the pair once. Each split appends one unfixed node and two half-edges;
// the existing pair keeps its indices and now covers the first half of the facet.
func (m *Mesh) RefineMarked(marked []bool) error {
	nh := len(m.HalfEdges)
	if len(marked) != nh {
		return fmt.Errorf("%w: %d flags for %d half-edges", ErrInvalidInput, len(marked), nh)
	}

	for h := range nh {
		if !m.HalfEdges[h].Main {
			continue
		}
		if marked[h] || marked[m.HalfEdges[h].Twin] {
			m.split(h)
		}
	}

	return m.Validate("refine")
}

func (m *Mesh) split(h int) {
	t := m.HalfEdges[h].Twin
	mid := len(m.Nodes)
	m.Nodes = append(m.Nodes, m.Midpoint(h))
	m.Fixed = append(m.Fixed, false)

	h2 := len(m.HalfEdges)
	t2 := h2 + 1
	m.HalfEdges = append(m.HalfEdges,
		HalfEdge{Origin: mid, Twin: t, Cell: m.HalfEdges[h].Cell, Main: m.HalfEdges[h].Main,
			Facet: m.HalfEdges[h].Facet},
		HalfEdge{Origin: mid, Twin: h, Cell: m.HalfEdges[t].Cell, Main: m.HalfEdges[t].Main,
			Facet: m.HalfEdges[t].Facet},
	)

	hn := m.HalfEdges[h].Next
	m.HalfEdges[h].Next = h2
	m.HalfEdges[h2].Prev = h
	m.HalfEdges[h2].Next = hn
	m.HalfEdges[hn].Prev = h2

	tn := m.HalfEdges[t].Next
	m.HalfEdges[t].Next = t2
	m.HalfEdges[t2].Prev = t
	m.HalfEdges[t2].Next = tn
	m.HalfEdges[tn].Prev = t2

	m.HalfEdges[h].Twin = t2
	m.HalfEdges[t].Twin = h2
}

// RefineUniform splits every facet n times, producing 2^n segments per input facet.
func (m *Mesh) RefineUniform(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative refinement count %d", ErrInvalidInput, n)
	}
	for range n {
		if err := m.RefineMarked(m.MainHalfEdgeFlags()); err != nil {
			return err
		}
	}
	return nil
}

// RefineByCount splits input facet k counts[k] times. Facets are processed in batches
// of equal count, smallest first; children inherit the count of their facet.
func (m *Mesh) RefineByCount(counts []int) error {
	if len(counts) != m.numFacets {
		return fmt.Errorf("%w: %d counts for %d facets", ErrInvalidInput, len(counts),
			m.numFacets)
	}
	if slices.ContainsFunc(counts, func(c int) bool { return c < 0 }) {
		return fmt.Errorf("%w: negative refinement count", ErrInvalidInput)
	}

	batches := lo.Uniq(lo.Filter(counts, func(c int, _ int) bool { return c > 0 }))
	slices.Sort(batches)
	for _, c := range batches {
		for range c {
			marked := make([]bool, len(m.HalfEdges))
			for h, he := range m.HalfEdges {
				marked[h] = he.Main && counts[he.Facet] == c
			}
			if err := m.RefineMarked(marked); err != nil {
				return err
			}
		}
	}
	return nil
}
