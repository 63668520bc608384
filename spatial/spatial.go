// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package spatial provides a nearest-neighbour index over tagged planar points.
//
// Queries are safe for concurrent use as long as no Insert runs at the same time.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/r2"
)

const (
	minChildren = 8
	maxChildren = 32

	// Points are stored as tiny boxes; distances are always recomputed exactly.
	pointTol = 1e-12
)

var ErrLengthMismatch = errors.New("spatial: points and tags differ in length")

// Neighbor is the result of a nearest-neighbour query.
type Neighbor struct {
	Index int
	Point r2.Point
	Tag   int
	Dist  float64
}

type entry struct {
	idx int
	bb  rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.bb
}

type Index struct {
	tree   *rtreego.Rtree
	points []r2.Point
	tags   []int
}

func New() *Index {
	return &Index{
		tree: rtreego.NewTree(2, minChildren, maxChildren),
	}
}

// Build bulk-loads points with their tags. Index i of the result refers to points[i].
func Build(points []r2.Point, tags []int) (*Index, error) {
	if len(points) != len(tags) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(points), len(tags))
	}
	objs := make([]rtreego.Spatial, len(points))
	for i, p := range points {
		objs[i] = &entry{idx: i, bb: toRect(p)}
	}
	return &Index{
		tree:   rtreego.NewTree(2, minChildren, maxChildren, objs...),
		points: append([]r2.Point(nil), points...),
		tags:   append([]int(nil), tags...),
	}, nil
}

// Insert adds p and returns its index.
func (x *Index) Insert(p r2.Point, tag int) int {
	idx := len(x.points)
	x.points = append(x.points, p)
	x.tags = append(x.tags, tag)
	x.tree.Insert(&entry{idx: idx, bb: toRect(p)})
	return idx
}

func (x *Index) Len() int {
	return len(x.points)
}

func (x *Index) Point(i int) r2.Point {
	return x.points[i]
}

func (x *Index) Tag(i int) int {
	return x.tags[i]
}

// Nearest returns the stored point closest to p. ok is false for an empty index.
func (x *Index) Nearest(p r2.Point) (n Neighbor, ok bool) {
	obj := x.tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if obj == nil {
		return Neighbor{}, false
	}
	idx := obj.(*entry).idx
	q := x.points[idx]
	return Neighbor{
		Index: idx,
		Point: q,
		Tag:   x.tags[idx],
		Dist:  q.Sub(p).Norm(),
	}, true
}

// Query returns, for each of ps, the distance to and index of its nearest stored point.
// On an empty index distances are +Inf and indices -1.
func (x *Index) Query(ps []r2.Point) ([]float64, []int) {
	dists := make([]float64, len(ps))
	indices := make([]int, len(ps))
	for i, p := range ps {
		n, ok := x.Nearest(p)
		if !ok {
			dists[i], indices[i] = math.Inf(1), -1
			continue
		}
		dists[i], indices[i] = n.Dist, n.Index
	}
	return dists, indices
}

// Within returns the indices of stored points at distance at most r from p.
func (x *Index) Within(p r2.Point, r float64) []int {
	bb := rtreego.Point{p.X, p.Y}.ToRect(r)
	var out []int
	for _, obj := range x.tree.SearchIntersect(bb) {
		idx := obj.(*entry).idx
		if x.points[idx].Sub(p).Norm() <= r {
			out = append(out, idx)
		}
	}
	return out
}

func toRect(p r2.Point) rtreego.Rect {
	return rtreego.Point{p.X, p.Y}.ToRect(pointTol)
}
