// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package delaunay computes planar Delaunay triangulations as the lower convex hull of
// the points lifted onto the paraboloid z = x^2 + y^2.
package delaunay

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

const (
	defaultEps = 1e-12

	// Lifted heights are jittered by up to this much (in normalized coordinates) so that
	// cocircular points do not collapse into one hull face and get dropped by the hull.
	liftJitter  = 1e-9
	maxAttempts = 5
)

var (
	ErrInsufficientVertices = errors.New("delaunay: insufficient vertices for triangulation (minimum 3 required)")
	ErrDuplicateVertex      = errors.New("delaunay: duplicate vertex")
	ErrCollinear            = errors.New("delaunay: all vertices are collinear")
	ErrInconsistentHull     = errors.New("delaunay: vertex missing from lower hull")
)

type Triangulation struct {
	Vertices []r2.Point
	// NOTE: Vertices of every triangle are sorted CCW.
	Triangles [][3]int
	// NOTE: Sorted CCW around each vertex by triangle centroid angle.
	IncidentTriangleIndices []int
	IncidentTriangleOffsets []int
}

// Edge is an undirected triangulation edge. T[1] is -1 for edges on the convex hull.
type Edge struct {
	V [2]int
	T [2]int
}

func (dt *Triangulation) IncidentTriangles(vIdx int) []int {
	if vIdx < 0 || vIdx+1 >= len(dt.IncidentTriangleOffsets) {
		panic("IncidentTriangles: vIdx out of range")
	}
	start := dt.IncidentTriangleOffsets[vIdx]
	end := dt.IncidentTriangleOffsets[vIdx+1]
	return dt.IncidentTriangleIndices[start:end]
}

func (dt *Triangulation) TriangleVertices(tIdx int) (r2.Point, r2.Point, r2.Point) {
	if tIdx < 0 || tIdx >= len(dt.Triangles) {
		panic("TriangleVertices: tIdx out of bounds")
	}
	t := dt.Triangles[tIdx]
	return dt.Vertices[t[0]], dt.Vertices[t[1]], dt.Vertices[t[2]]
}

// Edges lists every edge once, in order of first appearance in Triangles.
func (dt *Triangulation) Edges() []Edge {
	index := make(map[[2]int]int, len(dt.Triangles)*3/2+1)
	edges := make([]Edge, 0, len(dt.Triangles)*3/2+1)
	for tIdx, t := range dt.Triangles {
		for j := range 3 {
			a, b := t[j], t[(j+1)%3]
			key := [2]int{min(a, b), max(a, b)}
			if e, ok := index[key]; ok {
				edges[e].T[1] = tIdx
				continue
			}
			index[key] = len(edges)
			edges = append(edges, Edge{V: [2]int{a, b}, T: [2]int{tIdx, -1}})
		}
	}
	return edges
}

// OnHull reports for each vertex whether it lies on the convex hull.
func (dt *Triangulation) OnHull() []bool {
	onHull := make([]bool, len(dt.Vertices))
	for _, e := range dt.Edges() {
		if e.T[1] < 0 {
			onHull[e.V[0]] = true
			onHull[e.V[1]] = true
		}
	}
	return onHull
}

type Options struct {
	Eps float64
}

type Option func(*Options) error

func WithEps(eps float64) Option {
	return func(o *Options) error {
		if eps <= 0 {
			return fmt.Errorf("WithEps: eps must be positive, got %v", eps)
		}
		o.Eps = eps
		return nil
	}
}

// NOTE: Vertices must be pairwise distinct and not all collinear.
func NewTriangulation(vertices []r2.Point, setters ...Option) (*Triangulation, error) {
	opts := Options{
		Eps: defaultEps,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	numVertices := len(vertices)
	if numVertices < 3 {
		return nil, ErrInsufficientVertices
	}
	seen := make(map[r2.Point]int, numVertices)
	for i, p := range vertices {
		if j, ok := seen[p]; ok {
			return nil, fmt.Errorf("%w: %d and %d at %v", ErrDuplicateVertex, j, i, p)
		}
		seen[p] = i
	}

	normalized := normalize(vertices)
	if collinear(normalized, opts.Eps) {
		return nil, ErrCollinear
	}

	var (
		triangles [][3]int
		err       error
	)
	for attempt := range maxAttempts {
		triangles, err = lowerHull(normalized, opts.Eps, int64(attempt))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	numTriangles := len(triangles)
	dt := &Triangulation{
		Vertices:                vertices,
		Triangles:               triangles,
		IncidentTriangleIndices: make([]int, numTriangles*3),
		IncidentTriangleOffsets: make([]int, numVertices+1),
	}

	for _, t := range triangles {
		for _, v := range t {
			dt.IncidentTriangleOffsets[v+1]++
		}
	}
	for i := range numVertices {
		dt.IncidentTriangleOffsets[i+1] += dt.IncidentTriangleOffsets[i]
	}

	nxt := make([]int, numVertices)
	copy(nxt, dt.IncidentTriangleOffsets[:numVertices])
	for i, t := range triangles {
		for _, v := range t {
			dt.IncidentTriangleIndices[nxt[v]] = i
			nxt[v]++
		}
	}

	for i := range numVertices {
		sortIncidentTriangleIndicesCCW(i, dt.IncidentTriangles(i), dt.Triangles, dt.Vertices)
	}

	return dt, nil
}

// lowerHull returns the CCW triangles of the lower convex hull of the lifted points.
func lowerHull(points []r2.Point, eps float64, seed int64) ([][3]int, error) {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	lifted := make([]r3.Vector, len(points))
	var centroid r3.Vector
	for i, p := range points {
		lifted[i] = r3.Vector{X: p.X, Y: p.Y, Z: p.X*p.X + p.Y*p.Y + liftJitter*random.Float64()}
		centroid = centroid.Add(lifted[i])
	}
	centroid = centroid.Mul(1 / float64(len(points)))

	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(lifted, true, true, eps)
	if len(ch.Indices)%3 != 0 {
		return nil, errors.New("delaunay: inconsistent number of indices returned from QuickHull")
	}

	used := make([]bool, len(points))
	triangles := make([][3]int, 0, len(ch.Indices)/6)
	for base := 0; base < len(ch.Indices); base += 3 {
		t := [3]int{ch.Indices[base], ch.Indices[base+1], ch.Indices[base+2]}
		a, b, c := lifted[t[0]], lifted[t[1]], lifted[t[2]]
		norm := b.Sub(a).Cross(c.Sub(a))
		if norm.Dot(a.Sub(centroid)) < 0 {
			norm = norm.Mul(-1)
		}
		if norm.Z >= -eps*norm.Norm() {
			continue
		}
		sortTriangleVerticesCCW(&t, points)
		triangles = append(triangles, t)
		for _, v := range t {
			used[v] = true
		}
	}

	if i := slices.Index(used, false); i >= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInconsistentHull, i)
	}
	return triangles, nil
}

// normalize maps the points into [-1, 1]^2 around the center of their bounding box.
func normalize(vertices []r2.Point) []r2.Point {
	bound := r2.RectFromPoints(vertices...)
	center := bound.Center()
	size := bound.Size()
	scale := max(size.X, size.Y) / 2
	if scale == 0 {
		scale = 1
	}
	out := make([]r2.Point, len(vertices))
	for i, p := range vertices {
		out[i] = p.Sub(center).Mul(1 / scale)
	}
	return out
}

func collinear(points []r2.Point, eps float64) bool {
	p0 := points[0]
	far, farDist := 0, 0.0
	for i, p := range points {
		if d := p.Sub(p0).Norm(); d > farDist {
			far, farDist = i, d
		}
	}
	if farDist == 0 {
		return true
	}
	dir := points[far].Sub(p0).Mul(1 / farDist)
	for _, p := range points {
		if math.Abs(dir.Cross(p.Sub(p0))) > eps {
			return false
		}
	}
	return true
}

func sortTriangleVerticesCCW(t *[3]int, v []r2.Point) {
	p0, p1, p2 := v[t[0]], v[t[1]], v[t[2]]
	if p1.Sub(p0).Cross(p2.Sub(p0)) < 0 {
		t[1], t[2] = t[2], t[1]
	}
}

func sortIncidentTriangleIndicesCCW(vIdx int, incidentTris []int, tris [][3]int, v []r2.Point) {
	center := v[vIdx]
	angle := func(tIdx int) float64 {
		t := tris[tIdx]
		d := v[t[0]].Add(v[t[1]]).Add(v[t[2]]).Mul(1.0 / 3).Sub(center)
		return math.Atan2(d.Y, d.X)
	}
	slices.SortFunc(incidentTris, func(a, b int) int {
		return cmp.Compare(angle(a), angle(b))
	})
}

func PrevVertex(t [3]int, vIdx int) int {
	switch vIdx {
	case t[0]:
		return t[2]
	case t[1]:
		return t[0]
	case t[2]:
		return t[1]
	}
	panic("PrevVertex: vIdx not in triangle")
}

func NextVertex(t [3]int, vIdx int) int {
	switch vIdx {
	case t[0]:
		return t[1]
	case t[1]:
		return t[2]
	case t[2]:
		return t[0]
	}
	panic("NextVertex: vIdx not in triangle")
}
