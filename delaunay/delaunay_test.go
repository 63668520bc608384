// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package delaunay

import (
	"errors"
	"fmt"
	"testing"

	"github.com/2dChan/cvtpmesh/utils"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/markus-wa/quickhull-go/v2"
)

// TriangulationOptions

func TestWithEps(t *testing.T) {
	tests := []struct {
		name    string
		eps     float64
		wantErr bool
	}{
		{"eps positive", 0.5, false},
		{"eps zero", 0, true},
		{"eps negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &Options{Eps: defaultEps}
			opt := WithEps(tt.eps)
			err := opt(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithEps(%v) error = %v, wantErr %v", tt.eps, err, tt.wantErr)
			}
			if err == nil && opts.Eps != tt.eps {
				t.Errorf("WithEps(%v) opts.Eps = %v, want %v", tt.eps, opts.Eps, tt.eps)
			}
		})
	}
}

// Triangulation

func TestNewTriangulation_WithEps(t *testing.T) {
	points := utils.GenerateRandomPoints(10, 0)
	tests := []struct {
		name    string
		eps     float64
		wantErr bool
	}{
		{"eps default", defaultEps, false},
		{"eps zero", 0, true},
		{"eps negative", -0.01, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangulation(points, WithEps(tt.eps))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTriangulation(..., WithEps(%v)) error = %v, wantErr %v", tt.eps, err,
					tt.wantErr)
			}
		})
	}
}

func TestNewTriangulation_DegenerateInput(t *testing.T) {
	tests := []struct {
		name     string
		vertices []r2.Point
		want     error
	}{
		{
			"too few",
			[]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}},
			ErrInsufficientVertices,
		},
		{
			"collinear",
			[]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}},
			ErrCollinear,
		},
		{
			"duplicate",
			[]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}},
			ErrDuplicateVertex,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangulation(tt.vertices)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewTriangulation(...) error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewTriangulation_SquareWithCenter(t *testing.T) {
	vertices := []r2.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0.5, Y: 0.5},
	}
	dt, err := NewTriangulation(vertices)
	if err != nil {
		t.Fatalf("NewTriangulation(...) error = %v, want nil", err)
	}
	if got := len(dt.Triangles); got != 4 {
		t.Errorf("len(dt.Triangles) = %v, want 4", got)
	}
	if got := len(dt.IncidentTriangles(4)); got != 4 {
		t.Errorf("len(dt.IncidentTriangles(4)) = %v, want 4", got)
	}

	edges := dt.Edges()
	if got := len(edges); got != 8 {
		t.Errorf("len(dt.Edges()) = %v, want 8", got)
	}
	hull := 0
	for _, e := range edges {
		if e.T[1] < 0 {
			hull++
		}
	}
	if hull != 4 {
		t.Errorf("hull edges = %v, want 4", hull)
	}

	want := []bool{true, true, true, true, false}
	if diff := cmp.Diff(want, dt.OnHull()); diff != "" {
		t.Errorf("dt.OnHull() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTriangulation_EulerFormula(t *testing.T) {
	for _, n := range []int{4, 10, 100, 1000} {
		t.Run(fmt.Sprintf("N%d", n), func(t *testing.T) {
			dt := mustNewTriangulation(t, n)
			h := 0
			for _, on := range dt.OnHull() {
				if on {
					h++
				}
			}
			if want, got := 2*n-2-h, len(dt.Triangles); got != want {
				t.Errorf("len(dt.Triangles) = %v, want %v", got, want)
			}
			if want, got := 3*n-3-h, len(dt.Edges()); got != want {
				t.Errorf("len(dt.Edges()) = %v, want %v", got, want)
			}
		})
	}
}

func TestNewTriangulation_VerifyTrianglesCCW(t *testing.T) {
	dt := mustNewTriangulation(t, 100)

	for i := range dt.Triangles {
		a, b, c := dt.TriangleVertices(i)
		if b.Sub(a).Cross(c.Sub(a)) <= 0 {
			t.Errorf("dt.Triangles[%d] vertices are not sorted in CCW", i)
		}
	}
}

func TestNewTriangulation_EmptyCircumcircle(t *testing.T) {
	dt := mustNewTriangulation(t, 300)

	for i, tri := range dt.Triangles {
		a, b, c := dt.TriangleVertices(i)
		center := circumcenter(a, b, c)
		r := center.Sub(a).Norm()
		for v, p := range dt.Vertices {
			if v == tri[0] || v == tri[1] || v == tri[2] {
				continue
			}
			if d := center.Sub(p).Norm(); d < r-1e-7 {
				t.Errorf("vertex %d lies inside circumcircle of triangle %d (%v < %v)", v, i, d, r)
			}
		}
	}
}

func TestNewTriangulation_Cocircular(t *testing.T) {
	// Two rows of a regular grid: every adjacent quad is cocircular.
	var vertices []r2.Point
	for i := range 16 {
		vertices = append(vertices, r2.Point{X: float64(i) / 15, Y: 0})
		vertices = append(vertices, r2.Point{X: float64(i) / 15, Y: 0.1})
		vertices = append(vertices, r2.Point{X: float64(i) / 15, Y: -0.1})
	}
	dt, err := NewTriangulation(vertices)
	if err != nil {
		t.Fatalf("NewTriangulation(...) error = %v, want nil", err)
	}
	var area float64
	for i := range dt.Triangles {
		a, b, c := dt.TriangleVertices(i)
		area += b.Sub(a).Cross(c.Sub(a)) / 2
	}
	if want := 0.2; area < want-1e-9 || area > want+1e-9 {
		t.Errorf("triangulated area = %v, want %v", area, want)
	}
}

func TestNewTriangulation_VerifyIncidentTrianglesSorted(t *testing.T) {
	dt := mustNewTriangulation(t, 100)
	onHull := dt.OnHull()

	for vIdx := range len(dt.Vertices) {
		if onHull[vIdx] {
			continue
		}
		incidentTris := dt.IncidentTriangles(vIdx)
		n := len(incidentTris)
		for i := range n {
			ct := dt.Triangles[incidentTris[i]]
			nt := dt.Triangles[incidentTris[(i+1)%n]]

			// ct ends at the edge where nt begins.
			if PrevVertex(ct, vIdx) != NextVertex(nt, vIdx) {
				t.Errorf("dt.IncidentTriangles(%d) triangles %d and %d are not CCW neighbors", vIdx,
					i, (i+1)%n)
			}
		}
	}
}

func TestTriangulation_IncidentTriangles(t *testing.T) {
	assertPanic := func(dt *Triangulation, in int) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("dt.IncidentTriangles(%d) did not panic, want panic", in)
			}
		}()
		dt.IncidentTriangles(in)
	}

	dt := &Triangulation{
		Vertices:                nil,
		Triangles:               nil,
		IncidentTriangleIndices: []int{0, 1, 1, 1, 2},
		IncidentTriangleOffsets: []int{0, 2, 3, 5},
	}

	tests := []struct {
		name string
		in   int
		want []int
	}{
		{"index 0", 0, []int{0, 1}},
		{"index 1", 1, []int{1}},
		{"index 2", 2, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dt.IncidentTriangles(tt.in)
			if !cmp.Equal(tt.want, got) {
				t.Errorf("dt.IncidentTriangles(%d) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	assertPanic(dt, -1)
	assertPanic(dt, len(dt.IncidentTriangleOffsets))
}

func TestTriangulation_TriangleVertices(t *testing.T) {
	assertPanic := func(dt *Triangulation, in int) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("dt.TriangleVertices(%d) did not panic, want panic", in)
			}
		}()
		dt.TriangleVertices(in)
	}

	points := utils.GenerateRandomPoints(3, 0)
	dt := &Triangulation{
		Vertices: []r2.Point{points[0], points[1], points[2]},
		Triangles: [][3]int{
			{0, 1, 2},
		},
	}

	want := [3]r2.Point{points[0], points[1], points[2]}
	a, b, c := dt.TriangleVertices(0)
	got := [3]r2.Point{a, b, c}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dt.TriangleVertices(0) mismatch (-want +got):\n%s", diff)
	}

	assertPanic(dt, -1)
	assertPanic(dt, len(dt.Triangles))
}

func TestSortTriangleVerticesCCW(t *testing.T) {
	verts := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	want1 := [3]int{0, 1, 2}
	tri1 := [3]int{0, 1, 2}
	sortTriangleVerticesCCW(&tri1, verts)
	if diff := cmp.Diff(want1, tri1); diff != "" {
		t.Errorf("sortTriangleVerticesCCW([0 1 2], verts) mismatch (-want +got):\n%s", diff)
	}

	want2 := [3]int{0, 1, 2}
	tri2 := [3]int{0, 2, 1}
	sortTriangleVerticesCCW(&tri2, verts)
	if diff := cmp.Diff(want2, tri2); diff != "" {
		t.Errorf("sortTriangleVerticesCCW([0 2 1], verts) mismatch (-want +got):\n%s", diff)
	}
}

func TestSortIncidentTriangleIndicesCCW(t *testing.T) {
	verts := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}
	tris := [][3]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 4},
		{0, 4, 1},
	}
	expected := []int{0, 1, 2, 3}
	incident := []int{1, 3, 2, 0}
	sortIncidentTriangleIndicesCCW(0, incident, tris, verts)
	if !cyclicEqual(incident, expected) {
		t.Errorf("sortIncidentTriangleIndicesCCW(...) incident = %v, want %v", incident, expected)
	}
}

// Triangle Prev/Next vertex

func TestPrevVertex(t *testing.T) {
	assertPanic := func(tri [3]int, in int) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("PrevVertex(%v, %d) did not panic, want panic", tri, in)
			}
		}()
		PrevVertex(tri, in)
	}

	tri := [3]int{1, 2, 3}
	for i, in := range tri {
		got := PrevVertex(tri, in)
		want := tri[(i+2)%len(tri)]
		if got != want {
			t.Errorf("PrevVertex(%v, %d) = %v, want %v", tri, in, got, want)
		}
	}

	assertPanic(tri, -1)
	assertPanic(tri, 4)
}

func TestNextVertex(t *testing.T) {
	assertPanic := func(tri [3]int, in int) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("NextVertex(%v, %d) did not panic, want panic", tri, in)
			}
		}()
		NextVertex(tri, in)
	}

	tri := [3]int{1, 2, 3}
	for i, in := range tri {
		got := NextVertex(tri, in)
		want := tri[(i+1)%len(tri)]
		if got != want {
			t.Errorf("NextVertex(%v, %d) = %v, want %v", tri, in, got, want)
		}
	}

	assertPanic(tri, -1)
	assertPanic(tri, 4)
}

// Benchmarks

func BenchmarkConvexHull(b *testing.B) {
	sizes := []int{1e+2, 1e+3, 1e+4, 1e+5}
	for _, pointsCnt := range sizes {
		b.Run(fmt.Sprintf("N%d", pointsCnt), func(b *testing.B) {
			points := utils.GenerateRandomPoints(pointsCnt, 0)
			v3 := make([]r3.Vector, len(points))
			for i, p := range points {
				v3[i] = r3.Vector{X: p.X, Y: p.Y, Z: p.X*p.X + p.Y*p.Y}
			}

			qh := new(quickhull.QuickHull)

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				qh.ConvexHull(v3, true, true, 0)
			}
		})
	}
}

func BenchmarkNewTriangulation(b *testing.B) {
	sizes := []int{1e+2, 1e+3, 1e+4, 1e+5}
	for _, pointsCnt := range sizes {
		b.Run(fmt.Sprintf("N%d", pointsCnt), func(b *testing.B) {
			points := utils.GenerateRandomPoints(pointsCnt, 0)

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				_, err := NewTriangulation(points)
				if err != nil {
					b.Fatalf("NewTriangulation(...) error = %v, want nil", err)
				}
			}
		})
	}
}

// Helpers

func mustNewTriangulation(t *testing.T, n int) *Triangulation {
	t.Helper()
	vertices := utils.GenerateRandomPoints(n, 0)

	dt, err := NewTriangulation(vertices)
	if err != nil {
		t.Fatalf("NewTriangulation(...) error = %v, want nil", err)
	}
	return dt
}

func circumcenter(a, b, c r2.Point) r2.Point {
	ab, ac := b.Sub(a), c.Sub(a)
	d := 2 * ab.Cross(ac)
	ab2, ac2 := ab.Dot(ab), ac.Dot(ac)
	return r2.Point{
		X: a.X + (ac.Y*ab2-ab.Y*ac2)/d,
		Y: a.Y + (ab.X*ac2-ac.X*ab2)/d,
	}
}

func cyclicEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	n := len(a)
	for i := range n {
		if b[0] != a[i] {
			continue
		}

		equal := true
		for j := range n {
			if a[(i+j)%n] != b[j] {
				equal = false
				break
			}
		}
		if equal {
			return true
		}
	}

	return false
}
