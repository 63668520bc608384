// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/2dChan/cvtpmesh/halfedge"
	"github.com/2dChan/cvtpmesh/polymesh"
	"github.com/2dChan/cvtpmesh/voronoi"
	"github.com/golang/geo/r2"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{"Default", nil, false},
		{"Size", []Option{WithSize(100, 50)}, false},
		{"SizeZero", []Option{WithSize(0, 50)}, true},
		{"MarginNegative", []Option{WithMargin(-1)}, true},
		{"MarginTooLarge", []Option{WithSize(100, 50), WithMargin(25)}, true},
		{"Supersample", []Option{WithSupersample(3)}, false},
		{"SupersampleZero", []Option{WithSupersample(0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newOptions(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("newOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestViewport_Project(t *testing.T) {
	polys := []polygon{{points: []r2.Point{{X: 0, Y: 0}, {X: 2, Y: 1}}}}
	o := Options{Width: 420, Height: 220, Margin: 10}
	vp, err := newViewport(polys, o, 1)
	if err != nil {
		t.Fatalf("newViewport() error = %v, want nil", err)
	}
	tests := []struct {
		p      r2.Point
		wx, wy float64
	}{
		{r2.Point{X: 0, Y: 0}, 10, 210},
		{r2.Point{X: 2, Y: 1}, 410, 10},
		{r2.Point{X: 1, Y: 0.5}, 210, 110},
	}
	for _, tt := range tests {
		x, y := vp.project(tt.p)
		if x != tt.wx || y != tt.wy {
			t.Errorf("project(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.wx, tt.wy)
		}
	}
}

func TestMeshSVG(t *testing.T) {
	pm := mustTwoSquares(t)
	boundary := mustBoundary(t)
	sites := []r2.Point{{X: 0.5, Y: 0.5}, {X: 1.5, Y: 0.5}}

	var buf bytes.Buffer
	err := MeshSVG(&buf, pm, WithSize(400, 200), WithMargin(0), WithSites(sites), WithBoundary(boundary))
	if err != nil {
		t.Fatalf("MeshSVG() error = %v, want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatalf("MeshSVG() output is not an SVG document:\n%s", out)
	}
	checks := []struct {
		tag  string
		want int
	}{
		{"<polygon", pm.NumCells()},
		{"<circle", len(sites)},
		{"<line", 6},
		{"rgb(204,229,255)", 1},
		{"rgb(255,229,204)", 1},
	}
	for _, c := range checks {
		if got := strings.Count(out, c.tag); got != c.want {
			t.Errorf("count of %q = %d, want %d", c.tag, got, c.want)
		}
	}
}

func TestDiagramSVG(t *testing.T) {
	d := mustSquareWithCenter(t)

	var buf bytes.Buffer
	if err := DiagramSVG(&buf, d, WithTags([]int{0, 0, 0, 0, 3})); err != nil {
		t.Fatalf("DiagramSVG() error = %v, want nil", err)
	}
	if got := strings.Count(buf.String(), "<polygon"); got != 1 {
		t.Errorf("count of <polygon = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "rgb(214,245,214)") {
		t.Errorf("DiagramSVG() output misses the fill of subdomain 3")
	}

	err := DiagramSVG(&buf, d, WithTags([]int{1}))
	if err == nil {
		t.Errorf("DiagramSVG() with short tags error = nil, want error")
	}
}

func TestMeshSVG_Empty(t *testing.T) {
	pm := &polymesh.Mesh{CellOffsets: []int{0}}
	var buf bytes.Buffer
	if err := MeshSVG(&buf, pm); !errors.Is(err, ErrEmpty) {
		t.Errorf("MeshSVG() error = %v, want %v", err, ErrEmpty)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestMeshSVG_WriteError(t *testing.T) {
	if err := MeshSVG(failingWriter{}, mustTwoSquares(t)); err == nil {
		t.Errorf("MeshSVG() error = nil, want write error")
	}
}

func TestMeshImage(t *testing.T) {
	pm := mustTwoSquares(t)
	tests := []struct {
		name string
		k    int
		tol  int
	}{
		{"Plain", 1, 0},
		{"Supersampled", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := MeshImage(pm, WithSize(400, 200), WithMargin(0), WithSupersample(tt.k))
			if err != nil {
				t.Fatalf("MeshImage() error = %v, want nil", err)
			}
			if got := img.Bounds(); got != image.Rect(0, 0, 400, 200) {
				t.Fatalf("img.Bounds() = %v, want 400x200", got)
			}
			checkPixel(t, img, 100, 100, fillColor(1), tt.tol)
			checkPixel(t, img, 300, 100, fillColor(2), tt.tol)
		})
	}
}

func TestDiagramImage_EncodePNG(t *testing.T) {
	d := mustSquareWithCenter(t)
	img, err := DiagramImage(d, WithSize(64, 64), WithMargin(2), WithSites(d.Sites))
	if err != nil {
		t.Fatalf("DiagramImage() error = %v, want nil", err)
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("EncodePNG() error = %v, want nil", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v, want nil", err)
	}
	if got := decoded.Bounds(); got != image.Rect(0, 0, 64, 64) {
		t.Errorf("decoded.Bounds() = %v, want 64x64", got)
	}
	// The center site is drawn over its cell.
	checkPixel(t, decoded, 32, 32, siteColor, 0)
}

func checkPixel(t *testing.T, img image.Image, x, y int, want color.RGBA, tol int) {
	t.Helper()
	got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	diff := func(a, b uint8) int {
		return max(int(a)-int(b), int(b)-int(a))
	}
	if diff(got.R, want.R) > tol || diff(got.G, want.G) > tol || diff(got.B, want.B) > tol {
		t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
	}
}

func mustTwoSquares(t *testing.T) *polymesh.Mesh {
	t.Helper()
	nodes := []r2.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1},
	}
	pm, err := polymesh.New(nodes, [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}})
	if err != nil {
		t.Fatalf("polymesh.New() error = %v, want nil", err)
	}
	pm.CellSubdomains = []int{1, 2}
	return pm
}

func mustBoundary(t *testing.T) *halfedge.Mesh {
	t.Helper()
	nodes := []r2.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	facets := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}}
	subdomains := [][2]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}, {1, 0}, {1, 0}}
	m, err := halfedge.FromEdges(nodes, facets, subdomains, nil)
	if err != nil {
		t.Fatalf("halfedge.FromEdges() error = %v, want nil", err)
	}
	return m
}

func mustSquareWithCenter(t *testing.T) *voronoi.Diagram {
	t.Helper()
	sites := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0.5, Y: 0.5}}
	d, err := voronoi.NewDiagram(sites)
	if err != nil {
		t.Fatalf("voronoi.NewDiagram() error = %v, want nil", err)
	}
	return d
}
