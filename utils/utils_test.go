// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package utils

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateRandomPoints_Length(t *testing.T) {
	tests := []struct {
		name string
		cnt  int
		seed int64
	}{
		{"zero points", 0, 42},
		{"one point", 1, 42},
		{"ten points", 10, 0},
		{"hundred points", 100, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := GenerateRandomPoints(tt.cnt, tt.seed)
			if len(points) != tt.cnt {
				t.Errorf("GenerateRandomPoints(%v, %v) len = %v, want %v", tt.cnt, tt.seed,
					len(points), tt.cnt)
			}
		})
	}
}

func TestGenerateRandomPoints_InUnitSquare(t *testing.T) {
	const (
		cnt  = 100
		seed = 0
	)
	unit := r2.RectFromPoints(r2.Point{}, r2.Point{X: 1, Y: 1})
	points := GenerateRandomPoints(cnt, seed)
	for i, p := range points {
		if !unit.ContainsPoint(p) {
			t.Errorf("GenerateRandomPoints(%v, %v)[%d] = %v, want inside %v", cnt, seed, i, p, unit)
		}
	}
}

func TestGenerateRandomPoints_Determinism(t *testing.T) {
	const (
		cnt  = 10
		seed = 0
	)
	a := GenerateRandomPoints(cnt, seed)
	b := GenerateRandomPoints(cnt, seed)
	if diff := cmp.Diff(b, a); diff != "" {
		t.Errorf("GenerateRandomPoints(%v, %v) mismatch (-want +got):\n%v", cnt, seed, diff)
	}
}

func TestRandomPointsInRect(t *testing.T) {
	rect := r2.RectFromPoints(r2.Point{X: -2, Y: 3}, r2.Point{X: -1, Y: 7})
	//nolint:gosec
	random := rand.New(rand.NewSource(7))
	points := RandomPointsInRect(random, 500, rect)
	if len(points) != 500 {
		t.Fatalf("RandomPointsInRect(...) len = %v, want 500", len(points))
	}
	for i, p := range points {
		if !rect.ContainsPoint(p) {
			t.Errorf("RandomPointsInRect(...)[%d] = %v, want inside %v", i, p, rect)
		}
	}
}
