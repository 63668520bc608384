// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides helpers for generating planar point sets for meshing and
// Voronoi diagrams.
package utils

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

// GenerateRandomPoints generates uniformly distributed points in the unit square.
// The seed parameter ensures reproducibility.
func GenerateRandomPoints(cnt int, seed int64) []r2.Point {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	return RandomPointsInRect(random, cnt, r2.RectFromPoints(r2.Point{}, r2.Point{X: 1, Y: 1}))
}

// RandomPointsInRect draws cnt uniformly distributed points inside rect from random.
func RandomPointsInRect(random *rand.Rand, cnt int, rect r2.Rect) []r2.Point {
	lo := rect.Lo()
	size := rect.Size()
	points := make([]r2.Point, cnt)
	for i := range cnt {
		points[i] = r2.Point{
			X: lo.X + random.Float64()*size.X,
			Y: lo.Y + random.Float64()*size.Y,
		}
	}
	return points
}
