// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package halfedge implements a planar half-edge mesh stored as an arena of records
// addressed by stable integer indices.
//
// Each input facet produces a twin pair of half-edges. Every half-edge keeps the
// subdomain on its left in Cell, so a bounded region is traced counter-clockwise by
// its outer boundary and clockwise around its holes. Refinement only appends nodes and
// half-edges; existing indices never move.
package halfedge
