// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package halfedge

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates malformed construction or refinement arguments.
	ErrInvalidInput = errors.New("halfedge: invalid input")
	// ErrDegenerate indicates geometry that cannot be meshed, such as zero-length facets.
	ErrDegenerate = errors.New("halfedge: degenerate geometry")
	// ErrTopology indicates a broken twin, next/prev or cell invariant.
	ErrTopology = errors.New("halfedge: topology inconsistency")
)

// TopologyError reports which half-edge broke an invariant and during which operation.
// It unwraps to ErrTopology.
type TopologyError struct {
	HalfEdge int
	Op       string
	Reason   string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("halfedge: %s: half-edge %d: %s", e.Op, e.HalfEdge, e.Reason)
}

func (e *TopologyError) Unwrap() error {
	return ErrTopology
}
