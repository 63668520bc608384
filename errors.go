// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cvtpmesh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation is called out of pipeline order.
	ErrInvalidState = errors.New("cvtpmesh: invalid state")
	// ErrInvalidArgument reports bad options or arguments.
	ErrInvalidArgument = errors.New("cvtpmesh: invalid argument")
	// ErrDegenerate marks geometry that had to be skipped or patched.
	ErrDegenerate = errors.New("cvtpmesh: degenerate geometry")
	// ErrSamplingExhausted marks a subdomain whose interior target was not reached.
	ErrSamplingExhausted = errors.New("cvtpmesh: sampling exhausted")
)

type WarningKind int

const (
	GeometryDegeneracy WarningKind = iota
	SamplingExhaustion
)

func (k WarningKind) String() string {
	switch k {
	case GeometryDegeneracy:
		return "geometry degeneracy"
	case SamplingExhaustion:
		return "sampling exhaustion"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// Warning is a non-fatal problem with a single entity. The mesher skips or patches the
// entity and carries on.
type Warning struct {
	Kind WarningKind
	// Entity names what was affected, e.g. "half-edge 12" or "subdomain 2".
	Entity string
	Err    error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %s: %v", w.Kind, w.Entity, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}
