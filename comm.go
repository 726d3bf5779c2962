/*
Copyright © 2019 the VCoord authors.
This file is part of VCoord.

VCoord is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

VCoord is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with VCoord.  If not, see <http://www.gnu.org/licenses/>.
*/

package vcoord

import "context"

// Communicator carries the collective operations that the processes
// sharing a domain use to agree on global quantities. Every process must
// call each collective operation the same number of times and in the same
// order.
type Communicator interface {
	// Rank is the index of this process.
	Rank() int

	// Size is the number of processes.
	Size() int

	// ReduceMax returns the largest v across all processes. The result is
	// only meaningful on the process with rank root.
	ReduceMax(ctx context.Context, v float64, root int) (float64, error)

	// Bcast returns the value of v given by the process with rank root.
	Bcast(ctx context.Context, v float64, root int) (float64, error)
}

// AllReducer is implemented by communicators that can compute a maximum
// and deliver it to every process in a single operation.
type AllReducer interface {
	AllReduceMax(ctx context.Context, v float64) (float64, error)
}

// Local is a Communicator for a simulation that runs in a single process.
type Local struct{}

// Rank returns 0.
func (Local) Rank() int { return 0 }

// Size returns 1.
func (Local) Size() int { return 1 }

// ReduceMax returns v.
func (Local) ReduceMax(_ context.Context, v float64, _ int) (float64, error) { return v, nil }

// Bcast returns v.
func (Local) Bcast(_ context.Context, v float64, _ int) (float64, error) { return v, nil }

// coordinatorRank is the rank that collects and redistributes global values.
const coordinatorRank = 0

// GlobalMax returns the largest v across all processes in c, identically
// on every process.
func GlobalMax(ctx context.Context, c Communicator, v float64) (float64, error) {
	if ar, ok := c.(AllReducer); ok {
		return ar.AllReduceMax(ctx, v)
	}
	m, err := c.ReduceMax(ctx, v, coordinatorRank)
	if err != nil {
		return 0, err
	}
	return c.Bcast(ctx, m, coordinatorRank)
}
