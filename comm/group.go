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

// Package comm provides communicators for running a vertical coordinate
// simulation across several processes, either as goroutines within one
// program or as separate programs connected over the network.
package comm

import (
	"context"
	"math"
)

// Member is one process of an in-process group created by NewGroup.
type Member struct {
	rank int
	g    *group
}

type group struct {
	size int

	// reduce[root][sender] carries values from sender to root.
	reduce [][]chan float64

	// bcast[root][receiver] carries values from root to receiver.
	bcast [][]chan float64
}

// NewGroup creates n processes that communicate over channels. Each
// member is meant to be used by a single goroutine.
func NewGroup(n int) []*Member {
	g := &group{
		size:   n,
		reduce: make([][]chan float64, n),
		bcast:  make([][]chan float64, n),
	}
	for i := 0; i < n; i++ {
		g.reduce[i] = make([]chan float64, n)
		g.bcast[i] = make([]chan float64, n)
		for j := 0; j < n; j++ {
			g.reduce[i][j] = make(chan float64, 1)
			g.bcast[i][j] = make(chan float64, 1)
		}
	}
	members := make([]*Member, n)
	for i := range members {
		members[i] = &Member{rank: i, g: g}
	}
	return members
}

// Rank returns the index of m within its group.
func (m *Member) Rank() int { return m.rank }

// Size returns the number of members in the group.
func (m *Member) Size() int { return m.g.size }

// ReduceMax returns the largest v across the group on the member with rank
// root. Other members return their own v.
func (m *Member) ReduceMax(ctx context.Context, v float64, root int) (float64, error) {
	if m.rank != root {
		select {
		case m.g.reduce[root][m.rank] <- v:
			return v, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	max := v
	for sender, c := range m.g.reduce[root] {
		if sender == root {
			continue
		}
		select {
		case x := <-c:
			max = math.Max(max, x)
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return max, nil
}

// Bcast returns the v given by the member with rank root.
func (m *Member) Bcast(ctx context.Context, v float64, root int) (float64, error) {
	if m.rank != root {
		select {
		case x := <-m.g.bcast[root][m.rank]:
			return x, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	for receiver, c := range m.g.bcast[root] {
		if receiver == root {
			continue
		}
		select {
		case c <- v:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return v, nil
}
