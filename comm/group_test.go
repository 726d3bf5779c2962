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

package comm_test

import (
	"context"
	"testing"

	"github.com/spatialmodel/vcoord"
	"github.com/spatialmodel/vcoord/comm"
	"golang.org/x/sync/errgroup"
)

var (
	_ vcoord.Communicator = (*comm.Member)(nil)
	_ vcoord.Communicator = (*comm.Endpoint)(nil)
	_ vcoord.AllReducer   = (*comm.Endpoint)(nil)
)

func TestGroup(t *testing.T) {
	const n = 4
	members := comm.NewGroup(n)
	ctx := context.Background()
	var eg errgroup.Group
	for _, m := range members {
		m := m
		eg.Go(func() error {
			if m.Size() != n {
				t.Errorf("rank %d: size=%d", m.Rank(), m.Size())
			}
			for cycle := 0; cycle < 3; cycle++ {
				root := cycle % n
				v := float64(m.Rank() + 10*cycle)
				max, err := m.ReduceMax(ctx, v, root)
				if err != nil {
					return err
				}
				if m.Rank() == root && max != float64(n-1+10*cycle) {
					t.Errorf("cycle %d: ReduceMax=%g", cycle, max)
				}
				b, err := m.Bcast(ctx, v, root)
				if err != nil {
					return err
				}
				if b != float64(root+10*cycle) {
					t.Errorf("cycle %d, rank %d: Bcast=%g", cycle, m.Rank(), b)
				}
				global, err := vcoord.GlobalMax(ctx, m, v)
				if err != nil {
					return err
				}
				if global != float64(n-1+10*cycle) {
					t.Errorf("cycle %d, rank %d: GlobalMax=%g", cycle, m.Rank(), global)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestGroupCanceled(t *testing.T) {
	members := comm.NewGroup(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := members[0].ReduceMax(ctx, 1, 0); err == nil {
		t.Error("root ReduceMax: expected an error")
	}
	if _, err := members[1].Bcast(ctx, 1, 0); err == nil {
		t.Error("receiver Bcast: expected an error")
	}
}
