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

package vcutil

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/vcoord"
	"github.com/spatialmodel/vcoord/comm"
	"golang.org/x/sync/errgroup"
)

// Run runs the vertical coordinate as specified by c. Depending on c, it
// runs a single partition, several partitions within this program, or one
// partition of a domain shared with other programs.
func Run(ctx context.Context, c *RunConfig) error {
	switch {
	case c.NProcs > 1:
		cm, closer, err := connect(ctx, c)
		if err != nil {
			return err
		}
		defer closer()
		return runPartition(ctx, c, cm)
	case c.Procs > 1:
		g, ctx := errgroup.WithContext(ctx)
		for _, m := range comm.NewGroup(c.Procs) {
			m := m
			g.Go(func() error { return runPartition(ctx, c, m) })
		}
		return g.Wait()
	default:
		return runPartition(ctx, c, vcoord.Local{})
	}
}

// connect joins the domain shared among c.NProcs programs. Rank 0 also
// hosts the coordinator.
func connect(ctx context.Context, c *RunConfig) (*comm.Endpoint, func(), error) {
	address := c.Coordinator
	var l net.Listener
	if c.Rank == 0 {
		var err error
		l, err = net.Listen("tcp", ":"+c.RPCPort)
		if err != nil {
			return nil, nil, fmt.Errorf("vcoord: starting coordinator: %v", err)
		}
		go func() {
			if err := comm.ServeCoordinator(l, c.NProcs); err != nil {
				logrus.WithError(err).Debug("coordinator stopped")
			}
		}()
		address = l.Addr().String()
	}
	e, err := comm.Dial(ctx, address, c.Rank, c.NProcs)
	if err != nil {
		if l != nil {
			l.Close()
		}
		return nil, nil, err
	}
	return e, func() {
		e.Close()
		if l != nil {
			l.Close()
		}
	}, nil
}

// setup loads the case file for the process with the rank of cm and
// initializes its vertical coordinate.
func setup(ctx context.Context, c *RunConfig, cm vcoord.Communicator) (*vcoord.VertCoord, error) {
	rank := cm.Rank()
	caseFile := rankPath(c.CaseFile, rank)
	f, err := os.Open(caseFile)
	if err != nil {
		return nil, fmt.Errorf("vcoord: opening case file: %v", err)
	}
	defer f.Close()
	g, phys, err := vcoord.LoadCase(f)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, caseFile)
	}

	opts := []vcoord.Option{
		vcoord.WithCommunicator(cm),
		vcoord.WithLogger(logrus.WithField("rank", rank)),
	}
	if c.CheckDepth >= 0 {
		opts = append(opts, vcoord.WithRunFuncs(vcoord.CheckColumnDepth(c.CheckDepth)))
	}
	d, err := vcoord.NewVertCoord(g, phys, c.Params, c.Scheme, c.Method, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Init(ctx); err != nil {
		return nil, err
	}
	if err := d.Run(ctx, c.Steps); err != nil {
		return nil, err
	}
	return d, nil
}

func runPartition(ctx context.Context, c *RunConfig, cm vcoord.Communicator) error {
	d, err := setup(ctx, c, cm)
	if err != nil {
		return err
	}
	outFile := rankPath(c.OutputFile, cm.Rank())
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("vcoord: creating output file: %v", err)
	}
	if err := vcoord.WriteFields(f, d.Grid, d.State); err != nil {
		f.Close()
		return err
	}
	d.Log.WithField("file", outFile).Info("wrote output")
	return f.Close()
}

// Profile runs a single partition as specified by c and writes a PNG plot
// of the vertical profile of variable in the given cell to plotFile.
func Profile(ctx context.Context, c *RunConfig, variable string, cell int, plotFile string) error {
	d, err := setup(ctx, c, vcoord.Local{})
	if err != nil {
		return err
	}
	f, err := os.Create(plotFile)
	if err != nil {
		return fmt.Errorf("vcoord: creating plot file: %v", err)
	}
	if err := vcoord.ProfilePlot(f, d.Grid, d.Physics, d.State, variable, cell); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
