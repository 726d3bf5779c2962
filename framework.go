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

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Version gives the version number.
const Version = "0.1.0"

// VertCoord holds the current state of the vertical coordinate of one grid
// partition.
type VertCoord struct {
	Grid    *Grid
	Physics PhysicsStateView
	Params  *Params
	State   *MonitorFieldState

	Scheme Scheme
	Method MonitorMethod

	// Comm connects the processes that share the domain. If it is nil,
	// the simulation is assumed to run in a single process.
	Comm Communicator

	// Hook is called alongside initialization and every update.
	Hook UserHook

	// Log receives status messages. If it is nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger

	// InitFuncs are functions to be called in the given order
	// at the beginning of the simulation.
	InitFuncs []DomainManipulator

	// RunFuncs are functions to be called in the given order
	// at every update cycle.
	RunFuncs []DomainManipulator

	// Cycle is the number of update cycles that have been started.
	Cycle int
}

// DomainManipulator is a class of functions that operate on the entire
// vertical coordinate state.
type DomainManipulator func(ctx context.Context, d *VertCoord) error

// Init initializes the vertical coordinate by running d.InitFuncs.
func (d *VertCoord) Init(ctx context.Context) error {
	d.setDefaults()
	for _, f := range d.InitFuncs {
		if err := f(ctx, d); err != nil {
			return err
		}
	}
	d.Log.WithFields(logrus.Fields{
		"scheme": d.Scheme,
		"rank":   d.Comm.Rank(),
		"cells":  d.Grid.Nc(),
		"edges":  d.Grid.Ne(),
		"layers": d.Grid.Nkmax(),
	}).Info("initialized vertical coordinate")
	return nil
}

// Step carries out one update cycle by running d.RunFuncs.
func (d *VertCoord) Step(ctx context.Context) error {
	d.setDefaults()
	d.Cycle++
	for _, f := range d.RunFuncs {
		if err := f(ctx, d); err != nil {
			return fmt.Errorf("vcoord: cycle %d: %v", d.Cycle, err)
		}
	}
	return nil
}

// Run carries out the given number of update cycles, stopping early if ctx
// is canceled.
func (d *VertCoord) Run(ctx context.Context, steps int) error {
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *VertCoord) setDefaults() {
	if d.Comm == nil {
		d.Comm = Local{}
	}
	if d.Hook == nil {
		d.Hook = NoopHook{}
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.Params == nil {
		d.Params = DefaultParams()
	}
	if d.State == nil {
		d.State = NewMonitorFieldState(d.Grid)
	}
}

// calculate concurrently runs f on every index in [0, n), distributing the
// indices among the available processors, and returns the largest value
// returned by f, or zero if it is larger.
func calculate(n int, f func(i int) float64) float64 {
	nprocs := runtime.GOMAXPROCS(0) // number of processors
	maxima := make([]float64, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for ii := pp; ii < n; ii += nprocs {
				if v := f(ii); v > maxima[pp] {
					maxima[pp] = v
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
	return floats.Max(maxima)
}
