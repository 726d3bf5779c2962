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
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// InitializeScheme returns a function that sets the initial layer
// thicknesses for scheme s. The user-defined scheme leaves them to the
// hook.
func InitializeScheme(s Scheme) DomainManipulator {
	return func(_ context.Context, d *VertCoord) error {
		switch s {
		case Sigma:
			InitializeSigmaCoordinate(d.Grid, d.Physics, d.State)
		case Isopycnal:
			InitializeIsopycnalCoordinate(d.Grid, d.Physics)
		case Variational:
			InitializeVariationalCoordinate(d.Grid, d.Physics)
		case User:
		default:
			return fmt.Errorf("vcoord: invalid scheme %v", s)
		}
		return nil
	}
}

// UserInit returns a function that runs the initialization hook.
func UserInit() DomainManipulator {
	return func(_ context.Context, d *VertCoord) error {
		if err := d.Hook.InitializeVerticalCoordinate(d.Grid, d.Params, d.Physics, d.State, d.Comm.Rank()); err != nil {
			return fmt.Errorf("vcoord: user-defined initialization: %v", err)
		}
		return nil
	}
}

// UserUpdate returns a function that runs the update hook.
func UserUpdate() DomainManipulator {
	return func(_ context.Context, d *VertCoord) error {
		if err := d.Hook.UserDefinedVerticalCoordinate(d.Grid, d.Params, d.Physics, d.State, d.Comm.Rank()); err != nil {
			return fmt.Errorf("vcoord: user-defined update: %v", err)
		}
		return nil
	}
}

// SigmaUpdate returns a function that recomputes the sigma layer
// thicknesses from the current free-surface elevation.
func SigmaUpdate() DomainManipulator {
	return func(_ context.Context, d *VertCoord) error {
		UpdateSigmaCoordinate(d.Grid, d.Physics, d.State)
		return nil
	}
}

// CellMonitorFunction returns a function that calculates the cell monitor
// function with the given method.
func CellMonitorFunction(method MonitorMethod) DomainManipulator {
	f := CellMonitor(method)
	return func(_ context.Context, d *VertCoord) error {
		f(d.Grid, d.Params, d.Physics, d.State)
		return nil
	}
}

// EdgeMonitorFunction returns a function that calculates the local
// horizontal density gradients and then normalizes them across all
// processes into the edge monitor function. Every process must run it in
// the same cycle.
func EdgeMonitorFunction() DomainManipulator {
	return func(ctx context.Context, d *VertCoord) error {
		EdgeMonitor(d.Grid, d.Params, d.Physics, d.State)
		return NormalizeEdgeMonitor(ctx, d.Comm, d.Grid, d.Params, d.State)
	}
}

// CheckColumnDepth returns a function that checks that every active layer
// has a positive, finite thickness and that the active layers of each cell
// are no thicker in total than the water column, within a relative
// tolerance of tol.
func CheckColumnDepth(tol float64) DomainManipulator {
	return func(_ context.Context, d *VertCoord) error {
		g := d.Grid
		for c := 0; c < g.Nc(); c++ {
			col := g.Column(c)
			for i, dz := range col {
				if !(dz > 0) || math.IsInf(dz, 0) {
					return fmt.Errorf("vcoord: cell %d layer %d has invalid thickness %g", c, g.Ctop(c)+i, dz)
				}
			}
			depth := columnDepth(g, d.Physics, c)
			if sum := floats.Sum(col); sum > depth*(1+tol) {
				return fmt.Errorf("vcoord: cell %d: layers are %g m thick in total but the water column is %g m deep", c, sum, depth)
			}
		}
		return nil
	}
}

// Log returns a function that logs the status of every update cycle.
func Log() DomainManipulator {
	startTime := time.Now()
	stepTime := time.Now()

	return func(_ context.Context, d *VertCoord) error {
		fields := logrus.Fields{
			"cycle":     d.Cycle,
			"rank":      d.Comm.Rank(),
			"walltime":  time.Since(startTime).Round(time.Millisecond),
			"Δwalltime": time.Since(stepTime).Round(time.Millisecond),
		}
		if d.Scheme == Variational && d.Method == VariationalMethod {
			fields["maxGradientH"] = d.State.MaxGradientH
			fields["maxGradientHReduced"] = d.State.MaxGradientHReduced
		}
		d.Log.WithFields(fields).Info("updated vertical coordinate")
		stepTime = time.Now()
		return nil
	}
}
