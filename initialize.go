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

// InitializeIsopycnalCoordinate sets the initial layer thicknesses for the
// isopycnal coordinate by splitting each column into Nkmax equal parts.
// Every layer from the surface to Nk is set; dzzold is left unchanged.
func InitializeIsopycnalCoordinate(g *Grid, phys PhysicsStateView) {
	ratio := 1. / float64(g.Nkmax())
	for i := 0; i < g.Nc(); i++ {
		depth := columnDepth(g, phys, i)
		for k := 0; k < g.Nk(i); k++ {
			g.SetDzz(i, k, ratio*depth)
		}
	}
}

// InitializeVariationalCoordinate sets the initial layer thicknesses for
// the variational coordinate. It is a cold start: the active layers of each
// column get 1/Nkmax of the column depth, and the monitor-driven
// redistribution refines them on later steps.
func InitializeVariationalCoordinate(g *Grid, phys PhysicsStateView) {
	ratio := 1. / float64(g.Nkmax())
	for i := 0; i < g.Nc(); i++ {
		depth := columnDepth(g, phys, i)
		for k := g.Ctop(i); k < g.Nk(i); k++ {
			g.SetDzz(i, k, ratio*depth)
			g.SetDzzOld(i, k, g.Dzz(i, k))
		}
	}
}

// UserHook is an extension point for alternative vertical coordinates.
// InitializeVerticalCoordinate runs alongside initialization and
// UserDefinedVerticalCoordinate runs alongside every coordinate update.
type UserHook interface {
	InitializeVerticalCoordinate(g *Grid, p *Params, phys PhysicsStateView, s *MonitorFieldState, myproc int) error
	UserDefinedVerticalCoordinate(g *Grid, p *Params, phys PhysicsStateView, s *MonitorFieldState, myproc int) error
}

// NoopHook is a UserHook that does nothing.
type NoopHook struct{}

// InitializeVerticalCoordinate does nothing.
func (NoopHook) InitializeVerticalCoordinate(*Grid, *Params, PhysicsStateView, *MonitorFieldState, int) error {
	return nil
}

// UserDefinedVerticalCoordinate does nothing.
func (NoopHook) UserDefinedVerticalCoordinate(*Grid, *Params, PhysicsStateView, *MonitorFieldState, int) error {
	return nil
}
