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

// InitializeSigmaCoordinate divides every layer into an equal fraction
// of the column, setting s.Dsigma and the thickness of every active layer.
// dzzold is set equal to dzz.
func InitializeSigmaCoordinate(g *Grid, phys PhysicsStateView, s *MonitorFieldState) {
	for k := 0; k < g.Nkmax(); k++ {
		s.Dsigma[k] = 1. / float64(g.Nkmax())
	}
	for i := 0; i < g.Nc(); i++ {
		depth := columnDepth(g, phys, i)
		for k := g.Ctop(i); k < g.Nk(i); k++ {
			g.SetDzz(i, k, s.Dsigma[k]*depth)
			g.SetDzzOld(i, k, g.Dzz(i, k))
		}
	}
}

// UpdateSigmaCoordinate recomputes the layer thicknesses from the existing
// sigma fractions and the current free-surface elevation, after saving
// the current thicknesses as the previous-step thicknesses.
func UpdateSigmaCoordinate(g *Grid, phys PhysicsStateView, s *MonitorFieldState) {
	g.ShiftDzz()
	for i := 0; i < g.Nc(); i++ {
		depth := columnDepth(g, phys, i)
		for k := g.Ctop(i); k < g.Nk(i); k++ {
			g.SetDzz(i, k, s.Dsigma[k]*depth)
		}
	}
}
