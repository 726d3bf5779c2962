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

import "math"

// EdgeMonitor calculates the horizontal density gradient across every
// edge at every active layer interface and stores it in s.MeL. The
// gradient is not yet converted into a monitor value; that happens in
// NormalizeEdgeMonitor once the largest gradient across all processes is
// known. The largest local gradient magnitude is stored in s.MaxGradientH.
//
// On boundary edges the missing neighbor is replaced by the existing one,
// so the gradient there is zero.
func EdgeMonitor(g *Grid, p *Params, phys PhysicsStateView, s *MonitorFieldState) {
	scale := p.gradientScale()
	s.MaxGradientH = calculate(g.Ne(), func(j int) float64 {
		nc1, nc2 := g.Grad(j)
		if nc1 == NoNeighbor {
			nc1 = nc2
		}
		if nc2 == NoNeighbor {
			nc2 = nc1
		}
		etop, nke := g.Etop(j), g.Nke(j)
		dg := g.Dg(j)

		for k := 0; k <= nke; k++ {
			s.setMeL(j, k, 0)
		}
		gmax := 0.
		set := func(k int, rho1, rho2 float64) {
			v := scale * (rho1 - rho2) / dg
			s.setMeL(j, k, v)
			if math.Abs(v) > gmax {
				gmax = math.Abs(v)
			}
		}
		for k := etop + 1; k < nke; k++ {
			set(k, interfaceDensity(g, phys, nc1, k), interfaceDensity(g, phys, nc2, k))
		}
		set(etop, phys.Rho(nc1, etop), phys.Rho(nc2, etop))
		set(nke, phys.Rho(nc1, nke-1), phys.Rho(nc2, nke-1))
		return gmax
	})
}

// interfaceDensity returns the density of cell c at the interface between
// layers k-1 and k, interpolated with weights given by the thickness of
// the opposite layer.
func interfaceDensity(g *Grid, phys PhysicsStateView, c, k int) float64 {
	above, below := g.Dzz(c, k-1), g.Dzz(c, k)
	return above/(below+above)*phys.Rho(c, k) + below/(below+above)*phys.Rho(c, k-1)
}
