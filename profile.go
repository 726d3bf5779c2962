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
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var profileUnits = map[string]string{
	"dzz":    "m",
	"dzzold": "m",
	"Mc":     "-",
	"rho":    "kg/m³",
}

// VerticalProfile returns the depth below the free surface of the center of
// each active layer of cell c, together with the value of variable in that
// layer. Valid variables are "dzz", "dzzold", "Mc", and "rho".
func VerticalProfile(g *Grid, phys PhysicsStateView, s *MonitorFieldState, variable string, c int) (depth, vals []float64, err error) {
	if _, ok := profileUnits[variable]; !ok {
		return nil, nil, fmt.Errorf("vcoord: invalid profile variable %q", variable)
	}
	if c < 0 || c >= g.Nc() {
		return nil, nil, fmt.Errorf("vcoord: cell %d is not in the grid", c)
	}
	var top float64
	for k := g.Ctop(c); k < g.Nk(c); k++ {
		dz := g.Dzz(c, k)
		depth = append(depth, top+dz/2)
		top += dz
		var v float64
		switch variable {
		case "dzz":
			v = dz
		case "dzzold":
			v = g.DzzOld(c, k)
		case "Mc":
			v = s.McAt(c, k)
		case "rho":
			v = phys.Rho(c, k)
		}
		vals = append(vals, v)
	}
	return depth, vals, nil
}

// ProfilePlot writes a PNG plot of the vertical profile of variable in
// cell c to w.
func ProfilePlot(w io.Writer, g *Grid, phys PhysicsStateView, s *MonitorFieldState, variable string, c int) error {
	depth, vals, err := VerticalProfile(g, phys, s, variable, c)
	if err != nil {
		return err
	}
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = fmt.Sprintf("%v vertical\nprofile in cell %d", variable, c)
	p.X.Label.Text = "Depth (m)"
	p.Y.Label.Text = profileUnits[variable]
	xy := make(plotter.XYs, len(depth))
	for i, d := range depth {
		xy[i].X = d
		xy[i].Y = vals[i]
	}
	if err = plotutil.AddLinePoints(p, xy); err != nil {
		return err
	}
	wt, err := p.WriterTo(4*vg.Inch, 3*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
