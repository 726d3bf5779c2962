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

import "github.com/ctessum/sparse"

// MonitorFieldState holds the fields computed by the coordinate schemes
// other than the layer thicknesses themselves. It is owned by the
// coordinate-update component and passed to every function that reads or
// writes it.
type MonitorFieldState struct {
	// Dsigma is the fractional thickness of each layer under the sigma
	// scheme. It sums to one.
	Dsigma []float64

	// Mc is the cell monitor function (cell, layer).
	Mc *sparse.DenseArray

	// Msum is the per-cell sum of 1/Mc, filled in by the average method only.
	Msum []float64

	// MeL is the edge monitor function (edge, interface). Interfaces are
	// numbered from the top of layer 0, so an edge with Nke active layers
	// has values at interfaces Etop through Nke inclusive.
	MeL *sparse.DenseArray

	MaxGradientH        float64 // largest local horizontal gradient magnitude
	MaxGradientHReduced float64 // largest horizontal gradient magnitude across all processes
	MaxGradientHGlobal  float64 // denominator used to normalize MeL
}

// NewMonitorFieldState allocates the monitor fields for g.
func NewMonitorFieldState(g GridTopologyView) *MonitorFieldState {
	return &MonitorFieldState{
		Dsigma:             make([]float64, g.Nkmax()),
		Mc:                 sparse.ZerosDense(g.Nc(), g.Nkmax()),
		Msum:               make([]float64, g.Nc()),
		MeL:                sparse.ZerosDense(g.Ne(), g.Nkmax()+1),
		MaxGradientHGlobal: 1,
	}
}

// McAt returns the cell monitor value of layer k in cell c.
func (s *MonitorFieldState) McAt(c, k int) float64 { return s.Mc.Get(c, k) }

// MeLAt returns the edge monitor value at interface k of edge e.
func (s *MonitorFieldState) MeLAt(e, k int) float64 { return s.MeL.Get(e, k) }

func (s *MonitorFieldState) setMc(c, k int, v float64) {
	s.Mc.Elements[s.Mc.Index1d(c, k)] = v
}

func (s *MonitorFieldState) setMeL(e, k int, v float64) {
	s.MeL.Elements[s.MeL.Index1d(e, k)] = v
}
