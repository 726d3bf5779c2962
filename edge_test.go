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
	"math"
	"testing"
)

func TestEdgeMonitorBoundary(t *testing.T) {
	g, err := NewGrid(4,
		[]CellInfo{{Depth: 10, Nk: 4}},
		[]EdgeInfo{
			{Cells: [2]int{0, NoNeighbor}, Nke: 4, Distance: 100},
			{Cells: [2]int{NoNeighbor, 0}, Nke: 3, Etop: 1, Distance: 100},
		})
	if err != nil {
		t.Fatal(err)
	}
	phys := NewPhysicsState(g)
	for k, rho := range []float64{1000, 1001, 1003, 1006} {
		phys.SetRho(0, k, rho)
	}
	InitializeVariationalCoordinate(g, phys)
	p := DefaultParams()
	s := NewMonitorFieldState(g)
	for k := 0; k <= 4; k++ {
		s.setMeL(1, k, 7)
	}

	EdgeMonitor(g, p, phys, s)
	for j := 0; j < 2; j++ {
		for k := 0; k <= g.Nke(j); k++ {
			if s.MeLAt(j, k) != 0 {
				t.Errorf("edge %d interface %d: MeL=%g, want 0", j, k, s.MeLAt(j, k))
			}
		}
	}
	if s.MeLAt(1, 4) != 7 {
		t.Errorf("interface below Nke changed to %g", s.MeLAt(1, 4))
	}
	if s.MaxGradientH != 0 {
		t.Errorf("MaxGradientH=%g, want 0", s.MaxGradientH)
	}

	if err := NormalizeEdgeMonitor(context.Background(), Local{}, g, p, s); err != nil {
		t.Fatal(err)
	}
	for k := 0; k <= 4; k++ {
		if s.MeLAt(0, k) != p.Monitor.AlphaHDiffusion {
			t.Errorf("normalized edge 0 interface %d: MeL=%g, want %g", k, s.MeLAt(0, k), p.Monitor.AlphaHDiffusion)
		}
	}
	if s.MeLAt(1, 0) != 0 {
		t.Errorf("normalized interface above etop: MeL=%g, want 0", s.MeLAt(1, 0))
	}
}

func TestEdgeMonitorTwoCells(t *testing.T) {
	const tolerance = 1e-10
	g, phys := pair(4, 1000, 1005, 100)
	InitializeVariationalCoordinate(g, phys)
	p := DefaultParams()
	s := NewMonitorFieldState(g)

	EdgeMonitor(g, p, phys, s)
	grad := p.Rho0 * p.Gravity / 10 * (1000 - 1005) / 100
	for k := 0; k <= 4; k++ {
		if different(s.MeLAt(0, k), grad, tolerance) {
			t.Errorf("interface %d: MeL=%.12g, want %.12g", k, s.MeLAt(0, k), grad)
		}
	}
	if different(s.MaxGradientH, math.Abs(grad), tolerance) {
		t.Errorf("MaxGradientH=%g, want %g", s.MaxGradientH, math.Abs(grad))
	}

	if err := NormalizeEdgeMonitor(context.Background(), Local{}, g, p, s); err != nil {
		t.Fatal(err)
	}
	if s.MaxGradientHReduced != s.MaxGradientH {
		t.Errorf("MaxGradientHReduced=%g, want %g", s.MaxGradientHReduced, s.MaxGradientH)
	}
	if s.MaxGradientHGlobal != 1 {
		t.Errorf("MaxGradientHGlobal=%g, want 1", s.MaxGradientHGlobal)
	}
	want := p.Monitor.AlphaHDiffusion * math.Sqrt(1+2*p.Monitor.AlphaV*grad*grad)
	for k := 0; k <= 4; k++ {
		if different(s.MeLAt(0, k), want, tolerance) {
			t.Errorf("normalized interface %d: MeL=%.12g, want %.12g", k, s.MeLAt(0, k), want)
		}
	}
}

func TestEdgeMonitorInterfaceWeights(t *testing.T) {
	const tolerance = 1e-10
	g, phys := pair(2, 1000, 1000, 10)
	phys.SetRho(0, 1, 1010)
	g.SetDzz(0, 0, 1)
	g.SetDzz(0, 1, 3)
	g.SetDzz(1, 0, 2)
	g.SetDzz(1, 1, 2)
	p := DefaultParams()
	s := NewMonitorFieldState(g)
	EdgeMonitor(g, p, phys, s)

	// The interface density in cell 0 leans toward the thinner upper layer.
	rho1 := 1./4*1010 + 3./4*1000
	want := p.Rho0 * p.Gravity / 10 * (rho1 - 1000) / 10
	if different(s.MeLAt(0, 1), want, tolerance) {
		t.Errorf("interface 1: MeL=%.12g, want %.12g", s.MeLAt(0, 1), want)
	}
	if s.MeLAt(0, 0) != 0 {
		t.Errorf("top interface: MeL=%g, want 0", s.MeLAt(0, 0))
	}
	if want := p.Rho0 * p.Gravity / 10 * 10 / 10; different(s.MeLAt(0, 2), want, tolerance) {
		t.Errorf("bottom interface: MeL=%.12g, want %.12g", s.MeLAt(0, 2), want)
	}
}
