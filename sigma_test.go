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
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestSigmaCoordinate(t *testing.T) {
	const tolerance = 1e-12
	g, phys := column(5, 5, 0, 20, 1.5, nil)
	s := NewMonitorFieldState(g)
	InitializeSigmaCoordinate(g, phys, s)

	if sum := floats.Sum(s.Dsigma); different(sum, 1, tolerance) {
		t.Errorf("dsigma sums to %g", sum)
	}
	for k := 0; k < 5; k++ {
		if s.Dsigma[k] != 0.2 {
			t.Errorf("dsigma[%d] = %g", k, s.Dsigma[k])
		}
		if different(g.Dzz(0, k), 4.3, tolerance) || g.DzzOld(0, k) != g.Dzz(0, k) {
			t.Errorf("layer %d: dzz=%g, dzzold=%g", k, g.Dzz(0, k), g.DzzOld(0, k))
		}
	}
	if sum := floats.Sum(g.Column(0)); different(sum, 21.5, tolerance) {
		t.Errorf("column sums to %g but should be 21.5", sum)
	}

	phys.Eta[0] = -0.5
	UpdateSigmaCoordinate(g, phys, s)
	for k := 0; k < 5; k++ {
		if different(g.Dzz(0, k), 3.9, tolerance) {
			t.Errorf("updated layer %d: dzz=%g", k, g.Dzz(0, k))
		}
		if different(g.DzzOld(0, k), 4.3, tolerance) {
			t.Errorf("updated layer %d: dzzold=%g", k, g.DzzOld(0, k))
		}
	}
}

func TestSigmaCoordinateShallowCell(t *testing.T) {
	g, phys := column(4, 3, 1, 8, 0, nil)
	s := NewMonitorFieldState(g)
	InitializeSigmaCoordinate(g, phys, s)
	want := []float64{0, 2, 2, 0}
	for k, w := range want {
		if g.Dzz(0, k) != w {
			t.Errorf("layer %d: have %g, want %g", k, g.Dzz(0, k), w)
		}
	}
}

func TestIsopycnalCoordinate(t *testing.T) {
	g, phys := column(4, 3, 1, 10, 2, nil)
	InitializeIsopycnalCoordinate(g, phys)
	for k := 0; k < 3; k++ {
		if g.Dzz(0, k) != 12./4 {
			t.Errorf("layer %d: have %g, want %g", k, g.Dzz(0, k), 12./4)
		}
		if g.DzzOld(0, k) != 0 {
			t.Errorf("layer %d: dzzold changed to %g", k, g.DzzOld(0, k))
		}
	}
	if g.Dzz(0, 3) != 0 {
		t.Errorf("inactive layer changed to %g", g.Dzz(0, 3))
	}
}

func TestVariationalCoordinate(t *testing.T) {
	g, phys := column(4, 4, 1, 10, 0, nil)
	g.SetDzz(0, 0, 7)
	InitializeVariationalCoordinate(g, phys)
	if g.Dzz(0, 0) != 7 {
		t.Errorf("layer above ctop changed to %g", g.Dzz(0, 0))
	}
	for k := 1; k < 4; k++ {
		if g.Dzz(0, k) != 2.5 || g.DzzOld(0, k) != 2.5 {
			t.Errorf("layer %d: dzz=%g, dzzold=%g", k, g.Dzz(0, k), g.DzzOld(0, k))
		}
	}
}
