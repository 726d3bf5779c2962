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
	"bytes"
	"testing"
)

func TestVerticalProfile(t *testing.T) {
	g, phys := column(4, 4, 0, 10, 0, []float64{1000, 1001, 1002, 1003})
	s := NewMonitorFieldState(g)
	InitializeSigmaCoordinate(g, phys, s)

	depth, rho, err := VerticalProfile(g, phys, s, "rho", 0)
	if err != nil {
		t.Fatal(err)
	}
	wantDepth := []float64{1.25, 3.75, 6.25, 8.75}
	if len(depth) != len(wantDepth) {
		t.Fatalf("have %d layers, want %d", len(depth), len(wantDepth))
	}
	for k, want := range wantDepth {
		if different(depth[k], want, 1.e-10) {
			t.Errorf("layer %d: depth=%g, want %g", k, depth[k], want)
		}
		if rho[k] != 1000+float64(k) {
			t.Errorf("layer %d: rho=%g", k, rho[k])
		}
	}

	if _, _, err := VerticalProfile(g, phys, s, "salinity", 0); err == nil {
		t.Error("expected an error for an invalid variable")
	}
	if _, _, err := VerticalProfile(g, phys, s, "dzz", 1); err == nil {
		t.Error("expected an error for an invalid cell")
	}
}

func TestVerticalProfileShallow(t *testing.T) {
	g, phys := column(4, 3, 1, 8, 0, nil)
	s := NewMonitorFieldState(g)
	InitializeSigmaCoordinate(g, phys, s)
	depth, dzz, err := VerticalProfile(g, phys, s, "dzz", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(depth) != 2 || depth[0] != 1 || depth[1] != 3 || dzz[0] != 2 || dzz[1] != 2 {
		t.Errorf("depth=%v, dzz=%v", depth, dzz)
	}
}

func TestProfilePlot(t *testing.T) {
	g, phys := column(4, 4, 0, 10, 0, []float64{1000, 1001, 1002, 1003})
	s := NewMonitorFieldState(g)
	InitializeSigmaCoordinate(g, phys, s)
	VariationalCellMonitor(g, DefaultParams(), phys, s)

	b := new(bytes.Buffer)
	if err := ProfilePlot(b, g, phys, s, "Mc", 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG image")
	}
	if err := ProfilePlot(b, g, phys, s, "salinity", 0); err == nil {
		t.Error("expected an error for an invalid variable")
	}
}
